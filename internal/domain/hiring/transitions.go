// The hiring state machine.
//
// Booking sequence (per staff candidate, no record written before Confirm):
//
//	Details ──► AvailabilityCheck ──► SelectDate ──► Confirm
//	               │ staff unavailable
//	               └──────► Details
//
// Engagement states for a (client, staff) pair:
//
//	(none) ──hire──► hired ──dismiss──► hired+dismissed   (terminal)
//	                  │
//	                  └───suspend────► hired+suspended    (support-only exit)
//
// Dismissed and suspended pairs accept no further transitions through this
// system; unsuspending is an out-of-band support action and writes nothing.
package hiring

import (
	"errors"
	"fmt"
)

var (
	ErrStepOrder        = errors.New("booking step out of order")
	ErrScheduleRequired = errors.New("date and time slot must both be selected")
	ErrNotHired         = errors.New("staff is not hired by this client")
	ErrEngagementClosed = errors.New("engagement already closed by a prior action")
)

type BookingStep int

const (
	StepDetails BookingStep = iota
	StepAvailabilityCheck
	StepSelectDate
	StepConfirm
)

func (s BookingStep) String() string {
	switch s {
	case StepDetails:
		return "details"
	case StepAvailabilityCheck:
		return "availability_check"
	case StepSelectDate:
		return "select_date"
	case StepConfirm:
		return "confirm"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// BookingFlow tracks one client's progress through the booking sequence.
// Purely in-memory; nothing is persisted until the Confirm step succeeds.
type BookingFlow struct {
	Step BookingStep
	Date string
	Slot string
}

// RequestBooking moves from the profile view into the availability check.
func (f *BookingFlow) RequestBooking() error {
	if f.Step != StepDetails {
		return ErrStepOrder
	}
	f.Step = StepAvailabilityCheck
	return nil
}

// ConfirmAvailability records that the client verified availability with the
// staff member out-of-band before any date can be picked.
func (f *BookingFlow) ConfirmAvailability() error {
	if f.Step != StepAvailabilityCheck {
		return ErrStepOrder
	}
	f.Step = StepSelectDate
	return nil
}

// StaffUnavailable aborts the sequence back to the profile view. No record
// is written.
func (f *BookingFlow) StaffUnavailable() error {
	if f.Step != StepAvailabilityCheck {
		return ErrStepOrder
	}
	f.Step = StepDetails
	f.Date, f.Slot = "", ""
	return nil
}

// SelectSchedule stores the chosen date and slot and advances to Confirm.
// Both must be present. Nothing checks for clashes with other bookings for
// the same staff; the out-of-band availability call covers that, not the
// system.
func (f *BookingFlow) SelectSchedule(date, slot string) error {
	if f.Step != StepSelectDate {
		return ErrStepOrder
	}
	if date == "" || slot == "" {
		return ErrScheduleRequired
	}
	f.Date, f.Slot = date, slot
	f.Step = StepConfirm
	return nil
}

// Engagement guards. A nil record means the pair has never been engaged.

// CanHire reports whether a hire may be applied to the pair. An existing
// open hire is allowed through: the write is idempotent and the second
// attempt becomes a no-op, not an error.
func CanHire(existing *HiringStatus) error {
	if existing == nil {
		return nil
	}
	if existing.Status == EngagementHired && existing.ActionStatus != ActionNone {
		return ErrEngagementClosed
	}
	return nil
}

func CanDismiss(existing *HiringStatus) error {
	return canAct(existing)
}

func CanSuspend(existing *HiringStatus) error {
	return canAct(existing)
}

func canAct(existing *HiringStatus) error {
	if existing == nil || existing.Status != EngagementHired {
		return ErrNotHired
	}
	if existing.ActionStatus != ActionNone {
		return ErrEngagementClosed
	}
	return nil
}
