package hiring

import (
	"errors"
	"testing"
	"time"
)

func TestBookingFlowHappyPath(t *testing.T) {
	flow := &BookingFlow{}
	if err := flow.RequestBooking(); err != nil {
		t.Fatalf("RequestBooking failed: %v", err)
	}
	if err := flow.ConfirmAvailability(); err != nil {
		t.Fatalf("ConfirmAvailability failed: %v", err)
	}
	if err := flow.SelectSchedule("2026-09-05", "10:00 AM"); err != nil {
		t.Fatalf("SelectSchedule failed: %v", err)
	}
	if flow.Step != StepConfirm {
		t.Fatalf("expected StepConfirm, got %s", flow.Step)
	}
}

func TestBookingFlowRejectsOutOfOrderSteps(t *testing.T) {
	flow := &BookingFlow{}
	if err := flow.SelectSchedule("2026-09-05", "10:00 AM"); !errors.Is(err, ErrStepOrder) {
		t.Fatalf("expected ErrStepOrder before availability check, got %v", err)
	}
	if err := flow.ConfirmAvailability(); !errors.Is(err, ErrStepOrder) {
		t.Fatalf("expected ErrStepOrder before booking request, got %v", err)
	}
}

func TestBookingFlowUnavailableResetsToDetails(t *testing.T) {
	flow := &BookingFlow{}
	if err := flow.RequestBooking(); err != nil {
		t.Fatalf("RequestBooking failed: %v", err)
	}
	if err := flow.StaffUnavailable(); err != nil {
		t.Fatalf("StaffUnavailable failed: %v", err)
	}
	if flow.Step != StepDetails || flow.Date != "" || flow.Slot != "" {
		t.Fatalf("expected reset flow, got %+v", flow)
	}
}

func TestBookingFlowRequiresDateAndSlot(t *testing.T) {
	flow := &BookingFlow{Step: StepSelectDate}
	if err := flow.SelectSchedule("", "10:00 AM"); !errors.Is(err, ErrScheduleRequired) {
		t.Fatalf("expected ErrScheduleRequired with no date, got %v", err)
	}
	if err := flow.SelectSchedule("2026-09-05", ""); !errors.Is(err, ErrScheduleRequired) {
		t.Fatalf("expected ErrScheduleRequired with no slot, got %v", err)
	}
}

func TestCanHireAllowsFreshAndOpenPairs(t *testing.T) {
	if err := CanHire(nil); err != nil {
		t.Fatalf("fresh pair should be hireable: %v", err)
	}
	open := &HiringStatus{Status: EngagementHired}
	if err := CanHire(open); err != nil {
		t.Fatalf("open hire should pass through for the idempotent write: %v", err)
	}
}

func TestClosedEngagementsAreTerminal(t *testing.T) {
	now := time.Now()
	dismissed := &HiringStatus{Status: EngagementHired, ActionStatus: ActionDismissed, EndDate: &now}
	suspended := &HiringStatus{Status: EngagementHired, ActionStatus: ActionSuspended, EndDate: &now}

	for _, closed := range []*HiringStatus{dismissed, suspended} {
		if err := CanHire(closed); !errors.Is(err, ErrEngagementClosed) {
			t.Fatalf("hire on closed engagement expected ErrEngagementClosed, got %v", err)
		}
		if err := CanDismiss(closed); !errors.Is(err, ErrEngagementClosed) {
			t.Fatalf("dismiss on closed engagement expected ErrEngagementClosed, got %v", err)
		}
		if err := CanSuspend(closed); !errors.Is(err, ErrEngagementClosed) {
			t.Fatalf("suspend on closed engagement expected ErrEngagementClosed, got %v", err)
		}
	}
}

func TestActionsRequireHiredPair(t *testing.T) {
	if err := CanDismiss(nil); !errors.Is(err, ErrNotHired) {
		t.Fatalf("dismiss with no engagement expected ErrNotHired, got %v", err)
	}
	if err := CanSuspend(nil); !errors.Is(err, ErrNotHired) {
		t.Fatalf("suspend with no engagement expected ErrNotHired, got %v", err)
	}
}
