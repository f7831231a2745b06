package hiring

import (
	"errors"
	"fmt"
	"time"
)

// Interviews run on a half-hour grid between 06:00 and 17:30. Labels use the
// 12-hour clock the booking UI shows ("6:00 AM" through "5:30 PM").
const (
	slotOpenHour  = 6
	slotCloseHour = 17
	slotCloseMin  = 30
	slotLayout    = "3:04 PM"
)

var (
	ErrInvalidSlot    = errors.New("time slot is not on the booking grid")
	ErrDateOutOfRange = errors.New("date is outside the booking horizon")
)

type Slot struct {
	Hour   int
	Minute int
}

func (s Slot) Label() string {
	return time.Date(0, 1, 1, s.Hour, s.Minute, 0, 0, time.UTC).Format(slotLayout)
}

// ParseSlot converts a grid label like "2:30 PM" into its 24-hour slot.
// Labels off the grid are rejected.
func ParseSlot(label string) (Slot, error) {
	parsed, err := time.Parse(slotLayout, label)
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, label)
	}
	slot := Slot{Hour: parsed.Hour(), Minute: parsed.Minute()}
	if slot.Minute != 0 && slot.Minute != 30 {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, label)
	}
	if slot.Hour < slotOpenHour {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, label)
	}
	if slot.Hour > slotCloseHour || (slot.Hour == slotCloseHour && slot.Minute > slotCloseMin) {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, label)
	}
	return slot, nil
}

// Slots returns the full booking grid in display order.
func Slots() []Slot {
	var out []Slot
	for hour := slotOpenHour; hour <= slotCloseHour; hour++ {
		out = append(out, Slot{Hour: hour, Minute: 0}, Slot{Hour: hour, Minute: 30})
	}
	return out
}

// CombineDateSlot builds the scheduled timestamp: the slot's wall-clock time
// on exactly the chosen calendar date. Deliberately DST-naive, no timezone
// conversion.
func CombineDateSlot(date time.Time, slot Slot) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), slot.Hour, slot.Minute, 0, 0, time.UTC)
}

// ValidateBookingDate enforces the horizon: from today up to horizonDays
// ahead, compared by calendar date.
func ValidateBookingDate(date, now time.Time, horizonDays int) error {
	day := truncateToDay(date)
	today := truncateToDay(now)
	if day.Before(today) {
		return ErrDateOutOfRange
	}
	if day.After(today.AddDate(0, 0, horizonDays)) {
		return ErrDateOutOfRange
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
