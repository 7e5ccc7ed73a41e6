package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/pkg/types"
)

// ErrInvalidTimeWindow возвращается, если начало окна не раньше конца
var ErrInvalidTimeWindow = errors.New("domain: invalid time window")

// WorkingHours daily working window of a barber, wall-clock in business timezone
type WorkingHours struct {
	BarberID  uuid.UUID
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Validate checks format and StartTime < EndTime
func (w *WorkingHours) Validate() error {
	return validateWindow(w.StartTime, w.EndTime)
}

// BreakWindow business-wide daily break (19:00-20:00 by default)
type BreakWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// Validate checks format and Start < End within one day
func (b BreakWindow) Validate() error {
	return validateWindow(b.Start, b.End)
}

func validateWindow(start, end types.TimeString) error {
	if err := start.Validate(); err != nil {
		return fmt.Errorf("%w: start: %v", ErrInvalidTimeWindow, err)
	}
	if err := end.Validate(); err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalidTimeWindow, err)
	}
	if !start.IsBefore(end) {
		return fmt.Errorf("%w: %s is not before %s", ErrInvalidTimeWindow, start, end)
	}
	return nil
}

// WithinBookingHorizon проверяет, что календарная дата date не позже,
// чем сегодня (в loc) плюс maxDaysAhead дней. 0 = без ограничений
func WithinBookingHorizon(date, now time.Time, loc *time.Location, maxDaysAhead int) bool {
	if maxDaysAhead <= 0 {
		return true
	}
	if loc == nil {
		loc = time.UTC
	}
	ty, tm, td := now.In(loc).Date()
	maxDate := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).AddDate(0, 0, maxDaysAhead)

	dy, dm, dd := date.Date()
	return !time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC).After(maxDate)
}
