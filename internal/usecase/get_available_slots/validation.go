package get_available_slots

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}

	if req.BarberID == uuid.Nil {
		return fmt.Errorf("%w: barberID is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateHorizon проверяет, что дата не дальше горизонта бронирования
func validateHorizon(date, now time.Time, loc *time.Location, maxDaysAhead int) error {
	if !domain.WithinBookingHorizon(date, now, loc, maxDaysAhead) {
		return fmt.Errorf("%w: date %s is more than %d days ahead",
			ErrInvalidInput, date.Format(domain.DateFormat), maxDaysAhead)
	}
	return nil
}
