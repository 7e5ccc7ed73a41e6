package get_active_booking

import (
	"context"

	"github.com/wellside/barber-booking/internal/service/bookings/models"
)

type BookingService interface {
	GetActive(ctx context.Context) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
