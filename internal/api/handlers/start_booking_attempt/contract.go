package start_booking_attempt

import (
	"context"

	"github.com/wellside/barber-booking/internal/domain"
	"github.com/wellside/barber-booking/internal/usecase/booking_attempt"
)

type AttemptManager interface {
	Start(ctx context.Context, selection domain.Selection) (*booking_attempt.Snapshot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
