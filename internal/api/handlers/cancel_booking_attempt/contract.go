package cancel_booking_attempt

import (
	"context"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/usecase/booking_attempt"
)

type AttemptManager interface {
	Cancel(ctx context.Context, attemptID uuid.UUID) (*booking_attempt.Snapshot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
