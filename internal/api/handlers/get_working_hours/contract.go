package get_working_hours

import (
	"context"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/service/barbers/models"
)

type BarberService interface {
	GetWorkingHours(ctx context.Context, barberID uuid.UUID) (*models.WorkingHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
