package update_working_hours

import (
	"context"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/service/barbers/models"
)

type BarberService interface {
	UpdateWorkingHours(ctx context.Context, barberID uuid.UUID, req *models.UpdateWorkingHoursRequest) (*models.WorkingHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
