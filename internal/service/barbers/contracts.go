package barbers

import (
	"context"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/auth"
	"github.com/wellside/barber-booking/internal/domain"
)

// BarberRepository интерфейс репозитория барберов
type BarberRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Barber, error)
	List(ctx context.Context) ([]*domain.Barber, error)
	GetWorkingHours(ctx context.Context, barberID uuid.UUID) (*domain.WorkingHours, error)
	UpdateWorkingHours(ctx context.Context, hours *domain.WorkingHours) error
}

// IdentityProvider отдаёт текущего пользователя
type IdentityProvider interface {
	Current(ctx context.Context) (*auth.Identity, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
