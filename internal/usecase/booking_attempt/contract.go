package booking_attempt

import (
	"context"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/auth"
	"github.com/wellside/barber-booking/internal/domain"
	"github.com/wellside/barber-booking/internal/usecase/create_booking"
)

// Committer фиксирует бронирование по окончании grace-периода
type Committer interface {
	Execute(ctx context.Context, req *create_booking.Request) (*create_booking.Response, error)
}

// IdentityProvider отдаёт текущего пользователя
type IdentityProvider interface {
	Current(ctx context.Context) (*auth.Identity, error)
}

// SnapshotStore хранит незавершённые попытки, чтобы их можно было продолжить после перезапуска
type SnapshotStore interface {
	Save(ctx context.Context, record *domain.AttemptRecord) error
	Load(ctx context.Context, attemptID uuid.UUID) (*domain.AttemptRecord, error)
	Delete(ctx context.Context, attemptID uuid.UUID) error
	ListPending(ctx context.Context) ([]uuid.UUID, error)
}

// Metrics счётчик переходов между фазами
type Metrics interface {
	RecordGracePhase(phase string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
