package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/auth"
	"github.com/wellside/barber-booking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Booking, error)
}

// BarberRepository интерфейс репозитория барберов
type BarberRepository interface {
	GetWorkingHours(ctx context.Context, barberID uuid.UUID) (*domain.WorkingHours, error)
}

// IdentityProvider отдаёт текущего пользователя
type IdentityProvider interface {
	Current(ctx context.Context) (*auth.Identity, error)
}

// Notifier принимает события для асинхронной отправки уведомлений.
// Publish не должен блокировать и не возвращает ошибку
type Notifier interface {
	Publish(event domain.BookingEvent)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчики исходов финализации
type Metrics interface {
	RecordBookingCommit(outcome string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
