package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/auth"
	"github.com/wellside/barber-booking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetDetailsByID(ctx context.Context, id uuid.UUID) (*domain.BookingDetails, error)
	GetUpcomingByCustomer(ctx context.Context, customerID uuid.UUID) (*domain.BookingDetails, error)
	GetByCustomer(ctx context.Context, customerID uuid.UUID, status *domain.BookingStatus) ([]*domain.BookingDetails, error)
	GetDetailsByBarberInRange(ctx context.Context, filter domain.BarberBookingsFilter) ([]*domain.BookingDetails, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) error
	Cancel(ctx context.Context, id uuid.UUID, cancelledAt time.Time) error
}

// IdentityProvider отдаёт текущего пользователя
type IdentityProvider interface {
	Current(ctx context.Context) (*auth.Identity, error)
}

// Notifier принимает события для асинхронной отправки уведомлений
type Notifier interface {
	Publish(event domain.BookingEvent)
}

// Metrics счётчики отмен
type Metrics interface {
	RecordBookingCancel(outcome string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальное время
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
