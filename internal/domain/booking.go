package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusScheduled  BookingStatus = "scheduled"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// Valid returns true for known statuses
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo returns true if the status may move forward to next
// scheduled -> in_progress -> completed; scheduled -> completed.
// Отмена идет отдельным путем (Cancel) с проверкой cutoff
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusScheduled:
		return next == StatusInProgress || next == StatusCompleted
	case StatusInProgress:
		return next == StatusCompleted
	}
	return false
}

// Booking represents a customer's reservation of one barber for one interval
type Booking struct {
	ID         uuid.UUID
	BookingRef string // человекочитаемый код (BK-XXXXXXXX), генерируется БД
	CustomerID uuid.UUID
	BarberID   uuid.UUID
	ServiceID  uuid.UUID

	// Интервал [StartAt, EndAt)
	StartAt time.Time
	EndAt   time.Time

	Status      BookingStatus
	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies the barber and counts
// towards the customer's single active booking
func (b *Booking) IsActive() bool {
	return b.Status == StatusScheduled || b.Status == StatusInProgress
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeCancelled returns true if the status allows cancellation
// Временное ограничение (CancellationCutoff) проверяется отдельно
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusScheduled
}

// Overlaps returns true if [start, end) intersects the booking interval
func (b *Booking) Overlaps(start, end time.Time) bool {
	return Overlaps(b.StartAt, b.EndAt, start, end)
}

// BookingDetails booking joined with service, barber and customer data
// Используется в ответах API и в уведомлениях
type BookingDetails struct {
	Booking

	ServiceName   string
	ServicePrice  float64
	BarberName    string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// BarberBookingsFilter фильтр бронирований барбера за период
type BarberBookingsFilter struct {
	BarberID uuid.UUID
	// Интервал [From, To); бронирование попадает, если пересекается с ним
	From            time.Time
	To              time.Time
	IncludeInactive bool
}
