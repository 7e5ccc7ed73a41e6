package domain

import "github.com/google/uuid"

// BookingEventKind тип события, о котором уведомляются клиент и администратор
type BookingEventKind string

const (
	EventConfirmation BookingEventKind = "confirmation"
	EventCancellation BookingEventKind = "cancellation"
)

// Audience получатель уведомления
type Audience string

const (
	AudienceCustomer Audience = "customer"
	AudienceAdmin    Audience = "admin"
)

// BookingEvent событие жизненного цикла бронирования
type BookingEvent struct {
	Kind      BookingEventKind
	BookingID uuid.UUID
}
