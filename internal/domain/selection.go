package domain

import (
	"time"

	"github.com/google/uuid"
)

// ServiceSelection service chosen by the customer
type ServiceSelection struct {
	ID              uuid.UUID
	Name            string
	Price           float64
	DurationMinutes int
}

// BarberSelection barber chosen by the customer
type BarberSelection struct {
	ID   uuid.UUID
	Name string
}

// Selection the customer's in-progress choice. Любое поле может быть не заполнено,
// пока клиент проходит шаги выбора
type Selection struct {
	Service *ServiceSelection
	Barber  *BarberSelection
	Date    *time.Time
	Slot    *Slot
}

// Missing returns names of the fields required to commit a booking that are not set
func (s Selection) Missing() []string {
	var missing []string
	if s.Service == nil || s.Service.ID == uuid.Nil {
		missing = append(missing, "service")
	}
	if s.Barber == nil || s.Barber.ID == uuid.Nil {
		missing = append(missing, "barber")
	}
	if s.Date == nil || s.Date.IsZero() {
		missing = append(missing, "date")
	}
	if s.Slot == nil || s.Slot.StartAt.IsZero() || s.Slot.EndAt.IsZero() {
		missing = append(missing, "slot")
	}
	return missing
}

// IsComplete returns true if all four parts of the selection are set
func (s Selection) IsComplete() bool {
	return len(s.Missing()) == 0
}
