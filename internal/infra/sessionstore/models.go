package sessionstore

import (
	"time"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/domain"
)

// attemptDTO формат снимка попытки в Redis
type attemptDTO struct {
	ID          uuid.UUID   `json:"id"`
	CustomerID  uuid.UUID   `json:"customer_id"`
	Role        string      `json:"role"`
	Email       string      `json:"email,omitempty"`
	AuthExpires time.Time   `json:"auth_expires"`
	StartedAt   time.Time   `json:"started_at"`
	DurationMs  int64       `json:"duration_ms"`
	Service     *serviceDTO `json:"service,omitempty"`
	Barber      *barberDTO  `json:"barber,omitempty"`
	Date        *time.Time  `json:"date,omitempty"`
	Slot        *slotDTO    `json:"slot,omitempty"`
}

type serviceDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
}

type barberDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type slotDTO struct {
	Label   string    `json:"label"`
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

func toDTO(r *domain.AttemptRecord) attemptDTO {
	dto := attemptDTO{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		Role:        string(r.Role),
		Email:       r.Email,
		AuthExpires: r.AuthExpires,
		StartedAt:   r.StartedAt,
		DurationMs:  r.Duration.Milliseconds(),
		Date:        r.Selection.Date,
	}
	if s := r.Selection.Service; s != nil {
		dto.Service = &serviceDTO{ID: s.ID, Name: s.Name, Price: s.Price, DurationMinutes: s.DurationMinutes}
	}
	if b := r.Selection.Barber; b != nil {
		dto.Barber = &barberDTO{ID: b.ID, Name: b.Name}
	}
	if s := r.Selection.Slot; s != nil {
		dto.Slot = &slotDTO{Label: s.Label, StartAt: s.StartAt, EndAt: s.EndAt}
	}
	return dto
}

func (d attemptDTO) toRecord() *domain.AttemptRecord {
	r := &domain.AttemptRecord{
		ID:          d.ID,
		CustomerID:  d.CustomerID,
		Role:        domain.Role(d.Role),
		Email:       d.Email,
		AuthExpires: d.AuthExpires,
		StartedAt:   d.StartedAt,
		Duration:    time.Duration(d.DurationMs) * time.Millisecond,
		Selection:   domain.Selection{Date: d.Date},
	}
	if d.Service != nil {
		r.Selection.Service = &domain.ServiceSelection{
			ID:              d.Service.ID,
			Name:            d.Service.Name,
			Price:           d.Service.Price,
			DurationMinutes: d.Service.DurationMinutes,
		}
	}
	if d.Barber != nil {
		r.Selection.Barber = &domain.BarberSelection{ID: d.Barber.ID, Name: d.Barber.Name}
	}
	if d.Slot != nil {
		r.Selection.Slot = &domain.Slot{Label: d.Slot.Label, StartAt: d.Slot.StartAt, EndAt: d.Slot.EndAt}
	}
	return r
}
