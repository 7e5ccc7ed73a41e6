package start_booking_attempt

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/domain"
)

// StartAttemptRequest HTTP request model. Незаполненные части выбора передаются как null
type StartAttemptRequest struct {
	Service *ServiceSelection `json:"service"`
	Barber  *BarberSelection  `json:"barber"`
	Date    *string           `json:"date"` // YYYY-MM-DD
	Slot    *SlotSelection    `json:"slot"`
}

type ServiceSelection struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"durationMinutes"`
}

type BarberSelection struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type SlotSelection struct {
	Label   string    `json:"label"`
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
}

// ToSelection конвертирует HTTP запрос в выбор клиента
// Полнота выбора проверяется use case, здесь только разбор форматов
func (r *StartAttemptRequest) ToSelection() (domain.Selection, error) {
	var selection domain.Selection

	if r.Service != nil {
		selection.Service = &domain.ServiceSelection{
			ID:              r.Service.ID,
			Name:            r.Service.Name,
			Price:           r.Service.Price,
			DurationMinutes: r.Service.DurationMinutes,
		}
	}

	if r.Barber != nil {
		selection.Barber = &domain.BarberSelection{
			ID:   r.Barber.ID,
			Name: r.Barber.Name,
		}
	}

	if r.Date != nil && *r.Date != "" {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return domain.Selection{}, fmt.Errorf("invalid date: %w", err)
		}
		selection.Date = &date
	}

	if r.Slot != nil {
		selection.Slot = &domain.Slot{
			Label:   r.Slot.Label,
			StartAt: r.Slot.StartAt,
			EndAt:   r.Slot.EndAt,
		}
	}

	return selection, nil
}
