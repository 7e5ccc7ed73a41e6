package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/domain"
	getAvailableSlots "github.com/wellside/barber-booking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date     string          `json:"date"`
	BarberID uuid.UUID       `json:"barberId"`
	Slots    []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	Label   string    `json:"label"` // "9:00 AM - 10:00 AM"
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Label:   slot.Label,
			StartAt: slot.StartAt,
			EndAt:   slot.EndAt,
		}
	}

	return &AvailableSlotsResponse{
		Date:     resp.Date.Format(domain.DateFormat),
		BarberID: resp.BarberID,
		Slots:    slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(barberID uuid.UUID, dateStr string) (*getAvailableSlots.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		BarberID: barberID,
		Date:     date,
	}, nil
}
