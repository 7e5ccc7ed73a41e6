package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	BarberID uuid.UUID // ID барбера
	Date     time.Time // Календарная дата в часовом поясе бизнеса (время игнорируется)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	BarberID uuid.UUID
	Date     time.Time
	Slots    []domain.Slot // Упорядочены по времени начала
}

// Settings параметры расписания бизнеса
type Settings struct {
	Location *time.Location
	Break    domain.BreakWindow
	Unit     time.Duration
	// Сколько дней вперёд от сегодняшнего можно бронировать, 0 = без ограничений
	MaxDaysAhead int
}
