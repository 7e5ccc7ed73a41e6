package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/domain"
)

// Request модель запроса на фиксацию бронирования
type Request struct {
	Selection domain.Selection
}

// Response модель ответа с созданным бронированием
type Response struct {
	BookingID  uuid.UUID
	BookingRef string
	CustomerID uuid.UUID
	BarberID   uuid.UUID
	ServiceID  uuid.UUID
	StartAt    time.Time
	EndAt      time.Time
	Status     domain.BookingStatus
	CreatedAt  time.Time
}

// Settings параметры расписания бизнеса, по которым сверяется выбранный слот
type Settings struct {
	Location *time.Location
	Break    domain.BreakWindow
	Unit     time.Duration
	// Сколько дней вперёд от сегодняшнего можно бронировать, 0 = без ограничений
	MaxDaysAhead int
}
