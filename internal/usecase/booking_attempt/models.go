package booking_attempt

import (
	"time"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/domain"
	"github.com/wellside/barber-booking/internal/usecase/create_booking"
)

// Phase фаза попытки бронирования
type Phase string

const (
	PhaseCounting   Phase = "counting"
	PhaseConfirming Phase = "confirming"
	PhaseCancelled  Phase = "cancelled"
	PhaseConfirmed  Phase = "confirmed"
	PhaseError      Phase = "error"
)

// IsTerminal returns true for confirmed, cancelled and error
func (p Phase) IsTerminal() bool {
	return p == PhaseConfirmed || p == PhaseCancelled || p == PhaseError
}

// Settings параметры grace-сессий
type Settings struct {
	// GracePeriod длительность обратного отсчёта
	GracePeriod time.Duration
	// Retention сколько завершённая попытка остаётся доступной для чтения
	Retention time.Duration
}

// Snapshot состояние попытки на момент запроса
type Snapshot struct {
	AttemptID  uuid.UUID
	CustomerID uuid.UUID
	Phase      Phase
	Selection  domain.Selection
	StartedAt  time.Time
	Duration   time.Duration
	Elapsed    time.Duration
	Remaining  time.Duration
	Progress   float64
	FinishedAt *time.Time
	Booking    *create_booking.Response
	Err        error
}
