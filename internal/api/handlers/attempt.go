package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/wellside/barber-booking/internal/usecase/booking_attempt"
)

// AttemptResponse состояние попытки бронирования для клиента
// Клиент рисует обратный отсчёт по startedAt и durationMs, remainingMs дан на момент ответа
type AttemptResponse struct {
	AttemptID   uuid.UUID       `json:"attemptId"`
	Phase       string          `json:"phase"`
	StartedAt   time.Time       `json:"startedAt"`
	DurationMs  int64           `json:"durationMs"`
	ElapsedMs   int64           `json:"elapsedMs"`
	RemainingMs int64           `json:"remainingMs"`
	Progress    float64         `json:"progress"`
	FinishedAt  *time.Time      `json:"finishedAt,omitempty"`
	Booking     *AttemptBooking `json:"booking,omitempty"`
	Error       *AttemptError   `json:"error,omitempty"`
}

// AttemptBooking бронирование, созданное попыткой
type AttemptBooking struct {
	ID         uuid.UUID `json:"id"`
	BookingRef string    `json:"bookingRef"`
	BarberID   uuid.UUID `json:"barberId"`
	ServiceID  uuid.UUID `json:"serviceId"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	Status     string    `json:"status"`
}

// AttemptError ошибка финализации попытки
type AttemptError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// FromSnapshot конвертирует снимок попытки в HTTP модель
func FromSnapshot(s *booking_attempt.Snapshot) *AttemptResponse {
	resp := &AttemptResponse{
		AttemptID:   s.AttemptID,
		Phase:       string(s.Phase),
		StartedAt:   s.StartedAt,
		DurationMs:  s.Duration.Milliseconds(),
		ElapsedMs:   s.Elapsed.Milliseconds(),
		RemainingMs: s.Remaining.Milliseconds(),
		Progress:    s.Progress,
		FinishedAt:  s.FinishedAt,
	}

	if b := s.Booking; b != nil {
		resp.Booking = &AttemptBooking{
			ID:         b.BookingID,
			BookingRef: b.BookingRef,
			BarberID:   b.BarberID,
			ServiceID:  b.ServiceID,
			StartAt:    b.StartAt,
			EndAt:      b.EndAt,
			Status:     string(b.Status),
		}
	}

	if s.Err != nil {
		if be, ok := ClassifyBookingError(s.Err); ok {
			resp.Error = &AttemptError{
				Code:      be.Code,
				Message:   be.Message,
				Retryable: be.Code == CodeDataAccessError,
			}
		} else {
			resp.Error = &AttemptError{Code: CodeDataAccessError, Message: msgDataAccess, Retryable: true}
		}
	}

	return resp
}
