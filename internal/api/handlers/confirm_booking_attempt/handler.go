package confirm_booking_attempt

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/wellside/barber-booking/internal/api/handlers"
	"github.com/wellside/barber-booking/internal/usecase/booking_attempt"
)

const (
	msgInvalidAttemptID = "некорректный ID попытки бронирования"
	msgNotFound         = "попытка бронирования не найдена"
	msgCancelled        = "попытка бронирования была отменена"
)

type Handler struct {
	manager AttemptManager
	logger  Logger
}

func NewHandler(manager AttemptManager, logger Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger,
	}
}

// Handle POST /api/v1/booking-attempts/{attemptId}/confirm
// Досрочно завершает обратный отсчёт и ждёт результата фиксации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	attemptID, err := uuid.Parse(mux.Vars(r)["attemptId"])
	if err != nil {
		h.logger.Warn("POST /booking-attempts/{id}/confirm - Invalid attempt ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAttemptID)
		return
	}

	snapshot, err := h.manager.Confirm(r.Context(), attemptID)
	if err != nil {
		switch {
		case errors.Is(err, booking_attempt.ErrAttemptNotFound):
			h.logger.Warn("POST /booking-attempts/{id}/confirm - Attempt not found: attempt_id=%s", attemptID)
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, booking_attempt.ErrAttemptCancelled):
			h.logger.Warn("POST /booking-attempts/{id}/confirm - Attempt was cancelled: attempt_id=%s", attemptID)
			handlers.RespondErrorCode(w, http.StatusConflict, "attempt_cancelled", msgCancelled)
		case handlers.RespondBookingError(w, err):
			h.logger.Warn("POST /booking-attempts/{id}/confirm - Rejected: attempt_id=%s, error=%v", attemptID, err)
		default:
			h.logger.Error("POST /booking-attempts/{id}/confirm - Failed to confirm attempt: attempt_id=%s, error=%v",
				attemptID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Ошибка фиксации отдаётся с кодом таксономии, тело содержит снимок попытки
	if snapshot.Phase == booking_attempt.PhaseError {
		status := http.StatusServiceUnavailable
		if be, ok := handlers.ClassifyBookingError(snapshot.Err); ok {
			status = be.Status
		}
		h.logger.Warn("POST /booking-attempts/{id}/confirm - Commit failed: attempt_id=%s, error=%v", attemptID, snapshot.Err)
		handlers.RespondJSON(w, status, handlers.FromSnapshot(snapshot))
		return
	}

	h.logger.Info("POST /booking-attempts/{id}/confirm - Booking confirmed: attempt_id=%s, booking_id=%s",
		attemptID, snapshot.Booking.BookingID)
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromSnapshot(snapshot))
}
