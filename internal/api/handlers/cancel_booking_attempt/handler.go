package cancel_booking_attempt

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
	msgNotCancellable   = "бронирование уже оформляется, отменить его можно из списка бронирований"
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

// Handle POST /api/v1/booking-attempts/{attemptId}/cancel
// Отмена возможна только во время обратного отсчёта, запись в БД при этом не создаётся
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	attemptID, err := uuid.Parse(mux.Vars(r)["attemptId"])
	if err != nil {
		h.logger.Warn("POST /booking-attempts/{id}/cancel - Invalid attempt ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAttemptID)
		return
	}

	snapshot, err := h.manager.Cancel(r.Context(), attemptID)
	if err != nil {
		switch {
		case errors.Is(err, booking_attempt.ErrAttemptNotFound):
			h.logger.Warn("POST /booking-attempts/{id}/cancel - Attempt not found: attempt_id=%s", attemptID)
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, booking_attempt.ErrNotCancellable):
			h.logger.Warn("POST /booking-attempts/{id}/cancel - Not cancellable: attempt_id=%s", attemptID)
			handlers.RespondErrorCode(w, http.StatusConflict, "attempt_not_cancellable", msgNotCancellable)
		case handlers.RespondBookingError(w, err):
			h.logger.Warn("POST /booking-attempts/{id}/cancel - Rejected: attempt_id=%s, error=%v", attemptID, err)
		default:
			h.logger.Error("POST /booking-attempts/{id}/cancel - Failed to cancel attempt: attempt_id=%s, error=%v",
				attemptID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /booking-attempts/{id}/cancel - Attempt cancelled: attempt_id=%s", attemptID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromSnapshot(snapshot))
}
