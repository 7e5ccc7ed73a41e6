package get_booking_attempt

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

// Handle GET /api/v1/booking-attempts/{attemptId}
// Попытка, сохранённая до перезапуска сервиса, продолжается при первом запросе
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	attemptID, err := uuid.Parse(mux.Vars(r)["attemptId"])
	if err != nil {
		h.logger.Warn("GET /booking-attempts/{id} - Invalid attempt ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAttemptID)
		return
	}

	snapshot, err := h.manager.Get(r.Context(), attemptID)
	if err != nil {
		switch {
		case errors.Is(err, booking_attempt.ErrAttemptNotFound):
			h.logger.Warn("GET /booking-attempts/{id} - Attempt not found: attempt_id=%s", attemptID)
			handlers.RespondNotFound(w, msgNotFound)
		case handlers.RespondBookingError(w, err):
			h.logger.Warn("GET /booking-attempts/{id} - Rejected: attempt_id=%s, error=%v", attemptID, err)
		default:
			h.logger.Error("GET /booking-attempts/{id} - Failed to get attempt: attempt_id=%s, error=%v", attemptID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromSnapshot(snapshot))
}
