package start_booking_attempt

import (
	"net/http"

	"github.com/wellside/barber-booking/internal/api/handlers"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
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

// Handle POST /api/v1/booking-attempts
// Запускает обратный отсчёт, бронирование создаётся по его окончании или при подтверждении
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req StartAttemptRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking-attempts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	selection, err := req.ToSelection()
	if err != nil {
		h.logger.Warn("POST /booking-attempts - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	snapshot, err := h.manager.Start(r.Context(), selection)
	if err != nil {
		if handlers.RespondBookingError(w, err) {
			h.logger.Warn("POST /booking-attempts - Attempt rejected: %v", err)
			return
		}
		h.logger.Error("POST /booking-attempts - Failed to start attempt: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /booking-attempts - Attempt started: attempt_id=%s, customer_id=%s",
		snapshot.AttemptID, snapshot.CustomerID)
	handlers.RespondJSON(w, http.StatusAccepted, handlers.FromSnapshot(snapshot))
}
