package update_working_hours

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/wellside/barber-booking/internal/api/handlers"
	"github.com/wellside/barber-booking/internal/api/middleware"
	"github.com/wellside/barber-booking/internal/service/barbers"
	"github.com/wellside/barber-booking/internal/service/barbers/models"
)

const (
	msgInvalidBarberID    = "некорректный ID барбера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidHours       = "некорректные рабочие часы, ожидается HH:MM и начало раньше конца"
	msgUnauthenticated    = "требуется авторизация"
	msgForbidden          = "доступ запрещен"
	msgBarberNotFound     = "барбер не найден"
)

type Handler struct {
	service BarberService
	logger  Logger
}

func NewHandler(service BarberService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/barbers/{barberId}/working-hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	barberID, err := uuid.Parse(mux.Vars(r)["barberId"])
	if err != nil {
		h.logger.Warn("PUT /barbers/{id}/working-hours - Invalid barber ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	userID, _ := middleware.GetUserID(r.Context())

	var req models.UpdateWorkingHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /barbers/{id}/working-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateWorkingHours(r.Context(), barberID, &req)
	if err != nil {
		switch {
		case errors.Is(err, barbers.ErrUnauthenticated):
			handlers.RespondUnauthorized(w, msgUnauthenticated)

		case errors.Is(err, barbers.ErrAccessDenied):
			h.logger.Warn("PUT /barbers/{id}/working-hours - Access denied: barber_id=%s, user_id=%s", barberID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, barbers.ErrInvalidInput):
			h.logger.Warn("PUT /barbers/{id}/working-hours - Invalid hours: %v", err)
			handlers.RespondBadRequest(w, msgInvalidHours)

		case errors.Is(err, barbers.ErrBarberNotFound):
			handlers.RespondNotFound(w, msgBarberNotFound)

		default:
			h.logger.Error("PUT /barbers/{id}/working-hours - Failed to update working hours: barber_id=%s, error=%v",
				barberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /barbers/{id}/working-hours - Working hours updated: barber_id=%s, %s-%s, user_id=%s",
		barberID, result.StartTime, result.EndTime, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
