package get_active_booking

import (
	"errors"
	"net/http"

	"github.com/wellside/barber-booking/internal/api/handlers"
	"github.com/wellside/barber-booking/internal/api/middleware"
	"github.com/wellside/barber-booking/internal/service/bookings"
)

const (
	msgUnauthenticated = "требуется авторизация"
	msgNotFound        = "нет активного бронирования"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/active
// Ближайшее активное бронирование текущего клиента
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	booking, err := h.service.GetActive(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrUnauthenticated):
			h.logger.Warn("GET /bookings/active - Unauthenticated")
			handlers.RespondUnauthorized(w, msgUnauthenticated)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Info("GET /bookings/active - No active booking: user_id=%s", userID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /bookings/active - Failed to get active booking: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, booking)
}
