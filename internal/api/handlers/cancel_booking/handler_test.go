package cancel_booking

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/wellside/barber-booking/internal/service/bookings"
	"github.com/wellside/barber-booking/internal/service/bookings/models"
	"github.com/wellside/barber-booking/pkg/logger"
)

type stubService struct {
	err error
}

func (s *stubService) Cancel(_ context.Context, bookingID uuid.UUID) (*models.BookingResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingResponse{ID: bookingID, Status: "cancelled"}, nil
}

func TestHandler_Handle(t *testing.T) {
	bookingID := uuid.New()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "cancelled", status: http.StatusOK},
		{name: "window closed", err: fmt.Errorf("%w: starts in 1h", bookings.ErrCancellationWindowClosed),
			status: http.StatusUnprocessableEntity, code: "cancellation_window_closed"},
		{name: "not cancellable", err: bookings.ErrCannotCancel, status: http.StatusConflict, code: "booking_not_cancellable"},
		{name: "someone else's booking", err: bookings.ErrAccessDenied, status: http.StatusForbidden},
		{name: "missing", err: bookings.ErrBookingNotFound, status: http.StatusNotFound},
		{name: "unauthenticated", err: bookings.ErrUnauthenticated, status: http.StatusUnauthorized},
		{name: "storage", err: bookings.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mux.NewRouter()
			r.HandleFunc("/api/v1/bookings/{bookingId}/cancel",
				NewHandler(&stubService{err: tt.err}, logger.NewNop()).Handle).Methods(http.MethodPatch)
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+bookingID.String()+"/cancel", nil))

			assert.Equal(t, tt.status, rec.Code)
			if tt.code != "" {
				assert.Contains(t, rec.Body.String(), tt.code)
			}
		})
	}
}
