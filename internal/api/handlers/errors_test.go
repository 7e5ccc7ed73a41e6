package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellside/barber-booking/internal/usecase/booking_attempt"
	"github.com/wellside/barber-booking/internal/usecase/create_booking"
	"github.com/wellside/barber-booking/internal/usecase/get_available_slots"
)

func TestClassifyBookingError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{get_available_slots.ErrConfiguration, http.StatusServiceUnavailable, CodeConfigurationError},
		{fmt.Errorf("%w: GetWorkingHours: not set", create_booking.ErrConfiguration), http.StatusServiceUnavailable, CodeConfigurationError},
		{get_available_slots.ErrDataAccess, http.StatusServiceUnavailable, CodeDataAccessError},
		{create_booking.ErrDataAccess, http.StatusServiceUnavailable, CodeDataAccessError},
		{create_booking.ErrIncompleteSelection, http.StatusUnprocessableEntity, CodeIncompleteSelection},
		{create_booking.ErrAuthentication, http.StatusUnauthorized, CodeAuthenticationRequired},
		{create_booking.ErrDuplicateActiveBooking, http.StatusConflict, CodeDuplicateActiveBooking},
		{create_booking.ErrSlotConflict, http.StatusConflict, CodeSlotConflict},
	}

	seen := map[string]bool{}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			wrapped := fmt.Errorf("%w: detail", tt.err)
			be, ok := ClassifyBookingError(wrapped)
			require.True(t, ok)
			assert.Equal(t, tt.status, be.Status)
			assert.Equal(t, tt.code, be.Code)
		})
		seen[tt.code] = true
	}
	assert.Len(t, seen, 6)

	_, ok := ClassifyBookingError(errors.New("boom"))
	assert.False(t, ok)
}

func TestRespondBookingError(t *testing.T) {
	rec := httptest.NewRecorder()
	require.True(t, RespondBookingError(rec, get_available_slots.ErrDataAccess))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, CodeDataAccessError, body.Code)
	assert.True(t, body.Retryable)

	rec = httptest.NewRecorder()
	require.True(t, RespondBookingError(rec, create_booking.ErrSlotConflict))
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Retryable)

	assert.False(t, RespondBookingError(httptest.NewRecorder(), errors.New("boom")))
}

func TestFromSnapshot(t *testing.T) {
	started := time.Date(2025, 3, 14, 6, 0, 0, 0, time.UTC)
	snapshot := &booking_attempt.Snapshot{
		AttemptID: uuid.New(),
		Phase:     booking_attempt.PhaseError,
		StartedAt: started,
		Duration:  10 * time.Second,
		Elapsed:   10 * time.Second,
		Progress:  1,
		Err:       fmt.Errorf("%w: taken", create_booking.ErrSlotConflict),
	}

	resp := FromSnapshot(snapshot)
	assert.Equal(t, "error", resp.Phase)
	assert.Equal(t, int64(10000), resp.DurationMs)
	assert.Equal(t, int64(0), resp.RemainingMs)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeSlotConflict, resp.Error.Code)
	assert.False(t, resp.Error.Retryable)
	assert.Nil(t, resp.Booking)

	snapshot.Err = errors.New("unexpected")
	assert.Equal(t, CodeDataAccessError, FromSnapshot(snapshot).Error.Code)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Status string `json:"status"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Body = http.NoBody
	assert.Error(t, DecodeJSON(req, &dst))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"completed","extra":1}`))
	assert.Error(t, DecodeJSON(req, &dst))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"completed"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "completed", dst.Status)
}
