package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := NewWithRegisterer("barber-booking", prometheus.NewRegistry())

	m.RecordBookingCommit("confirmed")
	m.RecordBookingCommit("confirmed")
	m.RecordBookingCommit("slot_conflict")
	m.RecordBookingCancel("window_closed")
	m.RecordGracePhase("counting")
	m.RecordNotificationEnqueued("confirmation", "admin", nil)
	m.RecordNotificationSent("customer", errors.New("smtp down"))
	m.ObserveHTTPRequest("GET", "/api/v1/barbers", 200, 5*time.Millisecond)
	m.SetDBPoolStats("postgres", 4, 1, 3, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingCommits.WithLabelValues("confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingCommits.WithLabelValues("slot_conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingCancels.WithLabelValues("window_closed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.graceSessionPhases.WithLabelValues("counting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsEnqueued.WithLabelValues("confirmation", "admin", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsSent.WithLabelValues("customer", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/v1/barbers", "200")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.dbIdle.WithLabelValues("postgres")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordBookingCommit("confirmed")
		m.RecordBookingCancel("cancelled")
		m.RecordGracePhase("error")
		m.RecordNotificationEnqueued("cancellation", "customer", nil)
		m.RecordNotificationSent("admin", nil)
		m.ObserveHTTPRequest("POST", "/api/v1/booking-attempts", 202, time.Millisecond)
		m.ObserveDBQuery("select", nil, time.Millisecond)
		m.SetDBPoolStats("postgres", 1, 1, 0, 0)
	})
}
