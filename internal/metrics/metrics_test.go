package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.Login("success")
	m.Login("invalid_credentials")
	m.Login("invalid_credentials")
	m.Booking("created")
	m.Notification("dropped")

	assert.InDelta(t, 1, testutil.ToFloat64(m.Logins.WithLabelValues("success")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Logins.WithLabelValues("invalid_credentials")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Bookings.WithLabelValues("created")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Notifications.WithLabelValues("dropped")), 0)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Login("success")
		m.Registration("created")
		m.Booking("created")
		m.Notification("sent")
	})
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.Registration("created")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `rentals_registrations_total{result="created"} 1`)
}
