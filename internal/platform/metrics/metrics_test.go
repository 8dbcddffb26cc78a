package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.ObserveRequest("GET", "/v1/users/{userID}/recommendations/daily", "200", 10*time.Millisecond)
	m.ObserveRequest("GET", "/v1/users/{userID}/recommendations/daily", "200", 20*time.Millisecond)
	m.TrackInFlight(1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/v1/users/{userID}/recommendations/daily", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InFlight))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/", "200", time.Millisecond)
		m.TrackInFlight(1)
	})
}
