package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementGeneration("DAILY", "request")
		m.IncrementReuse("SLOT")
		m.AddBucketFill("nationwide", "preferred", 2)
		m.ObserveLockWait(time.Millisecond)
		m.AddRetentionDeleted(5)
		m.ObserveJob("cleanup", time.Second, nil)
	})
}

func TestCounters(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.IncrementGeneration("DAILY", "request")
	m.IncrementGeneration("DAILY", "request")
	m.AddBucketFill("same_sub_region", "preferred", 3)
	m.AddBucketFill("same_sub_region", "preferred", 0)
	m.AddReadTimeFiltered(2)
	m.AddRetentionDeleted(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Generations.WithLabelValues("DAILY", "request")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.BucketFill.WithLabelValues("same_sub_region", "preferred")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReadTimeFiltered))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.RetentionDeleted))
}

func TestObserveJobSplitsOutcome(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.ObserveJob("warmup", time.Second, nil)
	m.ObserveJob("warmup", time.Second, assert.AnError)
	m.ObserveJob("warmup", time.Second, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.JobRuns.WithLabelValues("warmup", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRuns.WithLabelValues("warmup", "error")))
}
