package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the recommendation module. All methods
// are safe on a nil receiver.
type Metrics struct {
	// Generations by cadence and trigger (request, force_refresh, warmup)
	Generations *prometheus.CounterVec

	// Reads served from an existing generation
	Reuses *prometheus.CounterVec

	// Candidates picked per bucket and age band
	BucketFill *prometheus.CounterVec

	// Generations that came back short of the configured count
	ShortResults *prometheus.CounterVec

	// Persisted ids hidden at read time by a new block or interest
	ReadTimeFiltered prometheus.Counter

	// Requests from members without a region
	Ineligible *prometheus.CounterVec

	LockWait         prometheus.Histogram
	GenerateLatency  *prometheus.HistogramVec
	ExclusionSize    prometheus.Histogram
	RetentionDeleted prometheus.Counter
	PublishFailures  prometheus.Counter

	// Background job runs by job name and outcome (ok, error)
	JobRuns     *prometheus.CounterVec
	JobDuration *prometheus.HistogramVec
}

// New registers the metrics with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Generations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tandem_recommend_generations_total",
			Help: "Total recommendation generations persisted, by cadence and trigger",
		}, []string{"cadence", "source"}),

		Reuses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tandem_recommend_reuses_total",
			Help: "Total recommendation reads served from an existing generation",
		}, []string{"cadence"}),

		BucketFill: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tandem_recommend_bucket_candidates_total",
			Help: "Candidates selected per geographic bucket and age band",
		}, []string{"bucket", "band"}),

		ShortResults: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tandem_recommend_short_results_total",
			Help: "Generations that returned fewer candidates than configured",
		}, []string{"cadence"}),

		ReadTimeFiltered: f.NewCounter(prometheus.CounterOpts{
			Name: "tandem_recommend_read_time_filtered_total",
			Help: "Persisted slot candidates hidden at read time by a safety relationship",
		}),

		Ineligible: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tandem_recommend_ineligible_requests_total",
			Help: "Recommendation requests from members without a region",
		}, []string{"cadence"}),

		LockWait: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tandem_recommend_lock_wait_seconds",
			Help:    "Time spent waiting for the per-user generation lock",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),

		GenerateLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tandem_recommend_generate_duration_seconds",
			Help:    "Duration of exclusion resolution, bucket selection and persistence",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"cadence"}),

		ExclusionSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tandem_recommend_exclusion_set_size",
			Help:    "Number of ids excluded per generation",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),

		RetentionDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "tandem_recommend_history_retention_deleted_total",
			Help: "History rows removed by retention cleanup",
		}),

		PublishFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "tandem_recommend_event_publish_failures_total",
			Help: "Generation events that failed to publish",
		}),

		JobRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tandem_recommend_job_runs_total",
			Help: "Scheduled job runs by job and outcome",
		}, []string{"job", "outcome"}),

		JobDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tandem_recommend_job_duration_seconds",
			Help:    "Duration of scheduled job runs",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
		}, []string{"job"}),
	}
}

func (m *Metrics) IncrementGeneration(cadence, source string) {
	if m != nil {
		m.Generations.WithLabelValues(cadence, source).Inc()
	}
}

func (m *Metrics) IncrementReuse(cadence string) {
	if m != nil {
		m.Reuses.WithLabelValues(cadence).Inc()
	}
}

// AddBucketFill records n candidates taken from bucket in band.
func (m *Metrics) AddBucketFill(bucket, band string, n int) {
	if m != nil && n > 0 {
		m.BucketFill.WithLabelValues(bucket, band).Add(float64(n))
	}
}

func (m *Metrics) IncrementShortResult(cadence string) {
	if m != nil {
		m.ShortResults.WithLabelValues(cadence).Inc()
	}
}

func (m *Metrics) AddReadTimeFiltered(n int) {
	if m != nil && n > 0 {
		m.ReadTimeFiltered.Add(float64(n))
	}
}

func (m *Metrics) IncrementIneligible(cadence string) {
	if m != nil {
		m.Ineligible.WithLabelValues(cadence).Inc()
	}
}

func (m *Metrics) ObserveLockWait(d time.Duration) {
	if m != nil {
		m.LockWait.Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveGenerateLatency(cadence string, d time.Duration) {
	if m != nil {
		m.GenerateLatency.WithLabelValues(cadence).Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveExclusionSize(n int) {
	if m != nil {
		m.ExclusionSize.Observe(float64(n))
	}
}

func (m *Metrics) AddRetentionDeleted(n int64) {
	if m != nil && n > 0 {
		m.RetentionDeleted.Add(float64(n))
	}
}

func (m *Metrics) IncrementPublishFailure() {
	if m != nil {
		m.PublishFailures.Inc()
	}
}

// ObserveJob records one scheduled run of job.
func (m *Metrics) ObserveJob(job string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.JobRuns.WithLabelValues(job, outcome).Inc()
	m.JobDuration.WithLabelValues(job).Observe(d.Seconds())
}
