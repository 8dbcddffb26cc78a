// Package scheduler runs the recommendation engine's background jobs on cron
// specs evaluated in the policy timezone.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"tandem/internal/recommend/metrics"
	"tandem/pkg/requestcontext"
)

// Scheduler wraps robfig/cron. Overlapping runs of one job are skipped and a
// panicking job is recovered and logged.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu     sync.Mutex
	jobs   map[string]*job
	base   context.Context
	cancel context.CancelFunc
}

type job struct {
	name    string
	spec    string
	timeout time.Duration
	run     func(context.Context) error
}

type Option func(*Scheduler)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithClock pins the time handed to each run.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// New creates a stopped scheduler whose specs are evaluated in loc.
func New(loc *time.Location, opts ...Option) *Scheduler {
	s := &Scheduler{
		logger: slog.Default(),
		now:    time.Now,
		jobs:   make(map[string]*job),
	}
	for _, opt := range opts {
		opt(s)
	}
	if loc == nil {
		loc = time.UTC
	}
	cl := cronLogger{logger: s.logger}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	s.base, s.cancel = context.WithCancel(context.Background())
	return s
}

// Add registers run under name. An empty spec leaves the job disabled and
// is not an error. A positive timeout bounds each run.
func (s *Scheduler) Add(name, spec string, timeout time.Duration, run func(context.Context) error) error {
	if spec == "" {
		s.logger.Info("scheduled job disabled", "job", name)
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.jobs[name]; dup {
		return fmt.Errorf("job %q already registered", name)
	}
	j := &job{name: name, spec: spec, timeout: timeout, run: run}
	if _, err := s.cron.AddFunc(spec, func() { _ = s.execute(s.base, j) }); err != nil {
		return fmt.Errorf("invalid spec for job %q: %w", name, err)
	}
	s.jobs[name] = j
	return nil
}

// Jobs returns the registered job names.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

// RunNow executes a registered job synchronously outside the cron loop.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.execute(ctx, j)
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", s.Jobs())
}

// Stop cancels in-flight runs and waits for them to return or for ctx to
// expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) execute(parent context.Context, j *job) error {
	ctx := requestcontext.WithTime(parent, s.now())
	ctx = requestcontext.WithRequestID(ctx, "job-"+uuid.NewString())
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	start := time.Now()
	err := j.run(ctx)
	elapsed := time.Since(start)
	s.metrics.ObserveJob(j.name, elapsed, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled job failed",
			"job", j.name,
			"request_id", requestcontext.RequestID(ctx),
			"duration", elapsed,
			"error", err,
		)
		return err
	}
	s.logger.DebugContext(ctx, "scheduled job finished", "job", j.name, "duration", elapsed)
	return nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
