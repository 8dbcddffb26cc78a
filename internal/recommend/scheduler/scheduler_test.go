package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"tandem/internal/recommend/metrics"
	"tandem/internal/recommend/service"
	"tandem/pkg/requestcontext"
)

type fakeCleaner struct {
	calls   atomic.Int32
	deleted int64
	err     error
}

func (f *fakeCleaner) CleanupHistory(context.Context) (int64, error) {
	f.calls.Add(1)
	return f.deleted, f.err
}

type fakeRefresher struct{ calls atomic.Int32 }

func (f *fakeRefresher) Refresh(context.Context) error {
	f.calls.Add(1)
	return nil
}

type fakeWarmer struct {
	opts service.WarmupOptions
	at   time.Time
}

func (f *fakeWarmer) WarmupSlot(ctx context.Context, opts service.WarmupOptions) (*service.WarmupReport, error) {
	f.opts = opts
	f.at = requestcontext.Now(ctx)
	return &service.WarmupReport{}, nil
}

type fakeSweeper struct{ at time.Time }

func (f *fakeSweeper) Sweep(ctx context.Context) int {
	f.at = requestcontext.Now(ctx)
	return 2
}

type SchedulerSuite struct {
	suite.Suite
	now     time.Time
	metrics *metrics.Metrics
	sched   *Scheduler
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerSuite))
}

func (s *SchedulerSuite) SetupTest() {
	seoul, err := time.LoadLocation("Asia/Seoul")
	s.Require().NoError(err)
	s.now = time.Date(2026, 3, 2, 21, 50, 0, 0, seoul)
	s.metrics = metrics.NewWithRegistry(prometheus.NewRegistry())
	s.sched = New(seoul,
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		WithMetrics(s.metrics),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *SchedulerSuite) TearDownTest() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.Require().NoError(s.sched.Stop(ctx))
}

// =============================================================================
// Registration Tests
// =============================================================================

func (s *SchedulerSuite) TestEmptySpecDisablesJob() {
	s.Require().NoError(s.sched.Add("noop", "", 0, func(context.Context) error { return nil }))
	s.Empty(s.sched.Jobs())
	s.Error(s.sched.RunNow(context.Background(), "noop"))
}

func (s *SchedulerSuite) TestInvalidSpecIsRejected() {
	err := s.sched.Add("bad", "every tuesday", 0, func(context.Context) error { return nil })
	s.Error(err)
	s.Empty(s.sched.Jobs())
}

func (s *SchedulerSuite) TestDuplicateNameIsRejected() {
	run := func(context.Context) error { return nil }
	s.Require().NoError(s.sched.Add("job", "@hourly", 0, run))
	s.Error(s.sched.Add("job", "@daily", 0, run))
}

func (s *SchedulerSuite) TestRegisterRecommendJobsSkipsNilCollaborators() {
	specs := Specs{Cleanup: "30 4 * * *", Adjacency: "*/10 * * * *", Warmup: "*/30 * * * *"}
	s.Require().NoError(RegisterRecommendJobs(s.sched, specs, &fakeCleaner{}, nil, &fakeWarmer{}))
	s.ElementsMatch([]string{JobCleanup, JobWarmup}, s.sched.Jobs())
}

// =============================================================================
// Execution Tests
// =============================================================================

func (s *SchedulerSuite) TestRunNowPinsTimeAndRequestID() {
	var gotTime time.Time
	var gotID string
	s.Require().NoError(s.sched.Add("metered", "@hourly", 0, func(ctx context.Context) error {
		gotTime = requestcontext.Now(ctx)
		gotID = requestcontext.RequestID(ctx)
		return nil
	}))

	s.Require().NoError(s.sched.RunNow(context.Background(), "metered"))
	s.True(s.now.Equal(gotTime))
	s.Contains(gotID, "job-")
	s.Equal(1.0, testutil.ToFloat64(s.metrics.JobRuns.WithLabelValues("metered", "ok")))
}

func (s *SchedulerSuite) TestRunNowReportsFailure() {
	boom := errors.New("boom")
	cleaner := &fakeCleaner{err: boom}
	s.Require().NoError(RegisterRecommendJobs(s.sched, Specs{Cleanup: "@daily"}, cleaner, nil, nil))

	s.ErrorIs(s.sched.RunNow(context.Background(), JobCleanup), boom)
	s.Equal(int32(1), cleaner.calls.Load())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.JobRuns.WithLabelValues(JobCleanup, "error")))
}

func (s *SchedulerSuite) TestTimeoutBoundsRun() {
	s.Require().NoError(s.sched.Add("slow", "@hourly", 20*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	s.ErrorIs(s.sched.RunNow(context.Background(), "slow"), context.DeadlineExceeded)
}

func (s *SchedulerSuite) TestWarmupReceivesOptions() {
	warmer := &fakeWarmer{}
	opts := service.WarmupOptions{Tolerance: 30 * time.Minute, BatchSize: 50, MaxMembers: 10}
	s.Require().NoError(RegisterRecommendJobs(s.sched, Specs{Warmup: "*/30 * * * *", WarmupOptions: opts}, nil, nil, warmer))

	s.Require().NoError(s.sched.RunNow(context.Background(), JobWarmup))
	s.Equal(opts, warmer.opts)
	s.True(s.now.Equal(warmer.at))
}

func (s *SchedulerSuite) TestRegisterSweep() {
	s.Require().NoError(RegisterSweep(s.sched, "@every 5m", 0, nil))
	s.Empty(s.sched.Jobs())

	sweeper := &fakeSweeper{}
	s.Require().NoError(RegisterSweep(s.sched, "@every 5m", 0, sweeper))
	s.Equal([]string{JobSweep}, s.sched.Jobs())
	s.Require().NoError(s.sched.RunNow(context.Background(), JobSweep))
	s.True(s.now.Equal(sweeper.at))
}

func (s *SchedulerSuite) TestCronFiresRegisteredJobs() {
	refresher := &fakeRefresher{}
	s.Require().NoError(RegisterRecommendJobs(s.sched, Specs{Adjacency: "@every 1s"}, nil, refresher, nil))

	s.sched.Start()
	s.Eventually(func() bool { return refresher.calls.Load() > 0 }, 3*time.Second, 20*time.Millisecond)
}

func (s *SchedulerSuite) TestStopCancelsInFlightRun() {
	started := make(chan struct{}, 1)
	var cancelled atomic.Bool
	s.Require().NoError(s.sched.Add("blocking", "@every 1s", 0, func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	}))

	s.sched.Start()
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		s.FailNow("job never started")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.Require().NoError(s.sched.Stop(ctx))
	s.True(cancelled.Load())
}
