package scheduler

import (
	"context"
	"log/slog"
	"time"

	"tandem/internal/recommend/service"
)

// Job names.
const (
	JobCleanup   = "history_cleanup"
	JobAdjacency = "adjacency_refresh"
	JobWarmup    = "slot_warmup"
	JobSweep     = "refresh_limit_sweep"
)

type HistoryCleaner interface {
	CleanupHistory(ctx context.Context) (int64, error)
}

type AdjacencyRefresher interface {
	Refresh(ctx context.Context) error
}

type SlotWarmer interface {
	WarmupSlot(ctx context.Context, opts service.WarmupOptions) (*service.WarmupReport, error)
}

// Sweeper drops idle rate limit buckets.
type Sweeper interface {
	Sweep(ctx context.Context) int
}

// Specs configures the recommendation jobs. Empty specs disable a job.
type Specs struct {
	Cleanup   string
	Adjacency string
	Warmup    string
	// Timeout bounds each run; zero leaves runs unbounded.
	Timeout       time.Duration
	WarmupOptions service.WarmupOptions
}

// RegisterRecommendJobs adds retention cleanup, adjacency refresh and slot
// warmup. A nil collaborator skips its job.
func RegisterRecommendJobs(s *Scheduler, specs Specs, cleaner HistoryCleaner, refresher AdjacencyRefresher, warmer SlotWarmer) error {
	if cleaner != nil {
		if err := s.Add(JobCleanup, specs.Cleanup, specs.Timeout, cleanupJob(cleaner, s.logger)); err != nil {
			return err
		}
	}
	if refresher != nil {
		if err := s.Add(JobAdjacency, specs.Adjacency, specs.Timeout, refresher.Refresh); err != nil {
			return err
		}
	}
	if warmer != nil {
		if err := s.Add(JobWarmup, specs.Warmup, specs.Timeout, warmupJob(warmer, specs.WarmupOptions)); err != nil {
			return err
		}
	}
	return nil
}

func cleanupJob(cleaner HistoryCleaner, logger *slog.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		deleted, err := cleaner.CleanupHistory(ctx)
		if err != nil {
			return err
		}
		if deleted > 0 {
			logger.InfoContext(ctx, "history retention cleanup", "deleted", deleted)
		}
		return nil
	}
}

func warmupJob(warmer SlotWarmer, opts service.WarmupOptions) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := warmer.WarmupSlot(ctx, opts)
		return err
	}
}

// RegisterSweep adds the refresh limiter sweep. A nil sweeper skips it.
func RegisterSweep(s *Scheduler, spec string, timeout time.Duration, sweeper Sweeper) error {
	if sweeper == nil {
		return nil
	}
	return s.Add(JobSweep, spec, timeout, func(ctx context.Context) error {
		if removed := sweeper.Sweep(ctx); removed > 0 {
			s.logger.DebugContext(ctx, "refresh limiter swept", "removed", removed)
		}
		return nil
	})
}
