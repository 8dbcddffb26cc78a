package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tandem/internal/platform/config"
	"tandem/internal/platform/httpserver"
	"tandem/internal/platform/logger"
	httpmetrics "tandem/internal/platform/metrics"
	"tandem/internal/platform/middleware"
	"tandem/internal/platform/tracing"
	"tandem/internal/recommend/handler"
	"tandem/internal/recommend/scheduler"
	"tandem/internal/recommend/service"
	"tandem/pkg/platform/httputil"
	request "tandem/pkg/platform/middleware/request"
	"tandem/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/recommend.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tandem: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, path, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.Server.Environment)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("trace flush failed", "error", err)
		}
	}()

	app, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.close()

	if err := config.Watch(path, log, func(next *config.Config) {
		if err := app.settings.Reload(context.Background(), next.Recommend.Settings); err != nil {
			log.Warn("config reload rejected", "path", path, "error", err)
		}
	}); err != nil {
		log.Warn("config watch unavailable", "path", path, "error", err)
	}

	var sched *scheduler.Scheduler
	if cfg.Recommend.Schedule.Enabled {
		sched, err = newScheduler(cfg, app, log)
		if err != nil {
			return err
		}
		sched.Start()
	}

	router := newRouter(cfg, app, log)
	srv := httpserver.New(cfg.Server, router)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting tandem recommendation server", "addr", cfg.Server.Addr, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Warn("scheduler did not stop cleanly", "error", err)
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func newRouter(cfg *config.Config, app *application, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(request.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Observe(httpmetrics.New(), log))
	r.Use(chimw.Recoverer)
	r.Use(requesttime.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := app.health(r.Context()); err != nil {
			log.WarnContext(r.Context(), "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	h := handler.New(app.service, log, handler.WithRefreshLimiter(app.limiter))
	h.Register(r)
	if cfg.Server.AdminToken == "" {
		log.Warn("admin token not set; settings endpoints reject every request")
	}
	h.RegisterAdmin(r, cfg.Server.AdminToken)
	return r
}

func newScheduler(cfg *config.Config, app *application, log *slog.Logger) (*scheduler.Scheduler, error) {
	loc, err := time.LoadLocation(app.settings.Current().Timezone)
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone: %w", err)
	}
	sc := cfg.Recommend.Schedule
	sched := scheduler.New(loc,
		scheduler.WithLogger(log),
		scheduler.WithMetrics(app.metrics),
	)
	specs := scheduler.Specs{
		Cleanup:   sc.CleanupSpec,
		Adjacency: sc.AdjacencySpec,
		Warmup:    sc.WarmupSpec,
		Timeout:   sc.JobTimeout,
		WarmupOptions: service.WarmupOptions{
			Tolerance:  sc.WarmupTolerance,
			BatchSize:  sc.WarmupBatchSize,
			MaxMembers: sc.WarmupMaxMembers,
		},
	}
	if err := scheduler.RegisterRecommendJobs(sched, specs, app.service, app.adjacency, app.service); err != nil {
		return nil, err
	}
	if cfg.Recommend.RefreshLimit > 0 {
		if err := scheduler.RegisterSweep(sched, sc.SweepSpec, sc.JobTimeout, app.limiter); err != nil {
			return nil, err
		}
	}
	return sched, nil
}
