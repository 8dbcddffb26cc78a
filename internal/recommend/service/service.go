// Package service runs the daily and slot recommendation engines. Each
// generation happens under a per-user lock inside one store transaction, so
// concurrent callers for the same user share a single committed result.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"tandem/internal/recommend/bucket"
	"tandem/internal/recommend/exclusion"
	"tandem/internal/recommend/lock"
	"tandem/internal/recommend/metrics"
	"tandem/internal/recommend/models"
	"tandem/internal/recommend/ports"
	"tandem/internal/recommend/settings"
	"tandem/internal/recommend/timewindow"
	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
	"tandem/pkg/platform/sentinel"
	"tandem/pkg/requestcontext"
)

const (
	lockKeyPrefix      = "recommend:"
	defaultMaxPageSize = 50
)

type Service struct {
	settings  *settings.Manager
	members   ports.MemberStore
	history   ports.HistoryStore
	resolver  *exclusion.Resolver
	selector  *bucket.Selector
	locker    ports.Locker
	tx        ports.TxManager
	publisher ports.EventPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	now       func() time.Time

	maxPageSize int
	calendar    atomic.Pointer[calendar]
}

// calendar caches the window calculator built from one settings snapshot.
type calendar struct {
	settings *models.Settings
	calc     *timewindow.Calculator
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLocker replaces the default in-process keyed mutex.
func WithLocker(l ports.Locker) Option {
	return func(s *Service) {
		s.locker = l
	}
}

// WithTxManager replaces the default pass-through transaction runner.
func WithTxManager(tx ports.TxManager) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

func WithPublisher(p ports.EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithClock overrides the request time carried in context.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithMaxPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPageSize = n
		}
	}
}

func New(
	settingsManager *settings.Manager,
	members ports.MemberStore,
	history ports.HistoryStore,
	resolver *exclusion.Resolver,
	selector *bucket.Selector,
	opts ...Option,
) (*Service, error) {
	if settingsManager == nil {
		return nil, fmt.Errorf("settings manager is required")
	}
	if members == nil {
		return nil, fmt.Errorf("member store is required")
	}
	if history == nil {
		return nil, fmt.Errorf("history store is required")
	}
	if resolver == nil || selector == nil {
		return nil, fmt.Errorf("exclusion resolver and bucket selector are required")
	}

	s := &Service{
		settings:    settingsManager,
		members:     members,
		history:     history,
		resolver:    resolver,
		selector:    selector,
		locker:      lock.NewKeyedMutex(),
		tx:          DirectTx{},
		tracer:      otel.Tracer("tandem/recommend"),
		maxPageSize: defaultMaxPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// clock returns the time pinned for this request.
func (s *Service) clock(ctx context.Context) time.Time {
	if s.now != nil {
		return s.now()
	}
	return requestcontext.Now(ctx)
}

// snapshot returns the settings for one request and the matching calculator.
func (s *Service) snapshot() (*models.Settings, *timewindow.Calculator, error) {
	current := s.settings.Current()
	if cached := s.calendar.Load(); cached != nil && cached.settings == current {
		return current, cached.calc, nil
	}
	calc, err := timewindow.FromSettings(current)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "invalid recommendation schedule")
	}
	s.calendar.Store(&calendar{settings: current, calc: calc})
	return current, calc, nil
}

// requester loads the member asking for recommendations.
func (s *Service) requester(ctx context.Context, userID id.UserID) (*models.Member, error) {
	m, err := s.members.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "member not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load member")
	}
	return m, nil
}

// eligible reports whether m can receive recommendations yet. A member
// without a region is a normal state, not a failure.
func (s *Service) eligible(ctx context.Context, m *models.Member, cadence models.Cadence) bool {
	if m.HasRegion() {
		return true
	}
	s.metrics.IncrementIneligible(string(cadence))
	s.logInfo(ctx, "member has no region yet, returning empty recommendations",
		"user_id", m.ID.String(),
		"cadence", string(cadence),
	)
	return false
}

// Settings returns the current policy snapshot.
func (s *Service) Settings() *models.Settings {
	return s.settings.Current()
}

// UpdateSettings validates, persists and applies next as a whole.
func (s *Service) UpdateSettings(ctx context.Context, next models.Settings) (*models.Settings, error) {
	applied, err := s.settings.Update(ctx, next)
	if err != nil {
		return nil, err
	}
	s.logInfo(ctx, "recommendation settings updated",
		"daily_count", applied.DailyCount,
		"slot_count", applied.SlotCount,
		"slot_labels", applied.SlotLabels,
	)
	return applied, nil
}

// Stats summarizes the user's recommendation ledger.
func (s *Service) Stats(ctx context.Context, userID id.UserID) (*models.HistoryStats, error) {
	stats, err := s.history.Stats(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load recommendation stats")
	}
	return stats, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}

func (s *Service) logWarn(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, args...)
	}
}

func (s *Service) logError(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.ErrorContext(ctx, msg, args...)
	}
}
