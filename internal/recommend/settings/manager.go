// Package settings owns the live recommendation policy: validation, the
// atomically swapped snapshot readers take per request, and persistence of
// admin updates.
package settings

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"tandem/internal/recommend/models"
	dErrors "tandem/pkg/domain-errors"
	"tandem/pkg/platform/sentinel"
)

// Store persists admin-edited settings.
type Store interface {
	Load(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, s *models.Settings) error
}

// Manager holds the current settings snapshot.
type Manager struct {
	current atomic.Pointer[models.Settings]
	store   Store
	logger  *slog.Logger
}

type Option func(*Manager)

func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager validates initial and installs it as the first snapshot.
func NewManager(initial models.Settings, opts ...Option) (*Manager, error) {
	m := &Manager{}
	for _, opt := range opts {
		opt(m)
	}
	snapshot := initial.Clone()
	if err := Validate(snapshot); err != nil {
		return nil, err
	}
	m.current.Store(snapshot)
	return m, nil
}

// Current returns the live snapshot. Callers must treat it as read-only.
func (m *Manager) Current() *models.Settings {
	return m.current.Load()
}

// LoadPersisted replaces the snapshot with the stored settings if any exist.
// A missing row keeps the configured defaults.
func (m *Manager) LoadPersisted(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	stored, err := m.store.Load(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load persisted settings")
	}
	if err := Validate(stored); err != nil {
		return err
	}
	m.current.Store(stored.Clone())
	m.log(ctx, "recommendation settings loaded from store")
	return nil
}

// Update validates, persists and then swaps in next. On any failure the
// current snapshot is left untouched.
func (m *Manager) Update(ctx context.Context, next models.Settings) (*models.Settings, error) {
	snapshot := next.Clone()
	if err := Validate(snapshot); err != nil {
		return nil, err
	}
	if m.store != nil {
		if err := m.store.Save(ctx, snapshot); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist settings")
		}
	}
	m.current.Store(snapshot)
	m.log(ctx, "recommendation settings updated")
	return snapshot, nil
}

// Reload swaps in settings from a changed config file without persisting them.
func (m *Manager) Reload(ctx context.Context, next models.Settings) error {
	snapshot := next.Clone()
	if err := Validate(snapshot); err != nil {
		if m.logger != nil {
			m.logger.WarnContext(ctx, "ignoring invalid reloaded settings", "error", err)
		}
		return err
	}
	m.current.Store(snapshot)
	m.log(ctx, "recommendation settings reloaded")
	return nil
}

func (m *Manager) log(ctx context.Context, msg string) {
	if m.logger == nil {
		return
	}
	s := m.current.Load()
	m.logger.InfoContext(ctx, msg,
		"daily_count", s.DailyCount,
		"slot_count", s.SlotCount,
		"slot_labels", s.SlotLabels,
		"repeat_avoid_days", s.RepeatAvoidDays,
	)
}
