// Package settings persists admin-edited recommendation settings.
package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"tandem/internal/recommend/models"
	"tandem/pkg/platform/sentinel"
)

// InMemoryStore keeps the last saved settings.
type InMemoryStore struct {
	mu       sync.RWMutex
	settings *models.Settings
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Load(_ context.Context) (*models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil, sentinel.ErrNotFound
	}
	return s.settings.Clone(), nil
}

func (s *InMemoryStore) Save(_ context.Context, settings *models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings.Clone()
	return nil
}

// PostgresStore keeps a single JSONB row in recommendation_settings.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context) (*models.Settings, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT settings FROM recommendation_settings WHERE id = 1`).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("load recommendation settings: %w", err)
	}
	var out models.Settings
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode recommendation settings: %w", err)
	}
	return &out, nil
}

func (s *PostgresStore) Save(ctx context.Context, settings *models.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode recommendation settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recommendation_settings (id, settings, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET
			settings = EXCLUDED.settings,
			updated_at = EXCLUDED.updated_at
	`, raw)
	if err != nil {
		return fmt.Errorf("save recommendation settings: %w", err)
	}
	return nil
}
