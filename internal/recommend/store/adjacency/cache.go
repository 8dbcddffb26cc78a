package adjacency

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Cache serves adjacency lookups from an immutable snapshot that Refresh
// replaces wholesale. Requests never see a partially loaded table.
type Cache struct {
	loader   Loader
	snapshot atomic.Pointer[map[string][]string]
	logger   *slog.Logger
}

type CacheOption func(*Cache)

func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

// NewCache loads the first snapshot from loader.
func NewCache(ctx context.Context, loader Loader, opts ...CacheOption) (*Cache, error) {
	c := &Cache{loader: loader}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Refresh reloads the table. On failure the previous snapshot stays.
func (c *Cache) Refresh(ctx context.Context) error {
	table, err := c.loader.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load region adjacency: %w", err)
	}
	table = copyTable(table)
	c.snapshot.Store(&table)
	if c.logger != nil {
		c.logger.DebugContext(ctx, "region adjacency refreshed", "regions", len(table))
	}
	return nil
}

// Adjacent returns the neighbours of mainRegion from the current snapshot.
func (c *Cache) Adjacent(_ context.Context, mainRegion string) ([]string, error) {
	table := c.snapshot.Load()
	if table == nil {
		return []string{}, nil
	}
	return append([]string{}, (*table)[mainRegion]...), nil
}
