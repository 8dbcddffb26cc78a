// Package adjacency maps a main region to its neighbouring main regions in
// priority order.
package adjacency

import (
	"context"
	"sync"
)

// Loader returns the full adjacency table.
type Loader interface {
	LoadAll(ctx context.Context) (map[string][]string, error)
}

// InMemoryStore serves a fixed table.
type InMemoryStore struct {
	mu    sync.RWMutex
	table map[string][]string
}

func NewInMemoryStore(table map[string][]string) *InMemoryStore {
	return &InMemoryStore{table: copyTable(table)}
}

// Set replaces the neighbours of mainRegion.
func (s *InMemoryStore) Set(mainRegion string, adjacent ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table[mainRegion] = append([]string(nil), adjacent...)
}

// Adjacent returns the neighbours of mainRegion; unknown regions have none.
func (s *InMemoryStore) Adjacent(_ context.Context, mainRegion string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.table[mainRegion]...), nil
}

func (s *InMemoryStore) LoadAll(_ context.Context) (map[string][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyTable(s.table), nil
}

func copyTable(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}
