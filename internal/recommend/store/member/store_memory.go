// Package member reads member profiles for candidate selection.
package member

import (
	"bytes"
	"context"
	"math/rand/v2"
	"sort"
	"sync"

	"tandem/internal/recommend/models"
	id "tandem/pkg/domain"
	"tandem/pkg/platform/sentinel"
)

// InMemoryStore holds members in a map. Candidate sampling shuffles matches
// before truncating to the limit.
type InMemoryStore struct {
	mu      sync.RWMutex
	members map[id.UserID]*models.Member
	shuffle func([]*models.Member)
}

type Option func(*InMemoryStore)

// WithShuffle replaces the random ordering of candidate matches.
func WithShuffle(fn func([]*models.Member)) Option {
	return func(s *InMemoryStore) {
		if fn != nil {
			s.shuffle = fn
		}
	}
}

func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{
		members: make(map[id.UserID]*models.Member),
		shuffle: func(ms []*models.Member) {
			rand.Shuffle(len(ms), func(i, j int) { ms[i], ms[j] = ms[j], ms[i] })
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put inserts or replaces members.
func (s *InMemoryStore) Put(members ...*models.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range members {
		cp := *m
		s.members[m.ID] = &cp
	}
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *InMemoryStore) FindByIDs(_ context.Context, ids []id.UserID) ([]*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Member, 0, len(ids))
	for _, u := range ids {
		if m, ok := s.members[u]; ok {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *InMemoryStore) FindCandidates(_ context.Context, q models.CandidateQuery) ([]*models.Member, error) {
	if q.Limit <= 0 {
		return []*models.Member{}, nil
	}
	s.mu.RLock()
	matches := make([]*models.Member, 0)
	for _, m := range s.members {
		if matchesQuery(m, q) {
			cp := *m
			matches = append(matches, &cp)
		}
	}
	s.mu.RUnlock()

	// Stable input for the shuffle.
	sort.Slice(matches, func(i, j int) bool {
		return bytes.Compare(matches[i].ID[:], matches[j].ID[:]) < 0
	})
	s.shuffle(matches)
	if len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	return matches, nil
}

func (s *InMemoryStore) ListActiveIDs(_ context.Context, after id.UserID, limit int) ([]id.UserID, error) {
	s.mu.RLock()
	ids := make([]id.UserID, 0)
	for _, m := range s.members {
		if m.IsRecommendable() && bytes.Compare(m.ID[:], after[:]) > 0 {
			ids = append(ids, m.ID)
		}
	}
	s.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func matchesQuery(m *models.Member, q models.CandidateQuery) bool {
	if !m.IsRecommendable() || q.ExcludeIDs.Has(m.ID) {
		return false
	}
	if len(q.MainRegions) > 0 && !contains(q.MainRegions, m.MainRegion) {
		return false
	}
	if q.SubRegion != "" && m.SubRegion != q.SubRegion {
		return false
	}
	if q.ExcludeSubRegion != "" && m.SubRegion == q.ExcludeSubRegion {
		return false
	}
	return q.Age.Contains(m.Age)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
