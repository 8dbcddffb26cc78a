package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"tandem/internal/recommend/models"
	id "tandem/pkg/domain"
)

// InMemoryStore is a process-local ledger for tests and single-node runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []*models.HistoryRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Record appends one generation under a single write lock.
func (s *InMemoryStore) Record(_ context.Context, records []*models.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := checkGeneration(records); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		cp := *r
		s.records = append(s.records, &cp)
	}
	return nil
}

// LatestGeneration returns the most recently appended generation for key.
func (s *InMemoryStore) LatestGeneration(_ context.Context, key models.HistoryKey) ([]*models.HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		latest    id.GenerationID
		latestAt  time.Time
		haveMatch bool
	)
	for _, r := range s.records {
		if !matches(r, key) {
			continue
		}
		if !haveMatch || !r.CreatedAt.Before(latestAt) {
			latest, latestAt, haveMatch = r.GenerationID, r.CreatedAt, true
		}
	}
	if !haveMatch {
		return nil, nil
	}

	out := make([]*models.HistoryRecord, 0)
	for _, r := range s.records {
		if r.GenerationID == latest {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (s *InMemoryStore) RecommendedSince(_ context.Context, userID id.UserID, since time.Time, cadences ...models.Cadence) ([]id.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := models.NewIDSet()
	out := make([]id.UserID, 0)
	for _, r := range s.records {
		if r.UserID != userID || r.CreatedAt.Before(since) || !cadenceIn(r.Cadence, cadences) {
			continue
		}
		if seen.Has(r.RecommendedUserID) {
			continue
		}
		seen.Add(r.RecommendedUserID)
		out = append(out, r.RecommendedUserID)
	}
	return out, nil
}

func (s *InMemoryStore) DeleteBefore(_ context.Context, before time.Time) (int64, error) {
	return s.deleteWhere(func(r *models.HistoryRecord) bool {
		return r.CreatedAt.Before(before)
	}), nil
}

func (s *InMemoryStore) DeleteByUser(_ context.Context, userID id.UserID) (int64, error) {
	return s.deleteWhere(func(r *models.HistoryRecord) bool {
		return r.UserID == userID || r.RecommendedUserID == userID
	}), nil
}

func (s *InMemoryStore) Stats(_ context.Context, userID id.UserID) (*models.HistoryStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.HistoryStats{
		UserID:    userID,
		ByCadence: make(map[models.Cadence]models.CadenceStats),
	}
	distinct := models.NewIDSet()
	generations := make(map[models.Cadence]map[id.GenerationID]struct{})
	for _, r := range s.records {
		if r.UserID != userID {
			continue
		}
		stats.TotalRecommended++
		distinct.Add(r.RecommendedUserID)

		cs := stats.ByCadence[r.Cadence]
		cs.Recommendations++
		if cs.LastGeneratedAt == nil || r.CreatedAt.After(*cs.LastGeneratedAt) {
			at := r.CreatedAt
			cs.LastGeneratedAt = &at
		}
		if generations[r.Cadence] == nil {
			generations[r.Cadence] = make(map[id.GenerationID]struct{})
		}
		generations[r.Cadence][r.GenerationID] = struct{}{}
		cs.Generations = len(generations[r.Cadence])
		stats.ByCadence[r.Cadence] = cs
	}
	stats.DistinctRecommended = len(distinct)
	return stats, nil
}

// Len returns the number of stored records.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *InMemoryStore) deleteWhere(drop func(*models.HistoryRecord) bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	var deleted int64
	for _, r := range s.records {
		if drop(r) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	for i := len(kept); i < len(s.records); i++ {
		s.records[i] = nil
	}
	s.records = kept
	return deleted
}

func matches(r *models.HistoryRecord, key models.HistoryKey) bool {
	return r.UserID == key.UserID &&
		r.Cadence == key.Cadence &&
		r.SlotLabel == key.Slot &&
		r.RecommendedDate.Equal(key.Date)
}

func cadenceIn(c models.Cadence, cadences []models.Cadence) bool {
	if len(cadences) == 0 {
		return true
	}
	for _, want := range cadences {
		if c == want {
			return true
		}
	}
	return false
}
