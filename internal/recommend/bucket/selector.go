// Package bucket picks candidates by widening geographic tiers until the
// required count is reached.
package bucket

import (
	"context"
	"fmt"
	"log/slog"

	"tandem/internal/recommend/metrics"
	"tandem/internal/recommend/models"
	"tandem/internal/recommend/ports"
)

// Selector searches the four buckets in order. Within a bucket, preferred
// age candidates come before acceptable ones; cutoff candidates are only
// used as filler after every bucket has been searched.
type Selector struct {
	members   ports.MemberStore
	adjacency ports.AdjacencyStore
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Selector)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Selector) {
		s.metrics = m
	}
}

func New(members ports.MemberStore, adjacency ports.AdjacencyStore, opts ...Option) *Selector {
	s := &Selector{
		members:   members,
		adjacency: adjacency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request is one selection.
type Request struct {
	Requester  *models.Member
	Exclude    models.IDSet
	Count      int
	Preference models.AgePreference
}

// pass is one store query: a bucket restricted to an age band.
type pass struct {
	bucket models.Bucket
	band   models.AgeBand
	age    *models.AgeRange
}

// Select returns at most req.Count members in selection order. The
// requester must have a region.
func (s *Selector) Select(ctx context.Context, req Request) ([]*models.Member, error) {
	if req.Count <= 0 {
		return []*models.Member{}, nil
	}
	if !req.Requester.HasRegion() {
		return nil, fmt.Errorf("requester %s has no region", req.Requester.ID)
	}

	adjacent, err := s.adjacency.Adjacent(ctx, req.Requester.MainRegion)
	if err != nil {
		return nil, fmt.Errorf("load adjacent regions: %w", err)
	}

	taken := req.Exclude.Clone()
	if taken == nil {
		taken = models.NewIDSet()
	}
	taken.Add(req.Requester.ID)
	selected := make([]*models.Member, 0, req.Count)

	for _, p := range s.plan(req) {
		for _, q := range queries(p.bucket, req.Requester, adjacent) {
			remaining := req.Count - len(selected)
			if remaining == 0 {
				return selected, nil
			}
			q.ExcludeIDs = taken
			q.Age = p.age
			q.Limit = remaining

			found, err := s.members.FindCandidates(ctx, q)
			if err != nil {
				return nil, fmt.Errorf("find %s candidates: %w", p.bucket, err)
			}
			added := 0
			for _, m := range found {
				if added == remaining {
					break
				}
				if taken.Has(m.ID) {
					continue
				}
				taken.Add(m.ID)
				selected = append(selected, m)
				added++
			}
			s.metrics.AddBucketFill(p.bucket.String(), bandLabel(p), added)
		}
	}

	if s.logger != nil && len(selected) < req.Count {
		s.logger.DebugContext(ctx, "bucket selection exhausted all tiers",
			"user_id", req.Requester.ID.String(),
			"wanted", req.Count,
			"selected", len(selected),
		)
	}
	return selected, nil
}

// plan lists the passes in priority order.
func (s *Selector) plan(req Request) []pass {
	passes := make([]pass, 0, 3*len(models.Buckets))
	if req.Requester.Age <= 0 {
		for _, b := range models.Buckets {
			passes = append(passes, pass{bucket: b})
		}
		return passes
	}

	pref := req.Preference
	for _, b := range models.Buckets {
		for _, band := range []models.AgeBand{models.AgeBandPreferred, models.AgeBandAcceptable} {
			if r := pref.Range(band, req.Requester.Age); r != nil {
				passes = append(passes, pass{bucket: b, band: band, age: r})
			}
		}
	}
	if pref.AllowCutoffWhenInsufficient {
		cutoff := pref.Range(models.AgeBandCutoff, req.Requester.Age)
		for _, b := range models.Buckets {
			passes = append(passes, pass{bucket: b, band: models.AgeBandCutoff, age: cutoff})
		}
	}
	return passes
}

// queries returns the store queries covering bucket b for requester.
func queries(b models.Bucket, requester *models.Member, adjacent []string) []models.CandidateQuery {
	switch b {
	case models.BucketSameSubRegion:
		return []models.CandidateQuery{{
			MainRegions: []string{requester.MainRegion},
			SubRegion:   requester.SubRegion,
		}}
	case models.BucketSameMainRegion:
		return []models.CandidateQuery{{
			MainRegions:      []string{requester.MainRegion},
			ExcludeSubRegion: requester.SubRegion,
		}}
	case models.BucketAdjacentRegion:
		out := make([]models.CandidateQuery, 0, len(adjacent))
		for _, region := range adjacent {
			if region == requester.MainRegion {
				continue
			}
			out = append(out, models.CandidateQuery{MainRegions: []string{region}})
		}
		return out
	default:
		return []models.CandidateQuery{{}}
	}
}

func bandLabel(p pass) string {
	if p.age == nil {
		return "any"
	}
	return p.band.String()
}
