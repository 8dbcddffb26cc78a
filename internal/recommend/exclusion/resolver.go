// Package exclusion composes the set of members that must not appear in a
// recommendation output.
package exclusion

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"tandem/internal/recommend/metrics"
	"tandem/internal/recommend/models"
	"tandem/internal/recommend/ports"
	id "tandem/pkg/domain"
)

// InterestLookback is how far back mutual interest excludes a member,
// measured from the query anchor.
const InterestLookback = 7 * 24 * time.Hour

// Query describes one exclusion resolution.
type Query struct {
	UserID  id.UserID
	Cadence models.Cadence
	Now     time.Time
	// Anchor is the most recent recommendation boundary. The interest
	// lookback ends here rather than at Now so interest expressed after the
	// boundary does not change the set for the current window.
	Anchor          time.Time
	RepeatAvoidDays int
	// AcrossCadences widens the history lookup to every cadence; otherwise
	// only history of Cadence counts.
	AcrossCadences bool
}

// Resolver fetches every exclusion source concurrently.
type Resolver struct {
	history       ports.HistoryStore
	blocks        ports.BlockStore
	interests     ports.InterestStore
	conversations ports.ConversationStore
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

func New(
	history ports.HistoryStore,
	blocks ports.BlockStore,
	interests ports.InterestStore,
	conversations ports.ConversationStore,
	opts ...Option,
) *Resolver {
	r := &Resolver{
		history:       history,
		blocks:        blocks,
		interests:     interests,
		conversations: conversations,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AllExcluded returns the requester, recently recommended members, blocks in
// either direction, recent mutual interest and every conversation partner.
// Any source failure fails the whole resolution.
func (r *Resolver) AllExcluded(ctx context.Context, q Query) (models.IDSet, error) {
	var (
		recent, blocked, interested, partners []id.UserID
	)
	g, gctx := errgroup.WithContext(ctx)

	if q.RepeatAvoidDays > 0 {
		g.Go(func() error {
			since := q.Now.AddDate(0, 0, -q.RepeatAvoidDays)
			var cadences []models.Cadence
			if !q.AcrossCadences {
				cadences = []models.Cadence{q.Cadence}
			}
			ids, err := r.history.RecommendedSince(gctx, q.UserID, since, cadences...)
			recent = ids
			return err
		})
	}
	g.Go(func() error {
		ids, err := r.blocks.BlockedUserIDs(gctx, q.UserID)
		blocked = ids
		return err
	})
	g.Go(func() error {
		ids, err := r.interests.InterestPartnerIDs(gctx, q.UserID, q.Anchor.Add(-InterestLookback), q.Anchor)
		interested = ids
		return err
	})
	g.Go(func() error {
		ids, err := r.conversations.PartnerIDs(gctx, q.UserID)
		partners = ids
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	excluded := models.NewIDSet(q.UserID)
	excluded.Add(recent...)
	excluded.Add(blocked...)
	excluded.Add(interested...)
	excluded.Add(partners...)

	r.metrics.ObserveExclusionSize(len(excluded))
	if r.logger != nil {
		r.logger.DebugContext(ctx, "exclusion set resolved",
			"user_id", q.UserID.String(),
			"cadence", q.Cadence,
			"history", len(recent),
			"blocks", len(blocked),
			"interests", len(interested),
			"conversations", len(partners),
			"total", len(excluded),
		)
	}
	return excluded, nil
}

// SafetyExcluded returns only the sources that can change faster than a
// cached window: blocks and recent mutual interest.
func (r *Resolver) SafetyExcluded(ctx context.Context, userID id.UserID, anchor time.Time) (models.IDSet, error) {
	var blocked, interested []id.UserID
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := r.blocks.BlockedUserIDs(gctx, userID)
		blocked = ids
		return err
	})
	g.Go(func() error {
		ids, err := r.interests.InterestPartnerIDs(gctx, userID, anchor.Add(-InterestLookback), anchor)
		interested = ids
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	excluded := models.NewIDSet(blocked...)
	excluded.Add(interested...)
	return excluded, nil
}
