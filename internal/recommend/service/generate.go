package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tandem/internal/recommend/bucket"
	"tandem/internal/recommend/exclusion"
	"tandem/internal/recommend/models"
	"tandem/internal/recommend/timewindow"
	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
	"tandem/pkg/platform/sentinel"
)

// window is one cache entry in the ledger together with the time facts a
// generation for it needs.
type window struct {
	key    models.HistoryKey
	rng    timewindow.Range
	anchor time.Time
}

// generation describes one generate-or-reuse request.
type generation struct {
	settings  *models.Settings
	requester *models.Member
	window    window
	now       time.Time
	force     bool
	source    models.GenerationSource
}

// outcome is the ordered candidate list for a window.
type outcome struct {
	candidates []*models.Member
	reused     bool
}

// obtain returns the window's existing set or generates one. Reuse is tried
// first without the lock; a miss takes the user's lock and checks again
// inside the transaction so a concurrent generation is observed rather than
// repeated.
func (s *Service) obtain(ctx context.Context, g generation) (*outcome, error) {
	if !g.force {
		ids, err := s.existing(ctx, g.window.key)
		if err != nil {
			return nil, err
		}
		if len(ids) > 0 {
			return s.reuse(ctx, g, ids)
		}
	}

	ids, event, err := s.generateLocked(ctx, g)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return s.reuse(ctx, g, ids)
	}
	s.publish(ctx, event)

	candidates, err := s.resolve(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &outcome{candidates: candidates}, nil
}

// generateLocked holds the user's lock from the key check to commit. It
// returns a nil event when another caller generated the window first.
func (s *Service) generateLocked(ctx context.Context, g generation) ([]id.UserID, *models.GenerationEvent, error) {
	userID := g.requester.ID
	cadence := g.window.key.Cadence

	ctx, span := s.tracer.Start(ctx, "recommend.generate",
		trace.WithAttributes(
			attribute.String("recommend.user_id", userID.String()),
			attribute.String("recommend.cadence", string(cadence)),
			attribute.String("recommend.slot", string(g.window.key.Slot)),
			attribute.String("recommend.source", string(g.source)),
			attribute.Bool("recommend.force", g.force),
		),
	)
	defer span.End()

	release, err := s.acquire(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lock wait failed")
		return nil, nil, err
	}
	defer release()

	start := time.Now()
	ids, event, err := s.generateAndRecord(ctx, g)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		s.logError(ctx, "recommendation generation failed",
			"user_id", userID.String(),
			"cadence", string(cadence),
			"slot", string(g.window.key.Slot),
			"error", err,
		)
		return nil, nil, internal(err, "failed to generate recommendations")
	}

	if event != nil {
		s.metrics.ObserveGenerateLatency(string(cadence), time.Since(start))
		s.metrics.IncrementGeneration(string(cadence), string(g.source))
		want := g.settings.CountFor(cadence)
		if len(ids) < want {
			s.metrics.IncrementShortResult(string(cadence))
		}
		span.SetAttributes(attribute.Int("recommend.selected", len(ids)))
	}
	span.SetStatus(codes.Ok, "")
	return ids, event, nil
}

// generateAndRecord runs under the user's lock. Exclusions and candidates
// are read before the transaction opens, so a transaction never waits on
// the pool for another connection; the transaction only re-checks the key
// and records the set.
func (s *Service) generateAndRecord(ctx context.Context, g generation) ([]id.UserID, *models.GenerationEvent, error) {
	if !g.force {
		existing, err := s.existing(ctx, g.window.key)
		if err != nil {
			return nil, nil, err
		}
		if len(existing) > 0 {
			return existing, nil, nil
		}
	}

	selected, err := s.generate(ctx, g)
	if err != nil {
		return nil, nil, err
	}

	var (
		ids   []id.UserID
		event *models.GenerationEvent
	)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if !g.force {
			existing, err := s.existing(txCtx, g.window.key)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				ids = existing
				return nil
			}
		}

		records := models.NewGeneration(g.window.key, selected, g.now)
		if len(records) > 0 {
			if err := s.history.Record(txCtx, records); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record recommendations")
			}
		}

		ids = selected
		event = &models.GenerationEvent{
			UserID:      g.requester.ID,
			Cadence:     g.window.key.Cadence,
			Slot:        g.window.key.Slot,
			Recommended: selected,
			Source:      g.source,
			GeneratedAt: g.now,
		}
		if len(records) > 0 {
			event.GenerationID = records[0].GenerationID
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return ids, event, nil
}

// generate resolves exclusions and walks the buckets.
func (s *Service) generate(ctx context.Context, g generation) ([]id.UserID, error) {
	cadence := g.window.key.Cadence
	excluded, err := s.resolver.AllExcluded(ctx, exclusion.Query{
		UserID:          g.requester.ID,
		Cadence:         cadence,
		Now:             g.now,
		Anchor:          g.window.anchor,
		RepeatAvoidDays: g.settings.RepeatAvoidDays,
		AcrossCadences:  g.settings.AllowDuplicateAcrossCadences,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve exclusions")
	}

	selected, err := s.selector.Select(ctx, bucket.Request{
		Requester:  g.requester,
		Exclude:    excluded,
		Count:      g.settings.CountFor(cadence),
		Preference: g.settings.AgePreference,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to select candidates")
	}
	return models.MemberIDs(selected), nil
}

// acquire takes the user's lock. A bounded wait that runs out surfaces as
// a timeout.
func (s *Service) acquire(ctx context.Context, userID id.UserID) (func(), error) {
	start := time.Now()
	release, err := s.locker.Acquire(ctx, lockKeyPrefix+userID.String())
	s.metrics.ObserveLockWait(time.Since(start))
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrLockTimeout):
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "timed out waiting for recommendation lock")
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "request ended while waiting for recommendation lock")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to acquire recommendation lock")
		}
	}
	return release, nil
}

// existing returns the ids of the window's newest generation in order.
func (s *Service) existing(ctx context.Context, key models.HistoryKey) ([]id.UserID, error) {
	records, err := s.history.LatestGeneration(ctx, key)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read recommendation history")
	}
	ids := make([]id.UserID, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.RecommendedUserID)
	}
	return ids, nil
}

func (s *Service) reuse(ctx context.Context, g generation, ids []id.UserID) (*outcome, error) {
	s.metrics.IncrementReuse(string(g.window.key.Cadence))
	candidates, err := s.resolve(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &outcome{candidates: candidates, reused: true}, nil
}

// resolve loads members for ids, keeping their order.
func (s *Service) resolve(ctx context.Context, ids []id.UserID) ([]*models.Member, error) {
	if len(ids) == 0 {
		return []*models.Member{}, nil
	}
	members, err := s.members.FindByIDs(ctx, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load recommended members")
	}
	return members, nil
}

// publish runs after commit. A failed publish is logged and not returned.
func (s *Service) publish(ctx context.Context, event *models.GenerationEvent) {
	if s.publisher == nil || len(event.Recommended) == 0 {
		return
	}
	if err := s.publisher.PublishGenerated(ctx, event); err != nil {
		s.metrics.IncrementPublishFailure()
		s.logWarn(ctx, "failed to publish generation event",
			"user_id", event.UserID.String(),
			"cadence", string(event.Cadence),
			"generation_id", event.GenerationID.String(),
			"error", err,
		)
	}
}

// internal keeps an existing code and marks anything else as internal.
func internal(err error, msg string) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
