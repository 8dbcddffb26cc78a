package service

import (
	"context"
	"time"

	"tandem/internal/recommend/models"
	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
)

const defaultWarmupBatch = 200

// WarmupOptions tunes one warmup run.
type WarmupOptions struct {
	// Tolerance is how far the run may be from a slot start and still warm it.
	Tolerance time.Duration
	BatchSize int
	// MaxMembers caps the members visited; zero visits every active member.
	MaxMembers int
}

// WarmupReport summarizes one warmup run.
type WarmupReport struct {
	Matched     bool             `json:"matched"`
	Slot        models.SlotLabel `json:"slot,omitempty"`
	WindowStart time.Time        `json:"window_start,omitempty"`
	Scanned     int              `json:"scanned"`
	Generated   int              `json:"generated"`
	Reused      int              `json:"reused"`
	Ineligible  int              `json:"ineligible"`
	Failed      int              `json:"failed"`
}

// WarmupSlot pre-generates the slot starting near now for every active
// member through the same lock and transaction path as requests. Runs that
// are not near a slot start do nothing. One member's failure is logged and
// counted; it does not stop the run.
func (s *Service) WarmupSlot(ctx context.Context, opts WarmupOptions) (*WarmupReport, error) {
	snap, calc, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	now := s.clock(ctx)
	label, rng, ok := calc.MatchSlotWithTolerance(now, opts.Tolerance)
	report := &WarmupReport{Matched: ok}
	if !ok {
		return report, nil
	}
	report.Slot = label
	report.WindowStart = rng.Start

	batch := opts.BatchSize
	if batch <= 0 {
		batch = defaultWarmupBatch
	}

	var after id.UserID
	for {
		if err := ctx.Err(); err != nil {
			return report, dErrors.Wrap(err, dErrors.CodeTimeout, "warmup interrupted")
		}
		ids, err := s.members.ListActiveIDs(ctx, after, batch)
		if err != nil {
			return report, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list active members")
		}
		if len(ids) == 0 {
			break
		}
		after = ids[len(ids)-1]

		members, err := s.members.FindByIDs(ctx, ids)
		if err != nil {
			return report, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load members")
		}
		for _, m := range members {
			if opts.MaxMembers > 0 && report.Scanned >= opts.MaxMembers {
				s.logWarmup(ctx, report)
				return report, nil
			}
			report.Scanned++
			if !m.HasRegion() {
				report.Ineligible++
				continue
			}
			out, err := s.obtain(ctx, generation{
				settings:  snap,
				requester: m,
				window:    slotWindow(calc, m.ID, label, rng, now),
				now:       now,
				source:    models.SourceWarmup,
			})
			if err != nil {
				report.Failed++
				s.logWarn(ctx, "slot warmup failed for member",
					"user_id", m.ID.String(),
					"slot", string(label),
					"error", err,
				)
				continue
			}
			if out.reused {
				report.Reused++
			} else {
				report.Generated++
			}
		}
	}
	s.logWarmup(ctx, report)
	return report, nil
}

func (s *Service) logWarmup(ctx context.Context, r *WarmupReport) {
	s.logInfo(ctx, "slot warmup finished",
		"slot", string(r.Slot),
		"scanned", r.Scanned,
		"generated", r.Generated,
		"reused", r.Reused,
		"ineligible", r.Ineligible,
		"failed", r.Failed,
	)
}
