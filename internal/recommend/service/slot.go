package service

import (
	"context"
	"fmt"
	"time"

	"tandem/internal/recommend/models"
	"tandem/internal/recommend/timewindow"
	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
)

// RecommendSlot returns one page of the current slot's set. Pages are
// zero-based. When no slot covers now the result is inactive and names the
// next slot.
func (s *Service) RecommendSlot(ctx context.Context, userID id.UserID, page, size int) (*models.SlotPage, error) {
	if page < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "page must be >= 0")
	}
	if size <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "size must be > 0")
	}
	size = min(size, s.maxPageSize)

	snap, calc, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	now := s.clock(ctx)
	label, rng, ok := calc.CurrentSlot(now)
	if !ok {
		return &models.SlotPage{SlotResult: *inactive(calc, now), Page: page, Size: size}, nil
	}

	res, err := s.slot(ctx, snap, calc, userID, label, rng, now, false, models.SourceRequest)
	if err != nil {
		return nil, err
	}
	return paginate(res, page, size), nil
}

// RecommendSlotForLabel returns the set of the named slot while that slot
// is the current one. A malformed, unconfigured or not-current label yields
// an inactive result with the next slot.
func (s *Service) RecommendSlotForLabel(ctx context.Context, userID id.UserID, raw string) (*models.SlotResult, error) {
	snap, calc, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	now := s.clock(ctx)

	label, err := models.ParseSlotLabel(raw)
	if err != nil || !calc.HasLabel(label) {
		return inactive(calc, now), nil
	}
	rng, err := calc.SlotRangeUTC(label, now)
	if err != nil || !rng.Contains(now) {
		return inactive(calc, now), nil
	}
	return s.slot(ctx, snap, calc, userID, label, rng, now, false, models.SourceRequest)
}

// ForceRefreshSlot regenerates one slot's set. An empty label means the
// current slot. Unlike lookups, an unknown label is a validation error, and so
// is a label whose latest window has already ended: that set is never served.
func (s *Service) ForceRefreshSlot(ctx context.Context, userID id.UserID, raw string) (*models.SlotResult, error) {
	snap, calc, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	now := s.clock(ctx)

	var (
		label models.SlotLabel
		rng   timewindow.Range
	)
	if raw == "" {
		var ok bool
		label, rng, ok = calc.CurrentSlot(now)
		if !ok {
			return nil, dErrors.New(dErrors.CodeValidation, "no slot is active now")
		}
	} else {
		label, err = models.ParseSlotLabel(raw)
		if err != nil {
			return nil, err
		}
		rng, err = calc.SlotRangeUTC(label, now)
		if err != nil {
			return nil, err
		}
		if !rng.End.After(now) {
			return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("slot %q has already ended", label))
		}
	}
	return s.slot(ctx, snap, calc, userID, label, rng, now, true, models.SourceRefresh)
}

func (s *Service) slot(
	ctx context.Context,
	snap *models.Settings,
	calc *timewindow.Calculator,
	userID id.UserID,
	label models.SlotLabel,
	rng timewindow.Range,
	now time.Time,
	force bool,
	source models.GenerationSource,
) (*models.SlotResult, error) {
	result := &models.SlotResult{
		Active:      true,
		Slot:        label,
		Candidates:  []*models.Member{},
		WindowStart: rng.Start,
		WindowEnd:   rng.End,
	}

	requester, err := s.requester(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.eligible(ctx, requester, models.CadenceSlot) {
		return result, nil
	}

	out, err := s.obtain(ctx, generation{
		settings:  snap,
		requester: requester,
		window:    slotWindow(calc, userID, label, rng, now),
		now:       now,
		force:     force,
		source:    source,
	})
	if err != nil {
		return nil, err
	}

	candidates := out.candidates
	if out.reused {
		candidates, err = s.withoutUnsafe(ctx, userID, candidates, now)
		if err != nil {
			return nil, err
		}
	}
	result.Candidates = candidates
	result.Reused = out.reused
	return result, nil
}

func slotWindow(calc *timewindow.Calculator, userID id.UserID, label models.SlotLabel, rng timewindow.Range, now time.Time) window {
	return window{
		key: models.HistoryKey{
			UserID:  userID,
			Cadence: models.CadenceSlot,
			Slot:    label,
			Date:    calc.DateOf(rng),
		},
		rng:    rng,
		anchor: calc.LatestBoundary(now),
	}
}

// withoutUnsafe drops members that became blocked or exchanged interest
// after the set was recorded. The ledger is left unchanged.
func (s *Service) withoutUnsafe(ctx context.Context, userID id.UserID, candidates []*models.Member, now time.Time) ([]*models.Member, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}
	unsafe, err := s.resolver.SafetyExcluded(ctx, userID, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to re-check exclusions")
	}
	kept := make([]*models.Member, 0, len(candidates))
	for _, m := range candidates {
		if !unsafe.Has(m.ID) {
			kept = append(kept, m)
		}
	}
	if removed := len(candidates) - len(kept); removed > 0 {
		s.metrics.AddReadTimeFiltered(removed)
		if s.logger != nil {
			s.logger.DebugContext(ctx, "filtered cached slot recommendations",
				"user_id", userID.String(),
				"removed", removed,
			)
		}
	}
	return kept, nil
}

func inactive(calc *timewindow.Calculator, now time.Time) *models.SlotResult {
	next, _ := calc.NextSlot(now)
	return &models.SlotResult{
		Active:     false,
		NextSlot:   next,
		Candidates: []*models.Member{},
	}
}

func paginate(res *models.SlotResult, page, size int) *models.SlotPage {
	total := len(res.Candidates)
	// page*size can overflow for huge pages; anything past the end is empty.
	start := total
	if page < (total+size-1)/size {
		start = page * size
	}
	end := min(start+size, total)

	out := &models.SlotPage{SlotResult: *res, Page: page, Size: size, Total: total}
	out.Candidates = res.Candidates[start:end]
	return out
}
