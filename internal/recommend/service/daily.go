package service

import (
	"context"

	"tandem/internal/recommend/models"
	id "tandem/pkg/domain"
)

// RecommendDaily returns the user's set for the current 24h window,
// generating and recording it on the first call of the window.
func (s *Service) RecommendDaily(ctx context.Context, userID id.UserID) (*models.DailyResult, error) {
	return s.daily(ctx, userID, false, models.SourceRequest)
}

// ForceRefreshDaily regenerates the current daily set even if one exists.
func (s *Service) ForceRefreshDaily(ctx context.Context, userID id.UserID) (*models.DailyResult, error) {
	return s.daily(ctx, userID, true, models.SourceRefresh)
}

func (s *Service) daily(ctx context.Context, userID id.UserID, force bool, source models.GenerationSource) (*models.DailyResult, error) {
	snap, calc, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	now := s.clock(ctx)
	rng := calc.DailyWindow(now)
	result := &models.DailyResult{
		Candidates:  []*models.Member{},
		WindowStart: rng.Start,
		WindowEnd:   rng.End,
	}

	requester, err := s.requester(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.eligible(ctx, requester, models.CadenceDaily) {
		return result, nil
	}

	out, err := s.obtain(ctx, generation{
		settings:  snap,
		requester: requester,
		window: window{
			key: models.HistoryKey{
				UserID:  userID,
				Cadence: models.CadenceDaily,
				Date:    calc.DateOf(rng),
			},
			rng:    rng,
			anchor: calc.LatestBoundary(now),
		},
		now:    now,
		force:  force,
		source: source,
	})
	if err != nil {
		return nil, err
	}
	result.Candidates = out.candidates
	result.Reused = out.reused
	return result, nil
}
