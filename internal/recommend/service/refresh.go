package service

import (
	"context"

	"tandem/internal/recommend/models"
	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
)

// ForceRefresh regenerates the window of cadence. label is only read for
// slots; empty means the current slot.
func (s *Service) ForceRefresh(ctx context.Context, userID id.UserID, cadence models.Cadence, label string) (*models.RefreshResult, error) {
	switch cadence {
	case models.CadenceDaily:
		if label != "" {
			return nil, dErrors.New(dErrors.CodeValidation, "slot must be empty for daily refresh")
		}
		res, err := s.ForceRefreshDaily(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &models.RefreshResult{
			Cadence:     cadence,
			Candidates:  res.Candidates,
			WindowStart: res.WindowStart,
			WindowEnd:   res.WindowEnd,
		}, nil
	case models.CadenceSlot:
		res, err := s.ForceRefreshSlot(ctx, userID, label)
		if err != nil {
			return nil, err
		}
		return &models.RefreshResult{
			Cadence:     cadence,
			Slot:        res.Slot,
			Candidates:  res.Candidates,
			WindowStart: res.WindowStart,
			WindowEnd:   res.WindowEnd,
		}, nil
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "cadence must be DAILY or SLOT")
	}
}
