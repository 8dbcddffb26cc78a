package service

import (
	"context"

	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
)

// CleanupHistory deletes ledger rows older than the retention window. A
// retention of zero keeps everything.
func (s *Service) CleanupHistory(ctx context.Context) (int64, error) {
	days := s.settings.Current().RetentionDays
	if days <= 0 {
		return 0, nil
	}
	cutoff := s.clock(ctx).AddDate(0, 0, -days)
	deleted, err := s.history.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to clean up recommendation history")
	}
	s.metrics.AddRetentionDeleted(deleted)
	s.logInfo(ctx, "recommendation history cleaned up",
		"cutoff", cutoff,
		"deleted", deleted,
	)
	return deleted, nil
}

// DeleteUserHistory removes every ledger row that mentions userID, as either
// the requester or the recommended member. It holds the member's lock so a
// generation in flight for them commits first. The member need not exist.
func (s *Service) DeleteUserHistory(ctx context.Context, userID id.UserID) (int64, error) {
	release, err := s.acquire(ctx, userID)
	if err != nil {
		return 0, err
	}
	defer release()

	deleted, err := s.history.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete recommendation history")
	}
	s.logInfo(ctx, "recommendation history deleted for member",
		"user_id", userID.String(),
		"deleted", deleted,
	)
	return deleted, nil
}
