package relationship

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "tandem/pkg/domain"
)

// PostgresStore reads blocks, interests and conversation_participants. It
// always uses the pool, never a transaction from ctx, because the lookups
// run concurrently.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) BlockedUserIDs(ctx context.Context, userID id.UserID) ([]id.UserID, error) {
	return s.queryIDs(ctx, "load blocks", `
		SELECT blocked_id FROM blocks WHERE blocker_id = $1
		UNION
		SELECT blocker_id FROM blocks WHERE blocked_id = $1
	`, uuid.UUID(userID))
}

func (s *PostgresStore) InterestPartnerIDs(ctx context.Context, userID id.UserID, from, to time.Time) ([]id.UserID, error) {
	return s.queryIDs(ctx, "load interests", `
		SELECT receiver_id FROM interests
		WHERE sender_id = $1 AND created_at BETWEEN $2 AND $3
		UNION
		SELECT sender_id FROM interests
		WHERE receiver_id = $1 AND created_at BETWEEN $2 AND $3
	`, uuid.UUID(userID), from, to)
}

// PartnerIDs includes conversations either side has left.
func (s *PostgresStore) PartnerIDs(ctx context.Context, userID id.UserID) ([]id.UserID, error) {
	return s.queryIDs(ctx, "load conversation partners", `
		SELECT DISTINCT other.user_id
		FROM conversation_participants mine
		JOIN conversation_participants other
			ON other.conversation_id = mine.conversation_id
			AND other.user_id <> mine.user_id
		WHERE mine.user_id = $1
	`, uuid.UUID(userID))
}

func (s *PostgresStore) queryIDs(ctx context.Context, op, query string, args ...any) ([]id.UserID, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]id.UserID, 0)
	for rows.Next() {
		var u uuid.UUID
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, id.UserID(u))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate: %w", op, err)
	}
	return out, nil
}
