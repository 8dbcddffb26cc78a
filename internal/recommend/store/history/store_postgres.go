package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"tandem/internal/recommend/models"
	id "tandem/pkg/domain"
	"tandem/pkg/platform/tx"
)

const dateLayout = "2006-01-02"

// PostgresStore persists the ledger in recommendation_history. Every query
// joins the transaction carried in ctx when there is one.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Record writes one generation with a single INSERT ... SELECT FROM unnest.
func (s *PostgresStore) Record(ctx context.Context, records []*models.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := checkGeneration(records); err != nil {
		return err
	}
	first := records[0]
	recommended := make([]string, len(records))
	positions := make([]int64, len(records))
	for i, r := range records {
		recommended[i] = r.RecommendedUserID.String()
		positions[i] = int64(r.Position)
	}

	query := `
		INSERT INTO recommendation_history
			(generation_id, user_id, recommended_user_id, recommended_date, cadence, slot_label, position, created_at)
		SELECT $1, $2, r.recommended_user_id, $3::date, $4, $5, r.position, $6
		FROM unnest($7::uuid[], $8::int[]) AS r(recommended_user_id, position)
	`
	_, err := tx.QuerierFrom(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(first.GenerationID),
		uuid.UUID(first.UserID),
		first.RecommendedDate.Format(dateLayout),
		string(first.Cadence),
		nullableLabel(first.SlotLabel),
		first.CreatedAt,
		pq.Array(recommended),
		pq.Array(positions),
	)
	if err != nil {
		return fmt.Errorf("record recommendation history: %w", err)
	}
	return nil
}

func (s *PostgresStore) LatestGeneration(ctx context.Context, key models.HistoryKey) ([]*models.HistoryRecord, error) {
	query := `
		SELECT generation_id, recommended_user_id, position, created_at
		FROM recommendation_history
		WHERE generation_id = (
			SELECT generation_id
			FROM recommendation_history
			WHERE user_id = $1
				AND cadence = $2
				AND slot_label IS NOT DISTINCT FROM $3
				AND recommended_date = $4::date
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		)
		ORDER BY position
	`
	rows, err := tx.QuerierFrom(ctx, s.db).QueryContext(ctx, query,
		uuid.UUID(key.UserID),
		string(key.Cadence),
		nullableLabel(key.Slot),
		key.Date.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("load latest generation: %w", err)
	}
	defer rows.Close()

	out := make([]*models.HistoryRecord, 0)
	for rows.Next() {
		var (
			generationID uuid.UUID
			recommended  uuid.UUID
			position     int
			createdAt    time.Time
		)
		if err := rows.Scan(&generationID, &recommended, &position, &createdAt); err != nil {
			return nil, fmt.Errorf("scan latest generation: %w", err)
		}
		out = append(out, &models.HistoryRecord{
			GenerationID:      id.GenerationID(generationID),
			UserID:            key.UserID,
			RecommendedUserID: id.UserID(recommended),
			RecommendedDate:   key.Date,
			Cadence:           key.Cadence,
			SlotLabel:         key.Slot,
			Position:          position,
			CreatedAt:         createdAt.UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate latest generation: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) RecommendedSince(ctx context.Context, userID id.UserID, since time.Time, cadences ...models.Cadence) ([]id.UserID, error) {
	filter := make([]string, len(cadences))
	for i, c := range cadences {
		filter[i] = string(c)
	}
	query := `
		SELECT DISTINCT recommended_user_id
		FROM recommendation_history
		WHERE user_id = $1
			AND created_at >= $2
			AND (cardinality($3::text[]) = 0 OR cadence = ANY($3::text[]))
	`
	rows, err := tx.QuerierFrom(ctx, s.db).QueryContext(ctx, query, uuid.UUID(userID), since, pq.Array(filter))
	if err != nil {
		return nil, fmt.Errorf("load recent recommendations: %w", err)
	}
	defer rows.Close()

	out := make([]id.UserID, 0)
	for rows.Next() {
		var u uuid.UUID
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan recent recommendation: %w", err)
		}
		out = append(out, id.UserID(u))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent recommendations: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := tx.QuerierFrom(ctx, s.db).ExecContext(ctx,
		`DELETE FROM recommendation_history WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired history: %w", err)
	}
	return res.RowsAffected()
}

func (s *PostgresStore) DeleteByUser(ctx context.Context, userID id.UserID) (int64, error) {
	res, err := tx.QuerierFrom(ctx, s.db).ExecContext(ctx,
		`DELETE FROM recommendation_history WHERE user_id = $1 OR recommended_user_id = $1`, uuid.UUID(userID))
	if err != nil {
		return 0, fmt.Errorf("delete user history: %w", err)
	}
	return res.RowsAffected()
}

func (s *PostgresStore) Stats(ctx context.Context, userID id.UserID) (*models.HistoryStats, error) {
	q := tx.QuerierFrom(ctx, s.db)
	stats := &models.HistoryStats{
		UserID:    userID,
		ByCadence: make(map[models.Cadence]models.CadenceStats),
	}

	rows, err := q.QueryContext(ctx, `
		SELECT cadence, COUNT(*), COUNT(DISTINCT generation_id), MAX(created_at)
		FROM recommendation_history
		WHERE user_id = $1
		GROUP BY cadence
	`, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("load history stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cadence string
			cs      models.CadenceStats
			last    time.Time
		)
		if err := rows.Scan(&cadence, &cs.Recommendations, &cs.Generations, &last); err != nil {
			return nil, fmt.Errorf("scan history stats: %w", err)
		}
		last = last.UTC()
		cs.LastGeneratedAt = &last
		stats.ByCadence[models.Cadence(cadence)] = cs
		stats.TotalRecommended += cs.Recommendations
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history stats: %w", err)
	}

	err = q.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT recommended_user_id) FROM recommendation_history WHERE user_id = $1`,
		uuid.UUID(userID),
	).Scan(&stats.DistinctRecommended)
	if err != nil {
		return nil, fmt.Errorf("count distinct recommended: %w", err)
	}
	return stats, nil
}

func nullableLabel(l models.SlotLabel) sql.NullString {
	return sql.NullString{String: string(l), Valid: l != ""}
}
