package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"tandem/internal/recommend/models"
	id "tandem/pkg/domain"
	"tandem/pkg/platform/sentinel"
)

const memberColumns = `id, main_region, sub_region, age, status, profile_complete`

// recommendable mirrors models.Member.IsRecommendable.
const recommendable = `status = 'ACTIVE' AND profile_complete AND main_region <> '' AND sub_region <> ''`

// PostgresStore reads the members projection.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = $1`, uuid.UUID(userID))
	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find member by id: %w", err)
	}
	return m, nil
}

// FindByIDs returns members in the order of ids; unknown ids are skipped.
func (s *PostgresStore) FindByIDs(ctx context.Context, ids []id.UserID) ([]*models.Member, error) {
	if len(ids) == 0 {
		return []*models.Member{}, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = ANY($1::uuid[])`,
		pq.Array(id.UserIDStrings(ids)))
	if err != nil {
		return nil, fmt.Errorf("find members by ids: %w", err)
	}
	found, err := scanMembers(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[id.UserID]*models.Member, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}
	out := make([]*models.Member, 0, len(ids))
	for _, u := range ids {
		if m, ok := byID[u]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// FindCandidates samples with ORDER BY random().
func (s *PostgresStore) FindCandidates(ctx context.Context, q models.CandidateQuery) ([]*models.Member, error) {
	if q.Limit <= 0 {
		return []*models.Member{}, nil
	}
	hasAge := q.Age != nil
	var anchor, minDiff, maxDiff int
	if hasAge {
		anchor, minDiff, maxDiff = q.Age.Anchor, q.Age.MinDiff, q.Age.MaxDiff
	}
	mainRegions := q.MainRegions
	if mainRegions == nil {
		mainRegions = []string{}
	}

	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE ` + recommendable + `
			AND (cardinality($1::text[]) = 0 OR main_region = ANY($1::text[]))
			AND ($2::text = '' OR sub_region = $2::text)
			AND ($3::text = '' OR sub_region <> $3::text)
			AND NOT (id = ANY($4::uuid[]))
			AND (
				NOT $5::bool
				OR (
					abs(age - $6::int) >= $7::int
					AND ($8::int < 0 OR abs(age - $6::int) <= $8::int)
				)
			)
		ORDER BY random()
		LIMIT $9
	`
	rows, err := s.db.QueryContext(ctx, query,
		pq.Array(mainRegions),
		q.SubRegion,
		q.ExcludeSubRegion,
		pq.Array(id.UserIDStrings(q.ExcludeIDs.Slice())),
		hasAge,
		anchor,
		minDiff,
		maxDiff,
		q.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	return scanMembers(rows)
}

func (s *PostgresStore) ListActiveIDs(ctx context.Context, after id.UserID, limit int) ([]id.UserID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM members
		WHERE `+recommendable+` AND id > $1
		ORDER BY id
		LIMIT $2
	`, uuid.UUID(after), limit)
	if err != nil {
		return nil, fmt.Errorf("list active members: %w", err)
	}
	defer rows.Close()

	out := make([]id.UserID, 0, limit)
	for rows.Next() {
		var u uuid.UUID
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan active member: %w", err)
		}
		out = append(out, id.UserID(u))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active members: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(row scanner) (*models.Member, error) {
	var (
		u      uuid.UUID
		status string
		m      models.Member
	)
	if err := row.Scan(&u, &m.MainRegion, &m.SubRegion, &m.Age, &status, &m.ProfileComplete); err != nil {
		return nil, err
	}
	m.ID = id.UserID(u)
	m.Status = models.MemberStatus(status)
	return &m, nil
}

func scanMembers(rows *sql.Rows) ([]*models.Member, error) {
	defer rows.Close()
	out := make([]*models.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return out, nil
}
