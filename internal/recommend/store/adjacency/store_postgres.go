package adjacency

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore reads region_adjacency.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Adjacent(ctx context.Context, mainRegion string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT adjacent_region FROM region_adjacency
		WHERE main_region = $1
		ORDER BY priority, adjacent_region
	`, mainRegion)
	if err != nil {
		return nil, fmt.Errorf("load adjacent regions: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var region string
		if err := rows.Scan(&region); err != nil {
			return nil, fmt.Errorf("scan adjacent region: %w", err)
		}
		out = append(out, region)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate adjacent regions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) LoadAll(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT main_region, adjacent_region FROM region_adjacency
		ORDER BY main_region, priority, adjacent_region
	`)
	if err != nil {
		return nil, fmt.Errorf("load region adjacency: %w", err)
	}
	defer rows.Close()

	table := make(map[string][]string)
	for rows.Next() {
		var main, adjacent string
		if err := rows.Scan(&main, &adjacent); err != nil {
			return nil, fmt.Errorf("scan region adjacency: %w", err)
		}
		table[main] = append(table[main], adjacent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate region adjacency: %w", err)
	}
	return table, nil
}

// Seed inserts table rows that are not present yet, using list order as
// priority. Existing rows are left alone so admin edits survive restarts.
func (s *PostgresStore) Seed(ctx context.Context, table map[string][]string) error {
	for main, adjacent := range table {
		for priority, region := range adjacent {
			_, err := s.db.ExecContext(ctx, `
				INSERT INTO region_adjacency (main_region, adjacent_region, priority)
				VALUES ($1, $2, $3)
				ON CONFLICT (main_region, adjacent_region) DO NOTHING
			`, main, region, priority+1)
			if err != nil {
				return fmt.Errorf("seed adjacency %s -> %s: %w", main, region, err)
			}
		}
	}
	return nil
}
