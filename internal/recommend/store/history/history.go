// Package history stores the append-only recommendation ledger.
package history

import (
	"errors"

	"tandem/internal/recommend/models"
)

// ErrMixedGeneration is returned when one Record call spans generations or keys.
var ErrMixedGeneration = errors.New("records must belong to a single generation")

// checkGeneration requires every record to share the first record's
// generation and ledger key.
func checkGeneration(records []*models.HistoryRecord) error {
	first := records[0]
	for _, r := range records[1:] {
		if r.GenerationID != first.GenerationID ||
			r.UserID != first.UserID ||
			r.Cadence != first.Cadence ||
			r.SlotLabel != first.SlotLabel ||
			!r.RecommendedDate.Equal(first.RecommendedDate) {
			return ErrMixedGeneration
		}
	}
	return nil
}
