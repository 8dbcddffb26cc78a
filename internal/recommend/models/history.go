package models

import (
	"time"

	id "tandem/pkg/domain"
)

// HistoryRecord is one immutable ledger row: one candidate shown to one user
// by one generation.
type HistoryRecord struct {
	GenerationID      id.GenerationID `json:"generation_id"`
	UserID            id.UserID       `json:"user_id"`
	RecommendedUserID id.UserID       `json:"recommended_user_id"`
	// RecommendedDate is the local calendar date the window started on,
	// stored at 00:00 UTC.
	RecommendedDate time.Time `json:"recommended_date"`
	Cadence         Cadence   `json:"cadence"`
	// SlotLabel is empty for daily records.
	SlotLabel SlotLabel `json:"slot_label,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryKey identifies one cache window in the ledger.
type HistoryKey struct {
	UserID  id.UserID
	Cadence Cadence
	Slot    SlotLabel
	Date    time.Time
}

// NewGeneration builds the ledger rows for one generation, positions in order.
func NewGeneration(key HistoryKey, recommended []id.UserID, now time.Time) []*HistoryRecord {
	gen := id.NewGenerationID()
	records := make([]*HistoryRecord, 0, len(recommended))
	for i, r := range recommended {
		records = append(records, &HistoryRecord{
			GenerationID:      gen,
			UserID:            key.UserID,
			RecommendedUserID: r,
			RecommendedDate:   key.Date,
			Cadence:           key.Cadence,
			SlotLabel:         key.Slot,
			Position:          i,
			CreatedAt:         now,
		})
	}
	return records
}

// CivilDate truncates t to its calendar date in t's location, returned at 00:00 UTC.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CadenceStats summarizes one cadence's ledger rows for a user.
type CadenceStats struct {
	Recommendations int        `json:"recommendations"`
	Generations     int        `json:"generations"`
	LastGeneratedAt *time.Time `json:"last_generated_at,omitempty"`
}

// HistoryStats summarizes a user's ledger.
type HistoryStats struct {
	UserID              id.UserID                `json:"user_id"`
	TotalRecommended    int                      `json:"total_recommended"`
	DistinctRecommended int                      `json:"distinct_recommended"`
	ByCadence           map[Cadence]CadenceStats `json:"by_cadence"`
}
