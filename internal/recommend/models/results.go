package models

import (
	"time"

	id "tandem/pkg/domain"
)

// DailyResult is the 24h recommendation set.
type DailyResult struct {
	Candidates []*Member `json:"candidates"`
	// Reused is true when the set came from an earlier generation.
	Reused      bool      `json:"reused"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}

// SlotResult is a slot's recommendation set. When Active is false the slot
// schedule did not cover the request (or the label was not configured) and
// NextSlot hints at the next valid slot.
type SlotResult struct {
	Active      bool      `json:"active"`
	Slot        SlotLabel `json:"slot,omitempty"`
	NextSlot    SlotLabel `json:"next_slot,omitempty"`
	Candidates  []*Member `json:"candidates"`
	Reused      bool      `json:"reused"`
	WindowStart time.Time `json:"window_start,omitempty"`
	WindowEnd   time.Time `json:"window_end,omitempty"`
}

// SlotPage is one page of the current slot's set.
type SlotPage struct {
	SlotResult
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

// GenerationSource says what triggered a generation.
type GenerationSource string

const (
	SourceRequest GenerationSource = "request"
	SourceRefresh GenerationSource = "force_refresh"
	SourceWarmup  GenerationSource = "warmup"
)

// GenerationEvent is published after a generation commits.
type GenerationEvent struct {
	GenerationID id.GenerationID  `json:"generation_id"`
	UserID       id.UserID        `json:"user_id"`
	Cadence      Cadence          `json:"cadence"`
	Slot         SlotLabel        `json:"slot,omitempty"`
	Recommended  []id.UserID      `json:"recommended"`
	Source       GenerationSource `json:"source"`
	GeneratedAt  time.Time        `json:"generated_at"`
}

// RefreshResult is the outcome of a forced regeneration of one window.
type RefreshResult struct {
	Cadence     Cadence   `json:"cadence"`
	Slot        SlotLabel `json:"slot,omitempty"`
	Candidates  []*Member `json:"candidates"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}
