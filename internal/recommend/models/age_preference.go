package models

import (
	dErrors "tandem/pkg/domain-errors"
)

// Default age banding.
const (
	DefaultPreferredMaxDiff = 5
	DefaultCutoffDiff       = 6
)

// AgePreference bands candidates by absolute age difference.
//
// Invariants:
//   - PreferredMaxDiff >= 0
//   - CutoffDiff > PreferredMaxDiff
type AgePreference struct {
	PreferredMaxDiff            int  `json:"preferred_max_diff" koanf:"preferred_max_diff" validate:"gte=0"`
	CutoffDiff                  int  `json:"cutoff_diff" koanf:"cutoff_diff" validate:"gtfield=PreferredMaxDiff"`
	AllowCutoffWhenInsufficient bool `json:"allow_cutoff_when_insufficient" koanf:"allow_cutoff_when_insufficient"`
}

// AgeBand is the classification of one candidate relative to the requester.
type AgeBand int

const (
	// AgeBandPreferred is within PreferredMaxDiff.
	AgeBandPreferred AgeBand = iota + 1
	// AgeBandAcceptable is above PreferredMaxDiff but below CutoffDiff.
	AgeBandAcceptable
	// AgeBandCutoff is at or beyond CutoffDiff; only used as filler.
	AgeBandCutoff
)

func (b AgeBand) String() string {
	switch b {
	case AgeBandPreferred:
		return "preferred"
	case AgeBandAcceptable:
		return "acceptable"
	case AgeBandCutoff:
		return "cutoff"
	default:
		return "unknown"
	}
}

// DefaultAgePreference returns the default banding.
func DefaultAgePreference() AgePreference {
	return AgePreference{
		PreferredMaxDiff:            DefaultPreferredMaxDiff,
		CutoffDiff:                  DefaultCutoffDiff,
		AllowCutoffWhenInsufficient: true,
	}
}

// NewAgePreference validates the banding invariants.
func NewAgePreference(preferredMaxDiff, cutoffDiff int, allowCutoff bool) (AgePreference, error) {
	p := AgePreference{
		PreferredMaxDiff:            preferredMaxDiff,
		CutoffDiff:                  cutoffDiff,
		AllowCutoffWhenInsufficient: allowCutoff,
	}
	if err := p.Validate(); err != nil {
		return AgePreference{}, err
	}
	return p, nil
}

// Validate checks the banding invariants.
func (p AgePreference) Validate() error {
	if p.PreferredMaxDiff < 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "preferred max age diff must be >= 0")
	}
	if p.CutoffDiff <= p.PreferredMaxDiff {
		return dErrors.New(dErrors.CodeInvariantViolation, "cutoff age diff must be greater than preferred max age diff")
	}
	return nil
}

func (p AgePreference) IsPreferred(diff int) bool {
	return diff <= p.PreferredMaxDiff
}

func (p AgePreference) IsCutoff(diff int) bool {
	return diff >= p.CutoffDiff
}

// Classify returns the band for an absolute age difference.
func (p AgePreference) Classify(diff int) AgeBand {
	switch {
	case p.IsPreferred(diff):
		return AgeBandPreferred
	case p.IsCutoff(diff):
		return AgeBandCutoff
	default:
		return AgeBandAcceptable
	}
}

// Range returns the age filter selecting band around anchor, or nil when the
// band is empty (acceptable is empty when CutoffDiff == PreferredMaxDiff+1).
func (p AgePreference) Range(band AgeBand, anchor int) *AgeRange {
	switch band {
	case AgeBandPreferred:
		return &AgeRange{Anchor: anchor, MinDiff: 0, MaxDiff: p.PreferredMaxDiff}
	case AgeBandAcceptable:
		if p.CutoffDiff-1 < p.PreferredMaxDiff+1 {
			return nil
		}
		return &AgeRange{Anchor: anchor, MinDiff: p.PreferredMaxDiff + 1, MaxDiff: p.CutoffDiff - 1}
	case AgeBandCutoff:
		return &AgeRange{Anchor: anchor, MinDiff: p.CutoffDiff, MaxDiff: -1}
	default:
		return nil
	}
}
