package models

import "time"

// Default policy values.
const (
	DefaultDailyCount       = 5
	DefaultSlotCount        = 3
	DefaultRepeatAvoidDays  = 14
	DefaultRetentionDays    = 90
	DefaultDailyRefreshTime = SlotLabel("00:00")
	DefaultTimezone         = "Asia/Seoul"
)

// DefaultSlotLabels is the two-slot schedule.
var DefaultSlotLabels = []SlotLabel{"10:00", "22:00"}

// Settings is the process-wide recommendation policy. A snapshot is read once
// per request and never mutated; updates replace the whole value.
type Settings struct {
	DailyCount int         `json:"daily_count" koanf:"daily_count" validate:"gt=0"`
	SlotCount  int         `json:"slot_count" koanf:"slot_count" validate:"gt=0"`
	SlotLabels []SlotLabel `json:"slot_labels" koanf:"slot_labels" validate:"required,min=1,unique,dive,slotlabel"`
	// SlotDuration bounds each slot window; zero tiles every slot until the
	// next configured label.
	SlotDuration                 time.Duration `json:"slot_duration" koanf:"slot_duration" validate:"gte=0,lte=24h"`
	RepeatAvoidDays              int           `json:"repeat_avoid_days" koanf:"repeat_avoid_days" validate:"gte=0"`
	AllowDuplicateAcrossCadences bool          `json:"allow_duplicate_across_cadences" koanf:"allow_duplicate_across_cadences"`
	DailyRefreshTime             SlotLabel     `json:"daily_refresh_time" koanf:"daily_refresh_time" validate:"slotlabel"`
	Timezone                     string        `json:"timezone" koanf:"timezone" validate:"required,timezone"`
	// RetentionDays bounds the history ledger; zero keeps history forever.
	RetentionDays int           `json:"retention_days" koanf:"retention_days" validate:"gte=0"`
	AgePreference AgePreference `json:"age_preference" koanf:"age_preference"`
}

// DefaultSettings returns the built-in policy.
func DefaultSettings() Settings {
	labels := make([]SlotLabel, len(DefaultSlotLabels))
	copy(labels, DefaultSlotLabels)
	return Settings{
		DailyCount:                   DefaultDailyCount,
		SlotCount:                    DefaultSlotCount,
		SlotLabels:                   labels,
		RepeatAvoidDays:              DefaultRepeatAvoidDays,
		AllowDuplicateAcrossCadences: false,
		DailyRefreshTime:             DefaultDailyRefreshTime,
		Timezone:                     DefaultTimezone,
		RetentionDays:                DefaultRetentionDays,
		AgePreference:                DefaultAgePreference(),
	}
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	out := *s
	out.SlotLabels = make([]SlotLabel, len(s.SlotLabels))
	copy(out.SlotLabels, s.SlotLabels)
	return &out
}

// HasSlot reports whether label is configured.
func (s *Settings) HasSlot(label SlotLabel) bool {
	for _, l := range s.SlotLabels {
		if l == label {
			return true
		}
	}
	return false
}

// CountFor returns the configured result size for a cadence.
func (s *Settings) CountFor(c Cadence) int {
	if c == CadenceSlot {
		return s.SlotCount
	}
	return s.DailyCount
}
