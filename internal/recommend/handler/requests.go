package handler

import (
	"time"

	"tandem/internal/recommend/models"
	dErrors "tandem/pkg/domain-errors"
)

type refreshRequest struct {
	Cadence string `json:"cadence"`
	Slot    string `json:"slot,omitempty"`
}

func (r refreshRequest) cadence() (models.Cadence, error) {
	return models.ParseCadence(r.Cadence)
}

// settingsBody is the admin wire form of models.Settings. Slot duration is
// a Go duration string such as "12h".
type settingsBody struct {
	DailyCount                   int                  `json:"daily_count"`
	SlotCount                    int                  `json:"slot_count"`
	SlotLabels                   []models.SlotLabel   `json:"slot_labels"`
	SlotDuration                 string               `json:"slot_duration,omitempty"`
	RepeatAvoidDays              int                  `json:"repeat_avoid_days"`
	AllowDuplicateAcrossCadences bool                 `json:"allow_duplicate_across_cadences"`
	DailyRefreshTime             models.SlotLabel     `json:"daily_refresh_time"`
	Timezone                     string               `json:"timezone"`
	RetentionDays                int                  `json:"retention_days"`
	AgePreference                models.AgePreference `json:"age_preference"`
}

func toSettingsBody(s *models.Settings) settingsBody {
	body := settingsBody{
		DailyCount:                   s.DailyCount,
		SlotCount:                    s.SlotCount,
		SlotLabels:                   s.SlotLabels,
		RepeatAvoidDays:              s.RepeatAvoidDays,
		AllowDuplicateAcrossCadences: s.AllowDuplicateAcrossCadences,
		DailyRefreshTime:             s.DailyRefreshTime,
		Timezone:                     s.Timezone,
		RetentionDays:                s.RetentionDays,
		AgePreference:                s.AgePreference,
	}
	if s.SlotDuration > 0 {
		body.SlotDuration = s.SlotDuration.String()
	}
	return body
}

func (b settingsBody) toModel() (models.Settings, error) {
	var duration time.Duration
	if b.SlotDuration != "" {
		d, err := time.ParseDuration(b.SlotDuration)
		if err != nil {
			return models.Settings{}, dErrors.New(dErrors.CodeValidation, "slot_duration must be a duration such as 12h")
		}
		duration = d
	}
	return models.Settings{
		DailyCount:                   b.DailyCount,
		SlotCount:                    b.SlotCount,
		SlotLabels:                   b.SlotLabels,
		SlotDuration:                 duration,
		RepeatAvoidDays:              b.RepeatAvoidDays,
		AllowDuplicateAcrossCadences: b.AllowDuplicateAcrossCadences,
		DailyRefreshTime:             b.DailyRefreshTime,
		Timezone:                     b.Timezone,
		RetentionDays:                b.RetentionDays,
		AgePreference:                b.AgePreference,
	}, nil
}

type deleteHistoryResponse struct {
	UserID  string `json:"user_id"`
	Deleted int64  `json:"deleted"`
}
