package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"tandem/internal/recommend/models"
	dErrors "tandem/pkg/domain-errors"
	"tandem/pkg/platform/sentinel"
)

type stubStore struct {
	saved   *models.Settings
	loaded  *models.Settings
	saveErr error
	loadErr error
}

func (s *stubStore) Load(_ context.Context) (*models.Settings, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.loaded == nil {
		return nil, sentinel.ErrNotFound
	}
	return s.loaded, nil
}

func (s *stubStore) Save(_ context.Context, settings *models.Settings) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = settings
	return nil
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *models.Settings)
		wantErr string
	}{
		{"defaults are valid", func(s *models.Settings) {}, ""},
		{"zero daily count", func(s *models.Settings) { s.DailyCount = 0 }, "daily_count"},
		{"negative slot count", func(s *models.Settings) { s.SlotCount = -1 }, "slot_count"},
		{"no slot labels", func(s *models.Settings) { s.SlotLabels = nil }, "slot_labels"},
		{"malformed slot label", func(s *models.Settings) { s.SlotLabels = []models.SlotLabel{"25:00"} }, "slot_labels"},
		{"duplicate slot label", func(s *models.Settings) { s.SlotLabels = []models.SlotLabel{"10:00", "10:00"} }, "slot_labels"},
		{"negative repeat avoid days", func(s *models.Settings) { s.RepeatAvoidDays = -1 }, "repeat_avoid_days"},
		{"zero repeat avoid days", func(s *models.Settings) { s.RepeatAvoidDays = 0 }, ""},
		{"unknown timezone", func(s *models.Settings) { s.Timezone = "Mars/Olympus" }, "timezone"},
		{"empty timezone", func(s *models.Settings) { s.Timezone = "" }, "timezone"},
		{"bad refresh time", func(s *models.Settings) { s.DailyRefreshTime = "7am" }, "daily_refresh_time"},
		{"slot duration over a day", func(s *models.Settings) { s.SlotDuration = 25 * time.Hour }, "slot_duration"},
		{"retention shorter than repeat window", func(s *models.Settings) { s.RetentionDays = 7 }, "retention_days"},
		{"retention disabled", func(s *models.Settings) { s.RetentionDays = 0 }, ""},
		{"cutoff equal to preferred", func(s *models.Settings) { s.AgePreference.CutoffDiff = s.AgePreference.PreferredMaxDiff }, "cutoff_diff"},
		{"negative preferred", func(s *models.Settings) { s.AgePreference.PreferredMaxDiff = -1 }, "preferred_max_diff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := models.DefaultSettings()
			tt.mutate(&s)
			err := Validate(&s)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

type ManagerSuite struct {
	suite.Suite
	ctx   context.Context
	store *stubStore
	mgr   *Manager
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = &stubStore{}
	mgr, err := NewManager(models.DefaultSettings(), WithStore(s.store))
	s.Require().NoError(err)
	s.mgr = mgr
}

// =============================================================================
// Update Tests
// =============================================================================

func (s *ManagerSuite) TestUpdateSwapsSnapshotAfterPersisting() {
	next := models.DefaultSettings()
	next.DailyCount = 8

	updated, err := s.mgr.Update(s.ctx, next)
	s.Require().NoError(err)
	s.Equal(8, updated.DailyCount)
	s.Equal(8, s.mgr.Current().DailyCount)
	s.Require().NotNil(s.store.saved)
	s.Equal(8, s.store.saved.DailyCount)
}

func (s *ManagerSuite) TestUpdateRejectsInvalidAndKeepsCurrent() {
	next := models.DefaultSettings()
	next.SlotCount = 0

	_, err := s.mgr.Update(s.ctx, next)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Equal(models.DefaultSlotCount, s.mgr.Current().SlotCount)
	s.Nil(s.store.saved)
}

func (s *ManagerSuite) TestUpdateKeepsCurrentWhenPersistFails() {
	s.store.saveErr = errors.New("db down")
	next := models.DefaultSettings()
	next.DailyCount = 9

	_, err := s.mgr.Update(s.ctx, next)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Equal(models.DefaultDailyCount, s.mgr.Current().DailyCount)
}

func (s *ManagerSuite) TestSnapshotIsolatedFromCallerSlice() {
	next := models.DefaultSettings()
	_, err := s.mgr.Update(s.ctx, next)
	s.Require().NoError(err)

	next.SlotLabels[0] = "99:99"
	s.Equal(models.SlotLabel("10:00"), s.mgr.Current().SlotLabels[0])
}

// =============================================================================
// Load / Reload Tests
// =============================================================================

func (s *ManagerSuite) TestLoadPersistedMissingKeepsDefaults() {
	s.Require().NoError(s.mgr.LoadPersisted(s.ctx))
	s.Equal(models.DefaultDailyCount, s.mgr.Current().DailyCount)
}

func (s *ManagerSuite) TestLoadPersistedInstallsStoredSettings() {
	stored := models.DefaultSettings()
	stored.SlotLabels = []models.SlotLabel{"09:00", "21:00"}
	s.store.loaded = &stored

	s.Require().NoError(s.mgr.LoadPersisted(s.ctx))
	s.Equal([]models.SlotLabel{"09:00", "21:00"}, s.mgr.Current().SlotLabels)
}

func (s *ManagerSuite) TestLoadPersistedPropagatesStoreFailure() {
	s.store.loadErr = errors.New("timeout")
	err := s.mgr.LoadPersisted(s.ctx)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ManagerSuite) TestReloadDoesNotPersist() {
	next := models.DefaultSettings()
	next.RepeatAvoidDays = 30
	next.RetentionDays = 60

	s.Require().NoError(s.mgr.Reload(s.ctx, next))
	s.Equal(30, s.mgr.Current().RepeatAvoidDays)
	s.Nil(s.store.saved)
}

func TestNewManagerRejectsInvalidInitial(t *testing.T) {
	initial := models.DefaultSettings()
	initial.Timezone = "nowhere"
	_, err := NewManager(initial)
	require.Error(t, err)
}
