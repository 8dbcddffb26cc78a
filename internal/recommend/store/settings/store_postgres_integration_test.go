//go:build integration

package settings_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"tandem/internal/recommend/models"
	"tandem/internal/recommend/store/settings"
	"tandem/pkg/platform/sentinel"
	"tandem/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	ctx      context.Context
	postgres *containers.PostgresContainer
	store    *settings.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = settings.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "recommendation_settings"))
}

func (s *PostgresStoreSuite) TestLoadWithoutRowIsNotFound() {
	_, err := s.store.Load(s.ctx)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSaveOverwritesSingleRow() {
	first := models.DefaultSettings()
	s.Require().NoError(s.store.Save(s.ctx, &first))

	second := models.DefaultSettings()
	second.DailyCount = 9
	second.SlotLabels = []models.SlotLabel{"08:00", "20:00"}
	second.SlotDuration = 3 * time.Hour
	s.Require().NoError(s.store.Save(s.ctx, &second))

	got, err := s.store.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(&second, got)

	var rows int
	s.Require().NoError(s.postgres.DB.QueryRowContext(s.ctx, `SELECT COUNT(*) FROM recommendation_settings`).Scan(&rows))
	s.Equal(1, rows)
}
