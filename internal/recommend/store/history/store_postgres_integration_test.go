//go:build integration

package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"tandem/internal/recommend/models"
	"tandem/internal/recommend/store/history"
	id "tandem/pkg/domain"
	"tandem/pkg/platform/tx"
	"tandem/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	ctx      context.Context
	postgres *containers.PostgresContainer
	store    *history.PostgresStore
	user     id.UserID
	now      time.Time
	today    time.Time
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
	s.store = history.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "recommendation_history"))
	s.user = id.UserID(uuid.New())
	s.now = time.Date(2026, time.March, 11, 3, 0, 0, 0, time.UTC)
	s.today = models.CivilDate(s.now)
}

func newIDs(n int) []id.UserID {
	out := make([]id.UserID, n)
	for i := range out {
		out[i] = id.UserID(uuid.New())
	}
	return out
}

func recommendedIDs(records []*models.HistoryRecord) []id.UserID {
	out := make([]id.UserID, len(records))
	for i, r := range records {
		out[i] = r.RecommendedUserID
	}
	return out
}

func (s *PostgresStoreSuite) key(cadence models.Cadence, slot models.SlotLabel) models.HistoryKey {
	return models.HistoryKey{UserID: s.user, Cadence: cadence, Slot: slot, Date: s.today}
}

func (s *PostgresStoreSuite) TestLatestGenerationRoundTrip() {
	ids := newIDs(4)
	s.Require().NoError(s.store.Record(s.ctx, models.NewGeneration(s.key(models.CadenceDaily, ""), ids, s.now)))
	s.Require().NoError(s.store.Record(s.ctx, models.NewGeneration(s.key(models.CadenceSlot, "10:00"), newIDs(2), s.now)))

	got, err := s.store.LatestGeneration(s.ctx, s.key(models.CadenceDaily, ""))
	s.Require().NoError(err)
	s.Equal(ids, recommendedIDs(got))
	for i, r := range got {
		s.Equal(i, r.Position)
		s.True(s.now.Equal(r.CreatedAt))
	}

	none, err := s.store.LatestGeneration(s.ctx, s.key(models.CadenceSlot, "22:00"))
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *PostgresStoreSuite) TestLatestGenerationPicksNewest() {
	key := s.key(models.CadenceSlot, "22:00")
	s.Require().NoError(s.store.Record(s.ctx, models.NewGeneration(key, newIDs(3), s.now)))
	second := newIDs(2)
	s.Require().NoError(s.store.Record(s.ctx, models.NewGeneration(key, second, s.now.Add(time.Minute))))

	got, err := s.store.LatestGeneration(s.ctx, key)
	s.Require().NoError(err)
	s.Equal(second, recommendedIDs(got))
}

func (s *PostgresStoreSuite) TestRecommendedSinceFiltersCadenceAndTime() {
	old := newIDs(1)
	daily := newIDs(2)
	slot := newIDs(2)
	s.Require().NoError(s.store.Record(s.ctx, models.NewGeneration(s.key(models.CadenceDaily, ""), old, s.now.AddDate(0, 0, -20))))
	s.Require().NoError(s.store.Record(s.ctx, models.NewGeneration(s.key(models.CadenceDaily, ""), daily, s.now)))
	s.Require().NoError(s.store.Record(s.ctx, models.NewGeneration(s.key(models.CadenceSlot, "10:00"), slot, s.now)))
	since := s.now.AddDate(0, 0, -14)

	onlyDaily, err := s.store.RecommendedSince(s.ctx, s.user, since, models.CadenceDaily)
	s.Require().NoError(err)
	s.ElementsMatch(daily, onlyDaily)

	all, err := s.store.RecommendedSince(s.ctx, s.user, since)
	s.Require().NoError(err)
	s.ElementsMatch(append(append([]id.UserID{}, daily...), slot...), all)
}

func (s *PostgresStoreSuite) TestRecordJoinsTransactionInContext() {
	key := s.key(models.CadenceDaily, "")
	sqlTx, err := s.postgres.DB.BeginTx(s.ctx, nil)
	s.Require().NoError(err)
	txCtx := tx.WithTx(s.ctx, sqlTx)

	s.Require().NoError(s.store.Record(txCtx, models.NewGeneration(key, newIDs(3), s.now)))
	inside, err := s.store.LatestGeneration(txCtx, key)
	s.Require().NoError(err)
	s.Len(inside, 3)

	s.Require().NoError(sqlTx.Rollback())
	after, err := s.store.LatestGeneration(s.ctx, key)
	s.Require().NoError(err)
	s.Empty(after)
}

func (s *PostgresStoreSuite) TestRecordRejectsMixedGenerations() {
	records := models.NewGeneration(s.key(models.CadenceDaily, ""), newIDs(2), s.now)
	records[1].GenerationID = id.NewGenerationID()
	s.ErrorIs(s.store.Record(s.ctx, records), history.ErrMixedGeneration)
}

func (s *PostgresStoreSuite) TestDeleteBeforeAndByUser() {
	other := id.UserID(uuid.New())
	s.Require().NoError(s.store.Record(s.ctx, models.NewGeneration(s.key(models.CadenceDaily, ""), newIDs(2), s.now.AddDate(0, 0, -100))))
	s.Require().NoError(s.store.Record(s.ctx, models.NewGeneration(s.key(models.CadenceDaily, ""), []id.UserID{other}, s.now)))

	deleted, err := s.store.DeleteBefore(s.ctx, s.now.AddDate(0, 0, -90))
	s.Require().NoError(err)
	s.Equal(int64(2), deleted)

	// Removing a member also removes rows where they were the candidate.
	deleted, err = s.store.DeleteByUser(s.ctx, other)
	s.Require().NoError(err)
	s.Equal(int64(1), deleted)
}

func (s *PostgresStoreSuite) TestStats() {
	shared := newIDs(1)
	s.Require().NoError(s.store.Record(s.ctx, models.NewGeneration(s.key(models.CadenceDaily, ""), append(newIDs(2), shared...), s.now)))
	s.Require().NoError(s.store.Record(s.ctx, models.NewGeneration(s.key(models.CadenceSlot, "10:00"), shared, s.now.Add(time.Hour))))

	stats, err := s.store.Stats(s.ctx, s.user)
	s.Require().NoError(err)
	s.Equal(4, stats.TotalRecommended)
	s.Equal(3, stats.DistinctRecommended)
	s.Equal(1, stats.ByCadence[models.CadenceDaily].Generations)
	s.Equal(3, stats.ByCadence[models.CadenceDaily].Recommendations)
	s.Require().NotNil(stats.ByCadence[models.CadenceSlot].LastGeneratedAt)
	s.True(s.now.Add(time.Hour).Equal(*stats.ByCadence[models.CadenceSlot].LastGeneratedAt))
}

func (s *PostgresStoreSuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err := s.store.RecommendedSince(ctx, s.user, s.now)
	s.True(errors.Is(err, context.Canceled))
}
