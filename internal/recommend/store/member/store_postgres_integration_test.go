//go:build integration

package member_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"tandem/internal/recommend/models"
	"tandem/internal/recommend/store/member"
	id "tandem/pkg/domain"
	"tandem/pkg/platform/sentinel"
	"tandem/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	ctx      context.Context
	postgres *containers.PostgresContainer
	store    *member.PostgresStore
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
	s.store = member.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "members"))
}

func (s *PostgresStoreSuite) insert(main, sub string, age int, status models.MemberStatus, complete bool) id.UserID {
	u := uuid.New()
	_, err := s.postgres.DB.ExecContext(s.ctx, `
		INSERT INTO members (id, main_region, sub_region, age, status, profile_complete)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u, main, sub, age, string(status), complete)
	s.Require().NoError(err)
	return id.UserID(u)
}

func (s *PostgresStoreSuite) active(main, sub string, age int) id.UserID {
	return s.insert(main, sub, age, models.MemberStatusActive, true)
}

func (s *PostgresStoreSuite) TestFindByID() {
	u := s.active("Seoul", "Gangnam", 30)

	m, err := s.store.FindByID(s.ctx, u)
	s.Require().NoError(err)
	s.Equal("Seoul", m.MainRegion)
	s.Equal("Gangnam", m.SubRegion)
	s.Equal(30, m.Age)
	s.True(m.IsRecommendable())

	_, err = s.store.FindByID(s.ctx, id.UserID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestFindByIDsKeepsRequestOrder() {
	a := s.active("Seoul", "Gangnam", 30)
	b := s.active("Busan", "Haeundae", 31)
	c := s.active("Seoul", "Mapo", 32)

	got, err := s.store.FindByIDs(s.ctx, []id.UserID{c, id.UserID(uuid.New()), a, b})
	s.Require().NoError(err)
	s.Equal([]id.UserID{c, a, b}, models.MemberIDs(got))
}

func (s *PostgresStoreSuite) TestFindCandidatesFilters() {
	gangnam := s.active("Seoul", "Gangnam", 30)
	mapo := s.active("Seoul", "Mapo", 35)
	busan := s.active("Busan", "Haeundae", 40)
	excluded := s.active("Seoul", "Gangnam", 30)
	s.insert("Seoul", "Gangnam", 30, models.MemberStatusActive, false)
	s.insert("Seoul", "", 30, models.MemberStatusActive, true)

	tests := []struct {
		name  string
		query models.CandidateQuery
		want  []id.UserID
	}{
		{
			name:  "same sub region",
			query: models.CandidateQuery{MainRegions: []string{"Seoul"}, SubRegion: "Gangnam", ExcludeIDs: models.NewIDSet(excluded), Limit: 10},
			want:  []id.UserID{gangnam},
		},
		{
			name:  "same main region other sub",
			query: models.CandidateQuery{MainRegions: []string{"Seoul"}, ExcludeSubRegion: "Gangnam", Limit: 10},
			want:  []id.UserID{mapo},
		},
		{
			name:  "nationwide",
			query: models.CandidateQuery{ExcludeIDs: models.NewIDSet(excluded, gangnam), Limit: 10},
			want:  []id.UserID{mapo, busan},
		},
		{
			name: "bounded age band",
			query: models.CandidateQuery{
				Age:   &models.AgeRange{Anchor: 33, MinDiff: 0, MaxDiff: 3},
				Limit: 10,
			},
			want: []id.UserID{gangnam, excluded, mapo},
		},
		{
			name: "unbounded cutoff band",
			query: models.CandidateQuery{
				Age:   &models.AgeRange{Anchor: 30, MinDiff: 6, MaxDiff: -1},
				Limit: 10,
			},
			want: []id.UserID{busan},
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			got, err := s.store.FindCandidates(s.ctx, tt.query)
			s.Require().NoError(err)
			s.ElementsMatch(tt.want, models.MemberIDs(got))
		})
	}
}

func (s *PostgresStoreSuite) TestFindCandidatesHonorsLimit() {
	for range 5 {
		s.active("Seoul", "Gangnam", 30)
	}
	got, err := s.store.FindCandidates(s.ctx, models.CandidateQuery{Limit: 3})
	s.Require().NoError(err)
	s.Len(got, 3)

	none, err := s.store.FindCandidates(s.ctx, models.CandidateQuery{Limit: 0})
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *PostgresStoreSuite) TestListActiveIDsPages() {
	want := make([]id.UserID, 0, 5)
	for range 5 {
		want = append(want, s.active("Seoul", "Gangnam", 30))
	}
	s.insert("Seoul", "Gangnam", 30, models.MemberStatus("SUSPENDED"), true)

	var got []id.UserID
	var after id.UserID
	for {
		page, err := s.store.ListActiveIDs(s.ctx, after, 2)
		s.Require().NoError(err)
		if len(page) == 0 {
			break
		}
		got = append(got, page...)
		after = page[len(page)-1]
	}
	s.ElementsMatch(want, got)
}
