//go:build integration

package relationship_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"tandem/internal/recommend/store/relationship"
	id "tandem/pkg/domain"
	"tandem/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	ctx      context.Context
	postgres *containers.PostgresContainer
	store    *relationship.PostgresStore
	user     id.UserID
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
	s.store = relationship.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "blocks", "interests", "conversation_participants"))
	s.user = id.UserID(uuid.New())
}

func (s *PostgresStoreSuite) exec(query string, args ...any) {
	_, err := s.postgres.DB.ExecContext(s.ctx, query, args...)
	s.Require().NoError(err)
}

func newID() id.UserID { return id.UserID(uuid.New()) }

func (s *PostgresStoreSuite) TestBlocksAreSymmetric() {
	blockedByMe := newID()
	blockedMe := newID()
	s.exec(`INSERT INTO blocks (blocker_id, blocked_id) VALUES ($1, $2), ($3, $4)`,
		uuid.UUID(s.user), uuid.UUID(blockedByMe), uuid.UUID(blockedMe), uuid.UUID(s.user))

	got, err := s.store.BlockedUserIDs(s.ctx, s.user)
	s.Require().NoError(err)
	s.ElementsMatch([]id.UserID{blockedByMe, blockedMe}, got)
}

func (s *PostgresStoreSuite) TestInterestsWithinWindowEitherDirection() {
	from := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	sent := newID()
	received := newID()
	stale := newID()
	s.exec(`INSERT INTO interests (sender_id, receiver_id, created_at) VALUES ($1, $2, $3), ($4, $5, $6), ($7, $8, $9)`,
		uuid.UUID(s.user), uuid.UUID(sent), from.Add(time.Hour),
		uuid.UUID(received), uuid.UUID(s.user), to,
		uuid.UUID(s.user), uuid.UUID(stale), from.Add(-time.Minute),
	)

	got, err := s.store.InterestPartnerIDs(s.ctx, s.user, from, to)
	s.Require().NoError(err)
	s.ElementsMatch([]id.UserID{sent, received}, got)
}

func (s *PostgresStoreSuite) TestPartnersIncludeLeftConversations() {
	open := newID()
	left := newID()
	conv1, conv2 := uuid.New(), uuid.New()
	s.exec(`INSERT INTO conversation_participants (conversation_id, user_id, left_at) VALUES
		($1, $2, NULL), ($1, $3, NULL),
		($4, $2, NOW()), ($4, $5, NULL)`,
		conv1, uuid.UUID(s.user), uuid.UUID(open), conv2, uuid.UUID(left))

	got, err := s.store.PartnerIDs(s.ctx, s.user)
	s.Require().NoError(err)
	s.ElementsMatch([]id.UserID{open, left}, got)
}
