package exclusion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"tandem/internal/recommend/models"
	"tandem/internal/recommend/ports/mocks"
	id "tandem/pkg/domain"
)

type ResolverSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	history       *mocks.MockHistoryStore
	blocks        *mocks.MockBlockStore
	interests     *mocks.MockInterestStore
	conversations *mocks.MockConversationStore
	resolver      *Resolver

	ctx    context.Context
	user   id.UserID
	now    time.Time
	anchor time.Time
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.history = mocks.NewMockHistoryStore(s.ctrl)
	s.blocks = mocks.NewMockBlockStore(s.ctrl)
	s.interests = mocks.NewMockInterestStore(s.ctrl)
	s.conversations = mocks.NewMockConversationStore(s.ctrl)
	s.resolver = New(s.history, s.blocks, s.interests, s.conversations)

	s.ctx = context.Background()
	s.user = newID()
	s.now = time.Date(2026, time.March, 11, 14, 30, 0, 0, time.UTC)
	s.anchor = time.Date(2026, time.March, 11, 13, 0, 0, 0, time.UTC)
}

func (s *ResolverSuite) TearDownTest() {
	s.ctrl.Finish()
}

func newID() id.UserID {
	return id.UserID(uuid.New())
}

func (s *ResolverSuite) query(cadence models.Cadence, across bool) Query {
	return Query{
		UserID:          s.user,
		Cadence:         cadence,
		Now:             s.now,
		Anchor:          s.anchor,
		RepeatAvoidDays: 14,
		AcrossCadences:  across,
	}
}

// =============================================================================
// AllExcluded Tests
// =============================================================================

func (s *ResolverSuite) TestUnionOfEverySourcePlusSelf() {
	recent, blocked, interested, partner := newID(), newID(), newID(), newID()

	s.history.EXPECT().
		RecommendedSince(gomock.Any(), s.user, s.now.AddDate(0, 0, -14), models.CadenceDaily).
		Return([]id.UserID{recent}, nil)
	s.blocks.EXPECT().BlockedUserIDs(gomock.Any(), s.user).Return([]id.UserID{blocked}, nil)
	s.interests.EXPECT().
		InterestPartnerIDs(gomock.Any(), s.user, s.anchor.Add(-InterestLookback), s.anchor).
		Return([]id.UserID{interested}, nil)
	s.conversations.EXPECT().PartnerIDs(gomock.Any(), s.user).Return([]id.UserID{partner}, nil)

	got, err := s.resolver.AllExcluded(s.ctx, s.query(models.CadenceDaily, false))
	s.Require().NoError(err)
	s.Len(got, 5)
	for _, u := range []id.UserID{s.user, recent, blocked, interested, partner} {
		s.True(got.Has(u))
	}
}

func (s *ResolverSuite) TestAcrossCadencesQueriesEveryCadence() {
	s.history.EXPECT().
		RecommendedSince(gomock.Any(), s.user, gomock.Any()).
		Return(nil, nil)
	s.expectNoRelationships()

	_, err := s.resolver.AllExcluded(s.ctx, s.query(models.CadenceSlot, true))
	s.Require().NoError(err)
}

func (s *ResolverSuite) TestSameCadenceOnlyWhenNotAcross() {
	s.history.EXPECT().
		RecommendedSince(gomock.Any(), s.user, gomock.Any(), models.CadenceSlot).
		Return(nil, nil)
	s.expectNoRelationships()

	_, err := s.resolver.AllExcluded(s.ctx, s.query(models.CadenceSlot, false))
	s.Require().NoError(err)
}

func (s *ResolverSuite) TestZeroRepeatWindowSkipsHistory() {
	s.expectNoRelationships()
	q := s.query(models.CadenceDaily, false)
	q.RepeatAvoidDays = 0

	got, err := s.resolver.AllExcluded(s.ctx, q)
	s.Require().NoError(err)
	s.Len(got, 1)
	s.True(got.Has(s.user))
}

func (s *ResolverSuite) TestSourceFailureFailsResolution() {
	boom := errors.New("conversation store down")
	s.history.EXPECT().RecommendedSince(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	s.blocks.EXPECT().BlockedUserIDs(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	s.interests.EXPECT().InterestPartnerIDs(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	s.conversations.EXPECT().PartnerIDs(gomock.Any(), s.user).Return(nil, boom)

	_, err := s.resolver.AllExcluded(s.ctx, s.query(models.CadenceDaily, false))
	s.ErrorIs(err, boom)
}

// =============================================================================
// SafetyExcluded Tests
// =============================================================================

func (s *ResolverSuite) TestSafetyExcludedIsBlocksAndInterestOnly() {
	blocked, interested := newID(), newID()
	s.blocks.EXPECT().BlockedUserIDs(gomock.Any(), s.user).Return([]id.UserID{blocked}, nil)
	s.interests.EXPECT().
		InterestPartnerIDs(gomock.Any(), s.user, s.anchor.Add(-InterestLookback), s.anchor).
		Return([]id.UserID{interested}, nil)

	got, err := s.resolver.SafetyExcluded(s.ctx, s.user, s.anchor)
	s.Require().NoError(err)
	s.Len(got, 2)
	s.True(got.Has(blocked))
	s.True(got.Has(interested))
	s.False(got.Has(s.user))
}

func (s *ResolverSuite) expectNoRelationships() {
	s.blocks.EXPECT().BlockedUserIDs(gomock.Any(), s.user).Return(nil, nil)
	s.interests.EXPECT().InterestPartnerIDs(gomock.Any(), s.user, gomock.Any(), gomock.Any()).Return(nil, nil)
	s.conversations.EXPECT().PartnerIDs(gomock.Any(), s.user).Return(nil, nil)
}
