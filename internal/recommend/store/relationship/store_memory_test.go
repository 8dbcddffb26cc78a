package relationship

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "tandem/pkg/domain"
)

func newID() id.UserID {
	return id.UserID(uuid.New())
}

func TestBlocksAreBidirectional(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	u, blockedByU, blockingU, stranger := newID(), newID(), newID(), newID()
	s.AddBlock(u, blockedByU)
	s.AddBlock(blockingU, u)
	s.AddBlock(stranger, blockedByU)

	got, err := s.BlockedUserIDs(ctx, u)
	require.NoError(t, err)
	assert.ElementsMatch(t, []id.UserID{blockedByU, blockingU}, got)
}

func TestInterestWindowIsInclusiveAndBidirectional(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	anchor := time.Date(2026, time.March, 11, 13, 0, 0, 0, time.UTC)
	from := anchor.Add(-7 * 24 * time.Hour)

	u, sentTo, receivedFrom, tooOld, afterAnchor := newID(), newID(), newID(), newID(), newID()
	s.AddInterest(u, sentTo, anchor.Add(-time.Hour))
	s.AddInterest(receivedFrom, u, from)
	s.AddInterest(u, tooOld, from.Add(-time.Second))
	s.AddInterest(afterAnchor, u, anchor.Add(time.Minute))

	got, err := s.InterestPartnerIDs(ctx, u, from, anchor)
	require.NoError(t, err)
	assert.ElementsMatch(t, []id.UserID{sentTo, receivedFrom}, got)
}

func TestConversationPartnersIncludeLeftThreads(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	u, current, former, other := newID(), newID(), newID(), newID()
	s.AddConversation("c1", u, current)
	s.AddConversation("c2", u, former)
	s.AddConversation("c3", other, current)
	s.LeaveConversation("c2", u)

	got, err := s.PartnerIDs(ctx, u)
	require.NoError(t, err)
	assert.ElementsMatch(t, []id.UserID{current, former}, got)
}
