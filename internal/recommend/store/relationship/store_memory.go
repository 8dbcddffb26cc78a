// Package relationship reads the block, interest and conversation
// relationships that exclude members from each other's recommendations.
package relationship

import (
	"context"
	"sync"
	"time"

	"tandem/internal/recommend/models"
	id "tandem/pkg/domain"
)

type block struct {
	blocker, blocked id.UserID
}

type interest struct {
	sender, receiver id.UserID
	at               time.Time
}

type participant struct {
	conversation string
	user         id.UserID
	left         bool
}

// InMemoryStore implements the block, interest and conversation lookups.
type InMemoryStore struct {
	mu           sync.RWMutex
	blocks       []block
	interests    []interest
	participants []participant
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) AddBlock(blocker, blocked id.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks = append(s.blocks, block{blocker: blocker, blocked: blocked})
}

func (s *InMemoryStore) AddInterest(sender, receiver id.UserID, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interests = append(s.interests, interest{sender: sender, receiver: receiver, at: at})
}

// AddConversation records users as participants of conversation.
func (s *InMemoryStore) AddConversation(conversation string, users ...id.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.participants = append(s.participants, participant{conversation: conversation, user: u})
	}
}

// LeaveConversation marks user as having left. Partners stay excluded.
func (s *InMemoryStore) LeaveConversation(conversation string, user id.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.participants {
		if s.participants[i].conversation == conversation && s.participants[i].user == user {
			s.participants[i].left = true
		}
	}
}

func (s *InMemoryStore) BlockedUserIDs(_ context.Context, userID id.UserID) ([]id.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := models.NewIDSet()
	for _, b := range s.blocks {
		switch userID {
		case b.blocker:
			set.Add(b.blocked)
		case b.blocked:
			set.Add(b.blocker)
		}
	}
	return set.Slice(), nil
}

func (s *InMemoryStore) InterestPartnerIDs(_ context.Context, userID id.UserID, from, to time.Time) ([]id.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := models.NewIDSet()
	for _, in := range s.interests {
		if in.at.Before(from) || in.at.After(to) {
			continue
		}
		switch userID {
		case in.sender:
			set.Add(in.receiver)
		case in.receiver:
			set.Add(in.sender)
		}
	}
	return set.Slice(), nil
}

func (s *InMemoryStore) PartnerIDs(_ context.Context, userID id.UserID) ([]id.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mine := make(map[string]struct{})
	for _, p := range s.participants {
		if p.user == userID {
			mine[p.conversation] = struct{}{}
		}
	}
	set := models.NewIDSet()
	for _, p := range s.participants {
		if _, ok := mine[p.conversation]; ok && p.user != userID {
			set.Add(p.user)
		}
	}
	return set.Slice(), nil
}
