// Package ports declares the collaborators the recommendation engine depends
// on. Member profiles, relationships and conversations are owned by other
// parts of the system; the engine only reads them.
package ports

import (
	"context"
	"time"

	"tandem/internal/recommend/models"
	id "tandem/pkg/domain"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

// MemberStore reads member profiles.
type MemberStore interface {
	// FindByID returns sentinel.ErrNotFound when the member does not exist.
	FindByID(ctx context.Context, userID id.UserID) (*models.Member, error)
	// FindByIDs returns the members in the order of ids, skipping unknown ids.
	FindByIDs(ctx context.Context, ids []id.UserID) ([]*models.Member, error)
	// FindCandidates returns up to q.Limit recommendable members matching q,
	// sampled randomly when more match.
	FindCandidates(ctx context.Context, q models.CandidateQuery) ([]*models.Member, error)
	// ListActiveIDs pages through active members ordered by id.
	ListActiveIDs(ctx context.Context, after id.UserID, limit int) ([]id.UserID, error)
}

// AdjacencyStore resolves neighbouring main regions in priority order. An
// unknown or isolated region yields an empty list, not an error.
type AdjacencyStore interface {
	Adjacent(ctx context.Context, mainRegion string) ([]string, error)
}

// BlockStore returns users blocked by or blocking userID.
type BlockStore interface {
	BlockedUserIDs(ctx context.Context, userID id.UserID) ([]id.UserID, error)
}

// InterestStore returns users that exchanged interest with userID in either
// direction within [from, to].
type InterestStore interface {
	InterestPartnerIDs(ctx context.Context, userID id.UserID, from, to time.Time) ([]id.UserID, error)
}

// ConversationStore returns everyone who ever shared a conversation with
// userID, including threads userID has left.
type ConversationStore interface {
	PartnerIDs(ctx context.Context, userID id.UserID) ([]id.UserID, error)
}

// HistoryStore is the append-only recommendation ledger.
type HistoryStore interface {
	// Record appends one generation. Either every record is written or none.
	Record(ctx context.Context, records []*models.HistoryRecord) error
	// LatestGeneration returns the newest generation stored under key,
	// ordered by position. It is empty when the window has no generation.
	LatestGeneration(ctx context.Context, key models.HistoryKey) ([]*models.HistoryRecord, error)
	// RecommendedSince returns users recommended to userID at or after since.
	// With no cadences every cadence counts.
	RecommendedSince(ctx context.Context, userID id.UserID, since time.Time, cadences ...models.Cadence) ([]id.UserID, error)
	// DeleteBefore removes records created before the cutoff.
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
	// DeleteByUser removes every record where userID is either side.
	DeleteByUser(ctx context.Context, userID id.UserID) (int64, error)
	Stats(ctx context.Context, userID id.UserID) (*models.HistoryStats, error)
}

// EventPublisher announces committed generations.
type EventPublisher interface {
	PublishGenerated(ctx context.Context, event *models.GenerationEvent) error
}

// Locker serializes work per key. The returned release func must be called
// exactly once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// TxManager runs fn inside a store transaction. A non-nil error from fn
// rolls the transaction back.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
