// Package domain holds typed identifiers shared across modules.
//
// IDs are parsed once at the trust boundary (HTTP path, config, scheduler input)
// and passed around as distinct types so a member id can never be handed to a
// function that expects a generation id.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "tandem/pkg/domain-errors"
)

// UserID identifies a member. Both the requester and every recommended
// candidate are members, so one type serves both roles.
type UserID uuid.UUID

// GenerationID identifies one generate+persist cycle in the history ledger.
type GenerationID uuid.UUID

func (u UserID) String() string       { return uuid.UUID(u).String() }
func (u UserID) IsNil() bool          { return uuid.UUID(u) == uuid.Nil }
func (g GenerationID) String() string { return uuid.UUID(g).String() }
func (g GenerationID) IsNil() bool    { return uuid.UUID(g) == uuid.Nil }

// NewGenerationID returns a random generation id.
func NewGenerationID() GenerationID {
	return GenerationID(uuid.New())
}

// ParseUserID parses a non-nil UUID member id.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

// ParseGenerationID parses a non-nil UUID generation id.
func ParseGenerationID(s string) (GenerationID, error) {
	u, err := parseUUID(s, "generation id")
	return GenerationID(u), err
}

// UserIDStrings converts ids to their string form, preserving order.
func UserIDStrings(ids []UserID) []string {
	out := make([]string, len(ids))
	for i, u := range ids {
		out[i] = u.String()
	}
	return out
}

func parseUUID(s, kind string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" must not be nil")
	}
	return u, nil
}

func (u UserID) MarshalText() ([]byte, error) { return uuid.UUID(u).MarshalText() }

func (u *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

func (g GenerationID) MarshalText() ([]byte, error) { return uuid.UUID(g).MarshalText() }

func (g *GenerationID) UnmarshalText(b []byte) error {
	parsed, err := ParseGenerationID(string(b))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
