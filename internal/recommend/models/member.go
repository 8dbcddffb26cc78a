package models

import (
	id "tandem/pkg/domain"
)

// MemberStatus is the activity status of a member as reported by the profile store.
type MemberStatus string

const (
	MemberStatusActive    MemberStatus = "ACTIVE"
	MemberStatusDormant   MemberStatus = "DORMANT"
	MemberStatusSuspended MemberStatus = "SUSPENDED"
	MemberStatusWithdrawn MemberStatus = "WITHDRAWN"
)

// Member is the read-only view of a profile this module consumes. Both the
// requester and every candidate are members.
type Member struct {
	ID              id.UserID    `json:"id"`
	MainRegion      string       `json:"main_region"`
	SubRegion       string       `json:"sub_region"`
	Age             int          `json:"age"`
	Status          MemberStatus `json:"status"`
	ProfileComplete bool         `json:"profile_complete"`
}

// HasRegion reports whether both region levels are filled in. A member
// without a region is not yet eligible for recommendations.
func (m *Member) HasRegion() bool {
	return m != nil && m.MainRegion != "" && m.SubRegion != ""
}

// IsRecommendable reports whether the member may appear as a candidate.
func (m *Member) IsRecommendable() bool {
	return m.HasRegion() && m.Status == MemberStatusActive && m.ProfileComplete
}

// AgeDiff returns the absolute age difference between two members.
func AgeDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// MemberIDs returns the ids of members in order.
func MemberIDs(members []*Member) []id.UserID {
	ids := make([]id.UserID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	return ids
}
