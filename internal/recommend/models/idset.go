package models

import (
	id "tandem/pkg/domain"
)

// IDSet is a set of member ids.
type IDSet map[id.UserID]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...id.UserID) IDSet {
	s := make(IDSet, len(ids))
	s.Add(ids...)
	return s
}

func (s IDSet) Add(ids ...id.UserID) {
	for _, u := range ids {
		s[u] = struct{}{}
	}
}

func (s IDSet) Has(u id.UserID) bool {
	_, ok := s[u]
	return ok
}

// Union adds every member of other to s.
func (s IDSet) Union(other IDSet) {
	for u := range other {
		s[u] = struct{}{}
	}
}

// Clone returns an independent copy.
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	out.Union(s)
	return out
}

// Slice returns the ids in unspecified order.
func (s IDSet) Slice() []id.UserID {
	out := make([]id.UserID, 0, len(s))
	for u := range s {
		out = append(out, u)
	}
	return out
}

// Filter returns ids not in s, preserving order.
func (s IDSet) Filter(ids []id.UserID) []id.UserID {
	out := make([]id.UserID, 0, len(ids))
	for _, u := range ids {
		if !s.Has(u) {
			out = append(out, u)
		}
	}
	return out
}
