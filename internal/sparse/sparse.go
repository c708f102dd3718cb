// Package sparse provides a sparse set of NFA state ids.
//
// The set gives O(1) insert, membership and clear while keeping a dense list
// of members in insertion order. Epsilon-closure computation uses it as the
// visited set so that closure loops created by `*` and `+` terminate.
package sparse

import (
	"slices"

	"github.com/coregx/lexgen/internal/conv"
)

// Set is a set of uint32 values drawn from [0, capacity).
type Set struct {
	sparse []uint32 // value -> index in dense
	dense  []uint32 // members in insertion order
}

// New creates a set able to hold values in [0, capacity).
func New(capacity int) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds v and reports whether it was newly added.
// Panics if v >= capacity.
func (s *Set) Insert(v uint32) bool {
	if s.Contains(v) {
		return false
	}
	s.sparse[v] = conv.IntToUint32(len(s.dense))
	s.dense = append(s.dense, v)
	return true
}

// Contains reports whether v is in the set. Out of range values are never members.
func (s *Set) Contains(v uint32) bool {
	if uint64(v) >= uint64(len(s.sparse)) {
		return false
	}
	idx := s.sparse[v]
	return uint64(idx) < uint64(len(s.dense)) && s.dense[idx] == v
}

// Clear empties the set in O(1).
func (s *Set) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.dense)
}

// Cap returns the exclusive upper bound on storable values.
func (s *Set) Cap() int {
	return len(s.sparse)
}

// Values returns the members in insertion order.
// The slice is only valid until the next mutation.
func (s *Set) Values() []uint32 {
	return s.dense
}

// Sorted returns a fresh ascending copy of the members.
func (s *Set) Sorted() []uint32 {
	out := slices.Clone(s.dense)
	slices.Sort(out)
	return out
}
