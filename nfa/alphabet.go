package nfa

import "math/bits"

// ByteSet is a 256-bit set of input bytes.
//
// The DFA builder uses it to collect the bytes that leave any member of a
// closure, so that only those bytes are tried during subset construction.
type ByteSet struct {
	bits [4]uint64
}

// Add inserts b.
func (s *ByteSet) Add(b byte) {
	s.bits[b/64] |= 1 << (b % 64)
}

// Contains reports whether b is in the set.
func (s *ByteSet) Contains(b byte) bool {
	return s.bits[b/64]&(1<<(b%64)) != 0
}

// Len returns the number of bytes in the set.
func (s *ByteSet) Len() int {
	n := 0
	for _, w := range s.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// IsEmpty reports whether the set has no members.
func (s *ByteSet) IsEmpty() bool {
	return s.bits == [4]uint64{}
}

// Merge adds every member of other.
func (s *ByteSet) Merge(other *ByteSet) {
	s.bits[0] |= other.bits[0]
	s.bits[1] |= other.bits[1]
	s.bits[2] |= other.bits[2]
	s.bits[3] |= other.bits[3]
}

// Bytes returns the members in ascending order.
func (s *ByteSet) Bytes() []byte {
	out := make([]byte, 0, s.Len())
	for w, word := range s.bits {
		for word != 0 {
			tz := bits.TrailingZeros64(word)
			out = append(out, byte(w*64+tz))
			word &= word - 1
		}
	}
	return out
}

// AddTransitions adds the labels of every byte edge leaving s.
func (s *ByteSet) AddTransitions(st *State) {
	for _, tr := range st.transitions {
		s.Add(tr.Byte)
	}
}
