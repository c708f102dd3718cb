package syntax

import "math/bits"

// byteSet is a 256-bit membership set used while expanding classes.
type byteSet [4]uint64

func (s *byteSet) add(b byte) {
	s[b/64] |= 1 << (b % 64)
}

func (s *byteSet) addRange(lo, hi byte) {
	for c := int(lo); c <= int(hi); c++ {
		s.add(byte(c))
	}
}

func (s *byteSet) has(b byte) bool {
	return s[b/64]&(1<<(b%64)) != 0
}

func (s *byteSet) negate() {
	for i := range s {
		s[i] = ^s[i]
	}
}

func (s *byteSet) len() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// members returns the set's bytes in ascending order.
func (s *byteSet) members() []byte {
	out := make([]byte, 0, s.len())
	for c := 0; c < 256; c++ {
		if s.has(byte(c)) {
			out = append(out, byte(c))
		}
	}
	return out
}

// dotSet is what an unescaped '.' matches: every byte except '\n'.
var dotSet = func() byteSet {
	var s byteSet
	s.add('\n')
	s.negate()
	return s
}()

// expandSet appends the alternation "(b1|b2|...|bn)" for the members of s.
func expandSet(dst []Token, s *byteSet) []Token {
	dst = append(dst, Op(GroupOpen))
	for i, b := range s.members() {
		if i > 0 {
			dst = append(dst, Op(Alternate))
		}
		dst = append(dst, Lit(b))
	}
	return append(dst, Op(GroupClose))
}

// parseClass parses the bracket class opening at p[open] == '['.
// Range detection only looks at bytes between this class's own brackets.
// A class must list at least one byte, so both [] and [^] are EmptyClass.
// It returns the class members and the index of the closing ']'.
func parseClass(p string, open int) (byteSet, int, error) {
	var set byteSet
	i := open + 1
	negate := false
	if i < len(p) && p[i] == '^' {
		negate = true
		i++
	}

	listed := 0
	for {
		if i >= len(p) {
			return set, 0, newError(UnbalancedGroup, p, open, "unterminated class")
		}
		if p[i] == ']' {
			break
		}
		listed++

		lo, next, err := classByte(p, i)
		if err != nil {
			return set, 0, err
		}
		i = next

		// x-y is a range unless the '-' is the last byte before ']'.
		if i+1 < len(p) && p[i] == '-' && p[i+1] != ']' {
			rangeStart := i - 1
			hi, next, err := classByte(p, i+1)
			if err != nil {
				return set, 0, err
			}
			if hi < lo {
				return set, 0, newError(InvalidRange, p, rangeStart,
					"range end %s precedes start %s", quoteByte(hi), quoteByte(lo))
			}
			set.addRange(lo, hi)
			i = next
			continue
		}
		set.add(lo)
	}

	if listed == 0 {
		return set, 0, newError(EmptyClass, p, open, "class lists no bytes")
	}
	if negate {
		set.negate()
	}
	if set.len() == 0 {
		return set, 0, newError(EmptyClass, p, open, "class matches no byte")
	}
	return set, i, nil
}

// classByte reads one possibly escaped byte inside a class.
func classByte(p string, i int) (byte, int, error) {
	if p[i] != '\\' {
		return p[i], i + 1, nil
	}
	return unescape(p, i)
}
