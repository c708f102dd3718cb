// Package conv provides checked integer conversions for state ids and wire
// encodings.
//
// The helpers panic on overflow: an automaton with more than 2^32 states or a
// negative index indicates a programming error, not bad input.
package conv

import "math"

// IntToUint32 converts n to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Compare as uint so 32-bit platforms do not overflow the constant.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// IntToInt32 converts n to int32.
// Panics if n does not fit.
func IntToInt32(n int) int32 {
	if n < math.MinInt32 || n > math.MaxInt32 {
		panic("integer overflow: int value out of int32 range")
	}
	return int32(n)
}

// Uint32ToInt converts v to int.
// Panics if v does not fit a signed int on this platform.
func Uint32ToInt(v uint32) int {
	if uint64(v) > uint64(math.MaxInt) {
		panic("integer overflow: uint32 value out of int range")
	}
	return int(v)
}

// ByteToUint32 widens a transition byte for wire encoding.
func ByteToUint32(b byte) uint32 {
	return uint32(b)
}

// Uint32ToByte narrows a decoded word back to a transition byte.
// The second result is false if v is not a byte value.
func Uint32ToByte(v uint32) (byte, bool) {
	if v > math.MaxUint8 {
		return 0, false
	}
	return byte(v), true
}
