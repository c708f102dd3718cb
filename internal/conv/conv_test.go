package conv

import (
	"math"
	"testing"
)

func TestIntToUint32(t *testing.T) {
	tests := []int{0, 1, 255, 1 << 20, math.MaxInt32}
	for _, n := range tests {
		if got := IntToUint32(n); int(got) != n {
			t.Errorf("IntToUint32(%d) = %d", n, got)
		}
	}
}

func TestIntToUint32Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("IntToUint32(-1) did not panic")
		}
	}()
	IntToUint32(-1)
}

func TestIntToInt32(t *testing.T) {
	for _, n := range []int{math.MinInt32, -1, 0, math.MaxInt32} {
		if got := IntToInt32(n); int(got) != n {
			t.Errorf("IntToInt32(%d) = %d", n, got)
		}
	}
}

func TestUint32ToByte(t *testing.T) {
	tests := []struct {
		in   uint32
		want byte
		ok   bool
	}{
		{0, 0, true},
		{'a', 'a', true},
		{255, 255, true},
		{256, 0, false},
		{math.MaxUint32, 0, false},
	}
	for _, tt := range tests {
		got, ok := Uint32ToByte(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Uint32ToByte(%d) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	for b := 0; b < 256; b++ {
		if got, _ := Uint32ToByte(ByteToUint32(byte(b))); int(got) != b {
			t.Fatalf("byte %d did not survive widening", b)
		}
	}
}

func TestUint32ToInt(t *testing.T) {
	if got := Uint32ToInt(42); got != 42 {
		t.Errorf("Uint32ToInt(42) = %d", got)
	}
}
