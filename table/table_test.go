package table

import (
	"errors"
	"strings"
	"testing"

	"github.com/calmh/xdr"
	"github.com/d4l3k/messagediff"
)

// sample is the table for rules {"ab", "a"}.
func sample() *Table {
	return &Table{States: []State{
		{Transitions: map[byte]int{'a': 1}},
		{Handlers: []int{1}, Transitions: map[byte]int{'b': 2}},
		{Handlers: []int{0}},
	}}
}

// chain builds a table with many similar states so compression has
// something to work with.
func chain(n int) *Table {
	t := &Table{States: make([]State, n)}
	for i := 0; i < n-1; i++ {
		t.States[i].Transitions = map[byte]int{'a': i + 1, 'b': 0, 'c': i + 1}
		if i%3 == 0 {
			t.States[i].Handlers = []int{0, 2}
		}
	}
	t.States[n-1].Handlers = []int{1}
	return t
}

func TestLookup(t *testing.T) {
	tbl := sample()

	if next, ok := tbl.Next(0, 'a'); !ok || next != 1 {
		t.Errorf("Next(0, 'a') = %d, %v; want 1, true", next, ok)
	}
	if _, ok := tbl.Next(0, 'b'); ok {
		t.Error("Next(0, 'b') should have no transition")
	}
	if _, ok := tbl.Next(7, 'a'); ok {
		t.Error("Next on out-of-range state should fail")
	}
	if tbl.Accepts(0) {
		t.Error("start state should not accept")
	}
	if h, ok := tbl.Handler(2); !ok || h != 0 {
		t.Errorf("Handler(2) = %d, %v; want 0, true", h, ok)
	}
	if got := tbl.Handlers(); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("Handlers() = %v, want [0 1]", got)
	}
	if got := tbl.TransitionCount(); got != 2 {
		t.Errorf("TransitionCount() = %d, want 2", got)
	}
}

func TestHandlerPicksMinimum(t *testing.T) {
	tbl := &Table{States: []State{{Handlers: []int{2, 5, 9}}}}
	if h, _ := tbl.Handler(0); h != 2 {
		t.Errorf("Handler = %d, want 2", h)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		table *Table
		want  error
	}{
		{"ok", sample(), nil},
		{"empty", &Table{}, ErrEmptyTable},
		{"dangling", &Table{States: []State{{Transitions: map[byte]int{'x': 3}}}}, &ValidationError{}},
		{"unsorted", &Table{States: []State{{Handlers: []int{2, 1}}}}, &ValidationError{}},
		{"duplicate", &Table{States: []State{{Handlers: []int{1, 1}}}}, &ValidationError{}},
		{"negative", &Table{States: []State{{Handlers: []int{-1}}}}, &ValidationError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			switch want := tt.want.(type) {
			case nil:
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
			case *ValidationError:
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("Validate() = %v, want *ValidationError", err)
				}
			default:
				if !errors.Is(err, want) {
					t.Fatalf("Validate() = %v, want %v", err, want)
				}
			}
		})
	}
}

func TestClone(t *testing.T) {
	orig := sample()
	c := orig.Clone()
	c.States[0].Transitions['z'] = 2
	c.States[1].Handlers[0] = 42

	if _, ok := orig.Next(0, 'z'); ok {
		t.Error("clone shares transition map with original")
	}
	if h, _ := orig.Handler(1); h != 1 {
		t.Error("clone shares handler slice with original")
	}
}

func TestJSONShape(t *testing.T) {
	data, err := sample().EncodeJSON()
	if err != nil {
		t.Fatalf("EncodeJSON() error: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"states"`, `"handlers"`, `"transitions"`, `"97": 1`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON missing %s:\n%s", want, s)
		}
	}
}

func TestCodecRoundTrip(t *testing.T) {
	codecs := []struct {
		name   string
		encode func(*Table) ([]byte, error)
		decode func([]byte) (*Table, error)
	}{
		{"json", (*Table).EncodeJSON, DecodeJSON},
		{"yaml", (*Table).EncodeYAML, DecodeYAML},
		{"binary", func(t *Table) ([]byte, error) { return t.EncodeBinary(false) }, DecodeBinary},
		{"binary-lz4", func(t *Table) ([]byte, error) { return t.EncodeBinary(true) }, DecodeBinary},
	}
	tables := map[string]*Table{
		"sample": sample(),
		"chain":  chain(300),
		"single": {States: []State{{}}},
	}

	for _, c := range codecs {
		for name, tbl := range tables {
			t.Run(c.name+"/"+name, func(t *testing.T) {
				data, err := c.encode(tbl)
				if err != nil {
					t.Fatalf("encode error: %v", err)
				}
				got, err := c.decode(data)
				if err != nil {
					t.Fatalf("decode error: %v", err)
				}
				if diff, equal := messagediff.PrettyDiff(tbl, got); !equal {
					t.Errorf("round trip mismatch:\n%s", diff)
				}
			})
		}
	}
}

func TestReadWriteJSON(t *testing.T) {
	var sb strings.Builder
	if err := sample().WriteJSON(&sb); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	got, err := ReadJSON(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if diff, equal := messagediff.PrettyDiff(sample(), got); !equal {
		t.Errorf("round trip mismatch:\n%s", diff)
	}
}

func TestBinaryCompresses(t *testing.T) {
	tbl := chain(500)
	raw, err := tbl.EncodeBinary(false)
	if err != nil {
		t.Fatalf("EncodeBinary(false) error: %v", err)
	}
	packed, err := tbl.EncodeBinary(true)
	if err != nil {
		t.Fatalf("EncodeBinary(true) error: %v", err)
	}
	if len(packed) >= len(raw) {
		t.Errorf("compressed size %d not below raw size %d", len(packed), len(raw))
	}
}

func TestBinaryDeterministic(t *testing.T) {
	a, _ := chain(50).EncodeBinary(false)
	b, _ := chain(50).EncodeBinary(false)
	if string(a) != string(b) {
		t.Error("equal tables produced different encodings")
	}
}

func TestDecodeBinaryErrors(t *testing.T) {
	good, err := sample().EncodeBinary(false)
	if err != nil {
		t.Fatalf("EncodeBinary() error: %v", err)
	}

	badVersion := append([]byte(nil), good...)
	badVersion[7] = 9

	// header claiming a compressed payload of 1 GiB, followed by four bytes
	huge := binaryHeader(flagCompressed, 1<<30, []byte{0, 1, 2, 3})
	// within the global limit but far beyond what 4 LZ4 bytes can expand to
	inflated := binaryHeader(flagCompressed, 1<<20, []byte{0, 1, 2, 3})
	// uncompressed, above the global limit
	oversized := binaryHeader(0, maxPayload+1, nil)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short", []byte{1, 2, 3}, ErrBadMagic},
		{"magic", append([]byte("nope"), good[4:]...), ErrBadMagic},
		{"version", badVersion, ErrUnsupportedVersion},
		{"truncated", good[:len(good)-4], nil},
		{"huge-length", huge, ErrPayloadTooLarge},
		{"lz4-ratio", inflated, ErrPayloadTooLarge},
		{"over-limit", oversized, ErrPayloadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBinary(tt.data)
			if err == nil {
				t.Fatal("DecodeBinary() should fail")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("DecodeBinary() = %v, want %v", err, tt.want)
			}
		})
	}
}

// binaryHeader returns a header with the given flags and payload length
// followed by body.
func binaryHeader(flags, length uint32, body []byte) []byte {
	out := make([]byte, headerSize+len(body))
	h := header{magic: binaryMagic, version: binaryVersion, flags: flags, length: length}
	if err := h.MarshalXDRInto(&xdr.Marshaller{Data: out[:headerSize]}); err != nil {
		panic(err)
	}
	copy(out[headerSize:], body)
	return out
}

func TestEncodeBinaryRejectsInvalid(t *testing.T) {
	tbl := &Table{States: []State{{Handlers: []int{-1}}}}
	var ve *ValidationError
	if _, err := tbl.EncodeBinary(false); !errors.As(err, &ve) {
		t.Errorf("EncodeBinary() = %v, want *ValidationError", err)
	}
}

func TestDecodeJSONRejectsInvalid(t *testing.T) {
	if _, err := DecodeJSON([]byte(`{"states":[{"transitions":{"97":5}}]}`)); err == nil {
		t.Error("DecodeJSON should reject dangling transition")
	}
	if _, err := DecodeJSON([]byte(`{"states":[]}`)); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("DecodeJSON(empty) = %v, want ErrEmptyTable", err)
	}
	if _, err := DecodeJSON([]byte(`not json`)); err == nil {
		t.Error("DecodeJSON should reject malformed input")
	}
}

func TestString(t *testing.T) {
	want := "0 'a'->1\n1 accept=[1] 'b'->2\n2 accept=[0]\n"
	if got := sample().String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
