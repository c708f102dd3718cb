package table

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/calmh/xdr"
	"github.com/pierrec/lz4/v4"

	"github.com/coregx/lexgen/internal/conv"
)

// Binary layout, all integers XDR (big-endian uint32):
//
//	header:  magic | version | flags | payload length
//	payload: state count, then per state
//	         handler count, handlers..., transition count, (byte, next)...
//
// When flagCompressed is set the payload is a single LZ4 block whose
// decompressed size is the header's payload length.
const (
	binaryMagic   = 0x4c584731 // "LXG1"
	binaryVersion = 1
	headerSize    = 16

	flagCompressed = 1 << 0

	maxStates      = 1 << 24
	maxHandlers    = 1 << 20
	maxTransitions = 256
	maxPayload     = 1 << 28

	// An LZ4 block never expands its input by more than this factor.
	maxLZ4Ratio = 255
)

// ErrBadMagic is returned when binary input does not start with the table
// magic number.
var ErrBadMagic = errors.New("table: not a binary table")

// ErrUnsupportedVersion is returned for binary tables written by a newer
// encoder.
var ErrUnsupportedVersion = errors.New("table: unsupported binary version")

// ErrPayloadTooLarge is returned when a binary header claims a payload larger
// than the decoder accepts or than its compressed body can expand to.
var ErrPayloadTooLarge = errors.New("table: binary payload too large")

type header struct {
	magic   uint32
	version uint32
	flags   uint32
	length  uint32
}

func (h header) MarshalXDRInto(m *xdr.Marshaller) error {
	m.MarshalUint32(h.magic)
	m.MarshalUint32(h.version)
	m.MarshalUint32(h.flags)
	m.MarshalUint32(h.length)
	return m.Error
}

func (h *header) UnmarshalXDRFrom(u *xdr.Unmarshaller) error {
	h.magic = u.UnmarshalUint32()
	h.version = u.UnmarshalUint32()
	h.flags = u.UnmarshalUint32()
	h.length = u.UnmarshalUint32()
	return u.Error
}

// xdrSize returns the exact payload size in bytes.
func (t *Table) xdrSize() int {
	n := 4
	for _, s := range t.States {
		n += 4 + 4*len(s.Handlers) + 4 + 8*len(s.Transitions)
	}
	return n
}

// MarshalXDRInto writes the payload. Transitions are written in ascending
// byte order so equal tables encode identically. The table must be valid.
func (t *Table) MarshalXDRInto(m *xdr.Marshaller) error {
	m.MarshalUint32(conv.IntToUint32(len(t.States)))
	for _, s := range t.States {
		m.MarshalUint32(conv.IntToUint32(len(s.Handlers)))
		for _, h := range s.Handlers {
			m.MarshalUint32(conv.IntToUint32(h))
		}
		m.MarshalUint32(conv.IntToUint32(len(s.Transitions)))
		for _, b := range slices.Sorted(maps.Keys(s.Transitions)) {
			m.MarshalUint32(conv.ByteToUint32(b))
			m.MarshalUint32(conv.IntToUint32(s.Transitions[b]))
		}
	}
	return m.Error
}

// UnmarshalXDRFrom reads a payload written by MarshalXDRInto.
func (t *Table) UnmarshalXDRFrom(u *xdr.Unmarshaller) error {
	l := conv.Uint32ToInt(u.UnmarshalUint32())
	if l > maxStates {
		return xdr.ElementSizeExceeded("number of states", l, maxStates)
	}
	// Every state needs at least two counts; a larger claim is corrupt.
	if l > len(u.Data)/8 {
		return xdr.ElementSizeExceeded("number of states", l, len(u.Data)/8)
	}
	t.States = make([]State, l)
	for i := range t.States {
		nh := conv.Uint32ToInt(u.UnmarshalUint32())
		if nh > maxHandlers {
			return xdr.ElementSizeExceeded("number of handlers", nh, maxHandlers)
		}
		if nh > 0 {
			t.States[i].Handlers = make([]int, nh)
			for j := range nh {
				t.States[i].Handlers[j] = conv.Uint32ToInt(u.UnmarshalUint32())
			}
		}
		nt := conv.Uint32ToInt(u.UnmarshalUint32())
		if nt > maxTransitions {
			return xdr.ElementSizeExceeded("number of transitions", nt, maxTransitions)
		}
		if nt > 0 {
			t.States[i].Transitions = make(map[byte]int, nt)
			for range nt {
				word := u.UnmarshalUint32()
				next := u.UnmarshalUint32()
				b, ok := conv.Uint32ToByte(word)
				if !ok {
					return fmt.Errorf("table: state %d: transition byte %d out of range", i, word)
				}
				t.States[i].Transitions[b] = conv.Uint32ToInt(next)
			}
		}
		if u.Error != nil {
			return u.Error
		}
	}
	return u.Error
}

// EncodeBinary returns the binary form of the table. With compress set the
// payload is LZ4-compressed unless that would not make it smaller.
func (t *Table) EncodeBinary(compress bool) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("table: encode binary: %w", err)
	}
	payload := make([]byte, t.xdrSize())
	if err := t.MarshalXDRInto(&xdr.Marshaller{Data: payload}); err != nil {
		return nil, fmt.Errorf("table: encode binary: %w", err)
	}

	h := header{
		magic:   binaryMagic,
		version: binaryVersion,
		length:  conv.IntToUint32(len(payload)),
	}
	body := payload
	if compress {
		buf := make([]byte, lz4.CompressBlockBound(len(payload)))
		n, err := lz4.CompressBlock(payload, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("table: compress: %w", err)
		}
		// n == 0 means incompressible
		if n > 0 && n < len(payload) {
			h.flags |= flagCompressed
			body = buf[:n]
		}
	}

	out := make([]byte, headerSize+len(body))
	if err := h.MarshalXDRInto(&xdr.Marshaller{Data: out[:headerSize]}); err != nil {
		return nil, fmt.Errorf("table: encode binary: %w", err)
	}
	copy(out[headerSize:], body)
	return out, nil
}

// DecodeBinary parses and validates a table written by EncodeBinary.
func DecodeBinary(data []byte) (*Table, error) {
	if len(data) < headerSize {
		return nil, ErrBadMagic
	}
	var h header
	if err := h.UnmarshalXDRFrom(&xdr.Unmarshaller{Data: data[:headerSize]}); err != nil {
		return nil, fmt.Errorf("table: decode header: %w", err)
	}
	if h.magic != binaryMagic {
		return nil, ErrBadMagic
	}
	if h.version != binaryVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.version)
	}

	payload := data[headerSize:]
	if h.length > maxPayload {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, h.length)
	}
	if h.flags&flagCompressed != 0 {
		if uint64(h.length) > maxLZ4Ratio*uint64(len(payload)) {
			return nil, fmt.Errorf("%w: %d bytes from a %d byte block", ErrPayloadTooLarge, h.length, len(payload))
		}
		buf := make([]byte, h.length)
		n, err := lz4.UncompressBlock(payload, buf)
		if err != nil {
			return nil, fmt.Errorf("table: decompress: %w", err)
		}
		payload = buf[:n]
	}
	if len(payload) != conv.Uint32ToInt(h.length) {
		return nil, fmt.Errorf("table: payload is %d bytes, header says %d", len(payload), h.length)
	}

	var t Table
	if err := t.UnmarshalXDRFrom(&xdr.Unmarshaller{Data: payload}); err != nil {
		return nil, fmt.Errorf("table: decode binary: %w", err)
	}
	return finish(&t)
}
