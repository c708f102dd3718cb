package rulefile

import (
	"bytes"

	"github.com/coregx/ahocorasick"
)

const (
	markOpen  = "%{"
	markClose = "%}"
	markSplit = "%%"
)

// sections holds the byte ranges of the four parts of a rule file.
type sections struct {
	src          []byte
	declarations span
	definitions  span
	rules        span
	variables    span
}

type span struct {
	start, end int
}

func (s span) of(src []byte) string {
	return string(src[s.start:s.end])
}

var markers = mustMarkers()

func mustMarkers() *ahocorasick.Automaton {
	b := ahocorasick.NewBuilder()
	for _, m := range []string{markOpen, markClose, markSplit} {
		b.AddPattern([]byte(m))
	}
	auto, err := b.Build()
	// Build only fails on an empty pattern set.
	if err != nil {
		panic(err)
	}
	return auto
}

// split locates the markers in one pass. Markers are expected in the order
// %{ %} %% %%; a marker that is not the next expected one is part of the
// surrounding text (for example %% inside a Go format string in the
// declarations).
func split(src []byte) (*sections, error) {
	expect := []string{markOpen, markClose, markSplit, markSplit}
	found := make([]span, 0, len(expect))

	at := 0
	for len(found) < len(expect) && at < len(src) {
		m := markers.Find(src, at)
		if m == nil {
			break
		}
		if string(src[m.Start:m.End]) == expect[len(found)] {
			found = append(found, span{m.Start, m.End})
		}
		at = m.End
	}
	if len(found) < len(expect) {
		return nil, &Error{
			Kind:   SectionMissing,
			Detail: "expected " + expect[len(found)] + " (layout: %{ declarations %} definitions %% rules %% variables)",
		}
	}

	return &sections{
		src:          src,
		declarations: span{found[0].end, found[1].start},
		definitions:  span{found[1].end, found[2].start},
		rules:        span{found[2].end, found[3].start},
		variables:    span{found[3].end, len(src)},
	}, nil
}

// line returns the 1-based line number of offset.
func (s *sections) line(offset int) int {
	return 1 + bytes.Count(s.src[:offset], []byte{'\n'})
}
