// Package mermaid renders automata as Mermaid flowcharts (graph LR).
//
// Nodes are named s<id> after the automaton's own state ids, so diagrams of
// the same rule set are stable across runs. Accepting states are drawn as
// double circles labeled with their handler ids. DFA edges to the same
// target are merged and their bytes shown as ranges.
package mermaid

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/table"
)

// NFA renders n. The start state is labeled S and the end state E.
func NFA(n *nfa.NFA) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for i := range n.States() {
		id := nfa.StateID(i)
		var label string
		switch id {
		case n.Start():
			label = "S"
		case n.End():
			label = "E"
		default:
			label = strconv.Itoa(i)
		}
		if h, ok := n.Handler(id); ok {
			fmt.Fprintf(&sb, "    s%d(((%s h%d)))\n", i, label, h)
		} else {
			fmt.Fprintf(&sb, "    s%d((%s))\n", i, label)
		}
	}

	for i := range n.States() {
		st := n.State(nfa.StateID(i))
		for _, tr := range st.Transitions() {
			fmt.Fprintf(&sb, "    s%d -->|\"%s\"| s%d\n", i, byteLabel(tr.Byte), tr.Next)
		}
		for _, next := range st.Epsilons() {
			fmt.Fprintf(&sb, "    s%d -.->|ε| s%d\n", i, next)
		}
	}
	return sb.String()
}

// DFA renders a lookup table. State 0 is the start state.
func DFA(t *table.Table) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for i, s := range t.States {
		if len(s.Handlers) > 0 {
			fmt.Fprintf(&sb, "    s%d(((%d h%s)))\n", i, i, joinInts(s.Handlers))
		} else {
			fmt.Fprintf(&sb, "    s%d((%d))\n", i, i)
		}
	}

	for i, s := range t.States {
		byTarget := make(map[int][]byte)
		for b, next := range s.Transitions {
			byTarget[next] = append(byTarget[next], b)
		}
		for _, next := range slices.Sorted(maps.Keys(byTarget)) {
			bs := byTarget[next]
			slices.Sort(bs)
			fmt.Fprintf(&sb, "    s%d -->|\"%s\"| s%d\n", i, rangeLabel(bs), next)
		}
	}
	return sb.String()
}

// rangeLabel renders sorted bytes as comma-separated runs, e.g. "0-9,_".
func rangeLabel(bs []byte) string {
	var parts []string
	for i := 0; i < len(bs); {
		j := i
		for j+1 < len(bs) && bs[j+1] == bs[j]+1 {
			j++
		}
		switch {
		case j == i:
			parts = append(parts, byteLabel(bs[i]))
		case j == i+1:
			parts = append(parts, byteLabel(bs[i]), byteLabel(bs[j]))
		default:
			parts = append(parts, byteLabel(bs[i])+"-"+byteLabel(bs[j]))
		}
		i = j + 1
	}
	return strings.Join(parts, ",")
}

// byteLabel renders b safely inside a quoted Mermaid label.
func byteLabel(b byte) string {
	switch {
	case b == '"':
		return "#quot;"
	case b == '#':
		return "#35;"
	case b > ' ' && b < 0x7f:
		return string(rune(b))
	default:
		return fmt.Sprintf("0x%02x", b)
	}
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}
