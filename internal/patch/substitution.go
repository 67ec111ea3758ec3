// Package patch applies same-length substitutions to a mutable sequence.
package patch

import (
	"fmt"
	"sort"
)

// Position is a 0-based logical index into an unwrapped sequence.
type Position int

// Substitution replaces Ref with Alt at Pos.
type Substitution struct {
	Pos Position
	Ref byte
	Alt byte
}

func (s Substitution) String() string {
	return fmt.Sprintf("%d:%c>%c", int(s.Pos)+1, s.Ref, s.Alt)
}

// Map holds at most one substitution per position and always iterates in
// ascending position order. The zero value is ready to use.
type Map struct {
	subs   map[Position]Substitution
	sorted []Position
}

// Put records s, replacing any substitution already at s.Pos.
func (m *Map) Put(s Substitution) {
	if m.subs == nil {
		m.subs = make(map[Position]Substitution)
	}
	if _, ok := m.subs[s.Pos]; !ok {
		m.sorted = nil
	}
	m.subs[s.Pos] = s
}

func (m *Map) Get(p Position) (Substitution, bool) {
	s, ok := m.subs[p]
	return s, ok
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.subs)
}

// All returns the substitutions ordered by position.
func (m *Map) All() []Substitution {
	if m == nil || len(m.subs) == 0 {
		return nil
	}
	if m.sorted == nil {
		m.sorted = make([]Position, 0, len(m.subs))
		for p := range m.subs {
			m.sorted = append(m.sorted, p)
		}
		sort.Slice(m.sorted, func(i, j int) bool { return m.sorted[i] < m.sorted[j] })
	}
	out := make([]Substitution, len(m.sorted))
	for i, p := range m.sorted {
		out[i] = m.subs[p]
	}
	return out
}
