// Package batch holds the unit of work (one sample × chromosome × gene) and
// the states it moves through.
package batch

import (
	"fmt"

	"ava/internal/fasta"
	"ava/internal/patch"
	"ava/internal/region"
)

// Identity names an operation. At most one output exists per Identity.
type Identity struct {
	Sample     string
	Chromosome string
	Gene       string
}

// Name joins the ids the way output files are named: chrom_sample_gene.
func (id Identity) Name() string {
	return id.Chromosome + "_" + id.Sample + "_" + id.Gene
}

func (id Identity) String() string { return id.Name() }

// Operation is consumed once by the scheduler. Ref is shared read-only
// between operations; Edits and Locus are owned by this operation.
type Operation struct {
	ID    Identity
	Locus region.Locus
	Edits *patch.Map
	Ref   *fasta.Store
}

// State of an operation. States only move forward.
type State int

const (
	Pending State = iota
	Copying
	Patching
	Extracting
	Written
	Failed
)

var stateNames = [...]string{"pending", "copying", "patching", "extracting", "written", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool { return s == Written || s == Failed }

// Tracker enforces forward-only transitions for one operation.
type Tracker struct {
	state State
	last  State // last non-terminal state reached
}

func (t *Tracker) State() State { return t.state }

// Stage is the last working state reached; for a failed operation it is the
// state it failed in.
func (t *Tracker) Stage() State { return t.last }

// Advance moves to next. Moving backwards, staying put, or leaving a
// terminal state is an error.
func (t *Tracker) Advance(next State) error {
	if t.state.Terminal() {
		return fmt.Errorf("operation already %s", t.state)
	}
	if next != Failed && next <= t.state {
		return fmt.Errorf("invalid transition %s -> %s", t.state, next)
	}
	if next != Failed && next != Written {
		t.last = next
	}
	t.state = next
	return nil
}

// Outcome is the single terminal record of one operation.
type Outcome struct {
	ID     Identity
	State  State // Written or Failed
	Stage  State // where a failed operation stopped
	Output string
	Err    error
}

// Summary aggregates the outcomes of a batch.
type Summary struct {
	Attempted int
	Written   int
	Failed    int
	Outcomes  []Outcome
}

// Add records o.
func (s *Summary) Add(o Outcome) {
	s.Attempted++
	switch o.State {
	case Written:
		s.Written++
	default:
		s.Failed++
	}
	s.Outcomes = append(s.Outcomes, o)
}
