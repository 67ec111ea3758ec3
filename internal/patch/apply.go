package patch

import (
	"errors"
	"fmt"
	"strings"
)

// Editor is the mutable view the applier writes through.
type Editor interface {
	Len() int
	Width() int
	Get(i int) (byte, error)
	Set(i int, c byte) error
	SetRange(start int, data []byte) error
}

// Reporter receives the events of an Apply run. Fatal is called once, for
// the substitution that stopped the run.
type Reporter interface {
	Mismatch(s Substitution, found byte)
	Recovered(s Substitution, strategy string, cause error)
	Fatal(s Substitution, err error)
}

// FatalPatchError means no write strategy could place a substitution.
type FatalPatchError struct {
	Sub      Substitution
	Attempts []Attempt
}

// Attempt is one failed strategy.
type Attempt struct {
	Strategy string
	Err      error
}

func (e *FatalPatchError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = a.Strategy + ": " + a.Err.Error()
	}
	return fmt.Sprintf("unable to modify %c to %c at position %d (%s)",
		e.Sub.Ref, e.Sub.Alt, int(e.Sub.Pos)+1, strings.Join(parts, "; "))
}

func (e *FatalPatchError) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a.Err
	}
	return errs
}

// Strategy names, in the order they may be tried.
const (
	StrategySingle     = "single"
	StrategyPairBefore = "pair-before"
	StrategyPairAfter  = "pair-after"
)

type strategy struct {
	name  string
	write func(ed Editor, p int, alt byte) error
}

var (
	single = strategy{StrategySingle, func(ed Editor, p int, alt byte) error {
		return ed.Set(p, alt)
	}}
	// [p-1, p+1) keeping the base before p.
	pairBefore = strategy{StrategyPairBefore, func(ed Editor, p int, alt byte) error {
		prev, err := ed.Get(p - 1)
		if err != nil {
			return err
		}
		return ed.SetRange(p-1, []byte{prev, alt})
	}}
	// [p, p+2) keeping the base after p.
	pairAfter = strategy{StrategyPairAfter, func(ed Editor, p int, alt byte) error {
		next, err := ed.Get(p + 1)
		if err != nil {
			return err
		}
		return ed.SetRange(p, []byte{alt, next})
	}}
)

// plan lists the strategies for position p, most direct first.
func plan(p, width, length int) []strategy {
	out := []strategy{single}
	switch {
	case width > 0 && p%width == 1 && p > 0:
		out = append(out, pairBefore)
	case width > 0 && p%width == 0 && p+1 < length:
		out = append(out, pairAfter)
	default:
		if p > 0 {
			out = append(out, pairBefore)
		}
		if p+1 < length {
			out = append(out, pairAfter)
		}
	}
	return out
}

// Apply writes every substitution of m onto ed in ascending position order.
// A reference mismatch is reported and the write still happens. The first
// substitution that no strategy can place stops the run with a
// *FatalPatchError; read errors (e.g. out of range) are returned as is.
func Apply(ed Editor, m *Map, rep Reporter) error {
	for _, s := range m.All() {
		if err := applyOne(ed, s, rep); err != nil {
			return err
		}
	}
	return nil
}

func applyOne(ed Editor, s Substitution, rep Reporter) error {
	p := int(s.Pos)
	found, err := ed.Get(p)
	if err != nil {
		return err
	}
	if found != s.Ref && rep != nil {
		rep.Mismatch(s, found)
	}

	var attempts []Attempt
	for _, st := range plan(p, ed.Width(), ed.Len()) {
		err := st.write(ed, p, s.Alt)
		if err == nil {
			if len(attempts) > 0 && rep != nil {
				rep.Recovered(s, st.name, attempts[0].Err)
			}
			return nil
		}
		attempts = append(attempts, Attempt{Strategy: st.name, Err: err})
	}
	fe := &FatalPatchError{Sub: s, Attempts: attempts}
	if rep != nil {
		rep.Fatal(s, fe)
	}
	return fe
}

// IsFatal reports whether err came from an exhausted strategy list.
func IsFatal(err error) bool {
	var fe *FatalPatchError
	return errors.As(err, &fe)
}
