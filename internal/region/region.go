// Package region parses gene locations and extracts them from a sequence.
package region

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax marks a location string that cannot be parsed.
var ErrSyntax = errors.New("invalid region")

// Region is the half-open range [Start, Stop) of logical positions.
type Region struct {
	Start int
	Stop  int
}

func (r Region) Len() int { return r.Stop - r.Start }

// String renders r in the 1-based inclusive "a..b" form it was parsed from.
func (r Region) String() string { return fmt.Sprintf("%d..%d", r.Start+1, r.Stop) }

// Locus is the ordered region list of one gene.
//
// Complement records a complement(...) wrapper. It is kept for strand-aware
// extraction but nothing reverse-complements the output today.
type Locus struct {
	Regions    []Region
	Complement bool
}

// Len is the total number of bases the locus extracts.
func (l Locus) Len() int {
	n := 0
	for _, r := range l.Regions {
		n += r.Len()
	}
	return n
}

// ParseLocus parses "a..b", "join(a..b,c..d)", "complement(...)" and their
// nesting. Positions are 1-based inclusive; a lone "a" is one base.
func ParseLocus(s string) (Locus, error) {
	var loc Locus
	body := strings.TrimSpace(s)
	if inner, ok := unwrap(body, "complement"); ok {
		loc.Complement = true
		body = inner
	}
	if inner, ok := unwrap(body, "join"); ok {
		body = inner
	}
	if body == "" {
		return Locus{}, fmt.Errorf("%w %q: no ranges", ErrSyntax, s)
	}
	for _, part := range strings.Split(body, ",") {
		r, err := parseRange(strings.TrimSpace(part))
		if err != nil {
			return Locus{}, fmt.Errorf("%w %q: %v", ErrSyntax, s, err)
		}
		loc.Regions = append(loc.Regions, r)
	}
	return loc, nil
}

func unwrap(s, fn string) (string, bool) {
	prefix := fn + "("
	if !strings.HasPrefix(s, prefix) {
		return s, false
	}
	return strings.TrimSpace(strings.TrimSuffix(s[len(prefix):], ")")), true
}

func parseRange(s string) (Region, error) {
	lo, hi, found := strings.Cut(s, "..")
	if !found {
		hi = lo
	}
	a, err := parseCoord(lo)
	if err != nil {
		return Region{}, err
	}
	b, err := parseCoord(hi)
	if err != nil {
		return Region{}, err
	}
	if b < a {
		return Region{}, fmt.Errorf("range %q ends before it starts", s)
	}
	return Region{Start: a - 1, Stop: b}, nil
}

// parseCoord accepts the partial-end markers '<' and '>' GenBank allows.
func parseCoord(s string) (int, error) {
	s = strings.TrimLeft(strings.TrimSpace(s), "<>")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad coordinate %q", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("coordinate %d is not 1-based", n)
	}
	return n, nil
}
