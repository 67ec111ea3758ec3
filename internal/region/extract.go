package region

import (
	"bytes"
	"fmt"
	"io"
)

// DefaultWidth is the line width of extracted sequences.
const DefaultWidth = 60

// Source is what the extractor reads from; *fasta.Store satisfies it.
type Source interface {
	Slice(start, stop int) ([]byte, error)
}

// Extract concatenates the regions of src in the given order and wraps the
// result at width bases per line. The body always ends with exactly one
// newline. Regions are neither sorted nor merged.
func Extract(src Source, regions []Region, width int) ([]byte, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	var seq []byte
	for _, r := range regions {
		part, err := src.Slice(r.Start, r.Stop)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", r, err)
		}
		seq = append(seq, part...)
	}
	return Wrap(seq, width), nil
}

// Wrap breaks seq into lines of width bases.
func Wrap(seq []byte, width int) []byte {
	if width <= 0 {
		width = DefaultWidth
	}
	out := make([]byte, 0, len(seq)+len(seq)/width+1)
	for off := 0; off < len(seq); off += width {
		end := off + width
		if end > len(seq) {
			end = len(seq)
		}
		out = append(out, seq[off:end]...)
		out = append(out, '\n')
	}
	out = bytes.TrimRight(out, "\n")
	return append(out, '\n')
}

// Record is an extracted sequence ready to be written as FASTA.
type Record struct {
	Header string
	Body   []byte // wrapped, newline terminated
}

// WriteTo writes ">Header\n" followed by the body.
func (r Record) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, ">%s\n", r.Header)
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(r.Body)
	return int64(n + m), err
}
