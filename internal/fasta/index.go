// internal/fasta/index.go
package fasta

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/shenwei356/bio/seqio/fai"
)

// headerID keeps the first whitespace-delimited token of a header, the way
// samtools names records.
const headerID = `^(\S+)\s*`

// Entry is one line of a samtools-style .fai index.
type Entry struct {
	Name      string
	Length    int   // logical bases
	Offset    int64 // byte offset of the first base
	LineBases int   // W: bases per full line
	LineWidth int   // bytes per full line, terminator included
}

// Index lists the records of one FASTA file in file order.
type Index []Entry

// IndexPath is the side file that caches the index of path.
func IndexPath(path string) string { return path + ".fai" }

// Lookup returns the entry called name. An empty name selects the first record.
func (ix Index) Lookup(name string) (Entry, bool) {
	if name == "" {
		if len(ix) == 0 {
			return Entry{}, false
		}
		return ix[0], true
	}
	for _, e := range ix {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// fromFai orders the records of a fai.Index by their position in the file.
func fromFai(idx fai.Index) Index {
	ix := make(Index, 0, len(idx))
	for _, r := range idx {
		ix = append(ix, Entry{
			Name:      r.Name,
			Length:    r.Length,
			Offset:    r.Start,
			LineBases: r.BasesPerLine,
			LineWidth: r.BytesPerLine,
		})
	}
	sort.Slice(ix, func(i, j int) bool { return ix[i].Offset < ix[j].Offset })
	return ix
}

// LoadOrBuildIndex reads path's .fai side file, or builds and writes one.
// created reports whether the side file was written by this call.
func LoadOrBuildIndex(path string) (ix Index, created bool, err error) {
	faiPath := IndexPath(path)
	if _, err := os.Stat(faiPath); err == nil {
		idx, err := fai.Read(faiPath)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %s: %v", ErrFormat, faiPath, err)
		}
		if len(idx) == 0 {
			return nil, false, fmt.Errorf("%w: %s: empty index", ErrFormat, faiPath)
		}
		return fromFai(idx), false, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, false, notFound(path, err)
	}
	idx, err := fai.CreateWithIDRegexp(path, faiPath, headerID)
	if err != nil {
		_ = os.Remove(faiPath)
		return nil, false, fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
	}
	if len(idx) == 0 {
		_ = os.Remove(faiPath)
		return nil, false, fmt.Errorf("%w: %s: no records", ErrFormat, path)
	}
	return fromFai(idx), true, nil
}

func notFound(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	}
	return err
}
