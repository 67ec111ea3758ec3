// internal/fasta/store.go
package fasta

import (
	"fmt"
	"os"
)

// Store is random access to one record of a wrapped FASTA file. Logical
// position i lives on physical line i/W, column i%W.
//
// A read-only Store is safe for concurrent use; reads go through ReadAt.
// A writable Store belongs to a single goroutine.
type Store struct {
	path     string
	entry    Entry
	f        *os.File
	owned    bool
	writable bool
}

// Open opens record name (first record if empty) of path for reading.
// width > 0 must match the file's bases per line.
func Open(path, name string, width int) (*Store, error) {
	return open(path, name, width, false)
}

// OpenWritable opens record name of path for in-place substitution.
func OpenWritable(path, name string, width int) (*Store, error) {
	return open(path, name, width, true)
}

func open(path, name string, width int, writable bool) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, notFound(path, err)
	}
	ix, _, err := LoadOrBuildIndex(path)
	if err != nil {
		return nil, err
	}
	e, ok := ix.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: record %q in %s", ErrNotFound, name, path)
	}
	if err := checkEntry(path, e, width); err != nil {
		return nil, err
	}
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, notFound(path, err)
	}
	return &Store{path: path, entry: e, f: f, owned: true, writable: writable}, nil
}

func checkEntry(path string, e Entry, width int) error {
	if e.Length <= 0 || e.LineBases <= 0 || e.LineWidth < e.LineBases {
		return fmt.Errorf("%w: %s: record %q has no wrapped sequence", ErrFormat, path, e.Name)
	}
	// A single-line record may be shorter than the requested width.
	if width > 0 && e.LineBases != width && !(e.Length == e.LineBases && e.LineBases < width) {
		return fmt.Errorf("%w: %s: record %q is wrapped at %d, want %d", ErrFormat, path, e.Name, e.LineBases, width)
	}
	return nil
}

func (s *Store) Name() string { return s.entry.Name }
func (s *Store) Path() string { return s.path }
func (s *Store) Len() int     { return s.entry.Length }

// Width is the number of bases per physical line (W).
func (s *Store) Width() int { return s.entry.LineBases }

// Close releases the file handle when the Store owns it.
func (s *Store) Close() error {
	if !s.owned || s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

func (s *Store) physical(i int) int64 {
	e := s.entry
	return e.Offset + int64(i/e.LineBases)*int64(e.LineWidth) + int64(i%e.LineBases)
}

func (s *Store) checkRange(start, stop int) error {
	if start < 0 || stop > s.entry.Length || start > stop {
		return fmt.Errorf("%w: [%d,%d) of %s (length %d)", ErrOutOfRange, start, stop, s.entry.Name, s.entry.Length)
	}
	return nil
}

// span reads the physical bytes holding logical [start, stop), terminators included.
func (s *Store) span(start, stop int) ([]byte, int64, error) {
	lo := s.physical(start)
	hi := s.physical(stop-1) + 1
	buf := make([]byte, hi-lo)
	if _, err := s.f.ReadAt(buf, lo); err != nil {
		return nil, 0, fmt.Errorf("%s: read [%d,%d): %w", s.path, start, stop, err)
	}
	return buf, lo, nil
}

// Get returns the base at logical position i.
func (s *Store) Get(i int) (byte, error) {
	if i < 0 || i >= s.entry.Length {
		return 0, fmt.Errorf("%w: %d of %s (length %d)", ErrOutOfRange, i, s.entry.Name, s.entry.Length)
	}
	var b [1]byte
	if _, err := s.f.ReadAt(b[:], s.physical(i)); err != nil {
		return 0, fmt.Errorf("%s: read %d: %w", s.path, i, err)
	}
	if isTerminator(b[0]) {
		return 0, fmt.Errorf("%w: %s: position %d maps onto a line terminator", ErrFormat, s.path, i)
	}
	return b[0], nil
}

// Slice returns the bases of logical [start, stop) without terminators.
func (s *Store) Slice(start, stop int) ([]byte, error) {
	if err := s.checkRange(start, stop); err != nil {
		return nil, err
	}
	if start == stop {
		return nil, nil
	}
	buf, _, err := s.span(start, stop)
	if err != nil {
		return nil, err
	}
	out := buf[:0]
	for _, b := range buf {
		if !isTerminator(b) {
			out = append(out, b)
		}
	}
	if len(out) != stop-start {
		return nil, fmt.Errorf("%w: %s: [%d,%d) holds %d bases", ErrFormat, s.path, start, stop, len(out))
	}
	return out, nil
}

// Set writes one base at logical position i.
func (s *Store) Set(i int, c byte) error {
	return s.SetRange(i, []byte{c})
}

// SetRange overwrites logical [start, start+len(data)). Every physical byte
// it targets must be a base; if any is a line terminator nothing is written
// and the error wraps ErrBoundaryWrite.
func (s *Store) SetRange(start int, data []byte) error {
	if !s.writable {
		return fmt.Errorf("%w: %s", ErrReadOnly, s.path)
	}
	if len(data) == 0 {
		return nil
	}
	stop := start + len(data)
	if err := s.checkRange(start, stop); err != nil {
		return err
	}
	buf, lo, err := s.span(start, stop)
	if err != nil {
		return err
	}
	for k, c := range data {
		at := s.physical(start+k) - lo
		if isTerminator(buf[at]) {
			return fmt.Errorf("%w: %s: position %d", ErrBoundaryWrite, s.path, start+k)
		}
		buf[at] = c
	}
	if _, err := s.f.WriteAt(buf, lo); err != nil {
		return fmt.Errorf("%s: write [%d,%d): %w", s.path, start, stop, err)
	}
	return nil
}
