package tables

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	// ErrNotFound wraps a missing table file.
	ErrNotFound = errors.New("table not found")
	// ErrFormat wraps a table that cannot be parsed or lacks a column.
	ErrFormat = errors.New("malformed table")
)

// frame is a string-typed CSV table addressed by column name.
type frame struct {
	path string
	df   dataframe.DataFrame
	cols map[string]string // trimmed header -> header as written
}

func readFrame(path string, required ...string) (*frame, error) {
	rc, err := openReader(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer rc.Close()

	df := dataframe.ReadCSV(rc,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFormat, path, df.Err)
	}
	f := &frame{path: path, df: df, cols: make(map[string]string)}
	for _, name := range df.Names() {
		f.cols[strings.TrimSpace(name)] = name
	}
	for _, want := range required {
		if _, ok := f.cols[want]; !ok {
			return nil, fmt.Errorf("%w: %s: missing column %q", ErrFormat, path, want)
		}
	}
	return f, nil
}

func (f *frame) rows() int { return f.df.Nrow() }

// column returns the trimmed values of a column; NA cells come back empty.
func (f *frame) column(name string) []string {
	s := f.df.Col(f.cols[name])
	out := make([]string, s.Len())
	for i := range out {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		out[i] = strings.TrimSpace(e.String())
	}
	return out
}
