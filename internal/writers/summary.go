package writers

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"ava/internal/batch"
)

// RunSummary is the machine-readable record of one batch, written as TOML
// next to the outputs.
type RunSummary struct {
	Version    string           `toml:"version"`
	Started    time.Time        `toml:"started"`
	Finished   time.Time        `toml:"finished"`
	Input      string           `toml:"input"`
	Regions    string           `toml:"regions"`
	Log        string           `toml:"log"`
	Attempted  int              `toml:"attempted"`
	Written    int              `toml:"written"`
	Failed     int              `toml:"failed"`
	Warnings   int64            `toml:"warnings"`
	Operations []OperationEntry `toml:"operation"`
}

// OperationEntry is one [[operation]] table of the summary and one line of
// the JSONL status stream.
type OperationEntry struct {
	Sample     string `toml:"sample" json:"sample"`
	Chromosome string `toml:"chromosome" json:"chromosome"`
	Gene       string `toml:"gene" json:"gene"`
	State      string `toml:"state" json:"state"`
	Stage      string `toml:"stage,omitempty" json:"stage,omitempty"`
	Output     string `toml:"output,omitempty" json:"output,omitempty"`
	Error      string `toml:"error,omitempty" json:"error,omitempty"`
}

// NewOperationEntry flattens one outcome.
func NewOperationEntry(o batch.Outcome) OperationEntry {
	e := OperationEntry{
		Sample:     o.ID.Sample,
		Chromosome: o.ID.Chromosome,
		Gene:       o.ID.Gene,
		State:      o.State.String(),
		Output:     o.Output,
	}
	if o.Err != nil {
		e.Stage = o.Stage.String()
		e.Error = o.Err.Error()
	}
	return e
}

// NewRunSummary copies the counts and outcomes of s.
func NewRunSummary(s batch.Summary) RunSummary {
	rs := RunSummary{Attempted: s.Attempted, Written: s.Written, Failed: s.Failed}
	for _, o := range s.Outcomes {
		rs.Operations = append(rs.Operations, NewOperationEntry(o))
	}
	return rs
}

// EncodeSummary writes rs as TOML.
func EncodeSummary(w io.Writer, rs RunSummary) error {
	return toml.NewEncoder(w).Encode(rs)
}

// WriteSummary writes rs to path.
func WriteSummary(path string, rs RunSummary) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeSummary(fh, rs); err != nil {
		_ = fh.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return fh.Close()
}

// ReadSummary decodes a summary written by WriteSummary.
func ReadSummary(path string) (RunSummary, error) {
	var rs RunSummary
	_, err := toml.DecodeFile(path, &rs)
	return rs, err
}
