// Package diag is the batch diagnostic log: one self-describing line per
// warning or error, safe for concurrent writers.
package diag

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"ava/internal/batch"
	"ava/internal/patch"
)

// Conditions written in the "condition" field.
const (
	CondReferenceMismatch  = "reference-mismatch"
	CondBoundaryRecovered  = "boundary-write-recovered"
	CondFatalPatch         = "fatal-patch-failure"
	CondOperationFailed    = "operation-failed"
	CondMultiChromosome    = "multi-chromosome"
	CondConflictingAlleles = "conflicting-alleles"
	CondEmptyTable         = "empty-table"
	CondUnmatchedGene      = "unmatched-gene"
	CondDuplicate          = "duplicate-operation"
	CondMissingReference   = "missing-reference"
	CondMissingRegion      = "missing-region"
	CondReferenceFile      = "reference-file"
	CondVariantTable       = "variant-table"
	CondNoOperations       = "insufficient-data"
	CondRename             = "rename"
)

// Log wraps a logrus logger. logrus holds a mutex around every entry, so
// concurrent operations never interleave partial lines.
type Log struct {
	l      *logrus.Logger
	count  *counter
	closer io.Closer
}

// New logs to w at info level.
func New(w io.Writer) *Log {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		QuoteEmptyFields: true,
	})
	c := &counter{}
	l.AddHook(c)
	return &Log{l: l, count: c}
}

// Create truncates path and logs to it.
func Create(path string) (*Log, error) {
	fh, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	lg := New(fh)
	lg.closer = fh
	return lg, nil
}

// Discard returns a Log that drops everything but still counts.
func Discard() *Log { return New(io.Discard) }

// Close closes the underlying file, if Create opened one.
func (lg *Log) Close() error {
	if lg.closer == nil {
		return nil
	}
	return lg.closer.Close()
}

// Op returns an entry carrying the operation identity.
func (lg *Log) Op(id batch.Identity) *logrus.Entry {
	return lg.l.WithFields(logrus.Fields{
		"sample":     id.Sample,
		"chromosome": id.Chromosome,
		"gene":       id.Gene,
	})
}

// File returns an entry about an input file.
func (lg *Log) File(path string) *logrus.Entry {
	return lg.l.WithField("file", path)
}

// Entry returns an entry without context fields.
func (lg *Log) Entry() *logrus.Entry { return logrus.NewEntry(lg.l) }

func (lg *Log) Warnings() int64 { return lg.count.warn.Load() }
func (lg *Log) Errors() int64   { return lg.count.err.Load() }

// Reporter adapts the log to patch.Reporter for one operation.
func (lg *Log) Reporter(id batch.Identity) patch.Reporter {
	return opReporter{e: lg.Op(id)}
}

type opReporter struct{ e *logrus.Entry }

func (r opReporter) Mismatch(s patch.Substitution, found byte) {
	r.e.WithFields(logrus.Fields{
		"condition": CondReferenceMismatch,
		"position":  int(s.Pos) + 1,
		"expected":  string(s.Ref),
		"found":     string(found),
	}).Warn("reference base differs from variant table; writing replacement anyway")
}

func (r opReporter) Recovered(s patch.Substitution, strategy string, cause error) {
	r.e.WithFields(logrus.Fields{
		"condition": CondBoundaryRecovered,
		"position":  int(s.Pos) + 1,
		"strategy":  strategy,
	}).WithError(cause).Info("single-base write failed at a line boundary; two-base write succeeded")
}

func (r opReporter) Fatal(s patch.Substitution, err error) {
	r.e.WithFields(logrus.Fields{
		"condition": CondFatalPatch,
		"position":  int(s.Pos) + 1,
		"expected":  string(s.Ref),
		"allele":    string(s.Alt),
	}).WithError(err).Error("every write strategy failed")
}

// counter tallies warnings and errors as they are logged.
type counter struct {
	warn atomic.Int64
	err  atomic.Int64
}

func (c *counter) Levels() []logrus.Level {
	return []logrus.Level{logrus.WarnLevel, logrus.ErrorLevel}
}

func (c *counter) Fire(e *logrus.Entry) error {
	if e.Level == logrus.WarnLevel {
		c.warn.Add(1)
	} else {
		c.err.Add(1)
	}
	return nil
}
