package writers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"syscall"

	"ava/internal/batch"
)

// OutcomeHeader is the column line of the status stream.
const OutcomeHeader = "chromosome\tsample\tgene\tstate\tstage\toutput\terror"

// Status stream formats.
const (
	FormatTSV   = "tsv"
	FormatJSONL = "jsonl"
)

// StartOutcomes starts the status stream writer for format.
func StartOutcomes(out io.Writer, format string, bufSize int) (chan<- batch.Outcome, <-chan error) {
	if format == FormatJSONL {
		return StartOutcomeJSONL(out, bufSize)
	}
	return StartOutcomeWriter(out, true, bufSize)
}

// StartOutcomeWriter spins up a goroutine writing one TSV line per outcome.
// Close the returned channel, then read the error channel once.
func StartOutcomeWriter(out io.Writer, header bool, bufSize int) (chan<- batch.Outcome, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan batch.Outcome, bufSize)
	errCh := make(chan error, 1)

	go func() {
		bw := bufio.NewWriter(out)
		var err error
		if header {
			_, err = fmt.Fprintln(bw, OutcomeHeader)
		}
		for o := range in {
			if err != nil {
				continue // drain so senders never block
			}
			_, err = fmt.Fprintln(bw, FormatOutcome(o))
		}
		if err == nil {
			err = bw.Flush()
		}
		errCh <- err
	}()
	return in, errCh
}

// FormatOutcome renders o as one TSV row.
func FormatOutcome(o batch.Outcome) string {
	stage, msg, output := "-", "-", "-"
	if o.Err != nil {
		stage, msg = o.Stage.String(), o.Err.Error()
	}
	if o.Output != "" {
		output = filepath.Base(o.Output)
	}
	return fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s\t%s",
		o.ID.Chromosome, o.ID.Sample, o.ID.Gene, o.State, stage, output, msg)
}

// IsBrokenPipe reports whether err comes from a reader (like `head`) that
// closed the stream early.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

// Reuse a 64 KiB buffered writer across JSONL streams.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// StartOutcomeJSONL is StartOutcomeWriter for JSON lines, one
// OperationEntry object per outcome.
func StartOutcomeJSONL(out io.Writer, bufSize int) (chan<- batch.Outcome, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan batch.Outcome, bufSize)
	errCh := make(chan error, 1)

	go func() {
		bw := bwPool.Get().(*bufio.Writer)
		bw.Reset(out)
		defer func() {
			bw.Reset(io.Discard)
			bwPool.Put(bw)
		}()

		enc := json.NewEncoder(bw)
		var err error
		for o := range in {
			if err != nil {
				continue
			}
			err = enc.Encode(NewOperationEntry(o))
		}
		if err == nil {
			err = bw.Flush()
		}
		errCh <- err
	}()
	return in, errCh
}
