// internal/app/run.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"ava/internal/batch"
	"ava/internal/cli"
	"ava/internal/cliutil"
	"ava/internal/cmdutil"
	"ava/internal/diag"
	"ava/internal/fasta"
	"ava/internal/pipeline"
	"ava/internal/progress"
	"ava/internal/tables"
	"ava/internal/version"
	"ava/internal/writers"
)

// SummaryName is the run summary written next to the outputs.
const SummaryName = "summary.toml"

var (
	referenceSuffixes = []string{".fa", ".fasta"}
	tableSuffixes     = []string{".csv", ".csv.gz"}
)

type inputs struct {
	refs     []string
	variants []string
}

// discover lists reference files and variant tables under opts.Input,
// leaving out the output directory, working copies and the region table.
func discover(opts cli.Options) (inputs, error) {
	skip := func(p string) bool {
		return cliutil.SamePath(p, opts.Output) || strings.HasSuffix(p, "_temp.fa")
	}
	var in inputs
	var err error
	if in.refs, err = cliutil.FindFiles(opts.Input, skip, referenceSuffixes...); err != nil {
		return in, err
	}
	if len(in.refs) == 0 {
		return in, fmt.Errorf("no reference files (.fa, .fasta) under %s", opts.Input)
	}
	all, err := cliutil.FindFiles(opts.Input, skip, tableSuffixes...)
	if err != nil {
		return in, err
	}
	for _, p := range all {
		if !cliutil.SamePath(p, opts.Config) {
			in.variants = append(in.variants, p)
		}
	}
	if len(in.variants) == 0 {
		return in, fmt.Errorf("no variant tables (.csv) under %s", opts.Input)
	}
	return in, nil
}

func logPath(opts cli.Options) string {
	if filepath.IsAbs(opts.LogFile) {
		return opts.LogFile
	}
	return filepath.Join(opts.Output, opts.LogFile)
}

// runBatch is the main command. Only batch-level problems return an error;
// failed operations are reported and reflected in the exit status.
func runBatch(ctx context.Context, opts cli.Options, stdout, stderr io.Writer) (int, error) {
	started := time.Now()
	console := cmdutil.NewConsole(stderr, opts.Quiet)

	if err := os.MkdirAll(opts.Output, 0o755); err != nil {
		return ExitInput, inputError(err)
	}
	lpath := logPath(opts)
	lg, err := diag.Create(lpath)
	if err != nil {
		return ExitInput, inputError(err)
	}
	defer lg.Close()

	in, err := discover(opts)
	if err != nil {
		return ExitInput, inputError(err)
	}
	genes, err := tables.LoadGenes(opts.Config)
	if err != nil {
		return ExitInput, inputError(err)
	}

	console.Infof("indexing %d reference files", len(in.refs))
	cat := fasta.OpenCatalog(in.refs, func(path string, err error) {
		lg.File(path).WithField("condition", diag.CondReferenceFile).WithError(err).Warn("reference file skipped")
		console.Warnf("reference %s skipped: %v", path, err)
	})
	ws := &pipeline.Workspace{Dir: opts.Output, Width: opts.OutputWidth, Log: lg}
	defer func() {
		_ = cat.Close()
		var extra []string
		if !opts.KeepIndex {
			extra = cat.CreatedIndexes()
		}
		if err := ws.Cleanup(extra...); err != nil {
			console.Warnf("cleanup: %v", err)
		}
	}()
	if cat.Len() == 0 {
		return ExitInput, inputError(errors.New("no usable reference sequences"))
	}

	var vts []*tables.VariantTable
	for _, p := range in.variants {
		vt, err := tables.LoadVariants(p, genes, lg)
		if err != nil {
			lg.File(p).WithField("condition", diag.CondVariantTable).WithError(err).Error("variant table skipped")
			console.Warnf("variant table %s skipped: %v", p, err)
			continue
		}
		if vt != nil {
			vts = append(vts, vt)
		}
	}

	ops := Plan(vts, genes, cat, lg)
	if len(ops) == 0 {
		lg.Entry().WithField("condition", diag.CondNoOperations).
			Warn("insufficient data: no variant table could be paired with a reference and a region")
		console.Warnf("insufficient data: nothing to do")
	}

	bar := progress.New(stderr, "operations: ", len(ops), opts.Progress && !opts.Quiet)
	outCh, errCh := writers.StartOutcomes(stdout, opts.Format, 0)
	summary := pipeline.Run(ctx, pipeline.Config{Threads: opts.Threads}, ops, ws, func(o batch.Outcome) {
		if o.Err != nil {
			lg.Op(o.ID).WithFields(logrus.Fields{
				"condition": diag.CondOperationFailed,
				"stage":     o.Stage.String(),
			}).WithError(o.Err).Error("operation failed")
		}
		bar.Incr()
		outCh <- o
	})
	close(outCh)
	werr := <-errCh
	bar.Wait()

	rs := writers.NewRunSummary(summary)
	rs.Version = version.Version
	rs.Started, rs.Finished = started, time.Now()
	rs.Input, rs.Regions, rs.Log = opts.Input, opts.Config, lpath
	rs.Warnings = lg.Warnings()
	if err := writers.WriteSummary(filepath.Join(opts.Output, SummaryName), rs); err != nil {
		console.Warnf("summary: %v", err)
	}

	_, _ = fmt.Fprintf(stderr, "Output to %s complete: %d attempted, %d written, %d failed. Check log at %s for more details\n",
		opts.Output, summary.Attempted, summary.Written, summary.Failed, lpath)

	switch {
	case ctx.Err() != nil:
		return ExitCancelled, nil
	case werr != nil && !writers.IsBrokenPipe(werr):
		return ExitInput, inputError(werr)
	case summary.Failed > 0:
		return opts.FailedExitCode, nil
	}
	return ExitOK, nil
}
