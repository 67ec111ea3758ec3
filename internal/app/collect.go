// internal/app/collect.go
package app

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"ava/internal/batch"
	"ava/internal/cli"
	"ava/internal/cliutil"
	"ava/internal/cmdutil"
	"ava/internal/diag"
	"ava/internal/region"
	"ava/internal/writers"
)

// CollectLogName is the log `ava collect` writes into its output directory.
const CollectLogName = "post_output.log"

// SplitOutputName recovers the ids from an output name
// {chromosome}_{sample}_{gene}. Chromosome and sample ids may each hold one
// underscore. With four fields the chromosome is assumed to hold it; guessed
// splits return ambiguous.
func SplitOutputName(name string) (id batch.Identity, ambiguous, ok bool) {
	f := strings.Split(name, "_")
	switch len(f) {
	case 5:
		return batch.Identity{Chromosome: f[0] + "_" + f[1], Sample: f[2] + "_" + f[3], Gene: f[4]}, false, true
	case 4:
		return batch.Identity{Chromosome: f[0] + "_" + f[1], Sample: f[2], Gene: f[3]}, true, true
	case 3:
		return batch.Identity{Chromosome: f[0], Sample: f[1], Gene: f[2]}, true, true
	}
	return batch.Identity{}, false, false
}

func outputStem(path string) string {
	name := filepath.Base(path)
	for _, ext := range referenceSuffixes {
		if cliutil.HasSuffixFold(name, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// CollectOutput copies one output into dir/{chromosome}_{gene}/{sample}.fa
// with the header replaced by the sample id. Problems are logged; the
// returned path is empty when nothing was written.
func CollectOutput(path, dir string, lg *diag.Log) string {
	name := outputStem(path)
	e := lg.File(path).WithField("condition", diag.CondRename)

	id, ambiguous, ok := SplitOutputName(name)
	if !ok {
		e.Error("could not determine chromosome, sample and gene from the file name")
		return ""
	}
	e = e.WithFields(logrus.Fields{"chromosome": id.Chromosome, "sample": id.Sample, "gene": id.Gene})
	if ambiguous {
		e.Warn("potentially malformed name; assuming the ids shown")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		e.WithError(err).Error("read failed")
		return ""
	}
	if len(data) == 0 {
		e.Warn("empty file")
		return ""
	}
	first, body, _ := bytes.Cut(data, []byte{'\n'})
	if !bytes.Contains(first, []byte(">"+name)) {
		e.WithField("header", string(first)).Warn("unexpected header")
	}

	out := filepath.Join(dir, id.Chromosome+"_"+id.Gene, id.Sample+".fa")
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		e.WithError(err).Error("create directory failed")
		return ""
	}
	if err := writers.WriteRecord(out, region.Record{Header: id.Sample, Body: body}); err != nil {
		e.WithError(err).Error("write failed")
		return ""
	}
	return out
}

func runCollect(opts cli.CollectOptions, stdout, stderr io.Writer) (int, error) {
	if err := os.MkdirAll(opts.Output, 0o755); err != nil {
		return ExitInput, inputError(err)
	}
	lpath := filepath.Join(opts.Output, CollectLogName)
	lg, err := diag.Create(lpath)
	if err != nil {
		return ExitInput, inputError(err)
	}
	defer lg.Close()

	skip := func(p string) bool {
		return cliutil.SamePath(p, opts.Output) || strings.HasSuffix(p, "_temp.fa")
	}
	files, err := cliutil.FindFiles(opts.Input, skip, referenceSuffixes...)
	if err != nil {
		return ExitInput, inputError(err)
	}
	if len(files) == 0 {
		cmdutil.NewConsole(stderr, opts.Quiet).Warnf("no .fa or .fasta files under %s", opts.Input)
	}
	written := 0
	for _, p := range files {
		if CollectOutput(p, opts.Output, lg) != "" {
			written++
		}
	}

	issues := lg.Warnings() + lg.Errors()
	msg := fmt.Sprintf("Renamed %d of %d files with %d potential issues.", written, len(files), issues)
	if issues > 0 {
		msg += " See " + lpath + " for more details"
	}
	_, _ = fmt.Fprintln(stdout, msg)
	return ExitOK, nil
}
