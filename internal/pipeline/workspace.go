package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"ava/internal/batch"
	"ava/internal/diag"
	"ava/internal/fasta"
	"ava/internal/patch"
	"ava/internal/region"
	"ava/internal/writers"
)

// Working copies are named after the operation with this suffix.
const tempSuffix = "_temp.fa"

// Workspace is the production Processor. Working copies and outputs live
// in Dir.
type Workspace struct {
	Dir   string
	Width int // output line width; 0 means region.DefaultWidth
	Log   *diag.Log
}

// OutputPath is where the extracted sequence of id is written.
func (w *Workspace) OutputPath(id batch.Identity) string {
	return filepath.Join(w.Dir, id.Name()+".fa")
}

func (w *Workspace) tempPath(id batch.Identity) string {
	return filepath.Join(w.Dir, id.Name()+tempSuffix)
}

// Process copies the reference record into a private working file, applies
// the substitutions, extracts the regions and writes the output. The
// working file and its index are removed before returning.
func (w *Workspace) Process(ctx context.Context, op batch.Operation, advance func(batch.State)) (string, error) {
	if op.Ref == nil {
		return "", fmt.Errorf("%s: %w: no reference sequence", op.ID, fasta.ErrNotFound)
	}

	advance(batch.Copying)
	tmp := w.tempPath(op.ID)
	if err := fasta.RemoveWithIndex(tmp); err != nil {
		return "", err
	}
	if err := fasta.CopyRecord(tmp, op.Ref); err != nil {
		return "", fmt.Errorf("copy %s: %w", op.Ref.Name(), err)
	}
	defer func() { _ = fasta.RemoveWithIndex(tmp) }()

	work, err := fasta.OpenWritable(tmp, op.Ref.Name(), op.Ref.Width())
	if err != nil {
		return "", err
	}
	defer work.Close()

	advance(batch.Patching)
	if err := patch.Apply(work, op.Edits, w.Log.Reporter(op.ID)); err != nil {
		return "", fmt.Errorf("patch: %w", err)
	}

	advance(batch.Extracting)
	body, err := region.Extract(work, op.Locus.Regions, w.Width)
	if err != nil {
		return "", fmt.Errorf("extract: %w", err)
	}
	out := w.OutputPath(op.ID)
	if err := writers.WriteRecord(out, region.Record{Header: op.ID.Name(), Body: body}); err != nil {
		return "", err
	}
	return out, nil
}

// Cleanup removes working copies left in Dir plus any extra files (such as
// index side files created next to the references).
func (w *Workspace) Cleanup(extra ...string) error {
	var paths []string
	for _, pat := range []string{"*" + tempSuffix, "*" + tempSuffix + ".fai"} {
		m, err := filepath.Glob(filepath.Join(w.Dir, pat))
		if err != nil {
			return err
		}
		paths = append(paths, m...)
	}
	paths = append(paths, extra...)

	var first error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) && first == nil {
			first = err
		}
	}
	return first
}
