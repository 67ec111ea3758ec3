// internal/app/plan.go
package app

import (
	"github.com/sirupsen/logrus"

	"ava/internal/batch"
	"ava/internal/diag"
	"ava/internal/fasta"
	"ava/internal/tables"
)

// References resolves a chromosome id to its shared store.
type References interface {
	Lookup(chromosome string) (*fasta.Store, bool)
}

// Plan builds one operation per variant table that has both a reference
// record and a configured region. The first table for an output name wins;
// distinct identities can share a name once their fields are joined.
func Plan(vts []*tables.VariantTable, genes tables.Genes, refs References, lg *diag.Log) []batch.Operation {
	seen := make(map[string]string, len(vts))
	ops := make([]batch.Operation, 0, len(vts))
	for _, vt := range vts {
		e := lg.File(vt.Path).WithFields(logrus.Fields{
			"sample":     vt.ID.Sample,
			"chromosome": vt.ID.Chromosome,
			"gene":       vt.ID.Gene,
		})
		if first, dup := seen[vt.ID.Name()]; dup {
			e.WithFields(logrus.Fields{"condition": diag.CondDuplicate, "kept": first}).
				Warn("another table already supplies this output name; skipping")
			continue
		}
		ref, ok := refs.Lookup(vt.ID.Chromosome)
		if !ok {
			e.WithField("condition", diag.CondMissingReference).Warn("no reference record for chromosome; skipping")
			continue
		}
		locus, ok := genes.Lookup(vt.ID.Chromosome, vt.ID.Gene)
		if !ok {
			e.WithField("condition", diag.CondMissingRegion).Warn("no region configured for gene; skipping")
			continue
		}
		seen[vt.ID.Name()] = vt.Path
		ops = append(ops, batch.Operation{ID: vt.ID, Locus: locus, Edits: vt.Edits, Ref: ref})
	}
	return ops
}
