package tables

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"ava/internal/batch"
	"ava/internal/diag"
	"ava/internal/patch"
)

// Variant table columns.
const (
	ColChromosome = "Chromosome"
	ColPosition   = "Region"
	ColReference  = "Reference"
	ColAllele     = "Allele"
)

// VariantTable is the substitution map of one (sample, chromosome, gene).
type VariantTable struct {
	Path  string
	ID    batch.Identity
	Edits *patch.Map
}

// Stem strips the table extensions from a file name.
func Stem(path string) string {
	name := filepath.Base(path)
	for _, ext := range []string{".gz", ".csv"} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

// MatchGene finds which configured gene a table named stem belongs to and
// derives the sample id from what is left of the name. Genes the stem ends
// with ("S1_GENE") win over genes it merely contains.
func MatchGene(stem string, genes []string) (sample, gene string, ok bool) {
	for _, g := range genes {
		if strings.HasSuffix(stem, "_"+g) {
			return strings.TrimSuffix(stem, "_"+g), g, true
		}
	}
	for _, g := range genes {
		if strings.Contains(stem, g) {
			s := strings.TrimSuffix(strings.TrimSuffix(stem, g), "_")
			if s == "" {
				continue
			}
			return s, g, true
		}
	}
	return "", "", false
}

// LoadVariants reads one variant table. Tables that are empty or cannot be
// tied to a configured gene are logged and yield (nil, nil). Positions in
// the file are 1-based.
func LoadVariants(path string, genes Genes, lg *diag.Log) (*VariantTable, error) {
	f, err := readFrame(path, ColChromosome, ColPosition, ColReference, ColAllele)
	if err != nil {
		return nil, err
	}
	flog := lg.File(path)
	if f.rows() == 0 {
		flog.WithField("condition", diag.CondEmptyTable).
			Warn("variant table has no entries; unable to map it to a chromosome, skipping")
		return nil, nil
	}

	chroms := f.column(ColChromosome)
	positions := f.column(ColPosition)
	refs := f.column(ColReference)
	alleles := f.column(ColAllele)

	chrom := chroms[0]
	sample, gene, ok := MatchGene(Stem(path), genes.GenesOf(chrom))
	if !ok {
		flog.WithFields(logrus.Fields{"condition": diag.CondUnmatchedGene, "chromosome": chrom}).
			Warn("file name matches no gene configured for its chromosome, skipping")
		return nil, nil
	}

	vt := &VariantTable{
		Path:  path,
		ID:    batch.Identity{Sample: sample, Chromosome: chrom, Gene: gene},
		Edits: &patch.Map{},
	}

	var (
		prevPos    string
		prevAllele string
		foreign    int
	)
	for i := range chroms {
		pos, ref, allele := positions[i], refs[i], alleles[i]
		if chroms[i] != chrom {
			foreign++
			continue
		}
		if pos == prevPos && allele != ref && prevAllele != ref {
			flog.WithFields(logrus.Fields{
				"condition": diag.CondConflictingAlleles,
				"position":  pos,
				"reference": ref,
				"alleles":   prevAllele + "," + allele,
			}).Warn("neither allele at this position matches the reference; keeping the last")
		}
		prevPos, prevAllele = pos, allele

		if allele == ref {
			continue
		}
		n, err := strconv.Atoi(pos)
		if err != nil || n < 1 || len(ref) != 1 || len(allele) != 1 {
			flog.WithFields(logrus.Fields{
				"condition": diag.CondVariantTable,
				"row":       i + 2,
				"position":  pos,
				"reference": ref,
				"allele":    allele,
			}).Warn("not a single-base substitution, skipping row")
			continue
		}
		vt.Edits.Put(patch.Substitution{Pos: patch.Position(n - 1), Ref: ref[0], Alt: allele[0]})
	}
	if foreign > 0 {
		flog.WithFields(logrus.Fields{
			"condition":  diag.CondMultiChromosome,
			"chromosome": chrom,
			"rows":       foreign,
		}).Warn("multiple chromosomes in one variant table; rows for other chromosomes were ignored")
	}
	return vt, nil
}
