// Package tables loads the region table and the per-sample variant tables.
package tables

import (
	"fmt"
	"sort"

	"ava/internal/region"
)

// Region table columns.
const (
	ColChromosomeID = "Chromosome_ID"
	ColGeneID       = "Gene_ID"
	ColRegion       = "Region"
)

// Genes maps chromosome id -> gene id -> location.
type Genes map[string]map[string]region.Locus

// Lookup returns the location of gene on chrom.
func (g Genes) Lookup(chrom, gene string) (region.Locus, bool) {
	loc, ok := g[chrom][gene]
	return loc, ok
}

// GenesOf lists the genes of chrom, longest id first so that a file named
// after "ABC12" is not claimed by gene "ABC1".
func (g Genes) GenesOf(chrom string) []string {
	ids := make([]string, 0, len(g[chrom]))
	for id := range g[chrom] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) > len(ids[j])
		}
		return ids[i] < ids[j]
	})
	return ids
}

// Len counts genes over all chromosomes.
func (g Genes) Len() int {
	n := 0
	for _, m := range g {
		n += len(m)
	}
	return n
}

// LoadGenes reads the region table. Any unparseable row fails the load: the
// table drives every operation of the batch.
func LoadGenes(path string) (Genes, error) {
	f, err := readFrame(path, ColChromosomeID, ColGeneID, ColRegion)
	if err != nil {
		return nil, err
	}
	chroms, genes, regions := f.column(ColChromosomeID), f.column(ColGeneID), f.column(ColRegion)

	out := make(Genes)
	for i := range chroms {
		if chroms[i] == "" || genes[i] == "" {
			return nil, fmt.Errorf("%w: %s: row %d: empty chromosome or gene id", ErrFormat, path, i+2)
		}
		loc, err := region.ParseLocus(regions[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: row %d: %v", ErrFormat, path, i+2, err)
		}
		if out[chroms[i]] == nil {
			out[chroms[i]] = make(map[string]region.Locus)
		}
		out[chroms[i]][genes[i]] = loc
	}
	return out, nil
}
