package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ava/internal/batch"
	"ava/internal/diag"
	"ava/internal/fasta"
	"ava/internal/patch"
	"ava/internal/region"
	"ava/internal/tables"
)

func write(t *testing.T, path, data string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

type refMap map[string]*fasta.Store

func (m refMap) Lookup(id string) (*fasta.Store, bool) { s, ok := m[id]; return s, ok }

func TestPlan(t *testing.T) {
	genes := tables.Genes{"chr1": {"G1": region.Locus{Regions: []region.Region{{Start: 0, Stop: 4}}}}}
	ref := &fasta.Store{}
	refs := refMap{"chr1": ref}
	vt := func(path, sample, chrom, gene string) *tables.VariantTable {
		return &tables.VariantTable{Path: path, ID: batch.Identity{Sample: sample, Chromosome: chrom, Gene: gene}, Edits: &patch.Map{}}
	}

	var buf bytes.Buffer
	lg := diag.New(&buf)
	ops := Plan([]*tables.VariantTable{
		vt("a.csv", "S1", "chr1", "G1"),
		vt("b.csv", "S1", "chr1", "G1"), // duplicate
		vt("c.csv", "S2", "chr2", "G1"), // no reference
		vt("d.csv", "S3", "chr1", "G9"), // no region
		vt("e.csv", "S4", "chr1", "G1"),
	}, genes, refs, lg)

	if len(ops) != 2 || ops[0].ID.Sample != "S1" || ops[1].ID.Sample != "S4" {
		t.Fatalf("ops: %+v", ops)
	}
	if ops[0].Ref != ref || len(ops[0].Locus.Regions) != 1 {
		t.Fatalf("op wiring: %+v", ops[0])
	}
	if lg.Warnings() != 3 {
		t.Fatalf("warnings: %d\n%s", lg.Warnings(), buf.String())
	}
	for _, cond := range []string{diag.CondDuplicate, diag.CondMissingReference, diag.CondMissingRegion} {
		if !strings.Contains(buf.String(), "condition="+cond) {
			t.Errorf("log lacks %s", cond)
		}
	}
	if !strings.Contains(buf.String(), "kept=a.csv") {
		t.Errorf("duplicate warning should name the kept table:\n%s", buf.String())
	}
}

func TestPlan_OutputNameCollision(t *testing.T) {
	loc := region.Locus{Regions: []region.Region{{Start: 0, Stop: 4}}}
	genes := tables.Genes{"chr_1": {"G": loc}, "chr": {"G": loc}}
	refs := refMap{"chr_1": &fasta.Store{}, "chr": &fasta.Store{}}
	a := &tables.VariantTable{Path: "a.csv", ID: batch.Identity{Sample: "A", Chromosome: "chr_1", Gene: "G"}, Edits: &patch.Map{}}
	b := &tables.VariantTable{Path: "b.csv", ID: batch.Identity{Sample: "1_A", Chromosome: "chr", Gene: "G"}, Edits: &patch.Map{}}
	if a.ID.Name() != b.ID.Name() {
		t.Fatalf("fixture names differ: %s %s", a.ID.Name(), b.ID.Name())
	}

	var buf bytes.Buffer
	lg := diag.New(&buf)
	ops := Plan([]*tables.VariantTable{a, b}, genes, refs, lg)
	if len(ops) != 1 || ops[0].ID != a.ID {
		t.Fatalf("ops: %+v", ops)
	}
	if lg.Warnings() != 1 || !strings.Contains(buf.String(), "condition="+diag.CondDuplicate) {
		t.Fatalf("want one duplicate warning:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "kept=a.csv") {
		t.Errorf("warning should name the kept table:\n%s", buf.String())
	}
}

func TestSplitOutputName(t *testing.T) {
	cases := []struct {
		name      string
		want      batch.Identity
		ambiguous bool
		ok        bool
	}{
		{"Chr_1_Plant_7_GENE", batch.Identity{Chromosome: "Chr_1", Sample: "Plant_7", Gene: "GENE"}, false, true},
		{"Chr_1_S1_GENE", batch.Identity{Chromosome: "Chr_1", Sample: "S1", Gene: "GENE"}, true, true},
		{"chr1_S1_GENE", batch.Identity{Chromosome: "chr1", Sample: "S1", Gene: "GENE"}, true, true},
		{"chr1_S1", batch.Identity{}, false, false},
		{"a_b_c_d_e_f", batch.Identity{}, false, false},
	}
	for _, c := range cases {
		id, amb, ok := SplitOutputName(c.name)
		if id != c.want || amb != c.ambiguous || ok != c.ok {
			t.Errorf("%s: got %+v %v %v", c.name, id, amb, ok)
		}
	}
}

func TestCollectOutput(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := write(t, filepath.Join(in, "Chr_1_Plant_7_G1.fa"), ">Chr_1_Plant_7_G1\nACGT\nAC\n")
	lg := diag.Discard()
	got := CollectOutput(src, out, lg)
	want := filepath.Join(out, "Chr_1_G1", "Plant_7.fa")
	if got != want {
		t.Fatalf("path: %s", got)
	}
	raw, _ := os.ReadFile(want)
	if string(raw) != ">Plant_7\nACGT\nAC\n" {
		t.Fatalf("content: %q", raw)
	}
	if lg.Warnings() != 0 {
		t.Fatalf("warnings: %d", lg.Warnings())
	}

	bad := write(t, filepath.Join(in, "nounderscore.fa"), ">x\nA\n")
	if CollectOutput(bad, out, lg) != "" || lg.Errors() != 1 {
		t.Fatalf("malformed name should be logged and skipped")
	}
	empty := write(t, filepath.Join(in, "c_s_g.fa"), "")
	if CollectOutput(empty, out, lg) != "" {
		t.Fatalf("empty file should be skipped")
	}
	odd := write(t, filepath.Join(in, "c_s2_g.fa"), ">other\nAC\n")
	if CollectOutput(odd, out, lg) == "" {
		t.Fatalf("unexpected header should still be collected")
	}
	// ambiguous c_s_g, empty c_s_g, ambiguous + unexpected header c_s2_g
	if lg.Warnings() != 4 {
		t.Fatalf("warnings: %d", lg.Warnings())
	}
}

func TestCollectOutput_UpperCaseExtension(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := write(t, filepath.Join(in, "chr1_S1_G1.FA"), ">chr1_S1_G1\nACGT\n")
	got := CollectOutput(src, out, diag.Discard())
	want := filepath.Join(out, "chr1_G1", "S1.fa")
	if got != want {
		t.Fatalf("path: %s want %s", got, want)
	}
	if got := outputStem("x/chr1_S1_G1.Fasta"); got != "chr1_S1_G1" {
		t.Fatalf("stem: %s", got)
	}
}

func TestRenameTables(t *testing.T) {
	dir := t.TempDir()
	const suffix = " (Variants, filtered)"
	write(t, filepath.Join(dir, "S1_G1"+suffix+".csv"), "x")
	write(t, filepath.Join(dir, "sub", "S2_G1"+suffix+".csv"), "x")
	write(t, filepath.Join(dir, "S3_G1"+suffix+".csv"), "x")
	write(t, filepath.Join(dir, "S3_G1.csv"), "existing")
	write(t, filepath.Join(dir, "S4_G1.csv"), "x")

	var warned []string
	n, err := RenameTables(dir, suffix, func(p string, err error) { warned = append(warned, filepath.Base(p)) })
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("renamed %d", n)
	}
	for _, p := range []string{"S1_G1.csv", "sub/S2_G1.csv"} {
		if _, err := os.Stat(filepath.Join(dir, p)); err != nil {
			t.Errorf("%s missing: %v", p, err)
		}
	}
	if len(warned) != 1 {
		t.Fatalf("warnings: %v", warned)
	}
	raw, _ := os.ReadFile(filepath.Join(dir, "S3_G1.csv"))
	if string(raw) != "existing" {
		t.Fatal("existing file overwritten")
	}
}
