package fasta

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrBuildIndex_TwoRecords(t *testing.T) {
	fn := writeFile(t, "ref.fa", ">chr2 desc\nACGTA\nCGTAC\nGT\n>chr1\nTTTT\nGG\n")
	ix, created, err := LoadOrBuildIndex(fn)
	if err != nil || !created {
		t.Fatalf("LoadOrBuildIndex: created=%v err=%v", created, err)
	}
	if len(ix) != 2 {
		t.Fatalf("want 2 entries, got %d", len(ix))
	}
	want := Entry{Name: "chr2", Length: 12, Offset: 11, LineBases: 5, LineWidth: 6}
	if ix[0] != want {
		t.Fatalf("first record: got %+v want %+v", ix[0], want)
	}
	if ix[1].Name != "chr1" || ix[1].Length != 6 || ix[1].LineBases != 4 {
		t.Fatalf("second record: got %+v", ix[1])
	}
	if e, ok := ix.Lookup(""); !ok || e.Name != "chr2" {
		t.Fatalf("empty name should select the first record in file order, got %+v", e)
	}
}

func TestLoadOrBuildIndex_WritesSideFileOnce(t *testing.T) {
	fn := writeFile(t, "ref.fa", ">s\nACGT\n")
	_, created, err := LoadOrBuildIndex(fn)
	if err != nil || !created {
		t.Fatalf("first load: created=%v err=%v", created, err)
	}
	if _, err := os.Stat(IndexPath(fn)); err != nil {
		t.Fatalf("side file missing: %v", err)
	}
	ix, created, err := LoadOrBuildIndex(fn)
	if err != nil || created {
		t.Fatalf("second load: created=%v err=%v", created, err)
	}
	if e, ok := ix.Lookup("s"); !ok || e.Length != 4 || e.Offset != 3 {
		t.Fatalf("reread entry: %+v", e)
	}
}

func TestLoadOrBuildIndex_ReadsExistingSideFile(t *testing.T) {
	fn := writeFile(t, "ref.fa", ">a\nACGTA\nCGTAC\n")
	if err := os.WriteFile(IndexPath(fn), []byte("a\t10\t3\t5\t6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ix, created, err := LoadOrBuildIndex(fn)
	if err != nil || created {
		t.Fatalf("created=%v err=%v", created, err)
	}
	want := Entry{Name: "a", Length: 10, Offset: 3, LineBases: 5, LineWidth: 6}
	if len(ix) != 1 || ix[0] != want {
		t.Fatalf("got %+v want %+v", ix, want)
	}
}

func TestLoadOrBuildIndex_Rejects(t *testing.T) {
	cases := map[string]string{
		"uneven": ">x\nACG\nACGT\n",
		"empty":  "",
	}
	for name, in := range cases {
		fn := writeFile(t, "bad.fa", in)
		if _, _, err := LoadOrBuildIndex(fn); !errors.Is(err, ErrFormat) {
			t.Errorf("%s: want ErrFormat, got %v", name, err)
		}
	}
}

func TestLoadOrBuildIndex_Missing(t *testing.T) {
	_, _, err := LoadOrBuildIndex(filepath.Join(t.TempDir(), "nope.fa"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(fn, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", fn, err)
	}
	return fn
}
