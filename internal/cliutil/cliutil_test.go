package cliutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(">a\nA\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"b.fa", "a.FASTA", "sub/c.fa", "sub/x.csv", "out/d.fa", "notes.txt"} {
		touch(t, filepath.Join(dir, p))
	}
	skip := func(p string) bool { return SamePath(p, filepath.Join(dir, "out")) }
	got, err := FindFiles(dir, skip, ".fa", ".fasta")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, p := range got {
		rel, _ := filepath.Rel(dir, p)
		names = append(names, filepath.ToSlash(rel))
	}
	if strings.Join(names, ",") != "a.FASTA,b.fa,sub/c.fa" {
		t.Fatalf("found: %v", names)
	}
}

func TestFindFiles_MissingRoot(t *testing.T) {
	if _, err := FindFiles(filepath.Join(t.TempDir(), "nope"), nil, ".fa"); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestHasSuffixFold(t *testing.T) {
	if !HasSuffixFold("S1_G.CSV.GZ", ".csv.gz") || HasSuffixFold("x.fa.fai", ".fa") {
		t.Fatal("suffix matching")
	}
}
