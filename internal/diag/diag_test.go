package diag

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"ava/internal/batch"
	"ava/internal/patch"
)

// syncBuffer lets the race detector see the writes logrus serializes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestReporterLinesAreSelfDescribing(t *testing.T) {
	var buf syncBuffer
	lg := New(&buf)
	id := batch.Identity{Sample: "S1", Chromosome: "chr1", Gene: "G1"}
	rep := lg.Reporter(id)
	rep.Mismatch(patch.Substitution{Pos: 2, Ref: 'G', Alt: 'T'}, 'C')
	rep.Recovered(patch.Substitution{Pos: 60, Ref: 'A', Alt: 'T'}, patch.StrategyPairAfter, errors.New("edge"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %q", buf.String())
	}
	for _, want := range []string{"sample=S1", "chromosome=chr1", "gene=G1", "condition=reference-mismatch", "position=3", "expected=G", "found=C", "level=warning"} {
		if !strings.Contains(lines[0], want) {
			t.Fatalf("line %q lacks %q", lines[0], want)
		}
	}
	if !strings.Contains(lines[1], "strategy=pair-after") || !strings.Contains(lines[1], "level=info") {
		t.Fatalf("recovered line: %q", lines[1])
	}
	if lg.Warnings() != 1 || lg.Errors() != 0 {
		t.Fatalf("counts: warn=%d err=%d", lg.Warnings(), lg.Errors())
	}
}

func TestReporterFatal(t *testing.T) {
	var buf syncBuffer
	lg := New(&buf)
	rep := lg.Reporter(batch.Identity{Sample: "S1", Chromosome: "chr1", Gene: "G1"})
	rep.Fatal(patch.Substitution{Pos: 0, Ref: 'A', Alt: 'T'}, errors.New("no neighbour"))

	line := strings.TrimSpace(buf.String())
	for _, want := range []string{"condition=fatal-patch-failure", "position=1", "expected=A", "allele=T", "level=error", "no neighbour"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q lacks %q", line, want)
		}
	}
	if lg.Errors() != 1 {
		t.Fatalf("errors: %d", lg.Errors())
	}
}

func TestConcurrentWritesStayWhole(t *testing.T) {
	var buf syncBuffer
	lg := New(&buf)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			id := batch.Identity{Sample: "S", Chromosome: "c", Gene: string(rune('A' + g))}
			for i := 0; i < 50; i++ {
				lg.Op(id).WithField("condition", CondOperationFailed).Error("boom")
			}
		}(g)
	}
	wg.Wait()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 400 {
		t.Fatalf("want 400 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if !strings.HasPrefix(l, "time=") || !strings.Contains(l, "msg=boom") {
			t.Fatalf("torn line: %q", l)
		}
	}
	if lg.Errors() != 400 {
		t.Fatalf("errors counted: %d", lg.Errors())
	}
}
