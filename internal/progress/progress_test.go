package progress

import (
	"bytes"
	"testing"
)

func TestDisabledBarIsNoop(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, "operations: ", 3, false)
	b.Incr()
	b.Wait()
	var nilBar *Bar
	nilBar.Incr()
	nilBar.Wait()
	if buf.Len() != 0 {
		t.Fatalf("disabled bar wrote %q", buf.String())
	}
}

func TestBarCompletes(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, "operations: ", 2, true)
	b.Incr()
	b.Incr()
	b.Wait()
	if b.bar == nil || !b.bar.Completed() {
		t.Fatalf("bar not completed")
	}
}

func TestShortBarDoesNotBlock(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, "operations: ", 5, true)
	b.Incr()
	b.Wait()
}
