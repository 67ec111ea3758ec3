package cmdutil

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleQuiet(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf, true).Warnf("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("quiet console wrote %q", buf.String())
	}
	NewConsole(&buf, false).Warnf("shown %d", 2)
	if !strings.Contains(buf.String(), "shown 2") || !strings.Contains(buf.String(), "level=warning") {
		t.Fatalf("console: %q", buf.String())
	}
}
