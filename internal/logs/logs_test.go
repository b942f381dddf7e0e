package logs

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLogV(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetVerbose(false)

	LogV("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("expected no output while quiet, got %q", buf.String())
	}

	SetVerbose(true)
	LogV("shown %d", 2)
	if !strings.Contains(buf.String(), "shown 2") {
		t.Errorf("expected log line, got %q", buf.String())
	}
}
