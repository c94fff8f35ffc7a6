package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{w: &buf}

	err := Track(r, "Searching", func() error { return nil })
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Searching...\n") || !strings.Contains(out, "Searching done in ") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestTrackReturnsError(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{w: &buf}
	want := errors.New("HTTP 500")

	if err := Track(r, "Generating POC", func() error { return want }); err != want {
		t.Fatalf("Track returned %v, want %v", err, want)
	}
	if !strings.Contains(buf.String(), "Generating POC failed after ") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestTerminalReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &TerminalReporter{w: &buf}

	if err := Track(r, "Checking status", func() error { return nil }); err != nil {
		t.Fatalf("Track: %v", err)
	}
	// Finish without Start is a no-op.
	r.Finish(nil)
}
