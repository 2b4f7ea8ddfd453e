package debug

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func withBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	was := Enabled()
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetEnabled(was)
	})
	return &buf
}

func TestLogDisabled(t *testing.T) {
	buf := withBuffer(t)
	SetEnabled(false)
	Log("hidden %d", 1)
	LogTiming("op", time.Millisecond)
	LogEnterExit("fn")()
	Dump("x", 1)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestLogEnabled(t *testing.T) {
	buf := withBuffer(t)
	SetEnabled(true)
	Log("loaded %s", "a.json")
	LogIf(false, "skipped")
	LogIf(true, "kept")
	out := buf.String()
	if !strings.Contains(out, "loaded a.json") {
		t.Errorf("expected message, got %q", out)
	}
	if strings.Contains(out, "skipped") || !strings.Contains(out, "kept") {
		t.Errorf("LogIf misbehaved: %q", out)
	}
}

func TestLogEnterExit(t *testing.T) {
	buf := withBuffer(t)
	SetEnabled(true)
	LogEnterExit("work")()
	out := buf.String()
	if !strings.Contains(out, "-> work") || !strings.Contains(out, "<- work") {
		t.Errorf("expected enter and exit lines, got %q", out)
	}
}

func TestWarnAlwaysWrites(t *testing.T) {
	buf := withBuffer(t)
	SetEnabled(false)
	Warn("file changed", "path", "a.json")
	if !strings.Contains(buf.String(), "file changed") {
		t.Errorf("expected warning, got %q", buf.String())
	}
}
