package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

// captureStdout replaces os.Stdout with a pipe, calls f, then returns the
// captured output. It is not safe for parallel use.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		_, _ = io.Copy(&buf, r)
		close(done)
	}()

	f()

	w.Close()
	<-done
	os.Stdout = orig
	r.Close()
	return buf.String()
}

func TestFormatJSON(t *testing.T) {
	v := map[string]any{"_id": "abc-123", "action": "CREATE"}

	got := captureStdout(t, func() { formatJSON(v) })

	var out map[string]any
	if err := json.Unmarshal([]byte(got), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, got)
	}
	if out["_id"] != "abc-123" {
		t.Errorf("_id: got %v", out["_id"])
	}
	if !strings.Contains(got, "\n  ") {
		t.Errorf("expected indented JSON but got: %s", got)
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	writeTable(&buf, []string{"ID", "ACTION", "MODEL"}, [][]string{
		{"abc-123", "CREATE", "User"},
		{"x", "DELETE", "MarketingCategory"},
	})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	for _, h := range []string{"ID", "ACTION", "MODEL"} {
		if !strings.Contains(lines[0], h) {
			t.Errorf("header line missing %q: %s", h, lines[0])
		}
	}
	if strings.Trim(lines[1], "- ") != "" {
		t.Errorf("separator contains unexpected chars: %q", lines[1])
	}
	// Columns align: the MODEL column starts at the same offset on every row.
	if strings.Index(lines[2], "User") != strings.Index(lines[3], "MarketingCategory") {
		t.Errorf("columns misaligned:\n%s\n%s", lines[2], lines[3])
	}
}

func TestWriteTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	writeTable(&buf, []string{"ID", "ACTION"}, nil)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and separator only, got %d lines:\n%s", len(lines), buf.String())
	}
}

func TestOutput(t *testing.T) {
	resetFlags(t)
	v := map[string]string{"key": "val"}

	flagFmt = "quiet"
	if got := strings.TrimSpace(captureStdout(t, func() { output(v, "my-id") })); got != "my-id" {
		t.Errorf("quiet: got %q, want %q", got, "my-id")
	}

	// Commands render tables themselves; output falls back to JSON.
	for _, f := range []string{"json", "table"} {
		flagFmt = f
		got := captureStdout(t, func() { output(v, "my-id") })
		var out map[string]string
		if err := json.Unmarshal([]byte(got), &out); err != nil {
			t.Fatalf("%s: expected JSON output: %v\noutput: %s", f, err, got)
		}
	}
}

func TestInfoString(t *testing.T) {
	got := infoString(map[string]any{"name": "Bob", "identifier": "G0002"})
	if got != "identifier=G0002 name=Bob" {
		t.Errorf("got %q", got)
	}
	if infoString(nil) != "" {
		t.Error("nil info should render empty")
	}
}

func TestVersionString(t *testing.T) {
	origCommit, origDate := commit, buildDate
	t.Cleanup(func() { commit, buildDate = origCommit, origDate })

	commit, buildDate = "", ""
	if s := versionString(); !strings.HasSuffix(s, "-dev") {
		t.Errorf("dev build: got %q", s)
	}

	commit, buildDate = "abc123", "2026-01-02"
	if s := versionString(); !strings.Contains(s, "commit: abc123") {
		t.Errorf("release build: got %q", s)
	}
}
