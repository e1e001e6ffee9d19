package core

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// After N successful attempts with no interference the file holds exactly
// N well-formed lines in non-decreasing time order.
func TestProperty_AppendOnly(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 40).Draw(rt, "n")
		mode := rapid.SampledFrom([]CoordinationMode{ModeNone, ModeLock, ModeLockRecheck}).Draw(rt, "mode")
		startMs := rapid.IntRange(0, 23*60*60*1000).Draw(rt, "start_ms")

		dir, err := os.MkdirTemp("", "appender-property-*")
		if err != nil {
			t.Fatalf("failed to create temp dir: %v", err)
		}
		defer os.RemoveAll(dir)

		path := filepath.Join(dir, "stamps.txt")
		f, err := OpenTarget(path)
		if err != nil {
			t.Fatalf("OpenTarget: %v", err)
		}
		defer f.Close()

		now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.Local).Add(time.Duration(startMs) * time.Millisecond)
		app := NewAppender(f, mode, WithEcho(io.Discard), WithClock(func() time.Time { return now }))

		for i := 0; i < n; i++ {
			att, err := app.Append()
			if err != nil {
				rt.Fatalf("Append %d: %v", i, err)
			}
			if att.Outcome != OutcomeWritten {
				rt.Fatalf("Append %d: outcome %v (%v)", i, att.Outcome, att.Reason)
			}
			now = now.Add(time.Duration(rapid.IntRange(0, 1000).Draw(rt, "step_ms")) * time.Millisecond)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading file: %v", err)
		}
		if len(data) != n*LineSize {
			rt.Fatalf("file size = %d, want %d", len(data), n*LineSize)
		}

		var prev time.Duration = -1
		for i := 0; i < n; i++ {
			rec := string(data[i*LineSize : (i+1)*LineSize])
			if rec[LineSize-1] != '\n' {
				rt.Fatalf("line %d not newline-terminated: %q", i, rec)
			}
			tod, err := ParseTimestamp(rec[:LineSize-1])
			if err != nil {
				rt.Fatalf("line %d: %v", i, err)
			}
			if tod < prev {
				rt.Fatalf("line %d (%v) earlier than previous (%v)", i, tod, prev)
			}
			prev = tod
		}
	})
}
