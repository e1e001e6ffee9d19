package observability

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/valter-silva-au/tailstamp/internal/core"
)

// ParseLevel converts a config level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// NewLogger returns a text logger writing to w at the given level. Unknown
// levels fall back to info.
func NewLogger(w io.Writer, level string) *slog.Logger {
	lvl, _ := ParseLevel(level)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// LogAttempt records a write attempt: skipped ticks at warn level, writes at
// debug level.
func LogAttempt(logger *slog.Logger, target string, att *core.Attempt) {
	attrs := []any{
		"target", target,
		"mode", att.Mode.String(),
		"outcome", att.Outcome.String(),
		"elapsed", att.Elapsed,
	}
	if att.Mode.Locked() {
		attrs = append(attrs, "size", att.Size, "lock_len", att.LockLen)
	}
	if !att.Outcome.Skipped() {
		logger.Debug("write attempt", append(attrs, "line", att.Line)...)
		return
	}
	if att.Outcome == core.OutcomeRace {
		attrs = append(attrs, "recheck_size", att.RecheckSize)
	}
	if att.Reason != nil {
		attrs = append(attrs, "reason", att.Reason.Error())
	}
	logger.Warn("write attempt skipped", attrs...)
}
