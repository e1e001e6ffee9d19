package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// CoordinationMode selects how an Appender coordinates with other writers
// of the same file.
type CoordinationMode int

const (
	// ModeNone writes without locking. Only safe with a single writer.
	ModeNone CoordinationMode = iota
	// ModeLock takes a non-blocking exclusive byte-range lock per write.
	ModeLock
	// ModeLockRecheck additionally verifies the file size did not change
	// between measuring it and acquiring the lock.
	ModeLockRecheck
)

var modeNames = map[CoordinationMode]string{
	ModeNone:        "none",
	ModeLock:        "lock",
	ModeLockRecheck: "recheck",
}

func (m CoordinationMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("CoordinationMode(%d)", int(m))
}

// Locked reports whether the mode takes a byte-range lock.
func (m CoordinationMode) Locked() bool {
	return m == ModeLock || m == ModeLockRecheck
}

// ParseCoordinationMode converts a mode name (case-insensitive) to a
// CoordinationMode.
func ParseCoordinationMode(s string) (CoordinationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "unlocked":
		return ModeNone, nil
	case "lock", "exclusive":
		return ModeLock, nil
	case "recheck", "lock-recheck":
		return ModeLockRecheck, nil
	}
	return ModeNone, fmt.Errorf("unknown coordination mode %q (want none, lock or recheck)", s)
}

// Outcome is the result of one write attempt that did not fail fatally.
type Outcome int

const (
	OutcomeWritten Outcome = iota
	OutcomeContention
	OutcomeRace
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeContention:
		return "contention"
	case OutcomeRace:
		return "race"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Skipped reports whether the attempt forfeited its tick without writing.
func (o Outcome) Skipped() bool {
	return o != OutcomeWritten
}

// Attempt describes a single write attempt.
type Attempt struct {
	Mode    CoordinationMode
	Outcome Outcome
	// Line is the timestamp written, without its newline. Empty when skipped.
	Line string
	// Size is the file size measured before locking. Zero in ModeNone.
	Size int64
	// RecheckSize is the size measured while holding the lock.
	RecheckSize int64
	// LockLen is the length of the locked range [0, LockLen).
	LockLen int64
	// Reason explains a skipped attempt.
	Reason  error
	Started time.Time
	Elapsed time.Duration
}

// Appender appends timestamp lines to an append-mode file handle.
type Appender struct {
	file *os.File
	mode CoordinationMode
	now  func() time.Time
	echo io.Writer
	lock func(f *os.File, length int64) (func() error, error)
}

// AppenderOption configures an Appender.
type AppenderOption func(*Appender)

// WithClock overrides the time source used for timestamp lines.
func WithClock(now func() time.Time) AppenderOption {
	return func(a *Appender) { a.now = now }
}

// WithEcho sets where written lines are echoed. A nil writer disables echo.
func WithEcho(w io.Writer) AppenderOption {
	return func(a *Appender) { a.echo = w }
}

// NewAppender creates an Appender writing to f, which must have been opened
// with O_APPEND and write access (see OpenTarget).
func NewAppender(f *os.File, mode CoordinationMode, opts ...AppenderOption) *Appender {
	a := &Appender{
		file: f,
		mode: mode,
		now:  time.Now,
		echo: os.Stdout,
		lock: tryLockRange,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Mode returns the appender's coordination mode.
func (a *Appender) Mode() CoordinationMode {
	return a.mode
}

// Append performs one write attempt. Contention and size races are reported
// through the returned Attempt's Outcome with a nil error. A non-nil error
// means the handle can no longer be trusted and the caller should stop.
func (a *Appender) Append() (*Attempt, error) {
	start := time.Now()
	att := &Attempt{Mode: a.mode, Started: a.now()}
	defer func() { att.Elapsed = time.Since(start) }()

	if !a.mode.Locked() {
		return att, a.write(att)
	}
	return att, a.appendLocked(att)
}

func (a *Appender) appendLocked(att *Attempt) (err error) {
	size, err := a.measure(true)
	if err != nil {
		return err
	}
	att.Size = size
	att.LockLen = size + int64(LineSize)

	unlock, err := a.lock(a.file, att.LockLen)
	if err != nil {
		// Any failure to lock forfeits the tick; only I/O on the locked
		// handle is fatal.
		att.Outcome = OutcomeContention
		if errors.Is(err, ErrContention) {
			att.Reason = fmt.Errorf("lock on [0, %d): %w", att.LockLen, err)
		} else {
			att.Reason = fmt.Errorf("%w: %w", ErrContention, err)
		}
		return nil
	}
	defer func() {
		if uerr := unlock(); uerr != nil {
			err = errors.Join(err, uerr)
		}
	}()

	if a.mode == ModeLockRecheck {
		current, err := a.measure(false)
		if err != nil {
			return err
		}
		att.RecheckSize = current
		if current != size {
			att.Outcome = OutcomeRace
			att.Reason = fmt.Errorf("size %d -> %d: %w", size, current, ErrSizeChanged)
			return nil
		}
	}

	return a.write(att)
}

// measure returns the current file size. With sync set, the handle is
// synced first so the size reflects every prior write through it.
func (a *Appender) measure(sync bool) (int64, error) {
	if sync {
		if err := a.file.Sync(); err != nil {
			return 0, fmt.Errorf("syncing target file before measuring: %w", err)
		}
	}
	info, err := a.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("measuring target file: %w", err)
	}
	return info.Size(), nil
}

// write appends one line and returns only once it has been flushed and
// data-synced.
func (a *Appender) write(att *Attempt) error {
	line := FormatTimestamp(a.now())

	w := bufio.NewWriterSize(a.file, LineSize)
	if _, err := w.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("writing timestamp: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing timestamp: %w", err)
	}
	if err := dataSync(a.file); err != nil {
		return fmt.Errorf("syncing target file: %w", err)
	}

	att.Outcome = OutcomeWritten
	att.Line = line
	if a.echo != nil {
		fmt.Fprintln(a.echo, line)
	}
	return nil
}
