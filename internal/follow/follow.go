package follow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// Strategy selects how file growth is observed.
type Strategy int

const (
	// StrategyNotify uses filesystem change notifications.
	StrategyNotify Strategy = iota
	// StrategyPoll stats the file every Sleep interval.
	StrategyPoll
)

func (s Strategy) String() string {
	switch s {
	case StrategyNotify:
		return "notify"
	case StrategyPoll:
		return "poll"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// DefaultSleep is used when Config.Sleep is zero.
const DefaultSleep = time.Second

// Config describes what to follow and how.
type Config struct {
	Path string
	// Lines is the number of trailing lines printed before following.
	Lines int
	// FromStart prints the whole file before following; Lines is ignored.
	FromStart bool
	// Sleep is the poll interval, and the safety-net wakeup for StrategyNotify.
	Sleep    time.Duration
	Strategy Strategy
	// Notices receives out-of-band messages such as truncation notices.
	Notices io.Writer
}

// Follower streams a file's content to a writer until cancelled.
type Follower interface {
	Follow(ctx context.Context, out io.Writer) error
}

type fileFollower struct {
	cfg Config
}

// New validates cfg and returns a Follower for it.
func New(cfg Config) (Follower, error) {
	if cfg.Path == "" {
		return nil, errors.New("follow: empty path")
	}
	if cfg.Lines < 0 {
		return nil, fmt.Errorf("follow: negative line count %d", cfg.Lines)
	}
	if cfg.Sleep < 0 {
		return nil, fmt.Errorf("follow: negative sleep %v", cfg.Sleep)
	}
	if cfg.Sleep == 0 {
		cfg.Sleep = DefaultSleep
	}
	if cfg.Strategy != StrategyNotify && cfg.Strategy != StrategyPoll {
		return nil, fmt.Errorf("follow: unknown strategy %v", cfg.Strategy)
	}
	if cfg.Notices == nil {
		cfg.Notices = io.Discard
	}
	return &fileFollower{cfg: cfg}, nil
}

// Follow writes the initial content selected by the config, then every byte
// appended afterwards. It returns ctx.Err() once ctx is done.
func (f *fileFollower) Follow(ctx context.Context, out io.Writer) (err error) {
	file, err := os.Open(f.cfg.Path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.cfg.Path, err)
	}
	defer func() { err = composeErrors(err, file.Close()) }()

	var pos int64
	if !f.cfg.FromStart {
		info, err := file.Stat()
		if err != nil {
			return fmt.Errorf("stat %s: %w", f.cfg.Path, err)
		}
		pos, err = tailOffset(file, info.Size(), f.cfg.Lines)
		if err != nil {
			return fmt.Errorf("finding last %d lines of %s: %w", f.cfg.Lines, f.cfg.Path, err)
		}
	}
	if _, err := file.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("seeking %s: %w", f.cfg.Path, err)
	}

	w, err := f.newWatcher()
	if err != nil {
		return err
	}
	defer func() { err = composeErrors(err, w.Close()) }()

	if pos, err = f.drain(file, pos, out); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case werr, ok := <-w.Events():
			if !ok {
				return nil
			}
			if werr != nil {
				return fmt.Errorf("watching %s: %w", f.cfg.Path, werr)
			}
			if pos, err = f.drain(file, pos, out); err != nil {
				return err
			}
		}
	}
}

func (f *fileFollower) newWatcher() (watcher, error) {
	switch f.cfg.Strategy {
	case StrategyPoll:
		return newPollWatcher(f.cfg.Path, f.cfg.Sleep)
	default:
		return newNotifyWatcher(f.cfg.Path, f.cfg.Sleep)
	}
}

// drain copies everything between pos and the current end of file. If the
// file shrank below pos it was truncated, and reading restarts at 0.
func (f *fileFollower) drain(file *os.File, pos int64, out io.Writer) (int64, error) {
	info, err := file.Stat()
	if err != nil {
		return pos, fmt.Errorf("stat %s: %w", f.cfg.Path, err)
	}
	if info.Size() < pos {
		fmt.Fprintf(f.cfg.Notices, "tailstamp: %s: file truncated\n", f.cfg.Path)
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return pos, fmt.Errorf("seeking %s: %w", f.cfg.Path, err)
		}
		pos = 0
	}

	n, err := io.Copy(out, file)
	pos += n
	if err != nil {
		return pos, fmt.Errorf("reading %s: %w", f.cfg.Path, err)
	}
	return pos, nil
}

// tailOffset returns the offset at which the last n lines of r begin. A
// trailing newline does not start a new line.
func tailOffset(r io.ReaderAt, size int64, n int) (int64, error) {
	if n <= 0 || size == 0 {
		return size, nil
	}

	end := size
	last := make([]byte, 1)
	if _, err := r.ReadAt(last, size-1); err != nil && err != io.EOF {
		return 0, err
	}
	if last[0] == '\n' {
		end--
	}

	const chunk = 4096
	buf := make([]byte, chunk)
	found := 0
	for pos := end; pos > 0; {
		step := int64(chunk)
		if pos < step {
			step = pos
		}
		pos -= step
		if _, err := r.ReadAt(buf[:step], pos); err != nil && err != io.EOF {
			return 0, err
		}
		for i := step - 1; i >= 0; i-- {
			if buf[i] != '\n' {
				continue
			}
			found++
			if found == n {
				return pos + i + 1, nil
			}
		}
	}
	return 0, nil
}
