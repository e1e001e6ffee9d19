//go:build unix && !linux

package core

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// tryLockRange takes a non-blocking exclusive POSIX record lock over
// [0, length) of f. POSIX record locks are owned by the process, so two
// handles in the same process never contend with each other here.
func tryLockRange(f *os.File, length int64) (unlock func() error, err error) {
	lk := unix.Flock_t{
		Type:   unix.F_WRLCK,
		Whence: io.SeekStart,
		Start:  0,
		Len:    length,
	}
	if err := unix.FcntlFlock(f.Fd(), unix.F_SETLK, &lk); err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EACCES) {
			return nil, ErrContention
		}
		return nil, fmt.Errorf("locking byte range [0, %d): %w", length, err)
	}

	return func() error {
		ul := unix.Flock_t{
			Type:   unix.F_UNLCK,
			Whence: io.SeekStart,
			Start:  0,
			Len:    length,
		}
		if err := unix.FcntlFlock(f.Fd(), unix.F_SETLK, &ul); err != nil {
			return fmt.Errorf("unlocking byte range [0, %d): %w", length, err)
		}
		return nil
	}, nil
}
