//go:build windows

package core

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// tryLockRange takes a non-blocking exclusive lock over [0, length) of f
// using LockFileEx.
func tryLockRange(f *os.File, length int64) (unlock func() error, err error) {
	h := windows.Handle(f.Fd())
	low, high := uint32(uint64(length)), uint32(uint64(length)>>32)

	ol := new(windows.Overlapped)
	flags := uint32(windows.LOCKFILE_EXCLUSIVE_LOCK | windows.LOCKFILE_FAIL_IMMEDIATELY)
	if err := windows.LockFileEx(h, flags, 0, low, high, ol); err != nil {
		if errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			return nil, ErrContention
		}
		return nil, fmt.Errorf("locking byte range [0, %d): %w", length, err)
	}

	return func() error {
		if err := windows.UnlockFileEx(h, 0, low, high, new(windows.Overlapped)); err != nil {
			return fmt.Errorf("unlocking byte range [0, %d): %w", length, err)
		}
		return nil
	}, nil
}
