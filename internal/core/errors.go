package core

import "errors"

var (
	// ErrContention is returned when another handle holds an overlapping
	// lock. The tick is skipped.
	ErrContention = errors.New("lock held by another writer")

	// ErrSizeChanged is returned when the file grew between the size
	// measurement and the lock acquisition. The tick is skipped.
	ErrSizeChanged = errors.New("file size changed before lock was acquired")

	// ErrNotAFile is returned when a follow target is not a regular file.
	ErrNotAFile = errors.New("not a file")
)

// IsSkip reports whether err only forfeits the current tick.
func IsSkip(err error) bool {
	return errors.Is(err, ErrContention) || errors.Is(err, ErrSizeChanged)
}
