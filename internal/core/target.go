package core

import (
	"fmt"
	"os"
)

// OpenTarget opens path for appending, creating it if needed. The returned
// handle is meant to live for the rest of the process.
func OpenTarget(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening target file: %w", err)
	}
	return f, nil
}

// ValidateFollowTarget returns ErrNotAFile unless path names an existing
// regular file. Stat failures count as "not a file".
func ValidateFollowTarget(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrNotAFile)
	}
	return nil
}
