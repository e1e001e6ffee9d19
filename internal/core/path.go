package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a user-supplied path to a clean absolute path,
// expanding a leading "~" to the current user's home directory.
func ExpandPath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("expanding path: empty path")
	}

	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~`+string(filepath.Separator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		p = filepath.Join(home, p[1:])
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path for %s: %w", p, err)
	}
	return filepath.Clean(abs), nil
}
