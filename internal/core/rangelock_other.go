//go:build !unix && !windows

package core

import (
	"errors"
	"os"
)

func tryLockRange(_ *os.File, _ int64) (func() error, error) {
	return nil, errors.New("byte-range locking is not supported on this platform")
}
