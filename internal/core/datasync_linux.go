//go:build linux

package core

import (
	"os"

	"golang.org/x/sys/unix"
)

// dataSync flushes file data, but not unrelated metadata, to stable storage.
func dataSync(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}
