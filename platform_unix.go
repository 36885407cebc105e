//go:build !windows

// Completion: 100% - Platform support complete
package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// syncFile flushes written segments to stable storage before the file is
// handed to the loader.
func syncFile(f *os.File) error {
	return unix.Fsync(int(f.Fd()))
}

// markExecutable sets the executable bits on a freshly written image.
func markExecutable(path string) error {
	return unix.Chmod(path, 0o755)
}
