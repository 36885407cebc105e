//go:build windows

// Completion: 100% - Platform support complete
package main

import "os"

func syncFile(f *os.File) error {
	return f.Sync()
}

// Windows derives executability from the file extension.
func markExecutable(path string) error {
	return nil
}
