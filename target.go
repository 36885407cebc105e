// Completion: 100% - Platform support complete
package main

import (
	"github.com/COMMENTERTHE9/Blaze-sub000/internal/engine"
)

// Platform plumbing lives in internal/engine; the root package only
// re-exports what code generation and the writers need.

type (
	Arch     = engine.Arch
	OS       = engine.OS
	Platform = engine.Platform
)

const (
	ArchX86_64 = engine.ArchX86_64
	OSLinux    = engine.OSLinux
	OSWindows  = engine.OSWindows
)

var (
	ParsePlatform = engine.ParsePlatform
	HostPlatform  = engine.HostPlatform
	hashName      = engine.HashName
)
