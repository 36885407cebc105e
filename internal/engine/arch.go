// Completion: 100% - Utility module complete
package engine

import (
	"fmt"
	"runtime"
	"strings"
)

// Architecture type
type Arch int

const (
	ArchUnknown Arch = iota
	ArchX86_64
)

func (a Arch) String() string {
	switch a {
	case ArchX86_64:
		return "x86_64"
	default:
		return "unknown"
	}
}

// ParseArch parses an architecture string (like GOARCH values)
func ParseArch(s string) (Arch, error) {
	switch strings.ToLower(s) {
	case "x86_64", "amd64", "x86-64":
		return ArchX86_64, nil
	default:
		return 0, fmt.Errorf("unsupported architecture: %s (supported: amd64)", s)
	}
}

// OS type
type OS int

const (
	OSUnknown OS = iota
	OSLinux
	OSWindows
)

func (o OS) String() string {
	switch o {
	case OSLinux:
		return "linux"
	case OSWindows:
		return "windows"
	default:
		return "unknown"
	}
}

// ParseOS parses an operating system string (like GOOS values)
func ParseOS(s string) (OS, error) {
	switch strings.ToLower(s) {
	case "linux", "elf":
		return OSLinux, nil
	case "windows", "win", "pe":
		return OSWindows, nil
	default:
		return 0, fmt.Errorf("unsupported OS: %s (supported: linux, windows)", s)
	}
}

// Platform is an Arch+OS pair selecting the executable format to write.
type Platform struct {
	Arch Arch
	OS   OS
}

func (p Platform) String() string {
	return p.Arch.String() + "-" + p.OS.String()
}

// ParsePlatform parses strings like "linux", "windows", "x86_64-linux".
func ParsePlatform(s string) (Platform, error) {
	parts := strings.SplitN(strings.ToLower(s), "-", 2)
	if len(parts) == 1 {
		os, err := ParseOS(parts[0])
		if err != nil {
			return Platform{}, err
		}
		return Platform{Arch: ArchX86_64, OS: os}, nil
	}
	arch, err := ParseArch(parts[0])
	if err != nil {
		return Platform{}, err
	}
	os, err := ParseOS(parts[1])
	if err != nil {
		return Platform{}, err
	}
	return Platform{Arch: arch, OS: os}, nil
}

// HostPlatform returns the platform of the machine running the compiler.
// Absence of a platform flag targets the host's native executable format.
func HostPlatform() Platform {
	p := Platform{Arch: ArchX86_64, OS: OSLinux}
	if runtime.GOOS == "windows" {
		p.OS = OSWindows
	}
	return p
}

// ExeSuffix returns the conventional executable suffix for the platform.
func (p Platform) ExeSuffix() string {
	if p.OS == OSWindows {
		return ".exe"
	}
	return ""
}
