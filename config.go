// Completion: 100% - Utility module complete
package main

import (
	"os"

	"github.com/xyproto/env/v2"
	"golang.org/x/term"
)

// config.go - Environment-driven configuration
//
// All knobs have sensible defaults and exist mainly for debugging and for
// stress-testing the segmented output buffer with tiny segment sizes.

// VerboseMode enables hex tracing of emitted instructions to stderr.
var VerboseMode = env.Bool("BLAZE_VERBOSE")

const (
	defaultSegmentSize = 1024 * 1024 // 1 MB per code segment
	defaultMaxSegments = 64          // 64 MB of code before giving up
)

// BufferConfig controls the scalable code generation context.
type BufferConfig struct {
	SegmentSize int  // Capacity of each code segment in bytes
	MaxSegments int  // Upper bound on chained segments
	Streaming   bool // Stream finished segments to disk instead of keeping them resident
}

// BufferConfigFromEnv reads the buffer configuration from the environment.
func BufferConfigFromEnv() BufferConfig {
	cfg := BufferConfig{
		SegmentSize: env.Int("BLAZE_SEGMENT_SIZE", defaultSegmentSize),
		MaxSegments: env.Int("BLAZE_MAX_SEGMENTS", defaultMaxSegments),
		Streaming:   env.Bool("BLAZE_STREAM"),
	}
	if cfg.SegmentSize < 64 {
		cfg.SegmentSize = 64
	}
	if cfg.MaxSegments < 1 {
		cfg.MaxSegments = 1
	}
	return cfg
}

// UseColor reports whether diagnostics should be colored: only when
// stderr is a terminal and NO_COLOR is unset.
func UseColor() bool {
	if env.Has("NO_COLOR") {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}
