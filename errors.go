// Completion: 100% - Error handling complete, clear and helpful messages
package main

import (
	"fmt"
	"strings"
)

// ErrorCategory classifies a fatal compilation failure. The taxonomy is
// small on purpose: everything here kills the current compilation.
type ErrorCategory int

const (
	CategoryResource   ErrorCategory = iota // table full, buffer overflow, nesting too deep
	CategoryUnresolved                      // undefined function, break/continue outside a loop
	CategoryIO                              // cannot open/write output
	CategorySyntax                          // front end: tokenize/parse failure
	CategoryInternal                        // defects: double-patched label, stray fixup
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryResource:
		return "resource"
	case CategoryUnresolved:
		return "unresolved"
	case CategoryIO:
		return "io"
	case CategorySyntax:
		return "syntax"
	case CategoryInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// CompilerError is a single fatal diagnostic.
type CompilerError struct {
	Category ErrorCategory
	Message  string
	Line     int // 1-based source line, 0 when not tied to a location
}

func (e *CompilerError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d: %s error: %s", e.Line, e.Category, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Category, e.Message)
}

// Format returns the diagnostic for terminal display.
func (e *CompilerError) Format(useColor bool) string {
	var sb strings.Builder
	if useColor {
		sb.WriteString("\033[1;31m") // Bold red
	}
	sb.WriteString("error")
	if useColor {
		sb.WriteString("\033[0m")
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Line > 0 {
		sb.WriteString("\n")
		if useColor {
			sb.WriteString("\033[1;34m") // Bold blue
		}
		sb.WriteString("  --> ")
		if useColor {
			sb.WriteString("\033[0m")
		}
		sb.WriteString(fmt.Sprintf("line %d", e.Line))
	}
	sb.WriteString("\n")
	return sb.String()
}

// errorf builds a CompilerError without a source location.
func errorf(cat ErrorCategory, format string, args ...interface{}) *CompilerError {
	return &CompilerError{Category: cat, Message: fmt.Sprintf(format, args...)}
}
