// Completion: 100% - Compilation pipeline complete
package main

import (
	"fmt"
	"os"
)

// cli.go - The compilation pipeline behind the command line
//
// Read, tokenize, parse, generate, write. One synchronous pass per
// invocation; the first fatal error stops the pipeline and reaches the
// user as a single diagnostic.

// CompileBlaze compiles inputPath into a runnable executable at
// outputPath for the given platform.
func CompileBlaze(inputPath, outputPath string, platform Platform) *CompilerError {
	src, err := os.ReadFile(inputPath)
	if err != nil {
		return errorf(CategoryIO, "cannot read '%s': %v", inputPath, err)
	}

	if VerboseMode {
		fmt.Fprintf(os.Stderr, "----=[ %s ]=----\n", versionString)
		fmt.Fprintf(os.Stderr, "compiling %s -> %s (%s)\n", inputPath, outputPath, platform)
	}

	toks, lexErr := NewLexer(string(src)).Tokenize()
	if lexErr != nil {
		return lexErr
	}

	pool := NewNodePool()
	strs := NewStringPool()
	root, parseErr := NewParser(toks, pool, strs).Parse()
	if parseErr != nil {
		return parseErr
	}

	cfg := BufferConfigFromEnv()
	buf := NewSegmentedBuffer(cfg)
	gen := NewCodeGen(NewOut(buf), pool, strs)
	if genErr := gen.Generate(root); genErr != nil {
		return genErr
	}

	if VerboseMode {
		fmt.Fprintf(os.Stderr, "\ngenerated %d code bytes\n", buf.Position())
	}

	switch platform.OS {
	case OSWindows:
		return WritePEExecutable(buf, outputPath, cfg.Streaming)
	default:
		return WriteELFExecutable(buf, outputPath, cfg.Streaming)
	}
}
