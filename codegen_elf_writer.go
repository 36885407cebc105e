// Completion: 100% - Writer module complete
package main

import (
	"fmt"
	"os"
)

// codegen_elf_writer.go - ELF64 executable generation for x86_64 Linux
//
// Pure serialization: one file header, one loadable program header
// covering the whole image, then the raw code. No section headers, no
// dynamic linking, nothing the loader does not strictly need.

const (
	elfHeaderSize  = 64 // Elf64_Ehdr
	progHeaderSize = 56 // Elf64_Phdr

	elfBaseAddr    = 0x400000
	elfPageSize    = 0x1000
	elfHeadersSize = elfHeaderSize + progHeaderSize

	elfMachineX86_64 = 62

	elfProgLoad   = 1 // PT_LOAD
	elfFlagsRX    = 5 // PF_X | PF_R
	elfTypeExec   = 2 // ET_EXEC
	elfClass64    = 2
	elfLittleEnd  = 1
	elfOSABILinux = 3
)

// defaultExitSequence is mov rax, 60; xor rdi, rdi; syscall.
var defaultExitSequence = []byte{
	0x48, 0xC7, 0xC0, 0x3C, 0x00, 0x00, 0x00,
	0x48, 0x31, 0xFF,
	0x0F, 0x05,
}

// endsInSyscall reports whether the buffer's final instruction bytes are
// 0F 05. The check is deliberately shallow: any trailing syscall counts,
// and the generator always places exit as the last one it emits.
func endsInSyscall(buf *SegmentedBuffer) bool {
	n := buf.Position()
	return n >= 2 && buf.ByteAt(n-2) == 0x0F && buf.ByteAt(n-1) == 0x05
}

// buildELFHeaders serializes the Ehdr and the single Phdr for a code
// payload of the given size.
func buildELFHeaders(codeSize int) []byte {
	w := NewCodeBuffer(elfHeadersSize)

	// e_ident
	w.Write(0x7F)
	w.Write(0x45) // E
	w.Write(0x4C) // L
	w.Write(0x46) // F
	w.Write(elfClass64)
	w.Write(elfLittleEnd)
	w.Write(1) // EV_CURRENT
	w.Write(elfOSABILinux)
	w.Write(0)     // ABI version
	w.WriteN(0, 7) // padding

	w.Write2(elfTypeExec)
	w.Write2(elfMachineX86_64)
	w.Write4(1) // e_version

	entry := uint64(elfBaseAddr + elfHeadersSize)
	w.Write8u(entry)
	w.Write8u(elfHeaderSize) // e_phoff: Phdr follows the Ehdr
	w.Write8u(0)             // e_shoff: no section headers
	w.Write4(0)              // e_flags
	w.Write2(elfHeaderSize)
	w.Write2(progHeaderSize)
	w.Write2(1) // one program header
	w.Write2(0) // e_shentsize
	w.Write2(0) // e_shnum
	w.Write2(0) // e_shstrndx

	// Phdr: one PT_LOAD mapping headers and code, execute+read.
	fileSize := uint64(elfHeadersSize + codeSize)
	w.Write4(elfProgLoad)
	w.Write4(elfFlagsRX)
	w.Write8u(0) // p_offset: map from the start of the file
	w.Write8u(elfBaseAddr)
	w.Write8u(elfBaseAddr)
	w.Write8u(fileSize)
	w.Write8u(fileSize)
	w.Write8u(elfPageSize)

	return w.Bytes()
}

// WriteELFExecutable serializes the finished code buffer into a runnable
// ELF64 file at path. When the code does not already end in a syscall, a
// default exit(0) sequence is appended so falling off the end cannot run
// into unmapped memory.
func WriteELFExecutable(buf *SegmentedBuffer, path string, streaming bool) *CompilerError {
	if !endsInSyscall(buf) {
		for _, b := range defaultExitSequence {
			buf.Write(b)
		}
	}
	if buf.Overflowed() {
		return errorf(CategoryResource, "code buffer overflow while finalizing ELF image")
	}

	codeSize := buf.Position()
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "WriteELFExecutable: %d header bytes, %d code bytes\n",
			elfHeadersSize, codeSize)
	}

	f, err := os.Create(path)
	if err != nil {
		return errorf(CategoryIO, "cannot create '%s': %v", path, err)
	}
	defer f.Close()

	if _, err := f.Write(buildELFHeaders(codeSize)); err != nil {
		return errorf(CategoryIO, "writing ELF headers to '%s': %v", path, err)
	}

	if streaming {
		if err := buf.StreamTo(f); err != nil {
			return errorf(CategoryIO, "writing code to '%s': %v", path, err)
		}
	} else {
		code := buf.Bytes()
		n, err := f.Write(code)
		if err != nil {
			return errorf(CategoryIO, "writing code to '%s': %v", path, err)
		}
		if n != len(code) {
			return errorf(CategoryIO, "writing code to '%s': short write (%d of %d bytes)", path, n, len(code))
		}
		if err := syncFile(f); err != nil {
			return errorf(CategoryIO, "syncing '%s': %v", path, err)
		}
	}

	if err := markExecutable(path); err != nil {
		return errorf(CategoryIO, "marking '%s' executable: %v", path, err)
	}
	return nil
}
