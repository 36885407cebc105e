// Completion: 100% - Writer module complete
package main

import (
	"fmt"
	"os"
)

// codegen_pe_writer.go - PE64 executable generation for x86_64 Windows
//
// DOS header, 64-byte stub, PE signature, COFF file header, 64-bit
// optional header, one .text section header, then the code padded to the
// 512-byte file alignment. Like the ELF writer this is pure
// serialization: headers and layout only, no change to the payload.

const (
	peDOSHeaderSize = 64
	peDOSStubSize   = 64
	peSignatureOff  = peDOSHeaderSize + peDOSStubSize // e_lfanew

	peMachineAMD64 = 0x8664
	peOptMagic64   = 0x20B

	peImageBase        = 0x140000000
	peSectionAlignment = 0x1000
	peFileAlignment    = 0x200
	peTextRVA          = 0x1000

	peSubsystemConsole = 3

	// IMAGE_FILE_EXECUTABLE_IMAGE | IMAGE_FILE_LARGE_ADDRESS_AWARE
	peCharacteristics = 0x0022

	// IMAGE_SCN_CNT_CODE | IMAGE_SCN_MEM_EXECUTE | IMAGE_SCN_MEM_READ
	peTextCharacteristics = 0x60000020

	peOptHeaderSize = 240 // optional header incl. 16 data directories
	peCOFFSize      = 20
	peSectionSize   = 40

	// Everything before the raw code, padded up to file alignment.
	peHeadersSize = peSignatureOff + 4 + peCOFFSize + peOptHeaderSize + peSectionSize
)

func alignTo(v, alignment int) int {
	return (v + alignment - 1) &^ (alignment - 1)
}

// endsInRet reports whether the buffer's last byte is a near return.
func endsInRet(buf *SegmentedBuffer) bool {
	n := buf.Position()
	return n >= 1 && buf.ByteAt(n-1) == 0xC3
}

// buildPEHeaders serializes everything up to the 512-byte boundary where
// the raw .text bytes begin.
func buildPEHeaders(codeSize int) []byte {
	w := NewCodeBuffer(peFileAlignment)

	// DOS header. Only e_magic and e_lfanew matter to a 64-bit loader.
	w.Write(0x4D) // M
	w.Write(0x5A) // Z
	w.WriteN(0, 0x3C-2)
	w.Write4(peSignatureOff) // e_lfanew

	// DOS stub: 64 bytes of padding; no real-mode message program.
	w.WriteN(0, peDOSStubSize)

	// PE signature
	w.Write(0x50) // P
	w.Write(0x45) // E
	w.Write(0)
	w.Write(0)

	// COFF file header
	w.Write2(peMachineAMD64)
	w.Write2(1) // one section
	w.Write4(0) // timestamp, zero for reproducible output
	w.Write4(0) // symbol table pointer
	w.Write4(0) // symbol count
	w.Write2(peOptHeaderSize)
	w.Write2(peCharacteristics)

	// Optional header, PE32+
	rawCodeSize := alignTo(codeSize, peFileAlignment)
	w.Write2(peOptMagic64)
	w.Write(0) // linker major
	w.Write(0) // linker minor
	w.Write4(uint32(rawCodeSize)) // SizeOfCode
	w.Write4(0)                   // SizeOfInitializedData
	w.Write4(0)                   // SizeOfUninitializedData
	w.Write4(peTextRVA)           // AddressOfEntryPoint
	w.Write4(peTextRVA)           // BaseOfCode
	w.Write8u(peImageBase)
	w.Write4(peSectionAlignment)
	w.Write4(peFileAlignment)
	w.Write2(6) // OS major
	w.Write2(0) // OS minor
	w.Write2(0) // image version major
	w.Write2(0) // image version minor
	w.Write2(6) // subsystem major
	w.Write2(0) // subsystem minor
	w.Write4(0) // Win32VersionValue, reserved
	w.Write4(uint32(peTextRVA + alignTo(codeSize, peSectionAlignment))) // SizeOfImage
	w.Write4(peFileAlignment)                                          // SizeOfHeaders
	w.Write4(0)                                                        // CheckSum
	w.Write2(peSubsystemConsole)
	w.Write2(0)            // DllCharacteristics
	w.Write8u(0x100000)    // SizeOfStackReserve
	w.Write8u(0x1000)      // SizeOfStackCommit
	w.Write8u(0x100000)    // SizeOfHeapReserve
	w.Write8u(0x1000)      // SizeOfHeapCommit
	w.Write4(0)            // LoaderFlags
	w.Write4(16)           // NumberOfRvaAndSizes
	w.WriteN(0, 16*8)      // 16 empty data directories

	// .text section header
	w.Write(0x2E) // .
	w.Write(0x74) // t
	w.Write(0x65) // e
	w.Write(0x78) // x
	w.Write(0x74) // t
	w.WriteN(0, 3)
	w.Write4(uint32(codeSize)) // VirtualSize
	w.Write4(peTextRVA)        // VirtualAddress
	w.Write4(uint32(rawCodeSize))
	w.Write4(peFileAlignment) // PointerToRawData
	w.Write4(0)               // PointerToRelocations
	w.Write4(0)               // PointerToLinenumbers
	w.Write2(0)               // NumberOfRelocations
	w.Write2(0)               // NumberOfLinenumbers
	w.Write4(peTextCharacteristics)

	// Pad headers out to the file alignment where the code starts.
	w.WriteN(0, peFileAlignment-peHeadersSize)

	return w.Bytes()
}

// WritePEExecutable serializes the finished code buffer into a PE64 file
// at path. When the code does not already end in a return, one is
// appended so the entry point terminates cleanly.
func WritePEExecutable(buf *SegmentedBuffer, path string, streaming bool) *CompilerError {
	if !endsInRet(buf) {
		buf.Write(0xC3)
	}
	if buf.Overflowed() {
		return errorf(CategoryResource, "code buffer overflow while finalizing PE image")
	}

	codeSize := buf.Position()
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "WritePEExecutable: %d header bytes, %d code bytes\n",
			peFileAlignment, codeSize)
	}

	f, err := os.Create(path)
	if err != nil {
		return errorf(CategoryIO, "cannot create '%s': %v", path, err)
	}
	defer f.Close()

	if _, err := f.Write(buildPEHeaders(codeSize)); err != nil {
		return errorf(CategoryIO, "writing PE headers to '%s': %v", path, err)
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
	}

	// Pad the section's raw data out to the file alignment.
	if pad := alignTo(codeSize, peFileAlignment) - codeSize; pad > 0 {
		if _, err := f.Write(make([]byte, pad)); err != nil {
			return errorf(CategoryIO, "padding '%s': %v", path, err)
		}
	}
	if err := syncFile(f); err != nil {
		return errorf(CategoryIO, "syncing '%s': %v", path, err)
	}
	return nil
}
