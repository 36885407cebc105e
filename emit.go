// Completion: 100% - Emitter core complete
package main

import (
	"fmt"
	"os"
)

// emit.go - Instruction emitter core
//
// Out wraps the segmented code buffer with the x86-64 encoding helpers
// every mnemonic file builds on: REX prefixes, ModRM and SIB bytes, and
// displacement forms. Every helper only appends bytes and advances the
// cursor; the sole exception is back-patching a previously reserved
// fixed-width placeholder through the buffer's patch primitives.

type Out struct {
	buf *SegmentedBuffer
}

func NewOut(buf *SegmentedBuffer) *Out {
	return &Out{buf: buf}
}

// Position returns the logical offset of the next byte to be written.
func (o *Out) Position() int {
	return o.buf.Position()
}

func (o *Out) Write(b uint8) {
	o.buf.Write(b)
	if VerboseMode {
		fmt.Fprintf(os.Stderr, " %02x", b)
	}
}

func (o *Out) Write2(v uint16) {
	o.Write(uint8(v))
	o.Write(uint8(v >> 8))
}

func (o *Out) Write4(v uint32) {
	o.Write(uint8(v))
	o.Write(uint8(v >> 8))
	o.Write(uint8(v >> 16))
	o.Write(uint8(v >> 24))
}

func (o *Out) Write8u(v uint64) {
	o.Write4(uint32(v))
	o.Write4(uint32(v >> 32))
}

// trace prints the assembly mnemonic being encoded when verbose.
func (o *Out) trace(format string, args ...interface{}) {
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "\n%s:", fmt.Sprintf(format, args...))
	}
}

// REX bit positions
const (
	rexBase = 0x40
	rexW    = 0x08 // 64-bit operand size
	rexR    = 0x04 // ModRM.reg extension
	rexX    = 0x02 // SIB.index extension
	rexB    = 0x01 // ModRM.rm / SIB.base extension
)

// rex emits a REX prefix built from the W flag and the high bits of the
// reg and rm encodings. Nothing is emitted when no bit is needed.
func (o *Out) rex(w bool, reg, rm uint8) {
	b := uint8(rexBase)
	if w {
		b |= rexW
	}
	if reg >= 8 {
		b |= rexR
	}
	if rm >= 8 {
		b |= rexB
	}
	if b != rexBase {
		o.Write(b)
	} else if w {
		o.Write(b)
	}
}

// rexAlways emits a REX.W prefix unconditionally (the common case for
// 64-bit ALU forms).
func (o *Out) rexAlways(reg, rm uint8) {
	b := uint8(rexBase | rexW)
	if reg >= 8 {
		b |= rexR
	}
	if rm >= 8 {
		b |= rexB
	}
	o.Write(b)
}

// modrm assembles a ModRM byte from mod, reg and rm fields.
func modrm(mod, reg, rm uint8) uint8 {
	return (mod << 6) | ((reg & 7) << 3) | (rm & 7)
}

// modrmReg is the register-direct form (mod=11).
func modrmReg(reg, rm uint8) uint8 {
	return modrm(3, reg, rm)
}

// memOperand emits ModRM (+SIB) (+displacement) for [base+disp]. rsp/r12
// as base require a SIB byte; rbp/r13 with no displacement require the
// disp8 form. The displacement width is chosen at emission time, never
// patched, so this form must not be used for to-be-resolved targets.
func (o *Out) memOperand(reg uint8, base Register, disp int32) {
	rm := base.Encoding & 7
	needsSIB := rm == 4
	switch {
	case disp == 0 && rm != 5:
		o.Write(modrm(0, reg, rm))
		if needsSIB {
			o.Write(0x24)
		}
	case disp >= -128 && disp <= 127:
		o.Write(modrm(1, reg, rm))
		if needsSIB {
			o.Write(0x24)
		}
		o.Write(uint8(disp))
	default:
		o.Write(modrm(2, reg, rm))
		if needsSIB {
			o.Write(0x24)
		}
		o.Write4(uint32(disp))
	}
}

// sib assembles a SIB byte from scale (1/2/4/8), index and base.
func sib(scale, index, base uint8) uint8 {
	var ss uint8
	switch scale {
	case 1:
		ss = 0
	case 2:
		ss = 1
	case 4:
		ss = 2
	case 8:
		ss = 3
	}
	return (ss << 6) | ((index & 7) << 3) | (base & 7)
}
