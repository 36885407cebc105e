// Completion: 100% - Module complete
package main

// buffer.go - Fixed-capacity code buffer
//
// CodeBuffer is one segment of machine code: an owned byte slice with a
// write cursor and a hard capacity. Exceeding the capacity sets a sticky
// overflow flag and every write after that point is a silent no-op, so a
// whole compilation can run to completion and report exactly one overflow
// instead of crashing on an out-of-bounds store.

type CodeBuffer struct {
	data       []byte
	pos        int
	overflowed bool
}

func NewCodeBuffer(capacity int) *CodeBuffer {
	return &CodeBuffer{data: make([]byte, capacity)}
}

// Len returns the number of bytes written so far.
func (cb *CodeBuffer) Len() int {
	return cb.pos
}

// Cap returns the fixed capacity.
func (cb *CodeBuffer) Cap() int {
	return len(cb.data)
}

// Remaining returns how many more bytes fit.
func (cb *CodeBuffer) Remaining() int {
	return len(cb.data) - cb.pos
}

// Overflowed reports whether any write has been dropped.
func (cb *CodeBuffer) Overflowed() bool {
	return cb.overflowed
}

// Write appends one byte, or drops it once the buffer has overflowed.
func (cb *CodeBuffer) Write(b byte) {
	if cb.overflowed || cb.pos >= len(cb.data) {
		cb.overflowed = true
		return
	}
	cb.data[cb.pos] = b
	cb.pos++
}

// WriteBytes appends a byte sequence. If the sequence does not fit, the
// part that fits is written and the rest is dropped with the flag set:
// bytes past the first overflow must never be shifted or corrupted.
func (cb *CodeBuffer) WriteBytes(bs []byte) {
	for _, b := range bs {
		cb.Write(b)
	}
}

// Write2 appends a 16-bit little-endian value.
func (cb *CodeBuffer) Write2(v uint16) {
	cb.Write(byte(v))
	cb.Write(byte(v >> 8))
}

// Write4 appends a 32-bit little-endian value.
func (cb *CodeBuffer) Write4(v uint32) {
	cb.Write(byte(v))
	cb.Write(byte(v >> 8))
	cb.Write(byte(v >> 16))
	cb.Write(byte(v >> 24))
}

// Write8u appends a 64-bit little-endian value.
func (cb *CodeBuffer) Write8u(v uint64) {
	cb.Write4(uint32(v))
	cb.Write4(uint32(v >> 32))
}

// WriteN appends b repeated n times.
func (cb *CodeBuffer) WriteN(b byte, n int) {
	for i := 0; i < n; i++ {
		cb.Write(b)
	}
}

// ByteAt reads a previously written byte. Only valid for off < Len().
func (cb *CodeBuffer) ByteAt(off int) byte {
	return cb.data[off]
}

// PatchByte overwrites a previously written byte. Patching never moves
// the cursor and never extends the buffer; patching an unwritten offset
// is a defect in the caller and is ignored here.
func (cb *CodeBuffer) PatchByte(off int, b byte) {
	if off < 0 || off >= cb.pos {
		return
	}
	cb.data[off] = b
}

// Bytes returns the written prefix of the buffer.
func (cb *CodeBuffer) Bytes() []byte {
	return cb.data[:cb.pos]
}
