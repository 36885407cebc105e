// Completion: 100% - Module complete
package main

import (
	"fmt"
	"os"
)

// segment.go - Scalable code generation context
//
// SegmentedBuffer chains fixed-size CodeBuffers so one very large program
// never needs a single unbounded contiguous allocation. The primary
// segment is extended transparently with further segments up to a bounded
// count; logical positions span the whole chain and stay valid for label
// math and back-patching regardless of which segment a byte landed in.

type codeSegment struct {
	buf  *CodeBuffer
	next *codeSegment
}

type SegmentedBuffer struct {
	cfg      BufferConfig
	head     *codeSegment
	active   *codeSegment
	count    int
	priorLen int  // sum of the lengths of all sealed segments
	full     bool // segment budget exhausted; writes are dropped
}

func NewSegmentedBuffer(cfg BufferConfig) *SegmentedBuffer {
	seg := &codeSegment{buf: NewCodeBuffer(cfg.SegmentSize)}
	return &SegmentedBuffer{cfg: cfg, head: seg, active: seg, count: 1}
}

// Position returns the logical cross-segment byte offset of the cursor.
func (sb *SegmentedBuffer) Position() int {
	return sb.priorLen + sb.active.buf.Len()
}

// Overflowed reports whether the segment budget has been exceeded and
// bytes have been dropped.
func (sb *SegmentedBuffer) Overflowed() bool {
	return sb.full
}

// grow seals the active segment and chains a fresh one, or trips the
// sticky overflow when the segment budget is spent.
func (sb *SegmentedBuffer) grow() bool {
	if sb.count >= sb.cfg.MaxSegments {
		sb.full = true
		return false
	}
	sb.priorLen += sb.active.buf.Len()
	seg := &codeSegment{buf: NewCodeBuffer(sb.cfg.SegmentSize)}
	sb.active.next = seg
	sb.active = seg
	sb.count++
	return true
}

// Write appends one byte, crossing into a new segment when needed.
func (sb *SegmentedBuffer) Write(b byte) {
	if sb.full {
		return
	}
	if sb.active.buf.Remaining() == 0 {
		if !sb.grow() {
			return
		}
	}
	sb.active.buf.Write(b)
}

func (sb *SegmentedBuffer) WriteBytes(bs []byte) {
	for _, b := range bs {
		sb.Write(b)
	}
}

func (sb *SegmentedBuffer) Write2(v uint16) {
	sb.Write(byte(v))
	sb.Write(byte(v >> 8))
}

func (sb *SegmentedBuffer) Write4(v uint32) {
	sb.Write(byte(v))
	sb.Write(byte(v >> 8))
	sb.Write(byte(v >> 16))
	sb.Write(byte(v >> 24))
}

func (sb *SegmentedBuffer) Write8u(v uint64) {
	sb.Write4(uint32(v))
	sb.Write4(uint32(v >> 32))
}

// locate maps a logical offset to its segment and in-segment offset.
func (sb *SegmentedBuffer) locate(off int) (*codeSegment, int) {
	seg := sb.head
	for seg != nil {
		if off < seg.buf.Len() || (seg == sb.active && off == seg.buf.Len()) {
			return seg, off
		}
		off -= seg.buf.Len()
		seg = seg.next
	}
	return nil, 0
}

// ByteAt reads a previously written byte by logical offset.
func (sb *SegmentedBuffer) ByteAt(off int) byte {
	seg, rel := sb.locate(off)
	if seg == nil {
		return 0
	}
	return seg.buf.ByteAt(rel)
}

// PatchByte overwrites one previously written byte by logical offset.
func (sb *SegmentedBuffer) PatchByte(off int, b byte) {
	seg, rel := sb.locate(off)
	if seg == nil {
		return
	}
	seg.buf.PatchByte(rel, b)
}

// Patch32 back-patches a 32-bit little-endian placeholder. The
// placeholder may straddle a segment boundary.
func (sb *SegmentedBuffer) Patch32(off int, v uint32) {
	sb.PatchByte(off, byte(v))
	sb.PatchByte(off+1, byte(v>>8))
	sb.PatchByte(off+2, byte(v>>16))
	sb.PatchByte(off+3, byte(v>>24))
}

// Patch64 back-patches a 64-bit little-endian placeholder.
func (sb *SegmentedBuffer) Patch64(off int, v uint64) {
	sb.Patch32(off, uint32(v))
	sb.Patch32(off+4, uint32(v>>32))
}

// Bytes assembles the whole chain into one slice (in-memory finalize).
func (sb *SegmentedBuffer) Bytes() []byte {
	out := make([]byte, 0, sb.Position())
	for seg := sb.head; seg != nil; seg = seg.next {
		out = append(out, seg.buf.Bytes()...)
	}
	return out
}

// StreamTo writes each segment to f in chain order (streaming finalize).
// A short write is reported as an I/O failure; the output file must not
// be trusted after that.
func (sb *SegmentedBuffer) StreamTo(f *os.File) error {
	for seg := sb.head; seg != nil; seg = seg.next {
		bs := seg.buf.Bytes()
		n, err := f.Write(bs)
		if err != nil {
			return fmt.Errorf("streaming code segment: %w", err)
		}
		if n != len(bs) {
			return fmt.Errorf("streaming code segment: short write (%d of %d bytes)", n, len(bs))
		}
	}
	return syncFile(f)
}
