// Completion: 100% - Buffer and segment chain tests
package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCodeBufferStickyOverflow(t *testing.T) {
	cb := NewCodeBuffer(4)
	for i := 0; i < 6; i++ {
		cb.Write(byte(0x10 + i))
	}

	if !cb.Overflowed() {
		t.Fatal("buffer did not report overflow after writing past capacity")
	}
	if cb.Len() != 4 {
		t.Errorf("Len() = %d, want 4", cb.Len())
	}
	if diff := cmp.Diff([]byte{0x10, 0x11, 0x12, 0x13}, cb.Bytes()); diff != "" {
		t.Errorf("surviving bytes mismatch (-want +got):\n%s", diff)
	}

	// Once overflowed every write is a no-op, even if space would fit.
	cb.Write(0xFF)
	if cb.Len() != 4 {
		t.Errorf("write after overflow moved the cursor to %d", cb.Len())
	}
}

func TestCodeBufferPartialMultiByteWrite(t *testing.T) {
	cb := NewCodeBuffer(2)
	cb.Write4(0x11223344)

	if !cb.Overflowed() {
		t.Fatal("expected overflow")
	}
	// The fitting prefix must be intact, nothing shifted.
	if diff := cmp.Diff([]byte{0x44, 0x33}, cb.Bytes()); diff != "" {
		t.Errorf("prefix mismatch (-want +got):\n%s", diff)
	}
}

func TestCodeBufferPatchBounds(t *testing.T) {
	cb := NewCodeBuffer(8)
	cb.Write(0xAA)
	cb.PatchByte(0, 0xBB)
	if cb.ByteAt(0) != 0xBB {
		t.Errorf("patched byte = %#x, want BB", cb.ByteAt(0))
	}

	// Patching unwritten or negative offsets is ignored.
	cb.PatchByte(5, 0xCC)
	cb.PatchByte(-1, 0xCC)
	if cb.Len() != 1 {
		t.Errorf("patch moved the cursor to %d", cb.Len())
	}
}

func TestSegmentedBufferGrowth(t *testing.T) {
	sb := NewSegmentedBuffer(BufferConfig{SegmentSize: 8, MaxSegments: 3})
	for i := 0; i < 20; i++ {
		sb.Write(byte(i))
	}

	if sb.Position() != 20 {
		t.Fatalf("Position() = %d, want 20", sb.Position())
	}
	if sb.Overflowed() {
		t.Fatal("overflow before the segment budget was spent")
	}
	for i := 0; i < 20; i++ {
		if sb.ByteAt(i) != byte(i) {
			t.Fatalf("ByteAt(%d) = %#x, want %#x", i, sb.ByteAt(i), byte(i))
		}
	}
}

func TestSegmentedBufferBudgetExhaustion(t *testing.T) {
	sb := NewSegmentedBuffer(BufferConfig{SegmentSize: 8, MaxSegments: 2})
	for i := 0; i < 16; i++ {
		sb.Write(0xAB)
	}
	if sb.Overflowed() {
		t.Fatal("overflow at exactly the budget")
	}

	sb.Write(0xCD)
	if !sb.Overflowed() {
		t.Fatal("no overflow past the segment budget")
	}
	if sb.Position() != 16 {
		t.Errorf("Position() = %d after overflow, want 16", sb.Position())
	}
}

func TestSegmentedBufferCrossSegmentPatch(t *testing.T) {
	sb := NewSegmentedBuffer(BufferConfig{SegmentSize: 8, MaxSegments: 4})
	for i := 0; i < 6; i++ {
		sb.Write(0x90)
	}
	// This placeholder straddles the first segment boundary at offset 8.
	patchAt := sb.Position()
	sb.Write4(0)
	sb.Write(0x90)

	sb.Patch32(patchAt, 0xDDCCBBAA)
	want := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	for i, w := range want {
		if got := sb.ByteAt(patchAt + i); got != w {
			t.Errorf("ByteAt(%d) = %#x, want %#x", patchAt+i, got, w)
		}
	}
}

func TestSegmentedBufferPatch64(t *testing.T) {
	sb := NewSegmentedBuffer(BufferConfig{SegmentSize: 8, MaxSegments: 4})
	for i := 0; i < 4; i++ {
		sb.Write(0)
	}
	at := sb.Position()
	sb.Write8u(0)
	sb.Patch64(at, 0x1122334455667788)

	want := []byte{0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11}
	for i, w := range want {
		if got := sb.ByteAt(at + i); got != w {
			t.Errorf("ByteAt(%d) = %#x, want %#x", at+i, got, w)
		}
	}
}

func TestStreamToMatchesBytes(t *testing.T) {
	sb := NewSegmentedBuffer(BufferConfig{SegmentSize: 8, MaxSegments: 4})
	for i := 0; i < 27; i++ {
		sb.Write(byte(i * 7))
	}

	path := filepath.Join(t.TempDir(), "streamed.bin")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := sb.StreamTo(f); err != nil {
		t.Fatalf("StreamTo: %v", err)
	}
	f.Close()

	streamed, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if diff := cmp.Diff(sb.Bytes(), streamed); diff != "" {
		t.Errorf("streamed output differs from in-memory bytes (-want +got):\n%s", diff)
	}
}
