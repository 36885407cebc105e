// Completion: 100% - Label and fixup resolution tests
package main

import (
	"strings"
	"testing"
)

func testSegBuf() *SegmentedBuffer {
	return NewSegmentedBuffer(BufferConfig{SegmentSize: 4096, MaxSegments: 4})
}

func TestRelativeFixupResolution(t *testing.T) {
	buf := testSegBuf()
	lm := NewLabelManager()

	buf.Write(0xE9)
	at := buf.Position()
	buf.Write4(0)

	id := lm.NewLabel()
	if err := lm.AddFixup(id, at, Fixup32, true); err != nil {
		t.Fatalf("AddFixup: %v", err)
	}
	if err := lm.Bind(id, 25); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := lm.Resolve(buf); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// rel32 convention: target minus the end of the placeholder.
	want := byte(25 - (at + 4))
	if buf.ByteAt(at) != want {
		t.Errorf("patched byte = %#x, want %#x", buf.ByteAt(at), want)
	}
	if lm.Pending() != 0 {
		t.Errorf("Pending() = %d after resolve, want 0", lm.Pending())
	}
}

func TestAbsoluteFixupResolution(t *testing.T) {
	buf := testSegBuf()
	lm := NewLabelManager()

	at := buf.Position()
	buf.Write8u(0)

	id := lm.NewLabel()
	if err := lm.AddFixup(id, at, Fixup64, false); err != nil {
		t.Fatalf("AddFixup: %v", err)
	}
	if err := lm.Bind(id, 0x1234); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := lm.Resolve(buf); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if buf.ByteAt(at) != 0x34 || buf.ByteAt(at+1) != 0x12 {
		t.Errorf("absolute patch = %#x %#x, want 34 12", buf.ByteAt(at), buf.ByteAt(at+1))
	}
}

func TestLabelMisuse(t *testing.T) {
	lm := NewLabelManager()
	id := lm.NewLabel()

	if err := lm.Bind(id, 10); err != nil {
		t.Fatalf("first bind: %v", err)
	}
	if err := lm.Bind(id, 20); err == nil || err.Category != CategoryInternal {
		t.Error("double bind not rejected as internal error")
	}
	if err := lm.Bind(99, 0); err == nil {
		t.Error("bind of unknown label not rejected")
	}
	if err := lm.AddFixup(99, 0, Fixup32, true); err == nil {
		t.Error("fixup for unknown label not rejected")
	}
	if err := lm.AddFixup(id, 0, 3, true); err == nil {
		t.Error("fixup width 3 not rejected")
	}
}

func TestUnboundLabelAtResolve(t *testing.T) {
	buf := testSegBuf()
	buf.Write4(0)

	lm := NewLabelManager()
	id := lm.NewLabel()
	if err := lm.AddFixup(id, 0, Fixup32, true); err != nil {
		t.Fatalf("AddFixup: %v", err)
	}

	err := lm.Resolve(buf)
	if err == nil {
		t.Fatal("resolve with an unbound label succeeded")
	}
	if err.Category != CategoryInternal {
		t.Errorf("error category = %v, want internal", err.Category)
	}
	if !strings.Contains(err.Message, "unresolved") {
		t.Errorf("message %q does not name the unresolved fixup", err.Message)
	}
}
