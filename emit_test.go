// Completion: 100% - Encoder byte-level tests
package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// emitBytes runs one emission callback against a fresh buffer and
// returns exactly the bytes it produced.
func emitBytes(t *testing.T, emit func(o *Out)) []byte {
	t.Helper()
	buf := NewSegmentedBuffer(BufferConfig{SegmentSize: 4096, MaxSegments: 4})
	emit(NewOut(buf))
	if buf.Overflowed() {
		t.Fatal("test buffer overflowed")
	}
	return buf.Bytes()
}

func TestMovEncodings(t *testing.T) {
	tests := []struct {
		name string
		emit func(o *Out)
		want []byte
	}{
		{"mov rax, rcx", func(o *Out) { o.MovRegToReg("rax", "rcx") },
			[]byte{0x48, 0x89, 0xC8}},
		{"mov r8, rax", func(o *Out) { o.MovRegToReg("r8", "rax") },
			[]byte{0x49, 0x89, 0xC0}},
		{"mov rax, r9", func(o *Out) { o.MovRegToReg("rax", "r9") },
			[]byte{0x4C, 0x89, 0xC8}},
		{"mov rbp, rsp", func(o *Out) { o.MovRegToReg("rbp", "rsp") },
			[]byte{0x48, 0x89, 0xE5}},
		{"mov rax, 1 (imm32)", func(o *Out) { o.MovImmToReg("rax", 1) },
			[]byte{0x48, 0xC7, 0xC0, 0x01, 0x00, 0x00, 0x00}},
		{"mov r10, -1 (imm32)", func(o *Out) { o.MovImmToReg("r10", -1) },
			[]byte{0x49, 0xC7, 0xC2, 0xFF, 0xFF, 0xFF, 0xFF}},
		{"movabs rax, big", func(o *Out) { o.MovImmToReg("rax", 0x123456789A) },
			[]byte{0x48, 0xB8, 0x9A, 0x78, 0x56, 0x34, 0x12, 0x00, 0x00, 0x00}},
		{"mov rax, [rbp-8]", func(o *Out) { o.MovMemToReg("rax", "rbp", -8) },
			[]byte{0x48, 0x8B, 0x45, 0xF8}},
		{"mov rax, [rbp] uses disp8", func(o *Out) { o.MovMemToReg("rax", "rbp", 0) },
			[]byte{0x48, 0x8B, 0x45, 0x00}},
		{"mov [rsp+8], rax uses SIB", func(o *Out) { o.MovRegToMem("rax", "rsp", 8) },
			[]byte{0x48, 0x89, 0x44, 0x24, 0x08}},
		{"mov rax, [r12] uses SIB", func(o *Out) { o.MovMemToReg("rax", "r12", 0) },
			[]byte{0x49, 0x8B, 0x04, 0x24}},
		{"mov rax, [r13] uses disp8", func(o *Out) { o.MovMemToReg("rax", "r13", 0) },
			[]byte{0x49, 0x8B, 0x45, 0x00}},
		{"mov rax, [rbp-256] uses disp32", func(o *Out) { o.MovMemToReg("rax", "rbp", -256) },
			[]byte{0x48, 0x8B, 0x85, 0x00, 0xFF, 0xFF, 0xFF}},
		{"movzx rax, al", func(o *Out) { o.MovzxByteToQword("rax", "rax") },
			[]byte{0x48, 0x0F, 0xB6, 0xC0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := emitBytes(t, tt.emit)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("encoding mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestArithmeticEncodings(t *testing.T) {
	tests := []struct {
		name string
		emit func(o *Out)
		want []byte
	}{
		{"add rax, rcx", func(o *Out) { o.AddRegToReg("rax", "rcx") },
			[]byte{0x48, 0x01, 0xC8}},
		{"add rax, 8 (imm8)", func(o *Out) { o.AddImmToReg("rax", 8) },
			[]byte{0x48, 0x83, 0xC0, 0x08}},
		{"add rax, 1000 (imm32)", func(o *Out) { o.AddImmToReg("rax", 1000) },
			[]byte{0x48, 0x81, 0xC0, 0xE8, 0x03, 0x00, 0x00}},
		{"sub rax, rcx", func(o *Out) { o.SubRegFromReg("rax", "rcx") },
			[]byte{0x48, 0x29, 0xC8}},
		{"sub rsp, 8", func(o *Out) { o.SubImmFromReg("rsp", 8) },
			[]byte{0x48, 0x83, 0xEC, 0x08}},
		{"neg rax", func(o *Out) { o.NegReg("rax") },
			[]byte{0x48, 0xF7, 0xD8}},
		{"imul rax, rcx", func(o *Out) { o.MulRegByReg("rax", "rcx") },
			[]byte{0x48, 0x0F, 0xAF, 0xC1}},
		{"cqo", func(o *Out) { o.Cqo() },
			[]byte{0x48, 0x99}},
		{"idiv rcx", func(o *Out) { o.IDivReg("rcx") },
			[]byte{0x48, 0xF7, 0xF9}},
		{"inc rax", func(o *Out) { o.IncReg("rax") },
			[]byte{0x48, 0xFF, 0xC0}},
		{"dec rax", func(o *Out) { o.DecReg("rax") },
			[]byte{0x48, 0xFF, 0xC8}},
		{"shl rax, 1", func(o *Out) { o.ShlRegByImm("rax", 1) },
			[]byte{0x48, 0xD1, 0xE0}},
		{"shl rax, 3", func(o *Out) { o.ShlRegByImm("rax", 3) },
			[]byte{0x48, 0xC1, 0xE0, 0x03}},
		{"sar rax, 2", func(o *Out) { o.SarRegByImm("rax", 2) },
			[]byte{0x48, 0xC1, 0xF8, 0x02}},
		{"lea rax, [rax+rax*2]", func(o *Out) { o.LeaScaledIndex("rax", "rax", "rax", 2) },
			[]byte{0x48, 0x8D, 0x04, 0x40}},
		{"lea rax, [rax+rax*4]", func(o *Out) { o.LeaScaledIndex("rax", "rax", "rax", 4) },
			[]byte{0x48, 0x8D, 0x04, 0x80}},
		{"lea rax, [rip-16]", func(o *Out) { o.LeaRipRelative("rax", -16) },
			[]byte{0x48, 0x8D, 0x05, 0xF0, 0xFF, 0xFF, 0xFF}},
		{"cmp rax, rcx", func(o *Out) { o.CmpRegToReg("rax", "rcx") },
			[]byte{0x48, 0x39, 0xC8}},
		{"cmp rax, 0", func(o *Out) { o.CmpRegToImm("rax", 0) },
			[]byte{0x48, 0x83, 0xF8, 0x00}},
		{"sete + movzx", func(o *Out) { o.SetConditionToRax(JumpEqual) },
			[]byte{0x0F, 0x94, 0xC0, 0x48, 0x0F, 0xB6, 0xC0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := emitBytes(t, tt.emit)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("encoding mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStackAndControlEncodings(t *testing.T) {
	tests := []struct {
		name string
		emit func(o *Out)
		want []byte
	}{
		{"push rax", func(o *Out) { o.PushReg("rax") }, []byte{0x50}},
		{"push r12", func(o *Out) { o.PushReg("r12") }, []byte{0x41, 0x54}},
		{"pop rax", func(o *Out) { o.PopReg("rax") }, []byte{0x58}},
		{"pop r12", func(o *Out) { o.PopReg("r12") }, []byte{0x41, 0x5C}},
		{"ret", func(o *Out) { o.Ret() }, []byte{0xC3}},
		{"syscall", func(o *Out) { o.Syscall() }, []byte{0x0F, 0x05}},
		{"je +8", func(o *Out) { o.JumpConditional(JumpEqual, 8) },
			[]byte{0x0F, 0x84, 0x08, 0x00, 0x00, 0x00}},
		{"jmp -5", func(o *Out) { o.JumpUnconditional(-5) },
			[]byte{0xE9, 0xFB, 0xFF, 0xFF, 0xFF}},
		{"call +16", func(o *Out) { o.CallRelative(16) },
			[]byte{0xE8, 0x10, 0x00, 0x00, 0x00}},
		{"exit with code 0", func(o *Out) { o.ExitWithCode(0) },
			[]byte{
				0x48, 0xC7, 0xC7, 0x00, 0x00, 0x00, 0x00,
				0x48, 0xC7, 0xC0, 0x3C, 0x00, 0x00, 0x00,
				0x0F, 0x05,
			}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := emitBytes(t, tt.emit)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("encoding mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSSEEncodings(t *testing.T) {
	tests := []struct {
		name string
		emit func(o *Out)
		want []byte
	}{
		{"addsd xmm0, xmm1", func(o *Out) { o.AddsdXmm("xmm0", "xmm1") },
			[]byte{0xF2, 0x0F, 0x58, 0xC1}},
		{"subsd xmm0, xmm1", func(o *Out) { o.SubsdXmm("xmm0", "xmm1") },
			[]byte{0xF2, 0x0F, 0x5C, 0xC1}},
		{"mulsd xmm0, xmm1", func(o *Out) { o.MulsdXmm("xmm0", "xmm1") },
			[]byte{0xF2, 0x0F, 0x59, 0xC1}},
		{"divsd xmm0, xmm1", func(o *Out) { o.DivsdXmm("xmm0", "xmm1") },
			[]byte{0xF2, 0x0F, 0x5E, 0xC1}},
		{"movsd xmm2, xmm9 needs REX.B", func(o *Out) { o.MovsdXmmToXmm("xmm2", "xmm9") },
			[]byte{0xF2, 0x41, 0x0F, 0x10, 0xD1}},
		{"ucomisd xmm0, xmm1", func(o *Out) { o.Ucomisd("xmm0", "xmm1") },
			[]byte{0x66, 0x0F, 0x2E, 0xC1}},
		{"movq xmm0, rax", func(o *Out) { o.MovqRegToXmm("xmm0", "rax") },
			[]byte{0x66, 0x48, 0x0F, 0x6E, 0xC0}},
		{"movq rax, xmm0", func(o *Out) { o.MovqXmmToReg("rax", "xmm0") },
			[]byte{0x66, 0x48, 0x0F, 0x7E, 0xC0}},
		{"cvtsi2sd xmm0, rax", func(o *Out) { o.Cvtsi2sd("xmm0", "rax") },
			[]byte{0xF2, 0x48, 0x0F, 0x2A, 0xC0}},
		{"cvttsd2si rax, xmm0", func(o *Out) { o.Cvttsd2si("rax", "xmm0") },
			[]byte{0xF2, 0x48, 0x0F, 0x2C, 0xC0}},
		{"movsd xmm0, [rbp-8]", func(o *Out) { o.MovsdMemToXmm("xmm0", "rbp", -8) },
			[]byte{0xF2, 0x0F, 0x10, 0x45, 0xF8}},
		{"movsd [rbp-8], xmm0", func(o *Out) { o.MovsdXmmToMem("xmm0", "rbp", -8) },
			[]byte{0xF2, 0x0F, 0x11, 0x45, 0xF8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := emitBytes(t, tt.emit)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("encoding mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestForwardJumpPatching(t *testing.T) {
	buf := NewSegmentedBuffer(BufferConfig{SegmentSize: 4096, MaxSegments: 4})
	o := NewOut(buf)

	patchAt := o.JumpConditionalForward(JumpNotEqual)
	if patchAt != 2 {
		t.Fatalf("placeholder offset = %d, want 2 (after 0F opcode pair)", patchAt)
	}
	o.MovImmToReg("rax", 1) // 7 bytes the jump must skip
	target := o.Position()
	o.PatchJump(patchAt, target)

	// Displacement is relative to the end of the 4-byte placeholder.
	wantDisp := int32(target - (patchAt + 4))
	got := int32(uint32(buf.ByteAt(patchAt)) |
		uint32(buf.ByteAt(patchAt+1))<<8 |
		uint32(buf.ByteAt(patchAt+2))<<16 |
		uint32(buf.ByteAt(patchAt+3))<<24)
	if got != wantDisp {
		t.Errorf("patched displacement = %d, want %d", got, wantDisp)
	}
}

func TestBackwardJumpDisplacement(t *testing.T) {
	buf := NewSegmentedBuffer(BufferConfig{SegmentSize: 4096, MaxSegments: 4})
	o := NewOut(buf)

	start := o.Position()
	o.MovImmToReg("rax", 0)
	jmpAt := o.Position()
	o.JumpBackward(start)

	// JMP rel32 is 5 bytes; the displacement lands us back at start.
	wantDisp := int32(start - (jmpAt + 5))
	got := int32(uint32(buf.ByteAt(jmpAt+1)) |
		uint32(buf.ByteAt(jmpAt+2))<<8 |
		uint32(buf.ByteAt(jmpAt+3))<<16 |
		uint32(buf.ByteAt(jmpAt+4))<<24)
	if got != wantDisp {
		t.Errorf("backward displacement = %d, want %d", got, wantDisp)
	}
}

func TestCallPatching(t *testing.T) {
	buf := NewSegmentedBuffer(BufferConfig{SegmentSize: 4096, MaxSegments: 4})
	o := NewOut(buf)

	o.MovImmToReg("rax", 0)
	site := o.CallForward()
	o.Ret()
	target := o.Position()
	o.PushReg("rbp") // pretend callee prologue
	o.PatchCall(site, target)

	if buf.ByteAt(site) != 0xE8 {
		t.Fatalf("call site byte = %#x, want E8", buf.ByteAt(site))
	}
	wantDisp := int32(target - (site + callInstructionLength))
	got := int32(uint32(buf.ByteAt(site+1)) |
		uint32(buf.ByteAt(site+2))<<8 |
		uint32(buf.ByteAt(site+3))<<16 |
		uint32(buf.ByteAt(site+4))<<24)
	if got != wantDisp {
		t.Errorf("patched call displacement = %d, want %d", got, wantDisp)
	}
}

func TestUnknownRegisterEmitsNothing(t *testing.T) {
	got := emitBytes(t, func(o *Out) {
		o.MovRegToReg("rax", "bogus")
		o.AddImmToReg("nope", 1)
		o.MovsdXmmToXmm("xmm0", "xmm99")
	})
	if len(got) != 0 {
		t.Errorf("emitted %d bytes for unknown registers, want 0", len(got))
	}
}
