// Completion: 100% - Function table and call fixup tests
package main

import (
	"strings"
	"testing"
)

func TestForwardCallFixupPatched(t *testing.T) {
	buf := testSegBuf()
	out := NewOut(buf)
	ft := NewFunctionTable()

	ft.Declare("helper", 0, false)
	out.MovImmToReg("rax", 0)
	site := out.CallForward()
	ft.AddFixup("helper", site, 3)
	out.Ret()

	target := out.Position()
	out.PushReg("rbp")
	if err := ft.Define("helper", target, out); err != nil {
		t.Fatalf("Define: %v", err)
	}

	if ft.PendingFixups() != 0 {
		t.Fatalf("PendingFixups() = %d after define, want 0", ft.PendingFixups())
	}
	wantDisp := int32(target - (site + callInstructionLength))
	got := int32(uint32(buf.ByteAt(site+1)) |
		uint32(buf.ByteAt(site+2))<<8 |
		uint32(buf.ByteAt(site+3))<<16 |
		uint32(buf.ByteAt(site+4))<<24)
	if got != wantDisp {
		t.Errorf("patched displacement = %d, want %d", got, wantDisp)
	}
}

func TestDefinePatchesOnlyMatchingFixups(t *testing.T) {
	buf := testSegBuf()
	out := NewOut(buf)
	ft := NewFunctionTable()

	siteA := out.CallForward()
	ft.AddFixup("alpha", siteA, 1)
	siteB := out.CallForward()
	ft.AddFixup("beta", siteB, 2)

	if err := ft.Define("alpha", out.Position(), out); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if ft.PendingFixups() != 1 {
		t.Errorf("PendingFixups() = %d, want the beta fixup to remain", ft.PendingFixups())
	}
}

func TestRedefinitionRejected(t *testing.T) {
	out := NewOut(testSegBuf())
	ft := NewFunctionTable()

	if err := ft.Define("dup", 0, out); err != nil {
		t.Fatalf("first define: %v", err)
	}
	err := ft.Define("dup", 32, out)
	if err == nil {
		t.Fatal("second definition accepted")
	}
	if err.Category != CategoryUnresolved {
		t.Errorf("error category = %v, want unresolved", err.Category)
	}
}

func TestCheckResolvedSuggestsClosestName(t *testing.T) {
	out := NewOut(testSegBuf())
	ft := NewFunctionTable()

	if err := ft.Define("computeSum", 0, out); err != nil {
		t.Fatalf("Define: %v", err)
	}
	site := out.CallForward()
	ft.AddFixup("computeSun", site, 7)

	err := ft.CheckResolved()
	if err == nil {
		t.Fatal("unresolved call site not reported")
	}
	if err.Category != CategoryUnresolved {
		t.Errorf("error category = %v, want unresolved", err.Category)
	}
	if err.Line != 7 {
		t.Errorf("error line = %d, want the call site's line 7", err.Line)
	}
	if !strings.Contains(err.Message, "computeSun") {
		t.Errorf("message %q does not name the missing function", err.Message)
	}
	if !strings.Contains(err.Message, "did you mean 'computeSum'") {
		t.Errorf("message %q lacks the close-name suggestion", err.Message)
	}
}

func TestDeclareIsIdempotent(t *testing.T) {
	ft := NewFunctionTable()
	first := ft.Declare("f", 2, true)
	second := ft.Declare("f", 5, false)
	if first != second {
		t.Fatal("second declare returned a different entry")
	}
	if second.ParamCount != 2 || !second.ReturnsFloat {
		t.Error("second declare overwrote the original signature")
	}
}
