// Completion: 100% - Storage allocator tests
package main

import (
	"fmt"
	"testing"
)

func TestRegisterPoolThenStackSlots(t *testing.T) {
	st := NewSymbolTable()

	for i, wantReg := range VariableRegisterPool {
		sym, err := st.AddVariable(fmt.Sprintf("v%d", i), true, false)
		if err != nil {
			t.Fatalf("AddVariable: %v", err)
		}
		if sym.Storage != StorageRegister {
			t.Fatalf("variable %d got storage %d, want register", i, sym.Storage)
		}
		if sym.Register != wantReg {
			t.Errorf("variable %d got %s, want %s", i, sym.Register, wantReg)
		}
	}

	// Pool exhausted: subsequent variables spill to 8-byte frame slots.
	for i, wantOff := range []int32{-8, -16, -24} {
		sym, err := st.AddVariable(fmt.Sprintf("s%d", i), true, false)
		if err != nil {
			t.Fatalf("AddVariable: %v", err)
		}
		if sym.Storage != StorageStack {
			t.Fatalf("spilled variable %d got storage %d, want stack", i, sym.Storage)
		}
		if sym.Offset != wantOff {
			t.Errorf("slot %d offset = %d, want %d", i, sym.Offset, wantOff)
		}
	}

	if st.FrameSlots() != 3 {
		t.Errorf("FrameSlots() = %d, want 3", st.FrameSlots())
	}
}

func TestScopeReleasesStorage(t *testing.T) {
	st := NewSymbolTable()

	outer, err := st.AddVariable("outer", true, false)
	if err != nil {
		t.Fatalf("AddVariable: %v", err)
	}
	if outer.Register != VariableRegisterPool[0] {
		t.Fatalf("outer got %s, want %s", outer.Register, VariableRegisterPool[0])
	}

	st.PushScope()
	inner, err := st.AddVariable("inner", true, false)
	if err != nil {
		t.Fatalf("AddVariable: %v", err)
	}
	if inner.Register != VariableRegisterPool[1] {
		t.Fatalf("inner got %s, want %s", inner.Register, VariableRegisterPool[1])
	}
	st.PopScope()

	if st.Lookup("inner") != nil {
		t.Error("inner still resolvable after its scope was popped")
	}

	// The popped scope's register must be reusable by a sibling scope.
	st.PushScope()
	sibling, err := st.AddVariable("sibling", true, false)
	if err != nil {
		t.Fatalf("AddVariable: %v", err)
	}
	if sibling.Register != VariableRegisterPool[1] {
		t.Errorf("sibling got %s, want reused %s", sibling.Register, VariableRegisterPool[1])
	}
}

func TestScopeReleasesStackSlots(t *testing.T) {
	st := NewSymbolTable()
	for i := range VariableRegisterPool {
		if _, err := st.AddVariable(fmt.Sprintf("r%d", i), true, false); err != nil {
			t.Fatalf("AddVariable: %v", err)
		}
	}

	st.PushScope()
	for i := 0; i < 2; i++ {
		if _, err := st.AddVariable(fmt.Sprintf("a%d", i), true, false); err != nil {
			t.Fatalf("AddVariable: %v", err)
		}
	}
	st.PopScope()

	// Sibling scope reuses the released slots; the high-water mark stays.
	st.PushScope()
	sym, err := st.AddVariable("b", true, false)
	if err != nil {
		t.Fatalf("AddVariable: %v", err)
	}
	if sym.Offset != -8 {
		t.Errorf("sibling slot offset = %d, want -8 (reused)", sym.Offset)
	}
	if st.FrameSlots() != 2 {
		t.Errorf("FrameSlots() = %d, want high-water 2", st.FrameSlots())
	}
}

func TestShadowing(t *testing.T) {
	st := NewSymbolTable()
	if _, err := st.AddVariable("x", true, false); err != nil {
		t.Fatalf("AddVariable: %v", err)
	}
	outer := st.Lookup("x")

	st.PushScope()
	if _, err := st.AddVariable("x", false, true); err != nil {
		t.Fatalf("AddVariable: %v", err)
	}
	inner := st.Lookup("x")
	if inner == nil || inner.Register == outer.Register {
		t.Fatal("inner x did not shadow with fresh storage")
	}
	if !inner.IsFloat || inner.Mutable {
		t.Error("lookup did not resolve to the innermost binding")
	}
	st.PopScope()

	back := st.Lookup("x")
	if back == nil || back.IsFloat {
		t.Error("outer x not restored after pop")
	}
}

func TestGlobalScopeNeverPops(t *testing.T) {
	st := NewSymbolTable()
	st.PopScope()
	st.PopScope()
	if st.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", st.Depth())
	}
	if _, err := st.AddVariable("g", true, false); err != nil {
		t.Errorf("AddVariable after excess pops: %v", err)
	}
}

func TestSymbolTableCapacity(t *testing.T) {
	st := NewSymbolTable()
	for i := 0; i < MaxSymbols; i++ {
		if _, err := st.AddVariable(fmt.Sprintf("v%d", i), true, false); err != nil {
			t.Fatalf("AddVariable %d: %v", i, err)
		}
	}
	_, err := st.AddVariable("overflow", true, false)
	if err == nil {
		t.Fatal("no error past the symbol capacity")
	}
	if err.Category != CategoryResource {
		t.Errorf("error category = %v, want resource", err.Category)
	}
}

func TestResetClearsEverything(t *testing.T) {
	st := NewSymbolTable()
	for i := 0; i < 8; i++ {
		if _, err := st.AddVariable(fmt.Sprintf("v%d", i), true, false); err != nil {
			t.Fatalf("AddVariable: %v", err)
		}
	}
	st.Reset()

	if st.FrameSlots() != 0 {
		t.Errorf("FrameSlots() = %d after reset, want 0", st.FrameSlots())
	}
	sym, err := st.AddVariable("fresh", true, false)
	if err != nil {
		t.Fatalf("AddVariable: %v", err)
	}
	if sym.Register != VariableRegisterPool[0] {
		t.Errorf("first variable after reset got %s, want %s", sym.Register, VariableRegisterPool[0])
	}
}

func TestVarTableInitTracking(t *testing.T) {
	vt := NewVarTable()
	h := hashName("x")
	vt.Bind(h, -8, ValueInt)

	e := vt.Lookup(h)
	if e == nil {
		t.Fatal("bound entry not found")
	}
	if e.Initialized {
		t.Error("fresh slot reported initialized")
	}
	vt.MarkInitialized(h)
	if !vt.Lookup(h).Initialized {
		t.Error("MarkInitialized did not stick")
	}

	// A rebind for the same name wins lookups (shadowing).
	vt.Bind(h, -16, ValueFloat)
	if got := vt.Lookup(h); got.Offset != -16 || got.Kind != ValueFloat {
		t.Errorf("lookup = {off %d kind %v}, want newest binding", got.Offset, got.Kind)
	}

	vt.Reset()
	if vt.Lookup(h) != nil {
		t.Error("entry survived Reset")
	}
}
