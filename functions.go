// Completion: 100% - Function table and call fixups complete
package main

import "github.com/COMMENTERTHE9/Blaze-sub000/internal/engine"

// functions.go - Function subsystem bookkeeping
//
// The table maps name hashes to emitted code offsets. A call to a
// function that is not yet emitted records a fixup keyed by the name; the
// moment the definition lands, every pending fixup for that name is
// patched with the relative displacement. Fixups still pending at the end
// of compilation are an undefined-function error.

// FunctionEntry records one function's emission state.
type FunctionEntry struct {
	NameHash     uint64
	Name         string
	Offset       int // logical code offset of the prologue
	Defined      bool
	ReturnsFloat bool
	ParamCount   int
}

// FunctionFixup is one call site waiting for its callee.
type FunctionFixup struct {
	Site     int // logical offset of the CALL opcode byte
	NameHash uint64
	Name     string
	Line     int32
}

// FunctionTable owns function entries and the pending call fixups for one
// compilation. It is state of the compilation context, not a file-scope
// global, so several compilations can run in one process.
type FunctionTable struct {
	entries map[uint64]*FunctionEntry
	fixups  []FunctionFixup
}

func NewFunctionTable() *FunctionTable {
	return &FunctionTable{entries: make(map[uint64]*FunctionEntry)}
}

// Declare registers a function's signature before any body is emitted, so
// calls that precede the definition know the arity and result kind.
func (ft *FunctionTable) Declare(name string, paramCount int, returnsFloat bool) *FunctionEntry {
	hash := hashName(name)
	if e, ok := ft.entries[hash]; ok {
		return e
	}
	e := &FunctionEntry{
		NameHash:     hash,
		Name:         name,
		ParamCount:   paramCount,
		ReturnsFloat: returnsFloat,
	}
	ft.entries[hash] = e
	return e
}

// Lookup finds a function by name, declared or defined.
func (ft *FunctionTable) Lookup(name string) *FunctionEntry {
	return ft.entries[hashName(name)]
}

// Define marks a function as emitted at offset and patches every call
// site already waiting for it. Defining the same name twice is an error.
func (ft *FunctionTable) Define(name string, offset int, out *Out) *CompilerError {
	hash := hashName(name)
	e, ok := ft.entries[hash]
	if !ok {
		e = &FunctionEntry{NameHash: hash, Name: name}
		ft.entries[hash] = e
	}
	if e.Defined {
		return errorf(CategoryUnresolved, "function '%s' defined twice", name)
	}
	e.Offset = offset
	e.Defined = true

	remaining := ft.fixups[:0]
	for _, f := range ft.fixups {
		if f.NameHash == hash {
			out.PatchCall(f.Site, offset)
		} else {
			remaining = append(remaining, f)
		}
	}
	ft.fixups = remaining
	return nil
}

// AddFixup records a call site awaiting a not-yet-defined callee.
func (ft *FunctionTable) AddFixup(name string, site int, line int32) {
	ft.fixups = append(ft.fixups, FunctionFixup{
		Site:     site,
		NameHash: hashName(name),
		Name:     name,
		Line:     line,
	})
}

// PendingFixups reports how many call sites are still unresolved.
func (ft *FunctionTable) PendingFixups() int {
	return len(ft.fixups)
}

// CheckResolved verifies that every recorded call site found a definition.
// Called after the whole program is emitted; a leftover fixup means the
// program calls a function that was never defined.
func (ft *FunctionTable) CheckResolved() *CompilerError {
	if len(ft.fixups) == 0 {
		return nil
	}
	f := ft.fixups[0]
	msg := "call to undefined function '" + f.Name + "'"
	if hint := engine.ClosestName(f.Name, ft.definedNames()); hint != "" {
		msg += " (did you mean '" + hint + "'?)"
	}
	err := errorf(CategoryUnresolved, "%s", msg)
	err.Line = int(f.Line)
	return err
}

func (ft *FunctionTable) definedNames() []string {
	names := make([]string, 0, len(ft.entries))
	for _, e := range ft.entries {
		if e.Defined {
			names = append(names, e.Name)
		}
	}
	return names
}
