// Completion: 100% - Stack-slot variable table complete
package main

// vartable.go - Flat per-function stack-slot table
//
// One entry per frame slot, keyed by name hash, tracking the rbp-relative
// offset, whether the slot has been written, and the value kind stored in
// it. The symbol table answers "where does this name live"; this table
// answers "what is in that slot". Reset between functions.

// ValueKind tags the runtime kind held in a slot or register.
type ValueKind uint8

const (
	ValueInt ValueKind = iota
	ValueFloat
	ValueString
	ValueBool
)

func (k ValueKind) String() string {
	switch k {
	case ValueInt:
		return "int"
	case ValueFloat:
		return "float"
	case ValueString:
		return "string"
	case ValueBool:
		return "bool"
	default:
		return "unknown"
	}
}

// VarEntry is one tracked variable slot.
type VarEntry struct {
	NameHash    uint64
	Offset      int32 // rbp-relative
	Initialized bool
	Kind        ValueKind
}

// VarTable is the flat per-function table.
type VarTable struct {
	entries []VarEntry
}

func NewVarTable() *VarTable {
	return &VarTable{}
}

// Reset clears the table for the next function body.
func (vt *VarTable) Reset() {
	vt.entries = vt.entries[:0]
}

// Bind records a slot for the hashed name, replacing any earlier entry
// with the same hash (shadowing reuses the name, not the slot).
func (vt *VarTable) Bind(nameHash uint64, offset int32, kind ValueKind) {
	vt.entries = append(vt.entries, VarEntry{
		NameHash: nameHash,
		Offset:   offset,
		Kind:     kind,
	})
}

// Lookup finds the newest entry for the hashed name.
func (vt *VarTable) Lookup(nameHash uint64) *VarEntry {
	for i := len(vt.entries) - 1; i >= 0; i-- {
		if vt.entries[i].NameHash == nameHash {
			return &vt.entries[i]
		}
	}
	return nil
}

// MarkInitialized flags the newest entry for the hashed name as written.
func (vt *VarTable) MarkInitialized(nameHash uint64) {
	if e := vt.Lookup(nameHash); e != nil {
		e.Initialized = true
	}
}
