// Completion: 100% - Storage allocator and scoped symbol table complete
package main

// symbol.go - Storage allocator / symbol table
//
// Variables get one of a small fixed pool of callee-saved registers; once
// the pool is exhausted they get 8-byte stack slots below the frame
// pointer. Scopes are a stack of frames; popping a frame releases exactly
// the registers and slots its own symbols claimed. Same-scope redeclaration
// shadows the earlier symbol instead of erroring.

// SymbolKind tags what an identifier names.
type SymbolKind uint8

const (
	SymVariable SymbolKind = iota
	SymFunction
	SymArray
	SymJumpLabel
)

// StorageKind tags where a symbol's value lives.
type StorageKind uint8

const (
	StorageRegister StorageKind = iota
	StorageStack
	StorageGlobal
	StorageImmediate
)

// Symbol binds an identifier to its storage for the duration of its scope.
type Symbol struct {
	NameHash uint64
	Name     string
	Kind     SymbolKind
	Storage  StorageKind
	Register string // valid when Storage == StorageRegister
	Offset   int32  // rbp-relative, valid when Storage == StorageStack
	Scope    int
	Mutable  bool
	IsFloat  bool
}

// scopeFrame records what one lexical block allocated so pop can release
// exactly that and nothing of the parent's.
type scopeFrame struct {
	firstSymbol int // index into SymbolTable.symbols
	regsTaken   []string
	slotsTaken  int
}

// MaxSymbols bounds the table; exceeding it is a fatal resource error.
const MaxSymbols = 1024

// SymbolTable is the per-function storage allocator. Reset between
// functions so register and slot state never leaks across bodies.
type SymbolTable struct {
	symbols   []Symbol
	scopes    []scopeFrame
	regInUse  map[string]bool
	nextSlot  int // count of 8-byte slots handed out in the current function
	peakSlots int // high-water mark, sizes the frame
}

func NewSymbolTable() *SymbolTable {
	st := &SymbolTable{regInUse: make(map[string]bool)}
	st.PushScope()
	return st
}

// Reset clears everything back to a single empty global scope.
func (st *SymbolTable) Reset() {
	st.symbols = st.symbols[:0]
	st.scopes = st.scopes[:0]
	for r := range st.regInUse {
		delete(st.regInUse, r)
	}
	st.nextSlot = 0
	st.peakSlots = 0
	st.PushScope()
}

// PushScope opens a lexical block.
func (st *SymbolTable) PushScope() {
	st.scopes = append(st.scopes, scopeFrame{firstSymbol: len(st.symbols)})
}

// PopScope closes the innermost block, releasing its registers and stack
// slots for reuse by sibling scopes. The global scope is never popped.
func (st *SymbolTable) PopScope() {
	if len(st.scopes) <= 1 {
		return
	}
	frame := st.scopes[len(st.scopes)-1]
	for _, r := range frame.regsTaken {
		delete(st.regInUse, r)
	}
	st.nextSlot -= frame.slotsTaken
	st.symbols = st.symbols[:frame.firstSymbol]
	st.scopes = st.scopes[:len(st.scopes)-1]
}

// Depth reports the current scope nesting level (global scope = 1).
func (st *SymbolTable) Depth() int {
	return len(st.scopes)
}

// allocRegister claims the first free register from the variable pool, or
// "" when the pool is exhausted.
func (st *SymbolTable) allocRegister() string {
	for _, r := range VariableRegisterPool {
		if !st.regInUse[r] {
			st.regInUse[r] = true
			return r
		}
	}
	return ""
}

// AddVariable binds a new variable in the current scope, first to a pool
// register, then to a fresh 8-byte slot below rbp. A duplicate name in the
// same scope shadows the earlier binding.
func (st *SymbolTable) AddVariable(name string, mutable, isFloat bool) (*Symbol, *CompilerError) {
	if len(st.symbols) >= MaxSymbols {
		return nil, errorf(CategoryResource, "symbol table full (%d symbols)", MaxSymbols)
	}

	frame := &st.scopes[len(st.scopes)-1]
	sym := Symbol{
		NameHash: hashName(name),
		Name:     name,
		Kind:     SymVariable,
		Scope:    len(st.scopes),
		Mutable:  mutable,
		IsFloat:  isFloat,
	}

	if reg := st.allocRegister(); reg != "" {
		sym.Storage = StorageRegister
		sym.Register = reg
		frame.regsTaken = append(frame.regsTaken, reg)
	} else {
		st.nextSlot++
		frame.slotsTaken++
		if st.nextSlot > st.peakSlots {
			st.peakSlots = st.nextSlot
		}
		sym.Storage = StorageStack
		sym.Offset = int32(-8 * st.nextSlot)
	}

	st.symbols = append(st.symbols, sym)
	return &st.symbols[len(st.symbols)-1], nil
}

// Lookup walks from the innermost scope outward and returns the nearest
// binding for name, or nil. Later same-scope symbols win, which is what
// makes shadowing work: the walk is newest-first.
func (st *SymbolTable) Lookup(name string) *Symbol {
	hash := hashName(name)
	for i := len(st.symbols) - 1; i >= 0; i-- {
		if st.symbols[i].NameHash == hash && st.symbols[i].Name == name {
			return &st.symbols[i]
		}
	}
	return nil
}

// FrameSlots reports the high-water stack-slot count for the current
// function; the prologue sizes the frame from it.
func (st *SymbolTable) FrameSlots() int {
	return st.peakSlots
}

// VisibleNames lists every currently resolvable name, newest first. Used
// for "did you mean" suggestions.
func (st *SymbolTable) VisibleNames() []string {
	names := make([]string, 0, len(st.symbols))
	for i := len(st.symbols) - 1; i >= 0; i-- {
		names = append(names, st.symbols[i].Name)
	}
	return names
}
