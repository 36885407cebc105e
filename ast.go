// Completion: 100% - Node pool and string pool complete
package main

import "math"

// ast.go - Fixed-size AST node pool and interned string pool
//
// Nodes live in a flat array addressed by 16-bit indices; index 0 means
// "absent", so slot 0 is a permanently reserved sentinel. Identifier and
// string spellings are interned into one byte pool and referenced by
// offset+length. Statement lists are right-threaded through Next.

// NodeKind is the closed enumeration of AST node kinds.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	NodeProgram
	NodeFunction
	NodeVarDecl
	NodeAssign
	NodeIf
	NodeWhile
	NodeFor
	NodeSwitch
	NodeCase
	NodeDefault
	NodeBreak
	NodeContinue
	NodeReturn
	NodeExit
	NodeExprStmt
	NodeBinary
	NodeCall
	NodeIdent
	NodeParam
	NodeIntLit
	NodeFloatLit
	NodeStrLit
	NodeBoolLit
)

// BinOp is the operator of a NodeBinary.
type BinOp uint8

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// NodeIndex addresses a node in the pool; 0 is "absent".
type NodeIndex = uint16

// Node is one fixed-size AST node. The meaning of the link and value
// fields depends on Kind:
//
//	Program:  Left=first top-level item
//	Function: Str=name, Left=first Param, Right=body chain
//	VarDecl:  Str=name, Left=init expr, Flag=1 when mutable
//	Assign:   Str=name, Left=value expr
//	If:       Left=cond, Right=then chain, Third=else chain
//	While:    Left=cond, Right=body chain
//	For:      Left=cond, Right=body chain, Third=post statement
//	Switch:   Left=selector expr, Right=first Case/Default
//	Case:     Val=match value, Right=body chain
//	Default:  Right=body chain
//	Return:   Left=value expr (0 = bare return)
//	Exit:     Left=status expr
//	ExprStmt: Left=expr
//	Binary:   Op, Left, Right
//	Call:     Str=callee name, Left=first argument (args chained via Next)
//	Ident:    Str=name
//	IntLit:   Val
//	FloatLit: Val=IEEE-754 bits
//	StrLit:   Str
//	BoolLit:  Val=0 or 1
type Node struct {
	Kind  NodeKind
	Op    BinOp
	Flag  uint8
	Left  NodeIndex
	Right NodeIndex
	Third NodeIndex
	Next  NodeIndex // right-threaded statement/argument chain
	Val   int64
	Str   StrRef
	Line  int32
}

// FloatVal decodes the float payload of a NodeFloatLit.
func (n *Node) FloatVal() float64 {
	return math.Float64frombits(uint64(n.Val))
}

// StrRef references an interned string as offset+length into the pool.
type StrRef struct {
	Off uint32
	Len uint16
}

// StringPool interns identifier and string-literal spellings.
type StringPool struct {
	data  []byte
	index map[string]StrRef
}

func NewStringPool() *StringPool {
	return &StringPool{index: make(map[string]StrRef)}
}

// Intern stores s once and returns its reference.
func (sp *StringPool) Intern(s string) StrRef {
	if ref, ok := sp.index[s]; ok {
		return ref
	}
	ref := StrRef{Off: uint32(len(sp.data)), Len: uint16(len(s))}
	sp.data = append(sp.data, s...)
	sp.index[s] = ref
	return ref
}

// Get resolves a reference back to its string.
func (sp *StringPool) Get(ref StrRef) string {
	return string(sp.data[ref.Off : ref.Off+uint32(ref.Len)])
}

// MaxNodes bounds the pool so indices always fit in 16 bits.
const MaxNodes = 0xFFFF

// NodePool owns the flat node array. Slot 0 is reserved as the sentinel.
type NodePool struct {
	nodes []Node
}

func NewNodePool() *NodePool {
	p := &NodePool{nodes: make([]Node, 1, 256)}
	return p
}

// Alloc appends a node and returns its index, or 0 when the pool is full
// (the caller must treat that as a fatal resource error).
func (p *NodePool) Alloc(n Node) NodeIndex {
	if len(p.nodes) >= MaxNodes {
		return 0
	}
	p.nodes = append(p.nodes, n)
	return NodeIndex(len(p.nodes) - 1)
}

// Get returns the node at idx. Index 0 and out-of-range indices return nil.
func (p *NodePool) Get(idx NodeIndex) *Node {
	if idx == 0 || int(idx) >= len(p.nodes) {
		return nil
	}
	return &p.nodes[idx]
}

// Len reports the number of allocated nodes, sentinel included.
func (p *NodePool) Len() int {
	return len(p.nodes)
}
