// Completion: 100% - Expression and statement generation complete
package main

import (
	"math"

	"github.com/COMMENTERTHE9/Blaze-sub000/internal/engine"
)

// codegen.go - Expression/statement generator
//
// One forward pass over the node pool. Every node kind has exactly one
// emission rule; the only generator state beyond the output cursor is the
// scope stack, the loop-context stack, and the sticky fatal error.
// Integer results land in rax, floating results in xmm0, with rcx/xmm1 as
// the right-operand scratch. Forward branches always reserve a 32-bit
// placeholder and are patched once the target offset is known, which is
// always before the enclosing construct finishes emitting.

// CodeGen owns all mutable compilation state, so several compilations can
// run in one process without sharing file-scope tables.
type CodeGen struct {
	out    *Out
	pool   *NodePool
	strs   *StringPool
	syms   *SymbolTable
	vars   *VarTable
	funcs  *FunctionTable
	labels *LabelManager
	loops  *LoopStack
	gggx   *GGGXHooks
	fatal  *CompilerError

	// pushDepth counts 8-byte pushes since the frame was established, so
	// a call site knows whether it needs an alignment pad.
	pushDepth int

	inFunction   bool
	returnsFloat bool
}

func NewCodeGen(out *Out, pool *NodePool, strs *StringPool) *CodeGen {
	return &CodeGen{
		out:    out,
		pool:   pool,
		strs:   strs,
		syms:   NewSymbolTable(),
		vars:   NewVarTable(),
		funcs:  NewFunctionTable(),
		labels: NewLabelManager(),
		loops:  NewLoopStack(),
		gggx:   NewGGGXHooks(),
	}
}

// setFatal records the first fatal error; later ones are dropped so the
// diagnostic the user sees is the most informative one, not the cascade.
func (cg *CodeGen) setFatal(err *CompilerError) {
	if cg.fatal == nil {
		cg.fatal = err
	}
}

func (cg *CodeGen) fatalAt(n *Node, cat ErrorCategory, format string, args ...interface{}) {
	err := errorf(cat, format, args...)
	if n != nil {
		err.Line = int(n.Line)
	}
	cg.setFatal(err)
}

// Generate compiles the whole program: entry code built from the
// top-level statements first, then every function body. Returns the first
// fatal error, or nil with all fixups resolved.
func (cg *CodeGen) Generate(root NodeIndex) *CompilerError {
	prog := cg.pool.Get(root)
	if prog == nil || prog.Kind != NodeProgram {
		return errorf(CategoryInternal, "root node is not a program")
	}

	cg.declareFunctions(prog.Left)
	cg.genEntry(prog.Left)

	for idx := prog.Left; idx != 0; {
		n := cg.pool.Get(idx)
		if n == nil {
			break
		}
		if n.Kind == NodeFunction {
			cg.genFunction(idx)
		}
		idx = n.Next
	}

	if cg.fatal != nil {
		return cg.fatal
	}
	if err := cg.funcs.CheckResolved(); err != nil {
		return err
	}
	if err := cg.labels.Resolve(cg.out.buf); err != nil {
		return err
	}
	if cg.out.buf.Overflowed() {
		return errorf(CategoryResource, "code buffer overflow: segment budget exhausted")
	}
	return nil
}

// declareFunctions pre-scans the top level so a call emitted before its
// callee's body still knows the arity and result kind.
func (cg *CodeGen) declareFunctions(first NodeIndex) {
	for idx := first; idx != 0; {
		n := cg.pool.Get(idx)
		if n == nil {
			return
		}
		if n.Kind == NodeFunction {
			params := 0
			for p := n.Left; p != 0; {
				pn := cg.pool.Get(p)
				if pn == nil {
					break
				}
				params++
				p = pn.Next
			}
			cg.funcs.Declare(cg.strs.Get(n.Str), params, cg.scanReturnsFloat(n.Right))
		}
		idx = n.Next
	}
}

// scanReturnsFloat looks for a return of a floating expression. Variable
// references are unknowable before the body is compiled and count as
// integer, which only costs a conversion at the call site.
func (cg *CodeGen) scanReturnsFloat(first NodeIndex) bool {
	for idx := first; idx != 0; {
		n := cg.pool.Get(idx)
		if n == nil {
			return false
		}
		switch n.Kind {
		case NodeReturn:
			if n.Left != 0 && cg.literalFloat(n.Left) {
				return true
			}
		case NodeIf:
			if cg.scanReturnsFloat(n.Right) || cg.scanReturnsFloat(n.Third) {
				return true
			}
		case NodeWhile, NodeFor:
			if cg.scanReturnsFloat(n.Right) {
				return true
			}
		case NodeSwitch:
			for c := n.Right; c != 0; {
				cn := cg.pool.Get(c)
				if cn == nil {
					break
				}
				if cg.scanReturnsFloat(cn.Right) {
					return true
				}
				c = cn.Next
			}
		}
		idx = n.Next
	}
	return false
}

// literalFloat decides float-ness from literals and operators alone.
func (cg *CodeGen) literalFloat(idx NodeIndex) bool {
	n := cg.pool.Get(idx)
	if n == nil {
		return false
	}
	switch n.Kind {
	case NodeFloatLit:
		return true
	case NodeBinary:
		if n.Op > OpMod {
			return false
		}
		return cg.literalFloat(n.Left) || cg.literalFloat(n.Right)
	default:
		return false
	}
}

// isFloatExpr decides which instruction family an operand subtree needs:
// a float literal, an arithmetic node with a floating operand, a call to
// a function known to return floating, or a variable declared floating.
func (cg *CodeGen) isFloatExpr(idx NodeIndex) bool {
	n := cg.pool.Get(idx)
	if n == nil {
		return false
	}
	switch n.Kind {
	case NodeFloatLit:
		return true
	case NodeBinary:
		// Comparisons normalize to an integer 0/1 whatever they compare.
		if n.Op > OpMod {
			return false
		}
		return cg.isFloatExpr(n.Left) || cg.isFloatExpr(n.Right)
	case NodeCall:
		if e := cg.funcs.Lookup(cg.strs.Get(n.Str)); e != nil {
			return e.ReturnsFloat
		}
		return false
	case NodeIdent:
		if sym := cg.syms.Lookup(cg.strs.Get(n.Str)); sym != nil {
			return sym.IsFloat
		}
		return false
	default:
		return false
	}
}

// reserveFrame emits SUB RSP, imm32 with a zeroed placeholder and returns
// the placeholder's offset. The final frame size is not known until the
// body's peak slot count is, so the full imm32 form is kept even for
// small frames.
func (cg *CodeGen) reserveFrame() int {
	cg.out.trace("sub rsp, <frame>")
	cg.out.Write(0x48)
	cg.out.Write(0x81)
	cg.out.Write(0xEC)
	patchAt := cg.out.Position()
	cg.out.Write4(0)
	return patchAt
}

func alignFrame(bytes int) int {
	return (bytes + 15) &^ 15
}

// genEntry compiles the top-level statements into the image's entry code
// at offset zero, ending in an explicit exit(0) so control never falls
// through into the first function body.
func (cg *CodeGen) genEntry(first NodeIndex) {
	cg.out.PushReg("rbp")
	cg.out.MovRegToReg("rbp", "rsp")
	framePatch := cg.reserveFrame()

	cg.inFunction = false
	cg.pushDepth = 0
	for idx := first; idx != 0; {
		n := cg.pool.Get(idx)
		if n == nil {
			break
		}
		if n.Kind != NodeFunction {
			cg.genStatement(idx)
		}
		idx = n.Next
	}
	cg.out.ExitWithCode(0)

	// Process entry rsp is 16-aligned; push rbp left it 8 off, so the
	// entry frame carries an extra 8 to restore call-site alignment.
	cg.out.buf.Patch32(framePatch, uint32(alignFrame(8*cg.syms.FrameSlots())+8))
}

func (cg *CodeGen) genFunction(idx NodeIndex) {
	n := cg.pool.Get(idx)
	name := cg.strs.Get(n.Str)

	cg.syms.Reset()
	cg.vars.Reset()
	entry := cg.funcs.Lookup(name)
	if err := cg.funcs.Define(name, cg.out.Position(), cg.out); err != nil {
		err.Line = int(n.Line)
		cg.setFatal(err)
		return
	}

	cg.inFunction = true
	cg.returnsFloat = entry != nil && entry.ReturnsFloat
	cg.pushDepth = 0
	cg.gggx.BeforeFunction(cg.out, name)

	cg.out.PushReg("rbp")
	cg.out.MovRegToReg("rbp", "rsp")
	framePatch := cg.reserveFrame()

	// Bind parameters to variable storage straight from the argument
	// registers. The variable pool is clobberable by the callee, so no
	// save is needed here.
	argIdx := 0
	for p := n.Left; p != 0; {
		pn := cg.pool.Get(p)
		if pn == nil {
			break
		}
		if argIdx >= len(ArgumentRegisters) {
			cg.fatalAt(pn, CategoryResource, "function '%s' has more than %d parameters", name, len(ArgumentRegisters))
			return
		}
		pname := cg.strs.Get(pn.Str)
		sym, err := cg.syms.AddVariable(pname, true, false)
		if err != nil {
			err.Line = int(pn.Line)
			cg.setFatal(err)
			return
		}
		cg.storeToSymbol(sym, ArgumentRegisters[argIdx])
		argIdx++
		p = pn.Next
	}

	cg.genStmtChain(n.Right)

	// Fall-off-the-end return yields integer zero.
	cg.out.MovImmToReg("rax", 0)
	cg.emitEpilogue()
	cg.gggx.AfterFunction(cg.out, name)

	cg.out.buf.Patch32(framePatch, uint32(alignFrame(8*cg.syms.FrameSlots())))
	cg.inFunction = false
}

func (cg *CodeGen) emitEpilogue() {
	cg.out.MovRegToReg("rsp", "rbp")
	cg.out.PopReg("rbp")
	cg.out.Ret()
}

// storeToSymbol moves a GP register's value into a symbol's storage.
func (cg *CodeGen) storeToSymbol(sym *Symbol, src string) {
	switch sym.Storage {
	case StorageRegister:
		cg.out.MovRegToReg(sym.Register, src)
	case StorageStack:
		cg.out.MovRegToMem(src, "rbp", sym.Offset)
	}
}

// loadFromSymbol moves a symbol's value into a GP register.
func (cg *CodeGen) loadFromSymbol(dst string, sym *Symbol) {
	switch sym.Storage {
	case StorageRegister:
		cg.out.MovRegToReg(dst, sym.Register)
	case StorageStack:
		cg.out.MovMemToReg(dst, "rbp", sym.Offset)
	}
}

func (cg *CodeGen) genStmtChain(first NodeIndex) {
	for idx := first; idx != 0; {
		n := cg.pool.Get(idx)
		if n == nil {
			return
		}
		cg.genStatement(idx)
		idx = n.Next
	}
}

func (cg *CodeGen) genStatement(idx NodeIndex) {
	if cg.fatal != nil {
		return
	}
	n := cg.pool.Get(idx)
	if n == nil {
		return
	}

	switch n.Kind {
	case NodeVarDecl:
		cg.genVarDecl(n)
	case NodeAssign:
		cg.genAssign(n)
	case NodeIf:
		cg.genIf(n)
	case NodeWhile:
		cg.genWhile(n)
	case NodeFor:
		cg.genFor(n)
	case NodeSwitch:
		cg.genSwitch(n)
	case NodeBreak:
		cg.genBreak(n)
	case NodeContinue:
		cg.genContinue(n)
	case NodeReturn:
		cg.genReturn(n)
	case NodeExit:
		cg.genCondInt(n.Left)
		cg.out.ExitWithRax()
	case NodeExprStmt:
		if cg.isFloatExpr(n.Left) {
			cg.genFloatExpr(n.Left)
		} else {
			cg.genExpr(n.Left)
		}
	case NodeFunction:
		// Nested definitions are not part of the language; top-level ones
		// are compiled by Generate's second sweep.
		cg.fatalAt(n, CategorySyntax, "nested function definitions are not supported")
	default:
		cg.fatalAt(n, CategoryInternal, "statement walker hit node kind %d", n.Kind)
	}
}

func valueKindOf(cg *CodeGen, init NodeIndex, isFloat bool) ValueKind {
	if isFloat {
		return ValueFloat
	}
	n := cg.pool.Get(init)
	if n != nil {
		switch n.Kind {
		case NodeStrLit:
			return ValueString
		case NodeBoolLit:
			return ValueBool
		}
	}
	return ValueInt
}

func (cg *CodeGen) genVarDecl(n *Node) {
	name := cg.strs.Get(n.Str)
	isFloat := cg.isFloatExpr(n.Left)

	if isFloat {
		cg.genFloatExpr(n.Left)
		cg.out.MovqXmmToReg("rax", "xmm0")
	} else {
		cg.genExpr(n.Left)
	}

	sym, err := cg.syms.AddVariable(name, n.Flag == 1, isFloat)
	if err != nil {
		err.Line = int(n.Line)
		cg.setFatal(err)
		return
	}
	cg.storeToSymbol(sym, "rax")
	if sym.Storage == StorageStack {
		cg.vars.Bind(sym.NameHash, sym.Offset, valueKindOf(cg, n.Left, isFloat))
		cg.vars.MarkInitialized(sym.NameHash)
	}
}

func (cg *CodeGen) genAssign(n *Node) {
	name := cg.strs.Get(n.Str)
	sym := cg.syms.Lookup(name)
	if sym == nil {
		msg := "assignment to undefined variable '" + name + "'"
		if hint := engine.ClosestName(name, cg.syms.VisibleNames()); hint != "" {
			msg += " (did you mean '" + hint + "'?)"
		}
		cg.fatalAt(n, CategoryUnresolved, "%s", msg)
		return
	}
	if !sym.Mutable {
		cg.fatalAt(n, CategoryUnresolved, "cannot assign to immutable variable '%s'", name)
		return
	}

	if sym.IsFloat || cg.isFloatExpr(n.Left) {
		cg.genFloatExpr(n.Left)
		cg.out.MovqXmmToReg("rax", "xmm0")
		sym.IsFloat = true
	} else {
		cg.genExpr(n.Left)
	}
	cg.storeToSymbol(sym, "rax")
	if sym.Storage == StorageStack {
		cg.vars.MarkInitialized(sym.NameHash)
	}
}

// genCondInt evaluates a condition into rax as an integer, converting a
// floating value by truncation.
func (cg *CodeGen) genCondInt(idx NodeIndex) {
	if cg.isFloatExpr(idx) {
		cg.genFloatExpr(idx)
		cg.out.Cvttsd2si("rax", "xmm0")
		return
	}
	cg.genExpr(idx)
}

func (cg *CodeGen) genIf(n *Node) {
	cg.genCondInt(n.Left)
	cg.out.CmpRegToImm("rax", 0)
	skipThen := cg.out.JumpConditionalForward(JumpEqual)

	cg.syms.PushScope()
	cg.genStmtChain(n.Right)
	cg.syms.PopScope()

	if n.Third != 0 {
		skipElse := cg.out.JumpForward()
		cg.out.PatchJump(skipThen, cg.out.Position())
		cg.syms.PushScope()
		// An else-if chain arrives as a single NodeIf in the else slot and
		// is just a one-statement chain here.
		cg.genStmtChain(n.Third)
		cg.syms.PopScope()
		cg.out.PatchJump(skipElse, cg.out.Position())
		return
	}
	cg.out.PatchJump(skipThen, cg.out.Position())
}

func (cg *CodeGen) genWhile(n *Node) {
	start := cg.out.Position()
	if err := cg.loops.Push(start); err != nil {
		err.Line = int(n.Line)
		cg.setFatal(err)
		return
	}

	cg.genCondInt(n.Left)
	cg.out.CmpRegToImm("rax", 0)
	exitJump := cg.out.JumpConditionalForward(JumpEqual)

	cg.syms.PushScope()
	cg.genStmtChain(n.Right)
	cg.syms.PopScope()
	cg.out.JumpBackward(start)

	exit := cg.out.Position()
	cg.out.PatchJump(exitJump, exit)
	ctx := cg.loops.Pop()
	for _, site := range ctx.breakSites {
		cg.out.PatchJump(site, exit)
	}
	for _, site := range ctx.continueSites {
		cg.out.PatchJump(site, start)
	}
}

// genFor emits cond, body, post, back-jump. continue must run the post
// statement, so its placeholders are patched to the post offset rather
// than the condition re-check.
func (cg *CodeGen) genFor(n *Node) {
	start := cg.out.Position()
	if err := cg.loops.Push(start); err != nil {
		err.Line = int(n.Line)
		cg.setFatal(err)
		return
	}

	exitJump := -1
	if n.Left != 0 {
		cg.genCondInt(n.Left)
		cg.out.CmpRegToImm("rax", 0)
		exitJump = cg.out.JumpConditionalForward(JumpEqual)
	}

	cg.syms.PushScope()
	cg.genStmtChain(n.Right)

	postOffset := cg.out.Position()
	if n.Third != 0 {
		cg.genStatement(n.Third)
	}
	cg.syms.PopScope()
	cg.out.JumpBackward(start)

	exit := cg.out.Position()
	if exitJump >= 0 {
		cg.out.PatchJump(exitJump, exit)
	}
	ctx := cg.loops.Pop()
	for _, site := range ctx.breakSites {
		cg.out.PatchJump(site, exit)
	}
	for _, site := range ctx.continueSites {
		cg.out.PatchJump(site, postOffset)
	}
}

// genSwitch lowers to a linear chain of equality tests, each branching to
// its case body; the bodies are emitted in declaration order with no
// implicit break, so a matched case runs every following body until an
// explicit transfer. That fallthrough is deliberate language behavior.
// Body addresses go through the label manager: every dispatch branch is a
// forward reference to a body label bound later in the same pass.
func (cg *CodeGen) genSwitch(n *Node) {
	cg.genCondInt(n.Left)

	type pendingCase struct {
		node  *Node
		label int
	}
	var cases []pendingCase
	defaultIdx := -1

	addBranch := func(label int) {
		site := cg.out.JumpConditionalForward(JumpEqual)
		if err := cg.labels.AddFixup(label, site, Fixup32, true); err != nil {
			cg.setFatal(err)
		}
	}

	for c := n.Right; c != 0; {
		cn := cg.pool.Get(c)
		if cn == nil {
			break
		}
		switch cn.Kind {
		case NodeCase:
			label := cg.labels.NewLabel()
			if fitsInt32(cn.Val) {
				cg.out.CmpRegToImm("rax", cn.Val)
			} else {
				cg.out.MovImmToReg("rcx", cn.Val)
				cg.out.CmpRegToReg("rax", "rcx")
			}
			addBranch(label)
			cases = append(cases, pendingCase{node: cn, label: label})
		case NodeDefault:
			if defaultIdx >= 0 {
				cg.fatalAt(cn, CategorySyntax, "switch has more than one default case")
				return
			}
			defaultIdx = len(cases)
			cases = append(cases, pendingCase{node: cn, label: cg.labels.NewLabel()})
		}
		c = cn.Next
	}

	// No case matched: jump to the default body or past the whole switch.
	missLabel := cg.labels.NewLabel()
	missSite := cg.out.JumpForward()
	missTarget := missLabel
	if defaultIdx >= 0 {
		missTarget = cases[defaultIdx].label
	}
	if err := cg.labels.AddFixup(missTarget, missSite, Fixup32, true); err != nil {
		cg.setFatal(err)
	}

	cg.syms.PushScope()
	for _, pc := range cases {
		if err := cg.labels.Bind(pc.label, cg.out.Position()); err != nil {
			cg.setFatal(err)
			return
		}
		cg.genStmtChain(pc.node.Right)
	}
	cg.syms.PopScope()

	if err := cg.labels.Bind(missLabel, cg.out.Position()); err != nil {
		cg.setFatal(err)
	}
}

func (cg *CodeGen) genBreak(n *Node) {
	ctx := cg.loops.Current()
	if ctx == nil {
		cg.fatalAt(n, CategoryUnresolved, "break outside of a loop")
		return
	}
	ctx.AddBreak(cg.out.JumpForward())
}

func (cg *CodeGen) genContinue(n *Node) {
	ctx := cg.loops.Current()
	if ctx == nil {
		cg.fatalAt(n, CategoryUnresolved, "continue outside of a loop")
		return
	}
	ctx.AddContinue(cg.out.JumpForward())
}

func (cg *CodeGen) genReturn(n *Node) {
	if !cg.inFunction {
		// Top-level return ends the program with the value as the status.
		if n.Left != 0 {
			cg.genCondInt(n.Left)
			cg.out.ExitWithRax()
		} else {
			cg.out.ExitWithCode(0)
		}
		return
	}

	if n.Left == 0 {
		cg.out.MovImmToReg("rax", 0)
	} else if cg.returnsFloat {
		cg.genFloatExpr(n.Left)
	} else {
		cg.genCondInt(n.Left)
	}
	cg.emitEpilogue()
}

// pushTemp spills rax; popTemp restores into dst. Both keep the depth
// counter honest for call-site alignment.
func (cg *CodeGen) pushTemp() {
	cg.out.PushReg("rax")
	cg.pushDepth++
}

func (cg *CodeGen) popTemp(dst string) {
	cg.out.PopReg(dst)
	cg.pushDepth--
}

// genExpr evaluates an integer expression into rax.
func (cg *CodeGen) genExpr(idx NodeIndex) {
	if cg.fatal != nil {
		return
	}
	n := cg.pool.Get(idx)
	if n == nil {
		cg.setFatal(errorf(CategoryInternal, "expression walker hit absent node"))
		return
	}

	switch n.Kind {
	case NodeIntLit:
		cg.out.MovImmToReg("rax", n.Val)
	case NodeBoolLit:
		cg.out.MovImmToReg("rax", n.Val)
	case NodeFloatLit:
		// Integer context: truncate.
		cg.genFloatExpr(idx)
		cg.out.Cvttsd2si("rax", "xmm0")
	case NodeStrLit:
		cg.genStringLit(n)
	case NodeIdent:
		cg.genIdent(n)
	case NodeCall:
		cg.genCall(n)
	case NodeBinary:
		cg.genBinary(n)
	default:
		cg.fatalAt(n, CategoryInternal, "expression walker hit node kind %d", n.Kind)
	}
}

func (cg *CodeGen) genIdent(n *Node) {
	name := cg.strs.Get(n.Str)
	sym := cg.syms.Lookup(name)
	if sym == nil {
		msg := "undefined variable '" + name + "'"
		if hint := engine.ClosestName(name, cg.syms.VisibleNames()); hint != "" {
			msg += " (did you mean '" + hint + "'?)"
		}
		cg.fatalAt(n, CategoryUnresolved, "%s", msg)
		return
	}
	if sym.Storage == StorageStack {
		if e := cg.vars.Lookup(sym.NameHash); e != nil && !e.Initialized {
			cg.fatalAt(n, CategoryInternal, "slot for '%s' read before initialization", name)
			return
		}
	}
	cg.loadFromSymbol("rax", sym)
}

// genStringLit inlines the bytes right into the code stream: jump over
// the data, then LEA the data's address rip-relative into rax. The
// string is NUL-terminated for syscall consumers.
func (cg *CodeGen) genStringLit(n *Node) {
	s := cg.strs.Get(n.Str)
	skip := cg.out.JumpForward()
	dataStart := cg.out.Position()
	for i := 0; i < len(s); i++ {
		cg.out.Write(s[i])
	}
	cg.out.Write(0)
	after := cg.out.Position()
	cg.out.PatchJump(skip, after)
	// LEA rip-relative is 7 bytes; the displacement is measured from the
	// instruction's end.
	cg.out.LeaRipRelative("rax", int32(dataStart-(after+7)))
}

// fitsInt32 reports whether v survives a sign-extended imm32 encoding.
func fitsInt32(v int64) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}

// powerOfTwo returns the shift count when v is a power of two >= 2.
func powerOfTwo(v int64) (uint8, bool) {
	if v < 2 || v&(v-1) != 0 {
		return 0, false
	}
	var n uint8
	for v > 1 {
		v >>= 1
		n++
	}
	return n, true
}

func (cg *CodeGen) intLitValue(idx NodeIndex) (int64, bool) {
	n := cg.pool.Get(idx)
	if n == nil || n.Kind != NodeIntLit {
		return 0, false
	}
	return n.Val, true
}

var comparisonConditions = map[BinOp]JumpCondition{
	OpEq: JumpEqual,
	OpNe: JumpNotEqual,
	OpLt: JumpLess,
	OpLe: JumpLessOrEqual,
	OpGt: JumpGreater,
	OpGe: JumpGreaterOrEqual,
}

// Float comparisons use the unsigned conditions: ucomisd sets CF/ZF, not
// SF/OF.
var floatComparisonConditions = map[BinOp]JumpCondition{
	OpEq: JumpEqual,
	OpNe: JumpNotEqual,
	OpLt: JumpBelow,
	OpLe: JumpBelowOrEqual,
	OpGt: JumpAbove,
	OpGe: JumpAboveOrEqual,
}

func (cg *CodeGen) genBinary(n *Node) {
	if cond, isCmp := comparisonConditions[n.Op]; isCmp {
		if cg.isFloatExpr(n.Left) || cg.isFloatExpr(n.Right) {
			cg.genFloatPair(n)
			cg.out.Ucomisd("xmm0", "xmm1")
			cg.out.SetConditionToRax(floatComparisonConditions[n.Op])
			return
		}
		cg.genIntPair(n)
		cg.out.CmpRegToReg("rax", "rcx")
		cg.out.SetConditionToRax(cond)
		return
	}

	if cg.genPeephole(n) {
		return
	}

	cg.genIntPair(n)
	switch n.Op {
	case OpAdd:
		cg.out.AddRegToReg("rax", "rcx")
	case OpSub:
		cg.out.SubRegFromReg("rax", "rcx")
	case OpMul:
		cg.out.MulRegByReg("rax", "rcx")
	case OpDiv:
		cg.out.Cqo()
		cg.out.IDivReg("rcx")
	case OpMod:
		cg.out.Cqo()
		cg.out.IDivReg("rcx")
		cg.out.MovRegToReg("rax", "rdx")
	default:
		cg.fatalAt(n, CategoryInternal, "binary walker hit operator %d", n.Op)
	}
}

// genIntPair leaves left in rax and right in rcx. Right first, spilled
// across the left evaluation.
func (cg *CodeGen) genIntPair(n *Node) {
	cg.genExpr(n.Right)
	cg.pushTemp()
	cg.genExpr(n.Left)
	cg.popTemp("rcx")
}

// genPeephole handles the constant-operand strengths reductions: add or
// subtract one becomes inc/dec, multiply by a power of two becomes a
// shift, multiply by 3/5/9 becomes one scaled-index LEA. Results are
// identical to the generic path. Constants outside the sign-extended
// imm32 range take the generic movabs path instead.
func (cg *CodeGen) genPeephole(n *Node) bool {
	switch n.Op {
	case OpAdd:
		if v, ok := cg.intLitValue(n.Right); ok && fitsInt32(v) {
			cg.genExpr(n.Left)
			cg.emitAddConst(v)
			return true
		}
		if v, ok := cg.intLitValue(n.Left); ok && fitsInt32(v) {
			cg.genExpr(n.Right)
			cg.emitAddConst(v)
			return true
		}
	case OpSub:
		if v, ok := cg.intLitValue(n.Right); ok && fitsInt32(v) && fitsInt32(-v) {
			cg.genExpr(n.Left)
			cg.emitAddConst(-v)
			return true
		}
	case OpMul:
		lit, other := NodeIndex(0), NodeIndex(0)
		if _, ok := cg.intLitValue(n.Right); ok {
			lit, other = n.Right, n.Left
		} else if _, ok := cg.intLitValue(n.Left); ok {
			lit, other = n.Left, n.Right
		}
		if lit == 0 {
			return false
		}
		v, _ := cg.intLitValue(lit)
		if shift, ok := powerOfTwo(v); ok {
			cg.genExpr(other)
			cg.out.ShlRegByImm("rax", shift)
			return true
		}
		switch v {
		case 3, 5, 9:
			cg.genExpr(other)
			cg.out.LeaScaledIndex("rax", "rax", "rax", uint8(v-1))
			return true
		}
	}
	return false
}

func (cg *CodeGen) emitAddConst(v int64) {
	switch {
	case v == 0:
	case v == 1:
		cg.out.IncReg("rax")
	case v == -1:
		cg.out.DecReg("rax")
	default:
		cg.out.AddImmToReg("rax", v)
	}
}

// genFloatExpr evaluates a floating expression into xmm0, converting
// integer subtrees on the way in.
func (cg *CodeGen) genFloatExpr(idx NodeIndex) {
	if cg.fatal != nil {
		return
	}
	n := cg.pool.Get(idx)
	if n == nil {
		cg.setFatal(errorf(CategoryInternal, "expression walker hit absent node"))
		return
	}

	switch n.Kind {
	case NodeFloatLit:
		cg.out.MovImmToReg("rax", n.Val)
		cg.out.MovqRegToXmm("xmm0", "rax")
	case NodeIdent:
		name := cg.strs.Get(n.Str)
		sym := cg.syms.Lookup(name)
		if sym == nil {
			cg.fatalAt(n, CategoryUnresolved, "undefined variable '%s'", name)
			return
		}
		if sym.IsFloat {
			switch sym.Storage {
			case StorageRegister:
				cg.out.MovqRegToXmm("xmm0", sym.Register)
			case StorageStack:
				cg.out.MovsdMemToXmm("xmm0", "rbp", sym.Offset)
			}
			return
		}
		cg.loadFromSymbol("rax", sym)
		cg.out.Cvtsi2sd("xmm0", "rax")
	case NodeCall:
		cg.genCall(n)
		if e := cg.funcs.Lookup(cg.strs.Get(n.Str)); e == nil || !e.ReturnsFloat {
			cg.out.Cvtsi2sd("xmm0", "rax")
		}
	case NodeBinary:
		if n.Op > OpMod {
			// Comparison: an integer 0/1, converted.
			cg.genBinary(n)
			cg.out.Cvtsi2sd("xmm0", "rax")
			return
		}
		cg.genFloatPair(n)
		switch n.Op {
		case OpAdd:
			cg.out.AddsdXmm("xmm0", "xmm1")
		case OpSub:
			cg.out.SubsdXmm("xmm0", "xmm1")
		case OpMul:
			cg.out.MulsdXmm("xmm0", "xmm1")
		case OpDiv:
			cg.out.DivsdXmm("xmm0", "xmm1")
		case OpMod:
			cg.fatalAt(n, CategorySyntax, "'%%' is not defined for floating values")
		}
	default:
		// Integer-valued subtree in a floating context.
		cg.genExpr(idx)
		cg.out.Cvtsi2sd("xmm0", "rax")
	}
}

// genFloatPair leaves left in xmm0 and right in xmm1, spilling the right
// operand through the stack as raw bits.
func (cg *CodeGen) genFloatPair(n *Node) {
	cg.genFloatExpr(n.Right)
	cg.out.MovqXmmToReg("rax", "xmm0")
	cg.pushTemp()
	cg.genFloatExpr(n.Left)
	cg.popTemp("rax")
	cg.out.MovqRegToXmm("xmm1", "rax")
}

// genCall lowers a call: save the caller-saved set, evaluate arguments
// left to right pushing each, pop them in reverse into the argument
// registers, pad the stack to 16-byte call-site alignment when the push
// depth is odd, call (direct or via a pending fixup), then unwind.
func (cg *CodeGen) genCall(n *Node) {
	name := cg.strs.Get(n.Str)

	argc := 0
	for a := n.Left; a != 0; {
		an := cg.pool.Get(a)
		if an == nil {
			break
		}
		argc++
		a = an.Next
	}
	if argc > len(ArgumentRegisters) {
		cg.fatalAt(n, CategoryResource, "call to '%s' passes more than %d arguments", name, len(ArgumentRegisters))
		return
	}

	entry := cg.funcs.Lookup(name)
	if entry != nil && entry.ParamCount != argc {
		cg.fatalAt(n, CategoryUnresolved, "function '%s' takes %d arguments, got %d", name, entry.ParamCount, argc)
		return
	}
	if entry == nil {
		entry = cg.funcs.Declare(name, argc, false)
	}

	for _, r := range CallerSavedRegisters {
		cg.out.PushReg(r)
		cg.pushDepth++
	}

	for a := n.Left; a != 0; {
		an := cg.pool.Get(a)
		if an == nil {
			break
		}
		if cg.isFloatExpr(a) {
			cg.genFloatExpr(a)
			cg.out.MovqXmmToReg("rax", "xmm0")
		} else {
			cg.genExpr(a)
		}
		cg.pushTemp()
		a = an.Next
	}
	for i := argc - 1; i >= 0; i-- {
		cg.popTemp(ArgumentRegisters[i])
	}

	pad := cg.pushDepth%2 == 1
	if pad {
		cg.out.SubImmFromReg("rsp", 8)
	}
	if entry.Defined {
		cg.out.CallToOffset(entry.Offset)
	} else {
		cg.funcs.AddFixup(name, cg.out.CallForward(), n.Line)
	}
	if pad {
		cg.out.AddImmToReg("rsp", 8)
	}

	for i := len(CallerSavedRegisters) - 1; i >= 0; i-- {
		cg.out.PopReg(CallerSavedRegisters[i])
		cg.pushDepth--
	}
}
