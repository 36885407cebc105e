// Completion: 100% - Recursive-descent parser complete
package main

import (
	"math"
)

// Parser builds the node pool from the token stream. One instance per
// compilation; it owns nothing after Parse returns.
type Parser struct {
	toks  []Token
	pos   int
	pool  *NodePool
	strs  *StringPool
	fatal *CompilerError
}

func NewParser(toks []Token, pool *NodePool, strs *StringPool) *Parser {
	return &Parser{toks: toks, pool: pool, strs: strs}
}

func (p *Parser) cur() Token {
	return p.toks[p.pos]
}

func (p *Parser) at(k TokenKind) bool {
	return p.toks[p.pos].Kind == k
}

func (p *Parser) advance() Token {
	t := p.toks[p.pos]
	if t.Kind != TokEOF {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k TokenKind) Token {
	if !p.at(k) {
		p.fail("expected %s, got %s", k, p.cur().Kind)
		return p.cur()
	}
	return p.advance()
}

func (p *Parser) fail(format string, args ...interface{}) {
	if p.fatal == nil {
		e := errorf(CategorySyntax, format, args...)
		e.Line = p.cur().Line
		p.fatal = e
	}
}

// chainTail follows Next links to the last node of a statement chain.
// parseFor returns a multi-node chain (init followed by the loop), so an
// appender that kept the head as its tail would overwrite the link and
// lose everything after it.
func (p *Parser) chainTail(idx NodeIndex) NodeIndex {
	for {
		n := p.pool.Get(idx)
		if n == nil || n.Next == 0 {
			return idx
		}
		idx = n.Next
	}
}

// alloc wraps pool allocation with the pool-full fatal.
func (p *Parser) alloc(n Node) NodeIndex {
	n.Line = int32(p.cur().Line)
	idx := p.pool.Alloc(n)
	if idx == 0 && p.fatal == nil {
		p.fatal = errorf(CategoryResource, "AST node pool exhausted (max %d nodes)", MaxNodes)
	}
	return idx
}

// Parse consumes the whole token stream and returns the root program node.
func (p *Parser) Parse() (NodeIndex, *CompilerError) {
	root := p.alloc(Node{Kind: NodeProgram})
	var tail NodeIndex
	for !p.at(TokEOF) && p.fatal == nil {
		var item NodeIndex
		if p.at(TokFunc) {
			item = p.parseFunction()
		} else {
			item = p.parseStatement()
		}
		if p.fatal != nil {
			break
		}
		if tail == 0 {
			p.pool.Get(root).Left = item
		} else {
			p.pool.Get(tail).Next = item
		}
		tail = p.chainTail(item)
	}
	return root, p.fatal
}

func (p *Parser) parseFunction() NodeIndex {
	p.expect(TokFunc)
	name := p.expect(TokIdent)
	fn := p.alloc(Node{Kind: NodeFunction, Str: p.strs.Intern(name.Text)})
	p.expect(TokLParen)
	var paramTail NodeIndex
	for !p.at(TokRParen) && p.fatal == nil {
		if paramTail != 0 {
			p.expect(TokComma)
		}
		pname := p.expect(TokIdent)
		param := p.alloc(Node{Kind: NodeParam, Str: p.strs.Intern(pname.Text)})
		if paramTail == 0 {
			p.pool.Get(fn).Left = param
		} else {
			p.pool.Get(paramTail).Next = param
		}
		paramTail = param
	}
	p.expect(TokRParen)
	body := p.parseBlock()
	if n := p.pool.Get(fn); n != nil {
		n.Right = body
	}
	return fn
}

// parseBlock parses `{ stmt* }` and returns the first statement of the
// right-threaded chain (0 for an empty block).
func (p *Parser) parseBlock() NodeIndex {
	p.expect(TokLBrace)
	var head, tail NodeIndex
	for !p.at(TokRBrace) && !p.at(TokEOF) && p.fatal == nil {
		stmt := p.parseStatement()
		if p.fatal != nil {
			break
		}
		if head == 0 {
			head = stmt
		} else {
			p.pool.Get(tail).Next = stmt
		}
		tail = p.chainTail(stmt)
	}
	p.expect(TokRBrace)
	return head
}

func (p *Parser) parseStatement() NodeIndex {
	switch p.cur().Kind {
	case TokVar, TokLet:
		mutable := p.advance().Kind == TokVar
		name := p.expect(TokIdent)
		p.expect(TokAssign)
		init := p.parseExpr()
		p.expect(TokSemicolon)
		flag := uint8(0)
		if mutable {
			flag = 1
		}
		return p.alloc(Node{Kind: NodeVarDecl, Str: p.strs.Intern(name.Text), Left: init, Flag: flag})

	case TokIf:
		return p.parseIf()

	case TokWhile:
		p.advance()
		p.expect(TokLParen)
		cond := p.parseExpr()
		p.expect(TokRParen)
		body := p.parseBlock()
		return p.alloc(Node{Kind: NodeWhile, Left: cond, Right: body})

	case TokFor:
		return p.parseFor()

	case TokSwitch:
		return p.parseSwitch()

	case TokBreak:
		p.advance()
		p.expect(TokSemicolon)
		return p.alloc(Node{Kind: NodeBreak})

	case TokContinue:
		p.advance()
		p.expect(TokSemicolon)
		return p.alloc(Node{Kind: NodeContinue})

	case TokReturn:
		p.advance()
		var val NodeIndex
		if !p.at(TokSemicolon) {
			val = p.parseExpr()
		}
		p.expect(TokSemicolon)
		return p.alloc(Node{Kind: NodeReturn, Left: val})

	case TokExit:
		p.advance()
		p.expect(TokLParen)
		status := p.parseExpr()
		p.expect(TokRParen)
		p.expect(TokSemicolon)
		return p.alloc(Node{Kind: NodeExit, Left: status})

	case TokIdent:
		// Assignment or expression statement; both start with an identifier.
		if p.toks[p.pos+1].Kind == TokAssign {
			name := p.advance()
			p.advance()
			val := p.parseExpr()
			p.expect(TokSemicolon)
			return p.alloc(Node{Kind: NodeAssign, Str: p.strs.Intern(name.Text), Left: val})
		}
		expr := p.parseExpr()
		p.expect(TokSemicolon)
		return p.alloc(Node{Kind: NodeExprStmt, Left: expr})

	default:
		expr := p.parseExpr()
		p.expect(TokSemicolon)
		return p.alloc(Node{Kind: NodeExprStmt, Left: expr})
	}
}

func (p *Parser) parseIf() NodeIndex {
	p.expect(TokIf)
	p.expect(TokLParen)
	cond := p.parseExpr()
	p.expect(TokRParen)
	then := p.parseBlock()
	var els NodeIndex
	if p.at(TokElse) {
		p.advance()
		if p.at(TokIf) {
			els = p.parseIf()
		} else {
			els = p.parseBlock()
		}
	}
	return p.alloc(Node{Kind: NodeIf, Left: cond, Right: then, Third: els})
}

// parseFor desugars `for (init; cond; post) {body}` into the init
// statement followed by a NodeFor carrying cond, body and post.
func (p *Parser) parseFor() NodeIndex {
	p.expect(TokFor)
	p.expect(TokLParen)
	var init NodeIndex
	if !p.at(TokSemicolon) {
		init = p.parseForClause()
	}
	p.expect(TokSemicolon)
	var cond NodeIndex
	if !p.at(TokSemicolon) {
		cond = p.parseExpr()
	}
	p.expect(TokSemicolon)
	var post NodeIndex
	if !p.at(TokRParen) {
		post = p.parseForClause()
	}
	p.expect(TokRParen)
	body := p.parseBlock()
	loop := p.alloc(Node{Kind: NodeFor, Left: cond, Right: body, Third: post})
	if init != 0 {
		p.pool.Get(init).Next = loop
		return init
	}
	return loop
}

// parseForClause parses a single init/post clause without a trailing
// semicolon: a declaration, an assignment, or an expression.
func (p *Parser) parseForClause() NodeIndex {
	switch p.cur().Kind {
	case TokVar, TokLet:
		mutable := p.advance().Kind == TokVar
		name := p.expect(TokIdent)
		p.expect(TokAssign)
		init := p.parseExpr()
		flag := uint8(0)
		if mutable {
			flag = 1
		}
		return p.alloc(Node{Kind: NodeVarDecl, Str: p.strs.Intern(name.Text), Left: init, Flag: flag})
	case TokIdent:
		if p.toks[p.pos+1].Kind == TokAssign {
			name := p.advance()
			p.advance()
			val := p.parseExpr()
			return p.alloc(Node{Kind: NodeAssign, Str: p.strs.Intern(name.Text), Left: val})
		}
	}
	expr := p.parseExpr()
	return p.alloc(Node{Kind: NodeExprStmt, Left: expr})
}

func (p *Parser) parseSwitch() NodeIndex {
	p.expect(TokSwitch)
	p.expect(TokLParen)
	sel := p.parseExpr()
	p.expect(TokRParen)
	p.expect(TokLBrace)
	sw := p.alloc(Node{Kind: NodeSwitch, Left: sel})
	var caseTail NodeIndex
	for !p.at(TokRBrace) && !p.at(TokEOF) && p.fatal == nil {
		var c NodeIndex
		if p.at(TokCase) {
			p.advance()
			neg := false
			if p.at(TokMinus) {
				p.advance()
				neg = true
			}
			val := p.expect(TokIntLit)
			v := val.Int
			if neg {
				v = -v
			}
			p.expect(TokColon)
			c = p.alloc(Node{Kind: NodeCase, Val: v})
		} else if p.at(TokDefault) {
			p.advance()
			p.expect(TokColon)
			c = p.alloc(Node{Kind: NodeDefault})
		} else {
			p.fail("expected 'case' or 'default', got %s", p.cur().Kind)
			break
		}
		// Case body: statements until the next case/default/closing brace.
		var bodyHead, bodyTail NodeIndex
		for !p.at(TokCase) && !p.at(TokDefault) && !p.at(TokRBrace) && !p.at(TokEOF) && p.fatal == nil {
			stmt := p.parseStatement()
			if p.fatal != nil {
				break
			}
			if bodyHead == 0 {
				bodyHead = stmt
			} else {
				p.pool.Get(bodyTail).Next = stmt
			}
			bodyTail = p.chainTail(stmt)
		}
		p.pool.Get(c).Right = bodyHead
		if caseTail == 0 {
			p.pool.Get(sw).Right = c
		} else {
			p.pool.Get(caseTail).Next = c
		}
		caseTail = c
	}
	p.expect(TokRBrace)
	return sw
}

// Expression grammar, lowest precedence first:
//
//	equality:   comparison (('=='|'!=') comparison)*
//	comparison: additive (('<'|'<='|'>'|'>=') additive)*
//	additive:   multiplicative (('+'|'-') multiplicative)*
//	multiplicative: unary (('*'|'/'|'%') unary)*
//	unary:      '-' unary | primary
func (p *Parser) parseExpr() NodeIndex {
	return p.parseEquality()
}

func (p *Parser) parseEquality() NodeIndex {
	left := p.parseComparison()
	for p.at(TokEq) || p.at(TokNe) {
		op := OpEq
		if p.advance().Kind == TokNe {
			op = OpNe
		}
		right := p.parseComparison()
		left = p.alloc(Node{Kind: NodeBinary, Op: op, Left: left, Right: right})
	}
	return left
}

func (p *Parser) parseComparison() NodeIndex {
	left := p.parseAdditive()
	for p.at(TokLt) || p.at(TokLe) || p.at(TokGt) || p.at(TokGe) {
		var op BinOp
		switch p.advance().Kind {
		case TokLt:
			op = OpLt
		case TokLe:
			op = OpLe
		case TokGt:
			op = OpGt
		case TokGe:
			op = OpGe
		}
		right := p.parseAdditive()
		left = p.alloc(Node{Kind: NodeBinary, Op: op, Left: left, Right: right})
	}
	return left
}

func (p *Parser) parseAdditive() NodeIndex {
	left := p.parseMultiplicative()
	for p.at(TokPlus) || p.at(TokMinus) {
		op := OpAdd
		if p.advance().Kind == TokMinus {
			op = OpSub
		}
		right := p.parseMultiplicative()
		left = p.alloc(Node{Kind: NodeBinary, Op: op, Left: left, Right: right})
	}
	return left
}

func (p *Parser) parseMultiplicative() NodeIndex {
	left := p.parseUnary()
	for p.at(TokStar) || p.at(TokSlash) || p.at(TokPercent) {
		var op BinOp
		switch p.advance().Kind {
		case TokStar:
			op = OpMul
		case TokSlash:
			op = OpDiv
		case TokPercent:
			op = OpMod
		}
		right := p.parseUnary()
		left = p.alloc(Node{Kind: NodeBinary, Op: op, Left: left, Right: right})
	}
	return left
}

func (p *Parser) parseUnary() NodeIndex {
	if p.at(TokMinus) {
		p.advance()
		// Negative literals fold immediately; anything else becomes 0 - x.
		if p.at(TokIntLit) {
			t := p.advance()
			return p.alloc(Node{Kind: NodeIntLit, Val: -t.Int})
		}
		if p.at(TokFloatLit) {
			t := p.advance()
			return p.alloc(Node{Kind: NodeFloatLit, Val: int64(math.Float64bits(-t.Flt))})
		}
		zero := p.alloc(Node{Kind: NodeIntLit, Val: 0})
		operand := p.parseUnary()
		return p.alloc(Node{Kind: NodeBinary, Op: OpSub, Left: zero, Right: operand})
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() NodeIndex {
	switch p.cur().Kind {
	case TokIntLit:
		t := p.advance()
		return p.alloc(Node{Kind: NodeIntLit, Val: t.Int})
	case TokFloatLit:
		t := p.advance()
		return p.alloc(Node{Kind: NodeFloatLit, Val: int64(math.Float64bits(t.Flt))})
	case TokStrLit:
		t := p.advance()
		return p.alloc(Node{Kind: NodeStrLit, Str: p.strs.Intern(t.Text)})
	case TokTrue:
		p.advance()
		return p.alloc(Node{Kind: NodeBoolLit, Val: 1})
	case TokFalse:
		p.advance()
		return p.alloc(Node{Kind: NodeBoolLit, Val: 0})
	case TokLParen:
		p.advance()
		e := p.parseExpr()
		p.expect(TokRParen)
		return e
	case TokIdent:
		name := p.advance()
		if p.at(TokLParen) {
			return p.parseCall(name)
		}
		return p.alloc(Node{Kind: NodeIdent, Str: p.strs.Intern(name.Text)})
	default:
		p.fail("expected expression, got %s", p.cur().Kind)
		return p.alloc(Node{Kind: NodeIntLit})
	}
}

func (p *Parser) parseCall(name Token) NodeIndex {
	call := p.alloc(Node{Kind: NodeCall, Str: p.strs.Intern(name.Text)})
	p.expect(TokLParen)
	var argTail NodeIndex
	for !p.at(TokRParen) && p.fatal == nil {
		if argTail != 0 {
			p.expect(TokComma)
		}
		arg := p.parseExpr()
		if argTail == 0 {
			p.pool.Get(call).Left = arg
		} else {
			p.pool.Get(argTail).Next = arg
		}
		argTail = arg
	}
	p.expect(TokRParen)
	return call
}
