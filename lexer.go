// Completion: 100% - Lexer complete
package main

import (
	"strconv"
	"strings"
)

// Lexer turns source text into a token stream. It is deliberately small:
// the backend is the interesting part, the front end just has to feed it.
type Lexer struct {
	src  string
	pos  int
	line int
}

func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

func (lx *Lexer) peek() byte {
	if lx.pos >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos]
}

func (lx *Lexer) peek2() byte {
	if lx.pos+1 >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+1]
}

func (lx *Lexer) advance() byte {
	c := lx.src[lx.pos]
	lx.pos++
	if c == '\n' {
		lx.line++
	}
	return c
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (lx *Lexer) skipSpaceAndComments() {
	for lx.pos < len(lx.src) {
		c := lx.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			lx.advance()
		case c == '/' && lx.peek2() == '/':
			for lx.pos < len(lx.src) && lx.peek() != '\n' {
				lx.advance()
			}
		default:
			return
		}
	}
}

// Tokenize scans the whole input. A scan error reports the offending line.
func (lx *Lexer) Tokenize() ([]Token, *CompilerError) {
	var toks []Token
	for {
		lx.skipSpaceAndComments()
		line := lx.line
		if lx.pos >= len(lx.src) {
			toks = append(toks, Token{Kind: TokEOF, Line: line})
			return toks, nil
		}
		c := lx.peek()
		switch {
		case isIdentStart(c):
			start := lx.pos
			for lx.pos < len(lx.src) && isIdentPart(lx.peek()) {
				lx.advance()
			}
			text := lx.src[start:lx.pos]
			if kw, ok := keywords[text]; ok {
				toks = append(toks, Token{Kind: kw, Text: text, Line: line})
			} else {
				toks = append(toks, Token{Kind: TokIdent, Text: text, Line: line})
			}
		case isDigit(c):
			start := lx.pos
			for lx.pos < len(lx.src) && isDigit(lx.peek()) {
				lx.advance()
			}
			isFloat := false
			if lx.peek() == '.' && isDigit(lx.peek2()) {
				isFloat = true
				lx.advance()
				for lx.pos < len(lx.src) && isDigit(lx.peek()) {
					lx.advance()
				}
			}
			text := lx.src[start:lx.pos]
			if isFloat {
				f, err := strconv.ParseFloat(text, 64)
				if err != nil {
					return nil, &CompilerError{Category: CategorySyntax, Line: line,
						Message: "invalid float literal " + strconv.Quote(text)}
				}
				toks = append(toks, Token{Kind: TokFloatLit, Text: text, Flt: f, Line: line})
			} else {
				n, err := strconv.ParseInt(text, 10, 64)
				if err != nil {
					return nil, &CompilerError{Category: CategorySyntax, Line: line,
						Message: "invalid integer literal " + strconv.Quote(text)}
				}
				toks = append(toks, Token{Kind: TokIntLit, Text: text, Int: n, Line: line})
			}
		case c == '"':
			lx.advance()
			var sb strings.Builder
			closed := false
			for lx.pos < len(lx.src) {
				ch := lx.advance()
				if ch == '"' {
					closed = true
					break
				}
				if ch == '\\' && lx.pos < len(lx.src) {
					esc := lx.advance()
					switch esc {
					case 'n':
						sb.WriteByte('\n')
					case 't':
						sb.WriteByte('\t')
					case '\\':
						sb.WriteByte('\\')
					case '"':
						sb.WriteByte('"')
					default:
						sb.WriteByte(esc)
					}
					continue
				}
				sb.WriteByte(ch)
			}
			if !closed {
				return nil, &CompilerError{Category: CategorySyntax, Line: line,
					Message: "unterminated string literal"}
			}
			toks = append(toks, Token{Kind: TokStrLit, Text: sb.String(), Line: line})
		default:
			lx.advance()
			kind := TokEOF
			switch c {
			case '(':
				kind = TokLParen
			case ')':
				kind = TokRParen
			case '{':
				kind = TokLBrace
			case '}':
				kind = TokRBrace
			case ',':
				kind = TokComma
			case ';':
				kind = TokSemicolon
			case ':':
				kind = TokColon
			case '+':
				kind = TokPlus
			case '-':
				kind = TokMinus
			case '*':
				kind = TokStar
			case '/':
				kind = TokSlash
			case '%':
				kind = TokPercent
			case '=':
				if lx.peek() == '=' {
					lx.advance()
					kind = TokEq
				} else {
					kind = TokAssign
				}
			case '!':
				if lx.peek() == '=' {
					lx.advance()
					kind = TokNe
				} else {
					return nil, &CompilerError{Category: CategorySyntax, Line: line,
						Message: "unexpected character '!'"}
				}
			case '<':
				if lx.peek() == '=' {
					lx.advance()
					kind = TokLe
				} else {
					kind = TokLt
				}
			case '>':
				if lx.peek() == '=' {
					lx.advance()
					kind = TokGe
				} else {
					kind = TokGt
				}
			default:
				return nil, &CompilerError{Category: CategorySyntax, Line: line,
					Message: "unexpected character " + strconv.QuoteRune(rune(c))}
			}
			toks = append(toks, Token{Kind: kind, Line: line})
		}
	}
}
