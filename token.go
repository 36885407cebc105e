// Completion: 100% - Token definitions complete
package main

// TokenKind identifies a lexical token.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokIdent
	TokIntLit
	TokFloatLit
	TokStrLit

	// Keywords
	TokVar
	TokLet
	TokFunc
	TokReturn
	TokIf
	TokElse
	TokWhile
	TokFor
	TokSwitch
	TokCase
	TokDefault
	TokBreak
	TokContinue
	TokExit
	TokTrue
	TokFalse

	// Punctuation and operators
	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
	TokComma
	TokSemicolon
	TokColon
	TokAssign
	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokPercent
	TokEq
	TokNe
	TokLt
	TokLe
	TokGt
	TokGe
)

var tokenNames = map[TokenKind]string{
	TokEOF:       "end of file",
	TokIdent:     "identifier",
	TokIntLit:    "integer literal",
	TokFloatLit:  "float literal",
	TokStrLit:    "string literal",
	TokVar:       "'var'",
	TokLet:       "'let'",
	TokFunc:      "'func'",
	TokReturn:    "'return'",
	TokIf:        "'if'",
	TokElse:      "'else'",
	TokWhile:     "'while'",
	TokFor:       "'for'",
	TokSwitch:    "'switch'",
	TokCase:      "'case'",
	TokDefault:   "'default'",
	TokBreak:     "'break'",
	TokContinue:  "'continue'",
	TokExit:      "'exit'",
	TokTrue:      "'true'",
	TokFalse:     "'false'",
	TokLParen:    "'('",
	TokRParen:    "')'",
	TokLBrace:    "'{'",
	TokRBrace:    "'}'",
	TokComma:     "','",
	TokSemicolon: "';'",
	TokColon:     "':'",
	TokAssign:    "'='",
	TokPlus:      "'+'",
	TokMinus:     "'-'",
	TokStar:      "'*'",
	TokSlash:     "'/'",
	TokPercent:   "'%'",
	TokEq:        "'=='",
	TokNe:        "'!='",
	TokLt:        "'<'",
	TokLe:        "'<='",
	TokGt:        "'>'",
	TokGe:        "'>='",
}

func (k TokenKind) String() string {
	if s, ok := tokenNames[k]; ok {
		return s
	}
	return "unknown token"
}

var keywords = map[string]TokenKind{
	"var":      TokVar,
	"let":      TokLet,
	"func":     TokFunc,
	"return":   TokReturn,
	"if":       TokIf,
	"else":     TokElse,
	"while":    TokWhile,
	"for":      TokFor,
	"switch":   TokSwitch,
	"case":     TokCase,
	"default":  TokDefault,
	"break":    TokBreak,
	"continue": TokContinue,
	"exit":     TokExit,
	"true":     TokTrue,
	"false":    TokFalse,
}

// Token is one lexical token with its source line for diagnostics.
type Token struct {
	Kind TokenKind
	Text string  // identifier or literal spelling
	Int  int64   // value for TokIntLit
	Flt  float64 // value for TokFloatLit
	Line int
}
