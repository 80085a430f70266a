// Package syntax implements lexical and syntactic analysis for the SSA
// text format and for the rewrite rule language.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF   Token = iota // end of file
	_Error              // lexical error

	// Literals
	_Name    // identifier: v12, iadd, is_used_once
	_Literal // literal value (used with LitKind)

	// Operators
	_Assign // =
	_Arrow  // ->
	_Sub    // -
	_Mul    // *
	_Not    // !
	_Tilde  // ~
	_Hash   // #
	_At     // @
	_Lss    // <
	_Gtr    // >

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Lbrack // [
	_Rbrack // ]
	_Lbrace // {
	_Rbrace // }
	_Comma  // ,
	_Semi   // ;
	_Colon  // :
	_Dot    // .

	// Keywords
	_Func
	_If

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF:   "EOF",
	_Error: "ERROR",

	_Name:    "NAME",
	_Literal: "LITERAL",

	_Assign: "=",
	_Arrow:  "->",
	_Sub:    "-",
	_Mul:    "*",
	_Not:    "!",
	_Tilde:  "~",
	_Hash:   "#",
	_At:     "@",
	_Lss:    "<",
	_Gtr:    ">",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrack: "[",
	_Rbrack: "]",
	_Lbrace: "{",
	_Rbrace: "}",
	_Comma:  ",",
	_Semi:   ";",
	_Colon:  ":",
	_Dot:    ".",

	_Func: "func",
	_If:   "if",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _Func && t <= _If
}

// IsOperator reports whether t is an operator token.
func (t Token) IsOperator() bool {
	return t >= _Assign && t <= _Gtr
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// LitKind represents the kind of a literal.
type LitKind uint8

const (
	IntLit   LitKind = iota // 123, 0x1F, 0o77, 0b1010
	FloatLit                // 3.14, 1e10, 2.5e-3
	BoolLit                 // true, false
)

var litKindNames = [...]string{
	IntLit:   "int",
	FloatLit: "float",
	BoolLit:  "bool",
}

// String returns the string representation of the literal kind.
func (k LitKind) String() string {
	if k <= BoolLit {
		return litKindNames[k]
	}
	return fmt.Sprintf("LitKind(%d)", k)
}

// keywords maps keyword strings to their token type.
// The terminator names (Plain, If, Return, Exit) and true/false are
// scanned as _Name.
var keywords = map[string]Token{
	"func": _Func,
	"if":   _If,
}

// LookupKeyword returns the token for the given identifier string.
// If the identifier is a keyword, returns the keyword token.
// Otherwise, returns _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}
