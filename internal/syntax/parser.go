package syntax

import (
	"io"
	"strconv"
	"strings"
)

// Maximum number of errors before aborting parse.
const maxErrors = 10

// SyntaxError represents a syntax error.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Parser performs syntax analysis on SSA text and rule text.
type Parser struct {
	scanner *Scanner

	// Current token info (cached from scanner)
	tok Token
	lit string
	pos Pos

	// Error handling
	errh   func(pos Pos, msg string)
	errcnt int
	first  error // first error encountered
	abort  bool  // set to true when error limit reached
}

// NewParser creates a new Parser for the given source.
func NewParser(filename string, src io.Reader, errh func(pos Pos, msg string)) *Parser {
	p := &Parser{errh: errh}
	p.scanner = NewScanner(filename, src, func(line, col uint32, msg string) {
		p.syntaxErrorAt(NewPos(filename, line, col), msg)
	})
	p.next() // prime the parser with first token
	return p
}

// SetASIEnabled passes the ASI setting to the underlying scanner.
func (p *Parser) SetASIEnabled(enabled bool) {
	p.scanner.SetASIEnabled(enabled)
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next token.
func (p *Parser) next() {
	p.scanner.Next()
	p.tok = p.scanner.Token()
	p.lit = p.scanner.Literal()
	p.pos = p.scanner.Pos()
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *Parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it matches tok.
// Otherwise, reports an error.
func (p *Parser) want(tok Token) {
	if !p.got(tok) {
		p.syntaxError("expected " + tok.String())
		p.advance()
	}
}

// ----------------------------------------------------------------------------
// Error handling

// syntaxError reports a syntax error at the current position.
func (p *Parser) syntaxError(msg string) {
	p.syntaxErrorAt(p.pos, msg)
}

// syntaxErrorAt reports a syntax error at a specific position.
func (p *Parser) syntaxErrorAt(pos Pos, msg string) {
	if p.abort {
		return
	}
	if p.errcnt == 0 {
		p.first = &SyntaxError{Pos: pos, Msg: msg}
	}
	p.errcnt++

	if p.errh != nil {
		p.errh(pos, msg)
	}

	p.errorLimitCheck(pos)
}

// errorLimitCheck aborts parsing if too many errors have occurred.
func (p *Parser) errorLimitCheck(pos Pos) {
	if p.errcnt >= maxErrors {
		p.abort = true
		if p.errh != nil {
			p.errh(pos, "too many errors; aborting parse")
		}
		p.tok = _EOF
	}
}

// advance skips tokens until it finds a synchronization point.
// This is used for error recovery.
func (p *Parser) advance() {
	for p.tok != _EOF && p.tok != _Semi && p.tok != _Rparen && p.tok != _Func {
		p.next()
	}

	// Consume sync point to avoid repeated errors at the same position
	if p.tok == _Semi || p.tok == _Rparen {
		p.next()
	}
}

// Errors returns the number of errors encountered during parsing.
func (p *Parser) Errors() int {
	return p.errcnt
}

// FirstError returns the first error encountered, or nil if none.
func (p *Parser) FirstError() error {
	return p.first
}

// ----------------------------------------------------------------------------
// Entry points

// ParseFile parses SSA text and returns the AST and the first error.
func ParseFile(filename string, src io.Reader) (*File, error) {
	p := NewParser(filename, src, nil)
	f := p.Parse()
	return f, p.FirstError()
}

// ParseRuleText parses rule text and returns the AST and the first error.
func ParseRuleText(filename, text string) (*RuleFile, error) {
	p := NewParser(filename, strings.NewReader(text), nil)
	f := p.ParseRules()
	return f, p.FirstError()
}

// Parse parses SSA text.
func (p *Parser) Parse() *File {
	f := &File{}
	f.pos = p.pos

	for !p.abort && p.tok != _EOF {
		if p.got(_Semi) {
			continue
		}
		if p.tok != _Func {
			p.syntaxError("expected func")
			p.advance()
			continue
		}
		f.Funcs = append(f.Funcs, p.funcDecl())
	}

	return f
}

// ParseRules parses rule text. Newlines are not significant in rules.
func (p *Parser) ParseRules() *RuleFile {
	p.SetASIEnabled(false)

	f := &RuleFile{}
	f.pos = p.pos

	for !p.abort && p.tok != _EOF {
		if p.got(_Semi) {
			continue
		}
		f.Rules = append(f.Rules, p.ruleDecl())
	}

	return f
}

// ----------------------------------------------------------------------------
// Helper methods

// name parses an identifier and returns a Name node.
func (p *Parser) name() *Name {
	if p.tok != _Name {
		p.syntaxError("expected identifier")
		n := &Name{Value: "_"}
		n.pos = p.pos
		return n
	}
	n := &Name{Value: p.lit}
	n.pos = p.pos
	p.next()
	return n
}

// size parses the integer literal of a bit size.
func (p *Parser) size() uint8 {
	if p.tok != _Literal || p.scanner.LitKind() != IntLit {
		p.syntaxError("expected bit size")
		return 0
	}
	n, err := strconv.ParseUint(p.lit, 0, 8)
	if err != nil {
		p.syntaxError("invalid bit size " + p.lit)
	}
	p.next()
	return uint8(n)
}

// literal parses: ["-"] (int | float) | true | false
func (p *Parser) literal() *BasicLit {
	lit := &BasicLit{}
	lit.pos = p.pos

	if p.got(_Sub) {
		lit.Neg = true
	}

	switch {
	case p.tok == _Literal:
		lit.Value = p.lit
		lit.Kind = p.scanner.LitKind()
		p.next()
	case p.tok == _Name && !lit.Neg && (p.lit == "true" || p.lit == "false"):
		lit.Value = p.lit
		lit.Kind = BoolLit
		p.next()
	default:
		p.syntaxError("expected literal")
		lit.Value = "0"
	}
	return lit
}

// ----------------------------------------------------------------------------
// SSA text

// funcDecl parses: func Name ":" Blocks
func (p *Parser) funcDecl() *FuncDecl {
	d := &FuncDecl{}
	d.pos = p.pos

	p.want(_Func)
	d.Name = p.name()
	p.want(_Colon)
	p.got(_Semi)

	for !p.abort && p.tok == _Name {
		d.Blocks = append(d.Blocks, p.blockDecl())
		for p.tok == _Semi {
			p.next()
		}
	}
	if len(d.Blocks) == 0 {
		p.syntaxError("expected block")
	}
	return d
}

// blockDecl parses: Label ":" ["(" entry ")"] ["<-" Preds] Values Terminator
func (p *Parser) blockDecl() *BlockDecl {
	b := &BlockDecl{}
	b.pos = p.pos

	b.Label = p.name()
	p.want(_Colon)

	if p.got(_Lparen) {
		if n := p.name(); n.Value != "entry" {
			p.syntaxErrorAt(n.pos, "expected entry")
		}
		b.Entry = true
		p.want(_Rparen)
	}
	if p.got(_Lss) {
		p.want(_Sub)
		for p.tok == _Name {
			b.Preds = append(b.Preds, p.name())
		}
	}
	p.got(_Semi)

	for !p.abort && p.tok == _Name {
		if isTerminator(p.lit) {
			b.Term = p.terminator()
			return b
		}
		b.Values = append(b.Values, p.valueDecl())
	}

	p.syntaxError("expected terminator")
	p.advance()
	return b
}

func isTerminator(name string) bool {
	switch name {
	case "Plain", "If", "Return", "Exit":
		return true
	}
	return false
}

// valueDecl parses: [Name "="] Op [Type] ["[" Aux "]"] Args ";"
func (p *Parser) valueDecl() *ValueDecl {
	d := &ValueDecl{}
	d.pos = p.pos

	first := p.name()
	if p.got(_Assign) {
		d.Name = first
		d.Op = p.name()
	} else {
		d.Op = first
	}

	if p.tok == _Lss {
		d.Type = p.typeExpr()
	}
	if p.got(_Lbrack) {
		d.Aux = p.literal()
		p.want(_Rbrack)
	}
	for p.tok == _Name {
		d.Args = append(d.Args, p.name())
	}

	if p.tok != _EOF {
		p.want(_Semi)
	}
	return d
}

// typeExpr parses: "<" Size ["x" Comps] ">"
func (p *Parser) typeExpr() *TypeExpr {
	t := &TypeExpr{}
	t.pos = p.pos

	p.want(_Lss)
	t.Size = p.size()
	if p.tok == _Name && strings.HasPrefix(p.lit, "x") {
		n, err := strconv.ParseUint(p.lit[1:], 10, 8)
		if err != nil || n == 0 {
			p.syntaxError("invalid component count " + p.lit)
		}
		t.Comps = uint8(n)
		p.next()
	}
	p.want(_Gtr)
	return t
}

// terminator parses: Kind Controls ["->" Succs] ";"
func (p *Parser) terminator() *Terminator {
	t := &Terminator{}
	t.pos = p.pos

	t.Kind = p.name()
	for p.tok == _Name {
		t.Controls = append(t.Controls, p.name())
	}
	if p.got(_Arrow) {
		for p.tok == _Name {
			t.Succs = append(t.Succs, p.name())
		}
	}

	if p.tok != _EOF {
		p.want(_Semi)
	}
	return t
}

// ----------------------------------------------------------------------------
// Rule text

// ruleDecl parses: ["~"] PatOp "->" Pattern ["if" ["!"] Name]
func (p *Parser) ruleDecl() *RuleDecl {
	r := &RuleDecl{}
	r.pos = p.pos

	r.Inexact = p.got(_Tilde)
	if p.tok != _Lparen {
		p.syntaxError("search pattern must be an operation")
		p.advance()
		r.Search = &PatOp{Op: &Name{Value: "_"}}
		r.Replace = r.Search
		return r
	}
	r.Search = p.patOp()
	p.want(_Arrow)
	r.Replace = p.pattern()

	if p.got(_If) {
		r.Negate = p.got(_Not)
		r.Cond = p.name()
	}
	return r
}

// pattern parses an operation, variable, or literal pattern.
func (p *Parser) pattern() Expr {
	switch {
	case p.tok == _Lparen:
		return p.patOp()
	case p.tok == _Literal, p.tok == _Sub:
		return p.literal()
	case p.tok == _Name && (p.lit == "true" || p.lit == "false"):
		return p.literal()
	case p.tok == _Name, p.tok == _Hash:
		return p.patVar()
	}
	p.syntaxError("expected pattern")
	p.advance()
	lit := &BasicLit{Value: "0"}
	lit.pos = p.pos
	return lit
}

// patOp parses: "(" Op ["@" Size] ["{" Pred "}"] Patterns ")"
func (p *Parser) patOp() *PatOp {
	x := &PatOp{}
	x.pos = p.pos

	p.want(_Lparen)
	x.Op = p.name()
	if p.got(_At) {
		x.Size = p.size()
	}
	if p.got(_Lbrace) {
		x.Pred = p.name()
		p.want(_Rbrace)
	}
	for !p.abort && p.tok != _Rparen && p.tok != _EOF {
		x.Args = append(x.Args, p.pattern())
	}
	p.want(_Rparen)
	return x
}

// patVar parses: ["#"] Name [".*"] ["@" Size] ["{" Pred "}"]
func (p *Parser) patVar() *PatVar {
	x := &PatVar{}
	x.pos = p.pos

	x.Const = p.got(_Hash)
	x.Name = p.name()
	if p.got(_Dot) {
		p.want(_Mul)
		x.Swizzle = true
	}
	if p.got(_At) {
		x.Size = p.size()
	}
	if p.got(_Lbrace) {
		x.Pred = p.name()
		p.want(_Rbrace)
	}
	return x
}
