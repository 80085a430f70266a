package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Scanner splits SSA text and rule text into tokens.
type Scanner struct {
	source // embedded character reader

	tok    Token
	lit    string  // identifier name or number text
	kind   LitKind // valid when tok == _Literal
	tokPos Pos

	nlsemi     bool // the next newline is a _Semi
	asiEnabled bool // newlines are significant; off for rule text

	litBuf strings.Builder
}

// NewScanner creates a new Scanner for the given source.
// The errh function is called for each lexical error; if nil, errors are silently ignored.
func NewScanner(filename string, src io.Reader, errh func(line, col uint32, msg string)) *Scanner {
	s := &Scanner{
		source:     *newSource(filename, src, errh),
		asiEnabled: true, // ASI enabled by default
	}
	return s
}

// SetASIEnabled enables or disables automatic semicolon insertion.
func (s *Scanner) SetASIEnabled(enabled bool) {
	s.asiEnabled = enabled
}

// Next advances to the next token.
func (s *Scanner) Next() {
	nlsemi := s.nlsemi
	s.nlsemi = false

redo:
	s.skipWhitespace()

	// A newline or EOF after a value-ending token ends the declaration.
	if s.asiEnabled && nlsemi && (s.ch == '\n' || s.ch < 0) {
		s.tokPos = s.pos()
		s.tok = _Semi
		if s.ch == '\n' {
			s.lit = "newline"
			s.nextch()
		} else {
			s.lit = "EOF"
		}
		return
	}

	if s.ch == '\n' {
		s.nextch()
		goto redo
	}

	s.tokPos = s.pos()

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case isOperatorStart(s.ch):
		if s.scanOperator() {
			// comment
			goto redo
		}

	default:
		s.error(fmt.Sprintf("unexpected character %q", s.ch))
		s.nextch()
		goto redo
	}

	s.nlsemi = s.shouldInsertSemi()
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the current token's literal value.
func (s *Scanner) Literal() string {
	return s.lit
}

// LitKind returns the current literal's kind (only valid when Token() == _Literal).
func (s *Scanner) LitKind() LitKind {
	return s.kind
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

// skipWhitespace skips space, tab, and carriage return.
// Note: newline is NOT skipped here because it may trigger ASI.
func (s *Scanner) skipWhitespace() {
	for isWhitespace(s.ch) {
		s.nextch()
	}
}

// shouldInsertSemi reports whether a semicolon should be inserted
// after the current token when followed by a newline.
func (s *Scanner) shouldInsertSemi() bool {
	switch s.tok {
	case _Name, _Literal:
		return true
	case _Rparen, _Rbrack, _Rbrace, _Gtr:
		return true
	}
	return false
}

// startLit begins accumulating a literal.
func (s *Scanner) startLit() {
	s.litBuf.Reset()
	s.litBuf.WriteRune(s.ch)
}

// continueLit adds the current character to the literal being accumulated.
func (s *Scanner) continueLit() {
	s.litBuf.WriteRune(s.ch)
}

// stopLit ends literal accumulation and returns the accumulated string.
func (s *Scanner) stopLit() string {
	return s.litBuf.String()
}

// scanIdent scans an identifier or keyword.
func (s *Scanner) scanIdent() {
	s.startLit()
	s.nextch()

	for isLetter(s.ch) || isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}

	s.lit = s.stopLit()

	// Check if it's a keyword
	s.tok = LookupKeyword(s.lit)
}

// scanNumber scans a number literal (integer or float).
func (s *Scanner) scanNumber() {
	s.litBuf.Reset()
	s.kind = IntLit

	if s.ch == '0' {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
		switch lower(s.ch) {
		case 'x':
			// Hexadecimal: 0x or 0X
			s.litBuf.WriteRune(s.ch)
			s.nextch()
			s.scanHexDigits()
		case 'o':
			// Octal: 0o or 0O
			s.litBuf.WriteRune(s.ch)
			s.nextch()
			s.scanOctalDigits()
		case 'b':
			// Binary: 0b or 0B
			s.litBuf.WriteRune(s.ch)
			s.nextch()
			s.scanBinaryDigits()
		default:
			// Decimal starting with 0, or just 0
			if isDigit(s.ch) {
				// Leading zeros in decimal are allowed (e.g., 007)
				s.scanDecimalDigits()
			}
			// Check for float
			if s.ch == '.' || lower(s.ch) == 'e' {
				s.scanFraction()
			}
		}
	} else {
		// Decimal number - scan all digits including first
		s.scanDecimalDigits()
		// Check for float
		if s.ch == '.' || lower(s.ch) == 'e' {
			s.scanFraction()
		}
	}

	s.lit = s.litBuf.String()
	s.tok = _Literal
}

// scanDecimalDigits scans decimal digits.
func (s *Scanner) scanDecimalDigits() {
	for isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}
}

// scanHexDigits scans hexadecimal digits.
func (s *Scanner) scanHexDigits() {
	if !isHexDigit(s.ch) {
		s.error("invalid hex digit")
		return
	}
	for isHexDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}
}

// scanOctalDigits scans octal digits.
func (s *Scanner) scanOctalDigits() {
	if !isOctalDigit(s.ch) {
		s.error("invalid octal digit")
		return
	}
	for isOctalDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}
}

// scanBinaryDigits scans binary digits.
func (s *Scanner) scanBinaryDigits() {
	if !isBinaryDigit(s.ch) {
		s.error("invalid binary digit")
		return
	}
	for isBinaryDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}
	// Check for invalid trailing digits (e.g., 0b123)
	if isDigit(s.ch) {
		s.error("invalid binary digit")
	}
}

// scanFraction scans the fractional part of a float (. and/or exponent).
func (s *Scanner) scanFraction() {
	// Decimal point
	if s.ch == '.' {
		s.kind = FloatLit
		s.continueLit()
		s.nextch()
		s.scanDecimalDigits()
	}

	// Exponent
	if lower(s.ch) == 'e' {
		s.kind = FloatLit
		s.continueLit()
		s.nextch()

		// Optional sign
		if s.ch == '+' || s.ch == '-' {
			s.continueLit()
			s.nextch()
		}

		if !isDigit(s.ch) {
			s.error("exponent has no digits")
			return
		}
		s.scanDecimalDigits()
	}
}

// scanOperator scans an operator or delimiter.
// Returns true if a comment was skipped (caller should rescan).
func (s *Scanner) scanOperator() bool {
	ch := s.ch
	s.nextch()

	switch ch {
	case '-':
		if s.ch == '>' {
			s.nextch()
			s.tok = _Arrow
			s.lit = "->"
		} else {
			s.tok = _Sub
			s.lit = "-"
		}
	case '/':
		if s.ch != '/' {
			s.error("unexpected character '/'")
			return true
		}
		s.skipLineComment()
		return true
	default:
		s.tok = singleCharTokens[ch]
		s.lit = string(ch)
	}

	return false
}

// singleCharTokens maps one-character operators and delimiters to tokens.
var singleCharTokens = map[rune]Token{
	'*': _Mul,
	'!': _Not,
	'~': _Tilde,
	'#': _Hash,
	'@': _At,
	'<': _Lss,
	'>': _Gtr,
	'=': _Assign,
	'(': _Lparen,
	')': _Rparen,
	'[': _Lbrack,
	']': _Rbrack,
	'{': _Lbrace,
	'}': _Rbrace,
	',': _Comma,
	';': _Semi,
	':': _Colon,
	'.': _Dot,
}

// skipLineComment skips a line comment (from // to end of line).
func (s *Scanner) skipLineComment() {
	// Already consumed the second /
	s.nextch()
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}
