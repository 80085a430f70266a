package syntax

import (
	"io"
	"unicode/utf8"
)

// source reads SSA text or rule text one rune at a time. The whole input
// is held in memory; ch is the current rune and (line, col) its position.
type source struct {
	filename string
	text     []byte
	next     int // offset of the rune after ch

	ch        rune // -1 before the first rune and at EOF
	line, col uint32

	errh func(line, col uint32, msg string)
}

func newSource(filename string, r io.Reader, errh func(line, col uint32, msg string)) *source {
	s := &source{filename: filename, ch: -1, line: 1, errh: errh}

	text, err := io.ReadAll(r)
	if err != nil {
		s.error("read " + filename + ": " + err.Error())
		return s
	}
	s.text = text
	s.nextch()
	return s
}

// nextch advances to the next rune. The column counts runes from 1; a
// newline moves the following rune to column 1 of the next line.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line, s.col = s.line+1, 1
	} else {
		s.col++
	}

	if s.next >= len(s.text) {
		s.ch = -1
		return
	}

	r, w := rune(s.text[s.next]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.text[s.next:])
		if r == utf8.RuneError && w == 1 {
			s.error("invalid UTF-8 encoding")
		}
	}
	s.ch = r
	s.next += w
}

func (s *source) pos() Pos { return NewPos(s.filename, s.line, s.col) }

func (s *source) error(msg string) {
	if s.errh != nil {
		s.errh(s.line, s.col, msg)
	}
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isDigit(r rune) bool       { return '0' <= r && r <= '9' }
func isOctalDigit(r rune) bool  { return '0' <= r && r <= '7' }
func isBinaryDigit(r rune) bool { return r == '0' || r == '1' }

func isHexDigit(r rune) bool {
	l := lower(r)
	return isDigit(r) || 'a' <= l && l <= 'f'
}

// lower maps ASCII upper case letters to lower case. Other runes may
// change too, so compare the result only against lower case letters.
func lower(r rune) rune { return r | ('a' - 'A') }

// isWhitespace excludes '\n', which ends a declaration in SSA text.
func isWhitespace(r rune) bool { return r == ' ' || r == '\t' || r == '\r' }

func isOperatorStart(r rune) bool {
	switch r {
	case '-', '*', '/', '!', '~', '#', '@', '<', '>', '=', ':',
		'(', ')', '[', ']', '{', '}', ',', ';', '.':
		return true
	}
	return false
}
