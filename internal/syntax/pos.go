package syntax

import "fmt"

// Pos is a position in SSA text or rule text.
// The zero value is an invalid position.
type Pos struct {
	file      string
	line, col uint32 // 1-based; col counts characters
}

// NewPos returns the position line:col in file.
func NewPos(file string, line, col uint32) Pos {
	return Pos{file: file, line: line, col: col}
}

// IsValid reports whether the position is valid.
func (p Pos) IsValid() bool { return p.line > 0 }

// Line returns the 1-based line number.
func (p Pos) Line() uint32 { return p.line }

// Col returns the 1-based column number.
func (p Pos) Col() uint32 { return p.col }

// Filename returns the source file name.
func (p Pos) Filename() string { return p.file }

// String formats the position as "file:line:col", "line:col" when there
// is no file name, or "-" when the position is invalid.
func (p Pos) String() string {
	switch {
	case !p.IsValid():
		return "-"
	case p.file == "":
		return fmt.Sprintf("%d:%d", p.line, p.col)
	}
	return fmt.Sprintf("%s:%d:%d", p.file, p.line, p.col)
}
