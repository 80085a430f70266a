// Package types describes the numeric value classes of the shader IR and
// how literals are encoded at each supported bit size.
package types

import "fmt"

// Class describes how the bits of a value are interpreted by an operation.
// IR values themselves are typeless; the class comes from the consuming op.
type Class uint8

const (
	Invalid Class = iota // no interpretation (phi, bcsel data operands)

	Int   // two's complement, signed
	Uint  // unsigned
	Float // IEEE-754 at the value's bit size
	Bool  // 1-bit, or all-ones/zero at wider sizes
)

var classNames = [...]string{
	Invalid: "invalid",
	Int:     "int",
	Uint:    "uint",
	Float:   "float",
	Bool:    "bool",
}

// String returns the class name.
func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("Class(%d)", c)
}

// IsInteger reports whether c is Int or Uint.
func (c Class) IsInteger() bool {
	return c == Int || c == Uint
}

// Prefix returns the single-letter prefix used in type strings (i32, f16, b1).
func (c Class) Prefix() string {
	switch c {
	case Int:
		return "i"
	case Uint:
		return "u"
	case Float:
		return "f"
	case Bool:
		return "b"
	}
	return ""
}
