// Package algebraic implements rule-driven algebraic simplification of
// SSA functions.
//
// A rule pairs a search pattern with a replacement pattern and a
// condition. The matcher binds pattern variables to IR values, the
// builder materializes the replacement in front of the matched
// instruction and redirects its uses. Nothing already in the graph is
// modified except for those use edges.
package algebraic

import (
	"fmt"
	"math"
	"strings"

	"github.com/you-not-fish/algopt/internal/ssa"
	"github.com/you-not-fish/algopt/internal/types"
)

// Pattern is a node of a search or replacement pattern.
// Implemented by *Variable, *Constant and *Expression.
type Pattern interface {
	String() string
	aPattern()
}

// Variable captures an operand. All occurrences of one Slot in a search
// pattern must bind the same value.
type Variable struct {
	Slot uint8
	Name string

	// BitSize, if non-zero, is the required width of the bound value.
	BitSize uint8

	// Const requires the bound value to be a constant.
	Const bool

	// SwizzleAllowed lets the variable bind a value whose component count
	// differs from the instruction reading it (a broadcast scalar).
	SwizzleAllowed bool

	Pred Predicate
}

// Constant is a literal. Bits holds the canonical form: the int64 value
// for integers, binary64 bits for floats, 0 or 1 for booleans.
type Constant struct {
	Class types.Class
	Bits  uint64
}

// Expression is an operation with child patterns.
type Expression struct {
	Op          ssa.Op
	Commutative bool  // the first two children may match in either order
	BitSize     uint8 // required result width, 0 for any
	Args        []Pattern
	Pred        Predicate
}

func (*Variable) aPattern()   {}
func (*Constant) aPattern()   {}
func (*Expression) aPattern() {}

func (x *Variable) String() string {
	var sb strings.Builder
	if x.Const {
		sb.WriteByte('#')
	}
	sb.WriteString(x.Name)
	if x.SwizzleAllowed {
		sb.WriteString(".*")
	}
	if x.BitSize != 0 {
		fmt.Fprintf(&sb, "@%d", x.BitSize)
	}
	if x.Pred != PredNone {
		fmt.Fprintf(&sb, "{%s}", x.Pred)
	}
	return sb.String()
}

func (c *Constant) String() string {
	switch c.Class {
	case types.Float:
		return types.Format(types.Float, c.Bits, 64)
	case types.Bool:
		return types.Format(types.Bool, c.Bits, 1)
	}
	return fmt.Sprint(int64(c.Bits))
}

func (e *Expression) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(e.Op.String())
	if e.BitSize != 0 {
		fmt.Fprintf(&sb, "@%d", e.BitSize)
	}
	if e.Pred != PredNone {
		fmt.Fprintf(&sb, "{%s}", e.Pred)
	}
	for _, a := range e.Args {
		sb.WriteByte(' ')
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// IntConst returns an integer literal pattern.
func IntConst(v int64) *Constant { return &Constant{Class: types.Int, Bits: uint64(v)} }

// FloatConst returns a float literal pattern.
func FloatConst(f float64) *Constant { return &Constant{Class: types.Float, Bits: math.Float64bits(f)} }

// BoolConst returns a boolean literal pattern.
func BoolConst(b bool) *Constant {
	c := &Constant{Class: types.Bool}
	if b {
		c.Bits = 1
	}
	return c
}

// encode returns the n-bit encoding of the literal, or false if the
// literal cannot be represented at that width.
func (c *Constant) encode(n uint8) (uint64, bool) {
	switch c.Class {
	case types.Float:
		if !types.IsFloatSize(n) {
			return 0, false
		}
	case types.Bool:
	default:
		if !types.FitsInt(int64(c.Bits), n) {
			return 0, false
		}
	}
	return types.Encode(c.Class, c.Bits, n), true
}

// matches reports whether the n-bit constant bits equals the literal.
// Integers compare by value at the width, floats numerically with the
// sign of zero significant.
func (c *Constant) matches(bits uint64, n uint8) bool {
	switch c.Class {
	case types.Float:
		if !types.IsFloatSize(n) {
			return false
		}
		f, want := types.DecodeFloat(bits, n), math.Float64frombits(c.Bits)
		return f == want && math.Signbit(f) == math.Signbit(want)
	case types.Bool:
		return types.Truncate(bits, n) == types.EncodeBool(c.Bits != 0, n)
	}
	want, ok := c.encode(n)
	return ok && types.Truncate(bits, n) == want
}

// Rule is one rewrite: Search → Replace if Cond.
type Rule struct {
	Name    string
	Search  *Expression
	Replace Pattern
	Cond    CondID

	// Inexact rules may change floating point rounding.
	Inexact bool

	// NumSlots is one more than the highest variable slot used.
	NumSlots int
}

func (r *Rule) String() string { return r.Name }
