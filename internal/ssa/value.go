package ssa

import (
	"fmt"

	"github.com/you-not-fish/algopt/internal/syntax"
	"github.com/you-not-fish/algopt/internal/types"
)

// ID is a unique identifier for Values and Blocks within a Func.
type ID int32

// Value represents a single SSA computation.
// Each Value has exactly one definition and may be used by other Values.
type Value struct {
	// ID is a unique identifier within the containing Func.
	ID ID

	// Op is the operation this value computes.
	Op Op

	// BitSize is the width of each component in bits (1, 8, 16, 32 or 64).
	// Zero for void operations.
	BitSize uint8

	// Comps is the number of vector components, 1 for scalars.
	Comps uint8

	// Args are the input values to this operation.
	Args []*Value

	// Block is the basic block that contains this value.
	Block *Block

	// AuxInt holds the raw constant bits for OpConst and the slot index
	// for OpArg and OpOutput.
	AuxInt int64

	// Uses tracks the number of references to this value from other
	// values' Args and from block controls.
	Uses int32

	// Pos is the source position associated with this value.
	Pos syntax.Pos
}

// String returns a short string representation of the value (e.g., "v5").
func (v *Value) String() string {
	return fmt.Sprintf("v%d", v.ID)
}

// Type returns the value's type string, e.g. "32" or "16x4".
func (v *Value) Type() string {
	if v.Comps > 1 {
		return fmt.Sprintf("%dx%d", v.BitSize, v.Comps)
	}
	return fmt.Sprintf("%d", v.BitSize)
}

// LongString returns a detailed string representation including op, type, and args.
func (v *Value) LongString() string {
	return formatValue(v)
}

// AddArg appends a value to the argument list and increments the arg's use count.
func (v *Value) AddArg(arg *Value) {
	v.Args = append(v.Args, arg)
	arg.Uses++
}

// SetArgs replaces the argument list, adjusting use counts.
func (v *Value) SetArgs(args []*Value) {
	for _, old := range v.Args {
		old.Uses--
	}
	v.Args = args
	for _, arg := range args {
		arg.Uses++
	}
}

// ReplaceArg replaces the argument at index i, adjusting use counts.
func (v *Value) ReplaceArg(i int, new *Value) {
	old := v.Args[i]
	old.Uses--
	v.Args[i] = new
	new.Uses++
}

// IsPure returns true if this value's op has no side effects.
func (v *Value) IsPure() bool {
	return v.Op.IsPure()
}

// IsConst reports whether v is a compile-time constant.
func (v *Value) IsConst() bool {
	return v.Op == OpConst
}

// ConstBits returns the constant's bits truncated to its bit size.
// It must only be called on constants.
func (v *Value) ConstBits() uint64 {
	return types.Truncate(uint64(v.AuxInt), v.BitSize)
}

// UsedByIf reports whether v is the condition of a conditional branch.
func (v *Value) UsedByIf() bool {
	if v.Block == nil || v.Block.Func == nil {
		return false
	}
	for _, b := range v.Block.Func.Blocks {
		if b.Kind == BlockIf && len(b.Controls) > 0 && b.Controls[0] == v {
			return true
		}
	}
	return false
}
