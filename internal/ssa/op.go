// Package ssa implements the SSA intermediate representation of shader
// programs: functions of basic blocks holding sized, typeless values.
package ssa

import "github.com/you-not-fish/algopt/internal/types"

// Op represents an SSA operation code.
type Op int

const (
	OpInvalid Op = iota

	OpArg    // shader input; AuxInt = input index
	OpConst  // literal; AuxInt = raw bits, splatted across components
	OpPhi    // φ function; Args = one per predecessor
	OpOutput // store Args[0] to output slot AuxInt; void

	// Integer arithmetic
	OpIAdd
	OpISub
	OpIMul
	OpIDiv
	OpUDiv
	OpUMod
	OpINeg
	OpIAbs
	OpIMin
	OpIMax
	OpUMin
	OpUMax

	// Shifts; the shift count is 32-bit and taken modulo the bit size.
	OpIShl
	OpIShr
	OpUShr

	// Bitwise
	OpIAnd
	OpIOr
	OpIXor
	OpINot
	OpFindLSB // index of the lowest set bit, -1 for zero; 32-bit result
	OpUBFE    // unsigned bitfield extract: Args = value, offset, bits
	OpIBFE    // signed bitfield extract

	// Comparisons; 1-bit result
	OpIEq
	OpINe
	OpILt
	OpIGe
	OpULt
	OpUGe
	OpFEq
	OpFNe
	OpFLt
	OpFGe

	// Float arithmetic
	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpFNeg
	OpFAbs
	OpFSat // clamp to [0, 1]
	OpFMin
	OpFMax
	OpFFMA // Args[0]*Args[1] + Args[2]
	OpFRcp
	OpFSqrt
	OpFPow
	OpFExp2
	OpFLog2
	OpFLrp // Args[0]*(1-Args[2]) + Args[1]*Args[2]

	OpBCSel // Args[0] ? Args[1] : Args[2]; Args[0] is 1-bit

	// Conversions
	OpI2F
	OpU2F
	OpF2I
	OpF2U
	OpB2I
	OpB2F
	OpI2B
	OpF2B
	OpI2I
	OpU2U
	OpF2F

	opCount // sentinel; must be last
)

// MaxArgs is the largest number of operands an ALU op takes.
const MaxArgs = 3

// OpInfo holds metadata about an SSA operation.
type OpInfo struct {
	Name   string // name used in the text format and in rules
	ArgLen int    // number of operands, -1 if variadic

	In  [MaxArgs]types.Class // class each operand is read as
	Out types.Class          // class of the result

	// OutSize is the fixed result bit size, or 0 if the result has the
	// size of its operands or is chosen freely (conversions).
	OutSize uint8

	// InSize holds fixed operand bit sizes. A zero entry means the operand
	// has the result size, or for ops with a fixed or free result size,
	// the same size as every other unfixed operand.
	InSize [MaxArgs]uint8

	Convert     bool // result size is independent of the operand size
	Commutative bool // the first two operands may be swapped
	ALU         bool // eligible for algebraic rewriting
	IsPure      bool // true if the op has no side effects
	IsVoid      bool // true if the op produces no value
}

const (
	ci = types.Int
	cu = types.Uint
	cf = types.Float
	cb = types.Bool
)

// opInfoTable maps each Op to its OpInfo.
var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "invalid"},

	OpArg:    {Name: "arg", IsPure: true},
	OpConst:  {Name: "const", IsPure: true},
	OpPhi:    {Name: "phi", ArgLen: -1, IsPure: true},
	OpOutput: {Name: "output", ArgLen: 1, IsVoid: true},

	OpIAdd: {Name: "iadd", ArgLen: 2, In: [3]types.Class{ci, ci}, Out: ci, Commutative: true, ALU: true, IsPure: true},
	OpISub: {Name: "isub", ArgLen: 2, In: [3]types.Class{ci, ci}, Out: ci, ALU: true, IsPure: true},
	OpIMul: {Name: "imul", ArgLen: 2, In: [3]types.Class{ci, ci}, Out: ci, Commutative: true, ALU: true, IsPure: true},
	OpIDiv: {Name: "idiv", ArgLen: 2, In: [3]types.Class{ci, ci}, Out: ci, ALU: true, IsPure: true},
	OpUDiv: {Name: "udiv", ArgLen: 2, In: [3]types.Class{cu, cu}, Out: cu, ALU: true, IsPure: true},
	OpUMod: {Name: "umod", ArgLen: 2, In: [3]types.Class{cu, cu}, Out: cu, ALU: true, IsPure: true},
	OpINeg: {Name: "ineg", ArgLen: 1, In: [3]types.Class{ci}, Out: ci, ALU: true, IsPure: true},
	OpIAbs: {Name: "iabs", ArgLen: 1, In: [3]types.Class{ci}, Out: ci, ALU: true, IsPure: true},
	OpIMin: {Name: "imin", ArgLen: 2, In: [3]types.Class{ci, ci}, Out: ci, Commutative: true, ALU: true, IsPure: true},
	OpIMax: {Name: "imax", ArgLen: 2, In: [3]types.Class{ci, ci}, Out: ci, Commutative: true, ALU: true, IsPure: true},
	OpUMin: {Name: "umin", ArgLen: 2, In: [3]types.Class{cu, cu}, Out: cu, Commutative: true, ALU: true, IsPure: true},
	OpUMax: {Name: "umax", ArgLen: 2, In: [3]types.Class{cu, cu}, Out: cu, Commutative: true, ALU: true, IsPure: true},

	OpIShl: {Name: "ishl", ArgLen: 2, In: [3]types.Class{ci, cu}, InSize: [3]uint8{0, 32}, Out: ci, ALU: true, IsPure: true},
	OpIShr: {Name: "ishr", ArgLen: 2, In: [3]types.Class{ci, cu}, InSize: [3]uint8{0, 32}, Out: ci, ALU: true, IsPure: true},
	OpUShr: {Name: "ushr", ArgLen: 2, In: [3]types.Class{cu, cu}, InSize: [3]uint8{0, 32}, Out: cu, ALU: true, IsPure: true},

	OpIAnd:    {Name: "iand", ArgLen: 2, In: [3]types.Class{cu, cu}, Out: cu, Commutative: true, ALU: true, IsPure: true},
	OpIOr:     {Name: "ior", ArgLen: 2, In: [3]types.Class{cu, cu}, Out: cu, Commutative: true, ALU: true, IsPure: true},
	OpIXor:    {Name: "ixor", ArgLen: 2, In: [3]types.Class{cu, cu}, Out: cu, Commutative: true, ALU: true, IsPure: true},
	OpINot:    {Name: "inot", ArgLen: 1, In: [3]types.Class{cu}, Out: cu, ALU: true, IsPure: true},
	OpFindLSB: {Name: "find_lsb", ArgLen: 1, In: [3]types.Class{cu}, Out: ci, OutSize: 32, ALU: true, IsPure: true},
	OpUBFE:    {Name: "ubfe", ArgLen: 3, In: [3]types.Class{cu, cu, cu}, InSize: [3]uint8{0, 32, 32}, Out: cu, ALU: true, IsPure: true},
	OpIBFE:    {Name: "ibfe", ArgLen: 3, In: [3]types.Class{ci, cu, cu}, InSize: [3]uint8{0, 32, 32}, Out: ci, ALU: true, IsPure: true},

	OpIEq: {Name: "ieq", ArgLen: 2, In: [3]types.Class{ci, ci}, Out: cb, OutSize: 1, Commutative: true, ALU: true, IsPure: true},
	OpINe: {Name: "ine", ArgLen: 2, In: [3]types.Class{ci, ci}, Out: cb, OutSize: 1, Commutative: true, ALU: true, IsPure: true},
	OpILt: {Name: "ilt", ArgLen: 2, In: [3]types.Class{ci, ci}, Out: cb, OutSize: 1, ALU: true, IsPure: true},
	OpIGe: {Name: "ige", ArgLen: 2, In: [3]types.Class{ci, ci}, Out: cb, OutSize: 1, ALU: true, IsPure: true},
	OpULt: {Name: "ult", ArgLen: 2, In: [3]types.Class{cu, cu}, Out: cb, OutSize: 1, ALU: true, IsPure: true},
	OpUGe: {Name: "uge", ArgLen: 2, In: [3]types.Class{cu, cu}, Out: cb, OutSize: 1, ALU: true, IsPure: true},
	OpFEq: {Name: "feq", ArgLen: 2, In: [3]types.Class{cf, cf}, Out: cb, OutSize: 1, Commutative: true, ALU: true, IsPure: true},
	OpFNe: {Name: "fne", ArgLen: 2, In: [3]types.Class{cf, cf}, Out: cb, OutSize: 1, Commutative: true, ALU: true, IsPure: true},
	OpFLt: {Name: "flt", ArgLen: 2, In: [3]types.Class{cf, cf}, Out: cb, OutSize: 1, ALU: true, IsPure: true},
	OpFGe: {Name: "fge", ArgLen: 2, In: [3]types.Class{cf, cf}, Out: cb, OutSize: 1, ALU: true, IsPure: true},

	OpFAdd:  {Name: "fadd", ArgLen: 2, In: [3]types.Class{cf, cf}, Out: cf, Commutative: true, ALU: true, IsPure: true},
	OpFSub:  {Name: "fsub", ArgLen: 2, In: [3]types.Class{cf, cf}, Out: cf, ALU: true, IsPure: true},
	OpFMul:  {Name: "fmul", ArgLen: 2, In: [3]types.Class{cf, cf}, Out: cf, Commutative: true, ALU: true, IsPure: true},
	OpFDiv:  {Name: "fdiv", ArgLen: 2, In: [3]types.Class{cf, cf}, Out: cf, ALU: true, IsPure: true},
	OpFNeg:  {Name: "fneg", ArgLen: 1, In: [3]types.Class{cf}, Out: cf, ALU: true, IsPure: true},
	OpFAbs:  {Name: "fabs", ArgLen: 1, In: [3]types.Class{cf}, Out: cf, ALU: true, IsPure: true},
	OpFSat:  {Name: "fsat", ArgLen: 1, In: [3]types.Class{cf}, Out: cf, ALU: true, IsPure: true},
	OpFMin:  {Name: "fmin", ArgLen: 2, In: [3]types.Class{cf, cf}, Out: cf, Commutative: true, ALU: true, IsPure: true},
	OpFMax:  {Name: "fmax", ArgLen: 2, In: [3]types.Class{cf, cf}, Out: cf, Commutative: true, ALU: true, IsPure: true},
	OpFFMA:  {Name: "ffma", ArgLen: 3, In: [3]types.Class{cf, cf, cf}, Out: cf, Commutative: true, ALU: true, IsPure: true},
	OpFRcp:  {Name: "frcp", ArgLen: 1, In: [3]types.Class{cf}, Out: cf, ALU: true, IsPure: true},
	OpFSqrt: {Name: "fsqrt", ArgLen: 1, In: [3]types.Class{cf}, Out: cf, ALU: true, IsPure: true},
	OpFPow:  {Name: "fpow", ArgLen: 2, In: [3]types.Class{cf, cf}, Out: cf, ALU: true, IsPure: true},
	OpFExp2: {Name: "fexp2", ArgLen: 1, In: [3]types.Class{cf}, Out: cf, ALU: true, IsPure: true},
	OpFLog2: {Name: "flog2", ArgLen: 1, In: [3]types.Class{cf}, Out: cf, ALU: true, IsPure: true},
	OpFLrp:  {Name: "flrp", ArgLen: 3, In: [3]types.Class{cf, cf, cf}, Out: cf, ALU: true, IsPure: true},

	OpBCSel: {Name: "bcsel", ArgLen: 3, In: [3]types.Class{cb}, InSize: [3]uint8{1}, ALU: true, IsPure: true},

	OpI2F: {Name: "i2f", ArgLen: 1, In: [3]types.Class{ci}, Out: cf, Convert: true, ALU: true, IsPure: true},
	OpU2F: {Name: "u2f", ArgLen: 1, In: [3]types.Class{cu}, Out: cf, Convert: true, ALU: true, IsPure: true},
	OpF2I: {Name: "f2i", ArgLen: 1, In: [3]types.Class{cf}, Out: ci, Convert: true, ALU: true, IsPure: true},
	OpF2U: {Name: "f2u", ArgLen: 1, In: [3]types.Class{cf}, Out: cu, Convert: true, ALU: true, IsPure: true},
	OpB2I: {Name: "b2i", ArgLen: 1, In: [3]types.Class{cb}, InSize: [3]uint8{1}, Out: ci, Convert: true, ALU: true, IsPure: true},
	OpB2F: {Name: "b2f", ArgLen: 1, In: [3]types.Class{cb}, InSize: [3]uint8{1}, Out: cf, Convert: true, ALU: true, IsPure: true},
	OpI2B: {Name: "i2b", ArgLen: 1, In: [3]types.Class{ci}, Out: cb, OutSize: 1, ALU: true, IsPure: true},
	OpF2B: {Name: "f2b", ArgLen: 1, In: [3]types.Class{cf}, Out: cb, OutSize: 1, ALU: true, IsPure: true},
	OpI2I: {Name: "i2i", ArgLen: 1, In: [3]types.Class{ci}, Out: ci, Convert: true, ALU: true, IsPure: true},
	OpU2U: {Name: "u2u", ArgLen: 1, In: [3]types.Class{cu}, Out: cu, Convert: true, ALU: true, IsPure: true},
	OpF2F: {Name: "f2f", ArgLen: 1, In: [3]types.Class{cf}, Out: cf, Convert: true, ALU: true, IsPure: true},
}

var opNames map[string]Op

func init() {
	opNames = make(map[string]Op, opCount)
	for op := Op(1); op < opCount; op++ {
		opNames[opInfoTable[op].Name] = op
	}
}

// LookupOp returns the op with the given name.
func LookupOp(name string) (Op, bool) {
	op, ok := opNames[name]
	return op, ok
}

// NumOps returns the number of defined ops, including OpInvalid.
func NumOps() int { return int(opCount) }

// String returns the name of the op.
func (o Op) String() string {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o].Name
	}
	return "unknown"
}

// Info returns the OpInfo for this op.
func (o Op) Info() *OpInfo {
	if o >= 0 && int(o) < len(opInfoTable) {
		return &opInfoTable[o]
	}
	return &opInfoTable[OpInvalid]
}

// IsPure returns true if this op has no side effects.
func (o Op) IsPure() bool { return o.Info().IsPure }

// IsVoid returns true if this op produces no value.
func (o Op) IsVoid() bool { return o.Info().IsVoid }

// IsALU reports whether the op is an arithmetic or logical instruction.
func (o Op) IsALU() bool { return o.Info().ALU }

// IsCommutative reports whether the first two operands may be swapped.
func (o Op) IsCommutative() bool { return o.Info().Commutative }

// FixedArgSize returns the fixed bit size of operand i, or 0.
func (o Op) FixedArgSize(i int) uint8 {
	if i < 0 || i >= MaxArgs {
		return 0
	}
	return o.Info().InSize[i]
}

// ArgFollowsResult reports whether unfixed operands of o have the
// result's bit size.
func (o Op) ArgFollowsResult() bool {
	info := o.Info()
	return info.OutSize == 0 && !info.Convert
}

// ArgClass returns the class operand i is read as.
func (o Op) ArgClass(i int) types.Class {
	if i < 0 || i >= MaxArgs {
		return types.Invalid
	}
	return o.Info().In[i]
}
