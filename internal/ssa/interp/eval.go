// Package interp evaluates SSA functions on concrete inputs. It defines
// the reference semantics of every op, and the rewrite tests use it to
// check that a rule preserves a function's behavior.
package interp

import (
	"math"
	"math/bits"

	"github.com/nikandfor/errors"

	"github.com/you-not-fish/algopt/internal/ssa"
	"github.com/you-not-fish/algopt/internal/types"
)

// Operand is one component of an op argument.
type Operand struct {
	Bits uint64
	Size uint8
}

func (o Operand) sval() int64 { return types.SignExtend(o.Bits, o.Size) }
func (o Operand) uval() uint64 { return types.Truncate(o.Bits, o.Size) }
func (o Operand) bval() bool { return o.Bits&1 != 0 }
func (o Operand) fval() float64 { return types.DecodeFloat(o.Bits, o.Size) }
func (o Operand) isFloatSize() bool { return types.IsFloatSize(o.Size) }

// EvalOp computes one component of an ALU op producing a size-bit result.
//
// Integer arithmetic wraps. Division and modulo by zero yield zero.
// Shift counts are taken modulo the operand width. Floats are computed
// in binary64 and rounded to the result width after every operation.
func EvalOp(op ssa.Op, size uint8, args ...Operand) (uint64, error) {
	info := op.Info()
	if !info.ALU {
		return 0, errors.New("%s is not an ALU op", op)
	}
	if len(args) != info.ArgLen {
		return 0, errors.New("%s: %d operands, want %d", op, len(args), info.ArgLen)
	}
	if !types.IsValidBitSize(size) {
		return 0, errors.New("%s: invalid bit size %d", op, size)
	}
	for i, a := range args {
		if op.ArgClass(i) == types.Float && !a.isFloatSize() {
			return 0, errors.New("%s: float operand %d is %d-bit", op, i, a.Size)
		}
	}
	if info.Out == types.Float && !types.IsFloatSize(size) {
		return 0, errors.New("%s: float result cannot be %d-bit", op, size)
	}

	r, err := eval(op, size, args)
	if err != nil {
		return 0, err
	}
	return types.Truncate(r, size), nil
}

func eval(op ssa.Op, n uint8, a []Operand) (uint64, error) {
	switch op.Info().Out {
	case types.Float:
		return evalFloat(op, n, a), nil
	case types.Bool:
		return b2u(evalCompare(op, a)), nil
	}

	switch op {
	case ssa.OpIAdd:
		return a[0].Bits + a[1].Bits, nil
	case ssa.OpISub:
		return a[0].Bits - a[1].Bits, nil
	case ssa.OpIMul:
		return a[0].Bits * a[1].Bits, nil
	case ssa.OpIDiv:
		x, y := a[0].sval(), a[1].sval()
		if y == 0 {
			return 0, nil
		}
		return uint64(x / y), nil
	case ssa.OpUDiv:
		if a[1].uval() == 0 {
			return 0, nil
		}
		return a[0].uval() / a[1].uval(), nil
	case ssa.OpUMod:
		if a[1].uval() == 0 {
			return 0, nil
		}
		return a[0].uval() % a[1].uval(), nil
	case ssa.OpINeg:
		return -a[0].Bits, nil
	case ssa.OpIAbs:
		if x := a[0].sval(); x < 0 {
			return uint64(-x), nil
		}
		return a[0].Bits, nil
	case ssa.OpIMin:
		return uint64(min(a[0].sval(), a[1].sval())), nil
	case ssa.OpIMax:
		return uint64(max(a[0].sval(), a[1].sval())), nil
	case ssa.OpUMin:
		return min(a[0].uval(), a[1].uval()), nil
	case ssa.OpUMax:
		return max(a[0].uval(), a[1].uval()), nil

	case ssa.OpIShl:
		return a[0].Bits << (a[1].uval() % uint64(n)), nil
	case ssa.OpIShr:
		return uint64(a[0].sval() >> (a[1].uval() % uint64(n))), nil
	case ssa.OpUShr:
		return a[0].uval() >> (a[1].uval() % uint64(n)), nil

	case ssa.OpIAnd:
		return a[0].Bits & a[1].Bits, nil
	case ssa.OpIOr:
		return a[0].Bits | a[1].Bits, nil
	case ssa.OpIXor:
		return a[0].Bits ^ a[1].Bits, nil
	case ssa.OpINot:
		return ^a[0].Bits, nil
	case ssa.OpFindLSB:
		x := a[0].uval()
		if x == 0 {
			return types.EncodeInt(-1, n), nil
		}
		return uint64(bits.TrailingZeros64(x)), nil
	case ssa.OpUBFE, ssa.OpIBFE:
		return bitfield(op == ssa.OpIBFE, n, a[0], a[1].uval(), a[2].uval()), nil

	case ssa.OpBCSel:
		if a[0].bval() {
			return a[1].Bits, nil
		}
		return a[2].Bits, nil

	case ssa.OpF2I:
		return types.EncodeInt(f2i(a[0].fval(), n), n), nil
	case ssa.OpF2U:
		return f2u(a[0].fval(), n), nil
	case ssa.OpB2I:
		return b2u(a[0].bval()), nil
	case ssa.OpI2I:
		return uint64(a[0].sval()), nil
	case ssa.OpU2U:
		return a[0].uval(), nil
	}
	return 0, errors.New("no evaluation rule for %s", op)
}

// bitfield extracts count bits of x starting at offset. The offset is
// taken modulo the width and count is clamped to it.
func bitfield(signed bool, n uint8, x Operand, offset, count uint64) uint64 {
	off := offset % uint64(n)
	cnt := min(count, uint64(n))
	if cnt == 0 {
		return 0
	}
	v := (x.uval() >> off) & types.Mask(uint8(cnt))
	if signed {
		return uint64(types.SignExtend(v, uint8(cnt)))
	}
	return v
}

func evalCompare(op ssa.Op, a []Operand) bool {
	switch op {
	case ssa.OpIEq:
		return a[0].uval() == a[1].uval()
	case ssa.OpINe:
		return a[0].uval() != a[1].uval()
	case ssa.OpILt:
		return a[0].sval() < a[1].sval()
	case ssa.OpIGe:
		return a[0].sval() >= a[1].sval()
	case ssa.OpULt:
		return a[0].uval() < a[1].uval()
	case ssa.OpUGe:
		return a[0].uval() >= a[1].uval()
	case ssa.OpFEq:
		return a[0].fval() == a[1].fval()
	case ssa.OpFNe:
		return a[0].fval() != a[1].fval()
	case ssa.OpFLt:
		return a[0].fval() < a[1].fval()
	case ssa.OpFGe:
		return a[0].fval() >= a[1].fval()
	case ssa.OpI2B:
		return a[0].uval() != 0
	case ssa.OpF2B:
		return a[0].fval() != 0
	}
	return false
}

func evalFloat(op ssa.Op, n uint8, a []Operand) uint64 {
	sign := uint64(1) << (n - 1)
	round := func(f float64) float64 { return types.RoundFloat(f, n) }

	var f float64
	switch op {
	case ssa.OpFNeg:
		return a[0].Bits ^ sign
	case ssa.OpFAbs:
		return a[0].Bits &^ sign
	case ssa.OpF2F:
		if a[0].Size == n {
			return a[0].Bits
		}
		f = a[0].fval()
	case ssa.OpFAdd:
		f = a[0].fval() + a[1].fval()
	case ssa.OpFSub:
		f = a[0].fval() - a[1].fval()
	case ssa.OpFMul:
		f = a[0].fval() * a[1].fval()
	case ssa.OpFDiv:
		f = a[0].fval() / a[1].fval()
	case ssa.OpFSat:
		f = math.Min(math.Max(a[0].fval(), 0), 1)
	case ssa.OpFMin:
		f = math.Min(a[0].fval(), a[1].fval())
	case ssa.OpFMax:
		f = math.Max(a[0].fval(), a[1].fval())
	case ssa.OpFFMA:
		f = math.FMA(a[0].fval(), a[1].fval(), a[2].fval())
	case ssa.OpFRcp:
		f = 1 / a[0].fval()
	case ssa.OpFSqrt:
		f = math.Sqrt(a[0].fval())
	case ssa.OpFPow:
		f = math.Pow(a[0].fval(), a[1].fval())
	case ssa.OpFExp2:
		f = math.Exp2(a[0].fval())
	case ssa.OpFLog2:
		f = math.Log2(a[0].fval())
	case ssa.OpFLrp:
		x, y, t := a[0].fval(), a[1].fval(), a[2].fval()
		f = round(round(x*round(1-t)) + round(y*t))
	case ssa.OpI2F:
		f = float64(a[0].sval())
	case ssa.OpU2F:
		f = float64(a[0].uval())
	case ssa.OpB2F:
		if a[0].bval() {
			f = 1
		}
	}
	return types.EncodeFloat(f, n)
}

// f2i truncates toward zero and saturates; NaN converts to zero.
func f2i(f float64, n uint8) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f <= float64(types.MinInt(n)):
		return types.MinInt(n)
	case f >= -float64(types.MinInt(n)):
		return types.MaxInt(n)
	}
	return int64(f)
}

func f2u(f float64, n uint8) uint64 {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= math.Ldexp(1, int(n)):
		return types.MaxUint(n)
	}
	return uint64(f)
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
