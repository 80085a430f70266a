package interp

import (
	"math"
	"testing"

	"github.com/you-not-fish/algopt/internal/ssa"
	"github.com/you-not-fish/algopt/internal/types"
)

func i32(v int64) Operand   { return Operand{Bits: types.EncodeInt(v, 32), Size: 32} }
func u8(v uint64) Operand   { return Operand{Bits: v, Size: 8} }
func f32(f float64) Operand { return Operand{Bits: types.EncodeFloat(f, 32), Size: 32} }
func b1(b bool) Operand     { return Operand{Bits: b2u(b), Size: 1} }

func TestEvalInteger(t *testing.T) {
	tests := []struct {
		op   ssa.Op
		size uint8
		args []Operand
		want uint64
	}{
		{ssa.OpIAdd, 32, []Operand{i32(-1), i32(1)}, 0},
		{ssa.OpIAdd, 8, []Operand{u8(200), u8(100)}, 44},
		{ssa.OpISub, 32, []Operand{i32(0), i32(1)}, 0xffffffff},
		{ssa.OpIMul, 8, []Operand{u8(16), u8(16)}, 0},
		{ssa.OpIDiv, 32, []Operand{i32(-7), i32(2)}, types.EncodeInt(-3, 32)},
		{ssa.OpIDiv, 32, []Operand{i32(math.MinInt32), i32(-1)}, 0x80000000},
		{ssa.OpIDiv, 32, []Operand{i32(5), i32(0)}, 0},
		{ssa.OpUDiv, 8, []Operand{u8(255), u8(16)}, 15},
		{ssa.OpUDiv, 8, []Operand{u8(255), u8(0)}, 0},
		{ssa.OpUMod, 8, []Operand{u8(255), u8(16)}, 15},
		{ssa.OpINeg, 32, []Operand{i32(1)}, 0xffffffff},
		{ssa.OpIAbs, 32, []Operand{i32(-5)}, 5},
		{ssa.OpIAbs, 32, []Operand{i32(math.MinInt32)}, 0x80000000},
		{ssa.OpIMin, 32, []Operand{i32(-1), i32(1)}, 0xffffffff},
		{ssa.OpUMin, 32, []Operand{i32(-1), i32(1)}, 1},
		{ssa.OpIMax, 8, []Operand{u8(0x80), u8(1)}, 1},
		{ssa.OpUMax, 8, []Operand{u8(0x80), u8(1)}, 0x80},
		{ssa.OpIShl, 8, []Operand{u8(1), i32(7)}, 0x80},
		{ssa.OpIShl, 8, []Operand{u8(1), i32(9)}, 2},
		{ssa.OpIShr, 8, []Operand{u8(0x80), i32(7)}, 0xff},
		{ssa.OpUShr, 8, []Operand{u8(0x80), i32(7)}, 1},
		{ssa.OpIAnd, 8, []Operand{u8(0xf0), u8(0x3c)}, 0x30},
		{ssa.OpIOr, 8, []Operand{u8(0xf0), u8(0x0f)}, 0xff},
		{ssa.OpIXor, 8, []Operand{u8(0xff), u8(0x0f)}, 0xf0},
		{ssa.OpINot, 8, []Operand{u8(0x0f)}, 0xf0},
		{ssa.OpFindLSB, 32, []Operand{u8(8)}, 3},
		{ssa.OpFindLSB, 32, []Operand{u8(0)}, 0xffffffff},
		{ssa.OpUBFE, 32, []Operand{i32(0x12345678), i32(8), i32(8)}, 0x56},
		{ssa.OpUBFE, 32, []Operand{i32(0x12345678), i32(8), i32(0)}, 0},
		{ssa.OpUBFE, 32, []Operand{i32(0x12345678), i32(0), i32(40)}, 0x12345678},
		{ssa.OpIBFE, 32, []Operand{i32(0x0000ff00), i32(8), i32(8)}, 0xffffffff},
		{ssa.OpIBFE, 32, []Operand{i32(0x00007f00), i32(8), i32(8)}, 0x7f},
		{ssa.OpBCSel, 32, []Operand{b1(true), i32(1), i32(2)}, 1},
		{ssa.OpBCSel, 32, []Operand{b1(false), i32(1), i32(2)}, 2},
		{ssa.OpB2I, 32, []Operand{b1(true)}, 1},
		{ssa.OpI2I, 32, []Operand{u8(0xff)}, 0xffffffff},
		{ssa.OpU2U, 32, []Operand{u8(0xff)}, 0xff},
		{ssa.OpI2I, 8, []Operand{i32(0x1ff)}, 0xff},
		{ssa.OpF2I, 8, []Operand{f32(-2.5)}, 0xfe},
		{ssa.OpF2I, 8, []Operand{f32(1000)}, 0x7f},
		{ssa.OpF2I, 32, []Operand{f32(math.NaN())}, 0},
		{ssa.OpF2U, 8, []Operand{f32(-1)}, 0},
		{ssa.OpF2U, 8, []Operand{f32(300)}, 0xff},
		{ssa.OpF2U, 8, []Operand{f32(254.9)}, 254},
	}
	for _, tt := range tests {
		got, err := EvalOp(tt.op, tt.size, tt.args...)
		if err != nil {
			t.Errorf("%s@%d %v: %v", tt.op, tt.size, tt.args, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s@%d %v = %#x, want %#x", tt.op, tt.size, tt.args, got, tt.want)
		}
	}
}

func TestEvalCompare(t *testing.T) {
	nan := f32(math.NaN())
	tests := []struct {
		op   ssa.Op
		args []Operand
		want bool
	}{
		{ssa.OpIEq, []Operand{i32(-1), i32(-1)}, true},
		{ssa.OpINe, []Operand{i32(-1), i32(1)}, true},
		{ssa.OpILt, []Operand{i32(-1), i32(1)}, true},
		{ssa.OpULt, []Operand{i32(-1), i32(1)}, false},
		{ssa.OpIGe, []Operand{i32(1), i32(1)}, true},
		{ssa.OpUGe, []Operand{i32(0), i32(1)}, false},
		{ssa.OpFEq, []Operand{f32(0), f32(math.Copysign(0, -1))}, true},
		{ssa.OpFEq, []Operand{nan, nan}, false},
		{ssa.OpFNe, []Operand{nan, nan}, true},
		{ssa.OpFLt, []Operand{f32(1), f32(2)}, true},
		{ssa.OpFGe, []Operand{nan, f32(2)}, false},
		{ssa.OpI2B, []Operand{u8(2)}, true},
		{ssa.OpI2B, []Operand{u8(0)}, false},
		{ssa.OpF2B, []Operand{f32(math.Copysign(0, -1))}, false},
		{ssa.OpF2B, []Operand{nan}, true},
	}
	for _, tt := range tests {
		got, err := EvalOp(tt.op, 1, tt.args...)
		if err != nil {
			t.Errorf("%s %v: %v", tt.op, tt.args, err)
			continue
		}
		if got != b2u(tt.want) {
			t.Errorf("%s %v = %d, want %v", tt.op, tt.args, got, tt.want)
		}
	}
}

func TestEvalFloat(t *testing.T) {
	negZero := math.Copysign(0, -1)
	tests := []struct {
		op   ssa.Op
		args []Operand
		want float64
	}{
		{ssa.OpFAdd, []Operand{f32(1.5), f32(2)}, 3.5},
		{ssa.OpFAdd, []Operand{f32(negZero), f32(0)}, 0},
		{ssa.OpFSub, []Operand{f32(1), f32(3)}, -2},
		{ssa.OpFMul, []Operand{f32(-2), f32(0.25)}, -0.5},
		{ssa.OpFDiv, []Operand{f32(1), f32(0)}, math.Inf(1)},
		{ssa.OpFNeg, []Operand{f32(0)}, negZero},
		{ssa.OpFAbs, []Operand{f32(-3)}, 3},
		{ssa.OpFSat, []Operand{f32(-3)}, 0},
		{ssa.OpFSat, []Operand{f32(3)}, 1},
		{ssa.OpFSat, []Operand{f32(0.5)}, 0.5},
		{ssa.OpFMin, []Operand{f32(negZero), f32(0)}, negZero},
		{ssa.OpFMax, []Operand{f32(-1), f32(2)}, 2},
		{ssa.OpFFMA, []Operand{f32(2), f32(3), f32(1)}, 7},
		{ssa.OpFRcp, []Operand{f32(4)}, 0.25},
		{ssa.OpFSqrt, []Operand{f32(9)}, 3},
		{ssa.OpFPow, []Operand{f32(2), f32(10)}, 1024},
		{ssa.OpFExp2, []Operand{f32(-1)}, 0.5},
		{ssa.OpFLog2, []Operand{f32(8)}, 3},
		{ssa.OpFLrp, []Operand{f32(2), f32(4), f32(0.5)}, 3},
		{ssa.OpI2F, []Operand{i32(-3)}, -3},
		{ssa.OpU2F, []Operand{u8(0xff)}, 255},
		{ssa.OpB2F, []Operand{b1(true)}, 1},
		{ssa.OpF2F, []Operand{{Bits: types.EncodeFloat(0.5, 64), Size: 64}}, 0.5},
	}
	for _, tt := range tests {
		got, err := EvalOp(tt.op, 32, tt.args...)
		if err != nil {
			t.Errorf("%s %v: %v", tt.op, tt.args, err)
			continue
		}
		if want := types.EncodeFloat(tt.want, 32); got != want {
			t.Errorf("%s %v = %g (%#x), want %g", tt.op, tt.args, types.DecodeFloat(got, 32), got, tt.want)
		}
	}
}

func TestEvalFloat16(t *testing.T) {
	h := func(f float64) Operand { return Operand{Bits: types.EncodeFloat(f, 16), Size: 16} }

	got, err := EvalOp(ssa.OpFAdd, 16, h(1), h(0.0001))
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x3c00 {
		t.Errorf("fadd@16 1 + 0.0001 = %#x, want 0x3c00", got)
	}

	got, err = EvalOp(ssa.OpFMul, 16, h(300), h(300))
	if err != nil {
		t.Fatal(err)
	}
	if f := types.DecodeFloat(got, 16); !math.IsInf(f, 1) {
		t.Errorf("fmul@16 300*300 = %g, want +Inf", f)
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		op   ssa.Op
		size uint8
		args []Operand
	}{
		{ssa.OpPhi, 32, nil},
		{ssa.OpOutput, 32, []Operand{i32(0)}},
		{ssa.OpIAdd, 32, []Operand{i32(0)}},
		{ssa.OpIAdd, 24, []Operand{i32(0), i32(0)}},
		{ssa.OpFAdd, 8, []Operand{u8(0), u8(0)}},
		{ssa.OpF2I, 32, []Operand{u8(0)}},
	}
	for _, tt := range tests {
		if _, err := EvalOp(tt.op, tt.size, tt.args...); err == nil {
			t.Errorf("EvalOp(%s, %d, %v) succeeded", tt.op, tt.size, tt.args)
		}
	}
}
