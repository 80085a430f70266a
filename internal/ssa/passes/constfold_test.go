package passes

import (
	"context"
	"testing"

	"github.com/you-not-fish/algopt/internal/ssa"
	"github.com/you-not-fish/algopt/internal/types"
)

func TestConstFold(t *testing.T) {
	f := parse(t, `func f:
  b0: (entry)
    v0 = arg <32> [0]
    v1 = const <32> [6]
    v2 = const <32> [7]
    v3 = imul <32> v1 v2
    v4 = iadd <32> v0 v3
    v5 = find_lsb <32> v1
    v6 = const <32> [2.0]
    v7 = fmul <32x4> v6 v6
    output [0] v4
    output [1] v5
    output [2] v7
    Return
`)
	if !ConstFold(context.Background(), f) {
		t.Fatal("ConstFold reported no change")
	}
	if err := ssa.VerifyDom(f); err != nil {
		t.Fatalf("verify: %v\n%s", err, ssa.Sprint(f))
	}

	var outs []*ssa.Value
	for _, v := range f.Entry.Values {
		if v.Op == ssa.OpOutput {
			outs = append(outs, v.Args[0])
		}
	}

	// v4 still reads the arg, but its other operand is now 42.
	if v4 := outs[0]; v4.Op != ssa.OpIAdd || !v4.Args[1].IsConst() || v4.Args[1].ConstBits() != 42 {
		t.Errorf("output 0 = %s", v4.LongString())
	}
	if lsb := outs[1]; !lsb.IsConst() || lsb.ConstBits() != 1 {
		t.Errorf("output 1 = %s, want const 1", lsb.LongString())
	}
	vec := outs[2]
	if !vec.IsConst() || vec.Comps != 4 || types.DecodeFloat(vec.ConstBits(), 32) != 4 {
		t.Errorf("output 2 = %s, want const <32x4> 4.0", vec.LongString())
	}

	if ConstFold(context.Background(), f) {
		t.Error("second ConstFold reported a change")
	}
}

func TestConstFoldSkipsUnused(t *testing.T) {
	f := parse(t, `func f:
  b0: (entry)
    v0 = const <32> [1]
    v1 = const <32> [2]
    v2 = iadd <32> v0 v1
    output [0] v0
    Return
`)
	if ConstFold(context.Background(), f) {
		t.Errorf("ConstFold changed:\n%s", ssa.Sprint(f))
	}
}

func TestConstFoldDivisionByZero(t *testing.T) {
	f := parse(t, `func f:
  b0: (entry)
    v0 = const <32> [5]
    v1 = const <32> [0]
    v2 = udiv <32> v0 v1
    output [0] v2
    Return
`)
	if !ConstFold(context.Background(), f) {
		t.Fatal("ConstFold reported no change")
	}
	out := f.Entry.Values[len(f.Entry.Values)-1].Args[0]
	if !out.IsConst() || out.ConstBits() != 0 {
		t.Errorf("5/0 folded to %s, want 0", out.LongString())
	}
}
