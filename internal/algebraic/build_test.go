package algebraic

import (
	"testing"

	"github.com/you-not-fish/algopt/internal/ssa"
	"github.com/you-not-fish/algopt/internal/types"
)

// rewrite matches and builds r at v.
func rewrite(t *testing.T, r *Rule, v *ssa.Value) (*ssa.Value, bool) {
	t.Helper()
	var env Env
	if !Match(r, v, &env) {
		t.Fatalf("%s did not match %s", r, v.LongString())
	}
	return Build(r, v, &env)
}

func TestBuildInsertsBefore(t *testing.T) {
	f := parseFunc(t, `func f:
  b0: (entry)
    v0 = arg <16> [0]
    v1 = const <16> [8]
    v2 = imul <16> v0 v1
    output [0] v2
    Return
`)
	v2 := value(t, f, 2)
	nv, ok := rewrite(t, rule(t, "(imul a #b{is_pos_pow2}) -> (ishl a (find_lsb b))"), v2)
	if !ok {
		t.Fatal("Build failed")
	}

	if nv.Op != ssa.OpIShl || nv.BitSize != 16 || nv.Args[0] != value(t, f, 0) {
		t.Errorf("result = %s", nv.LongString())
	}
	if lsb := nv.Args[1]; lsb.Op != ssa.OpFindLSB || lsb.BitSize != 32 || lsb.Args[0] != value(t, f, 1) {
		t.Errorf("count = %s", lsb.LongString())
	}

	vals := f.Entry.Values
	if len(vals) != 6 || vals[2] != nv.Args[1] || vals[3] != nv || vals[4] != v2 {
		t.Errorf("block order:\n%s", ssa.Sprint(f))
	}
	if nv.Pos != v2.Pos {
		t.Errorf("new value position %v, want %v", nv.Pos, v2.Pos)
	}
	if err := ssa.VerifyDom(f); err != nil {
		t.Errorf("verify: %v", err)
	}
}

func TestBuildConstants(t *testing.T) {
	tests := []struct {
		src  string
		rule string
		size uint8
		bits uint64
	}{
		{"v1 = flt <1> v0 v0", "(flt a a) -> false", 1, 0},
		{"v1 = ige <1> v0 v0", "(ige a a) -> true", 1, 1},
		{"v1 = isub <32> v0 v0", "(isub a a) -> -1", 32, 0xffffffff},
		{"v1 = fmul <32> v0 v0", "(fmul a a) -> 1.0", 32, 0x3f800000},
		{"v1 = fmul <32> v0 v0", "(fmul a a) -> -0.0", 32, 0x80000000},
		{"v1 = ior <32> v0 v0", "(ior a a) -> 0x80000000", 32, 0x80000000},
	}
	for _, tt := range tests {
		f := parseFunc(t, "func f:\n  b0: (entry)\n    v0 = arg <32> [0]\n    "+tt.src+"\n    output [0] v1\n    Return\n")
		nv, ok := rewrite(t, rule(t, tt.rule), value(t, f, 1))
		if !ok {
			t.Errorf("%s: Build failed", tt.rule)
			continue
		}
		if !nv.IsConst() || nv.BitSize != tt.size || nv.ConstBits() != tt.bits {
			t.Errorf("%s: result = %s, want %#x@%d", tt.rule, nv.LongString(), tt.bits, tt.size)
		}
	}
}

func TestBuildMixedSizes(t *testing.T) {
	f := parseFunc(t, `func f:
  b0: (entry)
    v0 = arg <1x2> [0]
    v1 = b2i <8x2> v0
    v2 = i2f <16x2> v1
    output [0] v2
    Return
`)
	nv, ok := rewrite(t, rule(t, "(i2f (b2i a)) -> (b2f a)"), value(t, f, 2))
	if !ok {
		t.Fatal("Build failed")
	}
	if nv.Op != ssa.OpB2F || nv.BitSize != 16 || nv.Comps != 2 || nv.Args[0] != value(t, f, 0) {
		t.Errorf("result = %s", nv.LongString())
	}
	if err := ssa.VerifyDom(f); err != nil {
		t.Errorf("verify: %v", err)
	}
}

func TestBuildFailures(t *testing.T) {
	tests := []struct {
		name string
		src  string
		rule string
	}{
		{
			"unresolved operand width",
			"v1 = arg <32> [1]\n    v2 = ieq <1> v0 v1",
			"(ieq a b) -> (ieq (u2u a) (u2u b))",
		},
		{
			"bound width differs from result",
			"v1 = i2i <64> v0\n    v2 = i2i <16> v1",
			"(i2i (i2i a)) -> (iadd a a)",
		},
		{
			"literal does not fit",
			"v1 = i2i <8> v0\n    v2 = isub <8> v1 v1",
			"(isub a a) -> 256",
		},
		{
			"float literal at integer width",
			"v1 = i2i <8> v0\n    v2 = fmul <8> v1 v1",
			"(fmul a a) -> 1.0",
		},
		{
			"broadcast operand as result",
			"v1 = arg <32x4> [1]\n    v2 = iadd <32x4> v1 v0",
			"(iadd a b.*) -> b",
		},
	}
	for _, tt := range tests {
		src := "func f:\n  b0: (entry)\n    v0 = arg <32> [0]\n    " + tt.src + "\n    output [0] v2\n    Return\n"
		funcs, err := ssa.ParseString("test.ssa", src)
		if err != nil {
			t.Fatalf("%s: parse: %v", tt.name, err)
		}
		f := funcs[0]
		before := ssa.Sprint(f)

		if _, ok := rewrite(t, rule(t, tt.rule), value(t, f, 2)); ok {
			t.Errorf("%s: Build succeeded:\n%s", tt.name, ssa.Sprint(f))
			continue
		}
		if after := ssa.Sprint(f); after != before {
			t.Errorf("%s: failed Build changed the function:\n%s", tt.name, after)
		}
	}
}

func TestBuildVectorConstant(t *testing.T) {
	f := parseFunc(t, `func f:
  b0: (entry)
    v0 = arg <64x3> [0]
    v1 = arg <64> [1]
    v2 = ixor <64x3> v0 v1
    v3 = ixor <64x3> v2 v2
    output [0] v3
    Return
`)
	nv, ok := rewrite(t, rule(t, "(ixor a a) -> 0"), value(t, f, 3))
	if !ok {
		t.Fatal("Build failed")
	}
	if !nv.IsConst() || nv.BitSize != 64 || nv.Comps != 3 || nv.ConstBits() != 0 {
		t.Errorf("result = %s", nv.LongString())
	}
	if got := types.Format(types.Int, nv.ConstBits(), nv.BitSize); got != "0" {
		t.Errorf("constant = %s", got)
	}
}
