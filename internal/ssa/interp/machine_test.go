package interp

import (
	"testing"

	"github.com/you-not-fish/algopt/internal/ssa"
	"github.com/you-not-fish/algopt/internal/types"
)

func parse(t *testing.T, src string) *ssa.Func {
	t.Helper()
	funcs, err := ssa.ParseString("test.ssa", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := ssa.VerifyDom(funcs[0]); err != nil {
		t.Fatalf("verify: %v", err)
	}
	return funcs[0]
}

const sumSrc = `func sum:
  b0: (entry)
    v0 = arg <32> [0]
    v1 = const <32> [0]
    v2 = const <32> [1]
    Plain -> b1
  b1: <- b0 b2
    v3 = phi <32> v1 v6
    v4 = phi <32> v1 v7
    v5 = ilt <1> v3 v0
    If v5 -> b2 b3
  b2: <- b1
    v6 = iadd <32> v3 v2
    v7 = iadd <32> v4 v3
    Plain -> b1
  b3: <- b1
    output [0] v4
    Return
`

func TestRunLoop(t *testing.T) {
	f := parse(t, sumSrc)

	tests := []struct {
		n, want uint64
	}{
		{0, 0},
		{1, 0},
		{5, 10},
		{100, 4950},
	}
	for _, tt := range tests {
		res, err := Run(f, map[int64][]uint64{0: {tt.n}})
		if err != nil {
			t.Fatalf("n=%d: %v", tt.n, err)
		}
		if got := res.Outputs[0]; len(got) != 1 || got[0] != tt.want {
			t.Errorf("n=%d: output = %v, want %d", tt.n, got, tt.want)
		}
		if res.Discarded {
			t.Errorf("n=%d: discarded", tt.n)
		}
	}
}

func TestRunPhiSwap(t *testing.T) {
	f := parse(t, `func swap:
  b0: (entry)
    v0 = const <8> [1]
    v1 = const <8> [2]
    v2 = const <8> [0]
    v3 = const <8> [3]
    Plain -> b1
  b1: <- b0 b2
    v4 = phi <8> v0 v5
    v5 = phi <8> v1 v4
    v6 = phi <8> v2 v8
    v7 = ilt <1> v6 v3
    If v7 -> b2 b3
  b2: <- b1
    v8 = iadd <8> v6 v0
    Plain -> b1
  b3: <- b1
    output [0] v4
    output [1] v5
    Return
`)
	res, err := Run(f, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Outputs[0][0] != 2 || res.Outputs[1][0] != 1 {
		t.Errorf("outputs = %v", res.Outputs)
	}
}

func TestRunVector(t *testing.T) {
	f := parse(t, `func vec:
  b0: (entry)
    v0 = arg <32x4> [0]
    v1 = arg <32> [1]
    v2 = fmul <32x4> v0 v1
    v3 = const <32> [1.0]
    v4 = fadd <32x4> v2 v3
    output [0] v4
    Return
`)
	in := make([]uint64, 4)
	for i := range in {
		in[i] = types.EncodeFloat(float64(i), 32)
	}
	res, err := Run(f, map[int64][]uint64{
		0: in,
		1: {types.EncodeFloat(2, 32)},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := res.Outputs[0]
	if len(out) != 4 {
		t.Fatalf("output has %d components", len(out))
	}
	for i, x := range out {
		if got, want := types.DecodeFloat(x, 32), float64(2*i+1); got != want {
			t.Errorf("component %d = %g, want %g", i, got, want)
		}
	}
}

func TestRunExit(t *testing.T) {
	f := parse(t, `func kill:
  b0: (entry)
    v0 = arg <32> [0]
    v1 = const <32> [0]
    v2 = ieq <1> v0 v1
    If v2 -> b1 b2
  b1: <- b0
    Exit
  b2: <- b0
    output [0] v0
    Return
`)
	res, err := Run(f, map[int64][]uint64{0: {0}})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Discarded || len(res.Outputs) != 0 {
		t.Errorf("zero input: discarded=%v outputs=%v", res.Discarded, res.Outputs)
	}

	res, err = Run(f, map[int64][]uint64{0: {7}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Discarded || res.Outputs[0][0] != 7 {
		t.Errorf("input 7: discarded=%v outputs=%v", res.Discarded, res.Outputs)
	}
}

func TestRunStepLimit(t *testing.T) {
	f := parse(t, `func spin:
  b0: (entry)
    Plain -> b1
  b1: <- b0 b1
    v0 = const <32> [0]
    Plain -> b1
`)
	m := NewMachine(f)
	m.MaxSteps = 100
	if _, err := m.Run(nil); err != ErrStepLimit {
		t.Errorf("Run = %v, want ErrStepLimit", err)
	}
}

func TestRunInputErrors(t *testing.T) {
	f := parse(t, `func f:
  b0: (entry)
    v0 = arg <32x2> [0]
    output [0] v0
    Return
`)
	if _, err := Run(f, nil); err == nil {
		t.Error("missing input accepted")
	}
	if _, err := Run(f, map[int64][]uint64{0: {1, 2, 3}}); err == nil {
		t.Error("input with 3 components accepted")
	}
	res, err := Run(f, map[int64][]uint64{0: {0x1_0000_0005}})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Outputs[0]; len(got) != 2 || got[0] != 5 || got[1] != 5 {
		t.Errorf("broadcast input = %v", got)
	}
}
