package passes

import (
	"context"
	"testing"

	"github.com/you-not-fish/algopt/internal/ssa"
)

func ids(b *ssa.Block) []ssa.ID {
	var out []ssa.ID
	for _, v := range b.Values {
		out = append(out, v.ID)
	}
	return out
}

func sameIDs(a, b []ssa.ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDeadCodeChain(t *testing.T) {
	f := parse(t, `func f:
  b0: (entry)
    v0 = arg <32> [0]
    v1 = const <32> [1]
    v2 = iadd <32> v0 v1
    v3 = imul <32> v2 v2
    v4 = ineg <32> v0
    output [0] v4
    Return
`)
	if !DeadCode(context.Background(), f) {
		t.Fatal("DeadCode reported no change")
	}
	if err := ssa.VerifyDom(f); err != nil {
		t.Fatalf("verify: %v\n%s", err, ssa.Sprint(f))
	}
	if got, want := ids(f.Entry), []ssa.ID{0, 4, 5}; !sameIDs(got, want) {
		t.Errorf("values = %v, want %v", got, want)
	}
	if DeadCode(context.Background(), f) {
		t.Error("second DeadCode reported a change")
	}
}

func TestDeadCodeKeepsBranchConditions(t *testing.T) {
	f := parse(t, `func f:
  b0: (entry)
    v0 = arg <32> [0]
    v1 = const <32> [0]
    v2 = ieq <1> v0 v1
    If v2 -> b1 b2
  b1: <- b0
    Exit
  b2: <- b0
    Return
`)
	if DeadCode(context.Background(), f) {
		t.Errorf("DeadCode changed a function with no dead values:\n%s", ssa.Sprint(f))
	}
	if n := len(f.Entry.Values); n != 3 {
		t.Errorf("entry has %d values, want 3", n)
	}
}

func TestDeadCodePhiCycle(t *testing.T) {
	f := parse(t, `func f:
  b0: (entry)
    v0 = arg <32> [0]
    v1 = const <32> [1]
    Plain -> b1
  b1: <- b0 b2
    v2 = phi <32> v0 v5
    v3 = phi <32> v1 v3
    v4 = ilt <1> v2 v1
    If v4 -> b2 b3
  b2: <- b1
    v5 = iadd <32> v2 v1
    v6 = iadd <32> v5 v5
    Plain -> b1
  b3: <- b1
    output [0] v3
    Return
`)
	if !DeadCode(context.Background(), f) {
		t.Fatal("DeadCode reported no change")
	}
	if err := ssa.VerifyDom(f); err != nil {
		t.Fatalf("verify: %v\n%s", err, ssa.Sprint(f))
	}

	// v3 is trivial and becomes v1; v6 is unused. v2 and v5 stay because
	// they feed the branch.
	b1, b2, b3 := f.Blocks[1], f.Blocks[2], f.Blocks[3]
	if got, want := ids(b1), []ssa.ID{2, 4}; !sameIDs(got, want) {
		t.Errorf("b1 values = %v, want %v", got, want)
	}
	if got, want := ids(b2), []ssa.ID{5}; !sameIDs(got, want) {
		t.Errorf("b2 values = %v, want %v", got, want)
	}
	if out := b3.Values[0]; out.Args[0].ID != 1 {
		t.Errorf("output reads %s, want v1", out.Args[0])
	}
}

func TestDeadCodeUnusedLoop(t *testing.T) {
	f := parse(t, `func f:
  b0: (entry)
    v0 = arg <32> [0]
    v1 = const <32> [1]
    v2 = const <1> [true]
    Plain -> b1
  b1: <- b0 b2
    v3 = phi <32> v0 v4
    If v2 -> b2 b3
  b2: <- b1
    v4 = iadd <32> v3 v1
    Plain -> b1
  b3: <- b1
    output [0] v0
    Return
`)
	if !DeadCode(context.Background(), f) {
		t.Fatal("DeadCode reported no change")
	}
	if err := ssa.VerifyDom(f); err != nil {
		t.Fatalf("verify: %v\n%s", err, ssa.Sprint(f))
	}
	if n := len(f.Blocks[1].Values) + len(f.Blocks[2].Values); n != 0 {
		t.Errorf("loop still has %d values:\n%s", n, ssa.Sprint(f))
	}
	if got, want := ids(f.Entry), []ssa.ID{0, 2}; !sameIDs(got, want) {
		t.Errorf("entry values = %v, want %v", got, want)
	}
}
