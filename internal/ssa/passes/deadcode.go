package passes

import (
	"context"

	"github.com/you-not-fish/algopt/internal/ssa"
)

// DeadCode removes pure values that do not contribute to an output or a
// branch, including cycles of phis kept alive only by each other.
// Trivial phis are replaced by their single incoming value first.
func DeadCode(ctx context.Context, f *ssa.Func) bool {
	changed := removeTrivialPhis(f)

	live := make(map[*ssa.Value]bool)
	var work []*ssa.Value
	mark := func(v *ssa.Value) {
		if !live[v] {
			live[v] = true
			work = append(work, v)
		}
	}
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if !v.IsPure() {
				mark(v)
			}
		}
		for _, c := range b.Controls {
			mark(c)
		}
	}
	for len(work) != 0 {
		v := work[len(work)-1]
		work = work[:len(work)-1]
		for _, arg := range v.Args {
			mark(arg)
		}
	}

	var dead []*ssa.Value
	for _, b := range f.Blocks {
		n := 0
		for _, v := range b.Values {
			if live[v] {
				b.Values[n] = v
				n++
			} else {
				dead = append(dead, v)
			}
		}
		for i := n; i < len(b.Values); i++ {
			b.Values[i] = nil
		}
		b.Values = b.Values[:n]
	}
	for _, v := range dead {
		for _, arg := range v.Args {
			arg.Uses--
		}
		v.Block = nil
	}
	return changed || len(dead) != 0
}

// removeTrivialPhis replaces phis whose arguments are all the same value
// (or the phi itself) with that value.
func removeTrivialPhis(f *ssa.Func) bool {
	changed := false
	for again := true; again; {
		again = false
		for _, b := range f.Blocks {
			for _, v := range b.Values {
				if v.Op != ssa.OpPhi || v.Uses == 0 {
					continue
				}
				if x := trivialPhi(v); x != nil {
					f.ReplaceUses(v, x)
					again, changed = true, true
				}
			}
		}
	}
	return changed
}

// trivialPhi returns the single non-self value if the phi is trivial
// (all args are the same value or self-references), or nil if non-trivial.
func trivialPhi(phi *ssa.Value) *ssa.Value {
	var unique *ssa.Value
	for _, arg := range phi.Args {
		if arg == phi {
			continue
		}
		if unique == nil {
			unique = arg
		} else if arg != unique {
			return nil
		}
	}
	return unique
}
