package passes

import (
	"context"

	"github.com/nikandfor/tlog"

	"github.com/you-not-fish/algopt/internal/ssa"
	"github.com/you-not-fish/algopt/internal/ssa/interp"
)

// ConstFold replaces ALU values whose arguments are all constants with a
// constant. Values the interpreter rejects are left alone.
func ConstFold(ctx context.Context, f *ssa.Func) bool {
	tr := tlog.SpanFromContext(ctx)

	changed := false
	for _, b := range f.Blocks {
		for i := 0; i < len(b.Values); i++ {
			v := b.Values[i]
			if !v.Op.IsALU() || v.Uses == 0 || !constArgs(v) {
				continue
			}

			ops := make([]interp.Operand, len(v.Args))
			for j, arg := range v.Args {
				ops[j] = interp.Operand{Bits: arg.ConstBits(), Size: arg.BitSize}
			}
			bits, err := interp.EvalOp(v.Op, v.BitSize, ops...)
			if err != nil {
				tr.Printw("cannot fold", "value", v.LongString(), "err", err)
				continue
			}

			c := f.NewConst(v, v.BitSize, v.Comps, bits)
			f.ReplaceUses(v, c)
			i++ // c was inserted before v
			changed = true

			if tr.If("constfold") {
				tr.Printw("fold", "old", v.LongString(), "new", c.LongString())
			}
		}
	}
	if changed {
		f.InvalidateAnalyses()
	}
	return changed
}

func constArgs(v *ssa.Value) bool {
	for _, arg := range v.Args {
		if !arg.IsConst() {
			return false
		}
	}
	return true
}
