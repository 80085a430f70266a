package algebraic

import (
	"context"

	"github.com/nikandfor/tlog"

	"github.com/you-not-fish/algopt/internal/config"
	"github.com/you-not-fish/algopt/internal/ssa"
)

// Run applies rs once to every eligible instruction of f, with the
// conditions evaluated against opts. It reports whether anything was
// rewritten; callers repeat it until it returns false.
func Run(ctx context.Context, f *ssa.Func, rs *RuleSet, opts *config.Options, stats *Stats) bool {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "algebraic", "rules", rs.Name, "func", f.Name)
	defer tr.Finish()

	d := dispatcher{rs: rs, conds: rs.Conditions(opts), stats: stats, tr: tr}
	progress := d.function(f)

	tr.Printw("done", "progress", progress, "rewrites", d.fired)
	return progress
}

// Apply is Run with precomputed conditions and no tracing.
func Apply(f *ssa.Func, rs *RuleSet, conds Conditions, stats *Stats) bool {
	d := dispatcher{rs: rs, conds: conds, stats: stats}
	return d.function(f)
}

type dispatcher struct {
	rs    *RuleSet
	conds Conditions
	stats *Stats
	tr    tlog.Span
	fired int
	env   Env
}

func (d *dispatcher) function(f *ssa.Func) bool {
	progress := false
	for _, b := range f.Blocks {
		if d.block(b) {
			progress = true
		}
	}
	if progress {
		f.InvalidateAnalyses()
	}
	return progress
}

// block visits the values of b last to first, so the uses of a value have
// been simplified by the time it is considered. Values inserted by a
// rewrite land before the current position and are not revisited in the
// same walk.
func (d *dispatcher) block(b *ssa.Block) bool {
	progress := false
	for i := len(b.Values) - 1; i >= 0; i-- {
		v := b.Values[i]
		if !v.Op.IsALU() || v.Uses == 0 {
			continue
		}
		if d.value(v) {
			progress = true
		}
	}
	return progress
}

// value tries the rules for v's op in order and applies the first that
// matches and builds.
func (d *dispatcher) value(v *ssa.Value) bool {
	for _, r := range d.rs.Rules(v.Op) {
		if !d.conds.Enabled(r.Cond) {
			continue
		}

		d.env.Reset()
		if !Match(r, v, &d.env) {
			d.stats.record(d.rs, r, false, false)
			continue
		}
		nv, ok := Build(r, v, &d.env)
		d.stats.record(d.rs, r, true, ok)
		if !ok {
			continue
		}

		d.fired++
		if d.tr.If("algebraic") {
			d.tr.Printw("rewrite", "rule", r.Name, "old", v.LongString(), "new", nv.LongString())
		}
		return true
	}
	return false
}
