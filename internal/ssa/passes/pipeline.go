package passes

import (
	"context"

	"github.com/you-not-fish/algopt/internal/algebraic"
	"github.com/you-not-fish/algopt/internal/algebraic/rules"
	"github.com/you-not-fish/algopt/internal/config"
	"github.com/you-not-fish/algopt/internal/ssa"
)

// Pipeline returns the standard optimization passes for a target
// described by opts. stats may be nil.
func Pipeline(opts *config.Options, stats *algebraic.Stats) []Pass {
	rewrite := func(rs *algebraic.RuleSet) func(context.Context, *ssa.Func) bool {
		return func(ctx context.Context, f *ssa.Func) bool {
			return algebraic.Run(ctx, f, rs, opts, stats)
		}
	}
	simplify := rewrite(rules.Algebraic)

	return []Pass{
		{
			Name: "algebraic",
			Fn: func(ctx context.Context, f *ssa.Func) bool {
				changed := simplify(ctx, f)
				if ConstFold(ctx, f) {
					changed = true
				}
				return changed
			},
			Fixpoint: true,
		},
		{Name: "dce", Fn: DeadCode},
		{Name: "before_ffma", Fn: rewrite(rules.BeforeFFMA), Fixpoint: true},
		{Name: "late", Fn: rewrite(rules.Late), Fixpoint: true},
		{Name: "constfold", Fn: ConstFold, Fixpoint: true},
		{Name: "dce", Fn: DeadCode},
	}
}

// Optimize validates opts and runs the standard pipeline on f. A nil
// opts is the zero Options.
func Optimize(ctx context.Context, f *ssa.Func, opts *config.Options, stats *algebraic.Stats, cfg Config) error {
	if opts == nil {
		opts = &config.Options{}
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	return Run(ctx, f, Pipeline(opts, stats), cfg)
}
