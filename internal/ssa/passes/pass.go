package passes

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nikandfor/errors"
	"github.com/nikandfor/tlog"

	"github.com/you-not-fish/algopt/internal/ssa"
)

// DefaultMaxIterations bounds how often a fixed-point pass is repeated
// when Config.MaxIterations is zero.
const DefaultMaxIterations = 64

// ErrNoFixedPoint is returned when a fixed-point pass still makes
// progress after the iteration limit.
var ErrNoFixedPoint = errors.New("no fixed point")

// Pass describes a single SSA optimization pass.
type Pass struct {
	Name string

	// Fn runs the pass once and reports whether it changed f.
	Fn func(ctx context.Context, f *ssa.Func) bool

	// Fixpoint passes are repeated until Fn reports no change.
	Fixpoint bool
}

// Config controls pass execution behavior.
type Config struct {
	DumpBefore string // dump SSA before this pass ("*" for all)
	DumpAfter  string // dump SSA after this pass ("*" for all)
	Verify     bool   // verify SSA before/after each pass
	DumpFunc   string // restrict dumps to this function name

	MaxIterations int       // per fixed-point pass; 0 means DefaultMaxIterations
	Dump          io.Writer // dump destination; nil means os.Stderr
}

// Run executes the given passes on f in order.
func Run(ctx context.Context, f *ssa.Func, passes []Pass, cfg Config) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "passes", "func", f.Name)
	defer tr.Finish("err", &err)

	for _, p := range passes {
		if shouldDump(cfg.DumpBefore, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			cfg.dump("before", p.Name, f)
		}

		if cfg.Verify {
			if err := ssa.VerifyDom(f); err != nil {
				return errors.Wrap(err, "verify before %s", p.Name)
			}
		}

		n, err := run(ctx, f, p, cfg.maxIterations())
		tr.Printw("pass", "name", p.Name, "iterations", n, "values", f.NumLive())
		if err != nil {
			return errors.Wrap(err, "func %s", f.Name)
		}

		if cfg.Verify {
			if err := ssa.VerifyDom(f); err != nil {
				return errors.Wrap(err, "verify after %s", p.Name)
			}
		}

		if shouldDump(cfg.DumpAfter, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			cfg.dump("after", p.Name, f)
		}
	}
	return nil
}

// run executes p, repeating it if it is a fixed-point pass. It returns
// the number of invocations that made progress.
func run(ctx context.Context, f *ssa.Func, p Pass, limit int) (int, error) {
	if !p.Fixpoint {
		if p.Fn(ctx, f) {
			return 1, nil
		}
		return 0, nil
	}

	for i := 0; i < limit; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if !p.Fn(ctx, f) {
			return i, nil
		}
	}
	return limit, errors.Wrap(ErrNoFixedPoint, "%s after %d iterations", p.Name, limit)
}

func (cfg Config) maxIterations() int {
	if cfg.MaxIterations > 0 {
		return cfg.MaxIterations
	}
	return DefaultMaxIterations
}

func (cfg Config) dump(when, pass string, f *ssa.Func) {
	w := cfg.Dump
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "--- %s %s (%s) ---\n", when, pass, f.Name)
	ssa.Fprint(w, f)
	fmt.Fprintln(w)
}

func shouldDump(pattern, name string) bool {
	return pattern == "*" || pattern == name
}

func matchFunc(filter, name string) bool {
	return filter == "" || filter == name
}
