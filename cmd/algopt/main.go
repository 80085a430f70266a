// Package main implements the algopt driver: it reads SSA text, runs the
// algebraic simplification pipeline and prints the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/markkurossi/tabulate"
	"github.com/nikandfor/errors"
	"github.com/nikandfor/tlog"

	"github.com/you-not-fish/algopt/internal/algebraic"
	"github.com/you-not-fish/algopt/internal/algebraic/rules"
	"github.com/you-not-fish/algopt/internal/config"
	"github.com/you-not-fish/algopt/internal/ssa"
	"github.com/you-not-fish/algopt/internal/ssa/interp"
	"github.com/you-not-fish/algopt/internal/ssa/passes"
	"github.com/you-not-fish/algopt/internal/types"
)

// Driver flags
var (
	caps       = flag.String("caps", "", "Comma separated target options (see -list-caps)")
	output     = flag.String("o", "", "Output file")
	version    = flag.Bool("version", false, "Print version")
	listRules  = flag.Bool("list-rules", false, "List the rule tables")
	ruleSet    = flag.String("rules", "", "Restrict -list-rules to one rule set")
	listCaps   = flag.Bool("list-caps", false, "List the target options")
	showStats  = flag.Bool("stats", false, "Print per-rule statistics to stderr")
	verbose    = flag.String("v", "", "Trace topics (e.g. \"algebraic,passes\"); enables tracing to stderr")
	dumpFunc   = flag.String("dump-func", "", "Only dump specific function")
	ssaVerify  = flag.Bool("ssa-verify", false, "Verify SSA before and after each pass")
	dumpBefore = flag.String("dump-before", "", "Dump SSA before pass (name or \"*\")")
	dumpAfter  = flag.String("dump-after", "", "Dump SSA after pass (name or \"*\")")
	maxIter    = flag.Int("max-iter", passes.DefaultMaxIterations, "Iteration limit of fixed-point passes")
	noOpt      = flag.Bool("no-opt", false, "Parse and verify only")
	execInputs = flag.String("exec", "", "Interpret each function before and after optimization with inputs \"slot=value,...\"")
)

// Version information
const Version = "0.1.0-dev"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "algopt %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: algopt [options] <file.ssa>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("algopt version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	if *listRules {
		os.Exit(runListRules(os.Stdout, *ruleSet))
	}

	if *listCaps {
		os.Exit(runListCaps(os.Stdout))
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input file")
		fmt.Fprintln(os.Stderr, "usage: algopt [options] <file.ssa>")
		os.Exit(1)
	}

	os.Exit(runOptimize(args[0]))
}

// runListRules prints the rule table called name, or every table if name
// is empty.
func runListRules(w io.Writer, name string) int {
	sets := rules.All()
	if name != "" {
		rs := rules.Lookup(name)
		if rs == nil {
			fmt.Fprintf(os.Stderr, "error: unknown rule set %q\n", name)
			return 1
		}
		sets = []*algebraic.RuleSet{rs}
	}
	for i, rs := range sets {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d rules)\n", rs.Name, rs.Len())
		algebraic.PrintRules(w, rs)
	}
	return 0
}

// runListCaps prints the target options.
func runListCaps(w io.Writer) int {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Option").SetAlign(tabulate.ML)
	tab.Header("Description").SetAlign(tabulate.ML)
	for _, name := range config.Names() {
		row := tab.Row()
		row.Column(name)
		row.Column(config.Doc(name))
	}
	tab.Print(w)
	return 0
}

// runOptimize parses filename, optimizes every function and prints the
// result.
func runOptimize(filename string) int {
	opts := new(config.Options)
	if err := opts.Parse(*caps); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if *maxIter <= 0 {
		fmt.Fprintf(os.Stderr, "error: -max-iter must be positive\n")
		return 1
	}

	src, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer src.Close()

	funcs, err := ssa.Parse(filename, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	ctx := context.Background()
	if *verbose != "" {
		tlog.DefaultLogger = tlog.New(tlog.NewConsoleWriter(os.Stderr, tlog.LstdFlags))
		tlog.SetVerbosity(*verbose)

		tr := tlog.Start("algopt", "file", filename, "caps", opts.String())
		defer tr.Finish()
		ctx = tlog.ContextWithSpan(ctx, tr)
	}

	passCfg := passes.Config{
		DumpBefore:    *dumpBefore,
		DumpAfter:     *dumpAfter,
		Verify:        *ssaVerify,
		DumpFunc:      *dumpFunc,
		MaxIterations: *maxIter,
	}
	var stats *algebraic.Stats
	if *showStats {
		stats = algebraic.NewStats()
	}

	for _, fn := range funcs {
		if err := ssa.VerifyDom(fn); err != nil {
			fmt.Fprintf(os.Stderr, "SSA verification failed for %s (before passes):\n%v\n", fn.Name, err)
			return 1
		}

		var inputs map[int64][]uint64
		var before *interp.Result
		if *execInputs != "" {
			if inputs, err = parseInputs(fn, *execInputs); err != nil {
				fmt.Fprintf(os.Stderr, "exec %s: %v\n", fn.Name, err)
				return 1
			}
			if before, err = interp.Run(fn, inputs); err != nil {
				fmt.Fprintf(os.Stderr, "exec %s: %v\n", fn.Name, err)
				return 1
			}
		}

		if !*noOpt {
			if err := passes.Optimize(ctx, fn, opts, stats, passCfg); err != nil {
				fmt.Fprintf(os.Stderr, "pass pipeline failed for %s:\n%v\n", fn.Name, err)
				return 1
			}
		}

		if before != nil {
			after, err := interp.Run(fn, inputs)
			if err != nil {
				fmt.Fprintf(os.Stderr, "exec %s: %v\n", fn.Name, err)
				return 1
			}
			reportExec(os.Stderr, fn, before, after)
		}
	}

	out := io.Writer(os.Stdout)
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		defer f.Close()
		out = f
	}

	first := true
	for _, fn := range funcs {
		if *dumpFunc != "" && fn.Name != *dumpFunc {
			continue
		}
		if !first {
			fmt.Fprintln(out)
		}
		first = false
		ssa.Fprint(out, fn)
	}

	if stats != nil {
		stats.Print(os.Stderr)
	}
	return 0
}

// parseInputs reads a comma separated list of slot=value pairs. Values
// are integer, float or boolean literals encoded at the width of the arg
// reading the slot. Every slot must be read by an arg of fn.
func parseInputs(fn *ssa.Func, list string) (map[int64][]uint64, error) {
	widths := make(map[int64]uint8)
	for _, b := range fn.Blocks {
		for _, v := range b.Values {
			if v.Op == ssa.OpArg {
				widths[v.AuxInt] = v.BitSize
			}
		}
	}

	inputs := make(map[int64][]uint64)
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		k, val, ok := strings.Cut(item, "=")
		if !ok {
			return nil, errors.New("input %q: want slot=value", item)
		}
		slot, err := strconv.ParseInt(k, 10, 32)
		if err != nil {
			return nil, errors.New("input %q: bad slot", item)
		}
		n, ok := widths[slot]
		if !ok {
			return nil, errors.New("input %q: no arg reads slot %d", item, slot)
		}
		bits, err := inputBits(val, n)
		if err != nil {
			return nil, errors.Wrap(err, "input %q", item)
		}
		inputs[slot] = []uint64{bits}
	}
	return inputs, nil
}

func inputBits(s string, n uint8) (uint64, error) {
	switch s {
	case "true", "false":
		return types.EncodeBool(s == "true", n), nil
	}
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return types.EncodeInt(i, n), nil
	}
	if u, err := strconv.ParseUint(s, 0, 64); err == nil {
		return types.Truncate(u, n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("invalid value %s", s)
	}
	if !types.IsFloatSize(n) {
		return 0, errors.New("float value for a %d-bit input", n)
	}
	return types.EncodeFloat(f, n), nil
}

// reportExec prints the outputs of fn before and after optimization and
// flags any that differ.
func reportExec(w io.Writer, fn *ssa.Func, before, after *interp.Result) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Slot").SetAlign(tabulate.MR)
	tab.Header("Before").SetAlign(tabulate.MR)
	tab.Header("After").SetAlign(tabulate.MR)
	tab.Header("").SetAlign(tabulate.ML)

	for _, slot := range outputSlots(before, after) {
		b, a := before.Outputs[slot], after.Outputs[slot]
		row := tab.Row()
		row.Column(fmt.Sprint(slot))
		row.Column(fmt.Sprintf("%#x", b))
		row.Column(fmt.Sprintf("%#x", a))
		if !sameComps(a, b) {
			row.Column("differs")
		} else {
			row.Column("")
		}
	}

	fmt.Fprintf(w, "func %s: %d steps before, %d after\n", fn.Name, before.Steps, after.Steps)
	tab.Print(w)
}

func outputSlots(rs ...*interp.Result) []int64 {
	seen := make(map[int64]bool)
	var slots []int64
	for _, r := range rs {
		for s := range r.Outputs {
			if !seen[s] {
				seen[s] = true
				slots = append(slots, s)
			}
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots
}

func sameComps(a, b []uint64) bool {
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
