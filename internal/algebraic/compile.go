package algebraic

import (
	"math"
	"strconv"

	"github.com/nikandfor/errors"

	"github.com/you-not-fish/algopt/internal/config"
	"github.com/you-not-fish/algopt/internal/ssa"
	"github.com/you-not-fish/algopt/internal/syntax"
	"github.com/you-not-fish/algopt/internal/types"
)

// MustCompile is like Compile but panics on error. Rule tables are part
// of the compiler, so a malformed one is a build defect.
func MustCompile(name, text string) *RuleSet {
	rs, err := Compile(name, text)
	if err != nil {
		panic(err)
	}
	return rs
}

// Compile parses rule text into a RuleSet.
//
// Each rule is
//
//	[~](op[@size][{pred}] args...) -> replacement [if [!]option]
//
// Arguments are nested operations, variables [#]name[.*][@size][{pred}]
// or literals. The class of a literal comes from the operand position it
// appears in. A leading ~ marks a rule that may change float rounding.
func Compile(name, text string) (*RuleSet, error) {
	file, err := syntax.ParseRuleText(name, text)
	if err != nil {
		return nil, errors.Wrap(err, "rules %s", name)
	}

	rs := newRuleSet(name)
	for _, d := range file.Rules {
		r, err := compileRule(rs, d)
		if err != nil {
			return nil, errors.Wrap(err, "rules %s: %s", name, d.Pos())
		}
		rs.add(r)
	}
	return rs, nil
}

type ruleCompiler struct {
	slots map[string]uint8
	vars  []*Variable
}

func compileRule(rs *RuleSet, d *syntax.RuleDecl) (*Rule, error) {
	c := &ruleCompiler{slots: make(map[string]uint8)}

	search, err := c.expr(d.Search, true)
	if err != nil {
		return nil, errors.Wrap(err, "search")
	}
	if !search.Op.IsALU() {
		return nil, errors.New("search root %s is not an ALU op", search.Op)
	}

	replace, err := c.pattern(d.Replace, search.Op.Info().Out, false)
	if err != nil {
		return nil, errors.Wrap(err, "replace")
	}

	r := &Rule{
		Name:     syntax.String(d),
		Search:   search,
		Replace:  replace,
		Cond:     Always,
		Inexact:  d.Inexact,
		NumSlots: len(c.vars),
	}
	if d.Cond != nil {
		if !config.IsOption(d.Cond.Value) {
			return nil, errors.New("unknown condition %q", d.Cond.Value)
		}
		r.Cond = rs.cond(d.Cond.Value, d.Negate)
	}
	return r, nil
}

// pattern compiles a node read as class c.
func (rc *ruleCompiler) pattern(x syntax.Expr, c types.Class, search bool) (Pattern, error) {
	switch x := x.(type) {
	case *syntax.PatOp:
		return rc.expr(x, search)
	case *syntax.PatVar:
		return rc.variable(x, search)
	case *syntax.BasicLit:
		return literal(x, c)
	}
	return nil, errors.New("unexpected %T", x)
}

func (rc *ruleCompiler) expr(x *syntax.PatOp, search bool) (*Expression, error) {
	op, ok := ssa.LookupOp(x.Op.Value)
	if !ok || op == ssa.OpInvalid {
		return nil, errors.New("unknown op %q", x.Op.Value)
	}
	info := op.Info()
	if info.ArgLen < 0 || info.IsVoid {
		return nil, errors.New("op %s cannot appear in a rule", op)
	}
	if len(x.Args) != info.ArgLen {
		return nil, errors.New("%s takes %d operands, got %d", op, info.ArgLen, len(x.Args))
	}
	if x.Size != 0 && !types.IsValidBitSize(x.Size) {
		return nil, errors.New("invalid bit size %d", x.Size)
	}

	e := &Expression{
		Op:          op,
		Commutative: op.IsCommutative(),
		BitSize:     x.Size,
		Args:        make([]Pattern, len(x.Args)),
	}
	if x.Pred != nil {
		if !search {
			return nil, errors.New("predicate on replacement %s", op)
		}
		p, ok := LookupPredicate(x.Pred.Value)
		if !ok {
			return nil, errors.New("unknown predicate %q", x.Pred.Value)
		}
		e.Pred = p
	}

	for i, a := range x.Args {
		p, err := rc.pattern(a, op.ArgClass(i), search)
		if err != nil {
			return nil, err
		}
		e.Args[i] = p
	}
	return e, nil
}

func (rc *ruleCompiler) variable(x *syntax.PatVar, search bool) (*Variable, error) {
	if x.Size != 0 && !types.IsValidBitSize(x.Size) {
		return nil, errors.New("invalid bit size %d", x.Size)
	}

	slot, seen := rc.slots[x.Name.Value]
	if !search {
		if !seen {
			return nil, errors.New("variable %s is not bound by the search pattern", x.Name.Value)
		}
		if x.Const || x.Pred != nil || x.Swizzle || x.Size != 0 {
			return nil, errors.New("variable %s: qualifiers are only allowed in search patterns", x.Name.Value)
		}
		return &Variable{Slot: slot, Name: x.Name.Value}, nil
	}

	if !seen {
		if len(rc.vars) >= MaxSlots {
			return nil, errors.New("more than %d variables", MaxSlots)
		}
		slot = uint8(len(rc.vars))
		rc.slots[x.Name.Value] = slot
	}

	v := &Variable{
		Slot:           slot,
		Name:           x.Name.Value,
		BitSize:        x.Size,
		Const:          x.Const,
		SwizzleAllowed: x.Swizzle,
	}
	if x.Pred != nil {
		p, ok := LookupPredicate(x.Pred.Value)
		if !ok {
			return nil, errors.New("unknown predicate %q", x.Pred.Value)
		}
		v.Pred = p
	}
	if !seen {
		rc.vars = append(rc.vars, v)
	}
	return v, nil
}

// literal converts a literal read as class c to its canonical form.
func literal(x *syntax.BasicLit, c types.Class) (*Constant, error) {
	switch c {
	case types.Invalid:
		return nil, errors.New("literal %s in an untyped operand", syntax.String(x))

	case types.Bool:
		if x.Kind != syntax.BoolLit {
			return nil, errors.New("boolean operand needs true or false, got %s", syntax.String(x))
		}
		return BoolConst(x.Value == "true"), nil

	case types.Float:
		if x.Kind == syntax.BoolLit {
			return nil, errors.New("boolean literal in float operand")
		}
		f, err := strconv.ParseFloat(x.Value, 64)
		if x.Kind == syntax.IntLit {
			var n int64
			n, err = strconv.ParseInt(x.Value, 0, 64)
			f = float64(n)
		}
		if err != nil || math.IsNaN(f) {
			return nil, errors.New("invalid float literal %s", x.Value)
		}
		if x.Neg {
			f = -f
		}
		return FloatConst(f), nil
	}

	if x.Kind != syntax.IntLit {
		return nil, errors.New("%s literal %s in %s operand", x.Kind, syntax.String(x), c)
	}
	u, err := strconv.ParseUint(x.Value, 0, 64)
	if err != nil {
		return nil, errors.New("invalid integer literal %s", x.Value)
	}
	v := int64(u)
	if x.Neg {
		v = -v
	}
	return &Constant{Class: c, Bits: uint64(v)}, nil
}
