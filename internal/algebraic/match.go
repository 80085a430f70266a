package algebraic

import (
	"github.com/you-not-fish/algopt/internal/ssa"
	"github.com/you-not-fish/algopt/internal/types"
)

// Match reports whether v matches the search pattern of r. On success env
// holds the bindings; on failure env is left as it was.
func Match(r *Rule, v *ssa.Value, env *Env) bool {
	m := matcher{env: env}
	saved := *env
	if !m.expr(r.Search, v, types.Invalid) {
		*env = saved
		return false
	}
	return true
}

type matcher struct {
	env     *Env
	swapped bool
}

// match matches p against v, an operand read as class c by an
// instruction with comps components.
func (m *matcher) match(p Pattern, v *ssa.Value, c types.Class, comps uint8) bool {
	switch p := p.(type) {
	case *Variable:
		return m.variable(p, v, c, comps)
	case *Constant:
		return v.IsConst() && p.matches(v.ConstBits(), v.BitSize)
	case *Expression:
		return m.expr(p, v, c)
	}
	return false
}

func (m *matcher) variable(x *Variable, v *ssa.Value, c types.Class, comps uint8) bool {
	if b, ok := m.env.Lookup(x.Slot); ok {
		return b.Value == v && b.BitSize == v.BitSize
	}
	if x.BitSize != 0 && v.BitSize != x.BitSize {
		return false
	}
	if !x.SwizzleAllowed && v.Comps != comps {
		return false
	}
	if x.Const && !v.IsConst() {
		return false
	}
	if !x.Pred.Eval(v, c) {
		return false
	}
	m.env.bind(x.Slot, BoundOperand{Value: v, BitSize: v.BitSize, Swapped: m.swapped})
	return true
}

func (m *matcher) expr(e *Expression, v *ssa.Value, c types.Class) bool {
	if v.Op != e.Op || len(v.Args) != len(e.Args) {
		return false
	}
	if e.BitSize != 0 && v.BitSize != e.BitSize {
		return false
	}
	if !e.Pred.Eval(v, c) {
		return false
	}

	if m.args(e, v, false) {
		return true
	}
	return e.Commutative && len(e.Args) >= 2 && m.args(e, v, true)
}

// args matches the children of e against the operands of v, with the
// first two operands exchanged if swap is set. Bindings made by a failed
// attempt are rolled back.
func (m *matcher) args(e *Expression, v *ssa.Value, swap bool) bool {
	saved := *m.env
	outer := m.swapped
	defer func() { m.swapped = outer }()

	for i, p := range e.Args {
		j := i
		if swap && i < 2 {
			j = 1 - i
			m.swapped = true
		} else {
			m.swapped = outer
		}
		if !m.match(p, v.Args[j], e.Op.ArgClass(j), v.Comps) {
			*m.env = saved
			return false
		}
	}
	return true
}
