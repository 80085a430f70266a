package algebraic

import (
	"github.com/you-not-fish/algopt/internal/ssa"
	"github.com/you-not-fish/algopt/internal/types"
)

// planNode is a replacement node with its width resolved.
type planNode struct {
	size  uint8
	value *ssa.Value // bound operand, for variables
	bits  uint64     // encoded literal, for constants
	op    ssa.Op     // for expressions
	args  []*planNode
}

// Build materializes the replacement pattern of r for the instruction v
// using the bindings in env, and redirects every use of v to the result.
// New values are inserted immediately before v; v itself is left in
// place with no uses. It reports false without touching the function if
// a width cannot be resolved or disagrees with a bound operand.
func Build(r *Rule, v *ssa.Value, env *Env) (*ssa.Value, bool) {
	b := planner{env: env}
	root, ok := b.plan(r.Replace, v.BitSize)
	if !ok || root.size != v.BitSize {
		return nil, false
	}
	if root.value != nil && root.value.Comps != v.Comps {
		return nil, false
	}

	f := v.Block.Func
	nv := commit(f, root, v, v.Comps)
	f.ReplaceUses(v, nv)
	return nv, true
}

type planner struct {
	env *Env
}

// natural returns the width p has without outside constraints, or 0.
func (b *planner) natural(p Pattern) uint8 {
	switch p := p.(type) {
	case *Variable:
		if op, ok := b.env.Lookup(p.Slot); ok {
			return op.BitSize
		}
	case *Expression:
		if p.BitSize != 0 {
			return p.BitSize
		}
		info := p.Op.Info()
		if info.OutSize != 0 {
			return info.OutSize
		}
		if p.Op.ArgFollowsResult() {
			return b.freeSize(p)
		}
	}
	return 0
}

// freeSize returns the natural width of the first unfixed child of e
// that has one.
func (b *planner) freeSize(e *Expression) uint8 {
	for i, a := range e.Args {
		if e.Op.FixedArgSize(i) != 0 {
			continue
		}
		if n := b.natural(a); n != 0 {
			return n
		}
	}
	return 0
}

// plan resolves the width of p. want is the width the consumer requires,
// or 0 if any width will do.
func (b *planner) plan(p Pattern, want uint8) (*planNode, bool) {
	switch p := p.(type) {
	case *Variable:
		op, ok := b.env.Lookup(p.Slot)
		if !ok {
			return nil, false
		}
		if want != 0 && op.BitSize != want {
			return nil, false
		}
		return &planNode{size: op.BitSize, value: op.Value}, true

	case *Constant:
		if want == 0 {
			return nil, false
		}
		bits, ok := p.encode(want)
		if !ok {
			return nil, false
		}
		return &planNode{size: want, bits: bits}, true

	case *Expression:
		return b.expr(p, want)
	}
	return nil, false
}

func (b *planner) expr(e *Expression, want uint8) (*planNode, bool) {
	info := e.Op.Info()

	size := e.BitSize
	if size == 0 {
		size = info.OutSize
	}
	switch {
	case size == 0:
		size = want
	case want != 0 && want != size:
		return nil, false
	}
	if size == 0 && e.Op.ArgFollowsResult() {
		size = b.freeSize(e)
	}
	if size == 0 || !types.IsValidBitSize(size) {
		return nil, false
	}
	if info.Out == types.Float && !types.IsFloatSize(size) {
		return nil, false
	}

	var free uint8
	if !e.Op.ArgFollowsResult() {
		free = b.freeSize(e)
	}

	n := &planNode{size: size, op: e.Op, args: make([]*planNode, len(e.Args))}
	for i, a := range e.Args {
		w := e.Op.FixedArgSize(i)
		if w == 0 {
			if e.Op.ArgFollowsResult() {
				w = size
			} else {
				w = free
			}
		}
		if w == 0 {
			return nil, false
		}
		if e.Op.ArgClass(i) == types.Float && !types.IsFloatSize(w) {
			return nil, false
		}
		arg, ok := b.plan(a, w)
		if !ok {
			return nil, false
		}
		n.args[i] = arg
	}
	return n, true
}

// commit creates the values of a plan before v, children first.
func commit(f *ssa.Func, n *planNode, v *ssa.Value, comps uint8) *ssa.Value {
	switch {
	case n.value != nil:
		return n.value
	case n.op == ssa.OpInvalid:
		return f.NewConst(v, n.size, comps, n.bits)
	}
	args := make([]*ssa.Value, len(n.args))
	for i, a := range n.args {
		args[i] = commit(f, a, v, comps)
	}
	return f.NewValueBefore(v, n.op, n.size, comps, args...)
}
