package ssa

import (
	"io"
	"strconv"
	"strings"

	"github.com/nikandfor/errors"

	"github.com/you-not-fish/algopt/internal/syntax"
	"github.com/you-not-fish/algopt/internal/types"
)

// builder holds the state for constructing a single function from its
// parsed text form.
type builder struct {
	fn *Func

	blocks map[string]*Block // label → block
	values map[string]*Value // name → value
	decls  map[*Value]*syntax.ValueDecl
}

// BuildFile builds SSA functions for all functions in the file.
// Value and block IDs are assigned in declaration order, so a function
// printed by Fprint reads back with the same numbering.
func BuildFile(file *syntax.File) ([]*Func, error) {
	var funcs []*Func
	for _, fd := range file.Funcs {
		fn, err := buildFunc(fd)
		if err != nil {
			return nil, errors.Wrap(err, "func %s", fd.Name.Value)
		}
		funcs = append(funcs, fn)
	}
	return funcs, nil
}

// buildFunc builds an SSA function from a FuncDecl.
func buildFunc(fd *syntax.FuncDecl) (*Func, error) {
	if len(fd.Blocks) == 0 {
		return nil, errors.New("%s: no blocks", fd.Pos())
	}

	fn := NewFunc(fd.Name.Value)
	b := &builder{
		fn:     fn,
		blocks: make(map[string]*Block),
		values: make(map[string]*Value),
		decls:  make(map[*Value]*syntax.ValueDecl),
	}

	// Declare blocks first so terminators and preds can refer forward.
	for i, bd := range fd.Blocks {
		if bd.Entry && i != 0 {
			return nil, errors.New("%s: entry block %s must come first", bd.Pos(), bd.Label.Value)
		}
		if _, dup := b.blocks[bd.Label.Value]; dup {
			return nil, errors.New("%s: block %s redeclared", bd.Pos(), bd.Label.Value)
		}
		blk := fn.Entry
		if i > 0 {
			blk = fn.NewBlock(BlockInvalid)
		}
		b.blocks[bd.Label.Value] = blk
	}

	// Declare values; phis may use values defined later.
	for i, bd := range fd.Blocks {
		for _, vd := range bd.Values {
			if err := b.declValue(fn.Blocks[i], vd); err != nil {
				return nil, err
			}
		}
	}

	for i, bd := range fd.Blocks {
		blk := fn.Blocks[i]
		for _, v := range blk.Values {
			if err := b.setArgs(v, b.decls[v]); err != nil {
				return nil, err
			}
		}
		if err := b.terminator(blk, bd.Term); err != nil {
			return nil, err
		}
	}

	for i, bd := range fd.Blocks {
		if err := b.setPreds(fn.Blocks[i], bd); err != nil {
			return nil, err
		}
	}

	return fn, nil
}

// declValue creates the value declared by vd at the end of blk.
func (b *builder) declValue(blk *Block, vd *syntax.ValueDecl) error {
	op, ok := LookupOp(vd.Op.Value)
	if !ok || op == OpInvalid {
		return errors.New("%s: unknown op %q", vd.Pos(), vd.Op.Value)
	}

	var size, comps uint8
	switch {
	case op.IsVoid():
		if vd.Name != nil || vd.Type != nil {
			return errors.New("%s: %s produces no value", vd.Pos(), op)
		}
	case vd.Name == nil || vd.Type == nil:
		return errors.New("%s: %s needs a name and a type", vd.Pos(), op)
	default:
		size, comps = vd.Type.Size, vd.Type.Comps
		if !types.IsValidBitSize(size) {
			return errors.New("%s: invalid bit size %d", vd.Pos(), size)
		}
		if comps > types.MaxComps {
			return errors.New("%s: too many components %d", vd.Pos(), comps)
		}
	}

	v := b.fn.NewValuePos(blk, op, size, comps, vd.Pos())
	b.decls[v] = vd

	if vd.Name != nil {
		if _, dup := b.values[vd.Name.Value]; dup {
			return errors.New("%s: value %s redeclared", vd.Pos(), vd.Name.Value)
		}
		b.values[vd.Name.Value] = v
	}

	switch op {
	case OpConst:
		if vd.Aux == nil {
			return errors.New("%s: const needs a value", vd.Pos())
		}
		bits, err := constBits(vd.Aux, size)
		if err != nil {
			return errors.Wrap(err, "%s", vd.Aux.Pos())
		}
		v.AuxInt = int64(bits)
	case OpArg, OpOutput:
		if vd.Aux == nil || vd.Aux.Kind != syntax.IntLit || vd.Aux.Neg {
			return errors.New("%s: %s needs a slot index", vd.Pos(), op)
		}
		n, err := strconv.ParseInt(vd.Aux.Value, 0, 32)
		if err != nil {
			return errors.New("%s: invalid slot index %s", vd.Aux.Pos(), vd.Aux.Value)
		}
		v.AuxInt = n
	default:
		if vd.Aux != nil {
			return errors.New("%s: %s takes no aux value", vd.Aux.Pos(), op)
		}
	}
	return nil
}

// constBits encodes a literal as an n-bit constant.
func constBits(lit *syntax.BasicLit, n uint8) (uint64, error) {
	switch lit.Kind {
	case syntax.BoolLit:
		return types.EncodeBool(lit.Value == "true", n), nil

	case syntax.FloatLit:
		if !types.IsFloatSize(n) {
			return 0, errors.New("float constant cannot be %d-bit", n)
		}
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return 0, errors.New("invalid float %s", lit.Value)
		}
		if lit.Neg {
			f = -f
		}
		return types.EncodeFloat(f, n), nil
	}

	u, err := strconv.ParseUint(lit.Value, 0, 64)
	if err != nil {
		return 0, errors.New("invalid integer %s", lit.Value)
	}
	if lit.Neg {
		if u > 1<<63 || -int64(u) < types.MinInt(n) {
			return 0, errors.New("constant -%s overflows %d bits", lit.Value, n)
		}
		return types.EncodeInt(-int64(u), n), nil
	}
	if u > types.MaxUint(n) {
		return 0, errors.New("constant %s overflows %d bits", lit.Value, n)
	}
	return u, nil
}

// setArgs resolves the operand names of vd.
func (b *builder) setArgs(v *Value, vd *syntax.ValueDecl) error {
	for _, name := range vd.Args {
		arg, ok := b.values[name.Value]
		if !ok {
			return errors.New("%s: undefined value %s", name.Pos(), name.Value)
		}
		v.AddArg(arg)
	}
	return nil
}

// terminator sets the kind, controls and successors of blk.
func (b *builder) terminator(blk *Block, t *syntax.Terminator) error {
	if t == nil {
		return errors.New("block %s has no terminator", blk)
	}
	kind, ok := LookupBlockKind(t.Kind.Value)
	if !ok {
		return errors.New("%s: unknown terminator %q", t.Pos(), t.Kind.Value)
	}
	blk.Kind = kind

	for _, name := range t.Controls {
		c, ok := b.values[name.Value]
		if !ok {
			return errors.New("%s: undefined value %s", name.Pos(), name.Value)
		}
		blk.Controls = append(blk.Controls, c)
		c.Uses++
	}
	for _, name := range t.Succs {
		succ, ok := b.blocks[name.Value]
		if !ok {
			return errors.New("%s: undefined block %s", name.Pos(), name.Value)
		}
		blk.Succs = append(blk.Succs, succ)
	}
	return nil
}

// setPreds installs the declared predecessor list of blk, whose order
// gives the order of phi operands. The list must describe exactly the
// edges that terminators create.
func (b *builder) setPreds(blk *Block, bd *syntax.BlockDecl) error {
	edges := make(map[*Block]int)
	for _, p := range blk.Func.Blocks {
		for _, s := range p.Succs {
			if s == blk {
				edges[p]++
			}
		}
	}

	for _, name := range bd.Preds {
		p, ok := b.blocks[name.Value]
		if !ok {
			return errors.New("%s: undefined block %s", name.Pos(), name.Value)
		}
		if edges[p] == 0 {
			return errors.New("%s: %s does not branch to %s", name.Pos(), name.Value, bd.Label.Value)
		}
		edges[p]--
		blk.Preds = append(blk.Preds, p)
	}
	for p, n := range edges {
		if n > 0 {
			return errors.New("%s: edge from %s missing from preds of %s", bd.Pos(), p, bd.Label.Value)
		}
	}
	return nil
}

// Parse reads SSA text from r and builds its functions.
func Parse(filename string, r io.Reader) ([]*Func, error) {
	file, err := syntax.ParseFile(filename, r)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	return BuildFile(file)
}

// ParseString is Parse for in-memory text.
func ParseString(filename, text string) ([]*Func, error) {
	return Parse(filename, strings.NewReader(text))
}
