package ssa

import "github.com/you-not-fish/algopt/internal/syntax"

// Func represents an SSA function (one shader entry point).
type Func struct {
	// Name is the function name.
	Name string

	// Blocks is the list of basic blocks. Blocks[0] is always the entry block.
	Blocks []*Block

	// Entry is the entry block (same as Blocks[0]).
	Entry *Block

	nextValueID ID
	nextBlockID ID

	// domValid is set by ComputeDom and cleared by any rewrite.
	domValid bool
}

// NewFunc creates a new SSA function with the given name.
// An entry block is automatically created.
func NewFunc(name string) *Func {
	f := &Func{Name: name}
	f.Entry = f.NewBlock(BlockPlain)
	return f
}

// NewBlock creates a new basic block with the given kind and appends it to the function.
func (f *Func) NewBlock(kind BlockKind) *Block {
	b := &Block{
		ID:   f.nextBlockID,
		Kind: kind,
		Func: f,
	}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	return b
}

func (f *Func) newValue(b *Block, op Op, size, comps uint8, args []*Value) *Value {
	if comps == 0 {
		comps = 1
	}
	v := &Value{
		ID:      f.nextValueID,
		Op:      op,
		BitSize: size,
		Comps:   comps,
		Block:   b,
	}
	f.nextValueID++
	for _, arg := range args {
		v.AddArg(arg)
	}
	return v
}

// NewValue creates a new Value at the end of the given block.
func (f *Func) NewValue(b *Block, op Op, size, comps uint8, args ...*Value) *Value {
	v := f.newValue(b, op, size, comps, args)
	b.Values = append(b.Values, v)
	return v
}

// NewValuePos creates a new Value with source position at the end of the given block.
func (f *Func) NewValuePos(b *Block, op Op, size, comps uint8, pos syntax.Pos, args ...*Value) *Value {
	v := f.NewValue(b, op, size, comps, args...)
	v.Pos = pos
	return v
}

// NewValueBefore creates a new Value immediately before the value before,
// in before's block. The new value inherits before's position.
func (f *Func) NewValueBefore(before *Value, op Op, size, comps uint8, args ...*Value) *Value {
	b := before.Block
	i := b.indexOf(before)
	if i < 0 {
		panic("ssa: NewValueBefore: value not in its block")
	}
	v := f.newValue(b, op, size, comps, args)
	v.Pos = before.Pos
	b.insertAt(i, v)
	return v
}

// NewConst creates a constant with the given raw bits before the value before.
func (f *Func) NewConst(before *Value, size, comps uint8, bits uint64) *Value {
	v := f.NewValueBefore(before, OpConst, size, comps)
	v.AuxInt = int64(bits)
	return v
}

// ReplaceUses redirects every use of old, in value arguments and in
// block controls, to new. old is left in place with no uses.
func (f *Func) ReplaceUses(old, new *Value) {
	if old == new {
		return
	}
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			for i, arg := range v.Args {
				if arg == old {
					v.ReplaceArg(i, new)
				}
			}
		}
		for i, c := range b.Controls {
			if c == old {
				b.Controls[i] = new
				old.Uses--
				new.Uses++
			}
		}
	}
}

// InvalidateAnalyses marks cached analyses (the dominator tree) stale.
func (f *Func) InvalidateAnalyses() {
	f.domValid = false
}

// DomValid reports whether the dominator tree is current.
func (f *Func) DomValid() bool { return f.domValid }

// NumBlocks returns the number of blocks in the function.
func (f *Func) NumBlocks() int { return len(f.Blocks) }

// NumValues returns the total number of values across all blocks.
func (f *Func) NumValues() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Values)
	}
	return n
}

// NumLive returns the number of values that are used or have side effects.
func (f *Func) NumLive() int {
	n := 0
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if v.Uses > 0 || !v.IsPure() {
				n++
			}
		}
	}
	return n
}
