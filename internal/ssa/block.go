package ssa

import "fmt"

// BlockKind describes how a basic block terminates.
type BlockKind int

const (
	BlockInvalid BlockKind = iota
	BlockPlain             // unconditional jump to Succs[0]
	BlockIf                // if Controls[0] then Succs[0] else Succs[1]
	BlockReturn            // end of the shader; Controls may hold one value
	BlockExit              // discard; no successors
)

var blockKindNames = [...]string{
	BlockInvalid: "Invalid",
	BlockPlain:   "Plain",
	BlockIf:      "If",
	BlockReturn:  "Return",
	BlockExit:    "Exit",
}

// String returns the terminator keyword of the block kind.
func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "unknown"
}

// LookupBlockKind returns the kind whose terminator keyword is name.
func LookupBlockKind(name string) (BlockKind, bool) {
	for k, n := range blockKindNames {
		if n == name && k != int(BlockInvalid) {
			return BlockKind(k), true
		}
	}
	return BlockInvalid, false
}

// Block represents a basic block in the control flow graph.
type Block struct {
	ID   ID
	Kind BlockKind

	// Controls holds the terminator's operand values.
	Controls []*Value

	// Succs lists the successor blocks; for BlockIf, Succs[0] is taken
	// when the condition is true.
	Succs []*Block
	Preds []*Block

	// Values is the ordered list of values computed in this block.
	Values []*Value

	Func *Func

	// Dominator tree, valid while Func.DomValid reports true.
	Idom     *Block
	Dominees []*Block
}

// String returns a short string representation (e.g., "b3").
func (b *Block) String() string {
	return fmt.Sprintf("b%d", b.ID)
}

// AddSucc adds a successor block, updating both Succs and the successor's Preds.
func (b *Block) AddSucc(succ *Block) {
	b.Succs = append(b.Succs, succ)
	succ.Preds = append(succ.Preds, b)
}

// SetControl sets the branch/return control value.
func (b *Block) SetControl(v *Value) {
	for _, c := range b.Controls {
		if c != nil {
			c.Uses--
		}
	}
	b.Controls = []*Value{v}
	if v != nil {
		v.Uses++
	}
}

// NumSuccs returns the number of successor blocks.
func (b *Block) NumSuccs() int { return len(b.Succs) }

// NumPreds returns the number of predecessor blocks.
func (b *Block) NumPreds() int { return len(b.Preds) }

// NumValues returns the number of values in this block.
func (b *Block) NumValues() int { return len(b.Values) }

// indexOf returns the position of v in b.Values, or -1.
func (b *Block) indexOf(v *Value) int {
	for i, x := range b.Values {
		if x == v {
			return i
		}
	}
	return -1
}

// insertAt inserts v into b.Values at position i.
func (b *Block) insertAt(i int, v *Value) {
	b.Values = append(b.Values, nil)
	copy(b.Values[i+1:], b.Values[i:])
	b.Values[i] = v
}
