package algebraic

import "github.com/you-not-fish/algopt/internal/ssa"

// MaxSlots is the number of distinct variables a rule may use.
const MaxSlots = 32

// BoundOperand is the value a variable was bound to.
type BoundOperand struct {
	Value   *ssa.Value
	BitSize uint8

	// Swapped is set if the binding was made while matching the
	// operands of a commutative node in swapped order.
	Swapped bool
}

// Env maps variable slots to bound operands for one rule trial.
// It is a value type: copying it takes a snapshot.
type Env struct {
	set   uint32
	slots [MaxSlots]BoundOperand
}

// Lookup returns the operand bound to slot.
func (e *Env) Lookup(slot uint8) (BoundOperand, bool) {
	if slot >= MaxSlots || e.set&(1<<slot) == 0 {
		return BoundOperand{}, false
	}
	return e.slots[slot], true
}

func (e *Env) bind(slot uint8, op BoundOperand) {
	e.set |= 1 << slot
	e.slots[slot] = op
}

// Len returns the number of bound slots.
func (e *Env) Len() int {
	n := 0
	for s := e.set; s != 0; s &= s - 1 {
		n++
	}
	return n
}

// Reset clears all bindings.
func (e *Env) Reset() { *e = Env{} }
