package interp

import (
	"github.com/nikandfor/errors"

	"github.com/you-not-fish/algopt/internal/ssa"
	"github.com/you-not-fish/algopt/internal/types"
)

// DefaultMaxSteps bounds the number of blocks entered plus values
// evaluated by a Machine.
const DefaultMaxSteps = 1 << 20

// ErrStepLimit is returned when a function does not finish within the
// step limit.
var ErrStepLimit = errors.New("step limit exceeded")

// Result is what one invocation of a function produced.
type Result struct {
	// Outputs maps an output slot to the components last stored there.
	Outputs map[int64][]uint64
	// Discarded is set if execution ended in an Exit block.
	Discarded bool
	Steps     int
}

// Machine runs one function.
type Machine struct {
	f        *ssa.Func
	vals     map[*ssa.Value][]uint64
	steps    int
	MaxSteps int
}

func NewMachine(f *ssa.Func) *Machine {
	return &Machine{
		f:        f,
		MaxSteps: DefaultMaxSteps,
	}
}

// Run executes the function from its entry block. inputs maps an arg
// slot to its components; a single component is broadcast.
func (m *Machine) Run(inputs map[int64][]uint64) (*Result, error) {
	m.vals = make(map[*ssa.Value][]uint64)
	m.steps = 0
	res := &Result{Outputs: make(map[int64][]uint64)}

	var pred *ssa.Block
	b := m.f.Entry
	for b != nil {
		if err := m.step(); err != nil {
			return nil, err
		}
		if err := m.phis(b, pred); err != nil {
			return nil, err
		}
		for _, v := range b.Values {
			if err := m.step(); err != nil {
				return nil, err
			}
			if err := m.exec(v, inputs, res); err != nil {
				return nil, errors.Wrap(err, "%s", v.LongString())
			}
		}

		pred = b
		switch b.Kind {
		case ssa.BlockPlain:
			b = b.Succs[0]
		case ssa.BlockIf:
			if m.vals[b.Controls[0]][0]&1 != 0 {
				b = b.Succs[0]
			} else {
				b = b.Succs[1]
			}
		case ssa.BlockReturn:
			b = nil
		case ssa.BlockExit:
			res.Discarded = true
			b = nil
		default:
			return nil, errors.New("%s: cannot execute %s block", b, b.Kind)
		}
	}

	res.Steps = m.steps
	return res, nil
}

// step counts one block entry or value evaluation.
func (m *Machine) step() error {
	m.steps++
	if m.MaxSteps > 0 && m.steps > m.MaxSteps {
		return ErrStepLimit
	}
	return nil
}

// phis evaluates the phis of b for an edge from pred. All phis read
// their operands before any is assigned.
func (m *Machine) phis(b, pred *ssa.Block) error {
	idx := -1
	for i, p := range b.Preds {
		if p == pred {
			idx = i
			break
		}
	}

	next := make(map[*ssa.Value][]uint64)
	for _, v := range b.Values {
		if v.Op != ssa.OpPhi {
			continue
		}
		if idx < 0 {
			return errors.New("%s: phi in a block entered without a predecessor", v)
		}
		next[v] = m.vals[v.Args[idx]]
	}
	for v, x := range next {
		m.vals[v] = x
	}
	return nil
}

func (m *Machine) exec(v *ssa.Value, inputs map[int64][]uint64, res *Result) error {
	switch v.Op {
	case ssa.OpPhi:
		return nil

	case ssa.OpConst:
		x := make([]uint64, v.Comps)
		for i := range x {
			x[i] = v.ConstBits()
		}
		m.vals[v] = x
		return nil

	case ssa.OpArg:
		in, ok := inputs[v.AuxInt]
		if !ok || len(in) == 0 {
			return errors.New("no input for slot %d", v.AuxInt)
		}
		if len(in) != 1 && len(in) != int(v.Comps) {
			return errors.New("input %d has %d components, want %d", v.AuxInt, len(in), v.Comps)
		}
		x := make([]uint64, v.Comps)
		for i := range x {
			x[i] = types.Truncate(component(in, i), v.BitSize)
		}
		m.vals[v] = x
		return nil

	case ssa.OpOutput:
		x := m.vals[v.Args[0]]
		res.Outputs[v.AuxInt] = append([]uint64(nil), x...)
		return nil
	}

	ops := make([]Operand, len(v.Args))
	x := make([]uint64, v.Comps)
	for c := range x {
		for i, arg := range v.Args {
			ops[i] = Operand{Bits: component(m.vals[arg], c), Size: arg.BitSize}
		}
		r, err := EvalOp(v.Op, v.BitSize, ops...)
		if err != nil {
			return err
		}
		x[c] = r
	}
	m.vals[v] = x
	return nil
}

// component returns component i of x, broadcasting a scalar.
func component(x []uint64, i int) uint64 {
	if len(x) == 1 {
		return x[0]
	}
	return x[i]
}

// Run executes f once with the default step limit.
func Run(f *ssa.Func, inputs map[int64][]uint64) (*Result, error) {
	return NewMachine(f).Run(inputs)
}
