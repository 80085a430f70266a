package algebraic

import (
	"github.com/you-not-fish/algopt/internal/config"
	"github.com/you-not-fish/algopt/internal/ssa"
)

// CondID indexes the conditions of a RuleSet.
type CondID uint16

// Always is the condition of unconditional rules. It is never assigned to
// a named condition.
const Always CondID = 0

// condition is a capability option, possibly negated.
type condition struct {
	name   string
	negate bool
}

func (c condition) String() string {
	if c.negate {
		return "!" + c.name
	}
	return c.name
}

// Conditions holds the value of every condition of a RuleSet for one
// pass invocation.
type Conditions []bool

// Enabled reports whether rules guarded by id may be tried.
func (c Conditions) Enabled(id CondID) bool {
	return int(id) < len(c) && c[id]
}

// RuleSet is an immutable collection of rules grouped by the op of their
// search root, each group in declaration order.
type RuleSet struct {
	Name string

	byOp  [][]*Rule
	all   []*Rule
	conds []condition // conds[Always] is unused
}

func newRuleSet(name string) *RuleSet {
	return &RuleSet{
		Name:  name,
		byOp:  make([][]*Rule, ssa.NumOps()),
		conds: []condition{{}},
	}
}

// cond returns the id of the named condition, adding it if needed.
func (rs *RuleSet) cond(name string, negate bool) CondID {
	c := condition{name: name, negate: negate}
	for i, x := range rs.conds[1:] {
		if x == c {
			return CondID(i + 1)
		}
	}
	rs.conds = append(rs.conds, c)
	return CondID(len(rs.conds) - 1)
}

func (rs *RuleSet) add(r *Rule) {
	rs.byOp[r.Search.Op] = append(rs.byOp[r.Search.Op], r)
	rs.all = append(rs.all, r)
}

// Rules returns the rules whose search pattern is rooted at op.
func (rs *RuleSet) Rules(op ssa.Op) []*Rule {
	if int(op) < 0 || int(op) >= len(rs.byOp) {
		return nil
	}
	return rs.byOp[op]
}

// All returns every rule in declaration order.
func (rs *RuleSet) All() []*Rule { return rs.all }

// Len returns the number of rules.
func (rs *RuleSet) Len() int { return len(rs.all) }

// NumConds returns the number of conditions, including Always.
func (rs *RuleSet) NumConds() int { return len(rs.conds) }

// CondString returns the source form of a condition, "" for Always.
func (rs *RuleSet) CondString(id CondID) string {
	if id == Always || int(id) >= len(rs.conds) {
		return ""
	}
	return rs.conds[id].String()
}

// Conditions evaluates every condition of the set against opts.
func (rs *RuleSet) Conditions(opts *config.Options) Conditions {
	if opts == nil {
		opts = &config.Options{}
	}
	c := make(Conditions, len(rs.conds))
	c[Always] = true
	for i := 1; i < len(rs.conds); i++ {
		v, err := opts.Lookup(rs.conds[i].name)
		if err != nil {
			// Names are checked when the set is compiled.
			panic(err)
		}
		c[i] = v != rs.conds[i].negate
	}
	return c
}
