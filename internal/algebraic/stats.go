package algebraic

import (
	"fmt"
	"io"
	"sort"

	"github.com/markkurossi/tabulate"
)

// RuleStats counts what happened to one rule.
type RuleStats struct {
	Tried   int // condition enabled and match attempted
	Matched int
	Fired   int // matched and built
}

// Stats collects per-rule counters across passes. A nil *Stats discards
// everything.
type Stats struct {
	rules map[*Rule]*RuleStats
	sets  map[*Rule]string
}

// NewStats returns an empty collector.
func NewStats() *Stats {
	return &Stats{
		rules: make(map[*Rule]*RuleStats),
		sets:  make(map[*Rule]string),
	}
}

func (s *Stats) get(rs *RuleSet, r *Rule) *RuleStats {
	st := s.rules[r]
	if st == nil {
		st = &RuleStats{}
		s.rules[r] = st
		s.sets[r] = rs.Name
	}
	return st
}

func (s *Stats) record(rs *RuleSet, r *Rule, matched, fired bool) {
	if s == nil {
		return
	}
	st := s.get(rs, r)
	st.Tried++
	if matched {
		st.Matched++
	}
	if fired {
		st.Fired++
	}
}

// Rule returns the counters of r.
func (s *Stats) Rule(r *Rule) RuleStats {
	if s == nil || s.rules[r] == nil {
		return RuleStats{}
	}
	return *s.rules[r]
}

// Fired returns the total number of rewrites.
func (s *Stats) Fired() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, st := range s.rules {
		n += st.Fired
	}
	return n
}

// Print writes a table of every rule that was tried, most fired first.
func (s *Stats) Print(w io.Writer) {
	if s == nil || len(s.rules) == 0 {
		return
	}

	rules := make([]*Rule, 0, len(s.rules))
	for r := range s.rules {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool {
		a, b := s.rules[rules[i]], s.rules[rules[j]]
		if a.Fired != b.Fired {
			return a.Fired > b.Fired
		}
		if a.Tried != b.Tried {
			return a.Tried > b.Tried
		}
		return rules[i].Name < rules[j].Name
	})

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Set").SetAlign(tabulate.ML)
	tab.Header("Rule").SetAlign(tabulate.ML)
	tab.Header("Tried").SetAlign(tabulate.MR)
	tab.Header("Matched").SetAlign(tabulate.MR)
	tab.Header("Fired").SetAlign(tabulate.MR)

	var total RuleStats
	for _, r := range rules {
		st := s.rules[r]
		row := tab.Row()
		row.Column(s.sets[r])
		row.Column(r.Name)
		row.Column(fmt.Sprint(st.Tried))
		row.Column(fmt.Sprint(st.Matched))
		row.Column(fmt.Sprint(st.Fired))

		total.Tried += st.Tried
		total.Matched += st.Matched
		total.Fired += st.Fired
	}

	row := tab.Row()
	row.Column("Total").SetFormat(tabulate.FmtBold)
	row.Column("")
	row.Column(fmt.Sprint(total.Tried)).SetFormat(tabulate.FmtBold)
	row.Column(fmt.Sprint(total.Matched)).SetFormat(tabulate.FmtBold)
	row.Column(fmt.Sprint(total.Fired)).SetFormat(tabulate.FmtBold)

	tab.Print(w)
}

// PrintRules writes a table listing the rules of rs.
func PrintRules(w io.Writer, rs *RuleSet) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("#").SetAlign(tabulate.MR)
	tab.Header("Op").SetAlign(tabulate.ML)
	tab.Header("Rule").SetAlign(tabulate.ML)
	tab.Header("Condition").SetAlign(tabulate.ML)

	for i, r := range rs.All() {
		row := tab.Row()
		row.Column(fmt.Sprint(i))
		row.Column(r.Search.Op.String())
		row.Column(r.Name)
		row.Column(rs.CondString(r.Cond))
	}
	tab.Print(w)
}
