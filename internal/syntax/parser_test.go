package syntax

import (
	"strings"
	"testing"
)

const sampleSSA = `func f:
  b0: (entry)
    v0 = arg <32> [0]
    v1 = const <32x4> [-1]
    v2 = iadd <32x4> v0 v1 // comment
    v3 = ilt <1x4> v2 v0
    output [0] v2
    If v3 -> b1 b2
  b1: <- b0
    Plain -> b2
  b2: <- b0 b1
    v4 = phi <32> v0 v2
    Return
`

func TestParseFile(t *testing.T) {
	f, err := ParseFile("sample.ssa", strings.NewReader(sampleSSA))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(f.Funcs) != 1 {
		t.Fatalf("got %d funcs, want 1", len(f.Funcs))
	}
	fn := f.Funcs[0]
	if fn.Name.Value != "f" || len(fn.Blocks) != 3 {
		t.Fatalf("func %s has %d blocks", fn.Name.Value, len(fn.Blocks))
	}

	b0 := fn.Blocks[0]
	if !b0.Entry || len(b0.Values) != 5 {
		t.Fatalf("b0: entry=%v values=%d", b0.Entry, len(b0.Values))
	}

	v1 := b0.Values[1]
	if v1.Name.Value != "v1" || v1.Op.Value != "const" {
		t.Errorf("v1 = %s %s", v1.Name.Value, v1.Op.Value)
	}
	if v1.Type.Size != 32 || v1.Type.Comps != 4 {
		t.Errorf("v1 type = %d x %d", v1.Type.Size, v1.Type.Comps)
	}
	if v1.Aux == nil || !v1.Aux.Neg || v1.Aux.Value != "1" {
		t.Errorf("v1 aux = %+v", v1.Aux)
	}

	out := b0.Values[4]
	if out.Name != nil || out.Op.Value != "output" || len(out.Args) != 1 {
		t.Errorf("output decl = %+v", out)
	}

	term := b0.Term
	if term.Kind.Value != "If" || len(term.Controls) != 1 || len(term.Succs) != 2 {
		t.Errorf("b0 terminator = %s %d %d", term.Kind.Value, len(term.Controls), len(term.Succs))
	}

	b2 := fn.Blocks[2]
	if len(b2.Preds) != 2 || b2.Preds[1].Value != "b1" {
		t.Errorf("b2 preds = %v", b2.Preds)
	}
	if b2.Term.Kind.Value != "Return" || len(b2.Term.Controls) != 0 {
		t.Errorf("b2 terminator = %+v", b2.Term)
	}
}

func TestParseFileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"no_func", "b0:\n  Return\n", "expected func"},
		{"no_terminator", "func f:\n  b0:\n    v0 = arg <32> [0]\n", "expected terminator"},
		{"bad_type", "func f:\n  b0:\n    v0 = arg <x> [0]\n    Return\n", "expected bit size"},
		{"bad_comps", "func f:\n  b0:\n    v0 = arg <32xq> [0]\n    Return\n", "invalid component count"},
		{"bad_entry", "func f:\n  b0: (start)\n    Return\n", "expected entry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile("bad.ssa", strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("ParseFile succeeded")
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error = %q, want %q", err, tt.msg)
			}
		})
	}
}

func TestParseRules(t *testing.T) {
	src := `
	// identities
	(imul a 1) -> a
	(iadd a (ineg b)) -> (isub a b)
	(udiv a #b{is_pos_pow2}) -> (ushr a (find_lsb b)) if lower_idiv
	~(fadd@32 (fmul{is_used_once} a b) c) -> (ffma a b c) if fuse_ffma32
	(fadd a 0.0) -> a if !preserve_signed_zero
	(bcsel true a b) -> a
	(iadd a.*@16 -1) -> (isub a 1)
	`
	f, err := ParseRuleText("rules", src)
	if err != nil {
		t.Fatalf("ParseRuleText: %v", err)
	}
	if len(f.Rules) != 7 {
		t.Fatalf("got %d rules, want 7", len(f.Rules))
	}

	r := f.Rules[2]
	if r.Search.Op.Value != "udiv" || r.Cond == nil || r.Cond.Value != "lower_idiv" || r.Negate {
		t.Errorf("rule 2 = %s", String(r))
	}
	b, ok := r.Search.Args[1].(*PatVar)
	if !ok || !b.Const || b.Pred == nil || b.Pred.Value != "is_pos_pow2" {
		t.Errorf("rule 2 arg 1 = %#v", r.Search.Args[1])
	}

	r = f.Rules[3]
	if !r.Inexact || r.Search.Size != 32 {
		t.Errorf("rule 3 = %s", String(r))
	}
	if inner := r.Search.Args[0].(*PatOp); inner.Pred == nil || inner.Pred.Value != "is_used_once" {
		t.Errorf("rule 3 inner pred missing")
	}

	if r := f.Rules[4]; !r.Negate {
		t.Errorf("rule 4 condition not negated")
	}
	if lit, ok := f.Rules[5].Search.Args[0].(*BasicLit); !ok || lit.Kind != BoolLit {
		t.Errorf("rule 5 arg 0 = %#v", f.Rules[5].Search.Args[0])
	}

	a := f.Rules[6].Search.Args[0].(*PatVar)
	if !a.Swizzle || a.Size != 16 {
		t.Errorf("rule 6 variable = %#v", a)
	}
	if lit := f.Rules[6].Search.Args[1].(*BasicLit); !lit.Neg || lit.Value != "1" {
		t.Errorf("rule 6 literal = %#v", lit)
	}
}

func TestParseRulesErrors(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{"a -> b", "search pattern must be an operation"},
		{"(imul a 1) a", "expected ->"},
		{"(imul a 1 -> a", "expected pattern"},
		{"(imul@x a) -> a", "expected bit size"},
		{"(imul -true) -> a", "expected literal"},
	}
	for _, tt := range tests {
		_, err := ParseRuleText("rules", tt.src)
		if err == nil {
			t.Errorf("ParseRuleText(%q) succeeded", tt.src)
			continue
		}
		if !strings.Contains(err.Error(), tt.msg) {
			t.Errorf("ParseRuleText(%q) error = %q, want %q", tt.src, err, tt.msg)
		}
	}
}

func TestPrintRoundTrip(t *testing.T) {
	rules := []string{
		"(imul a 1) -> a",
		"~(fadd@32 (fmul{is_used_once} a b) c) -> (ffma a b c) if fuse_ffma32",
		"(iand #a.*@8{is_constant} -0x1) -> 0 if !has_bfe",
		"(bcsel false a b) -> b",
	}
	for _, src := range rules {
		f, err := ParseRuleText("rules", src)
		if err != nil {
			t.Fatalf("ParseRuleText(%q): %v", src, err)
		}
		if got := String(f.Rules[0]); got != src {
			t.Errorf("String = %q, want %q", got, src)
		}
	}

	f, err := ParseFile("sample.ssa", strings.NewReader(sampleSSA))
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Replace(sampleSSA, " // comment", "", 1)
	if got := String(f); got != want {
		t.Errorf("printed SSA:\n%s\nwant:\n%s", got, want)
	}
}

func TestInspectVariables(t *testing.T) {
	f, err := ParseRuleText("rules", "(iadd a (imul b a)) -> (imul a (iadd b 1))")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	Inspect(f.Rules[0].Search, func(n Node) bool {
		if v, ok := n.(*PatVar); ok {
			names = append(names, v.Name.Value)
		}
		return true
	})
	if strings.Join(names, ",") != "a,b,a" {
		t.Errorf("variables = %v, want [a b a]", names)
	}
}
