package syntax

import (
	"strings"
	"testing"
)

func scanAll(src string, asi bool) (toks []Token, lits []string) {
	s := NewScanner("test", strings.NewReader(src), nil)
	s.SetASIEnabled(asi)
	for {
		s.Next()
		if s.Token() == _EOF {
			return
		}
		toks = append(toks, s.Token())
		lits = append(lits, s.Literal())
	}
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		tokens []Token
	}{
		{"value_name", "v12", []Token{_Name, _Semi}},
		{"int_hex", "0xff", []Token{_Literal, _Semi}},
		{"float", "1.5", []Token{_Literal, _Semi}},
		{"arrow", "a -> b", []Token{_Name, _Arrow, _Name, _Semi}},
		{"type", "<32x4>", []Token{_Lss, _Literal, _Name, _Gtr, _Semi}},
		{"preds", "b1: <- b0", []Token{_Name, _Colon, _Lss, _Sub, _Name, _Semi}},
		{"func_header", "func f:", []Token{_Func, _Name, _Colon}},
		{"negative", "[-1]", []Token{_Lbrack, _Sub, _Literal, _Rbrack, _Semi}},
		{"variable", "#a.*@32{is_used_once}", []Token{_Hash, _Name, _Dot, _Mul, _At, _Literal, _Lbrace, _Name, _Rbrace, _Semi}},
		{"inexact", "~(iadd a b)", []Token{_Tilde, _Lparen, _Name, _Name, _Name, _Rparen, _Semi}},
		{"cond", "if !lower_sub", []Token{_If, _Not, _Name, _Semi}},
		{"comment", "x // note\ny", []Token{_Name, _Semi, _Name, _Semi}},
		{"blank_lines", "x\n\n\ny", []Token{_Name, _Semi, _Name, _Semi}},
		{"no_semi_after_colon", "b0:\nv0", []Token{_Name, _Colon, _Name, _Semi}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := scanAll(tt.src, true)
			if !equalTokens(got, tt.tokens) {
				t.Errorf("scan(%q) = %v, want %v", tt.src, got, tt.tokens)
			}
		})
	}
}

func TestScanNoASI(t *testing.T) {
	got, lits := scanAll("(imul a 1)\n(iadd a 0)\n", false)
	want := []Token{_Lparen, _Name, _Name, _Literal, _Rparen, _Lparen, _Name, _Name, _Literal, _Rparen}
	if !equalTokens(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
	if lits[1] != "imul" || lits[3] != "1" {
		t.Errorf("literals = %q", lits)
	}
}

func TestScanLiteralKinds(t *testing.T) {
	tests := []struct {
		src  string
		kind LitKind
		lit  string
	}{
		{"42", IntLit, "42"},
		{"0x1F", IntLit, "0x1F"},
		{"0b101", IntLit, "0b101"},
		{"0o17", IntLit, "0o17"},
		{"2.0", FloatLit, "2.0"},
		{"1e-3", FloatLit, "1e-3"},
		{"0.5", FloatLit, "0.5"},
	}
	for _, tt := range tests {
		s := NewScanner("test", strings.NewReader(tt.src), nil)
		s.Next()
		if s.Token() != _Literal || s.LitKind() != tt.kind || s.Literal() != tt.lit {
			t.Errorf("scan(%q) = %v %v %q, want LITERAL %v %q",
				tt.src, s.Token(), s.LitKind(), s.Literal(), tt.kind, tt.lit)
		}
	}
}

func TestScanPositions(t *testing.T) {
	s := NewScanner("f.ssa", strings.NewReader("func f:\n  b0:"), nil)
	wantPos := []string{"f.ssa:1:1", "f.ssa:1:6", "f.ssa:1:7", "f.ssa:2:3", "f.ssa:2:5"}
	for i, want := range wantPos {
		s.Next()
		if got := s.Pos().String(); got != want {
			t.Errorf("token %d (%v) at %s, want %s", i, s.Token(), got, want)
		}
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{"$", "unexpected character"},
		{"0x", "invalid hex digit"},
		{"1e", "exponent has no digits"},
		{"a / b", "unexpected character '/'"},
	}
	for _, tt := range tests {
		var msgs []string
		errh := func(line, col uint32, msg string) { msgs = append(msgs, msg) }
		s := NewScanner("test", strings.NewReader(tt.src), errh)
		for s.Next(); s.Token() != _EOF; {
			s.Next()
		}
		if len(msgs) == 0 || !strings.Contains(msgs[0], tt.msg) {
			t.Errorf("scan(%q) errors = %q, want %q", tt.src, msgs, tt.msg)
		}
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{_Arrow, "->"},
		{_Hash, "#"},
		{_Func, "func"},
		{_If, "if"},
		{_Name, "NAME"},
		{tokenCount + 3, "token(29)"},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("Token(%d).String() = %q, want %q", tt.tok, got, tt.want)
		}
	}
	if !_If.IsKeyword() || _Name.IsKeyword() {
		t.Error("IsKeyword misclassifies tokens")
	}
	if !_Arrow.IsOperator() || _Lparen.IsOperator() {
		t.Error("IsOperator misclassifies tokens")
	}
	if LookupKeyword("If") != _Name {
		t.Error("terminator names must not be keywords")
	}
}

func TestSourceUTF8Columns(t *testing.T) {
	src := newSource("test", strings.NewReader("a中b\nc"), nil)
	var cols []uint32
	for src.ch >= 0 {
		cols = append(cols, src.col)
		src.nextch()
	}
	want := []uint32{1, 2, 3, 4, 1}
	if len(cols) != len(want) {
		t.Fatalf("cols = %v, want %v", cols, want)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("cols = %v, want %v", cols, want)
			break
		}
	}
}

func TestPosString(t *testing.T) {
	tests := []struct {
		pos  Pos
		want string
	}{
		{NewPos("a.ssa", 3, 7), "a.ssa:3:7"},
		{NewPos("", 3, 7), "3:7"},
		{Pos{}, "-"},
	}
	for _, tt := range tests {
		if got := tt.pos.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func equalTokens(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
