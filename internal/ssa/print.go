package ssa

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/you-not-fish/algopt/internal/types"
)

// Fprint writes the SSA representation of a function to w.
// The output can be read back with BuildFile.
//
// Format:
//
//	func name:
//	  b0: (entry)
//	    v0 = arg <32> [0]
//	    v1 = const <32> [1]
//	    v2 = imul <32x4> v0 v1
//	    output [0] v2
//	    Return
func Fprint(w io.Writer, f *Func) {
	fmt.Fprintf(w, "func %s:\n", f.Name)
	for _, b := range f.Blocks {
		fprintBlock(w, b, f)
	}
}

// fprintBlock writes a single block to w.
func fprintBlock(w io.Writer, b *Block, f *Func) {
	label := ""
	if b == f.Entry {
		label = " (entry)"
	}

	predsStr := ""
	if len(b.Preds) > 0 {
		preds := make([]string, len(b.Preds))
		for i, p := range b.Preds {
			preds[i] = p.String()
		}
		predsStr = " <- " + strings.Join(preds, " ")
	}

	fmt.Fprintf(w, "  %s:%s%s\n", b, label, predsStr)

	for _, v := range b.Values {
		fmt.Fprintf(w, "    %s\n", formatValue(v))
	}

	fmt.Fprintf(w, "    %s\n", formatTerminator(b))
}

// formatValue formats a value as a string.
func formatValue(v *Value) string {
	var sb strings.Builder

	if v.Op.IsVoid() {
		sb.WriteString(v.Op.String())
	} else {
		fmt.Fprintf(&sb, "v%d = %s <%s>", v.ID, v.Op, v.Type())
	}

	switch v.Op {
	case OpConst:
		if v.BitSize == 1 {
			fmt.Fprintf(&sb, " [%s]", types.Format(types.Bool, v.ConstBits(), 1))
		} else {
			fmt.Fprintf(&sb, " [%d]", types.SignExtend(uint64(v.AuxInt), v.BitSize))
		}
	case OpArg, OpOutput:
		fmt.Fprintf(&sb, " [%d]", v.AuxInt)
	}

	for _, arg := range v.Args {
		fmt.Fprintf(&sb, " v%d", arg.ID)
	}

	return sb.String()
}

// formatTerminator formats a block terminator.
func formatTerminator(b *Block) string {
	var sb strings.Builder
	sb.WriteString(b.Kind.String())
	for _, c := range b.Controls {
		if c != nil {
			fmt.Fprintf(&sb, " v%d", c.ID)
		}
	}
	if len(b.Succs) > 0 {
		sb.WriteString(" ->")
		for _, s := range b.Succs {
			fmt.Fprintf(&sb, " %s", s)
		}
	}
	return sb.String()
}

// Sprint returns the SSA representation of a function as a string.
func Sprint(f *Func) string {
	var sb strings.Builder
	Fprint(&sb, f)
	return sb.String()
}

// Print writes the SSA representation of a function to stdout.
func Print(f *Func) {
	Fprint(os.Stdout, f)
}
