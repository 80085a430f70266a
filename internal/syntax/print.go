package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes the source form of node to w. Printing a parsed node
// and parsing the result yields an equivalent tree.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

// String returns the source form of node.
func String(node Node) string {
	var sb strings.Builder
	Fprint(&sb, node)
	return sb.String()
}

type printer struct {
	w io.Writer
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *File:
		for _, f := range n.Funcs {
			p.print(f)
		}

	case *FuncDecl:
		p.printf("func %s:\n", n.Name.Value)
		for _, b := range n.Blocks {
			p.print(b)
		}

	case *BlockDecl:
		p.printf("  %s:", n.Label.Value)
		if n.Entry {
			p.printf(" (entry)")
		}
		if len(n.Preds) > 0 {
			p.printf(" <-")
			p.names(n.Preds)
		}
		p.printf("\n")
		for _, v := range n.Values {
			p.printf("    ")
			p.print(v)
			p.printf("\n")
		}
		if n.Term != nil {
			p.printf("    ")
			p.print(n.Term)
			p.printf("\n")
		}

	case *ValueDecl:
		if n.Name != nil {
			p.printf("%s = ", n.Name.Value)
		}
		p.printf("%s", n.Op.Value)
		if n.Type != nil {
			p.printf(" ")
			p.print(n.Type)
		}
		if n.Aux != nil {
			p.printf(" [")
			p.print(n.Aux)
			p.printf("]")
		}
		p.names(n.Args)

	case *TypeExpr:
		if n.Comps > 1 {
			p.printf("<%dx%d>", n.Size, n.Comps)
		} else {
			p.printf("<%d>", n.Size)
		}

	case *Terminator:
		p.printf("%s", n.Kind.Value)
		p.names(n.Controls)
		if len(n.Succs) > 0 {
			p.printf(" ->")
			p.names(n.Succs)
		}

	case *RuleFile:
		for _, r := range n.Rules {
			p.print(r)
			p.printf("\n")
		}

	case *RuleDecl:
		if n.Inexact {
			p.printf("~")
		}
		p.print(n.Search)
		p.printf(" -> ")
		p.print(n.Replace)
		if n.Cond != nil {
			p.printf(" if ")
			if n.Negate {
				p.printf("!")
			}
			p.printf("%s", n.Cond.Value)
		}

	case *PatOp:
		p.printf("(%s", n.Op.Value)
		p.suffix(n.Size, n.Pred)
		for _, a := range n.Args {
			p.printf(" ")
			p.print(a)
		}
		p.printf(")")

	case *PatVar:
		if n.Const {
			p.printf("#")
		}
		p.printf("%s", n.Name.Value)
		if n.Swizzle {
			p.printf(".*")
		}
		p.suffix(n.Size, n.Pred)

	case *Name:
		p.printf("%s", n.Value)

	case *BasicLit:
		if n.Neg {
			p.printf("-")
		}
		p.printf("%s", n.Value)

	default:
		panic(fmt.Sprintf("syntax: unexpected node %T", n))
	}
}

func (p *printer) names(list []*Name) {
	for _, n := range list {
		p.printf(" %s", n.Value)
	}
}

func (p *printer) suffix(size uint8, pred *Name) {
	if size != 0 {
		p.printf("@%d", size)
	}
	if pred != nil {
		p.printf("{%s}", pred.Value)
	}
}
