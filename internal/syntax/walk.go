package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		for _, f := range n.Funcs {
			Walk(f, v)
		}

	case *FuncDecl:
		Walk(n.Name, v)
		for _, b := range n.Blocks {
			Walk(b, v)
		}

	case *BlockDecl:
		Walk(n.Label, v)
		for _, p := range n.Preds {
			Walk(p, v)
		}
		for _, val := range n.Values {
			Walk(val, v)
		}
		if n.Term != nil {
			Walk(n.Term, v)
		}

	case *ValueDecl:
		if n.Name != nil {
			Walk(n.Name, v)
		}
		Walk(n.Op, v)
		if n.Type != nil {
			Walk(n.Type, v)
		}
		if n.Aux != nil {
			Walk(n.Aux, v)
		}
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *Terminator:
		Walk(n.Kind, v)
		for _, c := range n.Controls {
			Walk(c, v)
		}
		for _, s := range n.Succs {
			Walk(s, v)
		}

	case *RuleFile:
		for _, r := range n.Rules {
			Walk(r, v)
		}

	case *RuleDecl:
		Walk(n.Search, v)
		Walk(n.Replace, v)
		if n.Cond != nil {
			Walk(n.Cond, v)
		}

	case *PatOp:
		Walk(n.Op, v)
		if n.Pred != nil {
			Walk(n.Pred, v)
		}
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *PatVar:
		Walk(n.Name, v)
		if n.Pred != nil {
			Walk(n.Pred, v)
		}

	// Leaf nodes: Name, BasicLit, TypeExpr
	}
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}
