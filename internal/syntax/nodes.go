package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// Two kinds of source are parsed: SSA text (File) and rule text (RuleFile).
// Pattern nodes of the rule language are expressions.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	aNode()   // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Decl is the interface for all declaration nodes.
type Decl interface {
	Node
	aDecl()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) aExpr() {}

// decl is embedded in all declaration nodes.
type decl struct{ node }

func (*decl) aDecl() {}

// ----------------------------------------------------------------------------
// SSA text

// File is a parsed SSA text file.
type File struct {
	node
	Funcs []*FuncDecl
}

// FuncDecl is one function: func Name: Blocks...
type FuncDecl struct {
	decl
	Name   *Name
	Blocks []*BlockDecl
}

// BlockDecl is a labeled block: b1: <- b0 b2
type BlockDecl struct {
	decl
	Label  *Name
	Entry  bool    // marked (entry)
	Preds  []*Name // predecessor labels, in edge order
	Values []*ValueDecl
	Term   *Terminator
}

// ValueDecl defines one value: v3 = op <Type> [Aux] Args...
// Name and Type are nil for void ops.
type ValueDecl struct {
	decl
	Name *Name
	Op   *Name
	Type *TypeExpr
	Aux  *BasicLit // nil if absent
	Args []*Name
}

// TypeExpr is a value type: <32> or <16x4>.
type TypeExpr struct {
	expr
	Size  uint8
	Comps uint8 // 0 if not given
}

// Terminator ends a block: Kind Controls... [-> Succs...]
type Terminator struct {
	node
	Kind     *Name
	Controls []*Name
	Succs    []*Name
}

// ----------------------------------------------------------------------------
// Rule text

// RuleFile is a parsed list of rewrite rules.
type RuleFile struct {
	node
	Rules []*RuleDecl
}

// RuleDecl is one rule: [~] Search -> Replace [if [!]Cond]
type RuleDecl struct {
	decl
	Inexact bool
	Search  *PatOp
	Replace Expr
	Cond    *Name // nil if unconditional
	Negate  bool  // condition is !Cond
}

// PatOp is an operation pattern: (op[@size][{pred}] args...)
type PatOp struct {
	expr
	Op   *Name
	Size uint8 // 0 if not given
	Pred *Name // nil if absent
	Args []Expr
}

// PatVar is a variable pattern: [#]name[.*][@size][{pred}]
type PatVar struct {
	expr
	Name    *Name
	Const   bool // '#': must be a constant
	Swizzle bool // '.*': may bind an operand of another width
	Size    uint8
	Pred    *Name
}

// ----------------------------------------------------------------------------
// Shared leaves

// Name represents an identifier.
type Name struct {
	expr
	Value string
}

// BasicLit represents a literal; Value keeps the source text without sign.
type BasicLit struct {
	expr
	Value string
	Kind  LitKind
	Neg   bool // preceded by '-'
}
