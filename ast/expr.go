// Package ast defines the typed abstract syntax tree produced by the
// parser and walked by the interpreter: a tagged-variant node per
// grammar production, each implementing Node and either Expr or Stmt.
package ast

import (
	"fmt"
	"strings"

	"github.com/virchau13/pcse/token"
	"github.com/virchau13/pcse/value"
)

// Node is any AST node; String renders it as an s-expression for
// --print-tree, in the teacher's AST-printer idiom.
type Node interface {
	String() string
}

// Expr is any expression-producing node.
type Expr interface {
	Node
	exprNode()
}

// IntLit is an INT literal.
type IntLit struct {
	Value int64
}

func (*IntLit) exprNode() {}
func (e *IntLit) String() string { return fmt.Sprintf("%d", e.Value) }

// RealLit is a REAL literal, already parsed into a reduced rational.
type RealLit struct {
	Value value.Fraction
}

func (*RealLit) exprNode() {}
func (e *RealLit) String() string { return e.Value.String() }

// StringLit is a STRING literal.
type StringLit struct {
	Value string
}

func (*StringLit) exprNode() {}
func (e *StringLit) String() string { return fmt.Sprintf("%q", e.Value) }

// CharLit is a CHAR literal.
type CharLit struct {
	Value byte
}

func (*CharLit) exprNode() {}
func (e *CharLit) String() string { return fmt.Sprintf("'%c'", e.Value) }

// DateLit is a fused date-triple literal.
type DateLit struct {
	Value value.Date
}

func (*DateLit) exprNode() {}
func (e *DateLit) String() string { return e.Value.String() }

// BoolLit is a TRUE/FALSE literal.
type BoolLit struct {
	Value bool
}

func (*BoolLit) exprNode() {}
func (e *BoolLit) String() string {
	if e.Value {
		return "TRUE"
	}
	return "FALSE"
}

// LValue is an identifier optionally followed by one or more `[Expr]`
// index accesses. It is itself an Expr (reading the denoted storage
// location) and is also used directly as an assignment/INPUT target.
type LValue struct {
	Id      int64
	Name    string
	Indices []Expr
}

func (*LValue) exprNode() {}
func (e *LValue) String() string {
	if len(e.Indices) == 0 {
		return e.Name
	}
	parts := make([]string, len(e.Indices))
	for i, idx := range e.Indices {
		parts[i] = idx.String()
	}
	return fmt.Sprintf("(index %s %s)", e.Name, strings.Join(parts, " "))
}

// CallExpr is a function/procedure call used in value or statement
// position; the parser builds the same node for both, and the
// interpreter decides in context whether a return value is required.
type CallExpr struct {
	Id   int64
	Name string
	Args []Expr
}

func (*CallExpr) exprNode() {}
func (e *CallExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("(call %s %s)", e.Name, strings.Join(parts, " "))
}

// Grouping is a parenthesised Expr, kept as its own node (rather than
// unwrapped away) so --print-tree reflects the source faithfully.
type Grouping struct {
	Inner Expr
}

func (*Grouping) exprNode() {}
func (e *Grouping) String() string { return fmt.Sprintf("(group %s)", e.Inner) }

// UnaryExpr is a prefix NOT or unary MINUS over a nested UnaryExpr or
// Primary, as permitted by the grammar's UnaryExpr ::= (NOT|-) UnaryExpr | Primary.
type UnaryExpr struct {
	Op      token.Kind
	Operand Expr
}

func (*UnaryExpr) exprNode() {}
func (e *UnaryExpr) String() string { return fmt.Sprintf("(%s %s)", e.Op, e.Operand) }

// BinExpr is one link of a left-associative binary-operator chain; the
// parser builds these by folding each new (op, rhs) pair onto the
// previous result as the new Left, so a chain `a + b + c` becomes
// BinExpr{+, BinExpr{+, a, b}, c}.
type BinExpr struct {
	Op    token.Kind
	Left  Expr
	Right Expr
}

func (*BinExpr) exprNode() {}
func (e *BinExpr) String() string { return fmt.Sprintf("(%s %s %s)", e.Op, e.Left, e.Right) }
