package ast

import (
	"fmt"

	"github.com/virchau13/pcse/token"
)

// Type is the AST representation of a declared type, either a keyword
// primitive or a (possibly nested) ARRAY wrapping another Type.
type Type interface {
	Node
	typeNode()
}

// PrimitiveType is a bare type keyword (INTEGER, REAL, STRING, CHAR,
// BOOLEAN, DATE).
type PrimitiveType struct {
	Kind token.Kind
}

func (*PrimitiveType) typeNode() {}
func (t *PrimitiveType) String() string { return t.Kind.String() }

// ArrayType is `ARRAY [ Lo : Hi ] OF Elem`; Elem may itself be an
// ArrayType, one layer per nesting dimension.
type ArrayType struct {
	Lo, Hi Expr
	Elem   Type
}

func (*ArrayType) typeNode() {}
func (t *ArrayType) String() string {
	return fmt.Sprintf("(array [%s:%s] %s)", t.Lo, t.Hi, t.Elem)
}

// Param is one ParamList entry: `[BYREF] id : Type`.
type Param struct {
	ByRef bool
	Id    int64
	Name  string
	Type  Type
}
