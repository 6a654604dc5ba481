package interp

import (
	"github.com/virchau13/pcse/ast"
	"github.com/virchau13/pcse/token"
	"github.com/virchau13/pcse/value"
)

func primitiveFromKind(k token.Kind) value.Primitive {
	switch k {
	case token.INTEGER:
		return value.INTEGER
	case token.REAL_TYPE:
		return value.REAL
	case token.STRING_TYPE:
		return value.STRING
	case token.CHAR_TYPE:
		return value.CHAR
	case token.BOOLEAN:
		return value.BOOLEAN
	case token.DATE_TYPE:
		return value.DATE
	default:
		return value.INVALID
	}
}

// elaborateType resolves an AST Type into a concrete value.EType,
// evaluating ARRAY bound expressions against the current environment
// (they may reference constants or already-declared variables) and
// nesting outer-to-inner as each recursive ArrayType layer is visited.
func (it *Interp) elaborateType(t ast.Type) (value.EType, error) {
	switch n := t.(type) {
	case *ast.PrimitiveType:
		return value.ScalarType(primitiveFromKind(n.Kind)), nil
	case *ast.ArrayType:
		loVal, loType, err := it.evalExpr(n.Lo)
		if err != nil {
			return value.EType{}, err
		}
		if loType.Elem != value.INTEGER || loType.IsArray {
			return value.EType{}, typeErrorf("array bound must be INTEGER")
		}
		hiVal, hiType, err := it.evalExpr(n.Hi)
		if err != nil {
			return value.EType{}, err
		}
		if hiType.Elem != value.INTEGER || hiType.IsArray {
			return value.EType{}, typeErrorf("array bound must be INTEGER")
		}
		if loVal.Int > hiVal.Int {
			return value.EType{}, typeErrorf("array bound lo (%d) > hi (%d)", loVal.Int, hiVal.Int)
		}
		bound := value.Bound{Lo: loVal.Int, Hi: hiVal.Int}
		elem, err := it.elaborateType(n.Elem)
		if err != nil {
			return value.EType{}, err
		}
		if elem.IsArray {
			bounds := append([]value.Bound{bound}, elem.Bounds...)
			return value.ArrayType(elem.Elem, bounds), nil
		}
		return value.ArrayType(elem.Elem, []value.Bound{bound}), nil
	default:
		return value.EType{}, typeErrorf("unknown type node %T", t)
	}
}

// coerce applies the single permitted implicit conversion — an
// INTEGER value accepted where a REAL is expected — and otherwise
// requires the two types to already be Equal.
func coerce(v value.EValue, srcType, dstType value.EType) (value.EValue, error) {
	if srcType.Equal(dstType) {
		if dstType.IsArray {
			return v.DeepCopy(), nil
		}
		return v, nil
	}
	if !srcType.IsArray && !dstType.IsArray && srcType.Elem == value.INTEGER && dstType.Elem == value.REAL {
		f, err := value.FromInt(v.Int)
		if err != nil {
			return value.EValue{}, runtimeErrorf("integer-to-real promotion overflow")
		}
		return value.NewRealValue(f), nil
	}
	return value.EValue{}, typeErrorf("type mismatch: expected %s, got %s", dstType, srcType)
}
