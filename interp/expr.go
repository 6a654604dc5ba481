package interp

import (
	"github.com/virchau13/pcse/ast"
	"github.com/virchau13/pcse/token"
	"github.com/virchau13/pcse/value"
)

// evalExpr is the fused type-check-and-evaluate entry point for every
// expression node: it returns the node's runtime value together with
// the EType that value was produced under, or a TypeError/RuntimeError
// the moment either check fails.
func (it *Interp) evalExpr(e ast.Expr) (value.EValue, value.EType, error) {
	switch n := e.(type) {
	case *ast.IntLit:
		return value.NewIntValue(n.Value), value.ScalarType(value.INTEGER), nil
	case *ast.RealLit:
		return value.NewRealValue(n.Value), value.ScalarType(value.REAL), nil
	case *ast.StringLit:
		return value.NewStringValue(n.Value), value.ScalarType(value.STRING), nil
	case *ast.CharLit:
		return value.NewCharValue(n.Value), value.ScalarType(value.CHAR), nil
	case *ast.DateLit:
		return value.NewDateValue(n.Value), value.ScalarType(value.DATE), nil
	case *ast.BoolLit:
		return value.NewBoolValue(n.Value), value.ScalarType(value.BOOLEAN), nil
	case *ast.Grouping:
		return it.evalExpr(n.Inner)
	case *ast.LValue:
		cell, err := it.resolveLValue(n)
		if err != nil {
			return value.EValue{}, value.EType{}, err
		}
		return cell.get(), cell.typ, nil
	case *ast.CallExpr:
		v, t, hasReturn, err := it.callFunction(n.Id, n.Name, n.Args)
		if err != nil {
			return value.EValue{}, value.EType{}, err
		}
		if !hasReturn {
			return value.EValue{}, value.EType{}, typeErrorf("procedure %q used as a value", n.Name)
		}
		return v, t, nil
	case *ast.UnaryExpr:
		return it.evalUnary(n)
	case *ast.BinExpr:
		return it.evalBinary(n)
	default:
		return value.EValue{}, value.EType{}, typeErrorf("unknown expression node %T", e)
	}
}

// cell is a resolved, assignable storage location: a pointer to the
// concrete EValue slot plus the EType governing it.
type cell struct {
	ptr *value.EValue
	typ value.EType
}

func (c cell) get() value.EValue    { return *c.ptr }
func (c cell) set(v value.EValue)   { *c.ptr = v }

// resolveLValue walks an identifier plus its index list down into the
// environment's slot table, checking INTEGER index types and
// per-dimension bounds as it goes.
func (it *Interp) resolveLValue(lv *ast.LValue) (cell, error) {
	env := it.Env
	lvl := env.callLevels[lv.Id]
	declType := env.types[lv.Id]
	if declType.Elem == value.INVALID {
		return cell{}, runtimeErrorf("undefined variable %q", lv.Name)
	}
	if lvl != GlobalLevel && lvl != env.callNumber {
		return cell{}, runtimeErrorf("undefined variable %q", lv.Name)
	}
	ptr := &env.values[lv.Id]
	curType := declType
	for _, idxExpr := range lv.Indices {
		if !curType.IsArray {
			return cell{}, typeErrorf("too many indices for %q", lv.Name)
		}
		idxVal, idxType, err := it.evalExpr(idxExpr)
		if err != nil {
			return cell{}, err
		}
		if idxType.IsArray || idxType.Elem != value.INTEGER {
			return cell{}, typeErrorf("array index must be INTEGER")
		}
		bound := curType.Bounds[0]
		k := idxVal.Int
		if k < bound.Lo || k > bound.Hi {
			return cell{}, runtimeErrorf("out-of-bounds index %d for %q", k, lv.Name)
		}
		ptr = &ptr.Arr[k-bound.Lo]
		if len(curType.Bounds) == 1 {
			curType = value.ScalarType(curType.Elem)
		} else {
			curType = value.EType{IsArray: true, Bounds: curType.Bounds[1:], Elem: curType.Elem}
		}
	}
	return cell{ptr: ptr, typ: curType}, nil
}

func (it *Interp) evalUnary(n *ast.UnaryExpr) (value.EValue, value.EType, error) {
	v, t, err := it.evalExpr(n.Operand)
	if err != nil {
		return value.EValue{}, value.EType{}, err
	}
	switch n.Op {
	case token.NOT:
		if t.IsArray || t.Elem != value.BOOLEAN {
			return value.EValue{}, value.EType{}, typeErrorf("NOT requires BOOLEAN, got %s", t)
		}
		return value.NewBoolValue(!v.Bool), value.ScalarType(value.BOOLEAN), nil
	case token.MINUS:
		if t.IsArray {
			return value.EValue{}, value.EType{}, typeErrorf("unary - requires INTEGER or REAL, got %s", t)
		}
		switch t.Elem {
		case value.INTEGER:
			return value.NewIntValue(-v.Int), value.ScalarType(value.INTEGER), nil
		case value.REAL:
			neg, err := v.Frac.Neg()
			if err != nil {
				return value.EValue{}, value.EType{}, runtimeErrorf("%v", err)
			}
			return value.NewRealValue(neg), value.ScalarType(value.REAL), nil
		default:
			return value.EValue{}, value.EType{}, typeErrorf("unary - requires INTEGER or REAL, got %s", t)
		}
	default:
		return value.EValue{}, value.EType{}, typeErrorf("unknown unary operator %s", n.Op)
	}
}

func toFraction(v value.EValue, t value.EType) (value.Fraction, error) {
	if t.Elem == value.REAL {
		return v.Frac, nil
	}
	return value.FromInt(v.Int)
}

func (it *Interp) evalBinary(n *ast.BinExpr) (value.EValue, value.EType, error) {
	lv, lt, err := it.evalExpr(n.Left)
	if err != nil {
		return value.EValue{}, value.EType{}, err
	}
	rv, rt, err := it.evalExpr(n.Right)
	if err != nil {
		return value.EValue{}, value.EType{}, err
	}
	switch n.Op {
	case token.OR, token.AND:
		if lt.IsArray || rt.IsArray || lt.Elem != value.BOOLEAN || rt.Elem != value.BOOLEAN {
			return value.EValue{}, value.EType{}, typeErrorf("%s requires BOOLEAN operands", n.Op)
		}
		var result bool
		if n.Op == token.OR {
			result = lv.Bool || rv.Bool
		} else {
			result = lv.Bool && rv.Bool
		}
		return value.NewBoolValue(result), value.ScalarType(value.BOOLEAN), nil

	case token.EQ, token.LT_GT, token.LT, token.LT_EQ, token.GT, token.GT_EQ:
		return evalComparison(n.Op, lv, lt, rv, rt)

	case token.PLUS, token.MINUS:
		return evalAddSub(n.Op, lv, lt, rv, rt)

	case token.STAR:
		return evalMul(lv, lt, rv, rt)
	case token.SLASH:
		return evalDiv(lv, lt, rv, rt)
	case token.MOD, token.DIV:
		return evalIntDivMod(n.Op, lv, lt, rv, rt)

	default:
		return value.EValue{}, value.EType{}, typeErrorf("unknown binary operator %s", n.Op)
	}
}

func cmpToBool(op token.Kind, c int) bool {
	switch op {
	case token.EQ:
		return c == 0
	case token.LT_GT:
		return c != 0
	case token.LT:
		return c < 0
	case token.LT_EQ:
		return c <= 0
	case token.GT:
		return c > 0
	case token.GT_EQ:
		return c >= 0
	}
	return false
}

func evalComparison(op token.Kind, lv value.EValue, lt value.EType, rv value.EValue, rt value.EType) (value.EValue, value.EType, error) {
	if lt.IsArray || rt.IsArray {
		return value.EValue{}, value.EType{}, typeErrorf("arrays cannot be compared")
	}
	// Mixed INTEGER/REAL promotes the integer side to a rational.
	if (lt.Elem == value.INTEGER && rt.Elem == value.REAL) || (lt.Elem == value.REAL && rt.Elem == value.INTEGER) {
		lf, err := toFraction(lv, lt)
		if err != nil {
			return value.EValue{}, value.EType{}, err
		}
		rf, err := toFraction(rv, rt)
		if err != nil {
			return value.EValue{}, value.EType{}, err
		}
		return value.NewBoolValue(cmpToBool(op, lf.Cmp(rf))), value.ScalarType(value.BOOLEAN), nil
	}
	if lt.Elem != rt.Elem {
		return value.EValue{}, value.EType{}, typeErrorf("cannot compare %s with %s", lt, rt)
	}
	var c int
	switch lt.Elem {
	case value.INTEGER:
		c = cmpInt64(lv.Int, rv.Int)
	case value.REAL:
		c = lv.Frac.Cmp(rv.Frac)
	case value.STRING:
		c = cmpString(lv.Str, rv.Str)
	case value.CHAR:
		c = cmpInt64(int64(lv.Char), int64(rv.Char))
	case value.DATE:
		c = lv.Date.Cmp(rv.Date)
	case value.BOOLEAN:
		c = cmpBool(lv.Bool, rv.Bool)
	default:
		return value.EValue{}, value.EType{}, typeErrorf("values of type %s cannot be compared", lt)
	}
	return value.NewBoolValue(cmpToBool(op, c)), value.ScalarType(value.BOOLEAN), nil
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a && b:
		return -1
	default:
		return 1
	}
}

// evalAddSub implements tier 3: if either operand is REAL the result
// is REAL (the INTEGER side promotes); if both are INTEGER the result
// is INTEGER; any other combination is a TypeError.
func evalAddSub(op token.Kind, lv value.EValue, lt value.EType, rv value.EValue, rt value.EType) (value.EValue, value.EType, error) {
	if lt.IsArray || rt.IsArray {
		return value.EValue{}, value.EType{}, typeErrorf("%s requires INTEGER or REAL operands", op)
	}
	if lt.Elem == value.INTEGER && rt.Elem == value.INTEGER {
		if op == token.PLUS {
			return value.NewIntValue(lv.Int + rv.Int), value.ScalarType(value.INTEGER), nil
		}
		return value.NewIntValue(lv.Int - rv.Int), value.ScalarType(value.INTEGER), nil
	}
	if (lt.Elem == value.INTEGER || lt.Elem == value.REAL) && (rt.Elem == value.INTEGER || rt.Elem == value.REAL) {
		lf, err := toFraction(lv, lt)
		if err != nil {
			return value.EValue{}, value.EType{}, err
		}
		rf, err := toFraction(rv, rt)
		if err != nil {
			return value.EValue{}, value.EType{}, err
		}
		var res value.Fraction
		if op == token.PLUS {
			res, err = lf.Add(rf)
		} else {
			res, err = lf.Sub(rf)
		}
		if err != nil {
			return value.EValue{}, value.EType{}, runtimeErrorf("%v", err)
		}
		return value.NewRealValue(res), value.ScalarType(value.REAL), nil
	}
	return value.EValue{}, value.EType{}, typeErrorf("%s requires INTEGER or REAL operands, got %s and %s", op, lt, rt)
}

func evalMul(lv value.EValue, lt value.EType, rv value.EValue, rt value.EType) (value.EValue, value.EType, error) {
	if lt.IsArray || rt.IsArray {
		return value.EValue{}, value.EType{}, typeErrorf("* requires INTEGER or REAL operands")
	}
	if lt.Elem == value.INTEGER && rt.Elem == value.INTEGER {
		return value.NewIntValue(lv.Int * rv.Int), value.ScalarType(value.INTEGER), nil
	}
	if (lt.Elem == value.INTEGER || lt.Elem == value.REAL) && (rt.Elem == value.INTEGER || rt.Elem == value.REAL) {
		lf, err := toFraction(lv, lt)
		if err != nil {
			return value.EValue{}, value.EType{}, err
		}
		rf, err := toFraction(rv, rt)
		if err != nil {
			return value.EValue{}, value.EType{}, err
		}
		res, err := lf.Mul(rf)
		if err != nil {
			return value.EValue{}, value.EType{}, runtimeErrorf("%v", err)
		}
		return value.NewRealValue(res), value.ScalarType(value.REAL), nil
	}
	return value.EValue{}, value.EType{}, typeErrorf("* requires INTEGER or REAL operands, got %s and %s", lt, rt)
}

func evalDiv(lv value.EValue, lt value.EType, rv value.EValue, rt value.EType) (value.EValue, value.EType, error) {
	if lt.IsArray || rt.IsArray || !(lt.Elem == value.INTEGER || lt.Elem == value.REAL) || !(rt.Elem == value.INTEGER || rt.Elem == value.REAL) {
		return value.EValue{}, value.EType{}, typeErrorf("/ requires INTEGER or REAL operands")
	}
	lf, err := toFraction(lv, lt)
	if err != nil {
		return value.EValue{}, value.EType{}, err
	}
	rf, err := toFraction(rv, rt)
	if err != nil {
		return value.EValue{}, value.EType{}, err
	}
	res, err := lf.Div(rf)
	if err != nil {
		return value.EValue{}, value.EType{}, runtimeErrorf("%v", err)
	}
	return value.NewRealValue(res), value.ScalarType(value.REAL), nil
}

func evalIntDivMod(op token.Kind, lv value.EValue, lt value.EType, rv value.EValue, rt value.EType) (value.EValue, value.EType, error) {
	if lt.IsArray || rt.IsArray || lt.Elem != value.INTEGER || rt.Elem != value.INTEGER {
		return value.EValue{}, value.EType{}, typeErrorf("%s requires INTEGER operands", op)
	}
	if rv.Int == 0 {
		return value.EValue{}, value.EType{}, runtimeErrorf("division by zero")
	}
	if op == token.DIV {
		return value.NewIntValue(lv.Int / rv.Int), value.ScalarType(value.INTEGER), nil
	}
	return value.NewIntValue(lv.Int % rv.Int), value.ScalarType(value.INTEGER), nil
}
