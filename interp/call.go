package interp

import (
	"github.com/virchau13/pcse/ast"
	"github.com/virchau13/pcse/value"
)

// savedSlot is a parameter ID's pre-call (type, value, level) triple,
// captured so it can be restored verbatim once the call returns.
type savedSlot struct {
	id    int64
	typ   value.EType
	val   value.EValue
	level int32
}

// callFunction implements the full invocation protocol from the
// interpreter's function-call design: type-check arguments, swap each
// parameter ID into the new call frame, run the body, then restore
// every parameter ID's prior binding whether the call returned
// normally or failed.
func (it *Interp) callFunction(id int64, name string, argExprs []ast.Expr) (value.EValue, value.EType, bool, error) {
	f, ok := it.Env.LookupFunc(id)
	if !ok {
		return value.EValue{}, value.EType{}, false, runtimeErrorf("call to undefined function %q", name)
	}
	if len(argExprs) != len(f.ParamIds) {
		return value.EValue{}, value.EType{}, false, typeErrorf("%q expects %d argument(s), got %d", name, len(f.ParamIds), len(argExprs))
	}

	argVals := make([]value.EValue, len(argExprs))
	for i, ae := range argExprs {
		v, t, err := it.evalExpr(ae)
		if err != nil {
			return value.EValue{}, value.EType{}, false, err
		}
		cv, err := coerce(v, t, f.ParamTypes[i])
		if err != nil {
			return value.EValue{}, value.EType{}, false, err
		}
		argVals[i] = cv
	}

	if f.Kind == BuiltinFunc {
		ret, err := f.Builtin(argVals)
		if err != nil {
			return value.EValue{}, value.EType{}, false, runtimeErrorf("%v", err)
		}
		return ret, f.ReturnType, f.HasReturn, nil
	}

	saved := make([]savedSlot, len(f.ParamIds))
	for i, pid := range f.ParamIds {
		saved[i] = savedSlot{id: pid, typ: it.Env.types[pid], val: it.Env.values[pid], level: it.Env.callLevels[pid]}
	}

	it.Env.EnterCall()
	frame := it.Env.CallNumber()

	var callErr error
	for i, pid := range f.ParamIds {
		it.Env.DeleteVar(pid)
		if err := it.Env.CopyVar(argVals[i], f.ParamTypes[i], frame, pid); err != nil {
			callErr = err
			break
		}
	}

	var res execResult
	if callErr == nil {
		res, callErr = it.execBlock(f.Body)
	}

	var retVal value.EValue
	if callErr == nil {
		if f.HasReturn {
			if !res.returning {
				callErr = typeErrorf("function %q didn't return", name)
			} else {
				retVal, callErr = coerce(res.value, res.typ, f.ReturnType)
			}
		}
	}

	it.Env.ExitCall()
	for _, s := range saved {
		it.Env.DeleteVar(s.id)
		if s.typ.Elem != value.INVALID {
			it.Env.InitVarWithValue(s.id, s.level, s.typ, s.val)
		}
	}

	if callErr != nil {
		return value.EValue{}, value.EType{}, false, callErr
	}
	return retVal, f.ReturnType, f.HasReturn, nil
}
