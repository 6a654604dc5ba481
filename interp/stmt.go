package interp

import (
	"strconv"
	"strings"

	"github.com/virchau13/pcse/ast"
	"github.com/virchau13/pcse/token"
	"github.com/virchau13/pcse/value"
)

// execResult is a Block's outcome: either it ran to completion, or it
// hit a RETURN (directly, or propagated up through a nested IF/FOR/
// WHILE/REPEAT/CASE) and is carrying the returned value up to the call
// site, mechanically equivalent to the {completed, returning(value)}
// result variant the design notes describe.
type execResult struct {
	returning bool
	value     value.EValue
	typ       value.EType
}

// execBlock runs a Block's statements in order, stopping and
// propagating the moment a RETURN is encountered or a nested
// compound statement reports one.
func (it *Interp) execBlock(b *ast.Block) (execResult, error) {
	for _, s := range b.Stmts {
		if ret, ok := s.(*ast.ReturnStmt); ok {
			v, t, err := it.evalExpr(ret.Value)
			if err != nil {
				return execResult{}, err
			}
			return execResult{returning: true, value: v, typ: t}, nil
		}
		res, err := it.execStmt(s)
		if err != nil {
			return execResult{}, err
		}
		if res.returning {
			return res, nil
		}
	}
	return execResult{}, nil
}

// execStmt dispatches every statement form. DECLARE/CONSTANT/
// PROCEDURE/FUNCTION only ever appear at Program top level by
// construction of the parser, so a single dispatcher here safely
// covers both top-level and inner statements.
func (it *Interp) execStmt(s ast.Stmt) (execResult, error) {
	switch st := s.(type) {
	case *ast.DeclareStmt:
		return execResult{}, it.execDeclare(st)
	case *ast.ConstantStmt:
		return execResult{}, it.execConstant(st)
	case *ast.ProcedureStmt:
		return execResult{}, it.execProcedureDecl(st)
	case *ast.FunctionStmt:
		return execResult{}, it.execFunctionDecl(st)
	case *ast.AssignStmt:
		return execResult{}, it.execAssign(st)
	case *ast.InputStmt:
		return execResult{}, it.execInput(st)
	case *ast.OutputStmt:
		return execResult{}, it.execOutput(st)
	case *ast.IfStmt:
		return it.execIf(st)
	case *ast.CaseStmt:
		return it.execCase(st)
	case *ast.ForStmt:
		return it.execFor(st)
	case *ast.RepeatStmt:
		return it.execRepeat(st)
	case *ast.WhileStmt:
		return it.execWhile(st)
	case *ast.CallStmt:
		_, _, _, err := it.callFunction(st.Id, st.Name, st.Args)
		return execResult{}, err
	case *ast.ReturnStmt:
		// Only reached if a RETURN shows up somewhere execBlock didn't
		// already intercept it (it never does); kept for completeness.
		v, t, err := it.evalExpr(st.Value)
		if err != nil {
			return execResult{}, err
		}
		return execResult{returning: true, value: v, typ: t}, nil
	default:
		return execResult{}, typeErrorf("unknown statement node %T", s)
	}
}

func (it *Interp) execDeclare(st *ast.DeclareStmt) error {
	t, err := it.elaborateType(st.Type)
	if err != nil {
		return err
	}
	return it.Env.InitVar(st.Id, GlobalLevel, t)
}

func (it *Interp) execConstant(st *ast.ConstantStmt) error {
	v, t, err := it.evalExpr(st.Value)
	if err != nil {
		return err
	}
	return it.Env.InitVarWithValue(st.Id, GlobalLevel, t, v)
}

func (it *Interp) execProcedureDecl(st *ast.ProcedureStmt) error {
	rec, err := it.buildFuncRecord(st.Name, st.Params, nil, st.Body)
	if err != nil {
		return err
	}
	return it.Env.DefineFunc(st.Id, rec)
}

func (it *Interp) execFunctionDecl(st *ast.FunctionStmt) error {
	rec, err := it.buildFuncRecord(st.Name, st.Params, st.ReturnType, st.Body)
	if err != nil {
		return err
	}
	return it.Env.DefineFunc(st.Id, rec)
}

// buildFuncRecord resolves parameter and return types against the
// current (definition-time) environment and records them in a
// FuncRecord. retType is nil for a PROCEDURE.
func (it *Interp) buildFuncRecord(name string, params []ast.Param, retType ast.Type, body *ast.Block) (*FuncRecord, error) {
	rec := &FuncRecord{Name: name, Kind: RuntimeFunc, Body: body}
	for _, p := range params {
		if p.ByRef {
			return nil, runtimeErrorf("BYREF is not supported")
		}
		t, err := it.elaborateType(p.Type)
		if err != nil {
			return nil, err
		}
		rec.ParamIds = append(rec.ParamIds, p.Id)
		rec.ParamTypes = append(rec.ParamTypes, t)
		rec.ByRef = append(rec.ByRef, p.ByRef)
	}
	if retType != nil {
		t, err := it.elaborateType(retType)
		if err != nil {
			return nil, err
		}
		rec.HasReturn = true
		rec.ReturnType = t
	}
	return rec, nil
}

func (it *Interp) execAssign(st *ast.AssignStmt) error {
	c, err := it.resolveLValue(st.Target)
	if err != nil {
		return err
	}
	v, t, err := it.evalExpr(st.Value)
	if err != nil {
		return err
	}
	cv, err := coerce(v, t, c.typ)
	if err != nil {
		return err
	}
	c.set(cv)
	return nil
}

func (it *Interp) execInput(st *ast.InputStmt) error {
	c, err := it.resolveLValue(st.Target)
	if err != nil {
		return err
	}
	if c.typ.IsArray {
		return typeErrorf("cannot INPUT into an array")
	}
	line, err := it.Env.In.ReadString('\n')
	if err != nil && line == "" {
		return runtimeErrorf("input exhausted")
	}
	line = strings.TrimRight(line, "\r\n")
	v, err := parseInput(line, c.typ.Elem)
	if err != nil {
		return err
	}
	c.set(v)
	return nil
}

func parseInput(line string, p value.Primitive) (value.EValue, error) {
	switch p {
	case value.INTEGER:
		n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err != nil {
			return value.EValue{}, runtimeErrorf("invalid INTEGER input %q", line)
		}
		return value.NewIntValue(n), nil
	case value.REAL:
		trimmed := strings.TrimSpace(line)
		intPart, fracPart, ok := strings.Cut(trimmed, ".")
		if !ok {
			intPart = trimmed
		}
		if strings.Count(trimmed, ".") > 1 {
			return value.EValue{}, runtimeErrorf("invalid REAL input %q", line)
		}
		f, err := value.FromDigits(intPart, fracPart)
		if err != nil {
			return value.EValue{}, runtimeErrorf("invalid REAL input %q", line)
		}
		return value.NewRealValue(f), nil
	case value.BOOLEAN:
		switch strings.TrimSpace(line) {
		case "TRUE":
			return value.NewBoolValue(true), nil
		case "FALSE":
			return value.NewBoolValue(false), nil
		default:
			return value.EValue{}, runtimeErrorf("invalid BOOLEAN input %q", line)
		}
	case value.CHAR:
		if len(line) == 0 {
			return value.EValue{}, runtimeErrorf("invalid CHAR input: empty line")
		}
		return value.NewCharValue(line[0]), nil
	case value.DATE:
		parts := strings.Split(strings.TrimSpace(line), "/")
		if len(parts) != 3 {
			return value.EValue{}, runtimeErrorf("invalid DATE input %q", line)
		}
		d, m, y := parts[0], parts[1], parts[2]
		day, err1 := strconv.ParseUint(d, 10, 8)
		month, err2 := strconv.ParseUint(m, 10, 8)
		year, err3 := strconv.ParseUint(y, 10, 16)
		if err1 != nil || err2 != nil || err3 != nil {
			return value.EValue{}, runtimeErrorf("invalid DATE input %q", line)
		}
		date, err := value.NewDate(uint8(day), uint8(month), uint16(year))
		if err != nil {
			return value.EValue{}, runtimeErrorf("invalid DATE input %q: %v", line, err)
		}
		return value.NewDateValue(date), nil
	case value.STRING:
		return value.NewStringValue(line), nil
	default:
		return value.EValue{}, typeErrorf("cannot INPUT into type %s", p)
	}
}

func (it *Interp) execOutput(st *ast.OutputStmt) error {
	var b strings.Builder
	for _, e := range st.Values {
		v, t, err := it.evalExpr(e)
		if err != nil {
			return err
		}
		s, err := formatOutput(v, t)
		if err != nil {
			return err
		}
		b.WriteString(s)
	}
	b.WriteByte('\n')
	_, err := it.Env.Out.WriteString(b.String())
	return err
}

func formatOutput(v value.EValue, t value.EType) (string, error) {
	if t.IsArray {
		return "", typeErrorf("cannot output an array")
	}
	switch t.Elem {
	case value.INTEGER:
		return strconv.FormatInt(v.Int, 10), nil
	case value.REAL:
		return strconv.FormatFloat(v.Frac.ToFloat64(), 'g', -1, 64), nil
	case value.BOOLEAN:
		if v.Bool {
			return "TRUE", nil
		}
		return "FALSE", nil
	case value.CHAR:
		return string(v.Char), nil
	case value.STRING:
		return v.Str, nil
	case value.DATE:
		return v.Date.String(), nil
	default:
		return "", typeErrorf("cannot output value of type %s", t)
	}
}

func (it *Interp) execIf(st *ast.IfStmt) (execResult, error) {
	cond, ct, err := it.evalExpr(st.Cond)
	if err != nil {
		return execResult{}, err
	}
	if ct.IsArray || ct.Elem != value.BOOLEAN {
		return execResult{}, typeErrorf("IF condition must be BOOLEAN")
	}
	if cond.Bool {
		return it.execBlock(st.Then)
	}
	if st.Else != nil {
		return it.execBlock(st.Else)
	}
	return execResult{}, nil
}

func (it *Interp) execCase(st *ast.CaseStmt) (execResult, error) {
	selCell, err := it.resolveLValue(st.Selector)
	if err != nil {
		return execResult{}, err
	}
	if selCell.typ.IsArray {
		return execResult{}, typeErrorf("CASE selector cannot be an array")
	}
	selVal := selCell.get()
	for _, br := range st.Branches {
		cv, ct, err := it.evalExpr(br.Value)
		if err != nil {
			return execResult{}, err
		}
		if ct.IsArray {
			return execResult{}, typeErrorf("CASE expression cannot be an array")
		}
		matched, _, err := evalComparison(token.EQ, selVal, selCell.typ, cv, ct)
		if err != nil {
			return execResult{}, err
		}
		if matched.Bool {
			return it.execBlock(br.Body)
		}
	}
	if st.Otherwise != nil {
		return it.execBlock(st.Otherwise)
	}
	return execResult{}, nil
}

func (it *Interp) execFor(st *ast.ForStmt) (execResult, error) {
	fromVal, fromType, err := it.evalExpr(st.From)
	if err != nil {
		return execResult{}, err
	}
	toVal, toType, err := it.evalExpr(st.To)
	if err != nil {
		return execResult{}, err
	}
	var stepVal value.EValue
	stepType := value.ScalarType(value.INTEGER)
	stepVal = value.NewIntValue(1)
	if st.Step != nil {
		stepVal, stepType, err = it.evalExpr(st.Step)
		if err != nil {
			return execResult{}, err
		}
	}
	for _, t := range []value.EType{fromType, toType, stepType} {
		if t.IsArray || (t.Elem != value.INTEGER && t.Elem != value.REAL) {
			return execResult{}, typeErrorf("FOR bounds must be INTEGER or REAL")
		}
	}
	isReal := fromType.Elem == value.REAL || toType.Elem == value.REAL || stepType.Elem == value.REAL
	loopType := value.ScalarType(value.INTEGER)
	if isReal {
		loopType = value.ScalarType(value.REAL)
	}

	fromF, err := toFraction(fromVal, fromType)
	if err != nil {
		return execResult{}, runtimeErrorf("FOR bound out of range: %v", err)
	}
	toF, err := toFraction(toVal, toType)
	if err != nil {
		return execResult{}, runtimeErrorf("FOR bound out of range: %v", err)
	}
	stepF, err := toFraction(stepVal, stepType)
	if err != nil {
		return execResult{}, runtimeErrorf("FOR step out of range: %v", err)
	}
	ascending := fromF.Cmp(toF) <= 0

	savedType := it.Env.types[st.Id]
	savedVal := it.Env.values[st.Id]
	savedLevel := it.Env.callLevels[st.Id]
	it.Env.DeleteVar(st.Id)

	var loopVal value.EValue
	if isReal {
		loopVal = value.NewRealValue(fromF)
	} else {
		loopVal = value.NewIntValue(fromF.ToInt())
	}
	frame := it.Env.CallNumber()
	var result execResult
	var loopErr error
	for {
		if err := it.Env.CopyVar(loopVal, loopType, frame, st.Id); err != nil {
			loopErr = err
			break
		}
		curF, err := toFraction(loopVal, loopType)
		if err != nil {
			loopErr = runtimeErrorf("FOR loop variable out of range: %v", err)
			break
		}
		if ascending {
			if curF.Cmp(toF) > 0 {
				it.Env.DeleteVar(st.Id)
				break
			}
		} else {
			if curF.Cmp(toF) < 0 {
				it.Env.DeleteVar(st.Id)
				break
			}
		}
		result, loopErr = it.execBlock(st.Body)
		it.Env.DeleteVar(st.Id)
		if loopErr != nil || result.returning {
			break
		}
		nextF, err := curF.Add(stepF)
		if err != nil {
			loopErr = runtimeErrorf("%v", err)
			break
		}
		if isReal {
			loopVal = value.NewRealValue(nextF)
		} else {
			loopVal = value.NewIntValue(nextF.ToInt())
		}
	}

	if savedType.Elem != value.INVALID {
		it.Env.InitVarWithValue(st.Id, savedLevel, savedType, savedVal)
	}
	if loopErr != nil {
		return execResult{}, loopErr
	}
	return result, nil
}

func (it *Interp) execRepeat(st *ast.RepeatStmt) (execResult, error) {
	for {
		res, err := it.execBlock(st.Body)
		if err != nil || res.returning {
			return res, err
		}
		cond, ct, err := it.evalExpr(st.Cond)
		if err != nil {
			return execResult{}, err
		}
		if ct.IsArray || ct.Elem != value.BOOLEAN {
			return execResult{}, typeErrorf("REPEAT UNTIL condition must be BOOLEAN")
		}
		if cond.Bool {
			return execResult{}, nil
		}
	}
}

func (it *Interp) execWhile(st *ast.WhileStmt) (execResult, error) {
	for {
		cond, ct, err := it.evalExpr(st.Cond)
		if err != nil {
			return execResult{}, err
		}
		if ct.IsArray || ct.Elem != value.BOOLEAN {
			return execResult{}, typeErrorf("WHILE condition must be BOOLEAN")
		}
		if !cond.Bool {
			return execResult{}, nil
		}
		res, err := it.execBlock(st.Body)
		if err != nil || res.returning {
			return res, err
		}
	}
}
