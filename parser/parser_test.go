package parser

import (
	"testing"

	"github.com/virchau13/pcse/ast"
	"github.com/virchau13/pcse/lexer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, _, _, err := lexer.New([]byte(src)).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := New(toks).ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog
}

func TestParsePrecedence(t *testing.T) {
	prog := parse(t, "OUTPUT 2 + 3 * 4")
	if len(prog.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Stmts))
	}
	out, ok := prog.Stmts[0].(*ast.OutputStmt)
	if !ok {
		t.Fatalf("expected OutputStmt, got %T", prog.Stmts[0])
	}
	bin, ok := out.Values[0].(*ast.BinExpr)
	if !ok {
		t.Fatalf("expected top-level BinExpr (+), got %T", out.Values[0])
	}
	if _, ok := bin.Right.(*ast.BinExpr); !ok {
		t.Fatalf("expected right operand of + to be the tighter * expression, got %T", bin.Right)
	}
}

func TestParseDeclareArray(t *testing.T) {
	prog := parse(t, "DECLARE a: ARRAY[1:3] OF INTEGER")
	decl, ok := prog.Stmts[0].(*ast.DeclareStmt)
	if !ok {
		t.Fatalf("expected DeclareStmt, got %T", prog.Stmts[0])
	}
	arr, ok := decl.Type.(*ast.ArrayType)
	if !ok {
		t.Fatalf("expected ArrayType, got %T", decl.Type)
	}
	if _, ok := arr.Elem.(*ast.PrimitiveType); !ok {
		t.Fatalf("expected primitive element type, got %T", arr.Elem)
	}
}

func TestParseIfElse(t *testing.T) {
	prog := parse(t, `IF 2 > 3 THEN OUTPUT "a" ELSE OUTPUT "b" ENDIF`)
	ifs, ok := prog.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", prog.Stmts[0])
	}
	if len(ifs.Then.Stmts) != 1 || ifs.Else == nil || len(ifs.Else.Stmts) != 1 {
		t.Fatalf("expected exactly one statement in each branch: %+v", ifs)
	}
}

func TestParseFunctionWithReturn(t *testing.T) {
	prog := parse(t, "FUNCTION sq(x: INTEGER) RETURNS INTEGER\nRETURN x * x\nENDFUNCTION")
	fn, ok := prog.Stmts[0].(*ast.FunctionStmt)
	if !ok {
		t.Fatalf("expected FunctionStmt, got %T", prog.Stmts[0])
	}
	if len(fn.Params) != 1 || fn.Params[0].Name != "x" {
		t.Fatalf("unexpected params: %+v", fn.Params)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected exactly one statement in body, got %d", len(fn.Body.Stmts))
	}
	if _, ok := fn.Body.Stmts[0].(*ast.ReturnStmt); !ok {
		t.Fatalf("expected ReturnStmt, got %T", fn.Body.Stmts[0])
	}
}

func TestParseReturnOutsideFunctionIsError(t *testing.T) {
	toks, _, _, err := lexer.New([]byte("RETURN 1")).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if _, err := New(toks).ParseProgram(); err == nil {
		t.Fatal("expected a ParseError for RETURN outside a function")
	}
}

func TestParseForLoop(t *testing.T) {
	prog := parse(t, "FOR i <- 1 TO 3\nOUTPUT i\nNEXT")
	forStmt, ok := prog.Stmts[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("expected ForStmt, got %T", prog.Stmts[0])
	}
	if forStmt.Step != nil {
		t.Fatalf("expected no STEP expression, got %v", forStmt.Step)
	}
	if len(forStmt.Body.Stmts) != 1 {
		t.Fatalf("expected exactly one body statement, got %d", len(forStmt.Body.Stmts))
	}
}

func TestParseArrayIndexLValue(t *testing.T) {
	prog := parse(t, "a[2] <- 7")
	assign, ok := prog.Stmts[0].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("expected AssignStmt, got %T", prog.Stmts[0])
	}
	if len(assign.Target.Indices) != 1 {
		t.Fatalf("expected one index, got %d", len(assign.Target.Indices))
	}
}

func TestParseUnterminatedExpressionIsParseError(t *testing.T) {
	toks, _, _, err := lexer.New([]byte("OUTPUT 1 +")).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if _, err := New(toks).ParseProgram(); err == nil {
		t.Fatal("expected a ParseError for a dangling +")
	}
}
