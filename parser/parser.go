// Package parser implements a single-pass, LL(1) recursive-descent
// parser with precedence climbing for binary expressions, turning a
// token stream into a Program AST.
package parser

import (
	"fmt"

	"github.com/virchau13/pcse/ast"
	"github.com/virchau13/pcse/token"
	"github.com/virchau13/pcse/value"
)

// ParseError carries the offending token and a message.
type ParseError struct {
	Tok token.Token
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (got %s %q at line %d, col %d)", e.Msg, e.Tok.Kind, e.Tok.Lexeme, e.Tok.Line, e.Tok.Col)
}

// maxParams is the ParamList cap the spec requires the parser to enforce.
const maxParams = 64

// Parser consumes a token stream produced by lexer.Scan and builds a
// Program AST.
type Parser struct {
	tokens  []token.Token
	current int
}

// New constructs a Parser over tokens, which must end with the INVALID
// end-of-stream sentinel the lexer always appends.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ---- cursor API ----

func (p *Parser) peek() token.Token {
	if p.current >= len(p.tokens) {
		return token.Token{Kind: token.INVALID}
	}
	return p.tokens[p.current]
}

func (p *Parser) isAtEnd() bool { return p.peek().Kind == token.INVALID }

func (p *Parser) next() token.Token {
	t := p.peek()
	if !p.isAtEnd() {
		p.current++
	}
	return t
}

func (p *Parser) check(kind token.Kind) bool { return p.peek().Kind == kind }

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.next()
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	if p.check(kind) {
		return p.next(), nil
	}
	return token.Token{}, &ParseError{p.peek(), fmt.Sprintf("expected %s", kind)}
}

func (p *Parser) expectIdentifier() (token.Token, error) {
	return p.expect(token.IDENTIFIER)
}

// ---- entry point ----

// ParseProgram parses the whole token stream as a sequence of
// top-level statements.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for !p.isAtEnd() {
		stmt, err := p.topLevelStmt()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	return prog, nil
}

// ---- top-level statements ----

func (p *Parser) topLevelStmt() (ast.Stmt, error) {
	switch p.peek().Kind {
	case token.DECLARE:
		return p.declareStmt()
	case token.CONSTANT:
		return p.constantStmt()
	case token.PROCEDURE:
		return p.procedureStmt()
	case token.FUNCTION:
		return p.functionStmt()
	default:
		return p.innerStmt(false)
	}
}

func (p *Parser) declareStmt() (ast.Stmt, error) {
	p.next() // DECLARE
	id, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &ast.DeclareStmt{Id: id.Literal.Int, Name: id.Lexeme, Type: ty}, nil
}

func (p *Parser) constantStmt() (ast.Stmt, error) {
	p.next() // CONSTANT
	id, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EQ); err != nil {
		return nil, err
	}
	val, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.ConstantStmt{Id: id.Literal.Int, Name: id.Lexeme, Value: val}, nil
}

func (p *Parser) procedureStmt() (ast.Stmt, error) {
	p.next() // PROCEDURE
	id, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	params, err := p.optionalParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(false)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ENDPROCEDURE); err != nil {
		return nil, err
	}
	return &ast.ProcedureStmt{Id: id.Literal.Int, Name: id.Lexeme, Params: params, Body: body}, nil
}

func (p *Parser) functionStmt() (ast.Stmt, error) {
	p.next() // FUNCTION
	id, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	params, err := p.optionalParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RETURNS); err != nil {
		return nil, err
	}
	retType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(true)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ENDFUNCTION); err != nil {
		return nil, err
	}
	return &ast.FunctionStmt{Id: id.Literal.Int, Name: id.Lexeme, Params: params, ReturnType: retType, Body: body}, nil
}

func (p *Parser) optionalParamList() ([]ast.Param, error) {
	if !p.match(token.LEFT_PAREN) {
		return nil, nil
	}
	var params []ast.Param
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxParams {
				return nil, &ParseError{p.peek(), "too many parameters (max 64)"}
			}
			byref := p.match(token.BYREF)
			id, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.COLON); err != nil {
				return nil, err
			}
			ty, err := p.parseType()
			if err != nil {
				return nil, err
			}
			params = append(params, ast.Param{ByRef: byref, Id: id.Literal.Int, Name: id.Lexeme, Type: ty})
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(token.RIGHT_PAREN); err != nil {
		return nil, err
	}
	return params, nil
}

// parseType parses a type keyword or a recursive ARRAY[lo:hi] OF Type.
func (p *Parser) parseType() (ast.Type, error) {
	if p.match(token.ARRAY) {
		if _, err := p.expect(token.LEFT_SQ); err != nil {
			return nil, err
		}
		lo, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		hi, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RIGHT_SQ); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.OF); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.ArrayType{Lo: lo, Hi: hi, Elem: elem}, nil
	}
	if token.TypeKeywords[p.peek().Kind] {
		t := p.next()
		return &ast.PrimitiveType{Kind: t.Kind}, nil
	}
	return nil, &ParseError{p.peek(), "expected a type"}
}

// ---- blocks & inner statements ----

func (p *Parser) isValidInnerStmtStart(allowReturn bool) bool {
	switch p.peek().Kind {
	case token.IDENTIFIER, token.INPUT, token.OUTPUT, token.IF, token.CASE,
		token.FOR, token.REPEAT, token.WHILE, token.CALL:
		return true
	case token.RETURN:
		return allowReturn
	default:
		return false
	}
}

func (p *Parser) parseBlock(allowReturn bool) (*ast.Block, error) {
	b := &ast.Block{AllowReturn: allowReturn}
	for p.isValidInnerStmtStart(allowReturn) {
		stmt, err := p.innerStmt(allowReturn)
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, stmt)
	}
	return b, nil
}

func (p *Parser) innerStmt(allowReturn bool) (ast.Stmt, error) {
	switch p.peek().Kind {
	case token.IDENTIFIER:
		return p.assignStmt()
	case token.INPUT:
		return p.inputStmt()
	case token.OUTPUT:
		return p.outputStmt()
	case token.IF:
		return p.ifStmt(allowReturn)
	case token.CASE:
		return p.caseStmt(allowReturn)
	case token.FOR:
		return p.forStmt(allowReturn)
	case token.REPEAT:
		return p.repeatStmt(allowReturn)
	case token.WHILE:
		return p.whileStmt(allowReturn)
	case token.CALL:
		return p.callStmt()
	case token.RETURN:
		if !allowReturn {
			return nil, &ParseError{p.peek(), "RETURN is only valid inside a FUNCTION"}
		}
		return p.returnStmt()
	default:
		return nil, &ParseError{p.peek(), "expected a statement"}
	}
}

func (p *Parser) lvalue() (*ast.LValue, error) {
	id, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	lv := &ast.LValue{Id: id.Literal.Int, Name: id.Lexeme}
	for p.match(token.LEFT_SQ) {
		idx, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RIGHT_SQ); err != nil {
			return nil, err
		}
		lv.Indices = append(lv.Indices, idx)
	}
	return lv, nil
}

func (p *Parser) assignStmt() (ast.Stmt, error) {
	target, err := p.lvalue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	val, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.AssignStmt{Target: target, Value: val}, nil
}

func (p *Parser) inputStmt() (ast.Stmt, error) {
	p.next() // INPUT
	target, err := p.lvalue()
	if err != nil {
		return nil, err
	}
	return &ast.InputStmt{Target: target}, nil
}

func (p *Parser) outputStmt() (ast.Stmt, error) {
	p.next() // OUTPUT
	first, err := p.expression()
	if err != nil {
		return nil, err
	}
	values := []ast.Expr{first}
	for p.match(token.COMMA) {
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return &ast.OutputStmt{Values: values}, nil
}

func (p *Parser) ifStmt(allowReturn bool) (ast.Stmt, error) {
	p.next() // IF
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.THEN); err != nil {
		return nil, err
	}
	then, err := p.parseBlock(allowReturn)
	if err != nil {
		return nil, err
	}
	var els *ast.Block
	if p.match(token.ELSE) {
		els, err = p.parseBlock(allowReturn)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.ENDIF); err != nil {
		return nil, err
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) caseStmt(allowReturn bool) (ast.Stmt, error) {
	p.next() // CASE
	if _, err := p.expect(token.OF); err != nil {
		return nil, err
	}
	selector, err := p.lvalue()
	if err != nil {
		return nil, err
	}
	stmt := &ast.CaseStmt{Selector: selector}
	for !p.check(token.OTHERWISE) && !p.check(token.ENDCASE) {
		val, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		body, err := p.parseBlock(allowReturn)
		if err != nil {
			return nil, err
		}
		stmt.Branches = append(stmt.Branches, ast.CaseBranch{Value: val, Body: body})
	}
	if p.match(token.OTHERWISE) {
		body, err := p.parseBlock(allowReturn)
		if err != nil {
			return nil, err
		}
		stmt.Otherwise = body
	}
	if _, err := p.expect(token.ENDCASE); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) forStmt(allowReturn bool) (ast.Stmt, error) {
	p.next() // FOR
	id, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	from, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.TO); err != nil {
		return nil, err
	}
	to, err := p.expression()
	if err != nil {
		return nil, err
	}
	var step ast.Expr
	if p.match(token.STEP) {
		step, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock(allowReturn)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.NEXT); err != nil {
		return nil, err
	}
	return &ast.ForStmt{Id: id.Literal.Int, Name: id.Lexeme, From: from, To: to, Step: step, Body: body}, nil
}

func (p *Parser) repeatStmt(allowReturn bool) (ast.Stmt, error) {
	p.next() // REPEAT
	body, err := p.parseBlock(allowReturn)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.UNTIL); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.RepeatStmt{Body: body, Cond: cond}, nil
}

func (p *Parser) whileStmt(allowReturn bool) (ast.Stmt, error) {
	p.next() // WHILE
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DO); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(allowReturn)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ENDWHILE); err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Body: body}, nil
}

func (p *Parser) callStmt() (ast.Stmt, error) {
	p.next() // CALL
	id, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	args, err := p.optionalArgList()
	if err != nil {
		return nil, err
	}
	return &ast.CallStmt{Id: id.Literal.Int, Name: id.Lexeme, Args: args}, nil
}

func (p *Parser) returnStmt() (ast.Stmt, error) {
	p.next() // RETURN
	val, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Value: val}, nil
}

func (p *Parser) optionalArgList() ([]ast.Expr, error) {
	if !p.match(token.LEFT_PAREN) {
		return nil, nil
	}
	var args []ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(token.RIGHT_PAREN); err != nil {
		return nil, err
	}
	return args, nil
}

// ---- expressions: precedence climbing over tiers 0..4 ----

var tierOps = [5][]token.Kind{
	{token.OR},
	{token.AND},
	{token.EQ, token.LT_GT, token.LT, token.LT_EQ, token.GT, token.GT_EQ},
	{token.PLUS, token.MINUS},
	{token.STAR, token.SLASH, token.MOD, token.DIV},
}

func (p *Parser) expression() (ast.Expr, error) { return p.binExpr(0) }

// binExpr parses tier `level`'s left-associative operator chain, with
// tier 4 bottoming out at a UnaryExpr and every other tier bottoming
// out at the next tighter tier.
func (p *Parser) binExpr(level int) (ast.Expr, error) {
	var left ast.Expr
	var err error
	if level == 4 {
		left, err = p.unary()
	} else {
		left, err = p.binExpr(level + 1)
	}
	if err != nil {
		return nil, err
	}
	for p.match(tierOps[level]...) {
		op := p.tokens[p.current-1].Kind
		var right ast.Expr
		if level == 4 {
			right, err = p.unary()
		} else {
			right, err = p.binExpr(level + 1)
		}
		if err != nil {
			return nil, err
		}
		left = &ast.BinExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.check(token.NOT) || p.check(token.MINUS) {
		op := p.next()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op.Kind, Operand: operand}, nil
	}
	return p.primary()
}

func (p *Parser) primary() (ast.Expr, error) {
	t := p.peek()
	switch t.Kind {
	case token.INT:
		p.next()
		return &ast.IntLit{Value: t.Literal.Int}, nil
	case token.REAL:
		p.next()
		f, err := value.NewFraction(t.Literal.Frac[0], t.Literal.Frac[1])
		if err != nil {
			return nil, &ParseError{t, "invalid REAL literal"}
		}
		return &ast.RealLit{Value: f}, nil
	case token.STRING:
		p.next()
		return &ast.StringLit{Value: t.Literal.Str}, nil
	case token.CHAR:
		p.next()
		return &ast.CharLit{Value: t.Literal.Char}, nil
	case token.DATE:
		p.next()
		d, err := value.NewDate(t.Literal.Day, t.Literal.Month, t.Literal.Year)
		if err != nil {
			return nil, &ParseError{t, "invalid DATE literal"}
		}
		return &ast.DateLit{Value: d}, nil
	case token.TRUE:
		p.next()
		return &ast.BoolLit{Value: true}, nil
	case token.FALSE:
		p.next()
		return &ast.BoolLit{Value: false}, nil
	case token.IDENTIFIER:
		if p.tokens[p.current+1].Kind == token.LEFT_PAREN {
			p.next()
			args, err := p.optionalArgList()
			if err != nil {
				return nil, err
			}
			return &ast.CallExpr{Id: t.Literal.Int, Name: t.Lexeme, Args: args}, nil
		}
		return p.lvalue()
	case token.LEFT_PAREN:
		p.next()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RIGHT_PAREN); err != nil {
			return nil, err
		}
		return &ast.Grouping{Inner: inner}, nil
	default:
		return nil, &ParseError{t, "expected an expression"}
	}
}
