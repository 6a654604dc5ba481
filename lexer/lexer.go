// Package lexer turns pseudocode source text into a token stream,
// interning identifiers, recognising rational and date literals, and
// tracking line/column positions for diagnostics.
package lexer

import (
	"fmt"
	"strconv"

	"github.com/virchau13/pcse/token"
	"github.com/virchau13/pcse/value"
)

// LexError is raised for any malformed lexeme: a stray byte, an
// unterminated string, an overflowing number, a trailing letter after
// a numeric literal, or an invalid date triple.
type LexError struct {
	Line, Col int
	Msg       string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s (line %d, col %d)", e.Msg, e.Line, e.Col)
}

// Lexer scans a single source buffer into tokens.
type Lexer struct {
	src     []byte
	start   int
	current int
	line    int
	col     int // column of src[current], the next byte to scan

	lineOffsets []int

	tokens []token.Token

	idNum     map[string]int64
	nextID    int64

	dateStage int
}

// New constructs a Lexer over src, ready to Scan.
func New(src []byte) *Lexer {
	return &Lexer{
		src:    src,
		line:   1,
		col:    1,
		idNum:  make(map[string]int64),
		nextID: 1,
	}
}

// Scan runs the lexer to completion, returning the full token stream
// (terminated by a single INVALID end-of-stream sentinel), the
// lexeme-to-ID interning table, and the number of distinct identifiers
// interned.
func (l *Lexer) Scan() ([]token.Token, map[string]int64, int64, error) {
	for !l.isAtEnd() {
		l.start = l.current
		if err := l.scanToken(); err != nil {
			return nil, nil, 0, err
		}
	}
	l.emit(token.INVALID, "")
	return l.tokens, l.idNum, l.nextID - 1, nil
}

// LineOffsets returns, for each newline seen, the byte offset just past
// it (the start of the following line), for external column-recovery
// tooling.
func (l *Lexer) LineOffsets() []int { return l.lineOffsets }

func (l *Lexer) isAtEnd() bool { return l.current >= len(l.src) }

func (l *Lexer) advance() byte {
	b := l.src[l.current]
	l.current++
	return b
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.src[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.src) {
		return 0
	}
	return l.src[l.current+1]
}

func (l *Lexer) match(b byte) bool {
	if l.isAtEnd() || l.src[l.current] != b {
		return false
	}
	l.current++
	return true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isAlphaNumeric(b byte) bool { return isAlpha(b) || isDigit(b) }

func (l *Lexer) scanToken() error {
	startLine, startCol := l.line, l.col
	b := l.advance()
	switch b {
	case ' ', '\t', '\r':
		l.col++
		return nil
	case '\n':
		l.lineOffsets = append(l.lineOffsets, l.current)
		l.line++
		l.col = 1
		return nil
	case '(':
		l.emitPos(token.LEFT_PAREN, startLine, startCol)
	case ')':
		l.emitPos(token.RIGHT_PAREN, startLine, startCol)
	case '[':
		l.emitPos(token.LEFT_SQ, startLine, startCol)
	case ']':
		l.emitPos(token.RIGHT_SQ, startLine, startCol)
	case ',':
		l.emitPos(token.COMMA, startLine, startCol)
	case '+':
		l.emitPos(token.PLUS, startLine, startCol)
	case '-':
		l.emitPos(token.MINUS, startLine, startCol)
	case '*':
		l.emitPos(token.STAR, startLine, startCol)
	case ':':
		l.emitPos(token.COLON, startLine, startCol)
	case '=':
		l.emitPos(token.EQ, startLine, startCol)
	case '/':
		if l.match('/') {
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
			return nil
		}
		l.col++
		l.emitPos(token.SLASH, startLine, startCol)
		return l.afterEmit()
	case '<':
		switch {
		case l.match('='):
			l.col += 2
			l.emitPos(token.LT_EQ, startLine, startCol)
		case l.match('>'):
			l.col += 2
			l.emitPos(token.LT_GT, startLine, startCol)
		case l.match('-'):
			l.col += 2
			l.emitPos(token.ASSIGN, startLine, startCol)
		default:
			l.col++
			l.emitPos(token.LT, startLine, startCol)
		}
		return l.afterEmit()
	case '>':
		if l.match('=') {
			l.col += 2
			l.emitPos(token.GT_EQ, startLine, startCol)
		} else {
			l.col++
			l.emitPos(token.GT, startLine, startCol)
		}
		return l.afterEmit()
	case '\'':
		return l.char(startLine, startCol)
	case '"':
		return l.string(startLine, startCol)
	default:
		switch {
		case isDigit(b):
			return l.number(startLine, startCol)
		case isAlpha(b):
			return l.identifier(startLine, startCol)
		default:
			return &LexError{startLine, startCol, fmt.Sprintf("unexpected byte %q", b)}
		}
	}
	l.col++
	return l.afterEmit()
}

func (l *Lexer) char(startLine, startCol int) error {
	l.col++ // the opening quote
	if l.isAtEnd() {
		return &LexError{startLine, startCol, "unterminated character literal"}
	}
	c := l.advance()
	l.col++
	if l.isAtEnd() || l.peek() != '\'' {
		return &LexError{startLine, startCol, "character literal must contain exactly one byte"}
	}
	l.advance()
	l.col++
	tok := token.Token{Line: startLine, Col: startCol, Kind: token.CHAR, Lexeme: string(l.src[l.start:l.current])}
	tok.Literal.Char = c
	l.tokens = append(l.tokens, tok)
	return l.afterEmit()
}

func (l *Lexer) string(startLine, startCol int) error {
	l.col++ // opening quote
	for {
		if l.isAtEnd() {
			return &LexError{startLine, startCol, "unterminated string literal"}
		}
		if l.peek() == '"' {
			break
		}
		if l.peek() == '\n' {
			l.lineOffsets = append(l.lineOffsets, l.current+1)
			l.line++
			l.col = 0
		}
		l.advance()
		l.col++
	}
	body := string(l.src[l.start+1 : l.current])
	l.advance() // closing quote
	l.col++
	tok := token.Token{Line: startLine, Col: startCol, Kind: token.STRING, Lexeme: string(l.src[l.start:l.current])}
	tok.Literal.Str = body
	l.tokens = append(l.tokens, tok)
	return l.afterEmit()
}

func (l *Lexer) number(startLine, startCol int) error {
	l.col++
	for isDigit(l.peek()) {
		l.advance()
		l.col++
	}
	isReal := false
	intPart := string(l.src[l.start:l.current])
	fracPart := ""
	if l.peek() == '.' && isDigit(l.peekNext()) {
		isReal = true
		l.advance() // '.'
		l.col++
		fracStart := l.current
		for isDigit(l.peek()) {
			l.advance()
			l.col++
		}
		fracPart = string(l.src[fracStart:l.current])
	}
	if isAlpha(l.peek()) {
		return &LexError{startLine, startCol, "trailing letter after numeric literal"}
	}
	lexeme := string(l.src[l.start:l.current])
	tok := token.Token{Line: startLine, Col: startCol, Lexeme: lexeme}
	if isReal {
		f, err := value.FromDigits(intPart, fracPart)
		if err != nil {
			return &LexError{startLine, startCol, "rational literal overflow"}
		}
		tok.Kind = token.REAL
		tok.Literal.Frac = [2]int32{f.Num, f.Den}
	} else {
		n, err := strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return &LexError{startLine, startCol, "integer literal overflow"}
		}
		tok.Kind = token.INT
		tok.Literal.Int = n
	}
	l.tokens = append(l.tokens, tok)
	return l.afterEmit()
}

func (l *Lexer) identifier(startLine, startCol int) error {
	l.col++
	for isAlphaNumeric(l.peek()) {
		l.advance()
		l.col++
	}
	lexeme := string(l.src[l.start:l.current])
	if kind, ok := token.ReservedWords[lexeme]; ok {
		l.tokens = append(l.tokens, token.Token{Line: startLine, Col: startCol, Kind: kind, Lexeme: lexeme})
		return l.afterEmit()
	}
	id, ok := l.idNum[lexeme]
	if !ok {
		id = l.nextID
		l.nextID++
		l.idNum[lexeme] = id
	}
	tok := token.Token{Line: startLine, Col: startCol, Kind: token.IDENTIFIER, Lexeme: lexeme}
	tok.Literal.Int = id
	l.tokens = append(l.tokens, tok)
	return l.afterEmit()
}

// emit appends a zero-payload token at the current scan position.
func (l *Lexer) emit(kind token.Kind, lexeme string) {
	l.tokens = append(l.tokens, token.Token{Line: l.line, Col: l.col, Kind: kind, Lexeme: lexeme})
}

func (l *Lexer) emitPos(kind token.Kind, line, col int) {
	l.tokens = append(l.tokens, token.Token{Line: line, Col: col, Kind: kind, Lexeme: string(l.src[l.start:l.current])})
}

// afterEmit feeds the just-appended token into the date-triple
// recogniser, fusing the last five tokens into one DATE token if the
// pattern INT SLASH INT SLASH INT just completed.
func (l *Lexer) afterEmit() error {
	kind := l.tokens[len(l.tokens)-1].Kind
	switch l.dateStage {
	case 0, 2, 4:
		if kind == token.INT {
			l.dateStage++
		} else {
			l.dateStage = 0
		}
	case 1, 3:
		if kind == token.SLASH {
			l.dateStage++
		} else {
			l.dateStage = 0
			if kind == token.INT {
				l.dateStage = 1
			}
		}
	}
	if l.dateStage == 5 {
		l.dateStage = 0
		return l.fuseDate()
	}
	return nil
}

func (l *Lexer) fuseDate() error {
	n := len(l.tokens)
	dayTok, monthTok, yearTok := l.tokens[n-5], l.tokens[n-3], l.tokens[n-1]
	day, month, year := dayTok.Literal.Int, monthTok.Literal.Int, yearTok.Literal.Int
	if day < 0 || day > 255 || month < 0 || month > 255 || year < 0 || year > 65535 {
		return &LexError{dayTok.Line, dayTok.Col, "invalid date: field out of range"}
	}
	d, err := value.NewDate(uint8(day), uint8(month), uint16(year))
	if err != nil {
		return &LexError{dayTok.Line, dayTok.Col, err.Error()}
	}
	fused := token.Token{
		Line:   dayTok.Line,
		Col:    dayTok.Col,
		Kind:   token.DATE,
		Lexeme: dayTok.Lexeme + "/" + monthTok.Lexeme + "/" + yearTok.Lexeme,
	}
	fused.Literal.Day = d.Day
	fused.Literal.Month = d.Month
	fused.Literal.Year = d.Year
	l.tokens = append(l.tokens[:n-5], fused)
	return nil
}
