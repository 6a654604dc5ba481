package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/virchau13/pcse/lexer"
	"github.com/virchau13/pcse/parser"
	"github.com/virchau13/pcse/value"
)

// TestCallRestoresParameterOnError exercises the call-frame
// parameter-restore invariant: a global variable and a function
// parameter sharing the identifier "x" must end up with x's original
// (type, value, level) triple once a call into that function fails
// partway through its body, exactly as when the call succeeds.
func TestCallRestoresParameterOnError(t *testing.T) {
	src := `
DECLARE x: INTEGER
x <- 42
FUNCTION f(x: INTEGER) RETURNS INTEGER
	RETURN 1 DIV (x - x)
ENDFUNCTION
OUTPUT f(5)
`
	toks, ids, idCount, err := lexer.New([]byte(src)).Scan()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := parser.New(toks).ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var out bytes.Buffer
	it := New(idCount, ids, &out, strings.NewReader(""))

	xid, ok := ids["x"]
	if !ok {
		t.Fatalf("identifier table has no entry for %q", "x")
	}

	runErr := it.Run(prog)
	if _, ok := runErr.(*RuntimeError); !ok {
		t.Fatalf("want *RuntimeError from the division by zero, got %T (%v)", runErr, runErr)
	}

	if it.Env.types[xid].Elem != value.INTEGER {
		t.Fatalf("x's type was not restored: got %s, want INTEGER", it.Env.types[xid])
	}
	if it.Env.values[xid].Int != 42 {
		t.Fatalf("x's value was not restored: got %d, want 42", it.Env.values[xid].Int)
	}
	if it.Env.callLevels[xid] != GlobalLevel {
		t.Fatalf("x's call level was not restored: got %d, want %d", it.Env.callLevels[xid], GlobalLevel)
	}
}
