// Package interp fuses type checking with tree-walking evaluation: a
// flat, call-frame-numbered environment; expression and statement
// evaluators; the function-call protocol; and the three builtins.
package interp

import (
	"io"

	"github.com/virchau13/pcse/ast"
)

// Interp walks a parsed Program against an Env.
type Interp struct {
	Env *Env
}

// New constructs an Interp with a fresh Env sized for identifierCount
// interned identifiers, wiring out/in as the OUTPUT/INPUT streams and
// registering the three builtins under whichever IDs the lexer
// assigned their names (if any were used as identifiers at all).
func New(identifierCount int64, ids map[string]int64, out io.Writer, in io.Reader) *Interp {
	env := NewEnv(identifierCount, out, in)
	registerBuiltins(env, ids)
	return &Interp{Env: env}
}

// Run executes every top-level statement of prog in order, flushing
// the output stream before returning (whether or not an error
// occurred), so partial output survives a later error.
func (it *Interp) Run(prog *ast.Program) error {
	var runErr error
	for _, s := range prog.Stmts {
		if _, err := it.execStmt(s); err != nil {
			runErr = err
			break
		}
	}
	if flushErr := it.Env.Out.Flush(); flushErr != nil && runErr == nil {
		runErr = flushErr
	}
	return runErr
}
