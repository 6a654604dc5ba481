package interp

import (
	"bufio"
	"io"

	"github.com/virchau13/pcse/ast"
	"github.com/virchau13/pcse/value"
)

// GlobalLevel is the call_level of every variable declared at the top
// level of the program.
const GlobalLevel int32 = 0

// FuncKind tags whether a function record's body is an interpreted
// Block or a native Go closure.
type FuncKind int

const (
	RuntimeFunc FuncKind = iota
	BuiltinFunc
)

// BuiltinFn is the signature a builtin's Go implementation must have:
// given already type-checked argument values, produce a result (or an
// error for a runtime-only failure such as division by zero).
type BuiltinFn func(args []value.EValue) (value.EValue, error)

// FuncRecord is the function table's entry: arity, parameter/return
// types, and either an interpreted Block or a builtin closure.
type FuncRecord struct {
	Name       string
	ParamIds   []int64
	ParamTypes []value.EType
	ByRef      []bool
	HasReturn  bool
	ReturnType value.EType
	Kind       FuncKind
	Body       *ast.Block
	Builtin    BuiltinFn
}

// Env is the flat call-frame-numbered environment described by the
// interpreter's scoping model: three parallel slot arrays indexed by
// interned identifier ID, plus a monotone call_number and a function
// table keyed by ID.
type Env struct {
	types      []value.EType
	values     []value.EValue
	callLevels []int32
	callNumber int32

	functable map[int64]*FuncRecord

	Out *bufio.Writer
	In  *bufio.Reader
}

// NewEnv allocates an Env with slots for identifier IDs 1..identifierCount.
func NewEnv(identifierCount int64, out io.Writer, in io.Reader) *Env {
	n := identifierCount + 1
	return &Env{
		types:      make([]value.EType, n),
		values:     make([]value.EValue, n),
		callLevels: make([]int32, n),
		callNumber: 1,
		functable:  make(map[int64]*FuncRecord),
		Out:        bufio.NewWriter(out),
		In:         bufio.NewReader(in),
	}
}

// CallNumber is the currently active call frame (1 for top level).
func (e *Env) CallNumber() int32 { return e.callNumber }

// EnterCall increments the call frame counter for a new invocation.
func (e *Env) EnterCall() { e.callNumber++ }

// ExitCall decrements the call frame counter on return.
func (e *Env) ExitCall() { e.callNumber-- }

// GetType is total: it returns the INVALID scalar type for any slot
// that has never been declared.
func (e *Env) GetType(id int64) value.EType { return e.types[id] }

func (e *Env) rawValue(id int64) value.EValue { return e.values[id] }
func (e *Env) rawLevel(id int64) int32        { return e.callLevels[id] }

// GetValue returns a slot's value, failing if the slot is not visible
// in the current frame or was never initialized.
func (e *Env) GetValue(id int64, name string) (value.EValue, error) {
	lvl := e.callLevels[id]
	if lvl != GlobalLevel && lvl != e.callNumber {
		return value.EValue{}, runtimeErrorf("undefined variable %q", name)
	}
	if e.types[id].Elem == value.INVALID {
		return value.EValue{}, runtimeErrorf("undefined variable %q", name)
	}
	return e.values[id], nil
}

// SetType fails with TypeError if the slot is already declared.
func (e *Env) SetType(id int64, t value.EType) error {
	if e.types[id].Elem != value.INVALID {
		return typeErrorf("redeclaration of identifier")
	}
	e.types[id] = t
	return nil
}

// InitVar sets a slot's type, value, and call level in one step,
// allocating nested array storage (or a scalar zero value) when the
// slot has no explicit initial value yet — used by DECLARE. It fails
// if the slot is already initialized.
func (e *Env) InitVar(id int64, level int32, t value.EType) error {
	if e.types[id].Elem != value.INVALID {
		return typeErrorf("redeclaration of identifier")
	}
	e.types[id] = t
	e.callLevels[id] = level
	if t.IsArray {
		e.values[id] = value.AllocArray(t)
	} else {
		e.values[id] = value.ZeroValue(t.Elem)
	}
	return nil
}

// InitVarWithValue is InitVar but seeds the slot with v (deep-copied if
// t.IsArray) instead of a zero value — used by CONSTANT, by function
// parameter binding, and by the call-frame save/restore protocol.
func (e *Env) InitVarWithValue(id int64, level int32, t value.EType, v value.EValue) error {
	if e.types[id].Elem != value.INVALID {
		return typeErrorf("redeclaration of identifier")
	}
	e.types[id] = t
	e.callLevels[id] = level
	e.values[id] = e.CopyValue(v, t)
	return nil
}

// DeleteVar marks a slot's type INVALID, making its value and level
// unreachable until reinitialized.
func (e *Env) DeleteVar(id int64) {
	e.types[id] = value.EType{}
	e.values[id] = value.EValue{}
	e.callLevels[id] = 0
}

// CopyValue deep-copies an array value element by element, or assigns a
// scalar by value.
func (e *Env) CopyValue(src value.EValue, t value.EType) value.EValue {
	if t.IsArray {
		return src.DeepCopy()
	}
	return src
}

// CopyVar initializes id with a deep copy of val at the given level.
func (e *Env) CopyVar(val value.EValue, t value.EType, level int32, id int64) error {
	return e.InitVarWithValue(id, level, t, val)
}

// ExpectType fails with TypeError if id's declared type doesn't match t.
func (e *Env) ExpectType(id int64, t value.EType) error {
	if !e.types[id].Equal(t) {
		return typeErrorf("type mismatch: expected %s, got %s", t, e.types[id])
	}
	return nil
}

// ExpectTypeEqual fails with TypeError unless every type in rest equals t.
func ExpectTypeEqual(t value.EType, rest ...value.EType) error {
	for _, o := range rest {
		if !t.Equal(o) {
			return typeErrorf("type mismatch: expected %s, got %s", t, o)
		}
	}
	return nil
}

// LookupFunc returns the function record for id, if any.
func (e *Env) LookupFunc(id int64) (*FuncRecord, bool) {
	f, ok := e.functable[id]
	return f, ok
}

// DefineFunc registers a function record, failing if id already names one.
func (e *Env) DefineFunc(id int64, rec *FuncRecord) error {
	if _, exists := e.functable[id]; exists {
		return typeErrorf("redeclaration of function %q", rec.Name)
	}
	e.functable[id] = rec
	return nil
}
