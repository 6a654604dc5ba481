package value

import "fmt"

// EValue is a tagged runtime value. Go has no native union, so EValue
// carries one field per possible scalar payload plus an Arr slice for
// array values; which field is meaningful is determined by the EType
// associated with the EValue at its point of use (the interpreter never
// inspects an EValue without also holding its EType).
type EValue struct {
	Int   int64
	Frac  Fraction
	Char  byte
	Str   string
	Bool  bool
	Date  Date
	Arr   []EValue
}

func NewIntValue(n int64) EValue      { return EValue{Int: n} }
func NewRealValue(f Fraction) EValue  { return EValue{Frac: f} }
func NewStringValue(s string) EValue  { return EValue{Str: s} }
func NewCharValue(c byte) EValue      { return EValue{Char: c} }
func NewBoolValue(b bool) EValue      { return EValue{Bool: b} }
func NewDateValue(d Date) EValue      { return EValue{Date: d} }

// ZeroValue returns the default payload for a freshly declared scalar
// of the given primitive. Date's zero value is Date{} (00/00/0000),
// which bypasses NewDate's validation; a DATE variable read before any
// assignment yields that value.
func ZeroValue(p Primitive) EValue {
	switch p {
	case INTEGER:
		return NewIntValue(0)
	case REAL:
		zero, _ := FromInt(0)
		return NewRealValue(zero)
	case STRING:
		return NewStringValue("")
	case CHAR:
		return NewCharValue(0)
	case BOOLEAN:
		return NewBoolValue(false)
	case DATE:
		return NewDateValue(Date{})
	default:
		return EValue{}
	}
}

// AllocArray builds the nested-slice representation of an array type,
// recursing dimension by dimension exactly as the original
// interpreter's Env::allocArr does, and filling the innermost dimension
// with ZeroValue(t.Elem).
func AllocArray(t EType) EValue {
	return allocArrDim(t.Bounds, t.Elem)
}

func allocArrDim(bounds []Bound, elem Primitive) EValue {
	n := bounds[0].Len()
	arr := make([]EValue, n)
	if len(bounds) == 1 {
		for i := range arr {
			arr[i] = ZeroValue(elem)
		}
	} else {
		for i := range arr {
			arr[i] = allocArrDim(bounds[1:], elem)
		}
	}
	return EValue{Arr: arr}
}

// DeepCopy clones an EValue, recursively copying nested arrays so that
// assigning or passing an array value never aliases the source's
// backing slices.
func (v EValue) DeepCopy() EValue {
	if v.Arr == nil {
		return v
	}
	out := make([]EValue, len(v.Arr))
	for i, e := range v.Arr {
		out[i] = e.DeepCopy()
	}
	cp := v
	cp.Arr = out
	return cp
}

// Index returns the element at the given zero-based offset within the
// outermost dimension of an array value, matching how the interpreter
// maps a validated in-bounds subscript onto the flat Arr slice.
func (v EValue) Index(i int) EValue {
	return v.Arr[i]
}

type evalueFields EValue

func (v EValue) String() string {
	if v.Arr != nil {
		return fmt.Sprintf("%v", v.Arr)
	}
	return fmt.Sprintf("%+v", evalueFields(v))
}
