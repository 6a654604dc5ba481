// Package value implements the runtime value and type model shared by
// the lexer, parser and interpreter: exact rational arithmetic
// (Fraction), a calendar Date, primitive type tags, array-aware type
// descriptors (EType) and tagged runtime values (EValue).
package value

import (
	"fmt"
	"math/big"
	"strings"
)

// Fraction is a reduced rational number: gcd(|Num|, Den) == 1 and
// Den > 0. Numerator and denominator are int32, matching the original
// pseudocode interpreter's default Fraction<int32_t>; intermediate
// products and sums widen to int64 before reducing, per the data
// model's overflow-careful arithmetic requirement.
type Fraction struct {
	Num int32
	Den int32
}

// ErrFractionOverflow is returned when a Fraction operation's exact
// result cannot be represented with an int32 numerator/denominator
// after reduction.
var ErrFractionOverflow = fmt.Errorf("rational arithmetic overflow")

func gcdInt64(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// reduce64 builds a Fraction out of a 64-bit numerator/denominator pair,
// reducing to lowest terms and normalizing the sign onto the numerator.
// It fails if the reduced values overflow int32.
func reduce64(num, den int64) (Fraction, error) {
	if den == 0 {
		return Fraction{}, fmt.Errorf("division by zero")
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcdInt64(num, den)
	num /= g
	den /= g
	if num > int64(maxInt32) || num < int64(minInt32) || den > int64(maxInt32) {
		return Fraction{}, ErrFractionOverflow
	}
	return Fraction{Num: int32(num), Den: int32(den)}, nil
}

const (
	maxInt32 = int32(1<<31 - 1)
	minInt32 = -maxInt32 - 1
)

// NewFraction constructs a reduced Fraction from an int32 numerator and
// denominator. Den must not be 0.
func NewFraction(num, den int32) (Fraction, error) {
	return reduce64(int64(num), int64(den))
}

// FromInt returns the Fraction equal to the given integer.
func FromInt(n int64) (Fraction, error) {
	if n > int64(maxInt32) || n < int64(minInt32) {
		return Fraction{}, ErrFractionOverflow
	}
	return Fraction{Num: int32(n), Den: 1}, nil
}

// FromDigits parses a REAL literal already split into its integer and
// fractional digit strings (e.g. "12", "340" for "12.340") into a
// reduced Fraction. intPart may carry a leading "-"; fracPart never
// does (it is always a bare magnitude), so the sign of the whole value
// is taken from intPart's "-" prefix rather than from whole.Sign() —
// that also gets "-0.5" right, where the parsed big.Int for "-0" would
// otherwise normalize to a non-negative zero. It fails if the value's
// unreduced numerator (intPart and fracPart read as one integer) does
// not fit in an int32, or if the reduced fraction does not.
func FromDigits(intPart, fracPart string) (Fraction, error) {
	// value = intPart.fracPart = (intPart*10^len(fracPart) +- fracPart) / 10^len(fracPart)
	den := big.NewInt(1)
	ten := big.NewInt(10)
	for i := 0; i < len(fracPart); i++ {
		den.Mul(den, ten)
	}
	whole := new(big.Int)
	if _, ok := whole.SetString(intPart, 10); !ok {
		return Fraction{}, fmt.Errorf("invalid integer part %q", intPart)
	}
	frac := new(big.Int)
	if len(fracPart) > 0 {
		if _, ok := frac.SetString(fracPart, 10); !ok {
			return Fraction{}, fmt.Errorf("invalid fractional part %q", fracPart)
		}
	}
	num := new(big.Int).Mul(whole, den)
	if strings.HasPrefix(intPart, "-") {
		num.Sub(num, frac)
	} else {
		num.Add(num, frac)
	}
	if !num.IsInt64() || !den.IsInt64() {
		return Fraction{}, ErrFractionOverflow
	}
	if n := num.Int64(); n > int64(maxInt32) || n < int64(minInt32) {
		return Fraction{}, ErrFractionOverflow
	}
	return reduce64(num.Int64(), den.Int64())
}

func (f Fraction) Add(o Fraction) (Fraction, error) {
	a, b, c, d := int64(f.Num), int64(f.Den), int64(o.Num), int64(o.Den)
	return reduce64(a*d+c*b, b*d)
}

func (f Fraction) Sub(o Fraction) (Fraction, error) {
	a, b, c, d := int64(f.Num), int64(f.Den), int64(o.Num), int64(o.Den)
	return reduce64(a*d-c*b, b*d)
}

func (f Fraction) Mul(o Fraction) (Fraction, error) {
	a, b, c, d := int64(f.Num), int64(f.Den), int64(o.Num), int64(o.Den)
	return reduce64(a*c, b*d)
}

func (f Fraction) Div(o Fraction) (Fraction, error) {
	if o.Num == 0 {
		return Fraction{}, fmt.Errorf("division by zero")
	}
	a, b, c, d := int64(f.Num), int64(f.Den), int64(o.Num), int64(o.Den)
	return reduce64(a*d, b*c)
}

// Neg returns -f. It fails if f's numerator is the most negative
// int32 (its magnitude, 2^31, doesn't fit in an int32 numerator
// either), the same way negating math.MinInt32 itself would overflow.
func (f Fraction) Neg() (Fraction, error) {
	if f.Num == minInt32 {
		return Fraction{}, ErrFractionOverflow
	}
	return Fraction{Num: -f.Num, Den: f.Den}, nil
}

// Cmp returns -1, 0 or 1 as f is less than, equal to, or greater than o.
// Cross-multiplication happens in int64; since |Num| <= 2^31 and
// Den <= 2^31-1 the product fits comfortably under 2^63-1.
func (f Fraction) Cmp(o Fraction) int {
	a, b, c, d := int64(f.Num), int64(f.Den), int64(o.Num), int64(o.Den)
	lhs, rhs := a*d, c*b
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

func (f Fraction) Equal(o Fraction) bool {
	return f.Cmp(o) == 0
}

// CmpInt compares f against a bare integer without needing to allocate
// a Fraction for it first.
func (f Fraction) CmpInt(n int64) int {
	lhs := int64(f.Num)
	rhs := n * int64(f.Den)
	switch {
	case lhs < rhs:
		return -1
	case lhs > rhs:
		return 1
	default:
		return 0
	}
}

// ToFloat64 converts the Fraction to a float64 for OUTPUT.
func (f Fraction) ToFloat64() float64 {
	return float64(f.Num) / float64(f.Den)
}

// ToInt truncates the Fraction toward zero, as Go's integer division
// of its already-reduced components naturally does.
func (f Fraction) ToInt() int64 {
	return int64(f.Num) / int64(f.Den)
}

func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}
