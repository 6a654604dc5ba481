package value

import "testing"

func TestNewFractionReduces(t *testing.T) {
	f, err := NewFraction(6, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Num != 3 || f.Den != 4 {
		t.Fatalf("got %v, want 3/4", f)
	}
}

func TestNewFractionNormalizesSign(t *testing.T) {
	f, err := NewFraction(3, -4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Num != -3 || f.Den != 4 {
		t.Fatalf("got %v, want -3/4", f)
	}
}

func TestFractionDivisionByZero(t *testing.T) {
	if _, err := NewFraction(1, 0); err == nil {
		t.Fatal("expected an error for a zero denominator")
	}
}

func TestFractionArithmetic(t *testing.T) {
	half, _ := NewFraction(1, 2)
	third, _ := NewFraction(1, 3)

	sum, err := half.Add(third)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, _ := NewFraction(5, 6); !sum.Equal(want) {
		t.Fatalf("1/2 + 1/3 = %v, want 5/6", sum)
	}

	diff, err := half.Sub(third)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, _ := NewFraction(1, 6); !diff.Equal(want) {
		t.Fatalf("1/2 - 1/3 = %v, want 1/6", diff)
	}

	prod, err := half.Mul(third)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, _ := NewFraction(1, 6); !prod.Equal(want) {
		t.Fatalf("1/2 * 1/3 = %v, want 1/6", prod)
	}

	quot, err := half.Div(third)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, _ := NewFraction(3, 2); !quot.Equal(want) {
		t.Fatalf("1/2 / 1/3 = %v, want 3/2", quot)
	}
}

func TestFractionDivByZeroValue(t *testing.T) {
	half, _ := NewFraction(1, 2)
	zero, _ := NewFraction(0, 1)
	if _, err := half.Div(zero); err == nil {
		t.Fatal("expected an error dividing by a zero fraction")
	}
}

func TestFractionCmp(t *testing.T) {
	a, _ := NewFraction(1, 2)
	b, _ := NewFraction(2, 3)
	if a.Cmp(b) >= 0 {
		t.Fatalf("expected 1/2 < 2/3")
	}
	if b.Cmp(a) <= 0 {
		t.Fatalf("expected 2/3 > 1/2")
	}
	c, _ := NewFraction(2, 4)
	if a.Cmp(c) != 0 {
		t.Fatalf("expected 1/2 == 2/4")
	}
}

func TestFractionCmpInt(t *testing.T) {
	three, _ := FromInt(3)
	if three.CmpInt(3) != 0 {
		t.Fatalf("expected 3/1 == 3")
	}
	half, _ := NewFraction(1, 2)
	if half.CmpInt(1) >= 0 {
		t.Fatalf("expected 1/2 < 1")
	}
}

func TestFractionNeg(t *testing.T) {
	f, _ := NewFraction(3, 4)
	neg, err := f.Neg()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if neg.Cmp(f) >= 0 {
		t.Fatalf("expected -(3/4) < 3/4")
	}
	zero, _ := f.Add(neg)
	if zero.CmpInt(0) != 0 {
		t.Fatalf("expected f + (-f) == 0, got %v", zero)
	}
}

func TestFractionNegOverflowsAtMinInt32(t *testing.T) {
	f, err := FromInt(int64(minInt32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.Neg(); err != ErrFractionOverflow {
		t.Fatalf("expected ErrFractionOverflow, got %v", err)
	}
}

func TestFromDigits(t *testing.T) {
	f, err := FromDigits("12", "5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := NewFraction(125, 10)
	if !f.Equal(want) {
		t.Fatalf("12.5 parsed as %v, want %v", f, want)
	}
}

func TestFromDigitsNoFraction(t *testing.T) {
	f, err := FromDigits("7", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Num != 7 || f.Den != 1 {
		t.Fatalf("got %v, want 7/1", f)
	}
}

func TestFromDigitsNegative(t *testing.T) {
	f, err := FromDigits("-3", "14")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := NewFraction(-314, 100)
	if !f.Equal(want) {
		t.Fatalf("-3.14 parsed as %v, want %v", f, want)
	}
}

func TestFromDigitsNegativeZeroWhole(t *testing.T) {
	f, err := FromDigits("-0", "5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := NewFraction(-5, 10)
	if !f.Equal(want) {
		t.Fatalf("-0.5 parsed as %v, want %v", f, want)
	}
}

func TestFromDigitsOverflow(t *testing.T) {
	if _, err := FromDigits("99999999999999999999", "1"); err == nil {
		t.Fatal("expected overflow error for an oversized literal")
	}
}

func TestFractionToFloat64(t *testing.T) {
	f, _ := NewFraction(1, 4)
	if got := f.ToFloat64(); got != 0.25 {
		t.Fatalf("got %v, want 0.25", got)
	}
}

func TestFractionToIntTruncatesTowardZero(t *testing.T) {
	pos, _ := NewFraction(7, 2)
	if got := pos.ToInt(); got != 3 {
		t.Fatalf("7/2 truncated = %d, want 3", got)
	}
	neg, _ := NewFraction(-7, 2)
	if got := neg.ToInt(); got != -3 {
		t.Fatalf("-7/2 truncated = %d, want -3", got)
	}
}
