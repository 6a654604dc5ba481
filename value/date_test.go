package value

import "testing"

func TestNewDateValid(t *testing.T) {
	if _, err := NewDate(31, 12, 2020); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewDateZeroIsInvalid(t *testing.T) {
	if _, err := NewDate(0, 0, 0); err == nil {
		t.Fatal("expected Date(0,0,0) to be invalid")
	}
}

func TestNewDateRejectsNonLeapFeb29(t *testing.T) {
	if _, err := NewDate(29, 2, 2019); err == nil {
		t.Fatal("expected Date(29,2,2019) to be invalid: 2019 is not a leap year")
	}
}

func TestNewDateAcceptsLeapFeb29(t *testing.T) {
	if _, err := NewDate(29, 2, 2020); err != nil {
		t.Fatalf("expected Date(29,2,2020) to be valid: %v", err)
	}
}

func TestNewDateRejectsMonthOutOfRange(t *testing.T) {
	if _, err := NewDate(1, 13, 2020); err == nil {
		t.Fatal("expected month 13 to be invalid")
	}
}

func TestDateOrdering(t *testing.T) {
	a, _ := NewDate(1, 1, 1)
	b, _ := NewDate(2, 9, 2020)
	if !a.Before(b) {
		t.Fatalf("expected %v before %v", a, b)
	}
	if !b.After(a) {
		t.Fatalf("expected %v after %v", b, a)
	}
	if a.Equal(b) {
		t.Fatalf("expected %v != %v", a, b)
	}
}

func TestDateEqual(t *testing.T) {
	a, _ := NewDate(15, 6, 2024)
	b, _ := NewDate(15, 6, 2024)
	if !a.Equal(b) {
		t.Fatalf("expected equal dates %v and %v", a, b)
	}
}

func TestDateCenturyLeapRule(t *testing.T) {
	if _, err := NewDate(29, 2, 1900); err == nil {
		t.Fatal("expected 1900 to not be a leap year (divisible by 100 but not 400)")
	}
	if _, err := NewDate(29, 2, 2000); err != nil {
		t.Fatalf("expected 2000 to be a leap year (divisible by 400): %v", err)
	}
}
