package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{".5", 50, true},
		{"1.005", 101, true}, // half-up rounding
		{"12,345", 1235, true},
		{" 2.50 ", 250, true},
		{"1000000", 100000000, true},
		{"10000000000000", MaxCents, true},
		{"10000000000000.01", 0, false},
		{"92233720368547758.07", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"0.004", 0, false},
		{"1e3", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
			}
		}
	}
}

func TestMoneyFromDecimalCap(t *testing.T) {
	if _, err := MoneyFromDecimal(decimal.New(MaxCents, -2)); err != nil {
		t.Fatalf("amount at the cap rejected: %v", err)
	}
	for _, in := range []string{"10000000000000.01", "-10000000000000.01", "92233720368547758.07"} {
		if _, err := MoneyFromDecimal(decimal.RequireFromString(in)); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%s expected ErrInvalidAmount, got %v", in, err)
		}
	}
	if err := Cents(MaxCents + 1).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("Validate above the cap: expected ErrInvalidAmount, got %v", err)
	}
}

func TestMaxAmountsDoNotOverflow(t *testing.T) {
	var total Money
	for i := 0; i < 1000; i++ {
		total = total.Add(Cents(MaxCents))
	}
	if total.Cents != 1000*MaxCents {
		t.Fatalf("total = %d, want %d", total.Cents, 1000*MaxCents)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := Cents(1).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Cents(0).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := Cents(-5).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{123456, "$1,234.56"},
		{-1200, "-$12.00"},
		{100000000, "$1,000,000.00"},
	}
	for _, tc := range cases {
		if got := Cents(tc.cents).Format("$"); got != tc.want {
			t.Fatalf("Format(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyDecimalRoundTrip(t *testing.T) {
	for _, c := range []int64{1, 10, 99, 100, 1250, 123456789} {
		m, err := MoneyFromDecimal(Cents(c).Decimal())
		if err != nil || m.Cents != c {
			t.Fatalf("round trip of %d gave %d (err=%v)", c, m.Cents, err)
		}
	}
	if _, err := MoneyFromDecimal(decimal.New(1, 30)); err == nil {
		t.Fatalf("expected overflow error")
	}
}

func TestMoneyArithmetic(t *testing.T) {
	m := Cents(1000).Sub(Cents(2500))
	if !m.IsNegative() || m.Cents != -1500 {
		t.Fatalf("unexpected difference %d", m.Cents)
	}
	if got := Cents(10).Add(Cents(20)); got.Cents != 30 {
		t.Fatalf("unexpected sum %d", got.Cents)
	}
	if Cents(1250).String() != "12.50" {
		t.Fatalf("unexpected string %q", Cents(1250).String())
	}
}
