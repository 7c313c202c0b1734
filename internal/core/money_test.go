package core

import (
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
		{"-12.50", -1250, true},
		{"0", 0, true},
		{" 2.50 ", 250, true},
		{"1.005", 100, true}, // banker's rounding, 100 is even
		{"1.015", 102, true}, // banker's rounding, rounds up to even
		{"1.0051", 101, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMinorUnitsRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 99, 100, 150, -150, 12345, -987654321, 1<<40 + 7}
	for _, v := range values {
		got, err := ToMinorUnits(FromMinorUnits(v))
		if err != nil {
			t.Fatalf("%d: unexpected error %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d -> %d", v, got)
		}
	}
}

func TestDecimalRoundTrip(t *testing.T) {
	// Decimals with at most two fraction digits survive the codec exactly.
	for _, s := range []string{"0.01", "1.50", "-3.99", "1234.00", "0.00"} {
		d := decimal.RequireFromString(s)
		minor, err := ToMinorUnits(d)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", s, err)
		}
		if !FromMinorUnits(minor).Equal(d) {
			t.Fatalf("%s round trip gave %s", s, FromMinorUnits(minor))
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in  int64
		out string
	}{
		{0, "0.00"},
		{150, "1.50"},
		{-5, "-0.05"},
		{5, "0.05"},
		{100, "1.00"},
		{-100, "-1.00"},
		{123456789, "1,234,567.89"},
		{-123456789, "-1,234,567.89"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.in); got != tc.out {
			t.Fatalf("FormatCurrency(%d) = %q, want %q", tc.in, got, tc.out)
		}
	}
}
