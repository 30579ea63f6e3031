package core

import "testing"

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
		{"1.005", 101, true}, // half away from zero
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"1e3", 0, false},
		{"0", 0, false},
		{"0.004", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || Cents(got) != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, Cents(got), err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatting(t *testing.T) {
	cases := []struct {
		in                    float64
		plain, rupees, report string
	}{
		{0, "0.00", "₹0.00", "Rs. 0.00"},
		{1234.5, "1234.50", "₹1,234.50", "Rs. 1234.50"},
		{-12, "-12.00", "-₹12.00", "Rs. -12.00"},
		{123456.78, "123456.78", "₹1,23,456.78", "Rs. 123456.78"},
		{1234567.5, "1234567.50", "₹12,34,567.50", "Rs. 1234567.50"},
		{-25000000, "-25000000.00", "-₹2,50,00,000.00", "Rs. -25000000.00"},
	}
	for _, tc := range cases {
		if got := FormatPlain(tc.in); got != tc.plain {
			t.Fatalf("FormatPlain(%v) = %q, want %q", tc.in, got, tc.plain)
		}
		if got := FormatRupees(tc.in); got != tc.rupees {
			t.Fatalf("FormatRupees(%v) = %q, want %q", tc.in, got, tc.rupees)
		}
		if got := FormatReport(tc.in); got != tc.report {
			t.Fatalf("FormatReport(%v) = %q, want %q", tc.in, got, tc.report)
		}
	}
}
