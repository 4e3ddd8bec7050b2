package utils

import (
	"encoding/json"
	"testing"
)

func TestParseCost(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"arithmetic marker", "₹ 800 + ₹ 6,000 = ₹ 6,800", 6800},
		{"dollar symbol", "$150", 150},
		{"thousands and decimals", "12,345.50", 12345.5},
		{"not available", "N/A", 0},
		{"plain number", 42.0, 42},
		{"int", 300, 300},
		{"negative number", -20.0, 0},
		{"json number", json.Number("99.5"), 99.5},
		{"range takes last", "$100 - $200 per night", 200},
		{"per person suffix", "approx. 1,500 INR per person", 1500},
		{"indian grouping", "₹1,00,000", 100000},
		{"multiple markers", "2 x 500 = 1000 = 1,000.00", 1000},
		{"empty", "", 0},
		{"free", "Free", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
		{"negative string", "-500", 0},
		{"negative after symbol", "₹ -1,200", 0},
		{"negative after marker", "100 - 300 = -200", 0},
		{"hyphen range is not a sign", "1500-2000", 2000},
		{"amount object", map[string]any{"amount": "€45", "currency": "EUR"}, 45},
		{"object without amount", map[string]any{"note": "varies"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseCost(tc.in); got != tc.want {
				t.Fatalf("ParseCost(%#v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseCostNeverNegative(t *testing.T) {
	for _, in := range []any{"-500", "minus 3", -1, "=", "...", ",,,"} {
		if got := ParseCost(in); got < 0 {
			t.Fatalf("ParseCost(%#v) = %v, must be non-negative", in, got)
		}
	}
}

func TestRoundMoney(t *testing.T) {
	if got := RoundMoney(10.005); got != 10.01 && got != 10.0 {
		t.Fatalf("unexpected rounding %v", got)
	}
	if got := RoundMoney(1234.5678); got != 1234.57 {
		t.Fatalf("RoundMoney = %v, want 1234.57", got)
	}
}
