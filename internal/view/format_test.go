package view

import (
	"testing"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

func TestFormatDate(t *testing.T) {
	cases := map[string]string{
		"2024-03-07": "07 Mar, 2024",
		"2023-12-25": "25 Dec, 2023",
		"not-a-date": "not-a-date",
		"":           "",
	}
	for in, want := range cases {
		if got := FormatDate(in); got != want {
			t.Errorf("FormatDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	c := DefaultCurrency()
	tests := []struct {
		value string
		typ   core.Type
		want  string
	}{
		{"1000", core.Income, "+ ₹1,000.00"},
		{"50", core.Expense, "- ₹50.00"},
		{"1234567.891", core.Income, "+ ₹1,234,567.89"},
		{"950", "", "+ ₹950.00"},
		{"-12.5", "", "- ₹12.50"},
		{"0", "", "₹0.00"},
		{"0.5", core.Expense, "- ₹0.50"},
		{"12345678901234567.89", core.Income, "+ ₹12,345,678,901,234,567.89"},
		{"999.995", core.Expense, "- ₹1,000.00"},
	}
	for _, tt := range tests {
		got := c.FormatAmount(decimal.RequireFromString(tt.value), tt.typ)
		if got != tt.want {
			t.Errorf("FormatAmount(%s, %q) = %q, want %q", tt.value, tt.typ, got, tt.want)
		}
	}
}

func TestCurrencyLocaleSeparators(t *testing.T) {
	c := NewCurrency("€", "de")
	if got := c.Number(decimal.RequireFromString("1234567.5")); got != "1.234.567,50" {
		t.Fatalf("got %q", got)
	}
}

func TestCurrencyCustomSymbol(t *testing.T) {
	c := NewCurrency("$", "not a locale!")
	if got := c.FormatAmount(decimal.RequireFromString("1500"), core.Income); got != "+ $1,500.00" {
		t.Fatalf("got %q", got)
	}
}
