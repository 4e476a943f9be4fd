package view

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"ledger/internal/core"
)

// DefaultSymbol is the currency symbol used when none is configured.
const DefaultSymbol = "₹"

// Currency formats amounts as signed, grouped currency text.
type Currency struct {
	Symbol string
	group  string
	point  string
}

// NewCurrency returns a Currency printing numbers with the grouping and
// decimal separators of locale. An unparseable locale falls back to English.
func NewCurrency(symbol, locale string) Currency {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil || tag == language.Und {
		tag = language.English
	}
	group, point := separators(message.NewPrinter(tag))
	return Currency{
		Symbol: symbol,
		group:  group,
		point:  point,
	}
}

// separators reads the locale's grouping and decimal separators off a
// formatted sample.
func separators(p *message.Printer) (group, point string) {
	sample := p.Sprint(number.Decimal(1234.5, number.MinFractionDigits(1), number.MaxFractionDigits(1)))
	_, rest, ok := strings.Cut(sample, "1")
	if !ok {
		return ",", "."
	}
	group, rest, ok = strings.Cut(rest, "234")
	if !ok {
		return ",", "."
	}
	point, _, ok = strings.Cut(rest, "5")
	if !ok || point == "" {
		return ",", "."
	}
	return group, point
}

// DefaultCurrency formats rupees with English grouping ("₹1,000.00").
func DefaultCurrency() Currency {
	return NewCurrency(DefaultSymbol, "en")
}

// Number formats value with two decimals and thousands grouping.
// The value is never converted to a float, so large totals keep every digit.
func (c Currency) Number(value decimal.Decimal) string {
	group, point := c.group, c.point
	if point == "" {
		group, point = ",", "."
	}
	text := value.StringFixed(2)
	neg := strings.HasPrefix(text, "-")
	whole, frac, _ := strings.Cut(strings.TrimPrefix(text, "-"), ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(group)
		}
		b.WriteRune(d)
	}
	b.WriteString(point)
	b.WriteString(frac)
	return b.String()
}

// FormatAmount renders value for display. Income is prefixed with "+ " and
// expense with "- " regardless of sign. With any other type the sign of value
// decides, and zero renders without a prefix.
func (c Currency) FormatAmount(value decimal.Decimal, t core.Type) string {
	switch t {
	case core.Income:
		return "+ " + c.Symbol + c.Number(value)
	case core.Expense:
		return "- " + c.Symbol + c.Number(value)
	}
	switch value.Sign() {
	case 1:
		return "+ " + c.Symbol + c.Number(value)
	case -1:
		return "- " + c.Symbol + c.Number(value.Abs())
	default:
		return c.Symbol + c.Number(decimal.Zero)
	}
}
