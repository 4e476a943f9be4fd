// Package view builds the filtered, aggregated and display-formatted
// projection of the ledger shown for one request.
package view

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

// Months lists the month names offered by the month selector; the value of
// Months[i] is i+1.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

type (
	// Entry is a transaction with its display-only fields. The formatted
	// values are never persisted.
	Entry struct {
		core.Transaction
		FormattedAmount string
		FormattedDate   string
	}

	Summary struct {
		IncomeValue   decimal.Decimal
		ExpensesValue decimal.Decimal
		BalanceValue  decimal.Decimal

		Income   string
		Expenses string
		Balance  string
	}

	View struct {
		Entries  []Entry
		Summary  Summary
		Selected Filters
		Months   []string

		// Distinct values across the whole ledger, for selector options.
		Categories []string
		Years      []string
	}
)

// Builder turns a ledger snapshot into a View.
type Builder struct {
	currency Currency
}

func NewBuilder(c Currency) *Builder {
	if c.point == "" {
		c = NewCurrency(c.Symbol, "en")
	}
	return &Builder{currency: c}
}

// Currency returns the formatter used by the builder.
func (b *Builder) Currency() Currency {
	return b.currency
}

// Build filters txs with f and aggregates the remaining entries.
//
// Every transaction date is parsed, included or not; the first malformed
// date fails the whole view. Amounts are parsed for included entries only.
func (b *Builder) Build(txs []core.Transaction, f Filters) (View, error) {
	v := View{
		Selected: f,
		Months:   Months,
	}

	cats := map[string]struct{}{}
	years := map[string]struct{}{}
	income, expenses := decimal.Zero, decimal.Zero

	for _, tx := range txs {
		date, err := core.ParseDate(tx.Date)
		if err != nil {
			return View{}, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		cats[tx.Category] = struct{}{}
		years[strconv.Itoa(date.Year())] = struct{}{}

		if !f.Match(tx, date) {
			continue
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(tx.Amount))
		if err != nil {
			return View{}, fmt.Errorf("transaction %s: %w: %q", tx.ID, core.ErrInvalidAmount, tx.Amount)
		}
		switch tx.Type {
		case core.Income:
			income = income.Add(amount)
		case core.Expense:
			expenses = expenses.Add(amount)
		}
		v.Entries = append(v.Entries, Entry{
			Transaction:     tx,
			FormattedAmount: b.currency.FormatAmount(amount, tx.Type),
			FormattedDate:   FormatDate(tx.Date),
		})
	}

	balance := income.Sub(expenses)
	v.Summary = Summary{
		IncomeValue:   income,
		ExpensesValue: expenses,
		BalanceValue:  balance,
		Income:        b.currency.FormatAmount(income, core.Income),
		Expenses:      b.currency.FormatAmount(expenses, core.Expense),
		Balance:       b.currency.FormatAmount(balance, ""),
	}
	v.Categories = sortedKeys(cats)
	v.Years = sortedKeys(years)
	return v, nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		if k != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
