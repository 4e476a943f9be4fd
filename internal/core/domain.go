package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the on-disk and form representation of a transaction date.
const DateLayout = "2006-01-02"

const (
	Income  Type = "income"
	Expense Type = "expense"
)

type (
	Type string

	// Transaction is one ledger record. Every field is kept as the text that
	// was stored so that records round-trip unchanged.
	Transaction struct {
		ID          string
		Date        string
		Description string
		Category    string
		Type        Type
		Amount      string
	}
)

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrMissingField  = errors.New("missing required field")
)

// Header is the fixed column order of the persisted record set.
var Header = []string{"id", "date", "description", "category", "type", "amount"}

// IsValid reports whether t is one of the known transaction types.
func (t Type) IsValid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	return string(t)
}

// ParseDate parses a strict YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, errors.Join(ErrInvalidDate, err)
	}
	return d, nil
}

// Today returns the current local date in DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}

// Fields returns the record in Header order.
func (tx Transaction) Fields() []string {
	return []string{tx.ID, tx.Date, tx.Description, tx.Category, string(tx.Type), tx.Amount}
}

// FromFields builds a Transaction from a record in Header order. Missing
// trailing fields are left empty.
func FromFields(fields []string) Transaction {
	get := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	return Transaction{
		ID:          get(0),
		Date:        get(1),
		Description: get(2),
		Category:    get(3),
		Type:        Type(get(4)),
		Amount:      get(5),
	}
}

// Validate checks the fields a caller controls. The id is assigned by the
// store and is not inspected.
func (tx Transaction) Validate() error {
	if _, err := ParseDate(tx.Date); err != nil {
		return err
	}
	if !tx.Type.IsValid() {
		return ErrInvalidType
	}
	if _, err := ParseAmount(tx.Amount); err != nil {
		return err
	}
	if utf8.RuneCountInString(tx.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.ContainsAny(tx.Category, "\r\n") {
		return errors.New("category must be a single line")
	}
	return nil
}
