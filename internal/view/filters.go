package view

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"ledger/internal/core"
)

// All is the selector value that disables a filter.
const All = "all"

// Filters are the equality selectors of a view. Each field is either All or
// the value a transaction must have.
type Filters struct {
	Category string
	Type     string
	Year     string
	Month    string
}

// DefaultFilters selects every transaction.
func DefaultFilters() Filters {
	return Filters{Category: All, Type: All, Year: All, Month: All}
}

// FiltersFromQuery reads category, type, year and month from q. Missing or
// blank values default to All.
func FiltersFromQuery(q url.Values) Filters {
	get := func(key string) string {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			return v
		}
		return All
	}
	return Filters{
		Category: get("category"),
		Type:     get("type"),
		Year:     get("year"),
		Month:    get("month"),
	}
}

// Query encodes the non-All selectors, suitable for links back to the view.
func (f Filters) Query() url.Values {
	q := url.Values{}
	for key, v := range map[string]string{"category": f.Category, "type": f.Type, "year": f.Year, "month": f.Month} {
		if v != "" && v != All {
			q.Set(key, v)
		}
	}
	return q
}

// Match reports whether tx, dated date, passes every active selector.
// Category and type compare as text; year and month compare as integers.
func (f Filters) Match(tx core.Transaction, date time.Time) bool {
	if active(f.Category) && tx.Category != f.Category {
		return false
	}
	if active(f.Type) && string(tx.Type) != f.Type {
		return false
	}
	if active(f.Year) && !intEquals(f.Year, date.Year()) {
		return false
	}
	if active(f.Month) && !intEquals(f.Month, int(date.Month())) {
		return false
	}
	return true
}

func active(v string) bool {
	return v != "" && v != All
}

func intEquals(s string, n int) bool {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil && v == n
}
