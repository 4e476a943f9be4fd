package view

import (
	"time"

	"ledger/internal/core"
)

// DisplayDateLayout renders 2024-03-07 as "07 Mar, 2024".
const DisplayDateLayout = "02 Jan, 2006"

// FormatDate converts a stored YYYY-MM-DD date for display. Text that does not
// parse is returned unchanged.
func FormatDate(s string) string {
	d, err := time.Parse(core.DateLayout, s)
	if err != nil {
		return s
	}
	return d.Format(DisplayDateLayout)
}
