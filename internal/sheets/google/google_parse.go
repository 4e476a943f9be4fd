package google

import (
	"fmt"
	"strings"

	"ledger/internal/core"
)

// fromValues converts a values matrix into transactions. When the first row
// is a header, columns are matched by name; otherwise the canonical column
// order is assumed. Blank rows are skipped.
func fromValues(values [][]any) []core.Transaction {
	if len(values) == 0 {
		return nil
	}
	cols := map[string]int{}
	for i, name := range core.Header {
		cols[name] = i
	}
	start := 0
	if first := toStrings(values[0]); isHeader(first) {
		cols = map[string]int{}
		for i, name := range first {
			cols[strings.ToLower(name)] = i
		}
		start = 1
	}

	var out []core.Transaction
	for _, row := range values[start:] {
		fields := toStrings(row)
		if isBlank(fields) {
			continue
		}
		record := make([]string, len(core.Header))
		for i, name := range core.Header {
			if idx, ok := cols[name]; ok {
				record[i] = safeGet(fields, idx)
			}
		}
		out = append(out, core.FromFields(record))
	}
	return out
}

// toValues renders the header followed by one row per transaction.
func toValues(txs []core.Transaction) [][]any {
	out := make([][]any, 0, len(txs)+1)
	header := make([]any, len(core.Header))
	for i, h := range core.Header {
		header[i] = h
	}
	out = append(out, header)
	for _, tx := range txs {
		out = append(out, toRow(tx))
	}
	return out
}

func toRow(tx core.Transaction) []any {
	fields := tx.Fields()
	row := make([]any, len(fields))
	for i, f := range fields {
		row[i] = f
	}
	return row
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(row[0], core.Header[0])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

// a1 builds an A1 range, quoting the sheet name.
func a1(sheet, cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(sheet, "'", "''"), cells)
}
