package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"ledger/internal/core"
)

// ReadRecords decodes a CSV record set. The first row is the header; fields
// of later rows are looked up by header name, so column order on disk does
// not matter. Rows are not validated.
func ReadRecords(r io.Reader) ([]core.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[name] = i
	}

	var out []core.Transaction
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", len(out)+1, err)
		}
		fields := make([]string, len(core.Header))
		for i, name := range core.Header {
			if p, ok := pos[name]; ok && p < len(rec) {
				fields[i] = rec[p]
			}
		}
		out = append(out, core.FromFields(fields))
	}
	return out, nil
}

// WriteRecords encodes the header followed by txs.
func WriteRecords(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(core.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, tx := range txs {
		if err := cw.Write(tx.Fields()); err != nil {
			return fmt.Errorf("write record %s: %w", tx.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// appendRecord encodes a single row without a header.
func appendRecord(w io.Writer, tx core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tx.Fields()); err != nil {
		return fmt.Errorf("write record %s: %w", tx.ID, err)
	}
	cw.Flush()
	return cw.Error()
}
