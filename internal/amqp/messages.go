package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Ledger change operations.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// LedgerEvent announces that the ledger changed. It carries only the
// operation and record id; consumers re-read the store for the data.
type LedgerEvent struct {
	Operation string    `json:"operation"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEvent(operation, id string) *LedgerEvent {
	return &LedgerEvent{
		Operation: operation,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

func (m *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON decodes an event and rejects unknown operations.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Operation {
	case OpCreated, OpUpdated, OpDeleted:
	default:
		return nil, fmt.Errorf("unknown ledger operation %q", msg.Operation)
	}
	return &msg, nil
}
