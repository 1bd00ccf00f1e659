package amqp

import (
	"encoding/json"
	"time"

	"spendchart/internal/core"
)

// EventType names what happened to the collection.
type EventType string

const (
	EventExpenseCreated EventType = "expense.created"
	EventExpenseDeleted EventType = "expense.deleted"
)

// ExpenseEvent is published after a mutation has been persisted. Index is the
// chronological position the expense had (created: where it was appended;
// deleted: where it was removed from). Count is the collection size after
// the mutation.
type ExpenseEvent struct {
	Type      EventType    `json:"type"`
	Index     int          `json:"index"`
	Count     int          `json:"count"`
	Expense   core.Expense `json:"expense"`
	Timestamp time.Time    `json:"timestamp"`
}

func NewExpenseEvent(t EventType, index, count int, e core.Expense) *ExpenseEvent {
	return &ExpenseEvent{
		Type:      t,
		Index:     index,
		Count:     count,
		Expense:   e,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventFromJSON creates a message from JSON bytes
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
