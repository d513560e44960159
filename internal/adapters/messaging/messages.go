package messaging

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/medisave/internal/core/domain"
)

// ExpenseDeltaMessage is the wire form of a delta notification.
type ExpenseDeltaMessage struct {
	ExpenseID   string    `json:"expenseId"`
	Kind        string    `json:"kind"`
	AmountDelta string    `json:"amountDelta"`
	Category    string    `json:"category"`
	Date        string    `json:"date,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// NewExpenseDeltaMessage converts a domain event into its message form.
func NewExpenseDeltaMessage(event domain.DeltaEvent) *ExpenseDeltaMessage {
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	return &ExpenseDeltaMessage{
		ExpenseID:   event.ExpenseID,
		Kind:        string(event.Kind),
		AmountDelta: event.AmountDelta.StringFixed(domain.AmountPlaces),
		Category:    string(event.Category),
		Date:        event.Date.String(),
		OccurredAt:  occurred,
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseDeltaMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseDeltaMessageFromJSON decodes a message body.
func ExpenseDeltaMessageFromJSON(data []byte) (*ExpenseDeltaMessage, error) {
	var msg ExpenseDeltaMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
