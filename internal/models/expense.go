package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Expense is the persisted form of one expense inside the durable slot blob.
type Expense struct {
	ID       LegacyID    `json:"id"`
	Name     string      `json:"name"`
	Amount   json.Number `json:"amount"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
	Notes    string      `json:"notes,omitempty"`
}

// LegacyID is a record id that older blobs stored as a numeric creation
// timestamp. Both forms decode to the id's decimal string.
type LegacyID string

func (id *LegacyID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = LegacyID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = LegacyID(n.String())
	return nil
}
