package dto

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/medisave/internal/core/domain"
)

// DeltaResponse is the last spend change seen by the balance tracker.
type DeltaResponse struct {
	ExpenseID   string      `json:"expenseId"`
	Kind        string      `json:"kind"`
	AmountDelta json.Number `json:"amountDelta" swaggertype:"number"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
	OccurredAt  time.Time   `json:"occurredAt"`
}

// BalanceResponse reports the bank balance next to the session's spending.
type BalanceResponse struct {
	// AccountBalance is null when the bank API is not configured or failed.
	AccountBalance  *json.Number   `json:"accountBalance" swaggertype:"number"`
	SessionNetSpend json.Number    `json:"sessionNetSpend" swaggertype:"number"`
	LastDelta       *DeltaResponse `json:"lastDelta"`
}

func ToBalanceResponse(s domain.BalanceSnapshot) BalanceResponse {
	res := BalanceResponse{SessionNetSpend: AmountNumber(s.SessionNetSpend)}
	if s.AccountBalance != nil {
		n := AmountNumber(*s.AccountBalance)
		res.AccountBalance = &n
	}
	if s.LastDelta != nil {
		res.LastDelta = &DeltaResponse{
			ExpenseID:   s.LastDelta.ExpenseID,
			Kind:        string(s.LastDelta.Kind),
			AmountDelta: AmountNumber(s.LastDelta.AmountDelta),
			Category:    string(s.LastDelta.Category),
			Date:        s.LastDelta.Date.String(),
			OccurredAt:  s.LastDelta.OccurredAt,
		}
	}
	return res
}
