package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/SscSPs/medisave/internal/core/domain"
	"github.com/SscSPs/medisave/internal/utils/ledger"
	"github.com/shopspring/decimal"
)

// AmountInput accepts an amount given either as a JSON number or as a string,
// the way an HTML number input submits it. The text is validated by the
// service.
type AmountInput string

func (a *AmountInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = AmountInput(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = AmountInput(n.String())
	return nil
}

// ExpenseRequest is the body of POST and PUT /expenses.
type ExpenseRequest struct {
	Name     string      `json:"name" example:"Ibuprofen"`
	Amount   AmountInput `json:"amount" swaggertype:"string" example:"12.50"`
	Category string      `json:"category" example:"medication"`
	// Date is YYYY-MM-DD. POST defaults an empty date to today.
	Date  string `json:"date" example:"2025-03-01"`
	Notes string `json:"notes"`
}

// ExpenseResponse is one ledger record.
type ExpenseResponse struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Amount   json.Number `json:"amount" swaggertype:"number"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
	Notes    string      `json:"notes"`
}

// ListExpensesParams are the query parameters of GET /expenses.
type ListExpensesParams struct {
	Category  string `form:"category"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy"`
	Direction string `form:"direction"`
	Limit     int    `form:"limit" binding:"min=0"`
}

// ListExpensesResponse is the filtered and sorted ledger view.
type ListExpensesResponse struct {
	Expenses     []ExpenseResponse `json:"expenses"`
	Count        int               `json:"count"`
	RunningTotal json.Number       `json:"runningTotal" swaggertype:"number"`
	GrandTotal   json.Number       `json:"grandTotal" swaggertype:"number"`
}

// AmountNumber renders an amount as a JSON number with two decimals.
func AmountNumber(d decimal.Decimal) json.Number {
	return json.Number(ledger.FormatAmount(d))
}

// ToExpenseResponse converts a domain record to its response form.
func ToExpenseResponse(e domain.ExpenseRecord) ExpenseResponse {
	return ExpenseResponse{
		ID:       e.ID,
		Name:     e.Name,
		Amount:   AmountNumber(e.Amount),
		Category: string(e.Category),
		Date:     e.Date.String(),
		Notes:    e.Notes,
	}
}

// ToListExpenseResponse converts records to responses, never returning nil.
func ToListExpenseResponse(records []domain.ExpenseRecord) []ExpenseResponse {
	res := make([]ExpenseResponse, len(records))
	for i, rec := range records {
		res[i] = ToExpenseResponse(rec)
	}
	return res
}
