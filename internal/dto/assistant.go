package dto

import (
	"encoding/json"

	"github.com/SscSPs/medisave/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ReceiptDataResponse is what the model read off a receipt.
type ReceiptDataResponse struct {
	Date          string      `json:"date"`
	Provider      string      `json:"provider"`
	Amount        json.Number `json:"amount" swaggertype:"number"`
	Description   string      `json:"description"`
	Category      string      `json:"category"`
	InsuranceInfo string      `json:"insuranceInfo"`
}

// ScanReceiptResponse is returned by POST /ai/scan-receipt. Expense is set
// when the scan was also recorded in the ledger.
type ScanReceiptResponse struct {
	Success bool                `json:"success"`
	Data    ReceiptDataResponse `json:"data"`
	Expense *ExpenseResponse    `json:"expense,omitempty"`
}

// CategorySpendRequest is one category line of an insights request.
type CategorySpendRequest struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total" swaggertype:"number"`
}

// RecentExpenseRequest is one expense line of an insights request.
type RecentExpenseRequest struct {
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount" swaggertype:"number"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
}

// InsightsRequest is the body of POST /ai/expense-insights.
type InsightsRequest struct {
	Categories     []CategorySpendRequest `json:"categories"`
	TotalExpenses  decimal.Decimal        `json:"totalExpenses" swaggertype:"number"`
	RecentExpenses []RecentExpenseRequest `json:"recentExpenses"`
}

// InsightsResponse wraps the model's spending analysis.
type InsightsResponse struct {
	Success  bool            `json:"success"`
	Insights domain.Insights `json:"insights"`
}

// AlternativesRequest is the body of POST /ai/cheaper-alternatives.
type AlternativesRequest struct {
	ExpenseName   string      `json:"expenseName"`
	ExpenseAmount AmountInput `json:"expenseAmount" swaggertype:"string"`
	Category      string      `json:"category"`
	Notes         string      `json:"notes"`
}

// AlternativesResponse lists cheaper options per item of the expense.
type AlternativesResponse struct {
	MedicalItems []domain.MedicalItem `json:"medicalItems"`
}

// ChatRequest is the body of POST /ai/chat.
type ChatRequest struct {
	Message     string               `json:"message"`
	ChatHistory []domain.ChatMessage `json:"chatHistory"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

func ToReceiptDataResponse(r domain.ReceiptData) ReceiptDataResponse {
	return ReceiptDataResponse{
		Date:          r.Date,
		Provider:      r.Provider,
		Amount:        AmountNumber(r.Amount),
		Description:   r.Description,
		Category:      string(r.Category),
		InsuranceInfo: r.InsuranceInfo,
	}
}

// ToDomainInsightsRequest converts the request body to the domain form.
func (r InsightsRequest) ToDomainInsightsRequest() domain.InsightsRequest {
	out := domain.InsightsRequest{
		Categories:     make([]domain.CategorySpend, len(r.Categories)),
		TotalExpenses:  r.TotalExpenses,
		RecentExpenses: make([]domain.RecentExpense, len(r.RecentExpenses)),
	}
	for i, c := range r.Categories {
		out.Categories[i] = domain.CategorySpend{ID: domain.Category(c.ID), Name: c.Name, Total: c.Total}
	}
	for i, e := range r.RecentExpenses {
		out.RecentExpenses[i] = domain.RecentExpense{
			Name:     e.Name,
			Amount:   e.Amount,
			Category: domain.Category(e.Category),
			Date:     e.Date,
		}
	}
	return out
}
