package domain

import "github.com/shopspring/decimal"

// ReceiptUpload is a receipt image or document submitted for scanning.
type ReceiptUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReceiptData is what the model extracted from a receipt.
type ReceiptData struct {
	Date          string          `json:"date"`
	Provider      string          `json:"provider"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Category      Category        `json:"category"`
	InsuranceInfo string          `json:"insuranceInfo"`
}

// CategorySpend is one category line in an insights request.
type CategorySpend struct {
	ID    Category        `json:"id"`
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// RecentExpense is one expense line in an insights request.
type RecentExpense struct {
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Category Category        `json:"category"`
	Date     string          `json:"date"`
}

// InsightsRequest is the spending summary sent to the model for analysis.
type InsightsRequest struct {
	Categories     []CategorySpend
	TotalExpenses  decimal.Decimal
	RecentExpenses []RecentExpense
}

// Insights is the model's spending analysis.
type Insights struct {
	Analysis        string   `json:"analysis"`
	Recommendations []string `json:"recommendations"`
	Summary         string   `json:"summary"`
}

// AlternativesRequest asks for cheaper options for one expense.
type AlternativesRequest struct {
	ExpenseName   string
	ExpenseAmount decimal.Decimal
	Category      Category
	Notes         string
}

// Alternative is one cheaper option suggested by the model.
type Alternative struct {
	Name          string `json:"name"`
	EstimatedCost string `json:"estimatedCost"`
	Explanation   string `json:"explanation"`
}

// MedicalItem groups the alternatives for one item of the original expense.
type MedicalItem struct {
	OriginalItem string        `json:"originalItem"`
	Alternatives []Alternative `json:"alternatives"`
}

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
