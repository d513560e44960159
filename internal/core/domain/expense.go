package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of decimal places amounts are normalized to on write.
const AmountPlaces = 2

// ExpenseRecord is one user-entered healthcare cost.
type ExpenseRecord struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Category Category        `json:"category"`
	Date     Date            `json:"date"`
	Notes    string          `json:"notes,omitempty"`
}

// ExpenseDraft is the unvalidated input for add and update. Amount is kept as
// the raw text the user typed so parse failures surface as validation errors.
type ExpenseDraft struct {
	Name     string   `validate:"required,max=200"`
	Amount   string   `validate:"required"`
	Category Category `validate:"omitempty,oneof=medication consultation test hospital other"`
	Date     Date
	Notes    string `validate:"max=2000"`
}

// DeltaKind names the mutation that produced a DeltaEvent.
type DeltaKind string

const (
	DeltaAdded   DeltaKind = "added"
	DeltaUpdated DeltaKind = "updated"
	DeltaRemoved DeltaKind = "removed"
)

// DeltaEvent announces the net change in total spend caused by one mutation.
type DeltaEvent struct {
	ExpenseID   string          `json:"expenseId"`
	Kind        DeltaKind       `json:"kind"`
	AmountDelta decimal.Decimal `json:"amountDelta"`
	Category    Category        `json:"category"`
	Date        Date            `json:"date"`
	OccurredAt  time.Time       `json:"occurredAt"`
}

// CategoryTotal is the summed amount of one category bucket.
type CategoryTotal struct {
	Category Category
	Total    decimal.Decimal
}

// ExpenseListing is one listing with its totals, all taken from the same
// ledger state.
type ExpenseListing struct {
	Records      []ExpenseRecord
	RunningTotal decimal.Decimal
	GrandTotal   decimal.Decimal
}

// LedgerSummary is the aggregate view of the ledger for one filter.
type LedgerSummary struct {
	GrandTotal     decimal.Decimal
	FilteredTotal  decimal.Decimal
	RecordCount    int
	CategoryTotals []CategoryTotal
	Chart          []CategoryTotal
}
