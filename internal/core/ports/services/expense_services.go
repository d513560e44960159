package services

import (
	"context"

	"github.com/SscSPs/medisave/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExpenseReaderSvc defines the read-only views over the expense ledger.
type ExpenseReaderSvc interface {
	// ListExpenses returns the filtered and sorted view of the ledger.
	ListExpenses(ctx context.Context, filter domain.ListFilter, sort domain.SortSpec) []domain.ExpenseRecord

	// ListingView returns the listing together with its running total and
	// the ledger grand total.
	ListingView(ctx context.Context, filter domain.ListFilter, sort domain.SortSpec) domain.ExpenseListing

	// GetExpense retrieves a record by id.
	GetExpense(ctx context.Context, id string) (*domain.ExpenseRecord, error)

	// CategoryTotals maps every category id to the sum of its amounts.
	CategoryTotals(ctx context.Context) map[domain.Category]decimal.Decimal

	// Summary computes grand, filtered and per-category totals.
	Summary(ctx context.Context, filter domain.ListFilter) domain.LedgerSummary

	// InsightsRequest builds the spending summary sent to the assistant.
	InsightsRequest(ctx context.Context) domain.InsightsRequest
}

// ExpenseWriterSvc defines the mutation surface of the ledger.
type ExpenseWriterSvc interface {
	// AddExpense validates the draft and appends a new record.
	AddExpense(ctx context.Context, draft domain.ExpenseDraft) (*domain.ExpenseRecord, error)

	// UpdateExpense replaces every mutable field of an existing record.
	UpdateExpense(ctx context.Context, id string, draft domain.ExpenseDraft) (*domain.ExpenseRecord, error)

	// RemoveExpense deletes a record.
	RemoveExpense(ctx context.Context, id string) error
}

// DeltaListener receives the net spend change of each successful mutation.
type DeltaListener interface {
	OnExpenseDelta(ctx context.Context, event domain.DeltaEvent)
}

// DeltaListenerFunc adapts a function to DeltaListener.
type DeltaListenerFunc func(ctx context.Context, event domain.DeltaEvent)

func (f DeltaListenerFunc) OnExpenseDelta(ctx context.Context, event domain.DeltaEvent) {
	f(ctx, event)
}

// DeltaPublisher lets collaborators subscribe to delta notifications. The
// returned function removes the subscription.
type DeltaPublisher interface {
	Subscribe(listener DeltaListener) (unsubscribe func())
}

// ExpenseSvcFacade combines all ledger-related service interfaces.
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
	DeltaPublisher
}
