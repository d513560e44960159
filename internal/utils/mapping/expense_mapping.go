package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/medisave/internal/core/domain"
	"github.com/SscSPs/medisave/internal/models"
	"github.com/SscSPs/medisave/internal/utils/ledger"
	"github.com/google/uuid"
)

// ToModelExpense converts a domain ExpenseRecord to its persisted form.
// Amounts are written as JSON numbers with two decimals.
func ToModelExpense(d domain.ExpenseRecord) models.Expense {
	return models.Expense{
		ID:       models.LegacyID(d.ID),
		Name:     d.Name,
		Amount:   json.Number(d.Amount.StringFixed(domain.AmountPlaces)),
		Category: string(d.Category),
		Date:     d.Date.String(),
		Notes:    d.Notes,
	}
}

// ToDomainExpense converts a persisted expense to a domain ExpenseRecord.
// A missing id is replaced with a fresh one; the category is kept verbatim so
// unknown values still render through the sentinel descriptor.
func ToDomainExpense(m models.Expense) (domain.ExpenseRecord, error) {
	amount, err := ledger.ParseAmount(m.Amount.String())
	if err != nil {
		return domain.ExpenseRecord{}, fmt.Errorf("expense %q: invalid amount %q: %w", m.ID, m.Amount, err)
	}
	date, err := domain.ParseDate(m.Date)
	if err != nil {
		return domain.ExpenseRecord{}, fmt.Errorf("expense %q: %w", m.ID, err)
	}
	id := string(m.ID)
	if id == "" {
		id = uuid.NewString()
	}
	return domain.ExpenseRecord{
		ID:       id,
		Name:     m.Name,
		Amount:   amount,
		Category: domain.Category(m.Category),
		Date:     date,
		Notes:    m.Notes,
	}, nil
}

// ToModelExpenseSlice converts a slice of domain records to persisted form.
func ToModelExpenseSlice(ds []domain.ExpenseRecord) []models.Expense {
	ms := make([]models.Expense, len(ds))
	for i, d := range ds {
		ms[i] = ToModelExpense(d)
	}
	return ms
}
