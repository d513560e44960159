// Package ledger holds the pure derivations computed from the expense sequence:
// filtering, ordering, category aggregates and running totals. None of the
// functions mutate their input.
package ledger

import (
	"slices"
	"strings"

	"github.com/SscSPs/medisave/internal/core/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filter keeps records whose category matches the selection (all when the
// selection is empty or "all") and whose name or notes contain the search
// term. Both comparisons ignore case.
func Filter(records []domain.ExpenseRecord, f domain.ListFilter) []domain.ExpenseRecord {
	selected := strings.ToLower(strings.TrimSpace(f.Category))
	term := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]domain.ExpenseRecord, 0, len(records))
	for _, r := range records {
		if selected != "" && selected != domain.CategoryAll && !strings.EqualFold(string(r.Category), selected) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(r.Name), term) &&
			!strings.Contains(strings.ToLower(r.Notes), term) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Sort returns a stably ordered copy. Ties keep their prior relative order in
// both directions.
func Sort(records []domain.ExpenseRecord, spec domain.SortSpec) []domain.ExpenseRecord {
	out := slices.Clone(records)
	if out == nil {
		out = []domain.ExpenseRecord{}
	}

	var cmp func(a, b domain.ExpenseRecord) int
	switch spec.Field {
	case domain.SortByAmount:
		cmp = func(a, b domain.ExpenseRecord) int { return a.Amount.Cmp(b.Amount) }
	case domain.SortByName:
		// Collators keep internal buffers and are not safe for concurrent use.
		col := collate.New(language.English)
		cmp = func(a, b domain.ExpenseRecord) int { return col.CompareString(a.Name, b.Name) }
	default:
		cmp = func(a, b domain.ExpenseRecord) int { return a.Date.Compare(b.Date) }
	}

	if spec.Direction == domain.Descending {
		asc := cmp
		cmp = func(a, b domain.ExpenseRecord) int { return asc(b, a) }
	}

	slices.SortStableFunc(out, cmp)
	return out
}

// CategoryTotals sums amounts per category for all five categories in display
// order, zero sums included. Unrecognized categories count toward other.
func CategoryTotals(records []domain.ExpenseRecord) []domain.CategoryTotal {
	sums := TotalsByCategory(records)
	cats := domain.Categories()
	out := make([]domain.CategoryTotal, len(cats))
	for i, c := range cats {
		out[i] = domain.CategoryTotal{Category: c.ID, Total: sums[c.ID]}
	}
	return out
}

// TotalsByCategory is CategoryTotals keyed by category id. Every known
// category is present.
func TotalsByCategory(records []domain.ExpenseRecord) map[domain.Category]decimal.Decimal {
	sums := make(map[domain.Category]decimal.Decimal, 5)
	for _, c := range domain.Categories() {
		sums[c.ID] = decimal.Zero
	}
	for _, r := range records {
		b := r.Category.Bucket()
		sums[b] = sums[b].Add(r.Amount)
	}
	return sums
}

// ChartTotals drops zero-sum buckets, for chart-style views.
func ChartTotals(totals []domain.CategoryTotal) []domain.CategoryTotal {
	out := make([]domain.CategoryTotal, 0, len(totals))
	for _, t := range totals {
		if t.Total.IsZero() {
			continue
		}
		out = append(out, t)
	}
	return out
}

// RunningTotal sums the amounts of the given (usually filtered) records.
func RunningTotal(records []domain.ExpenseRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total.Round(domain.AmountPlaces)
}

// Head returns at most n leading records; n <= 0 means no limit.
func Head(records []domain.ExpenseRecord, n int) []domain.ExpenseRecord {
	if n <= 0 || n >= len(records) {
		return records
	}
	return records[:n]
}
