package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/medisave/internal/apperrors"
	"github.com/SscSPs/medisave/internal/core/domain"
	portssvc "github.com/SscSPs/medisave/internal/core/ports/services"
	"github.com/SscSPs/medisave/internal/utils/ledger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// insightsRecentLimit is how many records the insights summary carries.
const insightsRecentLimit = 10

type subscription struct {
	id       uint64
	listener portssvc.DeltaListener
}

// expenseService is the mutation surface and read side of the ledger.
// Mutations are serialized; each successful one performs exactly one slot
// write and emits at most one delta notification, in mutation order.
type expenseService struct {
	BaseService
	store    *ExpenseStore
	validate *validator.Validate
	newID    func() string
	now      func() time.Time

	mu sync.Mutex

	subsMu  sync.RWMutex
	subs    []subscription
	nextSub uint64
}

// ExpenseServiceOption configures an expense service.
type ExpenseServiceOption func(*expenseService)

// WithIDGenerator overrides how record ids are minted.
func WithIDGenerator(gen func() string) ExpenseServiceOption {
	return func(s *expenseService) { s.newID = gen }
}

// WithClock overrides the time source used for delta timestamps.
func WithClock(now func() time.Time) ExpenseServiceOption {
	return func(s *expenseService) { s.now = now }
}

// WithDeltaListeners subscribes listeners at construction time.
func WithDeltaListeners(listeners ...portssvc.DeltaListener) ExpenseServiceOption {
	return func(s *expenseService) {
		for _, l := range listeners {
			s.Subscribe(l)
		}
	}
}

// NewExpenseService creates the ledger service over a loaded store.
func NewExpenseService(store *ExpenseStore, opts ...ExpenseServiceOption) portssvc.ExpenseSvcFacade {
	s := &expenseService{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a listener and returns a function that removes it.
func (s *expenseService) Subscribe(listener portssvc.DeltaListener) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscription{id: id, listener: listener})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool { return sub.id == id })
		})
	}
}

func (s *expenseService) emit(ctx context.Context, event domain.DeltaEvent) {
	s.subsMu.RLock()
	subs := slices.Clone(s.subs)
	s.subsMu.RUnlock()

	for _, sub := range subs {
		func() {
			defer s.recoverListener(ctx, fmt.Sprintf("%T", sub.listener))
			sub.listener.OnExpenseDelta(ctx, event)
		}()
	}
}

// AddExpense validates the draft, appends a new record and announces +amount.
func (s *expenseService) AddExpense(ctx context.Context, draft domain.ExpenseDraft) (*domain.ExpenseRecord, error) {
	fields, err := s.checkDraft(draft)
	if err != nil {
		s.LogDebug(ctx, "Rejected expense draft", slog.String("error", err.Error()))
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := fields
	record.ID = s.newID()

	records := append(s.store.Snapshot(), record)
	s.store.ReplaceAll(ctx, records)

	s.emit(ctx, domain.DeltaEvent{
		ExpenseID:   record.ID,
		Kind:        domain.DeltaAdded,
		AmountDelta: record.Amount,
		Category:    record.Category,
		Date:        record.Date,
		OccurredAt:  s.now(),
	})

	s.LogInfo(ctx, "Expense added", slog.String("expense_id", record.ID), slog.String("amount", record.Amount.StringFixed(domain.AmountPlaces)))
	return &record, nil
}

// UpdateExpense replaces every mutable field of the record and announces the
// amount change when there is one.
func (s *expenseService) UpdateExpense(ctx context.Context, id string, draft domain.ExpenseDraft) (*domain.ExpenseRecord, error) {
	fields, err := s.checkDraft(draft)
	if err != nil {
		s.LogDebug(ctx, "Rejected expense draft", slog.String("expense_id", id), slog.String("error", err.Error()))
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.store.Snapshot()
	idx := slices.IndexFunc(records, func(r domain.ExpenseRecord) bool { return r.ID == id })
	if idx < 0 {
		return nil, apperrors.NewNotFoundError("expense", id)
	}

	old := records[idx]
	updated := fields
	updated.ID = old.ID
	records[idx] = updated
	s.store.ReplaceAll(ctx, records)

	delta := updated.Amount.Sub(old.Amount)
	if !delta.IsZero() {
		s.emit(ctx, domain.DeltaEvent{
			ExpenseID:   updated.ID,
			Kind:        domain.DeltaUpdated,
			AmountDelta: delta,
			Category:    updated.Category,
			Date:        updated.Date,
			OccurredAt:  s.now(),
		})
	}

	s.LogInfo(ctx, "Expense updated", slog.String("expense_id", id), slog.String("delta", delta.StringFixed(domain.AmountPlaces)))
	return &updated, nil
}

// RemoveExpense deletes the record and announces -amount.
func (s *expenseService) RemoveExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.store.Snapshot()
	idx := slices.IndexFunc(records, func(r domain.ExpenseRecord) bool { return r.ID == id })
	if idx < 0 {
		return apperrors.NewNotFoundError("expense", id)
	}

	removed := records[idx]
	records = slices.Delete(records, idx, idx+1)
	s.store.ReplaceAll(ctx, records)

	s.emit(ctx, domain.DeltaEvent{
		ExpenseID:   removed.ID,
		Kind:        domain.DeltaRemoved,
		AmountDelta: removed.Amount.Neg(),
		Category:    removed.Category,
		Date:        removed.Date,
		OccurredAt:  s.now(),
	})

	s.LogInfo(ctx, "Expense removed", slog.String("expense_id", id))
	return nil
}

// checkDraft validates a draft and returns the normalized record fields.
func (s *expenseService) checkDraft(draft domain.ExpenseDraft) (domain.ExpenseRecord, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Amount = strings.TrimSpace(draft.Amount)
	draft.Notes = strings.TrimSpace(draft.Notes)
	draft.Category = domain.Category(strings.ToLower(strings.TrimSpace(string(draft.Category))))

	if err := s.validate.Struct(draft); err != nil {
		return domain.ExpenseRecord{}, translateValidation(err)
	}

	amount, err := ledger.ParseAmount(draft.Amount)
	if err == nil {
		// Rounding can carry an amount just below the bound onto it.
		amount = ledger.NormalizeAmount(amount)
		err = ledger.CheckAmount(amount)
	}
	if errors.Is(err, ledger.ErrAmountOutOfRange) {
		return domain.ExpenseRecord{}, apperrors.NewValidationError("amount", "is out of range")
	}
	if err != nil {
		return domain.ExpenseRecord{}, apperrors.NewValidationError("amount", "must be a number")
	}
	if !amount.IsPositive() {
		return domain.ExpenseRecord{}, apperrors.NewValidationError("amount", "must be greater than zero")
	}

	if draft.Date.IsZero() {
		return domain.ExpenseRecord{}, apperrors.NewValidationError("date", "is required")
	}

	category := draft.Category
	if category == "" {
		category = domain.DefaultCategory
	}

	return domain.ExpenseRecord{
		Name:     draft.Name,
		Amount:   amount,
		Category: category,
		Date:     draft.Date,
		Notes:    draft.Notes,
	}, nil
}

func translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.NewValidationError("", err.Error())
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return apperrors.NewValidationError(field, "is required")
	case "max":
		return apperrors.NewValidationError(field, fmt.Sprintf("must be at most %s characters", fe.Param()))
	case "oneof":
		return apperrors.NewValidationError(field, "must be one of "+strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return apperrors.NewValidationError(field, "is invalid")
	}
}

// ListExpenses returns the filtered, sorted view.
func (s *expenseService) ListExpenses(ctx context.Context, filter domain.ListFilter, sort domain.SortSpec) []domain.ExpenseRecord {
	return ledger.Sort(ledger.Filter(s.store.Snapshot(), filter), sort)
}

// ListingView derives the listing and both totals from a single snapshot so
// they agree even while writes are in flight.
func (s *expenseService) ListingView(ctx context.Context, filter domain.ListFilter, sort domain.SortSpec) domain.ExpenseListing {
	all := s.store.Snapshot()
	records := ledger.Sort(ledger.Filter(all, filter), sort)
	return domain.ExpenseListing{
		Records:      records,
		RunningTotal: ledger.RunningTotal(records),
		GrandTotal:   ledger.RunningTotal(all),
	}
}

// GetExpense retrieves a record by id.
func (s *expenseService) GetExpense(ctx context.Context, id string) (*domain.ExpenseRecord, error) {
	for _, r := range s.store.Snapshot() {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, apperrors.NewNotFoundError("expense", id)
}

// CategoryTotals maps every category to its sum over the whole ledger.
func (s *expenseService) CategoryTotals(ctx context.Context) map[domain.Category]decimal.Decimal {
	return ledger.TotalsByCategory(s.store.Snapshot())
}

// Summary computes the dashboard figures. Category totals always cover the
// whole ledger; FilteredTotal and RecordCount follow the filter.
func (s *expenseService) Summary(ctx context.Context, filter domain.ListFilter) domain.LedgerSummary {
	all := s.store.Snapshot()
	filtered := ledger.Filter(all, filter)
	totals := ledger.CategoryTotals(all)
	return domain.LedgerSummary{
		GrandTotal:     ledger.RunningTotal(all),
		FilteredTotal:  ledger.RunningTotal(filtered),
		RecordCount:    len(filtered),
		CategoryTotals: totals,
		Chart:          ledger.ChartTotals(totals),
	}
}

// InsightsRequest summarizes the ledger for the assistant: every category
// total rounded to cents, the grand total and the first records in store order.
func (s *expenseService) InsightsRequest(ctx context.Context) domain.InsightsRequest {
	all := s.store.Snapshot()

	req := domain.InsightsRequest{TotalExpenses: decimal.Zero}
	for _, ct := range ledger.CategoryTotals(all) {
		req.Categories = append(req.Categories, domain.CategorySpend{
			ID:    ct.Category,
			Name:  domain.DescribeCategory(ct.Category).DisplayName,
			Total: ledger.NormalizeAmount(ct.Total),
		})
	}
	for _, r := range all {
		req.TotalExpenses = req.TotalExpenses.Add(ledger.NormalizeAmount(r.Amount))
	}
	for _, r := range ledger.Head(all, insightsRecentLimit) {
		req.RecentExpenses = append(req.RecentExpenses, domain.RecentExpense{
			Name:     r.Name,
			Amount:   r.Amount,
			Category: r.Category,
			Date:     r.Date.String(),
		})
	}
	return req
}
