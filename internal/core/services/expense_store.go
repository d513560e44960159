package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/SscSPs/medisave/internal/apperrors"
	"github.com/SscSPs/medisave/internal/core/domain"
	portsrepo "github.com/SscSPs/medisave/internal/core/ports/repositories"
	"github.com/SscSPs/medisave/internal/models"
	"github.com/SscSPs/medisave/internal/utils/mapping"
)

// DefaultSlotKey is the durable slot the ledger lives in.
const DefaultSlotKey = "expenses"

const persistTimeout = 5 * time.Second

// ExpenseStore holds the canonical ordered sequence of expense records and
// mirrors every change to a durable slot. Durable failures are logged as
// persistence warnings and never reach the caller.
type ExpenseStore struct {
	BaseService
	slots portsrepo.SlotRepositoryFacade
	key   string

	mu      sync.RWMutex
	records []domain.ExpenseRecord
	version uint64
}

// NewExpenseStore creates an empty store bound to a slot. Call Load to rehydrate.
func NewExpenseStore(slots portsrepo.SlotRepositoryFacade, key string) *ExpenseStore {
	if key == "" {
		key = DefaultSlotKey
	}
	return &ExpenseStore{slots: slots, key: key, records: []domain.ExpenseRecord{}}
}

// Load replaces the in-memory sequence with the slot contents. An absent,
// unreadable or malformed slot yields an empty ledger.
func (s *ExpenseStore) Load(ctx context.Context) int {
	records := s.read(ctx)

	s.mu.Lock()
	s.records = records
	s.version++
	s.mu.Unlock()

	s.LogInfo(ctx, "Expense store loaded", slog.String("slot_key", s.key), slog.Int("records", len(records)))
	return len(records)
}

func (s *ExpenseStore) read(ctx context.Context) []domain.ExpenseRecord {
	blob, err := s.slots.Read(ctx, s.key)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.warn(ctx, &apperrors.PersistenceWarning{Op: "read", Key: s.key, Err: err})
		}
		return []domain.ExpenseRecord{}
	}

	records, problems := DecodeExpenses(blob)
	for _, p := range problems {
		s.warn(ctx, &apperrors.PersistenceWarning{Op: "decode", Key: s.key, Err: p})
	}
	return records
}

// Snapshot returns a copy of the current sequence.
func (s *ExpenseStore) Snapshot() []domain.ExpenseRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Version increases every time the sequence is replaced.
func (s *ExpenseStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// ReplaceAll swaps the in-memory sequence and writes it to the slot.
func (s *ExpenseStore) ReplaceAll(ctx context.Context, records []domain.ExpenseRecord) {
	next := slices.Clone(records)
	if next == nil {
		next = []domain.ExpenseRecord{}
	}

	s.mu.Lock()
	s.records = next
	s.version++
	s.mu.Unlock()

	s.persist(ctx, next)
}

func (s *ExpenseStore) persist(ctx context.Context, records []domain.ExpenseRecord) {
	blob, err := EncodeExpenses(records)
	if err != nil {
		s.warn(ctx, &apperrors.PersistenceWarning{Op: "encode", Key: s.key, Err: err})
		return
	}

	// The write outlives a cancelled request; the in-memory swap already happened.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := s.slots.Write(wctx, s.key, blob); err != nil {
		s.warn(ctx, &apperrors.PersistenceWarning{Op: "write", Key: s.key, Err: err})
	}
}

func (s *ExpenseStore) warn(ctx context.Context, w *apperrors.PersistenceWarning) {
	s.GetLogger(ctx).Warn("Persistence warning, ledger continues in memory",
		slog.String("operation", w.Op),
		slog.String("slot_key", w.Key),
		slog.String("error", w.Err.Error()),
	)
}

// EncodeExpenses serializes records into the slot blob format.
func EncodeExpenses(records []domain.ExpenseRecord) ([]byte, error) {
	return json.Marshal(mapping.ToModelExpenseSlice(records))
}

// DecodeExpenses parses a slot blob. A blob that is not a JSON array decodes
// to an empty sequence; individual records that cannot be decoded are skipped
// and reported.
func DecodeExpenses(blob []byte) ([]domain.ExpenseRecord, []error) {
	records := []domain.ExpenseRecord{}
	if len(blob) == 0 {
		return records, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		return records, []error{fmt.Errorf("slot is not a JSON array: %w", err)}
	}

	var problems []error
	for i, item := range raw {
		var m models.Expense
		if err := json.Unmarshal(item, &m); err != nil {
			problems = append(problems, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		rec, err := mapping.ToDomainExpense(m)
		if err != nil {
			problems = append(problems, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		records = append(records, rec)
	}
	return records, problems
}
