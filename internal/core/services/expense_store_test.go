package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/SscSPs/medisave/internal/core/domain"
	"github.com/SscSPs/medisave/internal/core/services"
	"github.com/SscSPs/medisave/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestExpenseStore_LoadAbsentSlot(t *testing.T) {
	store := services.NewExpenseStore(memory.NewSlotRepository(), "")

	assert.Equal(t, 0, store.Load(context.Background()))
	assert.Empty(t, store.Snapshot())
}

func TestExpenseStore_LoadMalformedSlot(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotRepository()
	require.NoError(t, slots.Write(ctx, services.DefaultSlotKey, []byte("{not json")))

	store := services.NewExpenseStore(slots, services.DefaultSlotKey)

	assert.Equal(t, 0, store.Load(ctx))
	assert.NotNil(t, store.Snapshot())
	assert.Empty(t, store.Snapshot())
}

func TestExpenseStore_LoadReadFailure(t *testing.T) {
	repo := new(MockSlotRepository)
	repo.On("Read", mock.Anything, "expenses").Return(nil, errors.New("disk on fire")).Once()

	store := services.NewExpenseStore(repo, "expenses")

	assert.Equal(t, 0, store.Load(context.Background()))
	repo.AssertExpectations(t)
}

func TestExpenseStore_LoadLegacyRecords(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotRepository()
	blob := `[
		{"id":1700000000000,"name":"Old visit","amount":"12.5","category":"dental","date":"2024-01-01T10:00:00.000Z"},
		{"id":"x","name":"Broken","amount":"abc","category":"test","date":"2024-01-01"},
		{"id":"y","name":"Bad date","amount":3,"category":"test","date":"yesterday"},
		5,
		{"id":"z","name":"Inhaler","amount":40,"category":"medication","date":"2024-02-03","notes":"refill"}
	]`
	require.NoError(t, slots.Write(ctx, "expenses", []byte(blob)))

	store := services.NewExpenseStore(slots, "expenses")
	require.Equal(t, 2, store.Load(ctx))

	records := store.Snapshot()
	assert.Equal(t, "1700000000000", records[0].ID)
	assert.Equal(t, "Old visit", records[0].Name)
	assert.True(t, records[0].Amount.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, domain.Category("dental"), records[0].Category)
	assert.Equal(t, mustDate(t, "2024-01-01"), records[0].Date)

	assert.Equal(t, "z", records[1].ID)
	assert.Equal(t, "refill", records[1].Notes)
}

func TestExpenseStore_LoadSkipsOutOfRangeAmounts(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotRepository()
	blob := `[
		{"id":"a","name":"Huge","amount":1e2000000000,"category":"test","date":"2024-01-01"},
		{"id":"b","name":"Also huge","amount":"1e13","category":"test","date":"2024-01-01"},
		{"id":"c","name":"Inhaler","amount":40,"category":"medication","date":"2024-02-03"}
	]`
	require.NoError(t, slots.Write(ctx, "expenses", []byte(blob)))

	store := services.NewExpenseStore(slots, "expenses")
	require.Equal(t, 1, store.Load(ctx))
	assert.Equal(t, "c", store.Snapshot()[0].ID)
}

func TestExpenseStore_ReplaceAllRoundTrip(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotRepository()
	store := services.NewExpenseStore(slots, "expenses")
	store.Load(ctx)
	before := store.Version()

	records := []domain.ExpenseRecord{
		{ID: "a", Name: "Tylenol", Amount: decimal.RequireFromString("20"), Category: domain.CategoryMedication, Date: mustDate(t, "2024-01-01")},
		{ID: "b", Name: "X-ray", Amount: decimal.RequireFromString("150.5"), Category: domain.CategoryTest, Date: mustDate(t, "2024-01-02"), Notes: "left arm"},
	}
	store.ReplaceAll(ctx, records)

	assert.Greater(t, store.Version(), before)
	assert.Equal(t, 1, slots.Writes())

	reloaded := services.NewExpenseStore(slots, "expenses")
	require.Equal(t, 2, reloaded.Load(ctx))
	got := reloaded.Snapshot()
	for i := range records {
		assert.Equal(t, records[i].ID, got[i].ID)
		assert.Equal(t, records[i].Name, got[i].Name)
		assert.True(t, records[i].Amount.Equal(got[i].Amount), "amount %d", i)
		assert.Equal(t, records[i].Category, got[i].Category)
		assert.Equal(t, records[i].Date, got[i].Date)
		assert.Equal(t, records[i].Notes, got[i].Notes)
	}
}

func TestExpenseStore_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	store := services.NewExpenseStore(memory.NewSlotRepository(), "expenses")
	store.ReplaceAll(ctx, []domain.ExpenseRecord{{ID: "a", Name: "Tylenol", Amount: decimal.NewFromInt(5), Category: domain.CategoryMedication}})

	snap := store.Snapshot()
	snap[0].Name = "changed"

	assert.Equal(t, "Tylenol", store.Snapshot()[0].Name)
}

func TestExpenseStore_WriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSlotRepository)
	repo.On("Write", mock.Anything, "expenses", mock.AnythingOfType("[]uint8")).Return(errors.New("quota exceeded")).Once()
	store := services.NewExpenseStore(repo, "expenses")

	assert.NotPanics(t, func() {
		store.ReplaceAll(ctx, []domain.ExpenseRecord{{ID: "a", Name: "Tylenol", Amount: decimal.NewFromInt(5), Category: domain.CategoryMedication}})
	})
	assert.Len(t, store.Snapshot(), 1)
	repo.AssertExpectations(t)
}

func TestExpenseStore_WriteSurvivesCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := new(MockSlotRepository)
	repo.On("Write", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), "expenses", mock.Anything).Return(nil).Once()
	store := services.NewExpenseStore(repo, "expenses")

	store.ReplaceAll(ctx, nil)

	assert.NotNil(t, store.Snapshot())
	repo.AssertExpectations(t)
}

func TestEncodeExpenses_FixedPointAmounts(t *testing.T) {
	blob, err := services.EncodeExpenses([]domain.ExpenseRecord{
		{ID: "a", Name: "Tylenol", Amount: decimal.NewFromInt(20), Category: domain.CategoryMedication, Date: mustDate(t, "2024-01-01")},
	})
	require.NoError(t, err)

	var raw []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(blob, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "20.00", string(raw[0]["amount"]))
	assert.Equal(t, `"2024-01-01"`, string(raw[0]["date"]))
	assert.NotContains(t, raw[0], "notes")
}

func TestDecodeExpenses_EmptyBlob(t *testing.T) {
	records, problems := services.DecodeExpenses(nil)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Empty(t, problems)
}
