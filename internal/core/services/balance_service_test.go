package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/medisave/internal/core/domain"
	"github.com/SscSPs/medisave/internal/core/services"
	"github.com/SscSPs/medisave/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock BankGateway ---
type MockBankGateway struct {
	mock.Mock
}

func (m *MockBankGateway) AccountBalance(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		LedgerSlotKey:       "expenses",
		ReceiptMaxBytes:     services.DefaultReceiptMaxBytes,
		ReceiptMaxDimension: services.DefaultReceiptMaxDimension,
	}
}

func TestBalanceService_AccumulatesDeltas(t *testing.T) {
	ctx := context.Background()
	svc := services.NewBalanceService(nil)

	svc.OnExpenseDelta(ctx, domain.DeltaEvent{ExpenseID: "a", Kind: domain.DeltaAdded, AmountDelta: decimal.RequireFromString("30")})
	svc.OnExpenseDelta(ctx, domain.DeltaEvent{ExpenseID: "a", Kind: domain.DeltaUpdated, AmountDelta: decimal.RequireFromString("-5.5")})

	snap := svc.Balance(ctx)

	assert.Nil(t, snap.AccountBalance)
	assert.True(t, snap.SessionNetSpend.Equal(decimal.RequireFromString("24.5")))
	require.NotNil(t, snap.LastDelta)
	assert.Equal(t, domain.DeltaUpdated, snap.LastDelta.Kind)
}

func TestBalanceService_EmptySession(t *testing.T) {
	snap := services.NewBalanceService(nil).Balance(context.Background())

	assert.True(t, snap.SessionNetSpend.IsZero())
	assert.Nil(t, snap.LastDelta)
}

func TestBalanceService_BankBalance(t *testing.T) {
	ctx := context.Background()
	bank := new(MockBankGateway)
	bank.On("AccountBalance", ctx).Return(decimal.RequireFromString("1523.46"), nil).Once()

	snap := services.NewBalanceService(bank).Balance(ctx)

	require.NotNil(t, snap.AccountBalance)
	assert.Equal(t, "1523.46", snap.AccountBalance.StringFixed(2))
	bank.AssertExpectations(t)
}

func TestBalanceService_BankFailureLeavesBalanceUnknown(t *testing.T) {
	ctx := context.Background()
	bank := new(MockBankGateway)
	bank.On("AccountBalance", ctx).Return(decimal.Zero, errors.New("connection refused")).Once()
	svc := services.NewBalanceService(bank)
	svc.OnExpenseDelta(ctx, domain.DeltaEvent{Kind: domain.DeltaAdded, AmountDelta: decimal.NewFromInt(10)})

	snap := svc.Balance(ctx)

	assert.Nil(t, snap.AccountBalance)
	assert.True(t, snap.SessionNetSpend.Equal(decimal.NewFromInt(10)))
	bank.AssertExpectations(t)
}

func TestServiceContainer_ExpenseDeltasReachBalance(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSlotRepository)
	repo.On("Write", mock.Anything, "expenses", mock.Anything).Return(nil)

	store := services.NewExpenseStore(repo, "expenses")
	container := services.NewServiceContainer(testConfig(), store, services.Collaborators{})

	rec, err := container.Expense.AddExpense(ctx, draft("Tylenol", "12.50", domain.CategoryMedication, "2024-01-01"))
	require.NoError(t, err)
	require.NoError(t, container.Expense.RemoveExpense(ctx, rec.ID))
	_, err = container.Expense.AddExpense(ctx, draft("X-ray", "150", domain.CategoryTest, "2024-01-02"))
	require.NoError(t, err)

	snap := container.Balance.Balance(ctx)
	assert.Equal(t, "150.00", snap.SessionNetSpend.StringFixed(2))
	require.NotNil(t, snap.LastDelta)
	assert.Equal(t, domain.DeltaAdded, snap.LastDelta.Kind)
}
