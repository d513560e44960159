package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SscSPs/medisave/internal/core/domain"
	"github.com/SscSPs/medisave/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/medisave/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// balanceService tracks the net spend announced by delta notifications and
// pairs it with the bank balance on request.
type balanceService struct {
	BaseService
	bank gateways.BankGateway

	mu       sync.RWMutex
	netSpend decimal.Decimal
	last     *domain.DeltaEvent
}

// NewBalanceService creates the balance tracker. bank may be nil when no bank
// API is configured.
func NewBalanceService(bank gateways.BankGateway) portssvc.BalanceSvc {
	return &balanceService{bank: bank, netSpend: decimal.Zero}
}

// OnExpenseDelta accumulates the delta. It never blocks on I/O.
func (s *balanceService) OnExpenseDelta(ctx context.Context, event domain.DeltaEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.netSpend = s.netSpend.Add(event.AmountDelta)
	ev := event
	s.last = &ev
}

// Balance returns the tracked spend and, when reachable, the bank balance.
func (s *balanceService) Balance(ctx context.Context) domain.BalanceSnapshot {
	s.mu.RLock()
	snap := domain.BalanceSnapshot{SessionNetSpend: s.netSpend}
	if s.last != nil {
		ev := *s.last
		snap.LastDelta = &ev
	}
	s.mu.RUnlock()

	if s.bank == nil {
		return snap
	}
	balance, err := s.bank.AccountBalance(ctx)
	if err != nil {
		s.GetLogger(ctx).Warn("Bank balance lookup failed", slog.String("error", err.Error()))
		return snap
	}
	snap.AccountBalance = &balance
	return snap
}
