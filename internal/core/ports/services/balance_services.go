package services

import (
	"context"

	"github.com/SscSPs/medisave/internal/core/domain"
)

// BalanceSvc reports the bank balance alongside spend tracked from deltas.
type BalanceSvc interface {
	DeltaListener
	Balance(ctx context.Context) domain.BalanceSnapshot
}
