package domain

import "github.com/shopspring/decimal"

// BalanceSnapshot combines the bank account balance with the spend recorded
// in this process since start.
type BalanceSnapshot struct {
	// AccountBalance is nil when the bank API is not configured or failed.
	AccountBalance  *decimal.Decimal
	SessionNetSpend decimal.Decimal
	LastDelta       *DeltaEvent
}
