// Package analytics reports ledger activity to product analytics.
package analytics

import (
	"context"

	"github.com/SscSPs/medisave/internal/core/domain"
	"github.com/SscSPs/medisave/internal/middleware"
)

// Enqueuer is satisfied by utils.PosthogClientWrapper.
type Enqueuer interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}

// DeltaTracker captures an "expense_delta" event for every ledger delta.
type DeltaTracker struct {
	client Enqueuer
}

func NewDeltaTracker(client Enqueuer) *DeltaTracker {
	return &DeltaTracker{client: client}
}

func (t *DeltaTracker) OnExpenseDelta(ctx context.Context, event domain.DeltaEvent) {
	if t.client == nil {
		return
	}
	t.client.Enqueue(middleware.DistinctID(ctx), "expense_delta", map[string]any{
		"expense_id":   event.ExpenseID,
		"kind":         string(event.Kind),
		"amount_delta": event.AmountDelta.StringFixed(domain.AmountPlaces),
		"category":     string(event.Category.Bucket()),
		"request_id":   middleware.GetRequestIDFromCtx(ctx),
	})
}
