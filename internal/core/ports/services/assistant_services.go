package services

import (
	"context"

	"github.com/SscSPs/medisave/internal/core/domain"
)

// AssistantSvc proxies the AI-backed features. Every method fails with
// apperrors.ErrUnavailable when no model API key is configured.
type AssistantSvc interface {
	// ScanReceipt extracts expense details from a receipt image or PDF.
	ScanReceipt(ctx context.Context, upload domain.ReceiptUpload) (*domain.ReceiptData, error)

	// GenerateInsights analyses a spending summary.
	GenerateInsights(ctx context.Context, req domain.InsightsRequest) (*domain.Insights, error)

	// SuggestAlternatives proposes cheaper options for one expense.
	SuggestAlternatives(ctx context.Context, req domain.AlternativesRequest) ([]domain.MedicalItem, error)

	// Chat answers a free-form question given the prior conversation.
	Chat(ctx context.Context, message string, history []domain.ChatMessage) (string, error)
}
