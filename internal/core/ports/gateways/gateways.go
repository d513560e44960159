// Package gateways declares the outbound ports to external collaborators:
// the completion model behind the assistant and the bank account API.
package gateways

import (
	"context"

	"github.com/SscSPs/medisave/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ImageAttachment is an image or document sent alongside the last user turn.
type ImageAttachment struct {
	MediaType string
	Data      []byte
}

// CompletionRequest is one chat completion call.
type CompletionRequest struct {
	System      string
	Messages    []domain.ChatMessage
	Attachment  *ImageAttachment
	MaxTokens   int
	Temperature *float64
}

// CompletionGateway returns the text of the model's first choice.
type CompletionGateway interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// BankGateway reads the balance of the configured account.
type BankGateway interface {
	AccountBalance(ctx context.Context) (decimal.Decimal, error)
}
