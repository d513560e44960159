package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/SscSPs/medisave/internal/apperrors"
	"github.com/SscSPs/medisave/internal/core/domain"
	"github.com/SscSPs/medisave/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/medisave/internal/core/ports/services"
	"github.com/SscSPs/medisave/internal/utils/imageprep"
	"github.com/SscSPs/medisave/internal/utils/ledger"
	"github.com/SscSPs/medisave/internal/utils/llmjson"
	"github.com/shopspring/decimal"
)

const (
	receiptMaxTokens      = 500
	insightsMaxTokens     = 800
	alternativesMaxTokens = 1000
	chatMaxTokens         = 600
	chatHistoryLimit      = 20

	// DefaultReceiptMaxBytes caps uploaded receipts at 10 MiB.
	DefaultReceiptMaxBytes = 10 << 20
	// DefaultReceiptMaxDimension bounds the longer side of uploaded photos.
	DefaultReceiptMaxDimension = 1600
)

var alternativesTemperature = 0.7

// amountNoise matches everything that is not part of a plain decimal number.
var amountNoise = regexp.MustCompile(`[^0-9.\-]`)

type assistantService struct {
	BaseService
	model        gateways.CompletionGateway
	maxBytes     int
	maxDimension int
}

// AssistantOption configures the assistant service.
type AssistantOption func(*assistantService)

// WithReceiptLimits overrides the receipt size and resize bounds.
func WithReceiptLimits(maxBytes, maxDimension int) AssistantOption {
	return func(s *assistantService) {
		if maxBytes > 0 {
			s.maxBytes = maxBytes
		}
		s.maxDimension = maxDimension
	}
}

// NewAssistantService creates the AI proxy service. A nil model makes every
// call fail with apperrors.ErrUnavailable.
func NewAssistantService(model gateways.CompletionGateway, opts ...AssistantOption) portssvc.AssistantSvc {
	s := &assistantService{
		model:        model,
		maxBytes:     DefaultReceiptMaxBytes,
		maxDimension: DefaultReceiptMaxDimension,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *assistantService) available() error {
	if s.model == nil {
		return fmt.Errorf("%w: model API key is not configured", apperrors.ErrUnavailable)
	}
	return nil
}

// complete calls the model and extracts a JSON object from its answer.
func (s *assistantService) complete(ctx context.Context, op string, req gateways.CompletionRequest) (llmjson.Result, error) {
	content, err := s.model.Complete(ctx, req)
	if err != nil {
		s.LogError(ctx, err, "Completion request failed", slog.String("operation", op))
		return llmjson.Result{}, fmt.Errorf("%w: %s: %v", apperrors.ErrUpstream, op, err)
	}

	res := llmjson.Extract(content)
	switch res.Status {
	case llmjson.Malformed:
		s.GetLogger(ctx).Warn("Model answer had no JSON object", slog.String("operation", op), slog.String("reason", res.Reason))
		return res, fmt.Errorf("%w: failed to parse %s data", apperrors.ErrUpstream, op)
	case llmjson.Recovered:
		s.LogDebug(ctx, "Recovered JSON from model answer", slog.String("operation", op))
	}
	return res, nil
}

type rawReceipt struct {
	Date          string          `json:"date"`
	Provider      string          `json:"provider"`
	Amount        json.RawMessage `json:"amount"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	InsuranceInfo string          `json:"insuranceInfo"`
}

// ScanReceipt sends the receipt to the model and normalizes what it reads.
func (s *assistantService) ScanReceipt(ctx context.Context, upload domain.ReceiptUpload) (*domain.ReceiptData, error) {
	if len(upload.Data) == 0 {
		return nil, apperrors.NewValidationError("receipt", "is required")
	}
	if len(upload.Data) > s.maxBytes {
		return nil, apperrors.NewValidationError("receipt", fmt.Sprintf("must be at most %d bytes", s.maxBytes))
	}
	mediaType, ok := imageprep.MediaTypeFor(upload.Filename)
	if !ok {
		return nil, apperrors.NewValidationError("receipt", "must be a jpg, jpeg, png, gif, heic or pdf file")
	}
	if err := s.available(); err != nil {
		return nil, err
	}

	prepared, err := imageprep.Prepare(upload.Data, mediaType, s.maxDimension)
	if err != nil {
		return nil, apperrors.NewValidationError("receipt", "could not be decoded as an image")
	}
	if prepared.Resized {
		s.LogDebug(ctx, "Receipt image downscaled", slog.Int("original_bytes", len(upload.Data)), slog.Int("bytes", len(prepared.Data)))
	}

	res, err := s.complete(ctx, "receipt", gateways.CompletionRequest{
		Messages:   []domain.ChatMessage{{Role: "user", Content: receiptPrompt + "\n" + jsonOnlyInstruction}},
		Attachment: &gateways.ImageAttachment{MediaType: prepared.MediaType, Data: prepared.Data},
		MaxTokens:  receiptMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var raw rawReceipt
	if err := res.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse receipt data: %v", apperrors.ErrUpstream, err)
	}

	category, known := domain.ParseCategory(raw.Category)
	if !known {
		category = domain.CategoryOther
	}
	date := ""
	if d, err := domain.ParseDate(raw.Date); err == nil {
		date = d.String()
	}

	return &domain.ReceiptData{
		Date:          date,
		Provider:      strings.TrimSpace(raw.Provider),
		Amount:        parseLooseAmount(raw.Amount),
		Description:   strings.TrimSpace(raw.Description),
		Category:      category,
		InsuranceInfo: strings.TrimSpace(raw.InsuranceInfo),
	}, nil
}

// parseLooseAmount reads 45.99, "45.99" or "$1,045.99"; anything else,
// including amounts outside the ledger range, is zero.
func parseLooseAmount(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if d, err := ledger.ParseAmount(n.String()); err == nil {
			return d
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return decimal.Zero
	}
	d, err := ledger.ParseAmount(amountNoise.ReplaceAllString(s, ""))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// GenerateInsights asks the model to analyse a spending summary.
func (s *assistantService) GenerateInsights(ctx context.Context, req domain.InsightsRequest) (*domain.Insights, error) {
	if len(req.Categories) == 0 {
		return nil, apperrors.NewValidationError("categories", "is required")
	}
	if err := checkInsightsAmounts(req); err != nil {
		return nil, err
	}
	if err := s.available(); err != nil {
		return nil, err
	}

	res, err := s.complete(ctx, "insights", gateways.CompletionRequest{
		System:    insightsPrompt(req),
		MaxTokens: insightsMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var insights domain.Insights
	if err := res.Decode(&insights); err != nil {
		return nil, fmt.Errorf("%w: failed to parse insights data: %v", apperrors.ErrUpstream, err)
	}
	if insights.Recommendations == nil {
		insights.Recommendations = []string{}
	}
	return &insights, nil
}

// checkInsightsAmounts rejects totals the prompt could not format.
func checkInsightsAmounts(req domain.InsightsRequest) error {
	for _, c := range req.Categories {
		if ledger.CheckAmount(c.Total) != nil {
			return apperrors.NewValidationError("categories", "total is out of range")
		}
	}
	if ledger.CheckAmount(req.TotalExpenses) != nil {
		return apperrors.NewValidationError("totalExpenses", "is out of range")
	}
	for _, e := range req.RecentExpenses {
		if ledger.CheckAmount(e.Amount) != nil {
			return apperrors.NewValidationError("recentExpenses", "amount is out of range")
		}
	}
	return nil
}

// SuggestAlternatives asks for cheaper options. Expenses in the other
// category are not analysed.
func (s *assistantService) SuggestAlternatives(ctx context.Context, req domain.AlternativesRequest) ([]domain.MedicalItem, error) {
	req.ExpenseName = strings.TrimSpace(req.ExpenseName)
	if req.ExpenseName == "" {
		return nil, apperrors.NewValidationError("expenseName", "is required")
	}
	if ledger.CheckAmount(req.ExpenseAmount) != nil {
		req.ExpenseAmount = decimal.Zero
	}
	req.Category = domain.Category(strings.ToLower(strings.TrimSpace(string(req.Category))))
	if req.Category == domain.CategoryOther {
		return []domain.MedicalItem{}, nil
	}
	if err := s.available(); err != nil {
		return nil, err
	}

	res, err := s.complete(ctx, "alternatives", gateways.CompletionRequest{
		Messages:    []domain.ChatMessage{{Role: "user", Content: alternativesPrompt(req)}},
		MaxTokens:   alternativesMaxTokens,
		Temperature: &alternativesTemperature,
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		MedicalItems []domain.MedicalItem `json:"medicalItems"`
	}
	if err := res.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: failed to parse alternatives data: %v", apperrors.ErrUpstream, err)
	}
	if out.MedicalItems == nil {
		out.MedicalItems = []domain.MedicalItem{}
	}
	for i := range out.MedicalItems {
		if out.MedicalItems[i].Alternatives == nil {
			out.MedicalItems[i].Alternatives = []domain.Alternative{}
		}
	}
	return out.MedicalItems, nil
}

// Chat answers a message given the most recent history turns.
func (s *assistantService) Chat(ctx context.Context, message string, history []domain.ChatMessage) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperrors.NewValidationError("message", "is required")
	}
	if err := s.available(); err != nil {
		return "", err
	}

	if len(history) > chatHistoryLimit {
		history = history[len(history)-chatHistoryLimit:]
	}
	messages := make([]domain.ChatMessage, 0, len(history)+1)
	for _, m := range history {
		role := strings.ToLower(m.Role)
		if role != "user" && role != "assistant" {
			continue
		}
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		messages = append(messages, domain.ChatMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, domain.ChatMessage{Role: "user", Content: message})

	reply, err := s.model.Complete(ctx, gateways.CompletionRequest{
		System:    chatSystemPrompt,
		Messages:  messages,
		MaxTokens: chatMaxTokens,
	})
	if err != nil {
		s.LogError(ctx, err, "Chat completion failed")
		return "", fmt.Errorf("%w: chat: %v", apperrors.ErrUpstream, err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("%w: chat: empty answer", apperrors.ErrUpstream)
	}
	return reply, nil
}
