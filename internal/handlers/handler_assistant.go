package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/medisave/internal/core/domain"
	portssvc "github.com/SscSPs/medisave/internal/core/ports/services"
	"github.com/SscSPs/medisave/internal/dto"
	"github.com/SscSPs/medisave/internal/middleware"
	"github.com/SscSPs/medisave/internal/utils/ledger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 1 << 20

// assistantHandler proxies requests to the completion model.
type assistantHandler struct {
	assistant       portssvc.AssistantSvc
	expenseService  portssvc.ExpenseSvcFacade
	receiptMaxBytes int64
}

func registerAssistantRoutes(rg *gin.RouterGroup, as portssvc.AssistantSvc, es portssvc.ExpenseSvcFacade, receiptMaxBytes int) {
	h := &assistantHandler{
		assistant:       as,
		expenseService:  es,
		receiptMaxBytes: int64(receiptMaxBytes),
	}

	rg.POST("/scan-receipt", h.scanReceipt)
	rg.POST("/expense-insights", h.postInsights)
	rg.GET("/expense-insights", h.ledgerInsights)
	rg.POST("/cheaper-alternatives", h.cheaperAlternatives)
	rg.POST("/chat", h.chat)
}

// scanReceipt godoc
// @Summary Read a receipt
// @Description Extracts date, provider, amount and category from a receipt image or PDF. With record=true the result is also added to the ledger.
// @Tags ai
// @Accept multipart/form-data
// @Produce json
// @Param receipt formData file true "Receipt (jpg, jpeg, png, gif, heic or pdf)"
// @Param record query bool false "Also record the expense"
// @Success 200 {object} dto.ScanReceiptResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /ai/scan-receipt [post]
func (h *assistantHandler) scanReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.receiptMaxBytes+multipartOverhead)
	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("Receipt upload too large", slog.Int64("limit", tooLarge.Limit))
			abortWithError(c, http.StatusRequestEntityTooLarge, "Receipt file is too large")
			return
		}
		logger.Warn("No receipt uploaded", slog.String("error", err.Error()))
		abortWithError(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	if fileHeader.Size > h.receiptMaxBytes {
		logger.Warn("Receipt upload too large", slog.Int64("size", fileHeader.Size))
		abortWithError(c, http.StatusRequestEntityTooLarge, "Receipt file is too large")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded receipt", slog.String("error", err.Error()))
		abortWithError(c, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	if err != nil {
		logger.Error("Failed to read uploaded receipt", slog.String("error", err.Error()))
		abortWithError(c, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}

	logger = logger.With(slog.String("filename", fileHeader.Filename), slog.Int("bytes", len(data)))
	logger.Info("Scanning receipt")

	receipt, err := h.assistant.ScanReceipt(c.Request.Context(), domain.ReceiptUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		respondServiceError(c, logger, err, "Failed to process receipt with AI")
		return
	}

	res := dto.ScanReceiptResponse{Success: true, Data: dto.ToReceiptDataResponse(*receipt)}
	if c.Query("record") == "true" {
		rec, err := h.expenseService.AddExpense(c.Request.Context(), receiptDraft(*receipt))
		if err != nil {
			respondServiceError(c, logger, err, "Failed to record scanned expense")
			return
		}
		logger.Info("Scanned receipt recorded", slog.String("expense_id", rec.ID))
		out := dto.ToExpenseResponse(*rec)
		res.Expense = &out
	}
	c.JSON(http.StatusOK, res)
}

// receiptDraft turns scanned receipt data into a ledger draft.
func receiptDraft(r domain.ReceiptData) domain.ExpenseDraft {
	name := r.Description
	if strings.TrimSpace(name) == "" {
		name = r.Provider
	}
	if strings.TrimSpace(name) == "" {
		name = "Scanned receipt"
	}

	var notes []string
	if r.Provider != "" && r.Provider != name {
		notes = append(notes, "Provider: "+r.Provider)
	}
	if r.InsuranceInfo != "" {
		notes = append(notes, "Insurance: "+r.InsuranceInfo)
	}

	date := domain.Today()
	if d, err := domain.ParseDate(r.Date); err == nil && r.Date != "" {
		date = d
	}

	return domain.ExpenseDraft{
		Name:     name,
		Amount:   r.Amount.String(),
		Category: r.Category,
		Date:     date,
		Notes:    strings.Join(notes, "\n"),
	}
}

// postInsights godoc
// @Summary Analyse a spending summary
// @Tags ai
// @Accept json
// @Produce json
// @Param summary body dto.InsightsRequest true "Spending summary"
// @Success 200 {object} dto.InsightsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /ai/expense-insights [post]
func (h *assistantHandler) postInsights(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.InsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ExpenseInsights", slog.String("error", err.Error()))
		abortWithError(c, http.StatusBadRequest, "Invalid expense data provided")
		return
	}
	h.respondInsights(c, logger, req.ToDomainInsightsRequest())
}

// ledgerInsights godoc
// @Summary Analyse the recorded expenses
// @Description Builds the spending summary from the ledger and asks the model for insights
// @Tags ai
// @Produce json
// @Success 200 {object} dto.InsightsResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /ai/expense-insights [get]
func (h *assistantHandler) ledgerInsights(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	h.respondInsights(c, logger, h.expenseService.InsightsRequest(c.Request.Context()))
}

func (h *assistantHandler) respondInsights(c *gin.Context, logger *slog.Logger, req domain.InsightsRequest) {
	insights, err := h.assistant.GenerateInsights(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate insights with AI")
		return
	}
	c.JSON(http.StatusOK, dto.InsightsResponse{Success: true, Insights: *insights})
}

// cheaperAlternatives godoc
// @Summary Suggest cheaper alternatives
// @Description Expenses in the "other" category get an empty list without calling the model
// @Tags ai
// @Accept json
// @Produce json
// @Param expense body dto.AlternativesRequest true "Expense to analyse"
// @Success 200 {object} dto.AlternativesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /ai/cheaper-alternatives [post]
func (h *assistantHandler) cheaperAlternatives(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AlternativesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CheaperAlternatives", slog.String("error", err.Error()))
		abortWithError(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	// The amount only flavours the prompt; an unparsable or out of range
	// one is sent as zero.
	amount, err := ledger.ParseAmount(string(req.ExpenseAmount))
	if err != nil {
		amount = decimal.Zero
	}

	items, err := h.assistant.SuggestAlternatives(c.Request.Context(), domain.AlternativesRequest{
		ExpenseName:   req.ExpenseName,
		ExpenseAmount: amount,
		Category:      domain.Category(req.Category),
		Notes:         req.Notes,
	})
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate alternatives")
		return
	}
	c.JSON(http.StatusOK, dto.AlternativesResponse{MedicalItems: items})
}

// chat godoc
// @Summary Chat with the assistant
// @Tags ai
// @Accept json
// @Produce json
// @Param chat body dto.ChatRequest true "Message and recent history"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /ai/chat [post]
func (h *assistantHandler) chat(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Chat", slog.String("error", err.Error()))
		abortWithError(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	answer, err := h.assistant.Chat(c.Request.Context(), req.Message, req.ChatHistory)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to get a response from the assistant")
		return
	}
	c.JSON(http.StatusOK, dto.ChatResponse{Success: true, Response: answer})
}
