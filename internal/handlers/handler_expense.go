package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/medisave/internal/apperrors"
	"github.com/SscSPs/medisave/internal/core/domain"
	portssvc "github.com/SscSPs/medisave/internal/core/ports/services"
	"github.com/SscSPs/medisave/internal/dto"
	"github.com/SscSPs/medisave/internal/middleware"
	"github.com/SscSPs/medisave/internal/utils/ledger"
	"github.com/gin-gonic/gin"
)

// expenseHandler handles HTTP requests related to ledger records.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

func newExpenseHandler(es portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{expenseService: es}
}

// registerExpenseRoutes registers the ledger CRUD and summary routes.
func registerExpenseRoutes(rg *gin.RouterGroup, es portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(es)

	expenses := rg.Group("/expenses")
	{
		expenses.GET("", h.listExpenses)
		expenses.POST("", h.createExpense)
		expenses.GET("/:id", h.getExpense)
		expenses.PUT("/:id", h.updateExpense)
		expenses.DELETE("/:id", h.deleteExpense)
	}
	rg.GET("/summary", h.getSummary)
}

// toDraft converts a request body to a draft. An empty date becomes today
// when defaultToday is set, otherwise it is left for validation to reject.
func toDraft(req dto.ExpenseRequest, defaultToday bool) (domain.ExpenseDraft, error) {
	draft := domain.ExpenseDraft{
		Name:     req.Name,
		Amount:   string(req.Amount),
		Category: domain.Category(req.Category),
		Notes:    req.Notes,
	}
	switch {
	case strings.TrimSpace(req.Date) != "":
		d, err := domain.ParseDate(req.Date)
		if err != nil {
			return draft, apperrors.NewValidationError("date", "must be a date in YYYY-MM-DD format")
		}
		draft.Date = d
	case defaultToday:
		draft.Date = domain.Today()
	}
	return draft, nil
}

// listExpenses godoc
// @Summary List expenses
// @Description Filters by category and search term, then sorts. Totals cover the whole filtered set even when limit truncates the list.
// @Tags expenses
// @Produce json
// @Param category query string false "Category id or 'all'"
// @Param search query string false "Case-insensitive match on name or notes"
// @Param sortBy query string false "date, amount or name" default(date)
// @Param direction query string false "asc or desc" default(desc)
// @Param limit query int false "Maximum number of records returned"
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListExpenses", slog.String("error", err.Error()))
		abortWithError(c, http.StatusBadRequest, "Invalid query parameters: "+err.Error())
		return
	}
	sort, err := domain.ParseSortSpec(params.SortBy, params.Direction)
	if err != nil {
		logger.Warn("Invalid sort parameters", slog.String("error", err.Error()))
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	filter := domain.ListFilter{Category: params.Category, Search: params.Search}
	view := h.expenseService.ListingView(c.Request.Context(), filter, sort)

	logger.Debug("Expenses listed", slog.Int("count", len(view.Records)), slog.String("sort_by", string(sort.Field)))
	c.JSON(http.StatusOK, dto.ListExpensesResponse{
		Expenses:     dto.ToListExpenseResponse(ledger.Head(view.Records, params.Limit)),
		Count:        len(view.Records),
		RunningTotal: dto.AmountNumber(view.RunningTotal),
		GrandTotal:   dto.AmountNumber(view.GrandTotal),
	})
}

// getExpense godoc
// @Summary Get an expense by ID
// @Tags expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("expense_id", c.Param("id")))

	rec, err := h.expenseService.GetExpense(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve expense")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(*rec))
}

// createExpense godoc
// @Summary Record a new expense
// @Description Date defaults to today and category to medication when omitted
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense body dto.ExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExpense", slog.String("error", err.Error()))
		abortWithError(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	draft, err := toDraft(req, true)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create expense")
		return
	}

	rec, err := h.expenseService.AddExpense(c.Request.Context(), draft)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create expense")
		return
	}

	logger.Info("Expense created", slog.String("expense_id", rec.ID), slog.String("category", string(rec.Category)))
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(*rec))
}

// updateExpense godoc
// @Summary Replace an expense
// @Description Every field is replaced; the id is kept
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param expense body dto.ExpenseRequest true "Expense details"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /expenses/{id} [put]
func (h *expenseHandler) updateExpense(c *gin.Context) {
	id := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("expense_id", id))

	var req dto.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateExpense", slog.String("error", err.Error()))
		abortWithError(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	draft, err := toDraft(req, false)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update expense")
		return
	}

	rec, err := h.expenseService.UpdateExpense(c.Request.Context(), id, draft)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update expense")
		return
	}

	logger.Info("Expense updated")
	c.JSON(http.StatusOK, dto.ToExpenseResponse(*rec))
}

// deleteExpense godoc
// @Summary Delete an expense
// @Description The caller must confirm the deletion with confirm=true
// @Tags expenses
// @Param id path string true "Expense ID"
// @Param confirm query bool true "Must be true"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 428 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	id := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("expense_id", id))

	if c.Query("confirm") != "true" {
		logger.Warn("Delete requested without confirmation")
		abortWithError(c, http.StatusPreconditionRequired, "Deletion must be confirmed with confirm=true")
		return
	}

	if err := h.expenseService.RemoveExpense(c.Request.Context(), id); err != nil {
		respondServiceError(c, logger, err, "Failed to delete expense")
		return
	}

	logger.Info("Expense deleted")
	c.Status(http.StatusNoContent)
}

// getSummary godoc
// @Summary Ledger totals
// @Description Grand total, per-category breakdown and chart data. filteredTotal follows the category filter.
// @Tags expenses
// @Produce json
// @Param category query string false "Category id or 'all'"
// @Param search query string false "Case-insensitive match on name or notes"
// @Success 200 {object} dto.SummaryResponse
// @Security BearerAuth
// @Router /summary [get]
func (h *expenseHandler) getSummary(c *gin.Context) {
	filter := domain.ListFilter{Category: c.Query("category"), Search: c.Query("search")}
	summary := h.expenseService.Summary(c.Request.Context(), filter)
	c.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}
