package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/medisave/internal/apperrors"
	"github.com/SscSPs/medisave/internal/core/domain"
	portssvc "github.com/SscSPs/medisave/internal/core/ports/services"
	"github.com/SscSPs/medisave/internal/core/services"
	"github.com/SscSPs/medisave/internal/dto"
	"github.com/SscSPs/medisave/internal/handlers"
	"github.com/SscSPs/medisave/internal/platform/config"
	"github.com/SscSPs/medisave/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AssistantService ---
type MockAssistantService struct {
	mock.Mock
}

func (m *MockAssistantService) ScanReceipt(ctx context.Context, upload domain.ReceiptUpload) (*domain.ReceiptData, error) {
	args := m.Called(ctx, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiptData), args.Error(1)
}

func (m *MockAssistantService) GenerateInsights(ctx context.Context, req domain.InsightsRequest) (*domain.Insights, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Insights), args.Error(1)
}

func (m *MockAssistantService) SuggestAlternatives(ctx context.Context, req domain.AlternativesRequest) ([]domain.MedicalItem, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MedicalItem), args.Error(1)
}

func (m *MockAssistantService) Chat(ctx context.Context, message string, history []domain.ChatMessage) (string, error) {
	args := m.Called(ctx, message, history)
	return args.String(0), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AssistantSvc = (*MockAssistantService)(nil)

// --- Test Suite ---
type LedgerHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	slots         *memory.SlotRepository
	services      *portssvc.ServiceContainer
	mockAssistant *MockAssistantService
	jwtSecret     string
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	cfg := &config.Config{
		IsProduction:    true,
		LedgerSlotKey:   "expenses",
		AIRateLimit:     "1000-M",
		ReceiptMaxBytes: 1024,
		JWTSecret:       suite.jwtSecret,
	}

	suite.slots = memory.NewSlotRepository()
	store := services.NewExpenseStore(suite.slots, cfg.LedgerSlotKey)
	store.Load(context.Background())

	suite.services = services.NewServiceContainer(cfg, store, services.Collaborators{})
	suite.mockAssistant = new(MockAssistantService)
	suite.services.Assistant = suite.mockAssistant

	suite.Require().NoError(handlers.RegisterRoutes(suite.router, cfg, suite.services))
}

func (suite *LedgerHandlerTestSuite) TearDownTest() {
	suite.mockAssistant.AssertExpectations(suite.T())
}

// generateTestToken creates a signed bearer token for the test secret.
func (suite *LedgerHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "medisave-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *LedgerHandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("user-1"))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LedgerHandlerTestSuite) create(name, amount, category, date string) dto.ExpenseResponse {
	w := suite.do(http.MethodPost, "/api/v1/expenses", gin.H{"name": name, "amount": amount, "category": category, "date": date})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.ExpenseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func decodeError(body []byte) dto.ErrorResponse {
	var res dto.ErrorResponse
	_ = json.Unmarshal(body, &res)
	return res
}

// --- Test Cases ---

func (suite *LedgerHandlerTestSuite) TestHealth() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *LedgerHandlerTestSuite) TestAuthRequired() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/expenses", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	res := decodeError(w.Body.Bytes())
	suite.False(res.Success)
	suite.Equal("Authorization header required", res.Error)
	suite.Contains(w.Body.String(), `"success":false`)
}

func (suite *LedgerHandlerTestSuite) TestCreateExpense_Success() {
	w := suite.do(http.MethodPost, "/api/v1/expenses", map[string]any{"name": "Tylenol", "amount": 19.999, "category": "medication", "date": "2024-01-01", "notes": "pharmacy"})

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.ExpenseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.NotEmpty(res.ID)
	suite.Equal("20.00", res.Amount.String())
	suite.Equal("2024-01-01", res.Date)
	suite.Equal("pharmacy", res.Notes)
	suite.Equal(1, suite.slots.Writes())
}

func (suite *LedgerHandlerTestSuite) TestCreateExpense_Defaults() {
	w := suite.do(http.MethodPost, "/api/v1/expenses", gin.H{"name": "  Bandages  ", "amount": "4.5"})

	suite.Require().Equal(http.StatusCreated, w.Code)
	var res dto.ExpenseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal("Bandages", res.Name)
	suite.Equal(string(domain.CategoryMedication), res.Category)
	suite.Equal(domain.Today().String(), res.Date)
}

func (suite *LedgerHandlerTestSuite) TestCreateExpense_Rejected() {
	testCases := []struct {
		name string
		body any
	}{
		{"missing name", gin.H{"amount": "5"}},
		{"zero amount", gin.H{"name": "X", "amount": "0"}},
		{"negative amount", gin.H{"name": "X", "amount": -3}},
		{"text amount", gin.H{"name": "X", "amount": "abc"}},
		{"huge exponent number", gin.H{"name": "X", "amount": json.Number("1e2000000000")}},
		{"huge exponent string", gin.H{"name": "X", "amount": "1e100000"}},
		{"unknown category", gin.H{"name": "X", "amount": "5", "category": "dental"}},
		{"bad date", gin.H{"name": "X", "amount": "5", "date": "01/02/2024"}},
		{"malformed body", "not an object"},
	}
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			w := suite.do(http.MethodPost, "/api/v1/expenses", tc.body)
			suite.Equal(http.StatusBadRequest, w.Code)
			res := decodeError(w.Body.Bytes())
			suite.False(res.Success)
			suite.NotEmpty(res.Error)
		})
	}
	suite.Equal(0, suite.slots.Writes())
}

func (suite *LedgerHandlerTestSuite) TestGetExpense() {
	created := suite.create("X-ray", "150", "test", "2024-01-02")

	w := suite.do(http.MethodGet, "/api/v1/expenses/"+created.ID, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/expenses/does-not-exist", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestUpdateExpense() {
	created := suite.create("X-ray", "150", "test", "2024-01-02")

	w := suite.do(http.MethodPut, "/api/v1/expenses/"+created.ID, gin.H{"name": "X-ray (left)", "amount": "120", "category": "test", "date": "2024-01-03"})
	suite.Require().Equal(http.StatusOK, w.Code)
	var res dto.ExpenseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(created.ID, res.ID)
	suite.Equal("120.00", res.Amount.String())
	suite.Equal("2024-01-03", res.Date)

	w = suite.do(http.MethodPut, "/api/v1/expenses/"+created.ID, gin.H{"name": "X-ray", "amount": "120", "category": "test"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPut, "/api/v1/expenses/missing", gin.H{"name": "X-ray", "amount": "120", "category": "test", "date": "2024-01-03"})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestDeleteExpense() {
	created := suite.create("Tylenol", "20", "medication", "2024-01-01")

	w := suite.do(http.MethodDelete, "/api/v1/expenses/"+created.ID, nil)
	suite.Equal(http.StatusPreconditionRequired, w.Code)

	w = suite.do(http.MethodDelete, "/api/v1/expenses/"+created.ID+"?confirm=true", nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/expenses/"+created.ID, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodDelete, "/api/v1/expenses/"+created.ID+"?confirm=true", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestListExpenses() {
	suite.create("Tylenol", "20", "medication", "2024-01-01")
	suite.create("X-ray", "150", "test", "2024-01-02")
	suite.create("Inhaler", "35.5", "medication", "2024-01-03")

	w := suite.do(http.MethodGet, "/api/v1/expenses?category=medication&sortBy=amount&direction=asc&limit=1", nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var res dto.ListExpensesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(2, res.Count)
	suite.Require().Len(res.Expenses, 1)
	suite.Equal("Tylenol", res.Expenses[0].Name)
	suite.Equal("55.50", res.RunningTotal.String())
	suite.Equal("205.50", res.GrandTotal.String())
}

func (suite *LedgerHandlerTestSuite) TestListExpenses_CategoryIgnoresCase() {
	suite.create("Tylenol", "20", "medication", "2024-01-01")
	suite.create("X-ray", "150", "test", "2024-01-02")

	w := suite.do(http.MethodGet, "/api/v1/expenses?category=Medication", nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var res dto.ListExpensesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(1, res.Count)
	suite.Require().Len(res.Expenses, 1)
	suite.Equal("Tylenol", res.Expenses[0].Name)
	suite.Equal("20.00", res.RunningTotal.String())
	suite.Equal("170.00", res.GrandTotal.String())
}

func (suite *LedgerHandlerTestSuite) TestListExpenses_DefaultSortAndSearch() {
	suite.create("Tylenol", "20", "medication", "2024-01-01")
	suite.create("X-ray", "150", "test", "2024-01-02")

	w := suite.do(http.MethodGet, "/api/v1/expenses", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var res dto.ListExpensesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Require().Len(res.Expenses, 2)
	suite.Equal("X-ray", res.Expenses[0].Name)

	w = suite.do(http.MethodGet, "/api/v1/expenses?search=RAY", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(1, res.Count)
	suite.Equal("150.00", res.RunningTotal.String())
}

func (suite *LedgerHandlerTestSuite) TestListExpenses_BadParams() {
	for _, query := range []string{"sortBy=price", "direction=sideways", "limit=-1", "limit=abc"} {
		suite.Run(query, func() {
			w := suite.do(http.MethodGet, "/api/v1/expenses?"+query, nil)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
}

func (suite *LedgerHandlerTestSuite) TestSummary() {
	suite.create("Tylenol", "20", "medication", "2024-01-01")
	suite.create("X-ray", "150", "test", "2024-01-02")

	w := suite.do(http.MethodGet, "/api/v1/summary?category=test", nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var res dto.SummaryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal("170.00", res.GrandTotal.String())
	suite.Equal("150.00", res.FilteredTotal.String())
	suite.Len(res.CategoryTotals, 5)
	suite.Len(res.Chart, 2)
}

func (suite *LedgerHandlerTestSuite) TestCategories() {
	w := suite.do(http.MethodGet, "/api/v1/categories", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var all []dto.CategoryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &all))
	suite.Require().Len(all, 5)
	suite.Equal("medication", all[0].ID)

	w = suite.do(http.MethodGet, "/api/v1/categories/dental", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var unknown dto.CategoryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &unknown))
	suite.Equal("dental", unknown.ID)
	suite.Equal("Unknown", unknown.DisplayName)
}

func (suite *LedgerHandlerTestSuite) TestBalanceTracksDeltas() {
	created := suite.create("Tylenol", "20", "medication", "2024-01-01")
	suite.do(http.MethodPut, "/api/v1/expenses/"+created.ID, gin.H{"name": "Tylenol", "amount": "12.5", "category": "medication", "date": "2024-01-01"})

	w := suite.do(http.MethodGet, "/api/v1/balance", nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var res dto.BalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Nil(res.AccountBalance)
	suite.Equal("12.50", res.SessionNetSpend.String())
	suite.Require().NotNil(res.LastDelta)
	suite.Equal("updated", res.LastDelta.Kind)
	suite.Equal("-7.50", res.LastDelta.AmountDelta.String())
}

func (suite *LedgerHandlerTestSuite) TestAssistantErrorMapping() {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{"not configured", fmt.Errorf("%w: model API key is not configured", apperrors.ErrUnavailable), http.StatusServiceUnavailable},
		{"bad answer", fmt.Errorf("%w: failed to parse chat data", apperrors.ErrUpstream), http.StatusBadGateway},
		{"empty message", apperrors.NewValidationError("message", "is required"), http.StatusBadRequest},
	}
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.mockAssistant.On("Chat", mock.Anything, "hi", mock.Anything).Return("", tc.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/ai/chat", gin.H{"message": "hi"})

			suite.Equal(tc.status, w.Code)
			suite.False(decodeError(w.Body.Bytes()).Success)
		})
	}
}

func (suite *LedgerHandlerTestSuite) TestChat_Success() {
	history := []domain.ChatMessage{{Role: "user", Content: "hello"}, {Role: "assistant", Content: "hi"}}
	suite.mockAssistant.On("Chat", mock.Anything, "Is generic ibuprofen fine?", history).Return("Yes, usually.", nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/ai/chat", gin.H{"message": "Is generic ibuprofen fine?", "chatHistory": history})

	suite.Require().Equal(http.StatusOK, w.Code)
	var res dto.ChatResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.True(res.Success)
	suite.Equal("Yes, usually.", res.Response)
}

func (suite *LedgerHandlerTestSuite) TestLedgerInsights() {
	suite.create("Tylenol", "20", "medication", "2024-01-01")
	suite.mockAssistant.On("GenerateInsights", mock.Anything, mock.MatchedBy(func(r domain.InsightsRequest) bool {
		return r.TotalExpenses.Equal(decimal.NewFromInt(20)) && len(r.RecentExpenses) == 1
	})).Return(&domain.Insights{Analysis: "ok", Recommendations: []string{"compare prices"}, Summary: "fine"}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/ai/expense-insights", nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var res dto.InsightsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.True(res.Success)
	suite.Equal([]string{"compare prices"}, res.Insights.Recommendations)
}

func (suite *LedgerHandlerTestSuite) TestCheaperAlternatives() {
	items := []domain.MedicalItem{{OriginalItem: "Brand ibuprofen", Alternatives: []domain.Alternative{{Name: "Generic ibuprofen", EstimatedCost: "$3"}}}}
	suite.mockAssistant.On("SuggestAlternatives", mock.Anything, mock.MatchedBy(func(r domain.AlternativesRequest) bool {
		return r.ExpenseName == "Advil" && r.ExpenseAmount.Equal(decimal.RequireFromString("12.5"))
	})).Return(items, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/ai/cheaper-alternatives", gin.H{"expenseName": "Advil", "expenseAmount": 12.5, "category": "medication"})

	suite.Require().Equal(http.StatusOK, w.Code)
	var res dto.AlternativesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(items, res.MedicalItems)
}

func (suite *LedgerHandlerTestSuite) TestCheaperAlternatives_OutOfRangeAmountSentAsZero() {
	suite.mockAssistant.On("SuggestAlternatives", mock.Anything, mock.MatchedBy(func(r domain.AlternativesRequest) bool {
		return r.ExpenseName == "Advil" && r.ExpenseAmount.IsZero()
	})).Return([]domain.MedicalItem{}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/ai/cheaper-alternatives", gin.H{"expenseName": "Advil", "expenseAmount": json.Number("1e2000000000"), "category": "medication"})

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *LedgerHandlerTestSuite) scanRequest(url, filename string, size int) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		part, err := mw.CreateFormFile("receipt", filename)
		suite.Require().NoError(err)
		_, err = part.Write(bytes.Repeat([]byte("%"), size))
		suite.Require().NoError(err)
	} else {
		suite.Require().NoError(mw.WriteField("note", "no file"))
	}
	suite.Require().NoError(mw.Close())

	req, _ := http.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("user-1"))
	return req
}

func (suite *LedgerHandlerTestSuite) TestScanReceipt_Record() {
	receipt := &domain.ReceiptData{
		Date:          "2024-02-10",
		Provider:      "City Clinic",
		Amount:        decimal.RequireFromString("45.5"),
		Description:   "Blood panel",
		Category:      domain.CategoryTest,
		InsuranceInfo: "Plan A",
	}
	suite.mockAssistant.On("ScanReceipt", mock.Anything, mock.MatchedBy(func(u domain.ReceiptUpload) bool {
		return u.Filename == "receipt.pdf" && len(u.Data) == 100
	})).Return(receipt, nil).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.scanRequest("/api/v1/ai/scan-receipt?record=true", "receipt.pdf", 100))

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var res dto.ScanReceiptResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.True(res.Success)
	suite.Require().NotNil(res.Expense)
	suite.Equal("Blood panel", res.Expense.Name)
	suite.Equal("45.50", res.Expense.Amount.String())
	suite.Equal("2024-02-10", res.Expense.Date)
	suite.True(strings.Contains(res.Expense.Notes, "City Clinic"))
	suite.Len(suite.services.Expense.ListExpenses(context.Background(), domain.ListFilter{}, domain.SortSpec{Field: domain.SortByDate, Direction: domain.Descending}), 1)
}

func (suite *LedgerHandlerTestSuite) TestScanReceipt_Rejected() {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.scanRequest("/api/v1/ai/scan-receipt", "", 0))
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("No file uploaded", decodeError(w.Body.Bytes()).Error)

	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.scanRequest("/api/v1/ai/scan-receipt", "receipt.pdf", 2048))
	suite.Equal(http.StatusRequestEntityTooLarge, w.Code)

	suite.mockAssistant.AssertNotCalled(suite.T(), "ScanReceipt", mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestLedgerHandler(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
