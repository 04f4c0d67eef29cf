package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	fundsapp "github.com/fundsight/backend/internal/application/funds"
	"github.com/fundsight/backend/internal/domain/document"
	"github.com/fundsight/backend/internal/domain/fund"
	"github.com/fundsight/backend/internal/domain/shared"
	"github.com/fundsight/backend/internal/interfaces/http/dto"
)

// mockFundRepository implements fund.Repository for testing
type mockFundRepository struct {
	mock.Mock
}

func (m *mockFundRepository) FindByID(ctx context.Context, id uuid.UUID) (*fund.Fund, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fund.Fund), args.Error(1)
}

func (m *mockFundRepository) FindAll(ctx context.Context, filter shared.Filter) ([]fund.Fund, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fund.Fund), args.Error(1)
}

func (m *mockFundRepository) Save(ctx context.Context, entity *fund.Fund) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *mockFundRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockFundRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockFundRepository) FindByName(ctx context.Context, name string) (*fund.Fund, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fund.Fund), args.Error(1)
}

// mockTransactionRepository implements fund.TransactionRepository for testing
type mockTransactionRepository struct {
	mock.Mock
}

func (m *mockTransactionRepository) SaveCapitalCalls(ctx context.Context, calls []fund.CapitalCall) error {
	args := m.Called(ctx, calls)
	return args.Error(0)
}

func (m *mockTransactionRepository) SaveDistributions(ctx context.Context, distributions []fund.Distribution) error {
	args := m.Called(ctx, distributions)
	return args.Error(0)
}

func (m *mockTransactionRepository) SaveAdjustments(ctx context.Context, adjustments []fund.Adjustment) error {
	args := m.Called(ctx, adjustments)
	return args.Error(0)
}

func (m *mockTransactionRepository) CapitalCalls(ctx context.Context, fundID uuid.UUID) ([]fund.CapitalCall, error) {
	args := m.Called(ctx, fundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fund.CapitalCall), args.Error(1)
}

func (m *mockTransactionRepository) Distributions(ctx context.Context, fundID uuid.UUID) ([]fund.Distribution, error) {
	args := m.Called(ctx, fundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fund.Distribution), args.Error(1)
}

func (m *mockTransactionRepository) Adjustments(ctx context.Context, fundID uuid.UUID) ([]fund.Adjustment, error) {
	args := m.Called(ctx, fundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fund.Adjustment), args.Error(1)
}

func (m *mockTransactionRepository) ListCapitalCalls(ctx context.Context, fundID uuid.UUID, filter shared.Filter) (shared.Paginated[fund.CapitalCall], error) {
	args := m.Called(ctx, fundID, filter)
	return args.Get(0).(shared.Paginated[fund.CapitalCall]), args.Error(1)
}

func (m *mockTransactionRepository) ListDistributions(ctx context.Context, fundID uuid.UUID, filter shared.Filter) (shared.Paginated[fund.Distribution], error) {
	args := m.Called(ctx, fundID, filter)
	return args.Get(0).(shared.Paginated[fund.Distribution]), args.Error(1)
}

func (m *mockTransactionRepository) ListAdjustments(ctx context.Context, fundID uuid.UUID, filter shared.Filter) (shared.Paginated[fund.Adjustment], error) {
	args := m.Called(ctx, fundID, filter)
	return args.Get(0).(shared.Paginated[fund.Adjustment]), args.Error(1)
}

func (m *mockTransactionRepository) DeleteByFund(ctx context.Context, fundID uuid.UUID) error {
	args := m.Called(ctx, fundID)
	return args.Error(0)
}

func (m *mockTransactionRepository) Fingerprint(ctx context.Context, fundID uuid.UUID) (string, error) {
	args := m.Called(ctx, fundID)
	return args.String(0), args.Error(1)
}

// mockDocumentRepository implements document.Repository for testing
type mockDocumentRepository struct {
	mock.Mock
}

func (m *mockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *mockDocumentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]document.Document, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Document), args.Error(1)
}

func (m *mockDocumentRepository) Save(ctx context.Context, entity *document.Document) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *mockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockDocumentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockDocumentRepository) FindByFund(ctx context.Context, fundID uuid.UUID, filter shared.Filter) (shared.Paginated[document.Document], error) {
	args := m.Called(ctx, fundID, filter)
	return args.Get(0).(shared.Paginated[document.Document]), args.Error(1)
}

func mustParseDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}

func decimalFromString(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func newTestFund(t *testing.T, name string) *fund.Fund {
	t.Helper()
	f, err := fund.NewFund(name, "Test Partners", "Buyout", 2020)
	require.NoError(t, err)
	return f
}

func setupFundRouter(fundRepo *mockFundRepository, txRepo *mockTransactionRepository, docRepo *mockDocumentRepository) *gin.Engine {
	svc := fundsapp.NewService(fundRepo, txRepo, docRepo, zap.NewNop())
	h := NewFundHandler(svc)

	router := gin.New()
	router.POST("/funds", h.Create)
	router.GET("/funds", h.List)
	router.GET("/funds/:id", h.GetByID)
	router.PUT("/funds/:id", h.Update)
	router.DELETE("/funds/:id", h.Delete)
	router.GET("/funds/:id/capital-calls", h.ListCapitalCalls)
	router.GET("/funds/:id/distributions", h.ListDistributions)
	router.GET("/funds/:id/adjustments", h.ListAdjustments)
	return router
}

func TestFundHandlerCreate(t *testing.T) {
	t.Run("creates fund", func(t *testing.T) {
		fundRepo := new(mockFundRepository)
		fundRepo.On("FindByName", mock.Anything, "Growth Fund III").Return(nil, shared.ErrNotFound)
		fundRepo.On("Save", mock.Anything, mock.AnythingOfType("*fund.Fund")).Return(nil)

		router := setupFundRouter(fundRepo, new(mockTransactionRepository), new(mockDocumentRepository))

		body, _ := json.Marshal(CreateFundRequest{
			Name:        "Growth Fund III",
			GPName:      "Growth Partners",
			FundType:    "Growth",
			VintageYear: 2021,
		})
		req := httptest.NewRequest("POST", "/funds", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "Growth Fund III", data["name"])
		assert.Equal(t, "Growth Partners", data["gp_name"])
		fundRepo.AssertExpectations(t)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		existing := newTestFund(t, "Growth Fund III")
		fundRepo := new(mockFundRepository)
		fundRepo.On("FindByName", mock.Anything, "Growth Fund III").Return(existing, nil)

		router := setupFundRouter(fundRepo, new(mockTransactionRepository), new(mockDocumentRepository))

		body, _ := json.Marshal(CreateFundRequest{Name: "Growth Fund III", GPName: "Growth Partners"})
		req := httptest.NewRequest("POST", "/funds", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeAlreadyExists)
	})

	t.Run("rejects missing gp_name", func(t *testing.T) {
		router := setupFundRouter(new(mockFundRepository), new(mockTransactionRepository), new(mockDocumentRepository))

		req := httptest.NewRequest("POST", "/funds", bytes.NewReader([]byte(`{"name": "Fund"}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed NAV", func(t *testing.T) {
		fundRepo := new(mockFundRepository)
		fundRepo.On("FindByName", mock.Anything, "Fund").Return(nil, shared.ErrNotFound)

		router := setupFundRouter(fundRepo, new(mockTransactionRepository), new(mockDocumentRepository))

		req := httptest.NewRequest("POST", "/funds",
			bytes.NewReader([]byte(`{"name": "Fund", "gp_name": "GP", "nav": "not-a-number"}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_NAV")
	})
}

func TestFundHandlerGetByID(t *testing.T) {
	t.Run("returns fund", func(t *testing.T) {
		f := newTestFund(t, "Venture Fund I")
		fundRepo := new(mockFundRepository)
		fundRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)

		router := setupFundRouter(fundRepo, new(mockTransactionRepository), new(mockDocumentRepository))

		req := httptest.NewRequest("GET", "/funds/"+f.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "Venture Fund I", data["name"])
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		router := setupFundRouter(new(mockFundRepository), new(mockTransactionRepository), new(mockDocumentRepository))

		req := httptest.NewRequest("GET", "/funds/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid fund ID format")
	})

	t.Run("returns 404 for unknown fund", func(t *testing.T) {
		fundRepo := new(mockFundRepository)
		fundRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		router := setupFundRouter(fundRepo, new(mockTransactionRepository), new(mockDocumentRepository))

		req := httptest.NewRequest("GET", "/funds/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeNotFound)
	})
}

func TestFundHandlerList(t *testing.T) {
	t.Run("returns paginated funds", func(t *testing.T) {
		f1 := newTestFund(t, "Fund A")
		f2 := newTestFund(t, "Fund B")

		fundRepo := new(mockFundRepository)
		fundRepo.On("FindAll", mock.Anything, mock.Anything).Return([]fund.Fund{*f1, *f2}, nil)
		fundRepo.On("Count", mock.Anything, mock.Anything).Return(int64(2), nil)

		router := setupFundRouter(fundRepo, new(mockTransactionRepository), new(mockDocumentRepository))

		req := httptest.NewRequest("GET", "/funds?page=1&page_size=10", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(2), resp.Meta.Total)
		assert.Equal(t, 10, resp.Meta.PageSize)
	})

	t.Run("passes type and vintage filters to repository", func(t *testing.T) {
		fundRepo := new(mockFundRepository)
		fundRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Filters["fund_type"] == "Buyout" && f.Filters["vintage_year"] == 2020
		})).Return([]fund.Fund{}, nil)
		fundRepo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

		router := setupFundRouter(fundRepo, new(mockTransactionRepository), new(mockDocumentRepository))

		req := httptest.NewRequest("GET", "/funds?fund_type=Buyout&vintage_year=2020", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		fundRepo.AssertExpectations(t)
	})

	t.Run("rejects non-numeric vintage filter", func(t *testing.T) {
		router := setupFundRouter(new(mockFundRepository), new(mockTransactionRepository), new(mockDocumentRepository))

		req := httptest.NewRequest("GET", "/funds?vintage_year=twenty20", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid vintage year filter")
	})
}

func TestFundHandlerUpdate(t *testing.T) {
	t.Run("updates fund", func(t *testing.T) {
		f := newTestFund(t, "Old Name")
		fundRepo := new(mockFundRepository)
		fundRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)
		fundRepo.On("Save", mock.Anything, mock.AnythingOfType("*fund.Fund")).Return(nil)

		router := setupFundRouter(fundRepo, new(mockTransactionRepository), new(mockDocumentRepository))

		body, _ := json.Marshal(UpdateFundRequest{
			Name:        "New Name",
			GPName:      "Test Partners",
			FundType:    "Buyout",
			VintageYear: 2020,
		})
		req := httptest.NewRequest("PUT", "/funds/"+f.ID.String(), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "New Name", data["name"])
	})

	t.Run("returns 404 for unknown fund", func(t *testing.T) {
		fundRepo := new(mockFundRepository)
		fundRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		router := setupFundRouter(fundRepo, new(mockTransactionRepository), new(mockDocumentRepository))

		body, _ := json.Marshal(UpdateFundRequest{Name: "Name", GPName: "GP"})
		req := httptest.NewRequest("PUT", "/funds/"+uuid.NewString(), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestFundHandlerDelete(t *testing.T) {
	t.Run("deletes fund and its transactions", func(t *testing.T) {
		f := newTestFund(t, "Closing Fund")
		fundRepo := new(mockFundRepository)
		fundRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)
		fundRepo.On("Delete", mock.Anything, f.ID).Return(nil)
		txRepo := new(mockTransactionRepository)
		txRepo.On("DeleteByFund", mock.Anything, f.ID).Return(nil)

		router := setupFundRouter(fundRepo, txRepo, new(mockDocumentRepository))

		req := httptest.NewRequest("DELETE", "/funds/"+f.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		fundRepo.AssertExpectations(t)
		txRepo.AssertExpectations(t)
	})

	t.Run("returns 404 for unknown fund", func(t *testing.T) {
		fundRepo := new(mockFundRepository)
		fundRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		router := setupFundRouter(fundRepo, new(mockTransactionRepository), new(mockDocumentRepository))

		req := httptest.NewRequest("DELETE", "/funds/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestFundHandlerListCapitalCalls(t *testing.T) {
	f := newTestFund(t, "Fund With Calls")
	call, err := fund.NewCapitalCall(f.ID, mustParseDate(t, "2021-03-15"), "Capital Call", decimalFromString(t, "250000"), "Call 1")
	require.NoError(t, err)

	fundRepo := new(mockFundRepository)
	fundRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)
	txRepo := new(mockTransactionRepository)
	txRepo.On("ListCapitalCalls", mock.Anything, f.ID, mock.Anything).
		Return(shared.NewPaginated([]fund.CapitalCall{*call}, 1, 1, 20), nil)

	router := setupFundRouter(fundRepo, txRepo, new(mockDocumentRepository))

	req := httptest.NewRequest("GET", "/funds/"+f.ID.String()+"/capital-calls", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
	assert.Contains(t, w.Body.String(), "250000.00")
	assert.Contains(t, w.Body.String(), "2021-03-15")
}

func TestFundHandlerListDistributions(t *testing.T) {
	f := newTestFund(t, "Fund With Distributions")
	dist, err := fund.NewDistribution(f.ID, mustParseDate(t, "2023-06-30"), "Return of Capital", true, decimalFromString(t, "120000"), "")
	require.NoError(t, err)

	fundRepo := new(mockFundRepository)
	fundRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)
	txRepo := new(mockTransactionRepository)
	txRepo.On("ListDistributions", mock.Anything, f.ID, mock.Anything).
		Return(shared.NewPaginated([]fund.Distribution{*dist}, 1, 1, 20), nil)

	router := setupFundRouter(fundRepo, txRepo, new(mockDocumentRepository))

	req := httptest.NewRequest("GET", "/funds/"+f.ID.String()+"/distributions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "120000.00")
	assert.Contains(t, w.Body.String(), `"is_recallable":true`)
}

func TestFundHandlerListAdjustments(t *testing.T) {
	t.Run("returns adjustments", func(t *testing.T) {
		f := newTestFund(t, "Fund With Adjustments")
		adj, err := fund.NewAdjustment(f.ID, mustParseDate(t, "2023-09-01"), "Clawback", "Contribution", decimalFromString(t, "-5000"), true, "")
		require.NoError(t, err)

		fundRepo := new(mockFundRepository)
		fundRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)
		txRepo := new(mockTransactionRepository)
		txRepo.On("ListAdjustments", mock.Anything, f.ID, mock.Anything).
			Return(shared.NewPaginated([]fund.Adjustment{*adj}, 1, 1, 20), nil)

		router := setupFundRouter(fundRepo, txRepo, new(mockDocumentRepository))

		req := httptest.NewRequest("GET", "/funds/"+f.ID.String()+"/adjustments", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "-5000.00")
	})

	t.Run("returns 404 for unknown fund", func(t *testing.T) {
		fundRepo := new(mockFundRepository)
		fundRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		router := setupFundRouter(fundRepo, new(mockTransactionRepository), new(mockDocumentRepository))

		req := httptest.NewRequest("GET", "/funds/"+uuid.NewString()+"/adjustments", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
