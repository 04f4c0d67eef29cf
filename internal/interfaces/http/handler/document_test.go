package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	fundsapp "github.com/fundsight/backend/internal/application/funds"
	"github.com/fundsight/backend/internal/application/ingestion"
	"github.com/fundsight/backend/internal/domain/document"
	"github.com/fundsight/backend/internal/domain/shared"
	"github.com/fundsight/backend/internal/interfaces/http/dto"
)

func setupDocumentRouter(fundRepo *mockFundRepository, txRepo *mockTransactionRepository, docRepo *mockDocumentRepository) *gin.Engine {
	fundSvc := fundsapp.NewService(fundRepo, txRepo, docRepo, zap.NewNop())
	ingestionSvc := ingestion.NewService(docRepo, fundRepo, txRepo, zap.NewNop())
	h := NewDocumentHandler(fundSvc, ingestionSvc)

	router := gin.New()
	router.POST("/funds/:id/documents", h.Register)
	router.GET("/funds/:id/documents", h.ListByFund)
	router.GET("/documents/:id", h.GetByID)
	router.POST("/documents/:id/process", h.Process)
	return router
}

func newTestDocument(t *testing.T, fundID uuid.UUID, filename string) *document.Document {
	t.Helper()
	doc, err := document.NewDocument(fundID, filename)
	require.NoError(t, err)
	return doc
}

func TestDocumentHandlerRegister(t *testing.T) {
	t.Run("registers document", func(t *testing.T) {
		f := newTestFund(t, "Reporting Fund")
		fundRepo := new(mockFundRepository)
		fundRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)
		docRepo := new(mockDocumentRepository)
		docRepo.On("Save", mock.Anything, mock.AnythingOfType("*document.Document")).Return(nil)

		router := setupDocumentRouter(fundRepo, new(mockTransactionRepository), docRepo)

		body, _ := json.Marshal(RegisterDocumentRequest{Filename: "q3-report.pdf"})
		req := httptest.NewRequest("POST", "/funds/"+f.ID.String()+"/documents", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "q3-report.pdf", data["filename"])
		assert.Equal(t, string(document.StatusPending), data["status"])
		docRepo.AssertExpectations(t)
	})

	t.Run("rejects missing filename", func(t *testing.T) {
		router := setupDocumentRouter(new(mockFundRepository), new(mockTransactionRepository), new(mockDocumentRepository))

		req := httptest.NewRequest("POST", "/funds/"+uuid.NewString()+"/documents", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 404 for unknown fund", func(t *testing.T) {
		fundRepo := new(mockFundRepository)
		fundRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		router := setupDocumentRouter(fundRepo, new(mockTransactionRepository), new(mockDocumentRepository))

		body, _ := json.Marshal(RegisterDocumentRequest{Filename: "report.pdf"})
		req := httptest.NewRequest("POST", "/funds/"+uuid.NewString()+"/documents", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDocumentHandlerGetByID(t *testing.T) {
	t.Run("returns document", func(t *testing.T) {
		doc := newTestDocument(t, uuid.New(), "annual-report.pdf")
		docRepo := new(mockDocumentRepository)
		docRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

		router := setupDocumentRouter(new(mockFundRepository), new(mockTransactionRepository), docRepo)

		req := httptest.NewRequest("GET", "/documents/"+doc.ID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "annual-report.pdf")
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		router := setupDocumentRouter(new(mockFundRepository), new(mockTransactionRepository), new(mockDocumentRepository))

		req := httptest.NewRequest("GET", "/documents/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid document ID format")
	})
}

func TestDocumentHandlerListByFund(t *testing.T) {
	f := newTestFund(t, "Documented Fund")
	doc := newTestDocument(t, f.ID, "q1.pdf")

	fundRepo := new(mockFundRepository)
	fundRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)
	docRepo := new(mockDocumentRepository)
	docRepo.On("FindByFund", mock.Anything, f.ID, mock.Anything).
		Return(shared.NewPaginated([]document.Document{*doc}, 1, 1, 20), nil)

	router := setupDocumentRouter(fundRepo, new(mockTransactionRepository), docRepo)

	req := httptest.NewRequest("GET", "/funds/"+f.ID.String()+"/documents", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestDocumentHandlerProcess(t *testing.T) {
	t.Run("processes extracted tables", func(t *testing.T) {
		f := newTestFund(t, "Processing Fund")
		doc := newTestDocument(t, f.ID, "capital-calls.pdf")

		fundRepo := new(mockFundRepository)
		fundRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)
		docRepo := new(mockDocumentRepository)
		docRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		docRepo.On("Save", mock.Anything, mock.AnythingOfType("*document.Document")).Return(nil)
		txRepo := new(mockTransactionRepository)
		txRepo.On("SaveCapitalCalls", mock.Anything, mock.AnythingOfType("[]fund.CapitalCall")).Return(nil)

		router := setupDocumentRouter(fundRepo, txRepo, docRepo)

		body, _ := json.Marshal(ProcessDocumentRequest{
			Pages: []ingestion.Page{
				{
					Number: 1,
					Tables: []ingestion.RawTable{
						{
							Headers: []string{"Call Date", "Call Type", "Amount"},
							Rows: [][]string{
								{"2021-03-15", "Capital Call", "250,000.00"},
								{"2021-06-30", "Capital Call", "100,000.00"},
							},
						},
					},
				},
			},
		})
		req := httptest.NewRequest("POST", "/documents/"+doc.ID.String()+"/process", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, string(document.StatusCompleted), data["status"])

		stats := data["stats"].(map[string]interface{})
		assert.Equal(t, float64(1), stats["tables_found"])
		assert.Equal(t, float64(2), stats["capital_calls"])
		txRepo.AssertExpectations(t)
	})

	t.Run("fails document with no tables", func(t *testing.T) {
		f := newTestFund(t, "Empty Fund")
		doc := newTestDocument(t, f.ID, "empty.pdf")

		fundRepo := new(mockFundRepository)
		fundRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)
		docRepo := new(mockDocumentRepository)
		docRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		docRepo.On("Save", mock.Anything, mock.AnythingOfType("*document.Document")).Return(nil)

		router := setupDocumentRouter(fundRepo, new(mockTransactionRepository), docRepo)

		req := httptest.NewRequest("POST", "/documents/"+doc.ID.String()+"/process", bytes.NewReader([]byte(`{"pages": []}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, string(document.StatusFailed), data["status"])
	})

	t.Run("rejects reprocessing a completed document", func(t *testing.T) {
		f := newTestFund(t, "Done Fund")
		doc := newTestDocument(t, f.ID, "done.pdf")
		require.NoError(t, doc.StartProcessing())
		require.NoError(t, doc.Complete(document.Stats{}))

		fundRepo := new(mockFundRepository)
		fundRepo.On("FindByID", mock.Anything, f.ID).Return(f, nil)
		docRepo := new(mockDocumentRepository)
		docRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

		router := setupDocumentRouter(fundRepo, new(mockTransactionRepository), docRepo)

		req := httptest.NewRequest("POST", "/documents/"+doc.ID.String()+"/process", bytes.NewReader([]byte(`{"pages": []}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeInvalidState)
	})

	t.Run("returns 404 for unknown document", func(t *testing.T) {
		docRepo := new(mockDocumentRepository)
		docRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		router := setupDocumentRouter(new(mockFundRepository), new(mockTransactionRepository), docRepo)

		req := httptest.NewRequest("POST", "/documents/"+uuid.NewString()+"/process", bytes.NewReader([]byte(`{"pages": []}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
