package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	fundsapp "github.com/fundsight/backend/internal/application/funds"
	"github.com/fundsight/backend/internal/application/ingestion"
)

// DocumentHandler handles document upload and processing endpoints
type DocumentHandler struct {
	BaseHandler
	fundService      *fundsapp.Service
	ingestionService *ingestion.Service
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(fundService *fundsapp.Service, ingestionService *ingestion.Service) *DocumentHandler {
	return &DocumentHandler{
		fundService:      fundService,
		ingestionService: ingestionService,
	}
}

// RegisterDocumentRequest represents a request to register an uploaded report
type RegisterDocumentRequest struct {
	Filename string `json:"filename" binding:"required,min=1,max=500"`
}

// ProcessDocumentRequest carries the extracted page grids of a document.
// Layout extraction happens upstream; this API receives its output.
type ProcessDocumentRequest struct {
	Pages []ingestion.Page `json:"pages"`
}

// Register records an uploaded report for a fund
func (h *DocumentHandler) Register(c *gin.Context) {
	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fund ID format")
		return
	}

	var req RegisterDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.fundService.RegisterDocument(c.Request.Context(), fundID, req.Filename)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, doc)
}

// GetByID returns one document with its processing status and stats
func (h *DocumentHandler) GetByID(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	doc, err := h.fundService.GetDocument(c.Request.Context(), documentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, doc)
}

// ListByFund returns a page of a fund's documents
func (h *DocumentHandler) ListByFund(c *gin.Context) {
	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fund ID format")
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	page, err := h.fundService.ListDocuments(c.Request.Context(), fundID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Process runs classification and normalization over the document's
// extracted tables and persists the accepted records
func (h *DocumentHandler) Process(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	var req ProcessDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.ingestionService.ProcessDocument(c.Request.Context(), documentID, req.Pages)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
