package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	fundsapp "github.com/fundsight/backend/internal/application/funds"
	"github.com/fundsight/backend/internal/domain/shared"
	"github.com/fundsight/backend/internal/interfaces/http/dto"
)

// FundHandler handles fund-related API endpoints
type FundHandler struct {
	BaseHandler
	fundService *fundsapp.Service
}

// NewFundHandler creates a new FundHandler
func NewFundHandler(fundService *fundsapp.Service) *FundHandler {
	return &FundHandler{
		fundService: fundService,
	}
}

// CreateFundRequest represents a request to register a new fund
type CreateFundRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=200"`
	GPName      string  `json:"gp_name" binding:"required,min=1,max=200"`
	FundType    string  `json:"fund_type" binding:"max=50"`
	VintageYear int     `json:"vintage_year" binding:"omitempty,min=1900,max=2100"`
	NAV         *string `json:"nav"`
}

// UpdateFundRequest represents a request to update a fund
type UpdateFundRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=200"`
	GPName      string  `json:"gp_name" binding:"required,min=1,max=200"`
	FundType    string  `json:"fund_type" binding:"max=50"`
	VintageYear int     `json:"vintage_year" binding:"omitempty,min=1900,max=2100"`
	NAV         *string `json:"nav"`
}

// Create registers a new fund
func (h *FundHandler) Create(c *gin.Context) {
	var req CreateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.fundService.CreateFund(c.Request.Context(), fundsapp.CreateFundInput{
		Name:        req.Name,
		GPName:      req.GPName,
		FundType:    req.FundType,
		VintageYear: req.VintageYear,
		NAV:         req.NAV,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, created)
}

// GetByID returns one fund
func (h *FundHandler) GetByID(c *gin.Context) {
	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fund ID format")
		return
	}

	f, err := h.fundService.GetFund(c.Request.Context(), fundID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, f)
}

// List returns a paginated list of funds
func (h *FundHandler) List(c *gin.Context) {
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}
	if fundType := c.Query("fund_type"); fundType != "" {
		filter.Filters["fund_type"] = fundType
	}
	if vintage := c.Query("vintage_year"); vintage != "" {
		year, err := strconv.Atoi(vintage)
		if err != nil {
			h.BadRequest(c, "Invalid vintage year filter")
			return
		}
		filter.Filters["vintage_year"] = year
	}

	page, err := h.fundService.ListFunds(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update replaces a fund's descriptive fields and NAV
func (h *FundHandler) Update(c *gin.Context) {
	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fund ID format")
		return
	}

	var req UpdateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.fundService.UpdateFund(c.Request.Context(), fundID, fundsapp.UpdateFundInput{
		Name:        req.Name,
		GPName:      req.GPName,
		FundType:    req.FundType,
		VintageYear: req.VintageYear,
		NAV:         req.NAV,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, updated)
}

// Delete removes a fund and its transaction records
func (h *FundHandler) Delete(c *gin.Context) {
	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fund ID format")
		return
	}

	if err := h.fundService.DeleteFund(c.Request.Context(), fundID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListCapitalCalls returns a page of the fund's capital calls
func (h *FundHandler) ListCapitalCalls(c *gin.Context) {
	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fund ID format")
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	page, err := h.fundService.ListCapitalCalls(c.Request.Context(), fundID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListDistributions returns a page of the fund's distributions
func (h *FundHandler) ListDistributions(c *gin.Context) {
	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fund ID format")
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	page, err := h.fundService.ListDistributions(c.Request.Context(), fundID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListAdjustments returns a page of the fund's adjustments
func (h *FundHandler) ListAdjustments(c *gin.Context) {
	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fund ID format")
		return
	}
	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	page, err := h.fundService.ListAdjustments(c.Request.Context(), fundID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// bindListFilter binds common pagination query parameters into a
// repository filter. Writes the error response itself on failure.
func (h *BaseHandler) bindListFilter(c *gin.Context) (shared.Filter, bool) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return shared.Filter{}, false
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	filter := shared.DefaultFilter()
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	filter.Search = req.Search
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	if filter.Filters == nil {
		filter.Filters = map[string]interface{}{}
	}
	return filter, true
}
