package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	metricsapp "github.com/fundsight/backend/internal/application/metrics"
)

// MetricsHandler handles fund performance metric endpoints
type MetricsHandler struct {
	BaseHandler
	metricsService *metricsapp.Service
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(metricsService *metricsapp.Service) *MetricsHandler {
	return &MetricsHandler{
		metricsService: metricsService,
	}
}

// Calculate returns the full metric set for a fund
func (h *MetricsHandler) Calculate(c *gin.Context) {
	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fund ID format")
		return
	}

	set, err := h.metricsService.CalculateAll(c.Request.Context(), fundID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, set)
}

// Breakdown returns the calculation explanation for one metric
func (h *MetricsHandler) Breakdown(c *gin.Context) {
	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fund ID format")
		return
	}
	metric := metricsapp.Metric(c.Param("metric"))

	breakdown, err := h.metricsService.Breakdown(c.Request.Context(), fundID, metric)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, breakdown)
}
