package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/attestation/internal/scoring/application"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// MetricsHandler 信用指标 HTTP 处理器
type MetricsHandler struct {
	engine *application.CreditScoringEngine
	query  *application.MetricsQueryService
}

// NewMetricsHandler 创建信用指标 HTTP 处理器实例
func NewMetricsHandler(engine *application.CreditScoringEngine, query *application.MetricsQueryService) *MetricsHandler {
	return &MetricsHandler{engine: engine, query: query}
}

// RegisterRoutes 注册路由。质量分评定仅限政府账户。
func (h *MetricsHandler) RegisterRoutes(router *gin.RouterGroup, auth, government gin.HandlerFunc) {
	g := router.Group("/metrics")
	{
		g.GET("/agency/:id", h.GetAgencyMetrics)
		g.PUT("/agency/:id/quality", auth, government, h.SetQuality)
	}
}

// GetAgencyMetrics 获取机构信用指标
func (h *MetricsHandler) GetAgencyMetrics(c *gin.Context) {
	agencyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid agency id", "")
		return
	}

	metrics, err := h.query.GetAgencyMetrics(c.Request.Context(), uint(agencyID))
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to get agency metrics", "agency_id", agencyID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	if metrics == nil {
		response.ErrorWithStatus(c, http.StatusNotFound, "metrics not found", "")
		return
	}

	response.Success(c, metrics)
}

// SetQuality 评定机构质量分
func (h *MetricsHandler) SetQuality(c *gin.Context) {
	agencyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid agency id", "")
		return
	}

	var req struct {
		Quality int `json:"quality" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	metrics, err := h.engine.SetQuality(c.Request.Context(), uint(agencyID), req.Quality)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to set quality", "agency_id", agencyID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, metrics)
}
