package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/attestation/internal/audit/application"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// AuditHandler 存证查询 HTTP 处理器，只读
type AuditHandler struct {
	service *application.AuditService
}

// NewAuditHandler 创建存证查询 HTTP 处理器实例
func NewAuditHandler(service *application.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// RegisterRoutes 注册路由
func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	g := router.Group("/audit", auth)
	{
		g.GET("/records", h.ListRecords)
	}
}

// ListRecords 查询存证记录，支持 event_type、entity_id、limit 过滤
func (h *AuditHandler) ListRecords(c *gin.Context) {
	eventType := c.Query("event_type")

	if entityIDStr := c.Query("entity_id"); entityIDStr != "" {
		entityID, err := strconv.ParseUint(entityIDStr, 10, 64)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid entity_id", "")
			return
		}
		if eventType == "" {
			response.ErrorWithStatus(c, http.StatusBadRequest, "event_type is required with entity_id", "")
			return
		}
		records, err := h.service.ListEntityTrail(c.Request.Context(), eventType, uint(entityID))
		if err != nil {
			logging.Error(c.Request.Context(), "Failed to list entity trail", "error", err)
			response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
			return
		}
		response.Success(c, records)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	records, err := h.service.ListRecords(c.Request.Context(), eventType, limit)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list audit records", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, records)
}
