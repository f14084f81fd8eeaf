package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	identityhttp "github.com/wyfcoding/attestation/internal/identity/interfaces/http"
	"github.com/wyfcoding/attestation/internal/project/application"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// ProjectHandler 项目 HTTP 处理器
type ProjectHandler struct {
	app *application.ProjectService
}

// NewProjectHandler 创建项目 HTTP 处理器实例
func NewProjectHandler(app *application.ProjectService) *ProjectHandler {
	return &ProjectHandler{app: app}
}

// RegisterRoutes 注册路由。创建操作仅限政府账户。
func (h *ProjectHandler) RegisterRoutes(router *gin.RouterGroup, auth, government gin.HandlerFunc) {
	g := router.Group("/projects")
	{
		g.POST("", auth, government, h.CreateProject)
		g.GET("", h.ListProjects)
		g.GET("/:id", h.GetProject)
	}
}

// CreateProject 创建项目
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		OnchainID   string `json:"onchain_id"`
		Budget      string `json:"budget"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	budget := decimal.Zero
	if req.Budget != "" {
		parsed, err := decimal.NewFromString(req.Budget)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid budget", "")
			return
		}
		budget = parsed
	}

	project, err := h.app.CreateProject(c.Request.Context(), application.CreateProjectCommand{
		Name:        req.Name,
		Description: req.Description,
		OnchainID:   req.OnchainID,
		Budget:      budget,
		CreatedBy:   identityhttp.CurrentUserID(c),
	})
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to create project", "name", req.Name, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, project)
}

// GetProject 获取项目
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid project id", "")
		return
	}

	project, err := h.app.GetProject(c.Request.Context(), uint(id))
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to get project", "id", id, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	if project == nil {
		response.ErrorWithStatus(c, http.StatusNotFound, "project not found", "")
		return
	}

	response.Success(c, project)
}

// ListProjects 列出项目
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid limit", "")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid offset", "")
		return
	}

	projects, err := h.app.ListProjects(c.Request.Context(), limit, offset)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list projects", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, projects)
}
