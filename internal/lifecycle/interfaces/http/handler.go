package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/attestation/internal/lifecycle/application"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// LifecycleHandler 生命周期 HTTP 处理器。所有操作仅限政府账户。
type LifecycleHandler struct {
	orchestrator *application.LifecycleOrchestrator
}

// NewLifecycleHandler 创建生命周期 HTTP 处理器实例
func NewLifecycleHandler(orchestrator *application.LifecycleOrchestrator) *LifecycleHandler {
	return &LifecycleHandler{orchestrator: orchestrator}
}

// RegisterRoutes 注册路由
func (h *LifecycleHandler) RegisterRoutes(router *gin.RouterGroup, auth, government gin.HandlerFunc) {
	g := router.Group("/project/:id", auth, government)
	{
		g.POST("/proposal/accept", h.AcceptProposal)
		g.POST("/proposal/:pid/phase/register", h.RegisterPhases)
		g.POST("/proposal/:pid/phase/accept", h.AcceptPhase)
		g.POST("/proposal/:pid/phase/:phid/start", h.StartPhase)
	}
}

// AcceptProposal 采纳提案并自动否决同项目下的其他待审提案
func (h *LifecycleHandler) AcceptProposal(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		ProposalID uint `json:"proposal_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	id, err := h.orchestrator.AcceptProposal(c.Request.Context(), projectID, req.ProposalID)
	if err != nil {
		h.handleError(c, err, "Failed to accept proposal")
		return
	}

	response.Success(c, gin.H{"proposal_id": id, "status": "Accepted"})
}

type phaseRequest struct {
	Number              string   `json:"number" binding:"required"`
	Title               string   `json:"title" binding:"required"`
	Description         string   `json:"description"`
	Budget              string   `json:"budget" binding:"required"`
	StartDate           string   `json:"start_date" binding:"required"`
	EndDate             string   `json:"end_date" binding:"required"`
	ValidatingDocuments []string `json:"validating_documents"`
}

// RegisterPhases 为已采纳提案批量注册阶段
func (h *LifecycleHandler) RegisterPhases(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	proposalID, ok := parseIDParam(c, "pid")
	if !ok {
		return
	}

	var req struct {
		Phases []phaseRequest `json:"phases" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	cmd := application.RegisterPhasesCommand{
		ProjectID:  projectID,
		ProposalID: proposalID,
		Phases:     make([]application.PhaseInput, 0, len(req.Phases)),
	}
	for _, p := range req.Phases {
		budget, err := decimal.NewFromString(p.Budget)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid budget: "+p.Budget, "")
			return
		}
		startDate, err := time.Parse(time.RFC3339, p.StartDate)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid start_date: "+p.StartDate, "")
			return
		}
		endDate, err := time.Parse(time.RFC3339, p.EndDate)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid end_date: "+p.EndDate, "")
			return
		}
		cmd.Phases = append(cmd.Phases, application.PhaseInput{
			Number:              p.Number,
			Title:               p.Title,
			Description:         p.Description,
			Budget:              budget,
			StartDate:           startDate,
			EndDate:             endDate,
			ValidatingDocuments: p.ValidatingDocuments,
		})
	}

	ids, err := h.orchestrator.RegisterPhases(c.Request.Context(), cmd)
	if err != nil {
		h.handleError(c, err, "Failed to register phases")
		return
	}

	response.Success(c, gin.H{"phase_ids": ids})
}

// AcceptPhase 验收阶段
func (h *LifecycleHandler) AcceptPhase(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	proposalID, ok := parseIDParam(c, "pid")
	if !ok {
		return
	}

	var req struct {
		PhaseID uint `json:"phase_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	id, err := h.orchestrator.AcceptPhase(c.Request.Context(), projectID, proposalID, req.PhaseID)
	if err != nil {
		h.handleError(c, err, "Failed to accept phase")
		return
	}

	response.Success(c, gin.H{"proposal_id": id})
}

// StartPhase 启动阶段
func (h *LifecycleHandler) StartPhase(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	proposalID, ok := parseIDParam(c, "pid")
	if !ok {
		return
	}
	phaseID, ok := parseIDParam(c, "phid")
	if !ok {
		return
	}

	if err := h.orchestrator.StartPhase(c.Request.Context(), projectID, proposalID, phaseID); err != nil {
		h.handleError(c, err, "Failed to start phase")
		return
	}

	response.Success(c, gin.H{"phase_id": phaseID, "status": "In Progress"})
}

func (h *LifecycleHandler) handleError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, application.ErrProposalNotFound),
		errors.Is(err, application.ErrPhaseNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, application.ErrProposalNotAccepted),
		errors.Is(err, application.ErrInvalidPhaseTransition):
		response.ErrorWithStatus(c, http.StatusConflict, err.Error(), "")
	default:
		logging.Error(c.Request.Context(), logMsg, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid "+name, "")
		return 0, false
	}
	return uint(v), true
}
