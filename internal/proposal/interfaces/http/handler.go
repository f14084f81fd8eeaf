package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	identityhttp "github.com/wyfcoding/attestation/internal/identity/interfaces/http"
	"github.com/wyfcoding/attestation/internal/proposal/application"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// ProposalHandler 提案 HTTP 处理器
type ProposalHandler struct {
	app *application.ProposalService
}

// NewProposalHandler 创建提案 HTTP 处理器实例
func NewProposalHandler(app *application.ProposalService) *ProposalHandler {
	return &ProposalHandler{app: app}
}

// RegisterRoutes 注册路由。提交操作仅限机构账户。
func (h *ProposalHandler) RegisterRoutes(router *gin.RouterGroup, auth, agency gin.HandlerFunc) {
	g := router.Group("/project/:id")
	{
		g.POST("/proposal", auth, agency, h.SubmitProposal)
		g.GET("/proposals", h.ListByProject)
		g.GET("/proposal/:pid", h.GetProposal)
		g.GET("/proposal/:pid/phases", h.ListPhases)
	}
}

// SubmitProposal 机构提交提案
func (h *ProposalHandler) SubmitProposal(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid project id", "")
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		TotalBudget string `json:"total_budget"`
		Timeline    string `json:"timeline"`
		Summary     string `json:"summary"`
		Outcome     string `json:"outcome"`
		NoOfPhases  int    `json:"no_of_phases"`
		OnchainID   string `json:"onchain_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	budget := decimal.Zero
	if req.TotalBudget != "" {
		parsed, err := decimal.NewFromString(req.TotalBudget)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid total_budget", "")
			return
		}
		budget = parsed
	}

	proposal, err := h.app.SubmitProposal(c.Request.Context(), application.SubmitProposalCommand{
		ProjectID:   uint(projectID),
		AgencyID:    identityhttp.CurrentUserID(c),
		Name:        req.Name,
		TotalBudget: budget,
		Timeline:    req.Timeline,
		Summary:     req.Summary,
		Outcome:     req.Outcome,
		NoOfPhases:  req.NoOfPhases,
		OnchainID:   req.OnchainID,
	})
	if err != nil {
		if errors.Is(err, application.ErrProjectNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to submit proposal", "project_id", projectID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, proposal)
}

// GetProposal 获取提案
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid project id", "")
		return
	}
	proposalID, err := strconv.ParseUint(c.Param("pid"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid proposal id", "")
		return
	}

	proposal, err := h.app.GetProposal(c.Request.Context(), uint(proposalID))
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to get proposal", "id", proposalID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	if proposal == nil || proposal.ProjectID != uint(projectID) {
		response.ErrorWithStatus(c, http.StatusNotFound, "proposal not found", "")
		return
	}

	response.Success(c, proposal)
}

// ListByProject 列出项目下的提案
func (h *ProposalHandler) ListByProject(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid project id", "")
		return
	}

	proposals, err := h.app.ListByProject(c.Request.Context(), uint(projectID))
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list proposals", "project_id", projectID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, proposals)
}

// ListPhases 列出提案下的阶段
func (h *ProposalHandler) ListPhases(c *gin.Context) {
	proposalID, err := strconv.ParseUint(c.Param("pid"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid proposal id", "")
		return
	}

	phases, err := h.app.ListPhases(c.Request.Context(), uint(proposalID))
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list phases", "proposal_id", proposalID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, phases)
}
