package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/attestation/internal/identity/application"
	"github.com/wyfcoding/attestation/internal/identity/domain"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
)

// IdentityHandler 账户 HTTP 处理器
type IdentityHandler struct {
	app *application.IdentityService
}

// NewIdentityHandler 创建账户 HTTP 处理器实例
func NewIdentityHandler(app *application.IdentityService) *IdentityHandler {
	return &IdentityHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *IdentityHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	g := router.Group("/auth")
	{
		g.POST("/register", h.Register)
		g.POST("/login", h.Login)
		g.POST("/wallet-login", h.WalletLogin)
		g.GET("/me", auth, h.Me)
	}
}

// Register 账户注册
func (h *IdentityHandler) Register(c *gin.Context) {
	var req struct {
		Email           string `json:"email" binding:"required,email"`
		Password        string `json:"password" binding:"required,min=8"`
		Name            string `json:"name" binding:"required"`
		PhysicalAddress string `json:"physical_address"`
		WalletAddress   string `json:"wallet_address"`
		Role            string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	id, err := h.app.Register(c.Request.Context(), application.RegisterCommand{
		Email:           req.Email,
		Password:        req.Password,
		Name:            req.Name,
		PhysicalAddress: req.PhysicalAddress,
		WalletAddress:   req.WalletAddress,
		Role:            domain.UserRole(req.Role),
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrEmailTaken), errors.Is(err, application.ErrWalletTaken):
			response.ErrorWithStatus(c, http.StatusConflict, err.Error(), "")
		case errors.Is(err, application.ErrInvalidRole):
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		default:
			logging.Error(c.Request.Context(), "Failed to register user", "email", req.Email, "error", err)
			response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		}
		return
	}

	response.Success(c, gin.H{"user_id": id})
}

// Login 邮箱密码登录
func (h *IdentityHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	token, expiresAt, err := h.app.Login(c.Request.Context(), application.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.ErrorWithStatus(c, http.StatusUnauthorized, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to login", "email", req.Email, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"token": token, "expires_at": expiresAt})
}

// WalletLogin 钱包地址登录
func (h *IdentityHandler) WalletLogin(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"wallet_address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	token, expiresAt, err := h.app.LoginWithWallet(c.Request.Context(), application.WalletLoginCommand{
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.ErrorWithStatus(c, http.StatusUnauthorized, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "Failed to login with wallet", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"token": token, "expires_at": expiresAt})
}

// Me 返回当前登录账户
func (h *IdentityHandler) Me(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		response.ErrorWithStatus(c, http.StatusUnauthorized, "not authenticated", "")
		return
	}

	user, err := h.app.GetUser(c.Request.Context(), userID)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to get user", "user_id", userID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	if user == nil {
		response.ErrorWithStatus(c, http.StatusNotFound, "user not found", "")
		return
	}

	response.Success(c, user)
}
