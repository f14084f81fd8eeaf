package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/attestation/internal/identity/application"
	"github.com/wyfcoding/attestation/internal/identity/domain"
	"github.com/wyfcoding/pkg/response"
)

const (
	userIDKey   = "auth_user_id"
	userRoleKey = "auth_user_role"
)

// Authenticate 解析 Bearer 令牌并把账户标识写入请求上下文
func Authenticate(tokens *application.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "missing bearer token", "")
			c.Abort()
			return
		}

		claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "invalid token", "")
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole 限定角色，须在 Authenticate 之后挂载
func RequireRole(role domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserRole(c) != role {
			response.ErrorWithStatus(c, http.StatusForbidden, "insufficient role", "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID 读取当前请求的账户ID，未认证时返回 0
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// CurrentUserRole 读取当前请求的账户角色
func CurrentUserRole(c *gin.Context) domain.UserRole {
	if v, ok := c.Get(userRoleKey); ok {
		if role, ok := v.(domain.UserRole); ok {
			return role
		}
	}
	return ""
}
