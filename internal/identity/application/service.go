package application

import (
	"context"

	"github.com/wyfcoding/attestation/internal/identity/domain"
	"github.com/wyfcoding/pkg/messagequeue"
)

// IdentityService 账户服务门面，整合命令服务和查询服务
type IdentityService struct {
	commandService *IdentityCommandService
	queryService   *IdentityQueryService
	tokens         *TokenService
}

// NewIdentityService 创建账户服务门面实例
func NewIdentityService(repo domain.UserRepository, tokens *TokenService, publisher messagequeue.EventPublisher) *IdentityService {
	return &IdentityService{
		commandService: NewIdentityCommandService(repo, tokens, publisher),
		queryService:   NewIdentityQueryService(repo),
		tokens:         tokens,
	}
}

// Register 处理账户注册
func (s *IdentityService) Register(ctx context.Context, cmd RegisterCommand) (uint, error) {
	return s.commandService.Register(ctx, cmd)
}

// Login 处理邮箱密码登录
func (s *IdentityService) Login(ctx context.Context, cmd LoginCommand) (string, int64, error) {
	return s.commandService.Login(ctx, cmd)
}

// LoginWithWallet 处理钱包地址登录
func (s *IdentityService) LoginWithWallet(ctx context.Context, cmd WalletLoginCommand) (string, int64, error) {
	return s.commandService.LoginWithWallet(ctx, cmd)
}

// GetUser 根据ID获取账户
func (s *IdentityService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.queryService.GetUser(ctx, id)
}

// ParseToken 校验访问令牌
func (s *IdentityService) ParseToken(token string) (*Claims, error) {
	return s.tokens.Parse(token)
}
