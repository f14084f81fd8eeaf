package application

import (
	"context"

	"github.com/wyfcoding/attestation/internal/identity/domain"
)

// IdentityQueryService 账户查询服务
type IdentityQueryService struct {
	repo domain.UserRepository
}

// NewIdentityQueryService 创建账户查询服务实例
func NewIdentityQueryService(repo domain.UserRepository) *IdentityQueryService {
	return &IdentityQueryService{repo: repo}
}

// GetUser 根据ID获取账户
func (s *IdentityQueryService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetUserByWallet 根据归一化后的钱包地址获取账户
func (s *IdentityQueryService) GetUserByWallet(ctx context.Context, walletAddress string) (*domain.User, error) {
	return s.repo.GetByWalletAddress(ctx, domain.NormalizeWalletAddress(walletAddress))
}
