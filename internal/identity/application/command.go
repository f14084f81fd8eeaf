package application

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/attestation/internal/identity/domain"
	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/messagequeue"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailTaken 邮箱已被注册
	ErrEmailTaken = errors.New("email already registered")
	// ErrWalletTaken 钱包地址已被绑定
	ErrWalletTaken = errors.New("wallet address already registered")
	// ErrInvalidCredentials 凭证错误
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRole 角色非法
	ErrInvalidRole = errors.New("invalid role")
)

// RegisterCommand 注册命令
type RegisterCommand struct {
	Email           string
	Password        string
	Name            string
	PhysicalAddress string
	WalletAddress   string
	Role            domain.UserRole
}

// LoginCommand 邮箱登录命令
type LoginCommand struct {
	Email    string
	Password string
}

// WalletLoginCommand 钱包登录命令。签名本身由前端与链上协作方校验，
// 后端只负责归一化地址后的账户解析与令牌签发。
type WalletLoginCommand struct {
	WalletAddress string
}

// IdentityCommandService 账户命令服务
type IdentityCommandService struct {
	repo      domain.UserRepository
	tokens    *TokenService
	publisher messagequeue.EventPublisher
}

// NewIdentityCommandService 创建账户命令服务实例
func NewIdentityCommandService(repo domain.UserRepository, tokens *TokenService, publisher messagequeue.EventPublisher) *IdentityCommandService {
	return &IdentityCommandService{repo: repo, tokens: tokens, publisher: publisher}
}

// Register 处理账户注册。角色在创建时确定，之后不可变更。
func (s *IdentityCommandService) Register(ctx context.Context, cmd RegisterCommand) (uint, error) {
	if !cmd.Role.Valid() {
		return 0, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	var user *domain.User
	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByEmail(txCtx, cmd.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrEmailTaken
		}

		wallet := domain.NormalizeWalletAddress(cmd.WalletAddress)
		if wallet != "" {
			existing, err = s.repo.GetByWalletAddress(txCtx, wallet)
			if err != nil {
				return err
			}
			if existing != nil {
				return ErrWalletTaken
			}
		}

		user = domain.NewUser(cmd.Email, string(hash), cmd.Name, cmd.PhysicalAddress, cmd.WalletAddress, cmd.Role)
		if err := s.repo.Save(txCtx, user); err != nil {
			return err
		}

		if s.publisher == nil {
			return nil
		}
		event := domain.UserRegisteredEvent{
			UserID:        user.ID,
			Email:         user.Email,
			WalletAddress: user.WalletAddress,
			Role:          user.Role,
			OccurredOn:    time.Now(),
		}
		return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.UserRegisteredEventType, user.Email, event)
	})
	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// Login 处理邮箱密码登录，返回令牌与过期时间戳
func (s *IdentityCommandService) Login(ctx context.Context, cmd LoginCommand) (string, int64, error) {
	user, err := s.repo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return "", 0, err
	}
	if user == nil {
		return "", 0, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		return "", 0, ErrInvalidCredentials
	}

	return s.tokens.Issue(user)
}

// LoginWithWallet 处理钱包地址登录
func (s *IdentityCommandService) LoginWithWallet(ctx context.Context, cmd WalletLoginCommand) (string, int64, error) {
	wallet := domain.NormalizeWalletAddress(cmd.WalletAddress)
	if wallet == "" {
		return "", 0, ErrInvalidCredentials
	}

	user, err := s.repo.GetByWalletAddress(ctx, wallet)
	if err != nil {
		return "", 0, err
	}
	if user == nil {
		return "", 0, ErrInvalidCredentials
	}

	return s.tokens.Issue(user)
}
