package domain

import "context"

// UserRepository 账户仓储。查询未命中时返回 (nil, nil)。
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByWalletAddress 的入参必须已经过小写归一化
	GetByWalletAddress(ctx context.Context, walletAddress string) (*User, error)
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
