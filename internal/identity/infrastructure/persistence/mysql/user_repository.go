package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/attestation/internal/identity/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

// UserModel 账户数据库模型
type UserModel struct {
	gorm.Model
	Email           string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash    string `gorm:"column:password_hash;type:varchar(255);not null"`
	Name            string `gorm:"column:name;type:varchar(100)"`
	PhysicalAddress string `gorm:"column:physical_address;type:varchar(255)"`
	WalletAddress   string `gorm:"column:wallet_address;type:varchar(66);uniqueIndex"`
	Role            string `gorm:"column:role;type:varchar(20);not null"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) toDomain() *domain.User {
	return &domain.User{
		ID:              m.ID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		Name:            m.Name,
		PhysicalAddress: m.PhysicalAddress,
		WalletAddress:   m.WalletAddress,
		Role:            domain.UserRole(m.Role),
	}
}

func fromUserDomain(u *domain.User) *UserModel {
	model := &UserModel{
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		Name:            u.Name,
		PhysicalAddress: u.PhysicalAddress,
		WalletAddress:   u.WalletAddress,
		Role:            string(u.Role),
	}
	model.ID = u.ID
	return model
}

type userRepository struct{ db *gorm.DB }

// NewUserRepository 创建账户仓储实例
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextx.WithTx(ctx, tx)
		return fn(txCtx)
	})
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	db := r.getDB(ctx)
	model := fromUserDomain(user)
	if model.ID == 0 {
		if err := db.WithContext(ctx).Create(model).Error; err != nil {
			return err
		}
		user.ID = model.ID
		user.CreatedAt = model.CreatedAt
		user.UpdatedAt = model.UpdatedAt
		return nil
	}

	// 角色创建后不可变更，更新时不触碰 role 列
	return db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"email":            model.Email,
			"password_hash":    model.PasswordHash,
			"name":             model.Name,
			"physical_address": model.PhysicalAddress,
			"wallet_address":   model.WalletAddress,
		}).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var model UserModel
	err := r.getDB(ctx).WithContext(ctx).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.toDomain(), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model UserModel
	err := r.getDB(ctx).WithContext(ctx).Where("email = ?", email).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.toDomain(), nil
}

func (r *userRepository) GetByWalletAddress(ctx context.Context, walletAddress string) (*domain.User, error) {
	var model UserModel
	err := r.getDB(ctx).WithContext(ctx).Where("wallet_address = ?", walletAddress).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.toDomain(), nil
}

func (r *userRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
