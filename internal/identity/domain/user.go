package domain

import (
	"strings"
	"time"
)

// UserRole 账户角色
type UserRole string

const (
	// RoleGovernment 政府账户，创建项目并验收提案/阶段
	RoleGovernment UserRole = "Government"
	// RoleAgency 机构账户，提交提案并接受信用评分
	RoleAgency UserRole = "Agency"
)

// Valid 判断角色是否合法
func (r UserRole) Valid() bool {
	return r == RoleGovernment || r == RoleAgency
}

// User 平台账户。角色在创建后不可变更；钱包地址作为备用登录凭证，
// 存储与比较前必须统一转为小写。
type User struct {
	ID              uint      `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	Name            string    `json:"name"`
	PhysicalAddress string    `json:"physical_address"`
	WalletAddress   string    `json:"wallet_address"`
	Role            UserRole  `json:"role"`
}

// NewUser 创建新账户，钱包地址统一小写化
func NewUser(email, passwordHash, name, physicalAddress, walletAddress string, role UserRole) *User {
	return &User{
		Email:           email,
		PasswordHash:    passwordHash,
		Name:            name,
		PhysicalAddress: physicalAddress,
		WalletAddress:   NormalizeWalletAddress(walletAddress),
		Role:            role,
	}
}

// NormalizeWalletAddress 钱包地址小写归一化。
// 链上地址大小写混写（EIP-55 校验和形式），落库和查询都走归一化后的形式。
func NormalizeWalletAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// IsGovernment 是否为政府账户
func (u *User) IsGovernment() bool {
	return u.Role == RoleGovernment
}

// IsAgency 是否为机构账户
func (u *User) IsAgency() bool {
	return u.Role == RoleAgency
}
