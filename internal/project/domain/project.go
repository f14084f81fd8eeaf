package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project 政府发起的项目。创建后不提供更新操作，
// 一旦有提案引用即视为不可变。
type Project struct {
	ID          uint            `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	OnchainID   string          `json:"onchain_id,omitempty"`
	Budget      decimal.Decimal `json:"budget"`
	CreatedBy   uint            `json:"created_by"`
}

// NewProject 创建项目
func NewProject(name, description, onchainID string, budget decimal.Decimal, createdBy uint) *Project {
	return &Project{
		Name:        name,
		Description: description,
		OnchainID:   onchainID,
		Budget:      budget,
		CreatedBy:   createdBy,
	}
}
