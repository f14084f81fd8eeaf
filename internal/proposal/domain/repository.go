package domain

import (
	"context"
	"time"
)

// ProposalRepository 提案仓储。查询未命中时返回 (nil, nil)。
type ProposalRepository interface {
	Save(ctx context.Context, proposal *Proposal) error
	GetByID(ctx context.Context, id uint) (*Proposal, error)
	ListByProject(ctx context.Context, projectID uint) ([]*Proposal, error)
	// UpdateStatus 更新单个提案状态
	UpdateStatus(ctx context.Context, id uint, status ProposalStatus) error
	// RejectSiblings 把同项目下除 acceptedID 外的所有待审提案置为未采纳，
	// 维持"单一采纳提案"不变量
	RejectSiblings(ctx context.Context, projectID, acceptedID uint) error
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PhaseRepository 阶段仓储
type PhaseRepository interface {
	// SaveBatch 批量写入阶段并保持输入顺序回填ID
	SaveBatch(ctx context.Context, phases []*Phase) error
	GetByID(ctx context.Context, id uint) (*Phase, error)
	ListByProposal(ctx context.Context, proposalID uint) ([]*Phase, error)
	UpdateStatus(ctx context.Context, id uint, status PhaseStatus) error
	// MarkCompleted 标记阶段完成并记录验收时刻
	MarkCompleted(ctx context.Context, id uint, completedAt time.Time) error
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
