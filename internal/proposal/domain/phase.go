package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PhaseStatus 阶段状态，只允许单向推进：Pending → In Progress → Completed
type PhaseStatus string

const (
	// PhasePending 待启动
	PhasePending PhaseStatus = "Pending"
	// PhaseInProgress 进行中
	PhaseInProgress PhaseStatus = "In Progress"
	// PhaseCompleted 已完成并通过验收
	PhaseCompleted PhaseStatus = "Completed"
)

// CanTransitionTo 判断状态能否前向推进到 next
func (s PhaseStatus) CanTransitionTo(next PhaseStatus) bool {
	switch s {
	case PhasePending:
		return next == PhaseInProgress || next == PhaseCompleted
	case PhaseInProgress:
		return next == PhaseCompleted
	default:
		return false
	}
}

// Phase 已采纳提案下的交付阶段。ProjectID 与 AgencyID 为查询冗余字段。
// Number 由调用方提供，不做唯一性约束，重复编号原样接受。
type Phase struct {
	ID                  uint            `json:"id"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	ProposalID          uint            `json:"proposal_id"`
	ProjectID           uint            `json:"project_id"`
	AgencyID            uint            `json:"agency_id"`
	Number              string          `json:"number"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	Budget              decimal.Decimal `json:"budget"`
	StartDate           time.Time       `json:"start_date"`
	EndDate             time.Time       `json:"end_date"`
	ValidatingDocuments []string        `json:"validating_documents,omitempty"`
	Status              PhaseStatus     `json:"status"`
	CompletedAt         *time.Time      `json:"completed_at,omitempty"`
}

// CompletedOnTime 按验收时刻判断是否按期完成
func (p *Phase) CompletedOnTime(acceptedAt time.Time) bool {
	return !acceptedAt.After(p.EndDate)
}
