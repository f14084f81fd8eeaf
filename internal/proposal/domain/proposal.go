package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProposalStatus 提案状态
type ProposalStatus string

const (
	// ProposalPending 待审
	ProposalPending ProposalStatus = "Pending"
	// ProposalAccepted 已采纳。同一项目下任意时刻至多一个提案处于该状态。
	ProposalAccepted ProposalStatus = "Accepted"
	// ProposalNotAccepted 未采纳
	ProposalNotAccepted ProposalStatus = "Not Accepted"
)

// Proposal 机构针对某个项目提交的提案。状态仅由政府账户通过
// 生命周期编排器的采纳操作变更。
type Proposal struct {
	ID          uint            `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	ProjectID   uint            `json:"project_id"`
	AgencyID    uint            `json:"agency_id"`
	Name        string          `json:"name"`
	TotalBudget decimal.Decimal `json:"total_budget"`
	Timeline    string          `json:"timeline"`
	Summary     string          `json:"summary,omitempty"`
	Outcome     string          `json:"outcome"`
	// NoOfPhases 为提交时申报的阶段数，与实际注册的阶段数
	// 是相互独立的冗余字段，注册时不做一致性校验。
	NoOfPhases int            `json:"no_of_phases"`
	Status     ProposalStatus `json:"status"`
	OnchainID  string         `json:"onchain_id,omitempty"`
}

// NewProposal 创建待审提案
func NewProposal(projectID, agencyID uint, name string, totalBudget decimal.Decimal, timeline, summary, outcome string, noOfPhases int, onchainID string) *Proposal {
	return &Proposal{
		ProjectID:   projectID,
		AgencyID:    agencyID,
		Name:        name,
		TotalBudget: totalBudget,
		Timeline:    timeline,
		Summary:     summary,
		Outcome:     outcome,
		NoOfPhases:  noOfPhases,
		Status:      ProposalPending,
		OnchainID:   onchainID,
	}
}

// IsAccepted 提案是否已被采纳
func (p *Proposal) IsAccepted() bool {
	return p.Status == ProposalAccepted
}
