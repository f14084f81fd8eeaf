package domain

import "time"

const (
	// ProposalSubmittedEventType 提案提交事件主题
	ProposalSubmittedEventType = "attestation.proposal.submitted"
	// ProposalAcceptedEventType 提案采纳事件主题
	ProposalAcceptedEventType = "attestation.proposal.accepted"
	// PhasesRegisteredEventType 阶段注册事件主题
	PhasesRegisteredEventType = "attestation.phase.registered"
	// PhaseStartedEventType 阶段启动事件主题
	PhaseStartedEventType = "attestation.phase.started"
	// PhaseAcceptedEventType 阶段验收事件主题
	PhaseAcceptedEventType = "attestation.phase.accepted"
)

// ProposalSubmittedEvent 提案提交事件
type ProposalSubmittedEvent struct {
	ProposalID  uint      `json:"proposal_id"`
	ProjectID   uint      `json:"project_id"`
	AgencyID    uint      `json:"agency_id"`
	Name        string    `json:"name"`
	TotalBudget string    `json:"total_budget"`
	NoOfPhases  int       `json:"no_of_phases"`
	OccurredOn  time.Time `json:"occurred_on"`
}

// ProposalAcceptedEvent 提案采纳事件
type ProposalAcceptedEvent struct {
	ProposalID uint      `json:"proposal_id"`
	ProjectID  uint      `json:"project_id"`
	AgencyID   uint      `json:"agency_id"`
	OccurredOn time.Time `json:"occurred_on"`
}

// PhasesRegisteredEvent 阶段注册事件
type PhasesRegisteredEvent struct {
	ProposalID uint      `json:"proposal_id"`
	ProjectID  uint      `json:"project_id"`
	PhaseIDs   []uint    `json:"phase_ids"`
	OccurredOn time.Time `json:"occurred_on"`
}

// PhaseStartedEvent 阶段启动事件
type PhaseStartedEvent struct {
	PhaseID    uint      `json:"phase_id"`
	ProposalID uint      `json:"proposal_id"`
	ProjectID  uint      `json:"project_id"`
	OccurredOn time.Time `json:"occurred_on"`
}

// PhaseAcceptedEvent 阶段验收事件
type PhaseAcceptedEvent struct {
	PhaseID     uint      `json:"phase_id"`
	ProposalID  uint      `json:"proposal_id"`
	ProjectID   uint      `json:"project_id"`
	AgencyID    uint      `json:"agency_id"`
	CompletedOn time.Time `json:"completed_on"`
	OnTime      bool      `json:"on_time"`
	OccurredOn  time.Time `json:"occurred_on"`
}
