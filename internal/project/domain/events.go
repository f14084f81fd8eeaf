package domain

import "time"

const (
	// ProjectCreatedEventType 项目创建事件主题
	ProjectCreatedEventType = "attestation.project.created"
)

// ProjectCreatedEvent 项目创建事件
type ProjectCreatedEvent struct {
	ProjectID  uint      `json:"project_id"`
	Name       string    `json:"name"`
	OnchainID  string    `json:"onchain_id,omitempty"`
	Budget     string    `json:"budget"`
	CreatedBy  uint      `json:"created_by"`
	OccurredOn time.Time `json:"occurred_on"`
}
