package domain

import "time"

// 信用分权重。credit 永远是三个计数字段的纯函数，
// 只会整体重算，从不直接累加。
const (
	AcceptedProposalWeight = 10
	OnTimePhaseWeight      = 5
	QualityWeight          = 2
)

// AgencyMetrics 机构信用指标，每个机构唯一一行，首次评分事件时惰性建档，
// 永不删除。
type AgencyMetrics struct {
	ID                    uint      `json:"id"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
	AgencyID              uint      `json:"agency_id"`
	Credit                int       `json:"credit"`
	CompletedPhaseOnTime  int       `json:"completed_phase_on_time"`
	NoOfAcceptedProposals int       `json:"no_of_accepted_proposals"`
	// Quality 由政府侧人工评定，默认 0
	Quality int `json:"quality"`
}

// NewAgencyMetrics 创建零值指标行
func NewAgencyMetrics(agencyID uint) *AgencyMetrics {
	return &AgencyMetrics{AgencyID: agencyID}
}

// CalculateCredit 信用分计算，纯函数。Go 零值语义天然满足
// "缺失计数按零处理"的要求。
func CalculateCredit(acceptedProposals, onTimePhases, quality int) int {
	return acceptedProposals*AcceptedProposalWeight +
		onTimePhases*OnTimePhaseWeight +
		quality*QualityWeight
}

// Recalculate 按当前计数重算信用分
func (m *AgencyMetrics) Recalculate() {
	m.Credit = CalculateCredit(m.NoOfAcceptedProposals, m.CompletedPhaseOnTime, m.Quality)
}

// Consistent 校验信用分与计数的一致性不变量
func (m *AgencyMetrics) Consistent() bool {
	return m.Credit == CalculateCredit(m.NoOfAcceptedProposals, m.CompletedPhaseOnTime, m.Quality)
}
