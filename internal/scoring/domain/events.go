package domain

import "time"

const (
	// CreditRecalculatedEventType 信用分重算事件主题
	CreditRecalculatedEventType = "attestation.scoring.recalculated"
)

// CreditRecalculatedEvent 信用分重算事件
type CreditRecalculatedEvent struct {
	AgencyID              uint      `json:"agency_id"`
	Credit                int       `json:"credit"`
	NoOfAcceptedProposals int       `json:"no_of_accepted_proposals"`
	CompletedPhaseOnTime  int       `json:"completed_phase_on_time"`
	Quality               int       `json:"quality"`
	OccurredOn            time.Time `json:"occurred_on"`
}
