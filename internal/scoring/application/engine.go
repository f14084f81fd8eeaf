package application

import (
	"context"
	"time"

	proposaldomain "github.com/wyfcoding/attestation/internal/proposal/domain"
	"github.com/wyfcoding/attestation/internal/scoring/domain"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue"
)

// ProposalResolver 提案解析口，用于把提案ID解析到所属机构
type ProposalResolver interface {
	GetByID(ctx context.Context, id uint) (*proposaldomain.Proposal, error)
}

// CreditScoringEngine 信用评分引擎。指标是生命周期事件的派生投影：
// 评分属于尽力而为的副作用，提案或机构缺失时静默跳过，绝不把错误
// 上抛成用户可见故障。
type CreditScoringEngine struct {
	repo      domain.MetricsRepository
	cache     domain.MetricsCache
	proposals ProposalResolver
	publisher messagequeue.EventPublisher
}

// NewCreditScoringEngine 创建信用评分引擎实例
func NewCreditScoringEngine(
	repo domain.MetricsRepository,
	cache domain.MetricsCache,
	proposals ProposalResolver,
	publisher messagequeue.EventPublisher,
) *CreditScoringEngine {
	return &CreditScoringEngine{repo: repo, cache: cache, proposals: proposals, publisher: publisher}
}

// InitMetrics 为机构惰性建档。set-on-insert 语义：已有行的计数一律不动。
func (e *CreditScoringEngine) InitMetrics(ctx context.Context, agencyID uint) error {
	return e.repo.EnsureAgency(ctx, agencyID)
}

// OnProposalAccepted 提案采纳评分钩子。重复调用会重复累加，
// 不做去重（与链上事件语义一致，重放由上游保证）。
func (e *CreditScoringEngine) OnProposalAccepted(ctx context.Context, proposalID uint) error {
	proposal, err := e.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return err
	}
	if proposal == nil {
		logging.Warn(ctx, "Scoring skipped, proposal not found", "proposal_id", proposalID)
		return nil
	}

	if err := e.repo.EnsureAgency(ctx, proposal.AgencyID); err != nil {
		return err
	}

	metrics, err := e.repo.IncrementAcceptedProposals(ctx, proposal.AgencyID)
	if err != nil {
		return err
	}

	e.afterRecalculate(ctx, metrics)
	return nil
}

// OnPhaseCompleted 阶段验收评分钩子。逾期完成既不加分也不改计数，
// 这是明确的设计选择而非缺陷。
func (e *CreditScoringEngine) OnPhaseCompleted(ctx context.Context, proposalID uint, completedOnTime bool) error {
	if !completedOnTime {
		return nil
	}

	proposal, err := e.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return err
	}
	if proposal == nil {
		logging.Warn(ctx, "Scoring skipped, proposal not found", "proposal_id", proposalID)
		return nil
	}

	if err := e.repo.EnsureAgency(ctx, proposal.AgencyID); err != nil {
		return err
	}

	metrics, err := e.repo.IncrementOnTimePhases(ctx, proposal.AgencyID)
	if err != nil {
		return err
	}

	e.afterRecalculate(ctx, metrics)
	return nil
}

// SetQuality 更新政府侧评定的质量分并重算信用分
func (e *CreditScoringEngine) SetQuality(ctx context.Context, agencyID uint, quality int) (*domain.AgencyMetrics, error) {
	if err := e.repo.EnsureAgency(ctx, agencyID); err != nil {
		return nil, err
	}

	metrics, err := e.repo.SetQuality(ctx, agencyID, quality)
	if err != nil {
		return nil, err
	}

	e.afterRecalculate(ctx, metrics)
	return metrics, nil
}

// afterRecalculate 重算后的公共收尾：失效缓存并广播事件
func (e *CreditScoringEngine) afterRecalculate(ctx context.Context, metrics *domain.AgencyMetrics) {
	if metrics == nil {
		return
	}

	if e.cache != nil {
		if err := e.cache.Invalidate(ctx, metrics.AgencyID); err != nil {
			logging.Warn(ctx, "Failed to invalidate metrics cache", "agency_id", metrics.AgencyID, "error", err)
		}
	}

	if e.publisher != nil {
		event := domain.CreditRecalculatedEvent{
			AgencyID:              metrics.AgencyID,
			Credit:                metrics.Credit,
			NoOfAcceptedProposals: metrics.NoOfAcceptedProposals,
			CompletedPhaseOnTime:  metrics.CompletedPhaseOnTime,
			Quality:               metrics.Quality,
			OccurredOn:            time.Now(),
		}
		if err := e.publisher.Publish(ctx, domain.CreditRecalculatedEventType, formatAgencyKey(metrics.AgencyID), event); err != nil {
			logging.Warn(ctx, "Failed to publish credit event", "agency_id", metrics.AgencyID, "error", err)
		}
	}
}
