package application

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/attestation/internal/proposal/domain"
	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue"
)

var (
	// ErrProposalNotFound 提案不存在或不属于该项目
	ErrProposalNotFound = errors.New("proposal not found")
	// ErrPhaseNotFound 阶段不存在或不属于该提案
	ErrPhaseNotFound = errors.New("phase not found")
	// ErrProposalNotAccepted 提案尚未被采纳，不能注册或推进阶段
	ErrProposalNotAccepted = errors.New("proposal not accepted")
	// ErrInvalidPhaseTransition 阶段状态不允许该推进
	ErrInvalidPhaseTransition = errors.New("invalid phase transition")
)

// ScoringEngine 评分引擎口。评分是主操作的尽力而为副作用，
// 失败只记日志，不回滚生命周期写入。
type ScoringEngine interface {
	OnProposalAccepted(ctx context.Context, proposalID uint) error
	OnPhaseCompleted(ctx context.Context, proposalID uint, completedOnTime bool) error
}

// PhaseInput 阶段注册入参，数组顺序即落库顺序
type PhaseInput struct {
	Number              string
	Title               string
	Description         string
	Budget              decimal.Decimal
	StartDate           time.Time
	EndDate             time.Time
	ValidatingDocuments []string
}

// RegisterPhasesCommand 注册阶段命令
type RegisterPhasesCommand struct {
	ProjectID  uint
	ProposalID uint
	Phases     []PhaseInput
}

// LifecycleOrchestrator 生命周期编排器，负责跨实体的两类状态迁移
// （提案采纳、阶段验收）并触发评分重算。
type LifecycleOrchestrator struct {
	proposals domain.ProposalRepository
	phases    domain.PhaseRepository
	scoring   ScoringEngine
	publisher messagequeue.EventPublisher
	now       func() time.Time
}

// NewLifecycleOrchestrator 创建生命周期编排器实例
func NewLifecycleOrchestrator(
	proposals domain.ProposalRepository,
	phases domain.PhaseRepository,
	scoring ScoringEngine,
	publisher messagequeue.EventPublisher,
) *LifecycleOrchestrator {
	return &LifecycleOrchestrator{
		proposals: proposals,
		phases:    phases,
		scoring:   scoring,
		publisher: publisher,
		now:       time.Now,
	}
}

// AcceptProposal 采纳提案。同一事务内把目标提案置为已采纳、其余待审
// 提案置为未采纳，保证项目下至多一个已采纳提案；随后触发评分。
// 提案不存在或不属于该项目时返回 ErrProposalNotFound 且不产生任何写入。
func (o *LifecycleOrchestrator) AcceptProposal(ctx context.Context, projectID, proposalID uint) (uint, error) {
	proposal, err := o.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return 0, err
	}
	if proposal == nil || proposal.ProjectID != projectID {
		return 0, ErrProposalNotFound
	}

	err = o.proposals.WithTx(ctx, func(txCtx context.Context) error {
		if err := o.proposals.UpdateStatus(txCtx, proposal.ID, domain.ProposalAccepted); err != nil {
			return err
		}
		if err := o.proposals.RejectSiblings(txCtx, projectID, proposal.ID); err != nil {
			return err
		}
		if o.publisher == nil {
			return nil
		}
		event := domain.ProposalAcceptedEvent{
			ProposalID: proposal.ID,
			ProjectID:  proposal.ProjectID,
			AgencyID:   proposal.AgencyID,
			OccurredOn: o.now(),
		}
		return o.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.ProposalAcceptedEventType, formatID(proposal.ID), event)
	})
	if err != nil {
		return 0, err
	}

	if o.scoring != nil {
		if err := o.scoring.OnProposalAccepted(ctx, proposal.ID); err != nil {
			logging.Error(ctx, "Scoring failed after proposal accept", "proposal_id", proposal.ID, "error", err)
		}
	}

	return proposal.ID, nil
}

// RegisterPhases 为已采纳提案批量注册阶段，返回与输入同序的阶段ID。
// 阶段编号不做唯一性校验，重复编号原样落库。
func (o *LifecycleOrchestrator) RegisterPhases(ctx context.Context, cmd RegisterPhasesCommand) ([]uint, error) {
	proposal, err := o.proposals.GetByID(ctx, cmd.ProposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil || proposal.ProjectID != cmd.ProjectID {
		return nil, ErrProposalNotFound
	}
	if !proposal.IsAccepted() {
		return nil, ErrProposalNotAccepted
	}

	phases := make([]*domain.Phase, len(cmd.Phases))
	for i, in := range cmd.Phases {
		phases[i] = &domain.Phase{
			ProposalID:          proposal.ID,
			ProjectID:           proposal.ProjectID,
			AgencyID:            proposal.AgencyID,
			Number:              in.Number,
			Title:               in.Title,
			Description:         in.Description,
			Budget:              in.Budget,
			StartDate:           in.StartDate,
			EndDate:             in.EndDate,
			ValidatingDocuments: in.ValidatingDocuments,
			Status:              domain.PhasePending,
		}
	}

	ids := make([]uint, len(phases))
	err = o.phases.WithTx(ctx, func(txCtx context.Context) error {
		if err := o.phases.SaveBatch(txCtx, phases); err != nil {
			return err
		}
		for i, p := range phases {
			ids[i] = p.ID
		}
		if o.publisher == nil {
			return nil
		}
		event := domain.PhasesRegisteredEvent{
			ProposalID: proposal.ID,
			ProjectID:  proposal.ProjectID,
			PhaseIDs:   ids,
			OccurredOn: o.now(),
		}
		return o.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.PhasesRegisteredEventType, formatID(proposal.ID), event)
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// StartPhase 把待启动阶段推进为进行中
func (o *LifecycleOrchestrator) StartPhase(ctx context.Context, projectID, proposalID, phaseID uint) error {
	phase, err := o.resolvePhase(ctx, projectID, proposalID, phaseID)
	if err != nil {
		return err
	}
	if !phase.Status.CanTransitionTo(domain.PhaseInProgress) {
		return ErrInvalidPhaseTransition
	}

	if err := o.phases.UpdateStatus(ctx, phase.ID, domain.PhaseInProgress); err != nil {
		return err
	}

	if o.publisher != nil {
		event := domain.PhaseStartedEvent{
			PhaseID:    phase.ID,
			ProposalID: proposalID,
			ProjectID:  projectID,
			OccurredOn: o.now(),
		}
		if err := o.publisher.Publish(ctx, domain.PhaseStartedEventType, formatID(phase.ID), event); err != nil {
			logging.Warn(ctx, "Failed to publish phase started event", "phase_id", phase.ID, "error", err)
		}
	}
	return nil
}

// AcceptPhase 验收阶段：标记完成、按验收时刻与截止日期判定是否按期，
// 再触发评分。返回所属提案ID作为确认。
func (o *LifecycleOrchestrator) AcceptPhase(ctx context.Context, projectID, proposalID, phaseID uint) (uint, error) {
	phase, err := o.resolvePhase(ctx, projectID, proposalID, phaseID)
	if err != nil {
		return 0, err
	}
	if !phase.Status.CanTransitionTo(domain.PhaseCompleted) {
		return 0, ErrInvalidPhaseTransition
	}

	acceptedAt := o.now()
	onTime := phase.CompletedOnTime(acceptedAt)

	err = o.phases.WithTx(ctx, func(txCtx context.Context) error {
		if err := o.phases.MarkCompleted(txCtx, phase.ID, acceptedAt); err != nil {
			return err
		}
		if o.publisher == nil {
			return nil
		}
		event := domain.PhaseAcceptedEvent{
			PhaseID:     phase.ID,
			ProposalID:  phase.ProposalID,
			ProjectID:   phase.ProjectID,
			AgencyID:    phase.AgencyID,
			CompletedOn: acceptedAt,
			OnTime:      onTime,
			OccurredOn:  acceptedAt,
		}
		return o.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.PhaseAcceptedEventType, formatID(phase.ID), event)
	})
	if err != nil {
		return 0, err
	}

	if o.scoring != nil {
		if err := o.scoring.OnPhaseCompleted(ctx, phase.ProposalID, onTime); err != nil {
			logging.Error(ctx, "Scoring failed after phase accept", "phase_id", phase.ID, "error", err)
		}
	}

	return phase.ProposalID, nil
}

// resolvePhase 解析阶段并校验归属链：阶段属于提案，提案属于项目
func (o *LifecycleOrchestrator) resolvePhase(ctx context.Context, projectID, proposalID, phaseID uint) (*domain.Phase, error) {
	proposal, err := o.proposals.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil || proposal.ProjectID != projectID {
		return nil, ErrProposalNotFound
	}

	phase, err := o.phases.GetByID(ctx, phaseID)
	if err != nil {
		return nil, err
	}
	if phase == nil || phase.ProposalID != proposal.ID {
		return nil, ErrPhaseNotFound
	}
	return phase, nil
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
