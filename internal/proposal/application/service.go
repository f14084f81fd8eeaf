package application

import (
	"context"

	projectdomain "github.com/wyfcoding/attestation/internal/project/domain"
	"github.com/wyfcoding/attestation/internal/proposal/domain"
	"github.com/wyfcoding/pkg/messagequeue"
)

// ProposalService 提案服务门面，整合命令服务和查询服务
type ProposalService struct {
	commandService *ProposalCommandService
	queryService   *ProposalQueryService
}

// NewProposalService 创建提案服务门面实例
func NewProposalService(
	repo domain.ProposalRepository,
	phaseRepo domain.PhaseRepository,
	projectRepo projectdomain.ProjectRepository,
	publisher messagequeue.EventPublisher,
) *ProposalService {
	return &ProposalService{
		commandService: NewProposalCommandService(repo, projectRepo, publisher),
		queryService:   NewProposalQueryService(repo, phaseRepo),
	}
}

// SubmitProposal 处理提案提交
func (s *ProposalService) SubmitProposal(ctx context.Context, cmd SubmitProposalCommand) (*domain.Proposal, error) {
	return s.commandService.SubmitProposal(ctx, cmd)
}

// GetProposal 获取提案
func (s *ProposalService) GetProposal(ctx context.Context, id uint) (*domain.Proposal, error) {
	return s.queryService.GetProposal(ctx, id)
}

// ListByProject 列出项目下的提案
func (s *ProposalService) ListByProject(ctx context.Context, projectID uint) ([]*domain.Proposal, error) {
	return s.queryService.ListByProject(ctx, projectID)
}

// ListPhases 列出提案下的阶段
func (s *ProposalService) ListPhases(ctx context.Context, proposalID uint) ([]*domain.Phase, error) {
	return s.queryService.ListPhases(ctx, proposalID)
}
