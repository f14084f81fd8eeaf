package application

import (
	"context"

	"github.com/wyfcoding/attestation/internal/proposal/domain"
)

// ProposalQueryService 提案查询服务
type ProposalQueryService struct {
	repo      domain.ProposalRepository
	phaseRepo domain.PhaseRepository
}

// NewProposalQueryService 创建提案查询服务实例
func NewProposalQueryService(repo domain.ProposalRepository, phaseRepo domain.PhaseRepository) *ProposalQueryService {
	return &ProposalQueryService{repo: repo, phaseRepo: phaseRepo}
}

// GetProposal 获取提案
func (s *ProposalQueryService) GetProposal(ctx context.Context, id uint) (*domain.Proposal, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByProject 列出项目下的全部提案
func (s *ProposalQueryService) ListByProject(ctx context.Context, projectID uint) ([]*domain.Proposal, error) {
	return s.repo.ListByProject(ctx, projectID)
}

// ListPhases 列出提案下的全部阶段
func (s *ProposalQueryService) ListPhases(ctx context.Context, proposalID uint) ([]*domain.Phase, error) {
	return s.phaseRepo.ListByProposal(ctx, proposalID)
}
