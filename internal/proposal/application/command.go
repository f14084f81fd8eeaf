package application

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	projectdomain "github.com/wyfcoding/attestation/internal/project/domain"
	"github.com/wyfcoding/attestation/internal/proposal/domain"
	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/messagequeue"
)

// ErrProjectNotFound 目标项目不存在
var ErrProjectNotFound = errors.New("project not found")

// SubmitProposalCommand 提交提案命令
type SubmitProposalCommand struct {
	ProjectID   uint
	AgencyID    uint
	Name        string
	TotalBudget decimal.Decimal
	Timeline    string
	Summary     string
	Outcome     string
	NoOfPhases  int
	OnchainID   string
}

// ProposalCommandService 提案命令服务
type ProposalCommandService struct {
	repo        domain.ProposalRepository
	projectRepo projectdomain.ProjectRepository
	publisher   messagequeue.EventPublisher
}

// NewProposalCommandService 创建提案命令服务实例
func NewProposalCommandService(repo domain.ProposalRepository, projectRepo projectdomain.ProjectRepository, publisher messagequeue.EventPublisher) *ProposalCommandService {
	return &ProposalCommandService{repo: repo, projectRepo: projectRepo, publisher: publisher}
}

// SubmitProposal 机构提交提案，初始状态为待审
func (s *ProposalCommandService) SubmitProposal(ctx context.Context, cmd SubmitProposalCommand) (*domain.Proposal, error) {
	project, err := s.projectRepo.GetByID(ctx, cmd.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	proposal := domain.NewProposal(cmd.ProjectID, cmd.AgencyID, cmd.Name, cmd.TotalBudget,
		cmd.Timeline, cmd.Summary, cmd.Outcome, cmd.NoOfPhases, cmd.OnchainID)

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Save(txCtx, proposal); err != nil {
			return err
		}
		if s.publisher == nil {
			return nil
		}
		event := domain.ProposalSubmittedEvent{
			ProposalID:  proposal.ID,
			ProjectID:   proposal.ProjectID,
			AgencyID:    proposal.AgencyID,
			Name:        proposal.Name,
			TotalBudget: proposal.TotalBudget.String(),
			NoOfPhases:  proposal.NoOfPhases,
			OccurredOn:  time.Now(),
		}
		return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.ProposalSubmittedEventType, proposal.Name, event)
	})
	if err != nil {
		return nil, err
	}

	return proposal, nil
}
