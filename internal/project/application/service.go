package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/attestation/internal/project/domain"
	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/messagequeue"
)

// CreateProjectCommand 创建项目命令
type CreateProjectCommand struct {
	Name        string
	Description string
	OnchainID   string
	Budget      decimal.Decimal
	CreatedBy   uint
}

// ProjectService 项目注册表应用服务
type ProjectService struct {
	repo      domain.ProjectRepository
	publisher messagequeue.EventPublisher
}

// NewProjectService 创建项目服务实例
func NewProjectService(repo domain.ProjectRepository, publisher messagequeue.EventPublisher) *ProjectService {
	return &ProjectService{repo: repo, publisher: publisher}
}

// CreateProject 创建项目并发布创建事件
func (s *ProjectService) CreateProject(ctx context.Context, cmd CreateProjectCommand) (*domain.Project, error) {
	project := domain.NewProject(cmd.Name, cmd.Description, cmd.OnchainID, cmd.Budget, cmd.CreatedBy)

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Save(txCtx, project); err != nil {
			return err
		}
		if s.publisher == nil {
			return nil
		}
		event := domain.ProjectCreatedEvent{
			ProjectID:  project.ID,
			Name:       project.Name,
			OnchainID:  project.OnchainID,
			Budget:     project.Budget.String(),
			CreatedBy:  project.CreatedBy,
			OccurredOn: time.Now(),
		}
		return s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.ProjectCreatedEventType, project.Name, event)
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}

// GetProject 获取项目
func (s *ProjectService) GetProject(ctx context.Context, id uint) (*domain.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// ListProjects 列出项目
func (s *ProjectService) ListProjects(ctx context.Context, limit, offset int) ([]*domain.Project, error) {
	return s.repo.List(ctx, limit, offset)
}
