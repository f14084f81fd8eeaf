package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/attestation/internal/project/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

// ProjectModel 项目数据库模型
type ProjectModel struct {
	gorm.Model
	Name        string `gorm:"column:name;type:varchar(255);not null"`
	Description string `gorm:"column:description;type:text"`
	OnchainID   string `gorm:"column:onchain_id;type:varchar(100);index"`
	Budget      string `gorm:"column:budget;type:decimal(20,2);default:0"`
	CreatedBy   uint   `gorm:"column:created_by;not null;index"`
}

func (ProjectModel) TableName() string {
	return "projects"
}

func (m *ProjectModel) toDomain() *domain.Project {
	budget, _ := decimal.NewFromString(m.Budget)
	return &domain.Project{
		ID:          m.ID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Name:        m.Name,
		Description: m.Description,
		OnchainID:   m.OnchainID,
		Budget:      budget,
		CreatedBy:   m.CreatedBy,
	}
}

func fromProjectDomain(p *domain.Project) *ProjectModel {
	model := &ProjectModel{
		Name:        p.Name,
		Description: p.Description,
		OnchainID:   p.OnchainID,
		Budget:      p.Budget.String(),
		CreatedBy:   p.CreatedBy,
	}
	model.ID = p.ID
	return model
}

type projectRepository struct{ db *gorm.DB }

// NewProjectRepository 创建项目仓储实例
func NewProjectRepository(db *gorm.DB) domain.ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextx.WithTx(ctx, tx)
		return fn(txCtx)
	})
}

func (r *projectRepository) Save(ctx context.Context, project *domain.Project) error {
	db := r.getDB(ctx)
	model := fromProjectDomain(project)
	if model.ID == 0 {
		if err := db.WithContext(ctx).Create(model).Error; err != nil {
			return err
		}
		project.ID = model.ID
		project.CreatedAt = model.CreatedAt
		project.UpdatedAt = model.UpdatedAt
		return nil
	}
	return db.WithContext(ctx).Save(model).Error
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (*domain.Project, error) {
	var model ProjectModel
	err := r.getDB(ctx).WithContext(ctx).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.toDomain(), nil
}

func (r *projectRepository) List(ctx context.Context, limit, offset int) ([]*domain.Project, error) {
	if limit <= 0 {
		limit = 20
	}
	var models []ProjectModel
	err := r.getDB(ctx).WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	projects := make([]*domain.Project, len(models))
	for i := range models {
		projects[i] = models[i].toDomain()
	}
	return projects, nil
}

func (r *projectRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
