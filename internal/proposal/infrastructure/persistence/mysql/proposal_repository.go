package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/attestation/internal/proposal/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

// ProposalModel 提案数据库模型
type ProposalModel struct {
	gorm.Model
	ProjectID   uint   `gorm:"column:project_id;not null;index"`
	AgencyID    uint   `gorm:"column:agency_id;not null;index"`
	Name        string `gorm:"column:name;type:varchar(255);not null"`
	TotalBudget string `gorm:"column:total_budget;type:decimal(20,2);default:0"`
	Timeline    string `gorm:"column:timeline;type:varchar(255)"`
	Summary     string `gorm:"column:summary;type:text"`
	Outcome     string `gorm:"column:outcome;type:text"`
	NoOfPhases  int    `gorm:"column:no_of_phases;default:0"`
	Status      string `gorm:"column:status;type:varchar(20);not null;default:'Pending';index"`
	OnchainID   string `gorm:"column:onchain_id;type:varchar(100);index"`
}

func (ProposalModel) TableName() string {
	return "proposals"
}

func (m *ProposalModel) toDomain() *domain.Proposal {
	budget, _ := decimal.NewFromString(m.TotalBudget)
	return &domain.Proposal{
		ID:          m.ID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		ProjectID:   m.ProjectID,
		AgencyID:    m.AgencyID,
		Name:        m.Name,
		TotalBudget: budget,
		Timeline:    m.Timeline,
		Summary:     m.Summary,
		Outcome:     m.Outcome,
		NoOfPhases:  m.NoOfPhases,
		Status:      domain.ProposalStatus(m.Status),
		OnchainID:   m.OnchainID,
	}
}

func fromProposalDomain(p *domain.Proposal) *ProposalModel {
	model := &ProposalModel{
		ProjectID:   p.ProjectID,
		AgencyID:    p.AgencyID,
		Name:        p.Name,
		TotalBudget: p.TotalBudget.String(),
		Timeline:    p.Timeline,
		Summary:     p.Summary,
		Outcome:     p.Outcome,
		NoOfPhases:  p.NoOfPhases,
		Status:      string(p.Status),
		OnchainID:   p.OnchainID,
	}
	model.ID = p.ID
	return model
}

type proposalRepository struct{ db *gorm.DB }

// NewProposalRepository 创建提案仓储实例
func NewProposalRepository(db *gorm.DB) domain.ProposalRepository {
	return &proposalRepository{db: db}
}

func (r *proposalRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextx.WithTx(ctx, tx)
		return fn(txCtx)
	})
}

func (r *proposalRepository) Save(ctx context.Context, proposal *domain.Proposal) error {
	db := r.getDB(ctx)
	model := fromProposalDomain(proposal)
	if model.ID == 0 {
		if err := db.WithContext(ctx).Create(model).Error; err != nil {
			return err
		}
		proposal.ID = model.ID
		proposal.CreatedAt = model.CreatedAt
		proposal.UpdatedAt = model.UpdatedAt
		return nil
	}
	return db.WithContext(ctx).Save(model).Error
}

func (r *proposalRepository) GetByID(ctx context.Context, id uint) (*domain.Proposal, error) {
	var model ProposalModel
	err := r.getDB(ctx).WithContext(ctx).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.toDomain(), nil
}

func (r *proposalRepository) ListByProject(ctx context.Context, projectID uint) ([]*domain.Proposal, error) {
	var models []ProposalModel
	err := r.getDB(ctx).WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	proposals := make([]*domain.Proposal, len(models))
	for i := range models {
		proposals[i] = models[i].toDomain()
	}
	return proposals, nil
}

func (r *proposalRepository) UpdateStatus(ctx context.Context, id uint, status domain.ProposalStatus) error {
	return r.getDB(ctx).WithContext(ctx).
		Model(&ProposalModel{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

func (r *proposalRepository) RejectSiblings(ctx context.Context, projectID, acceptedID uint) error {
	return r.getDB(ctx).WithContext(ctx).
		Model(&ProposalModel{}).
		Where("project_id = ? AND id <> ? AND status = ?", projectID, acceptedID, string(domain.ProposalPending)).
		Update("status", string(domain.ProposalNotAccepted)).Error
}

func (r *proposalRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
