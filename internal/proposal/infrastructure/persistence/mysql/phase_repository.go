package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/attestation/internal/proposal/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PhaseModel 阶段数据库模型。project_id 与 agency_id 为查询冗余列。
type PhaseModel struct {
	gorm.Model
	ProposalID          uint           `gorm:"column:proposal_id;not null;index"`
	ProjectID           uint           `gorm:"column:project_id;not null;index"`
	AgencyID            uint           `gorm:"column:agency_id;not null;index"`
	Number              string         `gorm:"column:number;type:varchar(20);not null"`
	Title               string         `gorm:"column:title;type:varchar(255);not null"`
	Description         string         `gorm:"column:description;type:text"`
	Budget              string         `gorm:"column:budget;type:decimal(20,2);default:0"`
	StartDate           time.Time      `gorm:"column:start_date"`
	EndDate             time.Time      `gorm:"column:end_date;index"`
	ValidatingDocuments datatypes.JSON `gorm:"column:validating_documents"`
	Status              string         `gorm:"column:status;type:varchar(20);not null;default:'Pending';index"`
	CompletedAt         *time.Time     `gorm:"column:completed_at"`
}

func (PhaseModel) TableName() string {
	return "phases"
}

func (m *PhaseModel) toDomain() *domain.Phase {
	budget, _ := decimal.NewFromString(m.Budget)
	var docs []string
	if len(m.ValidatingDocuments) > 0 {
		_ = json.Unmarshal(m.ValidatingDocuments, &docs)
	}
	return &domain.Phase{
		ID:                  m.ID,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
		ProposalID:          m.ProposalID,
		ProjectID:           m.ProjectID,
		AgencyID:            m.AgencyID,
		Number:              m.Number,
		Title:               m.Title,
		Description:         m.Description,
		Budget:              budget,
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		ValidatingDocuments: docs,
		Status:              domain.PhaseStatus(m.Status),
		CompletedAt:         m.CompletedAt,
	}
}

func fromPhaseDomain(p *domain.Phase) *PhaseModel {
	var docs datatypes.JSON
	if len(p.ValidatingDocuments) > 0 {
		raw, _ := json.Marshal(p.ValidatingDocuments)
		docs = datatypes.JSON(raw)
	}
	model := &PhaseModel{
		ProposalID:          p.ProposalID,
		ProjectID:           p.ProjectID,
		AgencyID:            p.AgencyID,
		Number:              p.Number,
		Title:               p.Title,
		Description:         p.Description,
		Budget:              p.Budget.String(),
		StartDate:           p.StartDate,
		EndDate:             p.EndDate,
		ValidatingDocuments: docs,
		Status:              string(p.Status),
		CompletedAt:         p.CompletedAt,
	}
	model.ID = p.ID
	return model
}

type phaseRepository struct{ db *gorm.DB }

// NewPhaseRepository 创建阶段仓储实例
func NewPhaseRepository(db *gorm.DB) domain.PhaseRepository {
	return &phaseRepository{db: db}
}

func (r *phaseRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextx.WithTx(ctx, tx)
		return fn(txCtx)
	})
}

func (r *phaseRepository) SaveBatch(ctx context.Context, phases []*domain.Phase) error {
	if len(phases) == 0 {
		return nil
	}

	models := make([]*PhaseModel, len(phases))
	for i, p := range phases {
		models[i] = fromPhaseDomain(p)
	}

	if err := r.getDB(ctx).WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}

	// gorm 批量插入后按输入顺序回填主键
	for i, m := range models {
		phases[i].ID = m.ID
		phases[i].CreatedAt = m.CreatedAt
		phases[i].UpdatedAt = m.UpdatedAt
	}
	return nil
}

func (r *phaseRepository) GetByID(ctx context.Context, id uint) (*domain.Phase, error) {
	var model PhaseModel
	err := r.getDB(ctx).WithContext(ctx).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.toDomain(), nil
}

func (r *phaseRepository) ListByProposal(ctx context.Context, proposalID uint) ([]*domain.Phase, error) {
	var models []PhaseModel
	err := r.getDB(ctx).WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	phases := make([]*domain.Phase, len(models))
	for i := range models {
		phases[i] = models[i].toDomain()
	}
	return phases, nil
}

func (r *phaseRepository) UpdateStatus(ctx context.Context, id uint, status domain.PhaseStatus) error {
	return r.getDB(ctx).WithContext(ctx).
		Model(&PhaseModel{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}

func (r *phaseRepository) MarkCompleted(ctx context.Context, id uint, completedAt time.Time) error {
	return r.getDB(ctx).WithContext(ctx).
		Model(&PhaseModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       string(domain.PhaseCompleted),
			"completed_at": completedAt,
		}).Error
}

func (r *phaseRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
