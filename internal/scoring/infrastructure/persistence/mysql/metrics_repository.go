package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/attestation/internal/scoring/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AgencyMetricsModel 机构指标数据库模型
type AgencyMetricsModel struct {
	gorm.Model
	AgencyID              uint `gorm:"column:agency_id;uniqueIndex;not null"`
	Credit                int  `gorm:"column:credit;not null;default:0"`
	CompletedPhaseOnTime  int  `gorm:"column:completed_phase_on_time;not null;default:0"`
	NoOfAcceptedProposals int  `gorm:"column:no_of_accepted_proposals;not null;default:0"`
	Quality               int  `gorm:"column:quality;not null;default:0"`
}

func (AgencyMetricsModel) TableName() string {
	return "agency_metrics"
}

func (m *AgencyMetricsModel) toDomain() *domain.AgencyMetrics {
	return &domain.AgencyMetrics{
		ID:                    m.ID,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
		AgencyID:              m.AgencyID,
		Credit:                m.Credit,
		CompletedPhaseOnTime:  m.CompletedPhaseOnTime,
		NoOfAcceptedProposals: m.NoOfAcceptedProposals,
		Quality:               m.Quality,
	}
}

type metricsRepository struct{ db *gorm.DB }

// NewMetricsRepository 创建机构指标仓储实例
func NewMetricsRepository(db *gorm.DB) domain.MetricsRepository {
	return &metricsRepository{db: db}
}

func (r *metricsRepository) EnsureAgency(ctx context.Context, agencyID uint) error {
	// set-on-insert：冲突时不写任何列，已有计数绝不被清零
	model := &AgencyMetricsModel{AgencyID: agencyID}
	return r.getDB(ctx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "agency_id"}},
			DoNothing: true,
		}).
		Create(model).Error
}

func (r *metricsRepository) GetByAgency(ctx context.Context, agencyID uint) (*domain.AgencyMetrics, error) {
	var model AgencyMetricsModel
	err := r.getDB(ctx).WithContext(ctx).Where("agency_id = ?", agencyID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.toDomain(), nil
}

func (r *metricsRepository) IncrementAcceptedProposals(ctx context.Context, agencyID uint) (*domain.AgencyMetrics, error) {
	return r.incrementAndRecalculate(ctx, agencyID, "no_of_accepted_proposals")
}

func (r *metricsRepository) IncrementOnTimePhases(ctx context.Context, agencyID uint) (*domain.AgencyMetrics, error) {
	return r.incrementAndRecalculate(ctx, agencyID, "completed_phase_on_time")
}

// incrementAndRecalculate 在单条 UPDATE 内完成计数自增与信用分重算。
// MySQL 对 SET 子句按从左到右求值，credit 读到的是自增后的计数，
// 因此并发自增之间不存在读-改-写窗口。
func (r *metricsRepository) incrementAndRecalculate(ctx context.Context, agencyID uint, counter string) (*domain.AgencyMetrics, error) {
	sql := "UPDATE agency_metrics SET " + counter + " = " + counter + " + 1, " +
		"credit = no_of_accepted_proposals * ? + completed_phase_on_time * ? + quality * ?, " +
		"updated_at = NOW() WHERE agency_id = ?"

	err := r.getDB(ctx).WithContext(ctx).
		Exec(sql, domain.AcceptedProposalWeight, domain.OnTimePhaseWeight, domain.QualityWeight, agencyID).Error
	if err != nil {
		return nil, err
	}

	return r.GetByAgency(ctx, agencyID)
}

func (r *metricsRepository) SetQuality(ctx context.Context, agencyID uint, quality int) (*domain.AgencyMetrics, error) {
	err := r.getDB(ctx).WithContext(ctx).
		Exec("UPDATE agency_metrics SET quality = ?, "+
			"credit = no_of_accepted_proposals * ? + completed_phase_on_time * ? + quality * ?, "+
			"updated_at = NOW() WHERE agency_id = ?",
			quality, domain.AcceptedProposalWeight, domain.OnTimePhaseWeight, domain.QualityWeight, agencyID).Error
	if err != nil {
		return nil, err
	}

	return r.GetByAgency(ctx, agencyID)
}

func (r *metricsRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}
