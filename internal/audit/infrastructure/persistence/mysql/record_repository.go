package mysql

import (
	"context"
	"time"

	"github.com/wyfcoding/attestation/internal/audit/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttestationRecordModel 存证记录数据库模型
type AttestationRecordModel struct {
	ID         uint      `gorm:"primarykey"`
	CreatedAt  time.Time `gorm:"index"`
	RecordID   string    `gorm:"column:record_id;type:varchar(36);not null"`
	EventType  string    `gorm:"column:event_type;type:varchar(64);index;not null"`
	EntityID   uint      `gorm:"column:entity_id;index;not null"`
	Payload    string    `gorm:"column:payload;type:text"`
	SourceKey  string    `gorm:"column:source_key;type:varchar(128);uniqueIndex;not null"`
	OccurredOn time.Time `gorm:"column:occurred_on;not null"`
}

func (AttestationRecordModel) TableName() string {
	return "attestation_records"
}

func (m *AttestationRecordModel) toDomain() *domain.AttestationRecord {
	return &domain.AttestationRecord{
		ID:         m.ID,
		CreatedAt:  m.CreatedAt,
		RecordID:   m.RecordID,
		EventType:  m.EventType,
		EntityID:   m.EntityID,
		Payload:    m.Payload,
		SourceKey:  m.SourceKey,
		OccurredOn: m.OccurredOn,
	}
}

type recordRepository struct{ db *gorm.DB }

// NewRecordRepository 创建存证记录仓储实例
func NewRecordRepository(db *gorm.DB) domain.RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) Save(ctx context.Context, record *domain.AttestationRecord) error {
	model := &AttestationRecordModel{
		RecordID:   record.RecordID,
		EventType:  record.EventType,
		EntityID:   record.EntityID,
		Payload:    record.Payload,
		SourceKey:  record.SourceKey,
		OccurredOn: record.OccurredOn,
	}
	// source_key 唯一索引 + DoNothing：同一条消息重复投递只落一次
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_key"}},
			DoNothing: true,
		}).
		Create(model).Error
	if err != nil {
		return err
	}
	record.ID = model.ID
	return nil
}

func (r *recordRepository) ListByEventType(ctx context.Context, eventType string, limit int) ([]*domain.AttestationRecord, error) {
	var models []AttestationRecordModel
	err := r.db.WithContext(ctx).
		Where("event_type = ?", eventType).
		Order("occurred_on DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(models), nil
}

func (r *recordRepository) ListByEntity(ctx context.Context, eventType string, entityID uint) ([]*domain.AttestationRecord, error) {
	var models []AttestationRecordModel
	err := r.db.WithContext(ctx).
		Where("event_type = ? AND entity_id = ?", eventType, entityID).
		Order("occurred_on ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(models), nil
}

func (r *recordRepository) List(ctx context.Context, limit int) ([]*domain.AttestationRecord, error) {
	var models []AttestationRecordModel
	err := r.db.WithContext(ctx).
		Order("occurred_on DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(models), nil
}

func toDomainList(models []AttestationRecordModel) []*domain.AttestationRecord {
	records := make([]*domain.AttestationRecord, 0, len(models))
	for i := range models {
		records = append(records, models[i].toDomain())
	}
	return records
}
