package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/attestation/internal/audit/domain"
)

const defaultListLimit = 100

// AuditService 存证应用服务
type AuditService struct {
	records domain.RecordRepository
}

// NewAuditService 创建存证应用服务实例
func NewAuditService(records domain.RecordRepository) *AuditService {
	return &AuditService{records: records}
}

// Record 写入一条存证记录
func (s *AuditService) Record(ctx context.Context, eventType string, entityID uint, payload, sourceKey string, occurredOn time.Time) error {
	record := &domain.AttestationRecord{
		RecordID:   uuid.NewString(),
		EventType:  eventType,
		EntityID:   entityID,
		Payload:    payload,
		SourceKey:  sourceKey,
		OccurredOn: occurredOn,
	}
	return s.records.Save(ctx, record)
}

// ListRecords 查询存证记录，eventType 为空时返回全部类型
func (s *AuditService) ListRecords(ctx context.Context, eventType string, limit int) ([]*domain.AttestationRecord, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	if eventType == "" {
		return s.records.List(ctx, limit)
	}
	return s.records.ListByEventType(ctx, eventType, limit)
}

// ListEntityTrail 查询某实体在某事件类型下的存证轨迹
func (s *AuditService) ListEntityTrail(ctx context.Context, eventType string, entityID uint) ([]*domain.AttestationRecord, error) {
	return s.records.ListByEntity(ctx, eventType, entityID)
}
