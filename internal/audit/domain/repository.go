package domain

import "context"

// RecordRepository 存证记录仓储。Save 对相同 SourceKey 幂等，
// 消息重放不会产生重复记录。
type RecordRepository interface {
	Save(ctx context.Context, record *AttestationRecord) error
	ListByEventType(ctx context.Context, eventType string, limit int) ([]*AttestationRecord, error)
	ListByEntity(ctx context.Context, eventType string, entityID uint) ([]*AttestationRecord, error)
	List(ctx context.Context, limit int) ([]*AttestationRecord, error)
}
