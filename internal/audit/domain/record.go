package domain

import "time"

// AttestationRecord 存证记录。生命周期事件经消息队列落入不可变的
// 存证流水，RecordID 为全局唯一标识，SourceKey 用于消费重放去重。
type AttestationRecord struct {
	ID         uint      `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	RecordID   string    `json:"record_id"`
	EventType  string    `json:"event_type"`
	EntityID   uint      `json:"entity_id"`
	Payload    string    `json:"payload"`
	SourceKey  string    `json:"source_key"`
	OccurredOn time.Time `json:"occurred_on"`
}
