package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/wyfcoding/attestation/internal/audit/application"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
)

// AuditEventHandler 消费生命周期事件并落存证流水
type AuditEventHandler struct {
	service *application.AuditService
}

// NewAuditEventHandler 创建存证事件处理器实例
func NewAuditEventHandler(service *application.AuditService) *AuditEventHandler {
	return &AuditEventHandler{service: service}
}

// HandleLifecycleEvent 把一条生命周期事件写入存证流水。
// 消息 Key 即主实体ID，topic+partition+offset 作为去重键。
func (h *AuditEventHandler) HandleLifecycleEvent(ctx context.Context, msg kafkago.Message) error {
	var envelope struct {
		OccurredOn time.Time `json:"occurred_on"`
	}
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		// 畸形消息记日志后丢弃，避免卡死分区
		logging.Warn(ctx, "Dropping malformed lifecycle event", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		return nil
	}
	if envelope.OccurredOn.IsZero() {
		envelope.OccurredOn = time.Now()
	}

	entityID, err := strconv.ParseUint(string(msg.Key), 10, 64)
	if err != nil {
		logging.Warn(ctx, "Lifecycle event without numeric key", "topic", msg.Topic, "key", string(msg.Key))
	}

	sourceKey := fmt.Sprintf("%s:%d:%d", msg.Topic, msg.Partition, msg.Offset)
	return h.service.Record(ctx, msg.Topic, uint(entityID), string(msg.Value), sourceKey, envelope.OccurredOn)
}

// Subscribe 启动消费
func (h *AuditEventHandler) Subscribe(ctx context.Context, consumer *kafka.Consumer) {
	consumer.Start(ctx, 1, h.HandleLifecycleEvent)
}
