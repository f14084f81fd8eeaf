package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wyfcoding/attestation/internal/scoring/domain"
)

const metricsTTL = 5 * time.Minute

type metricsCache struct {
	client redis.UniversalClient
	prefix string
}

// NewMetricsCache 创建机构指标缓存实例
func NewMetricsCache(client redis.UniversalClient) domain.MetricsCache {
	return &metricsCache{
		client: client,
		prefix: "scoring:metrics:",
	}
}

func (c *metricsCache) key(agencyID uint) string {
	return fmt.Sprintf("%s%d", c.prefix, agencyID)
}

func (c *metricsCache) Get(ctx context.Context, agencyID uint) (*domain.AgencyMetrics, error) {
	data, err := c.client.Get(ctx, c.key(agencyID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var metrics domain.AgencyMetrics
	if err := json.Unmarshal(data, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

func (c *metricsCache) Set(ctx context.Context, metrics *domain.AgencyMetrics) error {
	data, err := json.Marshal(metrics)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(metrics.AgencyID), data, metricsTTL).Err()
}

func (c *metricsCache) Invalidate(ctx context.Context, agencyID uint) error {
	return c.client.Del(ctx, c.key(agencyID)).Err()
}
