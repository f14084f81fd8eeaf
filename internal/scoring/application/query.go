package application

import (
	"context"
	"strconv"

	"github.com/wyfcoding/attestation/internal/scoring/domain"
	"github.com/wyfcoding/pkg/logging"
)

// MetricsQueryService 指标查询服务，redis 旁路缓存 + mysql 回源
type MetricsQueryService struct {
	repo  domain.MetricsRepository
	cache domain.MetricsCache
}

// NewMetricsQueryService 创建指标查询服务实例
func NewMetricsQueryService(repo domain.MetricsRepository, cache domain.MetricsCache) *MetricsQueryService {
	return &MetricsQueryService{repo: repo, cache: cache}
}

// GetAgencyMetrics 获取机构指标。缓存故障只降级为回源，不影响读路径。
func (s *MetricsQueryService) GetAgencyMetrics(ctx context.Context, agencyID uint) (*domain.AgencyMetrics, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, agencyID); err == nil && cached != nil {
			return cached, nil
		}
	}

	metrics, err := s.repo.GetByAgency(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		return nil, nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, metrics); err != nil {
			logging.Warn(ctx, "Failed to cache metrics", "agency_id", agencyID, "error", err)
		}
	}
	return metrics, nil
}

func formatAgencyKey(agencyID uint) string {
	return strconv.FormatUint(uint64(agencyID), 10)
}
