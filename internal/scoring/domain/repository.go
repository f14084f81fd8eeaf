package domain

import "context"

// MetricsRepository 机构指标仓储。
// 计数变更必须走"原子自增并在同一语句内重算信用分"的写法，
// 不允许应用层读-改-写。
type MetricsRepository interface {
	// EnsureAgency 不存在则插入零值行，存在则不动任何计数
	// （set-on-insert 语义）
	EnsureAgency(ctx context.Context, agencyID uint) error
	GetByAgency(ctx context.Context, agencyID uint) (*AgencyMetrics, error)
	// IncrementAcceptedProposals 原子自增采纳提案数并重算信用分，
	// 返回更新后的指标
	IncrementAcceptedProposals(ctx context.Context, agencyID uint) (*AgencyMetrics, error)
	// IncrementOnTimePhases 原子自增按期完成阶段数并重算信用分
	IncrementOnTimePhases(ctx context.Context, agencyID uint) (*AgencyMetrics, error)
	// SetQuality 设置人工质量分并重算信用分
	SetQuality(ctx context.Context, agencyID uint, quality int) (*AgencyMetrics, error)
}

// MetricsCache 指标读缓存
type MetricsCache interface {
	Get(ctx context.Context, agencyID uint) (*AgencyMetrics, error)
	Set(ctx context.Context, metrics *AgencyMetrics) error
	Invalidate(ctx context.Context, agencyID uint) error
}
