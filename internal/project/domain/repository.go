package domain

import "context"

// ProjectRepository 项目仓储。查询未命中时返回 (nil, nil)。
type ProjectRepository interface {
	Save(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id uint) (*Project, error)
	List(ctx context.Context, limit, offset int) ([]*Project, error)
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
