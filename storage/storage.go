package storage

import (
	"context"
	"time"

	"report-assistant/types"
)

// Store 分析记录的持久化接口，内存和 PostgreSQL 两种实现
type Store interface {
	Save(ctx context.Context, rec *types.AnalysisRecord) error
	// Get 找不到时返回 types.ErrRecordNotFound
	Get(ctx context.Context, id string) (*types.AnalysisRecord, error)
	// List 按创建时间倒序
	List(ctx context.Context, limit int) ([]*types.AnalysisRecord, error)
	// PurgeBefore 删除 before 之前创建的记录，返回删除条数
	PurgeBefore(ctx context.Context, before time.Time) (int64, error)
}
