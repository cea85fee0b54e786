package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"report-assistant/types"
)

// AnalysisRepo 封装对 analyses 表的所有操作
type AnalysisRepo struct {
	db *gorm.DB
}

func NewAnalysisRepo(db *gorm.DB) *AnalysisRepo {
	return &AnalysisRepo{db: db}
}

func (r *AnalysisRepo) Save(ctx context.Context, rec *types.AnalysisRecord) error {
	// WithContext 允许你在超时的时候取消数据库操作
	return r.db.WithContext(ctx).Create(fromRecord(rec)).Error
}

func (r *AnalysisRepo) Get(ctx context.Context, id string) (*types.AnalysisRecord, error) {
	var row Analysis
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toRecord(), nil
}

func (r *AnalysisRepo) List(ctx context.Context, limit int) ([]*types.AnalysisRecord, error) {
	var rows []Analysis
	tx := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*types.AnalysisRecord, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toRecord())
	}
	return out, nil
}

// PurgeBefore 定时任务按保留天数批量删除
func (r *AnalysisRepo) PurgeBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&Analysis{})
	return result.RowsAffected, result.Error
}
