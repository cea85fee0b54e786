package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"report-assistant/storage"
	"report-assistant/types"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100

	msgAnalysisNotFound = "Analysis not found"
)

type HistoryService struct {
	store storage.Store
}

func NewHistoryService(store storage.Store) *HistoryService {
	return &HistoryService{store: store}
}

// Recent 最近的分析记录，limit 非法时取默认值，最大 100 条
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]*types.AnalysisRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	recs, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, &types.AppError{Kind: types.KindInternal, Message: "Failed to load analyses", Cause: err}
	}
	return recs, nil
}

// Get id 不是合法 uuid 时直接 404，不查库
func (s *HistoryService) Get(ctx context.Context, id string) (*types.AnalysisRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, types.NotFoundError(msgAnalysisNotFound)
	}
	rec, err := s.store.Get(ctx, id)
	if errors.Is(err, types.ErrRecordNotFound) {
		return nil, types.NotFoundError(msgAnalysisNotFound)
	}
	if err != nil {
		return nil, &types.AppError{Kind: types.KindInternal, Message: "Failed to load analysis", Cause: err}
	}
	return rec, nil
}
