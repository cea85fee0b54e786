package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"report-assistant/types"
)

// Store 进程内的分析记录，重启即丢失
type Store struct {
	mu      sync.RWMutex
	records map[string]*types.AnalysisRecord
	seq     map[string]uint64
	next    uint64
}

func NewStore() *Store {
	return &Store{
		records: make(map[string]*types.AnalysisRecord),
		seq:     make(map[string]uint64),
	}
}

// Save/Get/List 都做深拷贝，调用方改动结果不会影响已存的记录
func (s *Store) Save(_ context.Context, rec *types.AnalysisRecord) error {
	cp := rec.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; !ok {
		s.next++
		s.seq[rec.ID] = s.next
	}
	s.records[rec.ID] = cp
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*types.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, types.ErrRecordNotFound
	}
	return rec.Clone(), nil
}

func (s *Store) List(_ context.Context, limit int) ([]*types.AnalysisRecord, error) {
	s.mu.RLock()
	out := make([]*types.AnalysisRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	seq := make(map[string]uint64, len(s.seq))
	for k, v := range s.seq {
		seq[k] = v
	}
	s.mu.RUnlock()

	// 同一时刻创建的记录按写入顺序倒排
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return seq[out[i].ID] > seq[out[j].ID]
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) PurgeBefore(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, rec := range s.records {
		if rec.CreatedAt.Before(before) {
			delete(s.records, id)
			delete(s.seq, id)
			n++
		}
	}
	return n, nil
}
