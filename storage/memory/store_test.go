package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"report-assistant/storage"
	"report-assistant/types"
)

var _ storage.Store = (*Store)(nil)

func record(id string, at time.Time) *types.AnalysisRecord {
	return &types.AnalysisRecord{
		ID:        id,
		CreatedAt: at,
		Source:    types.SourceText,
		Model:     "gpt-4o-mini",
		Result:    &types.AnalysisResult{Summary: "summary " + id},
	}
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	rec := record("a", time.Now())
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "summary a", got.Result.Summary)

	// 返回的是副本
	got.Model = "changed"
	again, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", again.Model)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrRecordNotFound)
}

func TestResultIsNotShared(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	name := "Acme"
	rec := record("a", time.Now())
	rec.Result.CompanyName = &name
	rec.Result.KeyMetrics = map[string]any{
		"revenue": map[string]any{"growth": "12%"},
		"notes":   []any{"x"},
	}
	rec.Result.RiskFactors = []string{"churn"}
	require.NoError(t, s.Save(ctx, rec))

	// 保存后修改调用方的对象
	name = "Changed"
	rec.Result.KeyMetrics["revenue"].(map[string]any)["growth"] = "99%"
	rec.Result.RiskFactors[0] = "changed"

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Acme", *got.Result.CompanyName)
	assert.Equal(t, "12%", got.Result.KeyMetrics["revenue"].(map[string]any)["growth"])
	assert.Equal(t, []string{"churn"}, got.Result.RiskFactors)

	// 修改读出的对象
	got.Result.KeyMetrics["notes"].([]any)[0] = "y"
	got.Result.Opportunities = append(got.Result.Opportunities, "new")
	listed, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, []any{"x"}, listed[0].Result.KeyMetrics["notes"])
	assert.Empty(t, listed[0].Result.Opportunities)
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(ctx, record("old", base.Add(-time.Hour))))
	require.NoError(t, s.Save(ctx, record("new", base.Add(time.Hour))))
	require.NoError(t, s.Save(ctx, record("mid1", base)))
	require.NoError(t, s.Save(ctx, record("mid2", base)))

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, r := range all {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"new", "mid2", "mid1", "old"}, ids)

	two, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, "new", two[0].ID)
	assert.Equal(t, "mid2", two[1].ID)
}

func TestPurgeBefore(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()

	require.NoError(t, s.Save(ctx, record("stale1", now.Add(-40*24*time.Hour))))
	require.NoError(t, s.Save(ctx, record("stale2", now.Add(-31*24*time.Hour))))
	require.NoError(t, s.Save(ctx, record("fresh", now.Add(-time.Hour))))

	n, err := s.PurgeBefore(ctx, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "fresh", left[0].ID)
}

func TestConcurrentSave(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Save(ctx, record(fmt.Sprintf("r%d", i), time.Now()))
			_, _ = s.List(ctx, 10)
		}(i)
	}
	wg.Wait()

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 50)
}
