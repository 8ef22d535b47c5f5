package analyzer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pfc-analyzer/internal/core/ai/cache"
	"pfc-analyzer/internal/core/nutrition"
	"pfc-analyzer/internal/infrastructure/config"
	"pfc-analyzer/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyExtractor 可編程的萃取替身，記錄每次呼叫的輸入
type spyExtractor struct {
	mu        sync.Mutex
	calls     []string
	responses map[string][]nutrition.ParsedItem
	errs      map[string]error
	delay     time.Duration
}

func newSpyExtractor() *spyExtractor {
	return &spyExtractor{
		responses: make(map[string][]nutrition.ParsedItem),
		errs:      make(map[string]error),
	}
}

func (s *spyExtractor) Extract(ctx context.Context, mealText string) ([]nutrition.ParsedItem, error) {
	s.mu.Lock()
	s.calls = append(s.calls, mealText)
	delay := s.delay
	items := s.responses[mealText]
	err := s.errs[mealText]
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	if items == nil {
		return []nutrition.ParsedItem{}, nil
	}
	return items, nil
}

func (s *spyExtractor) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func engineConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled: true,
			MaxSize: 100,
			TTL:     time.Hour,
		},
		Batch: config.BatchConfig{
			FlushInterval: 20 * time.Millisecond,
			Size:          5,
			MaxQueueSize:  100,
		},
	}
}

func newTestEngine(t *testing.T, spy *spyExtractor) *Engine {
	t.Helper()
	cfg := engineConfig()
	e := NewEngine(cfg, spy, cache.NewManager(cfg))
	t.Cleanup(e.Close)
	return e
}

func TestAnalyzeOneEndToEnd(t *testing.T) {
	spy := newSpyExtractor()
	spy.responses["白米150gと鶏胸肉100g"] = []nutrition.ParsedItem{
		{Name: "白米", Amount: "150g", Unit: "g", Quantity: 150},
		{Name: "鶏胸肉", Amount: "100g", Unit: "g", Quantity: 100},
	}
	e := newTestEngine(t, spy)

	result, err := e.AnalyzeOne(context.Background(), "白米150gと鶏胸肉100g", Options{UseCache: true})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Items, 2)

	// 白米 150g: P=3.75 F=0.45 C=55.2 252kcal、鶏胸肉 100g: P=23.3 F=1.9 C=0 108kcal
	assert.InDelta(t, 27.1, result.Total.Protein, 0.06)
	assert.InDelta(t, 2.35, result.Total.Fat, 0.06)
	assert.InDelta(t, 55.2, result.Total.Carbs, 0.06)
	assert.InDelta(t, 360.0, result.Total.Calories, 0.06)
	assert.Equal(t, nutrition.MethodDirect, result.Method)
	assert.False(t, result.AnalyzedAt.IsZero())

	for _, item := range result.Items {
		assert.Equal(t, nutrition.ResolvedConfidence, item.Confidence)
	}
}

func TestAnalyzeOneIdempotent(t *testing.T) {
	spy := newSpyExtractor()
	spy.responses["鶏胸肉100g"] = []nutrition.ParsedItem{
		{Name: "鶏胸肉", Amount: "100g", Unit: "g", Quantity: 100},
	}
	e := newTestEngine(t, spy)

	first, err := e.AnalyzeOne(context.Background(), "鶏胸肉100g", Options{UseCache: true})
	require.NoError(t, err)
	require.NotNil(t, first)

	// 第二次命中緩存，不再呼叫萃取
	second, err := e.AnalyzeOne(context.Background(), "鶏胸肉100g", Options{UseCache: true})
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, 1, spy.callCount())
}

func TestAnalyzeOneSynonymAndServing(t *testing.T) {
	spy := newSpyExtractor()
	spy.responses["ご飯 1杯"] = []nutrition.ParsedItem{
		{Name: "ご飯", Amount: "1杯", Unit: "杯", Quantity: 1},
	}
	e := newTestEngine(t, spy)

	result, err := e.AnalyzeOne(context.Background(), "ご飯 1杯", Options{})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Items, 1)

	// ご飯 → 白米、1杯 → 150g
	assert.Equal(t, "白米", result.Items[0].Name)
	assert.InDelta(t, 150.0, result.Items[0].Amount, 0.001)
	assert.InDelta(t, 252.0, result.Total.Calories, 0.06)
}

func TestAnalyzeOneEmptyText(t *testing.T) {
	spy := newSpyExtractor()
	e := newTestEngine(t, spy)

	result, err := e.AnalyzeOne(context.Background(), "   ", Options{UseCache: true})
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 0, spy.callCount())
}

func TestAnalyzeOneNothingExtractable(t *testing.T) {
	spy := newSpyExtractor()
	e := newTestEngine(t, spy)

	result, err := e.AnalyzeOne(context.Background(), "今日は楽しかった", Options{UseCache: true})
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 1, spy.callCount())
}

func TestAnalyzeOneExtractionError(t *testing.T) {
	spy := newSpyExtractor()
	spy.errs["白米"] = common.ErrExtractionUnavailable
	e := newTestEngine(t, spy)

	result, err := e.AnalyzeOne(context.Background(), "白米", Options{UseCache: true})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, common.ErrExtractionUnavailable)
}

func TestAnalyzeOneAllUnknownFoods(t *testing.T) {
	spy := newSpyExtractor()
	spy.responses["謎の料理"] = []nutrition.ParsedItem{
		{Name: "謎の食材", Amount: "100g", Unit: "g", Quantity: 100},
	}
	e := newTestEngine(t, spy)

	result, err := e.AnalyzeOne(context.Background(), "謎の料理", Options{UseCache: true})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Items)
	assert.Equal(t, nutrition.Macros{}, result.Total)

	// 零合計結果不進緩存，下一次重新萃取
	_, err = e.AnalyzeOne(context.Background(), "謎の料理", Options{UseCache: true})
	require.NoError(t, err)
	assert.Equal(t, 2, spy.callCount())
}

func TestAnalyzeOneBatched(t *testing.T) {
	spy := newSpyExtractor()
	spy.responses["納豆 1パック"] = []nutrition.ParsedItem{
		{Name: "納豆", Amount: "1パック", Unit: "パック", Quantity: 1},
	}
	e := newTestEngine(t, spy)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := e.AnalyzeOne(ctx, "納豆 1パック", Options{UseCache: true, UseBatch: true})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, nutrition.MethodBatch, result.Method)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "納豆", result.Items[0].Name)
	assert.InDelta(t, 45.0, result.Items[0].Amount, 0.001)
}

func TestAnalyzeOneBatchedTimeoutStillCaches(t *testing.T) {
	spy := newSpyExtractor()
	spy.delay = 80 * time.Millisecond
	spy.responses["豆腐 1丁"] = []nutrition.ParsedItem{
		{Name: "豆腐", Amount: "1丁", Unit: "丁", Quantity: 1},
	}
	e := newTestEngine(t, spy)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := e.AnalyzeOne(ctx, "豆腐 1丁", Options{UseCache: true, UseBatch: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrAnalysisTimeout)

	// 放棄等待不取消處理，結果最終回填緩存
	require.Eventually(t, func() bool {
		result, ok := e.cache.Get(context.Background(), "豆腐 1丁")
		return ok && result != nil && len(result.Items) == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestAnalyzeMany(t *testing.T) {
	spy := newSpyExtractor()
	spy.responses["白米150g"] = []nutrition.ParsedItem{
		{Name: "白米", Amount: "150g", Unit: "g", Quantity: 150},
	}
	spy.errs["エラー飯"] = errors.New("upstream down")
	e := newTestEngine(t, spy)

	entries := e.AnalyzeMany(context.Background(), []string{"白米150g", "エラー飯", ""})
	require.Len(t, entries, 3)

	assert.Equal(t, "白米150g", entries[0].Input)
	require.NoError(t, entries[0].Err)
	require.NotNil(t, entries[0].Result)

	assert.Equal(t, "エラー飯", entries[1].Input)
	assert.Error(t, entries[1].Err)
	assert.Nil(t, entries[1].Result)

	assert.NoError(t, entries[2].Err)
	assert.Nil(t, entries[2].Result)
}

func TestGetStats(t *testing.T) {
	spy := newSpyExtractor()
	spy.responses["白米150g"] = []nutrition.ParsedItem{
		{Name: "白米", Amount: "150g", Unit: "g", Quantity: 150},
	}
	e := newTestEngine(t, spy)

	_, err := e.AnalyzeOne(context.Background(), "白米150g", Options{UseCache: true})
	require.NoError(t, err)

	stats := e.GetStats()
	assert.Equal(t, int64(1), stats["analyses"])
	assert.Contains(t, stats, "cache")
	assert.Contains(t, stats, "dispatcher")
}
