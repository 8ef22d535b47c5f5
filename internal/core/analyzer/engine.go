package analyzer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"pfc-analyzer/internal/core/ai/batch"
	"pfc-analyzer/internal/core/ai/cache"
	"pfc-analyzer/internal/core/nutrition"
	"pfc-analyzer/internal/infrastructure/config"
	"pfc-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// Extractor 萃取服務的抽象，測試時可注入替身
type Extractor interface {
	Extract(ctx context.Context, mealText string) ([]nutrition.ParsedItem, error)
}

// Options AnalyzeOne 的行為開關
type Options struct {
	UseCache bool
	UseBatch bool
}

// Entry AnalyzeMany 的單筆結果。Result 為 nil 且 Err 為 nil 代表無可萃取內容。
type Entry struct {
	Input  string
	Result *nutrition.PFCResult
	Err    error
}

// metrics 靜默降級行為的可觀測計數。
// 成分表查無、單位走預設值這類不報錯的路徑全部計數在這裡，
// 讓系統性低估可以被發現，而不是只留一行 log。
type metrics struct {
	analyses         int64
	unknownFoods     int64
	emptyExtractions int64
	extractionErrors int64
}

// Engine 營養解析引擎的唯一入口。
// 組合緩存查詢 → 萃取（直接或批次）→ 標準化換算 → PFC 計算 → 緩存回填。
type Engine struct {
	config     *config.Config
	extractor  Extractor
	cache      *cache.Manager
	dispatcher *batch.Dispatcher
	metrics    metrics
}

// NewEngine 創建引擎。緩存與批次調度器由引擎持有，
// 不使用行程級單例，測試可各自建立隔離的實例。
func NewEngine(cfg *config.Config, extractor Extractor, cacheManager *cache.Manager) *Engine {
	e := &Engine{
		config:    cfg,
		extractor: extractor,
		cache:     cacheManager,
	}
	e.dispatcher = batch.NewDispatcher(cfg, e.resolveForBatch)
	return e
}

// AnalyzeOne 分析單筆餐點描述。
// 返回 (nil, nil) 代表無可萃取內容，呼叫端須與錯誤情況分開判斷。
// 批次路徑的等待上限由呼叫端以 context 控制，逾時返回 ErrAnalysisTimeout，
// 但底層處理仍會繼續完成並回填緩存。
func (e *Engine) AnalyzeOne(ctx context.Context, text string, opts Options) (*nutrition.PFCResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	atomic.AddInt64(&e.metrics.analyses, 1)

	if opts.UseCache {
		if result, ok := e.cache.Get(ctx, text); ok {
			return result, nil
		}
	}

	if opts.UseBatch {
		resultCh, err := e.dispatcher.Enqueue(ctx, text)
		if err != nil {
			return nil, err
		}

		select {
		case res := <-resultCh:
			return res.Result, res.Err
		case <-ctx.Done():
			// 放棄等待，處理中的項目不取消，結果仍進緩存
			return nil, fmt.Errorf("%w: %v", common.ErrAnalysisTimeout, ctx.Err())
		}
	}

	return e.runPipeline(ctx, text, opts.UseCache, nutrition.MethodDirect)
}

// AnalyzeMany 併發分析多筆餐點描述，逐筆隔離失敗，永不中斷整批。
// 歷史資料補算走這個入口；走緩存、不走批次調度器。
// 直接路徑的併發萃取數沒有上限，需要硬上限的呼叫端請自行分段。
func (e *Engine) AnalyzeMany(ctx context.Context, texts []string) []Entry {
	entries := make([]Entry, len(texts))

	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					entries[i] = Entry{Input: text, Err: fmt.Errorf("panic during analysis: %v", r)}
				}
			}()

			result, err := e.AnalyzeOne(ctx, text, Options{UseCache: true})
			entries[i] = Entry{Input: text, Result: result, Err: err}
		}(i, text)
	}
	wg.Wait()

	return entries
}

// resolveForBatch 批次調度器的單項處理管線。
// 入列到處理之間可能已有直接呼叫算完同一筆並回填緩存，所以先重查一次。
func (e *Engine) resolveForBatch(ctx context.Context, text string) (*nutrition.PFCResult, error) {
	if result, ok := e.cache.Get(ctx, text); ok {
		return result, nil
	}
	return e.runPipeline(ctx, text, true, nutrition.MethodBatch)
}

// runPipeline 同步執行 萃取 → 標準化 → 單位換算 → PFC 計算 → 緩存回填。
// 萃取失敗返回錯誤；萃取成功但無項目返回 (nil, nil)；
// 有項目但全部查無成分表時返回零合計結果（不緩存）。
func (e *Engine) runPipeline(ctx context.Context, text string, useCache bool, method string) (*nutrition.PFCResult, error) {
	parsed, err := e.extractor.Extract(ctx, text)
	if err != nil {
		atomic.AddInt64(&e.metrics.extractionErrors, 1)
		common.LogError("萃取失敗",
			zap.Error(err),
			zap.String("method", method),
		)
		return nil, err
	}

	if len(parsed) == 0 {
		atomic.AddInt64(&e.metrics.emptyExtractions, 1)
		common.LogInfo("無可萃取的食物項目",
			zap.String("method", method),
		)
		return nil, nil
	}

	normalized := make([]nutrition.NormalizedItem, 0, len(parsed))
	for _, p := range parsed {
		canonical := nutrition.Standardize(p.Name)
		amount := nutrition.Normalize(p.Quantity, p.Unit, canonical)
		normalized = append(normalized, nutrition.NormalizedItem{
			Name:   canonical,
			Amount: amount,
		})
	}

	result, unknown := nutrition.Calculate(normalized)
	result.Method = method

	if len(unknown) > 0 {
		// 靜默略過會造成合計低估，記錄結構化診斷供監控
		atomic.AddInt64(&e.metrics.unknownFoods, int64(len(unknown)))
		common.LogWarn("成分表查無食物，已自合計略過",
			zap.Strings("foods", unknown),
			zap.Int("resolved_count", len(result.Items)),
		)
	}

	if useCache && len(result.Items) > 0 {
		e.cache.Set(ctx, text, result)
	}

	return result, nil
}

// GetStats 引擎、緩存與調度器的統計資訊
func (e *Engine) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"analyses":          atomic.LoadInt64(&e.metrics.analyses),
		"unknown_foods":     atomic.LoadInt64(&e.metrics.unknownFoods),
		"empty_extractions": atomic.LoadInt64(&e.metrics.emptyExtractions),
		"extraction_errors": atomic.LoadInt64(&e.metrics.extractionErrors),
		"cache":             e.cache.GetStats(),
		"dispatcher":        e.dispatcher.GetStatus(),
	}
}

// Close 關閉引擎持有的批次調度器
func (e *Engine) Close() {
	e.dispatcher.Close()
}
