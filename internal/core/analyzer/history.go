package analyzer

import (
	"context"
	"strings"

	"pfc-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// Record 歷史餐點紀錄的一列。持久層完全由呼叫端負責，
// 引擎只讀文字與「是否已有 PFC」旗標，不寫回任何東西。
type Record struct {
	Text   string
	HasPFC bool
}

// RecordSource 歷史紀錄的讀取介面
type RecordSource interface {
	FetchRecords(ctx context.Context) ([]Record, error)
}

// HistoryOutcome 一次歷史補算的結果統計
type HistoryOutcome struct {
	Total    int     `json:"total"`
	Skipped  int     `json:"skipped"`
	Analyzed int     `json:"analyzed"`
	Empty    int     `json:"empty"`
	Failed   int     `json:"failed"`
	Entries  []Entry `json:"-"`
}

// HistoryAnalyzer 歷史資料批量補算器。
// 只處理尚未有 PFC 的列，逐筆隔離失敗。
type HistoryAnalyzer struct {
	engine *Engine
}

// NewHistoryAnalyzer 創建歷史補算器
func NewHistoryAnalyzer(engine *Engine) *HistoryAnalyzer {
	return &HistoryAnalyzer{engine: engine}
}

// AnalyzeHistory 讀取歷史紀錄，對缺少 PFC 的列批量執行分析
func (h *HistoryAnalyzer) AnalyzeHistory(ctx context.Context, source RecordSource) (*HistoryOutcome, error) {
	records, err := source.FetchRecords(ctx)
	if err != nil {
		return nil, err
	}

	outcome := &HistoryOutcome{Total: len(records)}

	texts := make([]string, 0, len(records))
	for _, r := range records {
		if r.HasPFC || strings.TrimSpace(r.Text) == "" {
			outcome.Skipped++
			continue
		}
		texts = append(texts, r.Text)
	}

	if len(texts) == 0 {
		common.LogInfo("歷史補算：沒有待處理的紀錄",
			zap.Int("total", outcome.Total),
		)
		return outcome, nil
	}

	outcome.Entries = h.engine.AnalyzeMany(ctx, texts)
	for _, entry := range outcome.Entries {
		switch {
		case entry.Err != nil:
			outcome.Failed++
		case entry.Result == nil:
			outcome.Empty++
		default:
			outcome.Analyzed++
		}
	}

	common.LogInfo("歷史補算完成",
		zap.Int("total", outcome.Total),
		zap.Int("skipped", outcome.Skipped),
		zap.Int("analyzed", outcome.Analyzed),
		zap.Int("empty", outcome.Empty),
		zap.Int("failed", outcome.Failed),
	)

	return outcome, nil
}
