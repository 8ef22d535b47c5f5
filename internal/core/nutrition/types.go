package nutrition

import (
	"math"
	"time"
)

// Macros PFC 與熱量合計
type Macros struct {
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Calories float64 `json:"calories"`
}

// ParsedItem 萃取服務回傳的單一食物項目（尚未對照成分表）
type ParsedItem struct {
	Name     string  `json:"name"`
	Amount   string  `json:"amount"`
	Unit     string  `json:"unit"`
	Quantity float64 `json:"quantity"`
}

// NormalizedItem 已換算為基準單位（100g / 100ml）的食物項目
type NormalizedItem struct {
	Name   string  // 標準化後的食物名稱
	Amount float64 // 基準單位量，恆 >= 0
}

// ItemResult 單一食物的計算結果
type ItemResult struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Macros             // protein / fat / carbs / calories
	Confidence float64 `json:"confidence"`
}

// PFCResult 一次餐點分析的完整結果，同時是緩存的儲存單位
type PFCResult struct {
	Total      Macros       `json:"total"`
	Items      []ItemResult `json:"items"`
	AnalyzedAt time.Time    `json:"analyzed_at"`
	Method     string       `json:"method"`
}

// 分析路徑標記
const (
	MethodDirect = "direct" // 同步直接呼叫萃取
	MethodBatch  = "batch"  // 經批次調度器處理
)

// Round1 四捨五入到小數點後一位
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
