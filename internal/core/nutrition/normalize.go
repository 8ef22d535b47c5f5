package nutrition

import "strings"

// 單位換算的預設值
const (
	DefaultPieceWeight   = 100.0 // 按個數計且無個別重量資料時: 100g/個
	DefaultServingWeight = 150.0 // 按杯・一人前計且無個別重量資料時: 150g/杯
	DefaultUnknownAmount = 100.0 // 成分表查無的食物: 一律 100 基準單位
)

// pieceWeights 各食物的平均單個重量 (g/個)
var pieceWeights = map[string]float64{
	"卵":     50,
	"納豆":    45,
	"豆腐":    300,
	"食パン":   60,
	"バナナ":   100,
	"りんご":   250,
	"トマト":   150,
	"じゃがいも": 150,
	"さつまいも": 200,
	"アボカド":  140,
	"鮭":     80,
	"サバ":    100,
	"チーズ":   18,
}

// servingWeights 各食物的一杯・一人前平均重量 (g/杯)
var servingWeights = map[string]float64{
	"白米":      150,
	"玄米":      150,
	"味噌汁":     200,
	"牛乳":      200,
	"ヨーグルト":   100,
	"うどん":     250,
	"そば":      180,
	"パスタ":     250,
	"オートミール":  30,
	"プロテイン":   30,
	"サラダ":     100,
	"枝豆":      50,
	"ビール":     350,
	"オレンジジュース": 200,
}

// massUnits / volumeUnits / pieceUnits / servingUnits
// 萃取結果所預期的封閉單位集合。質量與容積以 1ml ≈ 1g 視為等值。
var (
	massUnits    = map[string]float64{"g": 1, "グラム": 1, "gram": 1, "kg": 1000, "キロ": 1000}
	volumeUnits  = map[string]float64{"ml": 1, "cc": 1, "ミリリットル": 1, "l": 1000, "リットル": 1000}
	pieceUnits   = map[string]bool{"個": true, "piece": true, "pcs": true, "つ": true, "枚": true, "本": true, "切れ": true, "パック": true, "丁": true}
	servingUnits = map[string]bool{"杯": true, "cup": true, "serving": true, "人前": true, "膳": true, "玉": true, "皿": true}
)

// Normalize 將數量＋單位換算為基準單位量（以 100g/100ml 為基準的克當量）。
// 規則依序：質量 → 容積 → 個數 → 杯 → 未知單位原樣通過。
// 成分表查無的食物不論解析出的數量為何，一律返回 100（沿用既有行為；
// 注意個數/杯的預設值會隨數量縮放，唯獨此路徑忽略數量，待產品方確認）。
func Normalize(quantity float64, unit string, canonicalName string) float64 {
	if !HasProfile(canonicalName) {
		return DefaultUnknownAmount
	}

	if quantity < 0 {
		quantity = 0
	}

	u := strings.ToLower(strings.TrimSpace(unit))

	if factor, ok := massUnits[u]; ok {
		return quantity * factor
	}
	if factor, ok := volumeUnits[u]; ok {
		return quantity * factor
	}
	if pieceUnits[u] {
		if w, ok := pieceWeights[canonicalName]; ok {
			return quantity * w
		}
		return quantity * DefaultPieceWeight
	}
	if servingUnits[u] {
		if w, ok := servingWeights[canonicalName]; ok {
			return quantity * w
		}
		return quantity * DefaultServingWeight
	}

	// 未知單位視為已是基準單位，原樣返回
	return quantity
}
