package nutrition

import "strings"

// synonymTable 常見別名、口語寫法 → 成分表的標準名稱
var synonymTable = map[string]string{
	// 主食
	"ご飯":       "白米",
	"ごはん":      "白米",
	"ライス":      "白米",
	"米":        "白米",
	"白ごはん":     "白米",
	"玄米ご飯":     "玄米",
	"パン":       "食パン",
	"トースト":     "食パン",
	"スパゲッティ":   "パスタ",
	"スパゲティ":    "パスタ",
	"オーツ麦":     "オートミール",

	// 肉類・魚類
	"鶏むね肉":     "鶏胸肉",
	"鶏ムネ肉":     "鶏胸肉",
	"むね肉":      "鶏胸肉",
	"とりむね":     "鶏胸肉",
	"チキン":      "鶏胸肉",
	"鶏もも":      "鶏もも肉",
	"もも肉":      "鶏もも肉",
	"鶏ささみ":     "ささみ",
	"豚肉":       "豚ロース",
	"ポーク":      "豚ロース",
	"ビーフ":      "牛肉",
	"サーモン":     "鮭",
	"しゃけ":      "鮭",
	"さば":       "サバ",
	"鯖":        "サバ",

	// 蛋・乳製品・大豆製品
	"たまご":      "卵",
	"タマゴ":      "卵",
	"玉子":       "卵",
	"ゆで卵":      "卵",
	"ミルク":      "牛乳",
	"ぎゅうにゅう":   "牛乳",
	"ヨーグルト無糖":  "ヨーグルト",
	"とうふ":      "豆腐",

	// 蔬菜・水果・其他
	"ポテト":      "じゃがいも",
	"サツマイモ":    "さつまいも",
	"焼き芋":      "さつまいも",
	"みそ汁":      "味噌汁",
	"お味噌汁":     "味噌汁",
	"プロテインシェイク": "プロテイン",
	"オレンジ果汁":   "オレンジジュース",
}

// Standardize 將自由記述的食物名稱對應到成分表的標準名稱。
// 查無別名時原樣返回，是否存在於成分表由下游的計算器判斷。
func Standardize(rawName string) string {
	name := strings.TrimSpace(rawName)
	if canonical, ok := synonymTable[name]; ok {
		return canonical
	}
	return name
}
