package nutrition

// BaseUnit 成分表數值所對應的基準單位種類
type BaseUnit string

const (
	UnitMass   BaseUnit = "mass"   // 每 100g
	UnitVolume BaseUnit = "volume" // 每 100ml
)

// FoodProfile 單一食物的營養成分，每 100 基準單位
type FoodProfile struct {
	Name     string
	Protein  float64
	Fat      float64
	Carbs    float64
	Calories float64
	Base     BaseUnit
}

// referenceTable 參考成分表。數值取自日本食品標準成分表的概略值，
// 鍵為標準化後的食物名稱。啟動時載入，之後不再變更。
var referenceTable = map[string]FoodProfile{
	"白米":      {Name: "白米", Protein: 2.5, Fat: 0.3, Carbs: 36.8, Calories: 168, Base: UnitMass},
	"玄米":      {Name: "玄米", Protein: 2.8, Fat: 1.0, Carbs: 35.6, Calories: 165, Base: UnitMass},
	"鶏胸肉":     {Name: "鶏胸肉", Protein: 23.3, Fat: 1.9, Carbs: 0, Calories: 108, Base: UnitMass},
	"鶏もも肉":    {Name: "鶏もも肉", Protein: 16.6, Fat: 14.2, Carbs: 0, Calories: 204, Base: UnitMass},
	"ささみ":     {Name: "ささみ", Protein: 23.9, Fat: 0.8, Carbs: 0.1, Calories: 105, Base: UnitMass},
	"豚ロース":    {Name: "豚ロース", Protein: 19.3, Fat: 19.2, Carbs: 0.2, Calories: 263, Base: UnitMass},
	"牛肉":      {Name: "牛肉", Protein: 19.5, Fat: 15.0, Carbs: 0.3, Calories: 217, Base: UnitMass},
	"鮭":       {Name: "鮭", Protein: 22.3, Fat: 4.1, Carbs: 0.1, Calories: 133, Base: UnitMass},
	"サバ":      {Name: "サバ", Protein: 20.6, Fat: 16.8, Carbs: 0.3, Calories: 247, Base: UnitMass},
	"卵":       {Name: "卵", Protein: 12.3, Fat: 10.3, Carbs: 0.3, Calories: 151, Base: UnitMass},
	"納豆":      {Name: "納豆", Protein: 16.5, Fat: 10.0, Carbs: 12.1, Calories: 200, Base: UnitMass},
	"豆腐":      {Name: "豆腐", Protein: 6.6, Fat: 4.2, Carbs: 1.6, Calories: 72, Base: UnitMass},
	"味噌汁":     {Name: "味噌汁", Protein: 1.5, Fat: 0.6, Carbs: 3.2, Calories: 25, Base: UnitVolume},
	"牛乳":      {Name: "牛乳", Protein: 3.3, Fat: 3.8, Carbs: 4.8, Calories: 67, Base: UnitVolume},
	"ヨーグルト":   {Name: "ヨーグルト", Protein: 3.6, Fat: 3.0, Carbs: 4.9, Calories: 62, Base: UnitMass},
	"チーズ":     {Name: "チーズ", Protein: 22.7, Fat: 26.0, Carbs: 1.3, Calories: 339, Base: UnitMass},
	"食パン":     {Name: "食パン", Protein: 9.3, Fat: 4.4, Carbs: 46.7, Calories: 264, Base: UnitMass},
	"うどん":     {Name: "うどん", Protein: 2.6, Fat: 0.4, Carbs: 21.6, Calories: 105, Base: UnitMass},
	"そば":      {Name: "そば", Protein: 4.8, Fat: 1.0, Carbs: 26.0, Calories: 132, Base: UnitMass},
	"パスタ":     {Name: "パスタ", Protein: 5.8, Fat: 0.9, Carbs: 32.2, Calories: 165, Base: UnitMass},
	"オートミール":  {Name: "オートミール", Protein: 13.7, Fat: 5.7, Carbs: 69.1, Calories: 380, Base: UnitMass},
	"バナナ":     {Name: "バナナ", Protein: 1.1, Fat: 0.2, Carbs: 22.5, Calories: 86, Base: UnitMass},
	"りんご":     {Name: "りんご", Protein: 0.1, Fat: 0.2, Carbs: 14.1, Calories: 54, Base: UnitMass},
	"トマト":     {Name: "トマト", Protein: 0.7, Fat: 0.1, Carbs: 4.7, Calories: 20, Base: UnitMass},
	"ブロッコリー":  {Name: "ブロッコリー", Protein: 5.4, Fat: 0.6, Carbs: 6.6, Calories: 37, Base: UnitMass},
	"サラダ":     {Name: "サラダ", Protein: 1.2, Fat: 0.2, Carbs: 3.6, Calories: 20, Base: UnitMass},
	"じゃがいも":   {Name: "じゃがいも", Protein: 1.6, Fat: 0.1, Carbs: 17.6, Calories: 76, Base: UnitMass},
	"さつまいも":   {Name: "さつまいも", Protein: 1.2, Fat: 0.2, Carbs: 31.9, Calories: 134, Base: UnitMass},
	"アボカド":    {Name: "アボカド", Protein: 2.5, Fat: 18.7, Carbs: 7.5, Calories: 187, Base: UnitMass},
	"枝豆":      {Name: "枝豆", Protein: 11.7, Fat: 6.2, Carbs: 8.8, Calories: 135, Base: UnitMass},
	"プロテイン":   {Name: "プロテイン", Protein: 75.0, Fat: 7.5, Carbs: 10.0, Calories: 400, Base: UnitMass},
	"ビール":     {Name: "ビール", Protein: 0.3, Fat: 0, Carbs: 3.1, Calories: 40, Base: UnitVolume},
	"オレンジジュース": {Name: "オレンジジュース", Protein: 0.7, Fat: 0, Carbs: 10.7, Calories: 45, Base: UnitVolume},
}

// LookupProfile 依標準化名稱查詢成分表
func LookupProfile(name string) (FoodProfile, bool) {
	p, ok := referenceTable[name]
	return p, ok
}

// HasProfile 檢查成分表是否有該食物
func HasProfile(name string) bool {
	_, ok := referenceTable[name]
	return ok
}
