package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMassAndVolume(t *testing.T) {
	tests := []struct {
		name     string
		quantity float64
		unit     string
		food     string
		want     float64
	}{
		{"grams pass through", 150, "g", "白米", 150},
		{"kg scales by 1000", 1.5, "kg", "白米", 1500},
		{"ml pass through", 200, "ml", "牛乳", 200},
		{"liter scales by 1000", 0.5, "l", "牛乳", 500},
		{"cc treated as ml", 180, "cc", "牛乳", 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.quantity, tt.unit, tt.food))
		})
	}
}

func TestNormalizePieceUnit(t *testing.T) {
	// 卵有 50g/個 的個別重量覆寫
	assert.Equal(t, 100.0, Normalize(2, "個", "卵"))

	// ブロッコリー無覆寫，走預設 100g/個
	assert.Equal(t, 200.0, Normalize(2, "個", "ブロッコリー"))
}

func TestNormalizeServingUnit(t *testing.T) {
	// 味噌汁有 200g/杯 的覆寫
	assert.Equal(t, 200.0, Normalize(1, "杯", "味噌汁"))

	// 鶏胸肉無覆寫，走預設 150g/杯
	assert.Equal(t, 300.0, Normalize(2, "人前", "鶏胸肉"))
}

func TestNormalizeUnknownUnitPassesThrough(t *testing.T) {
	assert.Equal(t, 80.0, Normalize(80, "なんか", "白米"))
	assert.Equal(t, 80.0, Normalize(80, "", "白米"))
}

func TestNormalizeUnknownFoodReturnsFixedDefault(t *testing.T) {
	// 成分表查無的食物不論數量一律 100
	assert.Equal(t, DefaultUnknownAmount, Normalize(500, "g", "謎の食べ物"))
	assert.Equal(t, DefaultUnknownAmount, Normalize(3, "個", "謎の食べ物"))
}

func TestNormalizeNegativeQuantityClamped(t *testing.T) {
	assert.Equal(t, 0.0, Normalize(-10, "g", "白米"))
}
