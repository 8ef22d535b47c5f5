package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"rice synonym", "ごはん", "白米"},
		{"rice katakana", "ライス", "白米"},
		{"chicken breast variant", "鶏むね肉", "鶏胸肉"},
		{"chicken loanword", "チキン", "鶏胸肉"},
		{"egg hiragana", "たまご", "卵"},
		{"egg kanji variant", "玉子", "卵"},
		{"bread", "トースト", "食パン"},
		{"canonical passes through", "白米", "白米"},
		{"unknown passes through", "謎の料理", "謎の料理"},
		{"whitespace trimmed", "  ごはん  ", "白米"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Standardize(tt.in))
		})
	}
}
