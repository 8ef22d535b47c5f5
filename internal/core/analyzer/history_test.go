package analyzer

import (
	"context"
	"errors"
	"testing"

	"pfc-analyzer/internal/core/nutrition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource 固定返回預先注入的紀錄
type fakeSource struct {
	records []Record
	err     error
}

func (f *fakeSource) FetchRecords(ctx context.Context) ([]Record, error) {
	return f.records, f.err
}

func TestAnalyzeHistory(t *testing.T) {
	spy := newSpyExtractor()
	spy.responses["白米150g"] = []nutrition.ParsedItem{
		{Name: "白米", Amount: "150g", Unit: "g", Quantity: 150},
	}
	spy.errs["壊れた行"] = errors.New("upstream down")
	e := newTestEngine(t, spy)

	source := &fakeSource{records: []Record{
		{Text: "白米150g"},
		{Text: "鶏胸肉のソテー", HasPFC: true},
		{Text: "   "},
		{Text: "今日は晴れ"},
		{Text: "壊れた行"},
	}}

	outcome, err := NewHistoryAnalyzer(e).AnalyzeHistory(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, 5, outcome.Total)
	assert.Equal(t, 2, outcome.Skipped)
	assert.Equal(t, 1, outcome.Analyzed)
	assert.Equal(t, 1, outcome.Empty)
	assert.Equal(t, 1, outcome.Failed)
	assert.Len(t, outcome.Entries, 3)
}

func TestAnalyzeHistoryNothingPending(t *testing.T) {
	spy := newSpyExtractor()
	e := newTestEngine(t, spy)

	source := &fakeSource{records: []Record{
		{Text: "白米150g", HasPFC: true},
		{Text: ""},
	}}

	outcome, err := NewHistoryAnalyzer(e).AnalyzeHistory(context.Background(), source)
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Total)
	assert.Equal(t, 2, outcome.Skipped)
	assert.Empty(t, outcome.Entries)
	assert.Equal(t, 0, spy.callCount())
}

func TestAnalyzeHistorySourceError(t *testing.T) {
	spy := newSpyExtractor()
	e := newTestEngine(t, spy)

	source := &fakeSource{err: errors.New("sheet unavailable")}

	outcome, err := NewHistoryAnalyzer(e).AnalyzeHistory(context.Background(), source)
	require.Error(t, err)
	assert.Nil(t, outcome)
}
