package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-delta-analyzer/internal/model"
)

func TestDescribe(t *testing.T) {
	res := load(t, "k,v\nA,1\nB,2\nC,3\nD,\n", LoadOptions{})
	info := res.Info

	assert.Equal(t, []string{"k", "v"}, info.Columns)
	assert.Equal(t, []string{"v"}, info.NumericColumns)
	assert.Equal(t, []string{"k"}, info.CategoricalColumns)
	assert.Equal(t, 4, info.RowCount)

	q := info.Quality
	assert.Equal(t, map[string]int{"k": 0, "v": 1}, q.MissingValues)
	assert.Equal(t, map[string]float64{"k": 0, "v": 25}, q.MissingPercentage)
	assert.Equal(t, map[string]int{"k": 4, "v": 3}, q.UniqueCounts)
	assert.Equal(t, model.ColumnText, q.DataTypes["k"])
	assert.Equal(t, 0, q.DuplicatesRemoved)
	assert.Greater(t, q.MemoryUsageMB, -0.0001)

	require.Contains(t, q.NumericSummary, "v")
	s := q.NumericSummary["v"]
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 2, s.Mean.Value, 1e-12)
	assert.InDelta(t, 1, s.Std.Value, 1e-12)
	assert.Equal(t, model.Some(1), s.Min)
	assert.Equal(t, model.Some(3), s.Max)
	assert.True(t, s.P50.Valid)
	assert.GreaterOrEqual(t, s.P50.Value, s.P25.Value)
	assert.LessOrEqual(t, s.P50.Value, s.P75.Value)
}

func TestSummarizeEdgeCases(t *testing.T) {
	t.Run("no values", func(t *testing.T) {
		s := summarize(nil)

		assert.Equal(t, 0, s.Count)
		assert.False(t, s.Mean.Valid)
		assert.False(t, s.Max.Valid)
	})

	t.Run("single value has no spread", func(t *testing.T) {
		s := summarize([]float64{7})

		assert.Equal(t, model.Some(7), s.Mean)
		assert.False(t, s.Std.Valid)
		assert.Equal(t, model.Some(7), s.P50)
	})
}
