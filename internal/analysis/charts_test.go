package analysis

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-delta-analyzer/internal/model"
)

func TestBuildCharts(t *testing.T) {
	records := []model.DiffRecord{
		{Key: "A", Before: 100, After: 150, Delta: 50, PercentDelta: model.Some(50)},
		{Key: "new", Before: 0, After: 20, Delta: 20, PercentDelta: model.None()},
		{Key: "B", Before: 50, After: 40, Delta: -10, PercentDelta: model.Some(-20)},
	}

	t.Run("difference bar", func(t *testing.T) {
		charts := BuildCharts(records, model.StatisticalResults{})

		assert.Equal(t, []string{"A", "new", "B"}, charts.Difference.Labels)
		assert.Equal(t, []float64{50, 20, -10}, charts.Difference.Values)
		assert.Equal(t, []string{model.ColorIncrease, model.ColorIncrease, model.ColorDecrease}, charts.Difference.Colors)
	})

	t.Run("scatter skips undefined percent", func(t *testing.T) {
		charts := BuildCharts(records, model.StatisticalResults{})

		require.NotNil(t, charts.Scatter)
		assert.Equal(t, []string{"A", "B"}, charts.Scatter.Labels)
		assert.Equal(t, []float64{50, -10}, charts.Scatter.XValues)
		assert.Equal(t, []float64{50, -20}, charts.Scatter.YValues)
	})

	t.Run("no scatter without percents", func(t *testing.T) {
		charts := BuildCharts(records[1:2], model.StatisticalResults{})

		assert.Nil(t, charts.Scatter)
	})

	t.Run("trend only when ok", func(t *testing.T) {
		stats := model.StatisticalResults{Trend: model.TrendResult{
			Section: model.Section{Status: model.StatusOK},
			Before:  []model.TrendPoint{{Period: "2024-01", Value: 1}},
		}}

		assert.NotNil(t, BuildCharts(records, stats).Trend)

		stats.Trend.Mark(model.StatusError, "bad date")
		assert.Nil(t, BuildCharts(records, stats).Trend)
	})
}

func TestDeltaHistogram(t *testing.T) {
	t.Run("twenty bins with closed last bin", func(t *testing.T) {
		h := DeltaHistogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 20}, HistogramBins)

		require.Len(t, h.Bins, 21)
		require.Len(t, h.Frequencies, 20)
		assert.Equal(t, 0.0, h.Bins[0])
		assert.Equal(t, 20.0, h.Bins[20])
		assert.Equal(t, 1, h.Frequencies[19], "max lands in the last bin")

		total := 0
		for _, f := range h.Frequencies {
			total += f
		}
		assert.Equal(t, 12, total)
		assert.Equal(t, []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, h.Frequencies[:11])
	})

	t.Run("constant sample widens range", func(t *testing.T) {
		h := DeltaHistogram([]float64{3, 3}, HistogramBins)

		assert.Equal(t, 2.5, h.Bins[0])
		assert.Equal(t, 3.5, h.Bins[20])
		assert.Equal(t, 2, h.Frequencies[10])
	})

	t.Run("empty sample", func(t *testing.T) {
		h := DeltaHistogram(nil, HistogramBins)

		assert.Equal(t, 0.0, h.Bins[0])
		assert.Equal(t, 1.0, h.Bins[20])
		assert.Equal(t, make([]int, 20), h.Frequencies)
	})

	t.Run("range wider than the float maximum", func(t *testing.T) {
		var h model.Histogram
		require.NotPanics(t, func() { h = DeltaHistogram([]float64{1e308, -1e308}, HistogramBins) })

		assert.Empty(t, h.Message)
		require.Len(t, h.Bins, 21)
		assert.Equal(t, -1e308, h.Bins[0])
		assert.Equal(t, 0.0, h.Bins[10])
		assert.Equal(t, 1e308, h.Bins[20])
		assert.True(t, sort.Float64sAreSorted(h.Bins))
		assert.Equal(t, 1, h.Frequencies[0])
		assert.Equal(t, 1, h.Frequencies[19])
	})

	t.Run("full float range", func(t *testing.T) {
		var h model.Histogram
		require.NotPanics(t, func() {
			h = DeltaHistogram([]float64{-math.MaxFloat64, 0, math.MaxFloat64}, HistogramBins)
		})

		assert.Empty(t, h.Message)
		assert.Equal(t, math.MaxFloat64, h.Bins[20])
		assert.Equal(t, 1, h.Frequencies[0])
		assert.Equal(t, 1, h.Frequencies[19])
		assert.Equal(t, 3, sumInts(h.Frequencies))
	})

	t.Run("constant sample too large to widen by half", func(t *testing.T) {
		h := DeltaHistogram([]float64{1e308, 1e308}, HistogramBins)

		assert.Empty(t, h.Message)
		assert.Less(t, h.Bins[0], 1e308)
		assert.Greater(t, h.Bins[20], 1e308)
		assert.Equal(t, 2, sumInts(h.Frequencies))
	})

	t.Run("no bins", func(t *testing.T) {
		h := DeltaHistogram([]float64{1, 2}, 0)

		assert.Empty(t, h.Bins)
		assert.NotEmpty(t, h.Message)
	})
}

func sumInts(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
