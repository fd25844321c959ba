package analysis

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"go-delta-analyzer/internal/model"
)

// HistogramBins is the bucket count of the delta histogram
const HistogramBins = 20

// BuildCharts reshapes records and statistics into chart series
func BuildCharts(records []model.DiffRecord, stats model.StatisticalResults) model.Charts {
	var charts model.Charts

	bar := model.BarChart{
		Labels: make([]string, len(records)),
		Values: make([]float64, len(records)),
		Colors: make([]string, len(records)),
	}
	var scatter model.ScatterChart
	for i, r := range records {
		bar.Labels[i] = r.Key
		bar.Values[i] = r.Delta
		bar.Colors[i] = model.ColorIncrease
		if r.Delta < 0 {
			bar.Colors[i] = model.ColorDecrease
		}
		if pct, ok := r.PercentDelta.Get(); ok {
			scatter.XValues = append(scatter.XValues, r.Delta)
			scatter.YValues = append(scatter.YValues, pct)
			scatter.Labels = append(scatter.Labels, r.Key)
		}
	}
	charts.Difference = bar
	if len(scatter.XValues) > 0 {
		charts.Scatter = &scatter
	}

	charts.Histogram = DeltaHistogram(finiteDeltas(records), HistogramBins)

	if stats.Trend.OK() {
		charts.Trend = &model.TrendChart{Before: stats.Trend.Before, After: stats.Trend.After}
	}
	return charts
}

// DeltaHistogram buckets x into equal-width bins over [min, max] with the
// last bin closed. A constant sample is widened by 0.5 each side and an empty
// sample uses [0, 1].
func DeltaHistogram(x []float64, bins int) (h model.Histogram) {
	if bins < 1 {
		return model.Histogram{Message: "no histogram bins requested"}
	}
	lo, hi := 0.0, 1.0
	if len(x) > 0 {
		lo, hi = floats.Min(x), floats.Max(x)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	if lo == hi {
		// magnitudes where 0.5 is below the float spacing
		lo = math.Nextafter(lo, math.Inf(-1))
		hi = math.Nextafter(hi, math.Inf(1))
	}

	h = model.Histogram{Bins: histogramEdges(lo, hi, bins), Frequencies: make([]int, bins)}
	if len(x) == 0 {
		return h
	}

	defer func() {
		if r := recover(); r != nil {
			h.Frequencies = make([]int, bins)
			h.Message = fmt.Sprintf("histogram unavailable: %v", r)
		}
	}()

	// stat.Histogram needs every value strictly below the last divider
	dividers := slices.Clone(h.Bins)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	sorted := slices.Clone(x)
	slices.Sort(sorted)

	counts := stat.Histogram(nil, dividers, sorted, nil)
	for i, c := range counts {
		h.Frequencies[i] = int(c)
	}
	return h
}

// histogramEdges spaces bins+1 edges evenly over [lo, hi]. Ranges wider than
// the float64 maximum are interpolated per edge so no edge overflows.
func histogramEdges(lo, hi float64, bins int) []float64 {
	edges := make([]float64, bins+1)
	if !math.IsInf(hi-lo, 0) {
		floats.Span(edges, lo, hi)
	} else {
		for i := range edges {
			t := float64(i) / float64(bins)
			edges[i] = lo*(1-t) + hi*t
		}
	}
	edges[0], edges[bins] = lo, hi
	for i := 1; i < len(edges); i++ {
		edges[i] = max(edges[i], edges[i-1])
	}
	return edges
}
