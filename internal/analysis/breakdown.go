package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"go-delta-analyzer/internal/model"
)

// Explanation markers
const (
	ReasonNoBreakdown = "no breakdown requested"
	ReasonNoData      = "no data"
	ReasonNoDriver    = "no significant driver"
)

const (
	contributorCount = 5
	explainedCount   = 3
)

// Breakdown explains a group's change through secondary dimensions
type Breakdown struct {
	before, after    *model.Dataset
	valueCol         string
	method           model.AggregationMethod
	columns          []string
	anomalyThreshold float64
}

// NewBreakdown prepares breakdown analysis over the given columns.
// The value column must already be validated against both datasets.
func NewBreakdown(before, after *model.Dataset, valueCol string, method model.AggregationMethod, columns []string, anomalyThreshold float64) *Breakdown {
	if anomalyThreshold <= 0 {
		anomalyThreshold = DefaultAnomalyThreshold
	}
	return &Breakdown{
		before:           before,
		after:            after,
		valueCol:         valueCol,
		method:           method,
		columns:          columns,
		anomalyThreshold: anomalyThreshold,
	}
}

// Analyze runs the breakdown for one group given that group's rows on each
// side. It returns the explanation text and the per-column structured data.
func (b *Breakdown) Analyze(beforeRows, afterRows [][]model.Value) (string, map[string]model.ColumnBreakdown) {
	data := make(map[string]model.ColumnBreakdown)
	if len(b.columns) == 0 {
		return ReasonNoBreakdown, data
	}
	if len(beforeRows) == 0 && len(afterRows) == 0 {
		return ReasonNoData, data
	}

	bvi := b.before.ColumnIndex(b.valueCol)
	avi := b.after.ColumnIndex(b.valueCol)

	var reasons []string
	for _, col := range b.columns {
		bci := b.before.ColumnIndex(col)
		aci := b.after.ColumnIndex(col)
		if bci < 0 || aci < 0 || bvi < 0 || avi < 0 {
			continue
		}

		beforeAgg := reduceRows(beforeRows, bci, bvi, b.method)
		afterAgg := reduceRows(afterRows, aci, avi, b.method)
		cb := summarizeBreakdown(beforeAgg, afterAgg)
		data[col] = cb

		if fragments := b.explain(cb); len(fragments) > 0 {
			reasons = append(reasons, "["+col+"] "+strings.Join(fragments, " | "))
		}
	}

	if len(reasons) == 0 {
		return ReasonNoDriver, data
	}
	return strings.Join(reasons, " / "), data
}

// summarizeBreakdown builds entries over the union of sub-categories,
// with a missing side counted as 0
func summarizeBreakdown(before, after map[string]float64) model.ColumnBreakdown {
	keys := unionKeys(before, after)
	entries := make([]model.BreakdownEntry, len(keys))
	deltas := make([]float64, len(keys))

	var st model.BreakdownStats
	st.TotalItems = len(keys)
	for i, k := range keys {
		e := model.BreakdownEntry{SubCategory: k, Before: before[k], After: after[k]}
		e.Delta = e.After - e.Before
		entries[i] = e
		deltas[i] = e.Delta

		switch {
		case e.Delta > 0:
			st.PositiveItems++
		case e.Delta < 0:
			st.NegativeItems++
		default:
			st.ZeroItems++
		}
	}
	if len(deltas) >= 2 {
		v := stat.Variance(deltas, nil)
		st.Variance = model.OptOf(v)
		st.StdDev = model.OptOf(math.Sqrt(v))
	}

	return model.ColumnBreakdown{
		Stats:              st,
		TopContributors:    rankEntries(entries, func(a, b model.BreakdownEntry) bool { return a.Delta > b.Delta }),
		BottomContributors: rankEntries(entries, func(a, b model.BreakdownEntry) bool { return a.Delta < b.Delta }),
		AllChanges:         entries,
	}
}

func rankEntries(entries []model.BreakdownEntry, less func(a, b model.BreakdownEntry) bool) []model.BreakdownEntry {
	ranked := make([]model.BreakdownEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
	if len(ranked) > contributorCount {
		ranked = ranked[:contributorCount]
	}
	return ranked
}

// explain renders the largest changes that stand out from the dispersion
func (b *Breakdown) explain(cb model.ColumnBreakdown) []string {
	std, ok := cb.Stats.StdDev.Get()
	if !ok {
		return nil
	}

	var candidates []model.BreakdownEntry
	for _, e := range cb.AllChanges {
		if math.Abs(e.Delta) > std {
			candidates = append(candidates, e)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return math.Abs(candidates[i].Delta) > math.Abs(candidates[j].Delta)
	})
	if len(candidates) > explainedCount {
		candidates = candidates[:explainedCount]
	}

	fragments := make([]string, 0, len(candidates))
	for _, e := range candidates {
		if math.Abs(e.Delta) > b.anomalyThreshold {
			fragments = append(fragments, e.SubCategory+" anomaly detected")
			continue
		}
		impact := "moderate"
		if math.Abs(e.Delta) > 2*std {
			impact = "major"
		}
		direction := "decrease"
		if e.Delta > 0 {
			direction = "increase"
		}
		fragments = append(fragments, fmt.Sprintf("%s %s→%s (%s, %s %s)",
			e.SubCategory, formatAmount(e.Before), formatAmount(e.After),
			formatSigned(e.Delta), impact, direction))
	}
	return fragments
}
