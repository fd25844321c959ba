package analysis

import (
	"math"
	"sort"

	"go-delta-analyzer/internal/model"
)

// Diff joins two aggregates on their union of keys. A key missing on one side
// counts as 0 there. Records come back ordered by |delta| descending; equal
// magnitudes keep natural key order.
func Diff(before, after map[string]float64) []model.DiffRecord {
	keys := unionKeys(before, after)
	records := make([]model.DiffRecord, 0, len(keys))
	for _, k := range keys {
		b := before[k]
		a := after[k]
		delta := a - b

		pct := model.None()
		if b != 0 {
			pct = model.OptOf(delta / b * 100)
		}
		records = append(records, model.DiffRecord{
			Key:          k,
			Before:       b,
			After:        a,
			Delta:        delta,
			PercentDelta: pct,
		})
	}

	// NaN deltas sort last
	sort.SliceStable(records, func(i, j int) bool {
		a, b := math.Abs(records[i].Delta), math.Abs(records[j].Delta)
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		return a > b
	})
	return records
}

// ClassifySignificance labels a change relative to its baseline.
// A zero baseline yields "new" for growth and "vanished" otherwise.
func ClassifySignificance(delta, baseline float64) string {
	if baseline == 0 {
		if delta > 0 {
			return model.SignificanceNew
		}
		return model.SignificanceVanished
	}

	rate := math.Abs(delta / baseline)
	switch {
	case rate >= 1.0:
		return model.SignificanceExtreme
	case rate >= 0.5:
		return model.SignificanceLarge
	case rate >= 0.2:
		return model.SignificanceMedium
	case rate >= 0.05:
		return model.SignificanceSmall
	default:
		return model.SignificanceNegligible
	}
}
