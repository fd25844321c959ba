package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-delta-analyzer/internal/model"
)

func TestDiff(t *testing.T) {
	before := map[string]float64{"A": 100, "B": 50, "C": 0, "D": 40}
	after := map[string]float64{"A": 150, "B": 50, "C": 10, "E": 20}

	records := Diff(before, after)

	t.Run("one record per key in the union", func(t *testing.T) {
		require.Len(t, records, 5)
		seen := map[string]bool{}
		for _, r := range records {
			assert.False(t, seen[r.Key], "duplicate key %s", r.Key)
			seen[r.Key] = true
		}
	})

	t.Run("delta is after minus before with missing side as zero", func(t *testing.T) {
		for _, r := range records {
			assert.Equal(t, after[r.Key]-before[r.Key], r.Delta, r.Key)
			assert.Equal(t, before[r.Key], r.Before, r.Key)
			assert.Equal(t, after[r.Key], r.After, r.Key)
		}
	})

	t.Run("percent delta undefined iff before is zero", func(t *testing.T) {
		for _, r := range records {
			pct, ok := r.PercentDelta.Get()
			if r.Before == 0 {
				assert.False(t, ok, r.Key)
				continue
			}
			require.True(t, ok, r.Key)
			assert.InDelta(t, r.Delta/r.Before*100, pct, 1e-9, r.Key)
		}
	})

	t.Run("ordered by absolute delta", func(t *testing.T) {
		keys := make([]string, len(records))
		for i, r := range records {
			keys[i] = r.Key
		}
		assert.Equal(t, []string{"A", "D", "E", "C", "B"}, keys)
	})
}

func TestDiffTiesKeepNaturalKeyOrder(t *testing.T) {
	before := map[string]float64{}
	after := map[string]float64{"b": 5, "a": 5, "10": -5, "9": 1}

	records := Diff(before, after)

	keys := make([]string, len(records))
	for i, r := range records {
		keys[i] = r.Key
	}
	assert.Equal(t, []string{"10", "a", "b", "9"}, keys)
}

func TestDiffOrdersUndefinedDeltasLast(t *testing.T) {
	before := map[string]float64{"A": math.Inf(1), "B": 1, "C": 0}
	after := map[string]float64{"A": math.Inf(1), "B": 3, "C": math.Inf(1)}

	records := Diff(before, after)

	keys := make([]string, len(records))
	for i, r := range records {
		keys[i] = r.Key
	}
	assert.Equal(t, []string{"C", "B", "A"}, keys)
	assert.True(t, math.IsNaN(records[2].Delta))
	assert.False(t, records[2].PercentDelta.Valid)
}

func TestClassifySignificance(t *testing.T) {
	tests := []struct {
		name     string
		delta    float64
		baseline float64
		want     string
	}{
		{"growth from zero", 5, 0, model.SignificanceNew},
		{"no change from zero", 0, 0, model.SignificanceVanished},
		{"drop from zero", -3, 0, model.SignificanceVanished},
		{"doubled", 100, 100, model.SignificanceExtreme},
		{"half is large", 50, 100, model.SignificanceLarge},
		{"negative half is large", -50, 100, model.SignificanceLarge},
		{"negative baseline", 10, -20, model.SignificanceLarge},
		{"just under half", 49, 100, model.SignificanceMedium},
		{"fifth is medium", 20, 100, model.SignificanceMedium},
		{"twentieth is small", 5, 100, model.SignificanceSmall},
		{"below twentieth", 4, 100, model.SignificanceNegligible},
		{"unchanged", 0, 50, model.SignificanceNegligible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySignificance(tt.delta, tt.baseline))
			assert.Equal(t, tt.want, ClassifySignificance(tt.delta, tt.baseline), "must be deterministic")
		})
	}
}
