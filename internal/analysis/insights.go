package analysis

import (
	"fmt"
	"math"

	"go-delta-analyzer/internal/model"
)

// Insight sentences
const (
	InsightImproving   = "Overall improving trend: increasing groups outnumber decreasing groups more than 2 to 1"
	InsightWorsening   = "Overall worsening trend: decreasing groups outnumber increasing groups more than 2 to 1"
	InsightBalanced    = "Increases and decreases are balanced, suggesting a structural change"
	InsightHighVar     = "High variability: changes differ markedly across groups"
	InsightStable      = "Stable pattern: changes are relatively uniform across groups"
	InsightSignificant = "Statistically significant change detected (p < 0.05)"
)

const (
	highVariabilityCV = 1.0
	stableCV          = 0.3
)

// GenerateInsights derives the ordered insight statements. Records are
// expected in result order (largest |delta| first).
func GenerateInsights(records []model.DiffRecord, stats model.StatisticalResults) []string {
	insights := []string{}
	if len(records) == 0 {
		return insights
	}

	var positive, negative int
	for _, r := range records {
		switch {
		case r.Delta > 0:
			positive++
		case r.Delta < 0:
			negative++
		}
	}
	switch {
	case positive > negative*2:
		insights = append(insights, InsightImproving)
	case negative > positive*2:
		insights = append(insights, InsightWorsening)
	default:
		insights = append(insights, InsightBalanced)
	}

	if stats.Dispersion.OK() {
		if cv, ok := stats.Dispersion.CoefficientOfVariation.Get(); ok && cv != 0 {
			switch {
			case cv > highVariabilityCV:
				insights = append(insights, InsightHighVar)
			case cv < stableCV:
				insights = append(insights, InsightStable)
			}
		}
	}

	if stats.Tests.OK() && stats.Tests.TTest != nil && stats.Tests.TTest.Significant {
		insights = append(insights, InsightSignificant)
	}

	top := records[0]
	for _, r := range records[1:] {
		if math.Abs(r.Delta) > math.Abs(top.Delta) {
			top = r
		}
	}
	insights = append(insights, fmt.Sprintf("Largest driver: %s (%s)", top.Key, formatSigned(top.Delta)))
	return insights
}
