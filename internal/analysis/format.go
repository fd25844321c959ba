package analysis

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// formatAmount renders v rounded to a whole number for prose
func formatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("%.0f", v)
	}
	return decimal.NewFromFloat(v).StringFixed(0)
}

// formatSigned is formatAmount with an explicit sign
func formatSigned(v float64) string {
	if v < 0 {
		return "-" + formatAmount(math.Abs(v))
	}
	return "+" + formatAmount(v)
}
