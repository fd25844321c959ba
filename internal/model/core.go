package model

import (
	"errors"
	"fmt"

	"go-delta-analyzer/pkg/utils"
)

// AggregationMethod reduces the value column of one group to a number
type AggregationMethod string

const (
	AggSum   AggregationMethod = "sum"
	AggMean  AggregationMethod = "mean"
	AggCount AggregationMethod = "count"
)

// Valid reports whether m is one of the supported methods
func (m AggregationMethod) Valid() bool {
	switch m {
	case AggSum, AggMean, AggCount:
		return true
	}
	return false
}

// NeedsNumeric reports whether the method reads numeric cell content
func (m AggregationMethod) NeedsNumeric() bool {
	return m == AggSum || m == AggMean
}

// Recognised keys of AnalysisRequest.Options
const (
	OptionAnomalyThreshold = "anomaly_threshold"
)

// AnalysisRequest is the body for POST /api/v1/analyze
type AnalysisRequest struct {
	GroupBy     string            `json:"group_by_col"`
	ValueColumn string            `json:"value_col"`
	Aggregation AggregationMethod `json:"agg_method"`
	Breakdowns  []string          `json:"breakdown_cols"`
	Options     map[string]any    `json:"advanced_options,omitempty"`
}

// ErrInvalidRequest marks a malformed analysis request
var ErrInvalidRequest = errors.New("invalid request")

// Validate checks the request shape; column existence is checked against the datasets later
func (r AnalysisRequest) Validate() error {
	if r.GroupBy == "" {
		return fmt.Errorf("%w: group_by_col is required", ErrInvalidRequest)
	}
	if r.ValueColumn == "" {
		return fmt.Errorf("%w: value_col is required", ErrInvalidRequest)
	}
	return nil
}

// FloatOption reads a numeric option. Unknown keys and non-numeric values yield ok=false.
func (r AnalysisRequest) FloatOption(key string) (float64, bool) {
	raw, ok := r.Options[key]
	if !ok {
		return 0, false
	}
	return utils.Numeric(raw)
}
