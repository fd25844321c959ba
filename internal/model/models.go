package model

import "time"

// Significance labels, ordered by severity
const (
	SignificanceNew        = "new"
	SignificanceVanished   = "vanished"
	SignificanceExtreme    = "extreme"
	SignificanceLarge      = "large"
	SignificanceMedium     = "medium"
	SignificanceSmall      = "small"
	SignificanceNegligible = "negligible"
)

// DiffRecord is the before/after comparison of one group key
type DiffRecord struct {
	Key           string                     `json:"key"`
	Before        float64                    `json:"before"`
	After         float64                    `json:"after"`
	Delta         float64                    `json:"delta"`
	PercentDelta  OptFloat                   `json:"percent_delta"`
	Significance  string                     `json:"significance"`
	Reason        string                     `json:"reason"`
	BreakdownData map[string]ColumnBreakdown `json:"breakdown_data"`
}

// BreakdownEntry is the change of one sub-category inside a group
type BreakdownEntry struct {
	SubCategory string  `json:"sub_category"`
	Before      float64 `json:"before"`
	After       float64 `json:"after"`
	Delta       float64 `json:"delta"`
}

// BreakdownStats describes the dispersion of sub-category deltas
type BreakdownStats struct {
	TotalItems    int      `json:"total_items"`
	PositiveItems int      `json:"positive_items"`
	NegativeItems int      `json:"negative_items"`
	ZeroItems     int      `json:"zero_items"`
	StdDev        OptFloat `json:"std_dev"`
	Variance      OptFloat `json:"variance"`
}

// ColumnBreakdown is the structured result for one breakdown column of one group
type ColumnBreakdown struct {
	Stats              BreakdownStats   `json:"stats"`
	TopContributors    []BreakdownEntry `json:"top_contributors"`
	BottomContributors []BreakdownEntry `json:"bottom_contributors"`
	AllChanges         []BreakdownEntry `json:"all_changes"`
}

// Summary aggregates the diff records of one analysis
type Summary struct {
	TotalGroups     int       `json:"total_items"`
	PositiveChanges int       `json:"positive_changes"`
	NegativeChanges int       `json:"negative_changes"`
	TotalIncrease   float64   `json:"total_increase"`
	TotalDecrease   float64   `json:"total_decrease"`
	NetChange       float64   `json:"net_change"`
	Timestamp       time.Time `json:"analysis_timestamp"`
}

// Performance reports how long an analysis took and how much it read
type Performance struct {
	ElapsedSeconds float64 `json:"processing_time_seconds"`
	RowsAnalyzed   int     `json:"rows_analyzed"`
	AnalysisType   string  `json:"analysis_type"`
}

// AnalysisResult is everything one analysis call returns
type AnalysisResult struct {
	Summary     Summary            `json:"summary"`
	Records     []DiffRecord       `json:"detailed_results"`
	Charts      Charts             `json:"charts_data"`
	Insights    []string           `json:"insights"`
	Statistics  StatisticalResults `json:"statistics"`
	Performance Performance        `json:"performance_metrics"`
}
