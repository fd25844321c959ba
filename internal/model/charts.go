package model

// Chart colors by sign of the delta
const (
	ColorIncrease = "#2E86AB"
	ColorDecrease = "#A23B72"
)

// BarChart is the per-group difference series
type BarChart struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors"`
}

// ScatterChart plots delta (x) against percent delta (y)
type ScatterChart struct {
	XValues []float64 `json:"x_values"`
	YValues []float64 `json:"y_values"`
	Labels  []string  `json:"labels"`
}

// Histogram has len(Bins) == len(Frequencies)+1 bucket edges
type Histogram struct {
	Bins        []float64 `json:"bins"`
	Frequencies []int     `json:"frequencies"`
	Message     string    `json:"message,omitempty"`
}

type TrendChart struct {
	Before []TrendPoint `json:"before_trend"`
	After  []TrendPoint `json:"after_trend"`
}

// Charts is the chart projection bundle; optional charts are nil when not applicable
type Charts struct {
	Difference BarChart      `json:"difference_chart"`
	Scatter    *ScatterChart `json:"scatter_chart,omitempty"`
	Histogram  Histogram     `json:"histogram"`
	Trend      *TrendChart   `json:"trend_chart,omitempty"`
}
