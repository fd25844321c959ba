package model

// SectionStatus tells whether a statistical sub-analysis produced a value
type SectionStatus string

const (
	StatusOK               SectionStatus = "ok"
	StatusInsufficientData SectionStatus = "insufficient_data"
	StatusSkipped          SectionStatus = "skipped"
	StatusError            SectionStatus = "error"
)

// Section carries the outcome marker shared by every sub-analysis
type Section struct {
	Status  SectionStatus `json:"status"`
	Message string        `json:"message,omitempty"`
}

func (s Section) OK() bool { return s.Status == StatusOK }

// Mark sets a non-ok status with an explanation
func (s *Section) Mark(status SectionStatus, msg string) {
	s.Status = status
	s.Message = msg
}

type NormalityTest struct {
	Statistic OptFloat `json:"statistic"`
	PValue    OptFloat `json:"p_value"`
	IsNormal  bool     `json:"is_normal"`
}

type TTest struct {
	Statistic        OptFloat `json:"statistic"`
	PValue           OptFloat `json:"p_value"`
	DegreesOfFreedom int      `json:"degrees_of_freedom"`
	Significant      bool     `json:"significant"`
}

// TestResults holds the normality and mean-shift tests over the deltas
type TestResults struct {
	Section
	Normality *NormalityTest `json:"normality_test,omitempty"`
	TTest     *TTest         `json:"t_test,omitempty"`
}

type DescriptiveResult struct {
	Section
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Median   float64 `json:"median"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

type DispersionResult struct {
	Section
	Variance               float64  `json:"variance"`
	StdDeviation           float64  `json:"std_deviation"`
	CoefficientOfVariation OptFloat `json:"coefficient_of_variation"`
	Range                  float64  `json:"range"`
	IQR                    float64  `json:"iqr"`
}

// CorrelationMatrix is indexed [column][column]
type CorrelationMatrix map[string]map[string]OptFloat

type CorrelationResult struct {
	Section
	Columns []string          `json:"columns,omitempty"`
	Before  CorrelationMatrix `json:"before_correlations,omitempty"`
	After   CorrelationMatrix `json:"after_correlations,omitempty"`
	Changes CorrelationMatrix `json:"correlation_changes,omitempty"`
}

// TrendPoint is the value total of one calendar month ("2006-01")
type TrendPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

type TrendResult struct {
	Section
	DateColumn          string       `json:"date_column,omitempty"`
	Before              []TrendPoint `json:"before_trend,omitempty"`
	After               []TrendPoint `json:"after_trend,omitempty"`
	SeasonalityDetected bool         `json:"seasonality_detected"`
}

// StatisticalResults bundles every sub-analysis of the statistical suite.
// Each section fails independently.
type StatisticalResults struct {
	Tests       TestResults       `json:"statistical_tests"`
	Descriptive DescriptiveResult `json:"descriptive_stats"`
	Dispersion  DispersionResult  `json:"variance_analysis"`
	Correlation CorrelationResult `json:"correlation_analysis"`
	Trend       TrendResult       `json:"trend_analysis"`
}
