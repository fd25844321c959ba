package analysis

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"go-delta-analyzer/internal/model"
)

// Alpha is the significance level of every test in the suite
const Alpha = 0.05

const minTestValues = 3

// RunStatistics computes every statistical sub-analysis over the record
// deltas and the raw datasets. A failing sub-analysis is recorded in its own
// section and never affects the others.
func RunStatistics(records []model.DiffRecord, before, after *model.Dataset, valueCol string) model.StatisticalResults {
	return runStatistics(records, before, after, valueCol, slog.Default())
}

func runStatistics(records []model.DiffRecord, before, after *model.Dataset, valueCol string, log *slog.Logger) model.StatisticalResults {
	deltas := finiteDeltas(records)

	var res model.StatisticalResults
	guard(log, "statistical_tests", &res.Tests.Section, func() error {
		res.Tests = significanceTests(deltas)
		return nil
	})
	guard(log, "descriptive_stats", &res.Descriptive.Section, func() error {
		res.Descriptive = describe(deltas)
		return nil
	})
	guard(log, "variance_analysis", &res.Dispersion.Section, func() error {
		res.Dispersion = dispersion(deltas)
		return nil
	})
	guard(log, "correlation_analysis", &res.Correlation.Section, func() error {
		var err error
		res.Correlation, err = correlationShift(before, after)
		return err
	})
	guard(log, "trend_analysis", &res.Trend.Section, func() error {
		var err error
		res.Trend, err = monthlyTrend(before, after, valueCol)
		return err
	})
	return res
}

// guard runs fn and turns a returned error or a panic into an error marker on s
func guard(log *slog.Logger, name string, s *model.Section, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("statistical sub-analysis panicked", "analysis", name, "panic", r)
			s.Mark(model.StatusError, fmt.Sprint(r))
		}
	}()
	if err := fn(); err != nil {
		log.Warn("statistical sub-analysis failed", "analysis", name, "error", err)
		s.Mark(model.StatusError, err.Error())
	}
}

func finiteDeltas(records []model.DiffRecord) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		if !math.IsNaN(r.Delta) && !math.IsInf(r.Delta, 0) {
			out = append(out, r.Delta)
		}
	}
	return out
}

func insufficient(n, need int) model.Section {
	return model.Section{
		Status:  model.StatusInsufficientData,
		Message: fmt.Sprintf("%d values available, at least %d required", n, need),
	}
}

// ------------------- Tests -------------------

func significanceTests(x []float64) model.TestResults {
	if len(x) < minTestValues {
		return model.TestResults{Section: insufficient(len(x), minTestValues)}
	}

	res := model.TestResults{Section: model.Section{Status: model.StatusOK}}

	w, p, err := ShapiroWilk(x)
	if err != nil {
		res.Mark(model.StatusError, err.Error())
		return res
	}
	res.Normality = &model.NormalityTest{
		Statistic: model.OptOf(w),
		PValue:    model.OptOf(p),
		IsNormal:  p > Alpha,
	}

	tt := OneSampleTTest(x, 0)
	res.TTest = &tt
	return res
}

// OneSampleTTest tests whether the mean of x differs from mu (two-sided).
// Zero-variance samples leave the statistic and p-value undefined.
func OneSampleTTest(x []float64, mu float64) model.TTest {
	n := float64(len(x))
	res := model.TTest{DegreesOfFreedom: len(x) - 1}
	if len(x) < 2 {
		return res
	}
	mean, sd := stat.MeanStdDev(x, nil)
	if sd == 0 || math.IsNaN(sd) {
		return res
	}

	t := (mean - mu) / (sd / math.Sqrt(n))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 1}
	p := math.Min(1, 2*dist.Survival(math.Abs(t)))

	res.Statistic = model.OptOf(t)
	res.PValue = model.OptOf(p)
	res.Significant = res.PValue.Valid && p < Alpha
	return res
}

// ------------------- Descriptive -------------------

func describe(x []float64) model.DescriptiveResult {
	if len(x) == 0 {
		return model.DescriptiveResult{Section: insufficient(0, 1)}
	}
	sorted := slices.Clone(x)
	slices.Sort(sorted)

	res := model.DescriptiveResult{
		Section: model.Section{Status: model.StatusOK},
		Count:   len(x),
		Mean:    stat.Mean(x, nil),
		Std:     stat.PopStdDev(x, nil),
		Median:  percentile(sorted, 50),
	}

	m2 := stat.Moment(2, x, nil)
	if m2 > 0 {
		if len(x) >= 3 {
			res.Skewness = stat.Moment(3, x, nil) / math.Pow(m2, 1.5)
		}
		if len(x) >= 4 {
			res.Kurtosis = stat.Moment(4, x, nil)/(m2*m2) - 3
		}
	}
	return res
}

// ------------------- Dispersion -------------------

func dispersion(x []float64) model.DispersionResult {
	if len(x) == 0 {
		return model.DispersionResult{Section: insufficient(0, 1)}
	}
	sorted := slices.Clone(x)
	slices.Sort(sorted)

	mean, variance := stat.PopMeanVariance(x, nil)
	std := math.Sqrt(variance)

	res := model.DispersionResult{
		Section:      model.Section{Status: model.StatusOK},
		Variance:     variance,
		StdDeviation: std,
		Range:        floats.Max(x) - floats.Min(x),
		IQR:          percentile(sorted, 75) - percentile(sorted, 25),
	}
	if mean != 0 {
		res.CoefficientOfVariation = model.OptOf(std / mean)
	}
	return res
}

// percentile interpolates linearly between closest ranks over sorted data,
// the default method of numpy.percentile
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	pos := p / 100 * float64(n-1)
	lo := int(math.Floor(pos))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
