package model

import (
	"encoding/json"
	"math"
)

// Sums and deltas of extreme inputs can overflow to ±Inf or turn NaN, which
// encoding/json rejects. The types below marshal such floats as null and
// read null back as NaN.

func optSlice(xs []float64) []OptFloat {
	if xs == nil {
		return nil
	}
	out := make([]OptFloat, len(xs))
	for i, x := range xs {
		out[i] = OptOf(x)
	}
	return out
}

func floatSlice(os []OptFloat) []float64 {
	if os == nil {
		return nil
	}
	out := make([]float64, len(os))
	for i, o := range os {
		out[i] = o.Or(math.NaN())
	}
	return out
}

// ------------------- DiffRecord -------------------

type diffRecordAlias DiffRecord

func (r DiffRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		diffRecordAlias
		Before OptFloat `json:"before"`
		After  OptFloat `json:"after"`
		Delta  OptFloat `json:"delta"`
	}{diffRecordAlias(r), OptOf(r.Before), OptOf(r.After), OptOf(r.Delta)})
}

func (r *DiffRecord) UnmarshalJSON(b []byte) error {
	aux := struct {
		*diffRecordAlias
		Before OptFloat `json:"before"`
		After  OptFloat `json:"after"`
		Delta  OptFloat `json:"delta"`
	}{diffRecordAlias: (*diffRecordAlias)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.Before = aux.Before.Or(math.NaN())
	r.After = aux.After.Or(math.NaN())
	r.Delta = aux.Delta.Or(math.NaN())
	return nil
}

// ------------------- BreakdownEntry -------------------

type breakdownEntryAlias BreakdownEntry

func (e BreakdownEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		breakdownEntryAlias
		Before OptFloat `json:"before"`
		After  OptFloat `json:"after"`
		Delta  OptFloat `json:"delta"`
	}{breakdownEntryAlias(e), OptOf(e.Before), OptOf(e.After), OptOf(e.Delta)})
}

func (e *BreakdownEntry) UnmarshalJSON(b []byte) error {
	aux := struct {
		*breakdownEntryAlias
		Before OptFloat `json:"before"`
		After  OptFloat `json:"after"`
		Delta  OptFloat `json:"delta"`
	}{breakdownEntryAlias: (*breakdownEntryAlias)(e)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	e.Before = aux.Before.Or(math.NaN())
	e.After = aux.After.Or(math.NaN())
	e.Delta = aux.Delta.Or(math.NaN())
	return nil
}

// ------------------- Summary -------------------

type summaryAlias Summary

func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		summaryAlias
		TotalIncrease OptFloat `json:"total_increase"`
		TotalDecrease OptFloat `json:"total_decrease"`
		NetChange     OptFloat `json:"net_change"`
	}{summaryAlias(s), OptOf(s.TotalIncrease), OptOf(s.TotalDecrease), OptOf(s.NetChange)})
}

func (s *Summary) UnmarshalJSON(b []byte) error {
	aux := struct {
		*summaryAlias
		TotalIncrease OptFloat `json:"total_increase"`
		TotalDecrease OptFloat `json:"total_decrease"`
		NetChange     OptFloat `json:"net_change"`
	}{summaryAlias: (*summaryAlias)(s)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	s.TotalIncrease = aux.TotalIncrease.Or(math.NaN())
	s.TotalDecrease = aux.TotalDecrease.Or(math.NaN())
	s.NetChange = aux.NetChange.Or(math.NaN())
	return nil
}

// ------------------- Charts -------------------

type barChartAlias BarChart

func (c BarChart) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		barChartAlias
		Values []OptFloat `json:"values"`
	}{barChartAlias(c), optSlice(c.Values)})
}

func (c *BarChart) UnmarshalJSON(b []byte) error {
	aux := struct {
		*barChartAlias
		Values []OptFloat `json:"values"`
	}{barChartAlias: (*barChartAlias)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	c.Values = floatSlice(aux.Values)
	return nil
}

type scatterChartAlias ScatterChart

func (c ScatterChart) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		scatterChartAlias
		XValues []OptFloat `json:"x_values"`
		YValues []OptFloat `json:"y_values"`
	}{scatterChartAlias(c), optSlice(c.XValues), optSlice(c.YValues)})
}

func (c *ScatterChart) UnmarshalJSON(b []byte) error {
	aux := struct {
		*scatterChartAlias
		XValues []OptFloat `json:"x_values"`
		YValues []OptFloat `json:"y_values"`
	}{scatterChartAlias: (*scatterChartAlias)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	c.XValues = floatSlice(aux.XValues)
	c.YValues = floatSlice(aux.YValues)
	return nil
}

type histogramAlias Histogram

func (h Histogram) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		histogramAlias
		Bins []OptFloat `json:"bins"`
	}{histogramAlias(h), optSlice(h.Bins)})
}

func (h *Histogram) UnmarshalJSON(b []byte) error {
	aux := struct {
		*histogramAlias
		Bins []OptFloat `json:"bins"`
	}{histogramAlias: (*histogramAlias)(h)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	h.Bins = floatSlice(aux.Bins)
	return nil
}

type trendPointAlias TrendPoint

func (p TrendPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		trendPointAlias
		Value OptFloat `json:"value"`
	}{trendPointAlias(p), OptOf(p.Value)})
}

func (p *TrendPoint) UnmarshalJSON(b []byte) error {
	aux := struct {
		*trendPointAlias
		Value OptFloat `json:"value"`
	}{trendPointAlias: (*trendPointAlias)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	p.Value = aux.Value.Or(math.NaN())
	return nil
}

// ------------------- Statistics -------------------

type descriptiveAlias DescriptiveResult

func (d DescriptiveResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		descriptiveAlias
		Mean     OptFloat `json:"mean"`
		Std      OptFloat `json:"std"`
		Median   OptFloat `json:"median"`
		Skewness OptFloat `json:"skewness"`
		Kurtosis OptFloat `json:"kurtosis"`
	}{descriptiveAlias(d), OptOf(d.Mean), OptOf(d.Std), OptOf(d.Median), OptOf(d.Skewness), OptOf(d.Kurtosis)})
}

func (d *DescriptiveResult) UnmarshalJSON(b []byte) error {
	aux := struct {
		*descriptiveAlias
		Mean     OptFloat `json:"mean"`
		Std      OptFloat `json:"std"`
		Median   OptFloat `json:"median"`
		Skewness OptFloat `json:"skewness"`
		Kurtosis OptFloat `json:"kurtosis"`
	}{descriptiveAlias: (*descriptiveAlias)(d)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	d.Mean = aux.Mean.Or(math.NaN())
	d.Std = aux.Std.Or(math.NaN())
	d.Median = aux.Median.Or(math.NaN())
	d.Skewness = aux.Skewness.Or(math.NaN())
	d.Kurtosis = aux.Kurtosis.Or(math.NaN())
	return nil
}

type dispersionAlias DispersionResult

func (d DispersionResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		dispersionAlias
		Variance     OptFloat `json:"variance"`
		StdDeviation OptFloat `json:"std_deviation"`
		Range        OptFloat `json:"range"`
		IQR          OptFloat `json:"iqr"`
	}{dispersionAlias(d), OptOf(d.Variance), OptOf(d.StdDeviation), OptOf(d.Range), OptOf(d.IQR)})
}

func (d *DispersionResult) UnmarshalJSON(b []byte) error {
	aux := struct {
		*dispersionAlias
		Variance     OptFloat `json:"variance"`
		StdDeviation OptFloat `json:"std_deviation"`
		Range        OptFloat `json:"range"`
		IQR          OptFloat `json:"iqr"`
	}{dispersionAlias: (*dispersionAlias)(d)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	d.Variance = aux.Variance.Or(math.NaN())
	d.StdDeviation = aux.StdDeviation.Or(math.NaN())
	d.Range = aux.Range.Or(math.NaN())
	d.IQR = aux.IQR.Or(math.NaN())
	return nil
}
