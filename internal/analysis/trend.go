package analysis

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"go-delta-analyzer/internal/model"
)

const (
	periodLayout      = "2006-01"
	dateSampleValues  = 5
	seasonalityMonths = 12
)

// monthlyTrend totals the value column per calendar month on both sides.
// Date text is parsed into new values; the datasets are not modified.
func monthlyTrend(before, after *model.Dataset, valueCol string) (model.TrendResult, error) {
	dateCol := DetectDateColumn(before)
	if dateCol == "" {
		return model.TrendResult{Section: model.Section{
			Status:  model.StatusSkipped,
			Message: "no date column",
		}}, nil
	}

	res := model.TrendResult{DateColumn: dateCol}
	bt, err := monthlyTotals(before, dateCol, valueCol)
	if err != nil {
		return res, err
	}
	at, err := monthlyTotals(after, dateCol, valueCol)
	if err != nil {
		return res, err
	}

	res.Section = model.Section{Status: model.StatusOK}
	res.Before = bt
	res.After = at
	res.SeasonalityDetected = len(bt) >= seasonalityMonths
	return res, nil
}

// DetectDateColumn returns the first date-typed column, or else the first
// column named like a date or time whose leading values parse as dates.
// It returns "" when there is none.
func DetectDateColumn(ds *model.Dataset) string {
	if cols := ds.ColumnsOfType(model.ColumnDate); len(cols) > 0 {
		return cols[0]
	}
	for i, c := range ds.Columns {
		name := strings.ToLower(c.Name)
		if !strings.Contains(name, "date") && !strings.Contains(name, "time") {
			continue
		}
		if leadingDates(ds.Rows, i) {
			return c.Name
		}
	}
	return ""
}

// leadingDates reports whether the first non-null values of col all parse
// as dates, looking at no more than dateSampleValues of them.
func leadingDates(rows [][]model.Value, col int) bool {
	seen := 0
	for _, row := range rows {
		if seen == dateSampleValues {
			break
		}
		if row[col].IsNull() {
			continue
		}
		if _, _, err := asTime(row[col]); err != nil {
			return false
		}
		seen++
	}
	return seen > 0
}

func monthlyTotals(ds *model.Dataset, dateCol, valueCol string) ([]model.TrendPoint, error) {
	di := ds.ColumnIndex(dateCol)
	if di < 0 {
		return nil, &ColumnNotFoundError{Column: dateCol, Dataset: ds.Name}
	}
	vi := ds.ColumnIndex(valueCol)
	if vi < 0 {
		return nil, &ColumnNotFoundError{Column: valueCol, Dataset: ds.Name}
	}
	if ds.Columns[vi].Type != model.ColumnNumeric {
		return nil, &ColumnTypeError{Column: valueCol, Dataset: ds.Name, Type: string(ds.Columns[vi].Type)}
	}

	totals := make(map[string]float64)
	for _, row := range ds.Rows {
		t, ok, err := asTime(row[di])
		if err != nil {
			return nil, fmt.Errorf("%s dataset, column %q: %w", ds.Name, dateCol, err)
		}
		if !ok {
			continue
		}
		period := t.Format(periodLayout)
		v, _ := row[vi].Float()
		totals[period] += v
	}

	periods := make([]string, 0, len(totals))
	for p := range totals {
		periods = append(periods, p)
	}
	slices.Sort(periods)

	points := make([]model.TrendPoint, len(periods))
	for i, p := range periods {
		points[i] = model.TrendPoint{Period: p, Value: totals[p]}
	}
	return points, nil
}

// asTime coerces a cell to a time; null cells report ok=false without error
func asTime(v model.Value) (time.Time, bool, error) {
	switch v.Kind {
	case model.KindNull:
		return time.Time{}, false, nil
	case model.KindDate:
		return v.Time, true, nil
	case model.KindText:
		if t, ok := model.ParseDate(v.Str); ok {
			return t, true, nil
		}
		return time.Time{}, false, fmt.Errorf("cannot parse %q as a date", v.Str)
	default:
		return time.Time{}, false, fmt.Errorf("cannot use %s as a date", v.Key())
	}
}
