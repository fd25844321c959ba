package dataset

import (
	"math"
	"slices"
	"unsafe"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"go-delta-analyzer/internal/model"
)

// Info summarises an uploaded dataset for the upload response
type Info struct {
	Columns            []string `json:"columns"`
	NumericColumns     []string `json:"numeric_columns"`
	CategoricalColumns []string `json:"categorical_columns"`
	RowCount           int      `json:"row_count"`
	Quality            Quality  `json:"data_quality"`
}

// Quality is the per-column data quality report
type Quality struct {
	MissingValues     map[string]int              `json:"missing_values"`
	MissingPercentage map[string]float64          `json:"missing_percentage"`
	UniqueCounts      map[string]int              `json:"unique_counts"`
	DataTypes         map[string]model.ColumnType `json:"data_types"`
	NumericSummary    map[string]NumericSummary   `json:"numeric_summary"`
	DuplicatesRemoved int                         `json:"removed_duplicates"`
	MemoryUsageMB     float64                     `json:"memory_usage_mb"`
}

// NumericSummary describes the present values of one numeric column.
// Std is the sample standard deviation.
type NumericSummary struct {
	Count int            `json:"count"`
	Mean  model.OptFloat `json:"mean"`
	Std   model.OptFloat `json:"std"`
	Min   model.OptFloat `json:"min"`
	P25   model.OptFloat `json:"25%"`
	P50   model.OptFloat `json:"50%"`
	P75   model.OptFloat `json:"75%"`
	Max   model.OptFloat `json:"max"`
}

// Describe builds the upload report of ds
func Describe(ds *model.Dataset, duplicatesRemoved int) Info {
	info := Info{
		Columns:            ds.ColumnNames(),
		NumericColumns:     ds.ColumnsOfType(model.ColumnNumeric),
		CategoricalColumns: make([]string, 0),
		RowCount:           ds.Len(),
	}
	for _, c := range ds.Columns {
		if c.Type != model.ColumnNumeric {
			info.CategoricalColumns = append(info.CategoricalColumns, c.Name)
		}
	}
	if info.NumericColumns == nil {
		info.NumericColumns = make([]string, 0)
	}

	q := Quality{
		MissingValues:     make(map[string]int, len(ds.Columns)),
		MissingPercentage: make(map[string]float64, len(ds.Columns)),
		UniqueCounts:      make(map[string]int, len(ds.Columns)),
		DataTypes:         make(map[string]model.ColumnType, len(ds.Columns)),
		NumericSummary:    make(map[string]NumericSummary),
		DuplicatesRemoved: duplicatesRemoved,
		MemoryUsageMB:     round2(float64(memoryUsage(ds)) / (1024 * 1024)),
	}

	for i, col := range ds.Columns {
		missing := 0
		unique := make(map[string]struct{})
		var nums []float64
		for _, row := range ds.Rows {
			v := row[i]
			if v.IsNull() {
				missing++
				continue
			}
			unique[v.Key()] = struct{}{}
			if f, ok := v.Float(); ok {
				nums = append(nums, f)
			}
		}

		q.MissingValues[col.Name] = missing
		if ds.Len() > 0 {
			q.MissingPercentage[col.Name] = round2(float64(missing) / float64(ds.Len()) * 100)
		}
		q.UniqueCounts[col.Name] = len(unique)
		q.DataTypes[col.Name] = col.Type
		if col.Type == model.ColumnNumeric {
			q.NumericSummary[col.Name] = summarize(nums)
		}
	}

	info.Quality = q
	return info
}

func summarize(x []float64) NumericSummary {
	s := NumericSummary{Count: len(x)}
	if len(x) == 0 {
		return s
	}
	sorted := slices.Clone(x)
	slices.Sort(sorted)

	s.Mean = model.OptOf(stat.Mean(x, nil))
	if len(x) > 1 {
		s.Std = model.OptOf(stat.StdDev(x, nil))
	}
	s.Min = model.Some(floats.Min(x))
	s.Max = model.Some(floats.Max(x))
	s.P25 = model.OptOf(stat.Quantile(0.25, stat.LinInterp, sorted, nil))
	s.P50 = model.OptOf(stat.Quantile(0.5, stat.LinInterp, sorted, nil))
	s.P75 = model.OptOf(stat.Quantile(0.75, stat.LinInterp, sorted, nil))
	return s
}

// memoryUsage approximates the bytes held by the dataset's rows
func memoryUsage(ds *model.Dataset) int {
	cell := int(unsafe.Sizeof(model.Value{}))
	rowHeader := int(unsafe.Sizeof([]model.Value{}))
	total := 0
	for _, row := range ds.Rows {
		total += rowHeader + len(row)*cell
		for _, v := range row {
			total += len(v.Str)
		}
	}
	return total
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
