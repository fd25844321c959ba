package analysis

import (
	"fmt"
	"slices"

	"go-delta-analyzer/internal/model"
)

// Aggregate reduces the value column of ds per distinct group key.
// Rows with a null group key are skipped. Null values are ignored by sum and
// mean; count counts rows regardless of value content. A group whose values
// are all null averages to 0.
func Aggregate(ds *model.Dataset, groupCol, valueCol string, method model.AggregationMethod) (map[string]float64, error) {
	gi, vi, err := resolveColumns(ds, groupCol, valueCol, method)
	if err != nil {
		return nil, err
	}
	return reduceRows(ds.Rows, gi, vi, method), nil
}

// resolveColumns validates that both columns exist and that the value column
// fits the aggregation method
func resolveColumns(ds *model.Dataset, groupCol, valueCol string, method model.AggregationMethod) (int, int, error) {
	if !method.Valid() {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnsupportedAggregation, method)
	}
	gi := ds.ColumnIndex(groupCol)
	if gi < 0 {
		return 0, 0, &ColumnNotFoundError{Column: groupCol, Dataset: ds.Name}
	}
	vi := ds.ColumnIndex(valueCol)
	if vi < 0 {
		return 0, 0, &ColumnNotFoundError{Column: valueCol, Dataset: ds.Name}
	}
	if method.NeedsNumeric() && ds.Columns[vi].Type != model.ColumnNumeric {
		return 0, 0, &ColumnTypeError{Column: valueCol, Dataset: ds.Name, Type: string(ds.Columns[vi].Type)}
	}
	return gi, vi, nil
}

type accumulator struct {
	sum   float64
	count int // non-null values
	rows  int
}

func reduceRows(rows [][]model.Value, keyIdx, valIdx int, method model.AggregationMethod) map[string]float64 {
	acc := make(map[string]*accumulator)
	for _, row := range rows {
		k := row[keyIdx]
		if k.IsNull() {
			continue
		}
		a, ok := acc[k.Key()]
		if !ok {
			a = &accumulator{}
			acc[k.Key()] = a
		}
		a.rows++
		if f, ok := row[valIdx].Float(); ok {
			a.sum += f
			a.count++
		}
	}

	out := make(map[string]float64, len(acc))
	for key, a := range acc {
		switch method {
		case model.AggSum:
			out[key] = a.sum
		case model.AggMean:
			if a.count > 0 {
				out[key] = a.sum / float64(a.count)
			} else {
				out[key] = 0
			}
		case model.AggCount:
			out[key] = float64(a.rows)
		}
	}
	return out
}

// partitionRows groups row slices by the canonical key of one column
func partitionRows(ds *model.Dataset, keyIdx int) map[string][][]model.Value {
	parts := make(map[string][][]model.Value)
	for _, row := range ds.Rows {
		if row[keyIdx].IsNull() {
			continue
		}
		k := row[keyIdx].Key()
		parts[k] = append(parts[k], row)
	}
	return parts
}

// unionKeys returns every key of a and b in natural key order
func unionKeys(a, b map[string]float64) []string {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, model.CompareKeys)
	return keys
}
