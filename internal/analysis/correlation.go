package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"go-delta-analyzer/internal/model"
)

// correlationShift compares Pearson correlation matrices of the numeric
// columns of before against the same columns in after
func correlationShift(before, after *model.Dataset) (model.CorrelationResult, error) {
	cols := before.ColumnsOfType(model.ColumnNumeric)
	if len(cols) < 2 {
		return model.CorrelationResult{Section: model.Section{
			Status:  model.StatusSkipped,
			Message: "fewer than two numeric columns",
		}}, nil
	}
	for _, c := range cols {
		col, ok := after.Column(c)
		if !ok {
			return model.CorrelationResult{}, &ColumnNotFoundError{Column: c, Dataset: after.Name}
		}
		if col.Type != model.ColumnNumeric {
			return model.CorrelationResult{}, fmt.Errorf("column %q is %s in %s dataset, numeric required", c, col.Type, after.Name)
		}
	}

	bm := CorrelationMatrix(before, cols)
	am := CorrelationMatrix(after, cols)
	changes := make(model.CorrelationMatrix, len(cols))
	for _, ci := range cols {
		changes[ci] = make(map[string]model.OptFloat, len(cols))
		for _, cj := range cols {
			b, a := bm[ci][cj], am[ci][cj]
			if b.Valid && a.Valid {
				changes[ci][cj] = model.OptOf(a.Value - b.Value)
			} else {
				changes[ci][cj] = model.None()
			}
		}
	}

	return model.CorrelationResult{
		Section: model.Section{Status: model.StatusOK},
		Columns: cols,
		Before:  bm,
		After:   am,
		Changes: changes,
	}, nil
}

// CorrelationMatrix computes pairwise Pearson correlations using, for each
// pair, only rows where both values are present. Pairs with fewer than two
// such rows or zero variance are undefined.
func CorrelationMatrix(ds *model.Dataset, cols []string) model.CorrelationMatrix {
	idx := make([]int, len(cols))
	for i, c := range cols {
		idx[i] = ds.ColumnIndex(c)
	}

	m := make(model.CorrelationMatrix, len(cols))
	for _, c := range cols {
		m[c] = make(map[string]model.OptFloat, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := pairwiseCorrelation(ds.Rows, idx[i], idx[j])
			if i == j && r.Valid {
				r = model.Some(1)
			}
			m[cols[i]][cols[j]] = r
			m[cols[j]][cols[i]] = r
		}
	}
	return m
}

func pairwiseCorrelation(rows [][]model.Value, xi, yi int) model.OptFloat {
	if xi < 0 || yi < 0 {
		return model.None()
	}
	var xs, ys []float64
	for _, row := range rows {
		x, xok := row[xi].Float()
		y, yok := row[yi].Float()
		if xok && yok {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return model.None()
	}
	return model.OptOf(stat.Correlation(xs, ys, nil))
}
