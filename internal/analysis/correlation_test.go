package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-delta-analyzer/internal/model"
)

func metricsDataset(name string, rows ...[3]model.Value) *model.Dataset {
	ds := model.NewDataset(name,
		model.Column{Name: "price", Type: model.ColumnNumeric},
		model.Column{Name: "units", Type: model.ColumnNumeric},
		model.Column{Name: "flat", Type: model.ColumnNumeric},
	)
	for _, r := range rows {
		ds.Append(r[0], r[1], r[2])
	}
	return ds
}

func num(f float64) model.Value { return model.Number(f) }

func TestCorrelationMatrix(t *testing.T) {
	ds := metricsDataset("before",
		[3]model.Value{num(1), num(2), num(5)},
		[3]model.Value{num(2), num(4), num(5)},
		[3]model.Value{num(3), num(6), num(5)},
		[3]model.Value{model.Null(), num(100), num(5)},
	)

	m := CorrelationMatrix(ds, []string{"price", "units", "flat"})

	assert.InDelta(t, 1.0, m["price"]["units"].Value, 1e-12)
	assert.Equal(t, m["price"]["units"], m["units"]["price"])
	assert.Equal(t, model.Some(1), m["price"]["price"])
	assert.False(t, m["flat"]["price"].Valid, "zero variance is undefined")
	assert.False(t, m["flat"]["flat"].Valid)
}

func TestCorrelationShift(t *testing.T) {
	before := metricsDataset("before",
		[3]model.Value{num(1), num(2), num(1)},
		[3]model.Value{num(2), num(4), num(2)},
		[3]model.Value{num(3), num(6), num(3)},
	)
	after := metricsDataset("after",
		[3]model.Value{num(1), num(6), num(1)},
		[3]model.Value{num(2), num(4), num(2)},
		[3]model.Value{num(3), num(2), num(3)},
	)

	t.Run("change is after minus before", func(t *testing.T) {
		res, err := correlationShift(before, after)

		require.NoError(t, err)
		assert.True(t, res.OK())
		assert.Equal(t, []string{"price", "units", "flat"}, res.Columns)
		assert.InDelta(t, -2.0, res.Changes["price"]["units"].Value, 1e-12)
		assert.InDelta(t, 0.0, res.Changes["price"]["flat"].Value, 1e-12)
	})

	t.Run("column missing in after", func(t *testing.T) {
		narrow := model.NewDataset("after", model.Column{Name: "price", Type: model.ColumnNumeric})

		_, err := correlationShift(before, narrow)

		assert.Error(t, err)
	})

	t.Run("fewer than two numeric columns", func(t *testing.T) {
		res, err := correlationShift(salesDataset("before"), salesDataset("after"))

		require.NoError(t, err)
		assert.Equal(t, model.StatusSkipped, res.Status)
	})
}

func TestRunStatisticsCorrelationErrorIsScoped(t *testing.T) {
	before := metricsDataset("before",
		[3]model.Value{num(1), num(2), num(1)},
		[3]model.Value{num(2), num(5), num(2)},
	)
	after := model.NewDataset("after", model.Column{Name: "price", Type: model.ColumnText})

	res := runStatistics(deltaRecords(1, 2, 4), before, after, "price", testLogger())

	assert.Equal(t, model.StatusError, res.Correlation.Status)
	assert.NotEmpty(t, res.Correlation.Message)
	assert.True(t, res.Tests.OK())
	assert.True(t, res.Dispersion.OK())
}
