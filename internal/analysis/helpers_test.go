package analysis

import (
	"io"
	"log/slog"
	"time"

	"go-delta-analyzer/internal/model"
)

type saleRow struct {
	region  string
	product string
	amount  float64
}

func salesDataset(name string, rows ...saleRow) *model.Dataset {
	ds := model.NewDataset(name,
		model.Column{Name: "region", Type: model.ColumnText},
		model.Column{Name: "product", Type: model.ColumnText},
		model.Column{Name: "amount", Type: model.ColumnNumeric},
	)
	for _, r := range rows {
		ds.Append(model.Text(r.region), model.Text(r.product), model.Number(r.amount))
	}
	return ds
}

func sumRequest(breakdowns ...string) model.AnalysisRequest {
	return model.AnalysisRequest{
		GroupBy:     "region",
		ValueColumn: "amount",
		Aggregation: model.AggSum,
		Breakdowns:  breakdowns,
	}
}

func fixedClock() func() time.Time {
	t := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func recordByKey(records []model.DiffRecord, key string) (model.DiffRecord, bool) {
	for _, r := range records {
		if r.Key == key {
			return r, true
		}
	}
	return model.DiffRecord{}, false
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
