package analysis

import (
	"fmt"
	"time"

	"go-delta-analyzer/internal/model"
)

// AnalysisType is reported in the performance record of every run
const AnalysisType = "advanced"

// Run compares before and after as described by req and returns the full
// result bundle. It reads the datasets without modifying them and keeps no
// state between calls.
func Run(before, after *model.Dataset, req model.AnalysisRequest, opts ...Option) (*model.AnalysisResult, error) {
	if before == nil {
		return nil, &MissingInputError{Dataset: "before"}
	}
	if after == nil {
		return nil, &MissingInputError{Dataset: "after"}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cfg := applyOptions(req, opts)
	log := cfg.log.With("group_by", req.GroupBy, "value_col", req.ValueColumn, "agg_method", req.Aggregation)
	start := cfg.now()
	log.Debug("analysis started", "before_rows", before.Len(), "after_rows", after.Len())

	beforeAgg, err := Aggregate(before, req.GroupBy, req.ValueColumn, req.Aggregation)
	if err != nil {
		return nil, fmt.Errorf("aggregate before: %w", err)
	}
	afterAgg, err := Aggregate(after, req.GroupBy, req.ValueColumn, req.Aggregation)
	if err != nil {
		return nil, fmt.Errorf("aggregate after: %w", err)
	}

	records := Diff(beforeAgg, afterAgg)
	annotate(records, before, after, req, cfg)

	stats := runStatistics(records, before, after, req.ValueColumn, log)
	result := &model.AnalysisResult{
		Summary:    Summarize(records, cfg.now()),
		Records:    records,
		Charts:     BuildCharts(records, stats),
		Insights:   GenerateInsights(records, stats),
		Statistics: stats,
	}

	elapsed := cfg.now().Sub(start)
	result.Performance = model.Performance{
		ElapsedSeconds: elapsed.Seconds(),
		RowsAnalyzed:   before.Len() + after.Len(),
		AnalysisType:   AnalysisType,
	}
	log.Info("analysis completed", "groups", len(records), "duration_ms", elapsed.Milliseconds())
	return result, nil
}

// annotate fills significance and breakdown fields of each record in place
func annotate(records []model.DiffRecord, before, after *model.Dataset, req model.AnalysisRequest, cfg config) {
	bd := NewBreakdown(before, after, req.ValueColumn, req.Aggregation, req.Breakdowns, cfg.anomalyThreshold)

	var beforeParts, afterParts map[string][][]model.Value
	if len(req.Breakdowns) > 0 {
		beforeParts = partitionRows(before, before.ColumnIndex(req.GroupBy))
		afterParts = partitionRows(after, after.ColumnIndex(req.GroupBy))
	}

	for i := range records {
		r := &records[i]
		r.Significance = ClassifySignificance(r.Delta, r.Before)
		r.Reason, r.BreakdownData = bd.Analyze(beforeParts[r.Key], afterParts[r.Key])
	}
}

// Summarize totals the records of one run
func Summarize(records []model.DiffRecord, at time.Time) model.Summary {
	s := model.Summary{TotalGroups: len(records), Timestamp: at}
	for _, r := range records {
		switch {
		case r.Delta > 0:
			s.PositiveChanges++
			s.TotalIncrease += r.Delta
		case r.Delta < 0:
			s.NegativeChanges++
			s.TotalDecrease += r.Delta
		}
		s.NetChange += r.Delta
	}
	return s
}
