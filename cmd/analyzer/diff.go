package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"go-delta-analyzer/internal/analysis"
	"go-delta-analyzer/internal/config"
	"go-delta-analyzer/internal/dataset"
	"go-delta-analyzer/internal/export"
	"go-delta-analyzer/internal/logger"
	"go-delta-analyzer/internal/model"
	"go-delta-analyzer/pkg/utils"
)

var diffFlags struct {
	groupBy         string
	valueCol        string
	agg             string
	breakdowns      []string
	transformations []string
	format          string
	outDir          string
}

var diffCmd = &cobra.Command{
	Use:   "diff <before.csv> <after.csv>",
	Short: "Compare two CSV snapshots and print or save the result",
	Long: `Loads both CSV files, runs the differential analysis and writes the result
to stdout. With --out the export is saved under <out>/<run id>/ instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(diffFlags.format)
		if err != nil {
			return err
		}
		return runDiff(args[0], args[1], format)
	},
}

func init() {
	diffCmd.Flags().StringVar(&diffFlags.groupBy, "group-by", "", "column to group rows by")
	diffCmd.Flags().StringVar(&diffFlags.valueCol, "value", "", "column to aggregate")
	diffCmd.Flags().StringVar(&diffFlags.agg, "agg", string(model.AggSum), "aggregation method: sum, mean or count")
	diffCmd.Flags().StringSliceVar(&diffFlags.breakdowns, "breakdown", nil, "secondary columns explaining each group's change")
	diffCmd.Flags().StringSliceVar(&diffFlags.transformations, "transform", nil, "cell transformations applied while loading")
	diffCmd.Flags().StringVar(&diffFlags.format, "format", export.FormatJSON, "output format: json or csv")
	diffCmd.Flags().StringVar(&diffFlags.outDir, "out", "", "save the export under this directory instead of printing it")
	_ = diffCmd.MarkFlagRequired("group-by")
	_ = diffCmd.MarkFlagRequired("value")
}

func runDiff(beforePath, afterPath, format string) error {
	cfg := config.Load()
	opts := dataset.LoadOptions{MaxRows: cfg.MaxRows, Transformations: diffFlags.transformations}

	before, err := dataset.LoadFile(beforePath, "before", opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", beforePath, err)
	}
	after, err := dataset.LoadFile(afterPath, "after", opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", afterPath, err)
	}

	req := model.AnalysisRequest{
		GroupBy:     diffFlags.groupBy,
		ValueColumn: diffFlags.valueCol,
		Aggregation: model.AggregationMethod(diffFlags.agg),
		Breakdowns:  diffFlags.breakdowns,
	}
	runID := uuid.New().String()
	log := logger.Logger().With("run_id", runID)

	result, err := analysis.Run(before.Dataset, after.Dataset, req,
		analysis.WithAnomalyThreshold(cfg.AnomalyThreshold),
		analysis.WithLogger(log),
	)
	if err != nil {
		return err
	}

	meta := export.Metadata{RunID: runID, ExportedAt: time.Now().UTC(), Request: &req}
	if diffFlags.outDir == "" {
		_, err = export.Write(os.Stdout, format, result, meta)
		return err
	}

	res := export.ExportToFile(utils.NewOutputManager(diffFlags.outDir), format, result, meta)
	if !res.Success {
		return fmt.Errorf("export failed: %s", res.Error)
	}
	log.Info("export saved", "path", res.Path, "records", res.RecordCount, "size_bytes", res.SizeBytes)
	fmt.Println(res.Path)
	return nil
}
