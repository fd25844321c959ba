package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-delta-analyzer/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "analyzer",
	Short: "Compare before and after snapshots of tabular data",
	Long: `analyzer aggregates two CSV snapshots by a grouping column, diffs them and
explains the changes through breakdown columns, statistics and insights.

Run it as an HTTP API with 'analyzer serve' or one-shot with 'analyzer diff'.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("log-level") {
			logger.SetLevel(logger.ParseLevel(logLevel))
		}
	},
}

var logLevel string

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error (overrides LOG_LEVEL)")
}

// @title Delta Analyzer API
// @version 2.0.0
// @description Before/after snapshot comparison with breakdowns, statistics and insights.
// @BasePath /
func main() {
	rootCmd.AddCommand(serveCmd, diffCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
