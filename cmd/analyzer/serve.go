package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"go-delta-analyzer/internal/api"
	"go-delta-analyzer/internal/api/handler"
	"go-delta-analyzer/internal/config"
	"go-delta-analyzer/internal/logger"
	"go-delta-analyzer/internal/ratelimit"
	"go-delta-analyzer/internal/registry"
	"go-delta-analyzer/internal/store"
	"go-delta-analyzer/pkg/utils"
)

var serveFlags struct {
	port      int
	dbPath    string
	outputDir string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Starts the HTTP API. Settings come from the environment (PORT, DB_PATH,
OUTPUT_DIR, MAX_ROWS, CORS_ALLOWED_ORIGINS, ...) and flags override them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if cmd.Flags().Changed("port") {
			cfg.Port = serveFlags.port
		}
		if cmd.Flags().Changed("db") {
			cfg.DBPath = serveFlags.dbPath
		}
		if cmd.Flags().Changed("output-dir") {
			cfg.OutputDir = serveFlags.outputDir
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().IntVar(&serveFlags.port, "port", 8000, "listen port")
	serveCmd.Flags().StringVar(&serveFlags.dbPath, "db", ":memory:", "SQLite database for analysis runs")
	serveCmd.Flags().StringVar(&serveFlags.outputDir, "output-dir", "outputs", "directory for saved exports")
}

func serve(ctx context.Context, cfg config.Config) error {
	logger.Debug("configuration loaded",
		"port", cfg.Port,
		"db_path", cfg.DBPath,
		"output_dir", cfg.OutputDir,
		"max_rows", cfg.MaxRows,
		"rate_limit_rps", cfg.RateLimitRPS,
	)

	// Init DB
	if err := store.InitDB(cfg.DBPath); err != nil {
		return fmt.Errorf("failed to initialise store: %w", err)
	}
	defer store.Close()

	outputs := utils.NewOutputManager(cfg.OutputDir)
	if err := outputs.EnsureOutputDirExists(); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	limiter := ratelimit.NewInMemoryRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	h := handler.New(registry.New(), outputs, cfg)
	r := api.NewRouter(h, cfg, limiter)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      otelhttp.NewHandler(r.Handler(), "delta-analyzer"),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting server",
		"port", cfg.Port,
		"db", cfg.DBPath,
		"output_dir", cfg.OutputDir,
		"allowed_origins", cfg.AllowedOrigins,
	)
	return r.Serve(ctx, srv)
}
