package config

import (
	"os"
	"time"

	"go-delta-analyzer/internal/analysis"
	"go-delta-analyzer/internal/dataset"
	"go-delta-analyzer/pkg/utils"
)

// Config holds process settings read from the environment
type Config struct {
	Port             int
	DBPath           string
	OutputDir        string
	MaxRows          int
	MaxUploadBytes   int64
	AnomalyThreshold float64
	AllowedOrigins   []string
	RateLimitRPS     float64
	RateLimitBurst   int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
}

const defaultOrigins = "http://localhost:3000,http://127.0.0.1:3000"

// Load reads configuration from environment variables, falling back to defaults
func Load() Config {
	return load(os.Getenv)
}

func load(getenv func(string) string) Config {
	cfg := Config{
		Port:             utils.ParseInt(getenv("PORT"), 8000),
		DBPath:           getenv("DB_PATH"),
		OutputDir:        getenv("OUTPUT_DIR"),
		MaxRows:          utils.ParseInt(getenv("MAX_ROWS"), dataset.DefaultMaxRows),
		MaxUploadBytes:   int64(utils.ParseInt(getenv("MAX_UPLOAD_BYTES"), 100<<20)),
		AnomalyThreshold: utils.ParseFloat(getenv("ANOMALY_THRESHOLD"), analysis.DefaultAnomalyThreshold),
		RateLimitRPS:     utils.ParseFloat(getenv("RATE_LIMIT_RPS"), 10),
		RateLimitBurst:   utils.ParseInt(getenv("RATE_LIMIT_BURST"), 20),
		ReadTimeout:      utils.ParseDuration(getenv("HTTP_READ_TIMEOUT"), 30*time.Second),
		WriteTimeout:     utils.ParseDuration(getenv("HTTP_WRITE_TIMEOUT"), 60*time.Second),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = ":memory:"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "outputs"
	}

	origins := getenv("CORS_ALLOWED_ORIGINS")
	if origins == "" {
		origins = defaultOrigins
	}
	cfg.AllowedOrigins = utils.SplitList(origins)

	if cfg.MaxRows <= 0 {
		cfg.MaxRows = dataset.DefaultMaxRows
	}
	if cfg.AnomalyThreshold <= 0 {
		cfg.AnomalyThreshold = analysis.DefaultAnomalyThreshold
	}
	return cfg
}
