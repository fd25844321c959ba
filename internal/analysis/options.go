package analysis

import (
	"log/slog"
	"time"

	"go-delta-analyzer/internal/model"
)

// DefaultAnomalyThreshold is the |delta| above which a breakdown entry is
// flagged instead of rendered as numbers
const DefaultAnomalyThreshold = 1e10

type config struct {
	anomalyThreshold float64
	now              func() time.Time
	log              *slog.Logger
}

// Option configures a single Run call
type Option func(*config)

// WithAnomalyThreshold overrides DefaultAnomalyThreshold. A request's
// "anomaly_threshold" option takes precedence over this value.
func WithAnomalyThreshold(v float64) Option {
	return func(c *config) {
		if v > 0 {
			c.anomalyThreshold = v
		}
	}
}

// WithClock sets the source of the summary timestamp and elapsed time
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger used for per-run diagnostics
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

func applyOptions(req model.AnalysisRequest, opts []Option) config {
	c := config{
		anomalyThreshold: DefaultAnomalyThreshold,
		now:              time.Now,
		log:              slog.Default(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	if v, ok := req.FloatOption(model.OptionAnomalyThreshold); ok && v > 0 {
		c.anomalyThreshold = v
	}
	return c
}
