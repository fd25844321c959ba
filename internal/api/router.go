package api

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"go-delta-analyzer/internal/api/handler"
	"go-delta-analyzer/internal/config"
	"go-delta-analyzer/internal/logger"
	"go-delta-analyzer/internal/ratelimit"
	"go-delta-analyzer/pkg/router"

	_ "go-delta-analyzer/docs"
)

// NewRouter builds the API router with its middleware chain
func NewRouter(h *handler.Handler, cfg config.Config, limiter ratelimit.RateLimiter) *router.Router {
	r := router.New()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		logger.Middleware,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Encoding", "X-Request-Id"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		decompressMiddleware(),
	)

	RegisterRoutes(r, h, limiter)
	return r
}

func RegisterRoutes(r *router.Router, h *handler.Handler, limiter ratelimit.RateLimiter) {
	limited := func(fn router.HandlerFunc) router.HandlerFunc {
		if limiter == nil {
			return fn
		}
		return ratelimit.Middleware(limiter)(http.HandlerFunc(fn)).ServeHTTP
	}

	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	r.POST("/api/v1/upload", limited(h.UploadDataset))
	r.GET("/api/v1/datasets", h.ListDatasets)

	r.POST("/api/v1/analyze", limited(h.Analyze))
	r.GET("/api/v1/analyses", h.ListAnalyses)
	r.GET("/api/v1/analyses/*/errors", h.GetAnalysisErrors)
	r.GET("/api/v1/analyses/*/export", h.ExportAnalysis)
	r.POST("/api/v1/analyses/*/export", h.SaveExport)
	r.GET("/api/v1/analyses/*", h.GetAnalysis)
	r.GET("/api/v1/download/*/*", h.DownloadFile)

	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
