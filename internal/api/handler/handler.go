package handler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"go-delta-analyzer/internal/analysis"
	"go-delta-analyzer/internal/config"
	"go-delta-analyzer/internal/dataset"
	"go-delta-analyzer/internal/logger"
	"go-delta-analyzer/internal/model"
	"go-delta-analyzer/internal/registry"
	"go-delta-analyzer/internal/store"
	"go-delta-analyzer/pkg/utils"
)

// Version is reported by the root endpoint
const Version = "2.0.0"

var tracer = otel.Tracer("go-delta-analyzer/api")

// Handler serves the HTTP API over the dataset registry and the run store
type Handler struct {
	registry *registry.Registry
	outputs  *utils.OutputManager
	cfg      config.Config
}

// New creates a handler. The store package must already be initialised.
func New(reg *registry.Registry, outputs *utils.OutputManager, cfg config.Config) *Handler {
	return &Handler{registry: reg, outputs: outputs, cfg: cfg}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// Root returns service info
// @Summary Service info
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Delta Analyzer API",
		"version": Version,
	})
}

// Health reports liveness
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		logger.Error("failed to encode response", "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: "Failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var (
		missing   *analysis.MissingInputError
		notFound  *analysis.ColumnNotFoundError
		typeErr   *analysis.ColumnTypeError
		tooMany   *dataset.TooManyRowsError
		transform *dataset.UnknownTransformError
		maxBytes  *http.MaxBytesError
		parseErr  *csv.ParseError
	)
	switch {
	case errors.As(err, &tooMany), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &missing),
		errors.As(err, &notFound),
		errors.As(err, &typeErr),
		errors.As(err, &transform),
		errors.As(err, &parseErr),
		errors.Is(err, analysis.ErrUnsupportedAggregation),
		errors.Is(err, model.ErrInvalidRequest),
		errors.Is(err, dataset.ErrEmptyFile):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrNoResult):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// failSpan records err on span and writes the mapped error response
func failSpan(w http.ResponseWriter, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	respondError(w, statusFor(err), err.Error())
}

// pathParam extracts the segment between prefix and suffix of path
func pathParam(path, prefix, suffix string) (string, bool) {
	if len(path) < len(prefix)+len(suffix) || !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return "", false
	}
	id := strings.Trim(path[len(prefix):len(path)-len(suffix)], "/")
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
