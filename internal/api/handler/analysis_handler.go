package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"go-delta-analyzer/internal/analysis"
	"go-delta-analyzer/internal/logger"
	"go-delta-analyzer/internal/model"
	"go-delta-analyzer/internal/store"
)

const analysesPrefix = "/api/v1/analyses/"

// AnalyzeResponse is an analysis result tagged with its run id
type AnalyzeResponse struct {
	RunID string `json:"run_id"`
	*model.AnalysisResult
}

// RunDetail is a recorded run with its result once completed
type RunDetail struct {
	*model.AnalysisRun
	Result *model.AnalysisResult `json:"result,omitempty"`
}

// Analyze compares the uploaded before and after datasets
// @Summary Run a differential analysis
// @Description Aggregate both uploaded datasets by group_by_col, diff them and explain the changes
// @Tags analyses
// @Accept json
// @Produce json
// @Param request body model.AnalysisRequest true "Analysis parameters"
// @Success 200 {object} AnalyzeResponse
// @Failure 400 {object} ErrorResponse "Invalid request, unknown column or missing upload"
// @Failure 429 {object} ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/v1/analyze [post]
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "api.analyze")
	defer span.End()

	var req model.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	runID := uuid.New().String()
	log := logger.Ctx(ctx).With("run_id", runID)
	span.SetAttributes(
		attribute.String("run.id", runID),
		attribute.String("analysis.group_by", req.GroupBy),
		attribute.String("analysis.value_col", req.ValueColumn),
		attribute.String("analysis.agg_method", string(req.Aggregation)),
		attribute.Int("analysis.breakdowns", len(req.Breakdowns)),
	)

	if err := store.SaveRun(ctx, runID, req); err != nil {
		log.Error("failed to save run", "error", err)
		failSpan(w, span, err)
		return
	}

	before, after := h.registry.Pair()
	result, err := analysis.Run(before, after, req,
		analysis.WithAnomalyThreshold(h.cfg.AnomalyThreshold),
		analysis.WithLogger(log),
	)
	if err != nil {
		log.Warn("analysis failed", "error", err)
		if ferr := store.FailRun(ctx, runID, err); ferr != nil {
			log.Error("failed to record run failure", "error", ferr)
		}
		failSpan(w, span, err)
		return
	}

	if err := store.CompleteRun(ctx, runID, result); err != nil {
		log.Error("failed to store run result", "error", err)
		if ferr := store.FailRun(ctx, runID, err); ferr != nil {
			log.Error("failed to record run failure", "error", ferr)
		}
		failSpan(w, span, err)
		return
	}
	span.SetAttributes(attribute.Int("analysis.groups", len(result.Records)))

	respondJSON(w, http.StatusOK, AnalyzeResponse{RunID: runID, AnalysisResult: result})
}

// ListAnalyses lists recorded runs
// @Summary List analysis runs
// @Tags analyses
// @Produce json
// @Success 200 {array} model.AnalysisRun
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/v1/analyses [get]
func (h *Handler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch analyses")
		return
	}
	respondJSON(w, http.StatusOK, runs)
}

// GetAnalysis returns one run and its result
// @Summary Get an analysis run
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} RunDetail
// @Failure 400 {object} ErrorResponse "Invalid run ID"
// @Failure 404 {object} ErrorResponse "Run not found"
// @Router /api/v1/analyses/{id} [get]
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	runID, ok := pathParam(r.URL.Path, analysesPrefix, "")
	if !ok {
		respondError(w, http.StatusBadRequest, "Run ID is required")
		return
	}

	run, err := store.GetRun(r.Context(), runID)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	detail := RunDetail{AnalysisRun: run}
	if run.Status == model.RunCompleted {
		result, err := store.GetRunResult(r.Context(), runID)
		if err != nil && !errors.Is(err, store.ErrNoResult) {
			respondError(w, statusFor(err), err.Error())
			return
		}
		detail.Result = result
	}
	respondJSON(w, http.StatusOK, detail)
}

// GetAnalysisErrors lists the errors recorded for a run
// @Summary Get analysis run errors
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse "Invalid run ID"
// @Failure 404 {object} ErrorResponse "Run not found"
// @Router /api/v1/analyses/{id}/errors [get]
func (h *Handler) GetAnalysisErrors(w http.ResponseWriter, r *http.Request) {
	runID, ok := pathParam(r.URL.Path, analysesPrefix, "/errors")
	if !ok {
		respondError(w, http.StatusBadRequest, "Run ID is required")
		return
	}
	if _, err := store.GetRun(r.Context(), runID); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	msgs, err := store.GetRunErrors(r.Context(), runID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch errors")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"run_id": runID,
		"errors": msgs,
	})
}
