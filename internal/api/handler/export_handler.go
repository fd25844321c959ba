package handler

import (
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"go-delta-analyzer/internal/export"
	"go-delta-analyzer/internal/logger"
	"go-delta-analyzer/internal/model"
	"go-delta-analyzer/internal/store"
)

// loadExport resolves the run id and format of an export request
func (h *Handler) loadExport(r *http.Request) (string, string, *model.AnalysisResult, export.Metadata, error) {
	runID, ok := pathParam(r.URL.Path, analysesPrefix, "/export")
	if !ok {
		return "", "", nil, export.Metadata{}, fmt.Errorf("%w: run ID is required", model.ErrInvalidRequest)
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		return "", "", nil, export.Metadata{}, fmt.Errorf("%w: %v", model.ErrInvalidRequest, err)
	}

	run, err := store.GetRun(r.Context(), runID)
	if err != nil {
		return "", "", nil, export.Metadata{}, err
	}
	result, err := store.GetRunResult(r.Context(), runID)
	if err != nil {
		return "", "", nil, export.Metadata{}, err
	}
	return runID, format, result, export.Metadata{RunID: runID, Request: &run.Request}, nil
}

// ExportAnalysis streams a completed run's diff records
// @Summary Export an analysis
// @Description Download the diff records of a completed run as CSV or the full result as JSON
// @Tags analyses
// @Produce text/csv
// @Produce json
// @Param id path string true "Run ID"
// @Param format query string false "Export format" Enums(csv, json) default(csv)
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse "Invalid run ID or format"
// @Failure 404 {object} ErrorResponse "Run not found"
// @Failure 409 {object} ErrorResponse "Run has no result"
// @Router /api/v1/analyses/{id}/export [get]
func (h *Handler) ExportAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "api.export_analysis")
	defer span.End()

	runID, format, result, meta, err := h.loadExport(r.WithContext(ctx))
	if err != nil {
		failSpan(w, span, err)
		return
	}
	span.SetAttributes(attribute.String("run.id", runID), attribute.String("export.format", format))

	contentType := "text/csv; charset=utf-8"
	if format == export.FormatJSON {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="analysis_%s.%s"`, runID, format))
	w.WriteHeader(http.StatusOK)

	if _, err := export.Write(w, format, result, meta); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error("export stream failed", "run_id", runID, "error", err)
	}
}

// SaveExport writes a completed run's export to the output directory
// @Summary Save an analysis export
// @Description Write the export file under the run's output directory and return its download URL
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Param format query string false "Export format" Enums(csv, json) default(csv)
// @Success 201 {object} export.ExportResult
// @Failure 400 {object} ErrorResponse "Invalid run ID or format"
// @Failure 404 {object} ErrorResponse "Run not found"
// @Failure 500 {object} export.ExportResult "Export failed"
// @Router /api/v1/analyses/{id}/export [post]
func (h *Handler) SaveExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "api.save_export")
	defer span.End()

	runID, format, result, meta, err := h.loadExport(r.WithContext(ctx))
	if err != nil {
		failSpan(w, span, err)
		return
	}

	res := export.ExportToFile(h.outputs, format, result, meta)
	if !res.Success {
		logger.Ctx(ctx).Error("export to file failed", "run_id", runID, "error", res.Error)
		respondJSON(w, http.StatusInternalServerError, res)
		return
	}
	logger.Ctx(ctx).Info("export saved", "run_id", runID, "path", res.Path, "records", res.RecordCount)
	respondJSON(w, http.StatusCreated, res)
}

// DownloadFile serves a saved export file
// @Summary Download a saved export
// @Tags analyses
// @Produce octet-stream
// @Param runID path string true "Run ID"
// @Param filename path string true "File name"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse "Invalid path"
// @Failure 404 {object} ErrorResponse "File not found"
// @Router /api/v1/download/{runID}/{filename} [get]
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(pathParts) != 5 || pathParts[3] == "" || pathParts[4] == "" {
		respondError(w, http.StatusBadRequest, "Invalid download path")
		return
	}
	runID, fileName := pathParts[3], pathParts[4]

	path, err := h.outputs.ResolveFile(runID, fileName)
	if err != nil {
		respondError(w, http.StatusNotFound, "File not found")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	http.ServeFile(w, r, path)
}
