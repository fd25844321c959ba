package handler

import (
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"go-delta-analyzer/internal/dataset"
	"go-delta-analyzer/internal/logger"
	"go-delta-analyzer/internal/registry"
	"go-delta-analyzer/pkg/utils"
)

// UploadResponse describes a stored upload
type UploadResponse struct {
	DatasetID  string    `json:"dataset_id"`
	FileType   string    `json:"file_type"`
	FileName   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
	dataset.Info
}

// UploadDataset stores a CSV as the before or after dataset
// @Summary Upload a dataset
// @Description Upload a CSV as multipart field "file" or as the raw request body. Bodies may be zstd encoded.
// @Tags datasets
// @Accept multipart/form-data
// @Accept text/csv
// @Produce json
// @Param file_type query string true "Dataset slot" Enums(before, after)
// @Param transformations query string false "Comma separated: trimStrings, convertToLowercase, convertToUppercase, normalizeNames"
// @Param file formData file false "CSV file"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} ErrorResponse "Invalid file or parameters"
// @Failure 413 {object} ErrorResponse "File too large"
// @Failure 429 {object} ErrorResponse "Rate limit exceeded"
// @Router /api/v1/upload [post]
func (h *Handler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "api.upload_dataset")
	defer span.End()

	fileType := r.URL.Query().Get("file_type")
	if !registry.ValidRole(fileType) {
		respondError(w, http.StatusBadRequest, "file_type must be \"before\" or \"after\"")
		return
	}
	span.SetAttributes(attribute.String("dataset.file_type", fileType))

	if h.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	}

	body, fileName, closeBody, err := uploadBody(r)
	if err != nil {
		span.RecordError(err)
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		respondError(w, status, err.Error())
		return
	}
	defer closeBody()
	if fileName == "" {
		respondError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}

	res, err := dataset.Load(body, fileType, dataset.LoadOptions{
		MaxRows:         h.cfg.MaxRows,
		Transformations: utils.SplitList(r.URL.Query().Get("transformations")),
	})
	if err != nil {
		logger.Ctx(ctx).Warn("upload rejected", "file_type", fileType, "error", err)
		failSpan(w, span, err)
		return
	}

	entry, err := h.registry.Put(fileType, fileName, res)
	if err != nil {
		failSpan(w, span, err)
		return
	}

	span.SetAttributes(
		attribute.String("dataset.id", entry.ID),
		attribute.Int("dataset.rows", res.Info.RowCount),
	)
	logger.Ctx(ctx).Info("dataset uploaded",
		"file_type", fileType,
		"dataset_id", entry.ID,
		"rows", res.Info.RowCount,
		"removed_duplicates", res.Info.Quality.DuplicatesRemoved,
	)

	respondJSON(w, http.StatusOK, UploadResponse{
		DatasetID:  entry.ID,
		FileType:   entry.Role,
		FileName:   entry.FileName,
		UploadedAt: entry.UploadedAt,
		Info:       entry.Info,
	})
}

// uploadBody returns the CSV stream of a multipart or raw upload. An empty
// file name means the multipart request had no "file" field.
func uploadBody(r *http.Request) (io.Reader, string, func(), error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err == http.ErrMissingFile {
			return nil, "", func() {}, nil
		}
		if err != nil {
			return nil, "", nil, err
		}
		return file, header.Filename, func() { file.Close() }, nil
	}

	name := r.URL.Query().Get("filename")
	if name == "" {
		name = "upload.csv"
	}
	return r.Body, name, func() {}, nil
}

// ListDatasets lists the current uploads
// @Summary List uploaded datasets
// @Tags datasets
// @Produce json
// @Success 200 {array} registry.Entry
// @Router /api/v1/datasets [get]
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.registry.List())
}
