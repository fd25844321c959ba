package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-delta-analyzer/internal/analysis"
	"go-delta-analyzer/internal/dataset"
	"go-delta-analyzer/internal/logger"
	"go-delta-analyzer/internal/model"
	"go-delta-analyzer/internal/store"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"too many rows", &dataset.TooManyRowsError{Rows: 10, Limit: 5}, http.StatusRequestEntityTooLarge},
		{"body too large", fmt.Errorf("CSV read error: %w", &http.MaxBytesError{Limit: 8}), http.StatusRequestEntityTooLarge},
		{"missing input", &analysis.MissingInputError{Dataset: "before"}, http.StatusBadRequest},
		{"column not found", fmt.Errorf("aggregate before: %w", &analysis.ColumnNotFoundError{Column: "x", Dataset: "before"}), http.StatusBadRequest},
		{"column type", &analysis.ColumnTypeError{Column: "x", Dataset: "after", Type: "text"}, http.StatusBadRequest},
		{"unknown transform", &dataset.UnknownTransformError{Name: "reverse"}, http.StatusBadRequest},
		{"csv parse", &csv.ParseError{Line: 2, Err: csv.ErrQuote}, http.StatusBadRequest},
		{"aggregation", fmt.Errorf("%w: %q", analysis.ErrUnsupportedAggregation, "median"), http.StatusBadRequest},
		{"invalid request", model.ErrInvalidRequest, http.StatusBadRequest},
		{"empty file", dataset.ErrEmptyFile, http.StatusBadRequest},
		{"run not found", store.ErrNotFound, http.StatusNotFound},
		{"no result", store.ErrNoResult, http.StatusConflict},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestRespondJSONEncodeFailure(t *testing.T) {
	t.Cleanup(logger.SetOutputForTest(io.Discard))

	rec := httptest.NewRecorder()
	respondJSON(rec, http.StatusOK, map[string]float64{"delta": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Failed to encode response"}`, rec.Body.String())
}

func TestPathParam(t *testing.T) {
	tests := []struct {
		path, prefix, suffix string
		want                 string
		ok                   bool
	}{
		{"/api/v1/analyses/abc", analysesPrefix, "", "abc", true},
		{"/api/v1/analyses/abc/", analysesPrefix, "", "abc", true},
		{"/api/v1/analyses/abc/export", analysesPrefix, "/export", "abc", true},
		{"/api/v1/analyses/abc/errors", analysesPrefix, "/errors", "abc", true},
		{"/api/v1/analyses/", analysesPrefix, "", "", false},
		{"/api/v1/analyses/a/b", analysesPrefix, "", "", false},
		{"/api/v1/analyses/export", analysesPrefix + "x", "/export", "", false},
		{"/other/abc", analysesPrefix, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := pathParam(tt.path, tt.prefix, tt.suffix)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
