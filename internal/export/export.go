package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go-delta-analyzer/internal/model"
	"go-delta-analyzer/pkg/utils"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ExportResult describes one written export file
type ExportResult struct {
	Type        string    `json:"type"`
	Path        string    `json:"path"`
	FileName    string    `json:"filename"`
	RecordCount int       `json:"record_count"`
	SizeBytes   int64     `json:"size_bytes"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	ExportedAt  time.Time `json:"exported_at"`
	DownloadURL string    `json:"download_url"`
}

// Metadata is written alongside JSON exports
type Metadata struct {
	RunID       string                 `json:"run_id"`
	ExportedAt  time.Time              `json:"exported_at"`
	RecordCount int                    `json:"record_count"`
	ExportType  string                 `json:"export_type"`
	Request     *model.AnalysisRequest `json:"request,omitempty"`
}

var csvHeader = []string{"key", "before", "after", "delta", "percent_delta", "significance", "reason"}

// ParseFormat normalises a requested export format
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// WriteCSV writes one row per diff record. Undefined percentages are empty cells.
func WriteCSV(w io.Writer, records []model.DiffRecord) (int, error) {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	recordCount := 0
	for _, r := range records {
		percent := ""
		if p, ok := r.PercentDelta.Get(); ok {
			percent = model.FormatNumber(p)
		}
		row := []string{
			r.Key,
			model.FormatNumber(r.Before),
			model.FormatNumber(r.After),
			model.FormatNumber(r.Delta),
			percent,
			r.Significance,
			r.Reason,
		}
		if err := writer.Write(row); err != nil {
			return recordCount, fmt.Errorf("failed to write row: %w", err)
		}
		recordCount++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return recordCount, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return recordCount, nil
}

// WriteJSON writes the full result under "data" with export metadata under "export_info"
func WriteJSON(w io.Writer, result *model.AnalysisResult, meta Metadata) (int, error) {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	meta.RecordCount = len(result.Records)
	if meta.ExportType == "" {
		meta.ExportType = "analysis_result"
	}
	if meta.ExportedAt.IsZero() {
		meta.ExportedAt = time.Now().UTC()
	}

	exportData := struct {
		ExportInfo Metadata              `json:"export_info"`
		Data       *model.AnalysisResult `json:"data"`
	}{meta, result}

	if err := encoder.Encode(exportData); err != nil {
		return 0, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return len(result.Records), nil
}

// Write streams result in the given format
func Write(w io.Writer, format string, result *model.AnalysisResult, meta Metadata) (int, error) {
	switch format {
	case FormatJSON:
		return WriteJSON(w, result, meta)
	case FormatCSV:
		return WriteCSV(w, result.Records)
	default:
		return 0, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ExportToFile writes result into the run's output directory managed by om
func ExportToFile(om *utils.OutputManager, format string, result *model.AnalysisResult, meta Metadata) ExportResult {
	fileName := fmt.Sprintf("analysis_%s.%s", shortID(meta.RunID), format)
	res := ExportResult{
		Type:       om.GetFileType(fileName),
		FileName:   fileName,
		ExportedAt: time.Now().UTC(),
	}

	path, err := om.GetOutputFilePath(meta.RunID, fileName)
	if err == nil {
		res.Path = path
		res.RecordCount, err = writeFile(path, format, result, meta)
	}
	if err == nil {
		res.SizeBytes, err = om.GetFileSize(path)
	}

	res.Success = err == nil
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.DownloadURL = om.GetDownloadURL(meta.RunID, fileName)
	return res
}

func writeFile(path, format string, result *model.AnalysisResult, meta Metadata) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	n, err := Write(file, format, result, meta)
	if cerr := file.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close file: %w", cerr)
	}
	return n, err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
