package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-delta-analyzer/internal/model"
	"go-delta-analyzer/pkg/utils"
)

func sampleResult() *model.AnalysisResult {
	return &model.AnalysisResult{
		Summary: model.Summary{TotalGroups: 2, NetChange: 30},
		Records: []model.DiffRecord{
			{Key: "A", Before: 100, After: 150, Delta: 50, PercentDelta: model.Some(50), Significance: "large", Reason: "[product] x 10→60 (+50, major increase)"},
			{Key: "B", Before: 0, After: -20, Delta: -20, PercentDelta: model.None(), Significance: "vanished", Reason: "no breakdown requested"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	n, err := WriteCSV(&buf, sampleResult().Records)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t,
		"key,before,after,delta,percent_delta,significance,reason\n"+
			"A,100,150,50,50,large,\"[product] x 10→60 (+50, major increase)\"\n"+
			"B,0,-20,-20,,vanished,no breakdown requested\n",
		buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	n, err := WriteJSON(&buf, sampleResult(), Metadata{RunID: "run-1", ExportedAt: at})

	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var decoded struct {
		ExportInfo Metadata             `json:"export_info"`
		Data       model.AnalysisResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded.ExportInfo.RunID)
	assert.Equal(t, 2, decoded.ExportInfo.RecordCount)
	assert.Equal(t, "analysis_result", decoded.ExportInfo.ExportType)
	assert.True(t, at.Equal(decoded.ExportInfo.ExportedAt))
	assert.Len(t, decoded.Data.Records, 2)
	assert.Contains(t, buf.String(), `"percent_delta": null`)
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	_, err := Write(&bytes.Buffer{}, "xml", sampleResult(), Metadata{})

	assert.Error(t, err)
}

func TestExportToFile(t *testing.T) {
	om := utils.NewOutputManager(t.TempDir())
	runID := "0f8fad5b-d9cb-469f-a165-70867728950e"

	for _, format := range []string{FormatCSV, FormatJSON} {
		t.Run(format, func(t *testing.T) {
			res := ExportToFile(om, format, sampleResult(), Metadata{RunID: runID})

			require.True(t, res.Success, res.Error)
			assert.Equal(t, format, res.Type)
			assert.Equal(t, "analysis_0f8fad5b."+format, res.FileName)
			assert.Equal(t, 2, res.RecordCount)
			assert.Equal(t, filepath.Join(om.BaseOutputDir, runID, res.FileName), res.Path)
			assert.Equal(t, "/api/v1/download/"+runID+"/"+res.FileName, res.DownloadURL)

			info, err := os.Stat(res.Path)
			require.NoError(t, err)
			assert.Equal(t, info.Size(), res.SizeBytes)
		})
	}
}
