package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregationMethod(t *testing.T) {
	assert.True(t, AggSum.Valid())
	assert.True(t, AggCount.Valid())
	assert.False(t, AggregationMethod("median").Valid())
	assert.True(t, AggMean.NeedsNumeric())
	assert.False(t, AggCount.NeedsNumeric())
}

func TestAnalysisRequestValidate(t *testing.T) {
	assert.NoError(t, AnalysisRequest{GroupBy: "region", ValueColumn: "sales"}.Validate())

	err := AnalysisRequest{ValueColumn: "sales"}.Validate()
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "group_by_col")

	err = AnalysisRequest{GroupBy: "region"}.Validate()
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "value_col")
}

func TestFloatOption(t *testing.T) {
	var req AnalysisRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"group_by_col": "region",
		"value_col": "sales",
		"advanced_options": {"anomaly_threshold": 500, "label": "x", "as_text": "2.5"}
	}`), &req))

	v, ok := req.FloatOption(OptionAnomalyThreshold)
	assert.True(t, ok)
	assert.Equal(t, 500.0, v)

	v, ok = req.FloatOption("as_text")
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)

	_, ok = req.FloatOption("label")
	assert.False(t, ok)
	_, ok = req.FloatOption("missing")
	assert.False(t, ok)
}

func TestOptFloat(t *testing.T) {
	assert.False(t, OptOf(math.NaN()).Valid)
	assert.False(t, OptOf(math.Inf(-1)).Valid)
	assert.Equal(t, 3.0, OptOf(3).Or(0))
	assert.Equal(t, -1.0, None().Or(-1))

	b, err := json.Marshal(struct {
		A OptFloat `json:"a"`
		B OptFloat `json:"b"`
	}{Some(1.5), None()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.5,"b":null}`, string(b))

	var got struct {
		A OptFloat `json:"a"`
		B OptFloat `json:"b"`
	}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, Some(1.5), got.A)
	assert.Equal(t, None(), got.B)
}
