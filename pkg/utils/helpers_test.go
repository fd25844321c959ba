package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 30*time.Second, ParseDuration("30s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("-5s", time.Minute))
}

func TestParseNumbers(t *testing.T) {
	assert.Equal(t, 42, ParseInt(" 42 ", 7))
	assert.Equal(t, 7, ParseInt("4.2", 7))
	assert.Equal(t, 2.5, ParseFloat("2.5", 1))
	assert.Equal(t, 1.0, ParseFloat("", 1))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b,"))
	assert.Nil(t, SplitList(""))
}

func TestNumeric(t *testing.T) {
	type score int32

	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float64", 1.5, 1.5, true},
		{"int", 3, 3, true},
		{"json number", json.Number("12.5"), 12.5, true},
		{"numeric string", " 1e3 ", 1000, true},
		{"named integer", score(4), 4, true},
		{"text", "abc", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Numeric(tt.in)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
