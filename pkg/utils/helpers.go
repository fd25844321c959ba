package utils

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a duration string like "30s", returning fallback when
// d is empty or invalid
func ParseDuration(d string, fallback time.Duration) time.Duration {
	if d == "" {
		return fallback
	}
	duration, err := time.ParseDuration(strings.TrimSpace(d))
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

// ParseInt parses s as a base-10 integer, returning fallback when invalid
func ParseInt(s string, fallback int) int {
	if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return i
	}
	return fallback
}

// ParseFloat parses s as a float, returning fallback when invalid
func ParseFloat(s string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return f
	}
	return fallback
}

// SplitList splits a comma separated list, dropping blank items
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Numeric converts numbers, json.Number values and numeric strings to float64
func Numeric(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() >= reflect.Int && rv.Kind() <= reflect.Float64 {
			return rv.Convert(reflect.TypeOf(float64(0))).Float(), true
		}
		return 0, false
	}
}
