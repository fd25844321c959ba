package dataset

import (
	"fmt"
	"strings"
)

// DefaultMaxRows is the row ceiling applied when LoadOptions.MaxRows is zero
const DefaultMaxRows = 1_000_000

// ------------------- Validation -------------------

// cleanHeaders trims whitespace, strips quotes and the UTF-8 byte order mark,
// names blank headers by position and suffixes repeated names with ".1", ".2", ...
func cleanHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, h := range raw {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		h = strings.TrimSpace(h)
		h = strings.ReplaceAll(h, `"`, "")
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}

		name := h
		for n := 1; seen[name]; n++ {
			name = fmt.Sprintf("%s.%d", h, n)
		}
		seen[name] = true
		headers[i] = name
	}
	return headers
}

// checkRowCount rejects empty uploads and uploads above the row ceiling
func checkRowCount(rows, limit int) error {
	if rows == 0 {
		return ErrEmptyFile
	}
	if limit <= 0 {
		limit = DefaultMaxRows
	}
	if rows > limit {
		return &TooManyRowsError{Rows: rows, Limit: limit}
	}
	return nil
}
