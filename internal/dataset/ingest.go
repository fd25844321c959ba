package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"go-delta-analyzer/internal/model"
)

// LoadOptions controls how an uploaded CSV becomes a Dataset
type LoadOptions struct {
	// MaxRows is the row ceiling; zero means DefaultMaxRows
	MaxRows int
	// Transformations run on raw cell text before type inference
	Transformations []string
}

// Result is a parsed dataset together with its upload report
type Result struct {
	Dataset *model.Dataset
	Info    Info
}

// tokens read as missing values, matching common spreadsheet and dataframe exports
var nullTokens = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-NaN": true, "-nan": true,
	"<NA>": true, "N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// ------------------- CSV Ingestion -------------------

// LoadFile opens a CSV file from disk and loads it
func LoadFile(path, name string, opts LoadOptions) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return Load(file, name, opts)
}

// Load parses CSV from r into a typed dataset. Column types are inferred from
// the data, missing-value tokens become nulls and exact duplicate rows are
// dropped, keeping the first occurrence.
func Load(r io.Reader, name string, opts LoadOptions) (*Result, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	rawHeaders, err := csvReader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	headers := cleanHeaders(rawHeaders)

	limit := opts.MaxRows
	if limit <= 0 {
		limit = DefaultMaxRows
	}

	var records [][]string
	rowCount := 0
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}
		rowCount++
		if rowCount <= limit {
			records = append(records, record)
		}
	}
	if err := checkRowCount(rowCount, limit); err != nil {
		return nil, err
	}

	if err := applyTransformations(headers, records, opts.Transformations); err != nil {
		return nil, err
	}

	columns := make([]model.Column, len(headers))
	for c, h := range headers {
		columns[c] = model.Column{Name: h, Type: inferType(records, c)}
	}

	ds := model.NewDataset(name, columns...)
	ds.Rows = make([][]model.Value, 0, len(records))
	for _, record := range records {
		row := make([]model.Value, len(columns))
		for c, col := range columns {
			if c < len(record) {
				row[c] = parseCell(record[c], col.Type)
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	removed := dropDuplicates(ds)
	return &Result{Dataset: ds, Info: Describe(ds, removed)}, nil
}

func isNull(cell string) bool {
	return nullTokens[strings.TrimSpace(cell)]
}

// inferType picks numeric when every present cell is a number, date when
// every present cell is a date and text otherwise. Columns without any
// present cell are numeric.
func inferType(records [][]string, c int) model.ColumnType {
	numeric, date := true, true
	for _, record := range records {
		if c >= len(record) || isNull(record[c]) {
			continue
		}
		if numeric {
			_, numeric = model.ParseNumber(record[c])
		}
		if date {
			_, date = model.ParseDate(record[c])
		}
		if !numeric && !date {
			return model.ColumnText
		}
	}
	if numeric {
		return model.ColumnNumeric
	}
	return model.ColumnDate
}

func parseCell(cell string, t model.ColumnType) model.Value {
	if isNull(cell) {
		return model.Null()
	}
	switch t {
	case model.ColumnNumeric:
		if f, ok := model.ParseNumber(cell); ok {
			return model.Number(f)
		}
	case model.ColumnDate:
		if d, ok := model.ParseDate(cell); ok {
			return model.Date(d)
		}
	default:
		return model.Text(cell)
	}
	return model.Null()
}

// dropDuplicates removes repeated rows in place and returns how many were removed
func dropDuplicates(ds *model.Dataset) int {
	seen := make(map[string]struct{}, len(ds.Rows))
	kept := ds.Rows[:0]
	var b strings.Builder
	for _, row := range ds.Rows {
		b.Reset()
		for _, v := range row {
			b.WriteByte(byte('0' + v.Kind))
			b.WriteString(v.Key())
			b.WriteByte(0x1f)
		}
		key := b.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	removed := len(ds.Rows) - len(kept)
	ds.Rows = kept
	return removed
}
