package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// ColumnType is the inferred type of a dataset column
type ColumnType string

const (
	ColumnNumeric ColumnType = "numeric"
	ColumnText    ColumnType = "text"
	ColumnDate    ColumnType = "date"
)

// ValueKind tags which field of a Value is set
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindNumber
	KindText
	KindDate
)

// Value is a single typed cell of a dataset
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
	Time time.Time
}

func Null() Value            { return Value{Kind: KindNull} }
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }
func Text(s string) Value    { return Value{Kind: KindText, Str: s} }
func Date(t time.Time) Value { return Value{Kind: KindDate, Time: t} }

func (v Value) IsNull() bool   { return v.Kind == KindNull }
func (v Value) IsNumber() bool { return v.Kind == KindNumber }

func (v Value) Float() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// Key returns the canonical string used when grouping and joining on this value.
// Numerically equal values share a key regardless of how they were written.
func (v Value) Key() string {
	switch v.Kind {
	case KindNumber:
		return FormatNumber(v.Num)
	case KindText:
		return v.Str
	case KindDate:
		if h, m, s := v.Time.Clock(); h == 0 && m == 0 && s == 0 && v.Time.Nanosecond() == 0 {
			return v.Time.Format(time.DateOnly)
		}
		return v.Time.Format(time.RFC3339)
	default:
		return ""
	}
}

func (v Value) String() string { return v.Key() }

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.Num)
	case KindText, KindDate:
		return json.Marshal(v.Key())
	default:
		return []byte("null"), nil
	}
}

// FormatNumber renders a float without exponent and without trailing zeros.
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// CompareKeys orders group keys naturally: numerically when both parse as
// numbers, lexicographically otherwise.
func CompareKeys(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return strings.Compare(a, b)
	}
	return strings.Compare(a, b)
}

// Column describes one named, typed column of a Dataset
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Dataset is an ordered, in-memory table. The analysis engine treats it as read-only.
type Dataset struct {
	Name    string    `json:"name"`
	Columns []Column  `json:"columns"`
	Rows    [][]Value `json:"-"`
}

// NewDataset creates an empty dataset with the given schema
func NewDataset(name string, columns ...Column) *Dataset {
	return &Dataset{Name: name, Columns: columns}
}

// Append adds a row; missing trailing cells are padded with nulls
func (d *Dataset) Append(values ...Value) {
	row := make([]Value, len(d.Columns))
	copy(row, values)
	d.Rows = append(d.Rows, row)
}

func (d *Dataset) Len() int { return len(d.Rows) }

// ColumnIndex returns the position of the named column or -1
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Column looks up a column definition by name
func (d *Dataset) Column(name string) (Column, bool) {
	if i := d.ColumnIndex(name); i >= 0 {
		return d.Columns[i], true
	}
	return Column{}, false
}

func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnsOfType lists column names of the given type in schema order
func (d *Dataset) ColumnsOfType(t ColumnType) []string {
	var names []string
	for _, c := range d.Columns {
		if c.Type == t {
			names = append(names, c.Name)
		}
	}
	return names
}

// Values returns a copy of one column's cells
func (d *Dataset) Values(name string) []Value {
	i := d.ColumnIndex(name)
	if i < 0 {
		return nil
	}
	out := make([]Value, len(d.Rows))
	for r, row := range d.Rows {
		out[r] = row[i]
	}
	return out
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
	"2006/01/02 15:04:05",
	"2006/01/02",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
	"2006.01.02",
	"2006-01",
	"2006/01",
}

// ParseDate parses the date and timestamp layouts accepted in uploaded files
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumber parses a finite number; NaN and infinities are rejected
func ParseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
