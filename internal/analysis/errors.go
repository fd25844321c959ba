package analysis

import (
	"errors"
	"fmt"
)

// ErrUnsupportedAggregation is returned for aggregation methods other than sum, mean and count
var ErrUnsupportedAggregation = errors.New("unsupported aggregation method")

// ColumnNotFoundError reports a requested column missing from a dataset's schema
type ColumnNotFoundError struct {
	Column  string
	Dataset string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in %s dataset", e.Column, e.Dataset)
}

// MissingInputError reports an absent before or after dataset
type MissingInputError struct {
	Dataset string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s dataset is missing", e.Dataset)
}

// ColumnTypeError reports a value column that cannot be summed or averaged
type ColumnTypeError struct {
	Column  string
	Dataset string
	Type    string
}

func (e *ColumnTypeError) Error() string {
	return fmt.Sprintf("column %q in %s dataset is %s, numeric required", e.Column, e.Dataset, e.Type)
}
