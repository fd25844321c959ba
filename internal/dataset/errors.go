package dataset

import (
	"errors"
	"fmt"
)

// ErrEmptyFile is returned when an upload has no header or no data rows
var ErrEmptyFile = errors.New("file contains no data rows")

// TooManyRowsError reports an upload above the configured row ceiling
type TooManyRowsError struct {
	Rows  int
	Limit int
}

func (e *TooManyRowsError) Error() string {
	return fmt.Sprintf("file has %d rows, the maximum is %d", e.Rows, e.Limit)
}

// UnknownTransformError names a transformation that is not supported
type UnknownTransformError struct {
	Name string
}

func (e *UnknownTransformError) Error() string {
	return fmt.Sprintf("unknown transformation: %s", e.Name)
}
