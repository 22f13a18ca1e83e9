package dataset

import "errors"

var (
	// ErrRaggedRow is returned when a row does not match the header count.
	ErrRaggedRow = errors.New("row width does not match headers")

	// ErrLengthMismatch is returned when columns have different lengths.
	ErrLengthMismatch = errors.New("columns have different lengths")

	// ErrColumnNotFound is returned when a column name is not found.
	ErrColumnNotFound = errors.New("column not found")

	// ErrUnsupportedValue is returned for cells that are not scalars.
	ErrUnsupportedValue = errors.New("unsupported cell value")
)
