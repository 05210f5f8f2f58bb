package dataprocessing

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFile matches any *MissingFileError
	ErrMissingFile = errors.New("ridership workbook not found")

	// ErrSheetNotFound is returned when the workbook lacks the ridership sheet
	ErrSheetNotFound = errors.New("ridership sheet not found")
)

// MissingFileError reports that the input workbook does not exist
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("cannot find data file: %s", e.Path)
}

// Is lets errors.Is(err, ErrMissingFile) match
func (e *MissingFileError) Is(target error) bool {
	return target == ErrMissingFile
}

// DropReason classifies a malformed row. Dropped rows never surface as errors.
type DropReason string

const (
	DropMissingValue DropReason = "missing_value"
	DropInvalidValue DropReason = "invalid_value"
	DropInvalidDate  DropReason = "invalid_date"
)
