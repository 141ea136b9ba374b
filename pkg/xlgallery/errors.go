package xlgallery

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a zip-based workbook.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ExtractionError represents a fatal error while reading one archive part.
type ExtractionError struct {
	Part      string
	Component string // "media", "worksheet"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in part %q (%s): %v", e.Part, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(part, component string, err error) *ExtractionError {
	return &ExtractionError{
		Part:      part,
		Component: component,
		Err:       err,
	}
}
