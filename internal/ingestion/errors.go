package ingestion

import (
	"errors"
	"fmt"
)

// ErrUnsupportedType is returned for files whose extension is not accepted.
var ErrUnsupportedType = errors.New("unsupported file type")

// ErrTooLarge is returned when recognized text exceeds the configured limit.
var ErrTooLarge = errors.New("text exceeds size limit")

// LoadError represents an error while reading or decoding recognized text
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
