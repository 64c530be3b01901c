package extraction

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrNoExtractableText   = errors.New("no extractable text")
	// ErrResponseBlocked means the model withheld its output on a safety filter.
	ErrResponseBlocked = errors.New("response blocked by safety filters")
	// ErrExtractionFailed is matched by every *Error.
	ErrExtractionFailed = errors.New("extraction failed")
)

// Error carries the underlying cause of a failed extraction.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extraction %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrExtractionFailed }
