package extract

import (
	"errors"
	"fmt"
)

// ErrExtraction matches every *ExtractionError via errors.Is.
var ErrExtraction = errors.New("extraction failed")

// ExtractionError reports which step of extraction failed for which source.
type ExtractionError struct {
	Op  string // fetch, parse, locate, header, market_cap, coerce
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func (e *ExtractionError) Is(target error) bool { return target == ErrExtraction }
