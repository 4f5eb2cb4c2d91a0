// Package csv reads small delimited files fully into memory: a header row
// and the data rows beneath it.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmpty is returned when the input has no header row.
var ErrEmpty = errors.New("csv: empty input")

// Options configures the reader. The zero value reads comma-separated input
// and keeps fields as-is.
type Options struct {
	// Comma is the field delimiter; ',' when zero.
	Comma rune

	// TrimSpace trims surrounding whitespace from every field.
	TrimSpace bool
}

// Document is a parsed CSV file.
type Document struct {
	Header []string
	Rows   [][]string
}

// Read parses r. Rows may have any width; blank lines are skipped by
// encoding/csv.
func Read(r io.Reader, opt Options) (*Document, error) {
	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	header = StripHeaderBOM(append([]string(nil), header...))
	if opt.TrimSpace {
		trimAll(header)
	}

	doc := &Document{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}
		if opt.TrimSpace {
			trimAll(rec)
		}
		doc.Rows = append(doc.Rows, rec)
	}
	return doc, nil
}

func trimAll(fields []string) {
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
}
