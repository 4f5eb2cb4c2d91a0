package transformer

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"banketl/internal/datasource"
	csvparser "banketl/internal/parser/csv"
)

// LoadRates reads an exchange-rate CSV: a header row, then one row per
// currency with the code in the first column and the rate in the second.
// Codes are upper-cased; a repeated code keeps the last rate.
func LoadRates(ctx context.Context, src datasource.Source) (Rates, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("rates: open: %w", err)
	}
	defer rc.Close()

	doc, err := csvparser.Read(rc, csvparser.Options{TrimSpace: true})
	if err != nil {
		return nil, fmt.Errorf("rates: %w", err)
	}
	if len(doc.Header) < 2 {
		return nil, fmt.Errorf("rates: want an index column and a rate column, got header %q", doc.Header)
	}

	rates := make(Rates, len(doc.Rows))
	for i, row := range doc.Rows {
		line := i + 2
		if len(row) < 2 {
			return nil, fmt.Errorf("rates: line %d: want 2 fields, got %d", line, len(row))
		}
		code := strings.ToUpper(row[0])
		if code == "" {
			return nil, fmt.Errorf("rates: line %d: empty currency code", line)
		}
		v, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("rates: line %d: rate %q for %s: %w", line, row[1], code, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("rates: line %d: rate %q for %s is not a finite number", line, row[1], code)
		}
		rates[code] = v
	}
	return rates, nil
}
