package builtin

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"banketl/internal/records"
)

// Numeric turns one column into float64 by rendering each cell as text,
// dropping every rune that is not a digit or '.', and parsing the rest.
// Cells that do not parse become nil unless Strict is set, in which case the
// first bad cell fails the step.
type Numeric struct {
	Column string
	Strict bool
}

// CellError reports an unparseable cell in strict mode.
type CellError struct {
	Column string
	Row    int
	Value  any
}

func (e *CellError) Error() string {
	return fmt.Sprintf("column %q row %d: cannot parse %q as a number", e.Column, e.Row, records.FormatValue(e.Value))
}

func (n Numeric) Apply(in *records.Table) (*records.Table, error) {
	if !in.HasColumn(n.Column) {
		return nil, fmt.Errorf("numeric: unknown column %q", n.Column)
	}
	out := in.Clone()
	for i, r := range out.Rows {
		v, ok := ParseNumber(r[n.Column])
		if !ok && n.Strict && r[n.Column] != nil {
			return nil, &CellError{Column: n.Column, Row: i, Value: r[n.Column]}
		}
		if ok {
			r[n.Column] = v
		} else {
			r[n.Column] = nil
		}
	}
	return out, nil
}

// ParseNumber applies the digit-and-dot filter to v and parses the result.
func ParseNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
	}

	s := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, records.FormatValue(v))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
