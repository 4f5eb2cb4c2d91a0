package storage

import (
	"database/sql"
	"fmt"

	"banketl/internal/records"
)

// Kind is the inferred logical type of a column.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindReal
)

// InferKinds picks one Kind per column of t: integer when every non-nil
// cell is int64, real when every non-nil cell is int64 or float64, text
// otherwise. All-nil columns are real, matching how a missing numeric
// value is represented.
func InferKinds(t *records.Table) []Kind {
	out := make([]Kind, len(t.Columns))
	for i, c := range t.Columns {
		sawInt, sawFloat, sawOther := false, false, false
		for _, r := range t.Rows {
			switch r[c].(type) {
			case nil:
			case int64:
				sawInt = true
			case float64:
				sawFloat = true
			default:
				sawOther = true
			}
		}
		switch {
		case sawOther:
			out[i] = KindText
		case sawFloat:
			out[i] = KindReal
		case sawInt:
			out[i] = KindInteger
		default:
			out[i] = KindReal
		}
	}
	return out
}

// CellValue converts a record cell into a driver argument for a column of
// kind k. Integers in a real column are widened; values in a text column
// are rendered with records.FormatValue.
func CellValue(v any, k Kind) any {
	if v == nil {
		return nil
	}
	switch k {
	case KindReal:
		switch x := v.(type) {
		case int64:
			return float64(x)
		case float64:
			return x
		}
	case KindInteger:
		if x, ok := v.(int64); ok {
			return x
		}
	}
	return records.FormatValue(v)
}

// ScanRows reads every row from rows. []byte values are copied into
// strings so results survive the next Scan.
func ScanRows(rows *sql.Rows) (*ResultSet, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	rs := &ResultSet{Columns: cols}

	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return rs, nil
}
