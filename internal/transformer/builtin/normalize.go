// Package builtin contains small reusable table steps used by the extractor.
package builtin

import (
	"strconv"
	"strings"

	"banketl/internal/records"
)

// Normalize trims string cells and replaces NBSP with a plain space.
type Normalize struct{}

func (Normalize) Apply(in *records.Table) (*records.Table, error) {
	out := in.Clone()
	for _, r := range out.Rows {
		for k, v := range r {
			if s, ok := v.(string); ok {
				r[k] = strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
			}
		}
	}
	return out, nil
}

// ColumnName lowercases name, turns spaces into underscores and drops
// parentheses. Other characters are kept, so "Market cap (US$ billion)"
// becomes "market_cap_us$_billion".
func ColumnName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "(", "")
	return strings.ReplaceAll(name, ")", "")
}

// NormalizeColumns renames every column with ColumnName. Two columns that
// normalize to the same name keep the first name and suffix the rest with
// ".1", ".2", ...
type NormalizeColumns struct{}

func (NormalizeColumns) Apply(in *records.Table) (*records.Table, error) {
	out := &records.Table{
		Columns: make([]string, len(in.Columns)),
		Rows:    make([]records.Record, len(in.Rows)),
	}

	seen := map[string]int{}
	for i, c := range in.Columns {
		name := ColumnName(c)
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n)
		} else {
			seen[name] = 1
		}
		out.Columns[i] = name
	}

	for ri, r := range in.Rows {
		rec := make(records.Record, len(out.Columns))
		for i, c := range in.Columns {
			rec[out.Columns[i]] = r[c]
		}
		out.Rows[ri] = rec
	}
	return out, nil
}
