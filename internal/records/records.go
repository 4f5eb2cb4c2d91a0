// Package records defines the in-memory tabular model passed between pipeline
// stages: an ordered column list plus rows keyed by column name.
//
// Cell values are one of string, int64, float64 or nil. Stages hand a Table
// off by ownership; a stage that needs to change data works on a Clone.
package records

import (
	"fmt"
	"slices"
)

// Record is a single row keyed by column name.
type Record map[string]any

// Table is an ordered sequence of uniformly-shaped rows.
type Table struct {
	Columns []string
	Rows    []Record
}

// New returns an empty table with the given columns.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// Append adds a row built from positional values. Missing trailing values are
// stored as nil; extra values are an error.
func (t *Table) Append(values ...any) error {
	if len(values) > len(t.Columns) {
		return fmt.Errorf("records: row has %d values for %d columns", len(values), len(t.Columns))
	}
	rec := make(Record, len(t.Columns))
	for i, c := range t.Columns {
		if i < len(values) {
			rec[c] = values[i]
		} else {
			rec[c] = nil
		}
	}
	t.Rows = append(t.Rows, rec)
	return nil
}

// AddColumn appends a column (or keeps its position if it already exists)
// and fills it row by row with fn.
func (t *Table) AddColumn(name string, fn func(Record) any) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
	for _, r := range t.Rows {
		r[name] = fn(r)
	}
}

// RenameColumn renames from to to in place, keeping the column position.
func (t *Table) RenameColumn(from, to string) error {
	if from == to {
		return nil
	}
	i := slices.Index(t.Columns, from)
	if i < 0 {
		return fmt.Errorf("records: unknown column %q", from)
	}
	if t.HasColumn(to) {
		return fmt.Errorf("records: column %q already exists", to)
	}
	t.Columns[i] = to
	for _, r := range t.Rows {
		r[to] = r[from]
		delete(r, from)
	}
	return nil
}

// Values returns the row's cells in column order.
func (t *Table) Values(r Record) []any {
	out := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = r[c]
	}
	return out
}

// Matrix returns all rows as positional slices aligned to Columns.
func (t *Table) Matrix() [][]any {
	out := make([][]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = t.Values(r)
	}
	return out
}

// Clone returns a deep copy of the column list and rows. Cell values are
// immutable scalars so a shallow copy per row is enough.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Record, len(t.Rows)),
	}
	for i, r := range t.Rows {
		cp := make(Record, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out.Rows[i] = cp
	}
	return out
}
