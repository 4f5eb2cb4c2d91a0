// Package report prints a records.Table to a terminal.
package report

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"banketl/internal/records"
)

// NewTable returns a rounded-style table writer mirroring to w (stdout when
// nil).
func NewTable(w io.Writer) table.Writer {
	if w == nil {
		w = os.Stdout
	}
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// Print renders t with a leading row-number column and a title and shape
// caption, then returns the rendered text.
func Print(w io.Writer, title string, t *records.Table) string {
	tw := NewTable(w)
	if title != "" {
		tw.SetTitle(title)
	}

	header := make(table.Row, 0, len(t.Columns)+1)
	header = append(header, "")
	for _, c := range t.Columns {
		header = append(header, c)
	}
	tw.AppendHeader(header)

	for i, r := range t.Rows {
		row := make(table.Row, 0, len(t.Columns)+1)
		row = append(row, i)
		for _, c := range t.Columns {
			row = append(row, records.FormatValue(r[c]))
		}
		tw.AppendRow(row)
	}
	tw.SetCaption("[%d rows x %d columns]", t.Len(), len(t.Columns))
	return tw.Render()
}
