// Package loader persists a records.Table to its two sinks: a CSV file and a
// relational table behind storage.Repository.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"banketl/internal/records"
	"banketl/internal/storage"
)

// ErrPersistence matches every *PersistenceError via errors.Is.
var ErrPersistence = errors.New("persistence failed")

// PersistenceError wraps a failure to write to a sink ("csv" or "db").
type PersistenceError struct {
	Sink   string
	Target string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("loader: %s %s: %v", e.Sink, e.Target, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// ToCSV writes t to path, replacing any existing file: one header row, then
// one line per row in column order. No index column is written; nil cells
// are empty.
func ToCSV(t *records.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &PersistenceError{Sink: "csv", Target: path, Err: err}
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		_ = f.Close()
		return &PersistenceError{Sink: "csv", Target: path, Err: err}
	}
	line := make([]string, len(t.Columns))
	for _, r := range t.Rows {
		for i, c := range t.Columns {
			line[i] = records.FormatValue(r[c])
		}
		if err := w.Write(line); err != nil {
			_ = f.Close()
			return &PersistenceError{Sink: "csv", Target: path, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return &PersistenceError{Sink: "csv", Target: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &PersistenceError{Sink: "csv", Target: path, Err: err}
	}
	return nil
}

// ToDB writes t into table through repo according to mode and returns the
// number of rows written.
func ToDB(ctx context.Context, t *records.Table, repo storage.Repository, table string, mode storage.WriteMode) (int64, error) {
	n, err := repo.WriteTable(ctx, table, t, mode)
	if err != nil {
		return n, &PersistenceError{Sink: "db", Target: table, Err: err}
	}
	return n, nil
}
