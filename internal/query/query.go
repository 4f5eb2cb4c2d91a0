// Package query runs SQL statements against the loaded table and prints
// each result under a "Query Statement:" / "Query Output:" banner.
package query

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"banketl/internal/storage"
)

// ErrQuery matches every *QueryError via errors.Is.
var ErrQuery = errors.New("query failed")

// QueryError is returned when the store rejects a statement.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query: %q: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

func (e *QueryError) Is(target error) bool { return target == ErrQuery }

// Defaults returns the three statements the pipeline runs after loading
// table.
func Defaults(table string) []string {
	return []string{
		"SELECT * FROM " + table,
		"SELECT AVG(MC_GBP_Billion) FROM " + table,
		"SELECT * FROM " + table + " LIMIT 5",
	}
}

// Runner executes statements on an open repository and writes the framed
// results to Out (os.Stdout when nil).
type Runner struct {
	Repo storage.Repository
	Out  io.Writer
}

// Run executes q and prints it followed by its rows and a blank line. The
// result is also returned for callers that want the values.
func (r *Runner) Run(ctx context.Context, q string) (*storage.ResultSet, error) {
	rs, err := r.Repo.Query(ctx, q)
	if err != nil {
		return nil, &QueryError{Query: q, Err: err}
	}

	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "Query Statement: %s\n", q)
	fmt.Fprintln(out, "Query Output:")
	for _, row := range rs.Rows {
		fmt.Fprintln(out, FormatTuple(row))
	}
	fmt.Fprintln(out)
	return rs, nil
}

// RunAll runs each statement in order and stops at the first failure. It
// returns the total number of result rows printed.
func (r *Runner) RunAll(ctx context.Context, queries []string) (int, error) {
	total := 0
	for _, q := range queries {
		rs, err := r.Run(ctx, q)
		if err != nil {
			return total, err
		}
		total += len(rs.Rows)
	}
	return total, nil
}
