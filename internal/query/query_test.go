package query

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"banketl/internal/records"
	"banketl/internal/storage"
	_ "banketl/internal/storage/sqlite"
)

func TestFormatTuple(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		row  []any
		want string
	}{
		{"mixed", []any{int64(1), "JPMorgan Chase", 432.92}, "(1, 'JPMorgan Chase', 432.92)"},
		{"single", []any{51.9}, "(51.9,)"},
		{"nil", []any{"x", nil}, "('x', None)"},
		{"whole_float", []any{100.0}, "(100.0,)"},
		{"quote", []any{"O'Brien"}, `('O\'Brien',)`},
		{"large", []any{1e16}, "(1e+16,)"},
		{"small", []any{0.00001}, "(1e-05,)"},
		{"empty", []any{}, "()"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatTuple(tc.row); got != tc.want {
				t.Fatalf("FormatTuple(%v) = %s, want %s", tc.row, got, tc.want)
			}
		})
	}
}

func openRepo(tb testing.TB) storage.Repository {
	tb.Helper()
	ctx := context.Background()
	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", DSN: filepath.Join(tb.TempDir(), "Banks.db")})
	if err != nil {
		tb.Fatalf("storage.New: %v", err)
	}
	tb.Cleanup(repo.Close)

	tbl := records.New("Name", "MC_USD_Billion", "MC_GBP_Billion")
	_ = tbl.Append("JPMorgan Chase", 432.92, 346.5)
	_ = tbl.Append("Bank of America", 231.52, 185.25)
	if _, err := repo.WriteTable(ctx, "Largest_banks", tbl, storage.Replace); err != nil {
		tb.Fatalf("WriteTable: %v", err)
	}
	return repo
}

func TestRunner_PrintsFramedOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := &Runner{Repo: openRepo(t), Out: &buf}
	if _, err := r.Run(context.Background(), "SELECT Name, MC_USD_Billion FROM Largest_banks LIMIT 1"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := "Query Statement: SELECT Name, MC_USD_Billion FROM Largest_banks LIMIT 1\n" +
		"Query Output:\n" +
		"('JPMorgan Chase', 432.92)\n" +
		"\n"
	if buf.String() != want {
		t.Fatalf("output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestRunner_RunAllDefaults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := &Runner{Repo: openRepo(t), Out: &buf}
	n, err := r.RunAll(context.Background(), Defaults("Largest_banks"))
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	// 2 rows + 1 average + 2 rows.
	if n != 5 {
		t.Fatalf("rows = %d, want 5", n)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Query Statement: SELECT AVG(MC_GBP_Billion) FROM Largest_banks\nQuery Output:\n(265.875,)\n")) {
		t.Fatalf("average block missing:\n%s", buf.String())
	}
}

func TestRunner_QueryError(t *testing.T) {
	t.Parallel()

	r := &Runner{Repo: openRepo(t), Out: &bytes.Buffer{}}
	_, err := r.RunAll(context.Background(), []string{"SELECT * FROM Largest_banks", "SELECT * FROM nowhere"})

	var qe *QueryError
	if !errors.As(err, &qe) || !errors.Is(err, ErrQuery) {
		t.Fatalf("err = %v, want *QueryError", err)
	}
	if qe.Query != "SELECT * FROM nowhere" {
		t.Fatalf("Query = %q", qe.Query)
	}
}
