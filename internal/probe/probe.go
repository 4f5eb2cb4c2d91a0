// Package probe inspects a source page before a pipeline is configured: it
// extracts the market-cap table once, reports the column kinds the loader
// would infer, renders the CREATE TABLE statement for a backend and builds
// a starter config.Pipeline.
package probe

import (
	"context"
	"fmt"
	"strings"

	"banketl/internal/config"
	"banketl/internal/datasource/httpds"
	"banketl/internal/ddl"
	"banketl/internal/extract"
	"banketl/internal/records"
	"banketl/internal/storage/mssql"
	"banketl/internal/storage/postgres"
	"banketl/internal/storage/sqlite"
)

// Options control a probe run.
type Options struct {
	// URL is the page (or local HTML file) to inspect.
	URL string
	// Marker is the id of the element preceding the table.
	Marker string
	// Backend selects the DDL dialect: sqlite, postgres or mssql.
	Backend string
	// Table names the destination table in the DDL and starter config.
	Table string
	// AllowInsecureTLS skips certificate verification.
	AllowInsecureTLS bool
}

// Column is one inferred destination column.
type Column struct {
	Name    string `json:"name"`
	SQLType string `json:"sql_type"`
	Nulls   int    `json:"nulls"`
}

// Result is what a probe found.
type Result struct {
	Table    *records.Table  `json:"-"`
	Columns  []Column        `json:"columns"`
	DDL      string          `json:"ddl"`
	Pipeline config.Pipeline `json:"pipeline"`
}

// Dialect returns the DDL dialect for a backend name.
func Dialect(backend string) (ddl.Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "sqlite", "sqlite3":
		return sqlite.Dialect, nil
	case "postgres", "postgresql", "pg":
		return postgres.Dialect, nil
	case "mssql", "sqlserver":
		return mssql.Dialect, nil
	default:
		return ddl.Dialect{}, fmt.Errorf("probe: unknown backend %q", backend)
	}
}

// Run fetches and extracts opt.URL and describes the result.
func Run(ctx context.Context, opt Options) (*Result, error) {
	if strings.TrimSpace(opt.URL) == "" {
		return nil, fmt.Errorf("probe: URL is required")
	}
	d, err := Dialect(opt.Backend)
	if err != nil {
		return nil, err
	}

	p := config.Default()
	p.SourceURL = opt.URL
	if opt.Marker != "" {
		p.Extract.Marker = opt.Marker
	}
	if opt.Table != "" {
		p.Storage.Table = opt.Table
	}
	if b := normalizeBackend(opt.Backend); b != "sqlite" {
		p.Storage.Kind = b
		p.Storage.DSN = ""
	}
	p.HTTP.InsecureSkipVerify = opt.AllowInsecureTLS

	client := httpds.NewClient(httpds.Config{
		Timeout:            p.HTTP.Timeout(),
		InsecureSkipVerify: opt.AllowInsecureTLS,
	})
	exOpts := extract.DefaultOptions()
	exOpts.Marker = p.Extract.Marker
	t, err := extract.New(client, nil, exOpts).Extract(ctx, opt.URL)
	if err != nil {
		return nil, err
	}
	return Describe(t, p, d)
}

// Describe builds a Result for an already-extracted table.
func Describe(t *records.Table, p config.Pipeline, d ddl.Dialect) (*Result, error) {
	def := ddl.FromTable(p.Storage.Table, t, d)
	create, err := ddl.BuildCreateTableSQL(def, d)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}

	cols := make([]Column, len(def.Columns))
	for i, c := range def.Columns {
		nulls := 0
		for _, r := range t.Rows {
			if r[t.Columns[i]] == nil {
				nulls++
			}
		}
		cols[i] = Column{Name: c.Name, SQLType: c.SQLType, Nulls: nulls}
	}
	return &Result{Table: t, Columns: cols, DDL: create, Pipeline: p}, nil
}

func normalizeBackend(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pg":
		return "postgres"
	case "mssql", "sqlserver":
		return "mssql"
	default:
		return "sqlite"
	}
}

// KindsSummary renders "name TYPE (n null)" lines for a terminal.
func KindsSummary(cols []Column) string {
	var sb strings.Builder
	for _, c := range cols {
		fmt.Fprintf(&sb, "%s %s", c.Name, c.SQLType)
		if c.Nulls > 0 {
			fmt.Fprintf(&sb, " (%d null)", c.Nulls)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

