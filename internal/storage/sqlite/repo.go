// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql and the pure-Go modernc driver. Writes happen inside one
// transaction with a prepared INSERT; SQLite has no bulk-load API.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"banketl/internal/ddl"
	"banketl/internal/records"
	"banketl/internal/storage"

	_ "modernc.org/sqlite"
)

// Dialect renders SQLite DDL.
var Dialect = ddl.Dialect{
	Quote: ddl.QuoteDouble,
	Type: func(k storage.Kind) string {
		switch k {
		case storage.KindInteger:
			return "INTEGER"
		case storage.KindReal:
			return "REAL"
		default:
			return "TEXT"
		}
	},
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository opens a SQLite database and returns a Repository plus a
// close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// ":memory:" is per connection; one connection keeps a single database.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	return &Repository{db: db}, func() { db.Close() }, nil
}

// WriteTable implements storage.Repository.
func (r *Repository) WriteTable(ctx context.Context, table string, t *records.Table, mode storage.WriteMode) (int64, error) {
	def := ddl.FromTable(table, t, Dialect)
	create, err := ddl.BuildCreateTableSQL(def, Dialect)
	if err != nil {
		return 0, fmt.Errorf("sqlite: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	exists, err := tableExists(ctx, tx, table)
	if err != nil {
		return 0, err
	}
	switch {
	case exists && mode == storage.FailIfExists:
		return 0, fmt.Errorf("sqlite: %s: %w", table, storage.ErrTableExists)
	case exists && mode == storage.Replace:
		if _, err := tx.ExecContext(ctx, ddl.BuildDropTableSQL(table, Dialect)); err != nil {
			return 0, fmt.Errorf("sqlite: drop %s: %w", table, err)
		}
		exists = false
	}
	if !exists {
		if _, err := tx.ExecContext(ctx, create); err != nil {
			return 0, fmt.Errorf("sqlite: create %s: %w", table, err)
		}
	}

	n, err := insertRows(ctx, tx, table, t)
	if err != nil {
		return n, err
	}
	if err := tx.Commit(); err != nil {
		return n, fmt.Errorf("sqlite: commit: %w", err)
	}
	return n, nil
}

// Query implements storage.Repository.
func (r *Repository) Query(ctx context.Context, q string) (*storage.ResultSet, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query: %w", err)
	}
	rs, err := storage.ScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return rs, nil
}

func tableExists(ctx context.Context, tx *sql.Tx, table string) (bool, error) {
	var name string
	err := tx.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: lookup %s: %w", table, err)
	}
	return true, nil
}

func insertRows(ctx context.Context, tx *sql.Tx, table string, t *records.Table) (int64, error) {
	if len(t.Rows) == 0 {
		return 0, nil
	}
	kinds := storage.InferKinds(t)

	cols := make([]string, len(t.Columns))
	placeholders := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = Dialect.Quote(c)
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		ddl.QuoteQualified(table, Dialect.Quote),
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)

	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	args := make([]any, len(t.Columns))
	for _, row := range t.Rows {
		for i, c := range t.Columns {
			args[i] = storage.CellValue(row[c], kinds[i])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return inserted, fmt.Errorf("sqlite: insert: %w", err)
		}
		inserted++
	}
	return inserted, nil
}
