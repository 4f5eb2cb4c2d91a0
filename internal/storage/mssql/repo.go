// Package mssql implements a Microsoft SQL Server repository using the
// go-mssqldb bulk copy API. The table is (re)created and bulk-loaded inside
// one transaction.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"banketl/internal/ddl"
	"banketl/internal/records"
	"banketl/internal/storage"
)

// Config holds MSSQL repository configuration.
type Config struct {
	DSN string
}

// Dialect renders SQL Server DDL.
var Dialect = ddl.Dialect{
	Quote: ddl.QuoteBracket,
	Type: func(k storage.Kind) string {
		switch k {
		case storage.KindInteger:
			return "BIGINT"
		case storage.KindReal:
			return "FLOAT"
		default:
			return "NVARCHAR(MAX)"
		}
	},
}

// Repository is an MSSQL-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a Repository and returns a close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	return &Repository{db: db}, func() { _ = db.Close() }, nil
}

// WriteTable implements storage.Repository.
func (r *Repository) WriteTable(ctx context.Context, table string, t *records.Table, mode storage.WriteMode) (int64, error) {
	create, err := ddl.BuildCreateTableSQL(ddl.FromTable(table, t, Dialect), Dialect)
	if err != nil {
		return 0, fmt.Errorf("mssql: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	var exists bool
	if err := tx.QueryRowContext(ctx,
		"SELECT CAST(CASE WHEN OBJECT_ID(@p1, 'U') IS NULL THEN 0 ELSE 1 END AS BIT)",
		table).Scan(&exists); err != nil {
		rollback()
		return 0, fmt.Errorf("mssql: lookup %s: %w", table, err)
	}
	switch {
	case exists && mode == storage.FailIfExists:
		rollback()
		return 0, fmt.Errorf("mssql: %s: %w", table, storage.ErrTableExists)
	case exists && mode == storage.Replace:
		if _, err := tx.ExecContext(ctx, ddl.BuildDropTableSQL(table, Dialect)); err != nil {
			rollback()
			return 0, fmt.Errorf("mssql: drop %s: %w", table, err)
		}
		exists = false
	}
	if !exists {
		if _, err := tx.ExecContext(ctx, create); err != nil {
			rollback()
			return 0, fmt.Errorf("mssql: create %s: %w", table, err)
		}
	}

	n, err := bulkCopy(ctx, tx, table, t)
	if err != nil {
		rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

func bulkCopy(ctx context.Context, tx *sql.Tx, table string, t *records.Table) (int64, error) {
	if len(t.Rows) == 0 {
		return 0, nil
	}
	kinds := storage.InferKinds(t)

	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(table, mssql.BulkOptions{}, t.Columns...))
	if err != nil {
		return 0, fmt.Errorf("prepare bulk: %w", err)
	}
	args := make([]any, len(t.Columns))
	for i, row := range t.Rows {
		for j, c := range t.Columns {
			args[j] = storage.CellValue(row[c], kinds[j])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = stmt.Close()
			return 0, fmt.Errorf("bulk row %d: %w", i, err)
		}
	}
	// An empty Exec flushes the buffered rows.
	res, err := stmt.ExecContext(ctx)
	if cerr := stmt.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("bulk finalize: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Query implements storage.Repository.
func (r *Repository) Query(ctx context.Context, q string) (*storage.ResultSet, error) {
	rows, err := r.db.QueryContext(ctx, strings.TrimSpace(q))
	if err != nil {
		return nil, fmt.Errorf("mssql: query: %w", err)
	}
	rs, err := storage.ScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("mssql: %w", err)
	}
	return rs, nil
}
