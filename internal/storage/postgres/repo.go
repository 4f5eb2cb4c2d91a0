// Package postgres implements a Postgres repository using pgx v5. Rows are
// loaded with COPY inside the same transaction that (re)creates the table.
//
// Identifiers are folded to lower case before quoting so that unquoted
// names in ad-hoc queries ("SELECT AVG(MC_GBP_Billion) FROM Largest_banks")
// resolve the way Postgres folds them.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"banketl/internal/ddl"
	"banketl/internal/records"
	"banketl/internal/storage"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN string // connection string for pgxpool
}

// Dialect renders Postgres DDL with folded identifiers.
var Dialect = ddl.Dialect{
	Quote: pgIdent,
	Type: func(k storage.Kind) string {
		switch k {
		case storage.KindInteger:
			return "BIGINT"
		case storage.KindReal:
			return "DOUBLE PRECISION"
		default:
			return "TEXT"
		}
	},
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository and returns a close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Repository{pool: pool}, func() { pool.Close() }, nil
}

// WriteTable implements storage.Repository.
func (r *Repository) WriteTable(ctx context.Context, table string, t *records.Table, mode storage.WriteMode) (int64, error) {
	create, err := ddl.BuildCreateTableSQL(ddl.FromTable(table, t, Dialect), Dialect)
	if err != nil {
		return 0, fmt.Errorf("postgres: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL",
		ddl.QuoteQualified(table, pgIdent)).Scan(&exists); err != nil {
		return 0, fmt.Errorf("postgres: lookup %s: %w", table, err)
	}
	switch {
	case exists && mode == storage.FailIfExists:
		return 0, fmt.Errorf("postgres: %s: %w", table, storage.ErrTableExists)
	case exists && mode == storage.Replace:
		if _, err := tx.Exec(ctx, ddl.BuildDropTableSQL(table, Dialect)); err != nil {
			return 0, fmt.Errorf("postgres: drop %s: %w", table, err)
		}
		exists = false
	}
	if !exists {
		if _, err := tx.Exec(ctx, create); err != nil {
			return 0, fmt.Errorf("postgres: create %s: %w", table, err)
		}
	}

	n, err := tx.CopyFrom(ctx, splitFQN(table), foldAll(t.Columns), pgx.CopyFromRows(copyRows(t)))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return 0, fmt.Errorf("postgres: copy: %s (%s)", pgErr.Detail, pgErr.SQLState())
		}
		return 0, fmt.Errorf("postgres: copy: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("postgres: commit: %w", err)
	}
	return n, nil
}

// Query implements storage.Repository.
func (r *Repository) Query(ctx context.Context, q string) (*storage.ResultSet, error) {
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("postgres: query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	rs := &storage.ResultSet{Columns: make([]string, len(fields))}
	for i, f := range fields {
		rs.Columns[i] = f.Name
	}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("postgres: values: %w", err)
		}
		for i, v := range vals {
			vals[i] = normalizeValue(v)
		}
		rs.Rows = append(rs.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows: %w", err)
	}
	return rs, nil
}

// copyRows converts t into COPY rows, widening cells to each column's kind.
func copyRows(t *records.Table) [][]any {
	kinds := storage.InferKinds(t)
	out := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		vals := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			vals[j] = storage.CellValue(row[c], kinds[j])
		}
		out[i] = vals
	}
	return out
}

// normalizeValue maps pgx result types onto the int64/float64/string set the
// rest of the pipeline prints. AVG over DOUBLE PRECISION is already float64;
// AVG over BIGINT comes back as numeric.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case int32:
		return int64(x)
	case int16:
		return int64(x)
	case float32:
		return float64(x)
	case []byte:
		return string(x)
	case pgtype.Numeric:
		if f, err := x.Float64Value(); err == nil && f.Valid {
			return f.Float64
		}
		return nil
	}
	return v
}

// pgIdent folds and quotes a single identifier segment.
func pgIdent(id string) string { return ddl.QuoteDouble(strings.ToLower(id)) }

func foldAll(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = strings.ToLower(c)
	}
	return out
}

// splitFQN converts "schema.table" into a folded pgx.Identifier.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			id = append(id, strings.ToLower(p))
		}
	}
	return id
}
