// Package storage defines the relational sink used by the loader and the
// query runner, plus a small factory so the binary can pick a backend by
// name ("sqlite", "postgres", "mssql") from configuration.
//
// Backends register themselves from init; import
// banketl/internal/storage/all to enable every built-in backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"banketl/internal/records"
)

// WriteMode selects what WriteTable does when the target table exists.
type WriteMode int

const (
	// Replace drops the table and recreates it with the new rows.
	Replace WriteMode = iota
	// Append keeps existing rows and inserts the new ones after them,
	// creating the table first if needed.
	Append
	// FailIfExists refuses to touch an existing table.
	FailIfExists
)

func (m WriteMode) String() string {
	switch m {
	case Replace:
		return "replace"
	case Append:
		return "append"
	case FailIfExists:
		return "fail"
	default:
		return fmt.Sprintf("WriteMode(%d)", int(m))
	}
}

// ParseWriteMode accepts "replace" (also ""), "append" and "fail"
// (also "fail_if_exists"), case-insensitively.
func ParseWriteMode(s string) (WriteMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replace":
		return Replace, nil
	case "append":
		return Append, nil
	case "fail", "fail_if_exists", "failifexists":
		return FailIfExists, nil
	default:
		return Replace, fmt.Errorf("unknown write mode %q (want replace, append or fail)", s)
	}
}

// ErrTableExists is returned by WriteTable in FailIfExists mode.
var ErrTableExists = errors.New("table already exists")

// ResultSet is a fully-read query result.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Repository is an open connection to a relational store.
type Repository interface {
	// WriteTable persists every row of t into table according to mode and
	// returns the number of rows written. Column types are inferred from
	// the cell values.
	WriteTable(ctx context.Context, table string, t *records.Table, mode WriteMode) (int64, error)

	// Query runs a read-only statement and returns all rows.
	Query(ctx context.Context, query string) (*ResultSet, error)

	// Close releases the underlying connection(s).
	Close()
}

// Config selects and configures a backend.
type Config struct {
	// Kind is the registered backend name; "sqlite" when empty.
	Kind string
	// DSN is passed to the backend driver (a file path for sqlite).
	DSN string
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// ListKinds returns the registered backend names, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	kind := cfg.Kind
	if kind == "" {
		kind = "sqlite"
	}
	mu.RLock()
	f, ok := factories[kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", kind)
	}
	return f(ctx, cfg)
}
