// Package ddl renders CREATE/DROP statements for tables inferred from a
// records.Table. Dialects plug in their own identifier quoting and type
// names.
package ddl

import (
	"errors"
	"fmt"
	"strings"

	"banketl/internal/records"
	"banketl/internal/storage"
)

// ErrDuplicateColumn is returned when two column names become the same
// identifier once quoted. All supported backends compare identifiers
// without regard to case, so "Name" and "name" collide.
var ErrDuplicateColumn = errors.New("ddl: duplicate column")

// Dialect is the per-backend part of DDL rendering.
type Dialect struct {
	// Quote quotes one identifier.
	Quote func(string) string
	// Type maps an inferred column kind to a column type.
	Type func(storage.Kind) string
}

// FromTable builds a TableDef for t with types chosen by d.
func FromTable(name string, t *records.Table, d Dialect) TableDef {
	kinds := storage.InferKinds(t)
	def := TableDef{Name: name, Columns: make([]ColumnDef, len(t.Columns))}
	for i, c := range t.Columns {
		def.Columns[i] = ColumnDef{Name: c, SQLType: d.Type(kinds[i])}
	}
	return def
}

// BuildCreateTableSQL renders:
//
//	CREATE TABLE <name> (
//	  <col1> <TYPE>,
//	  <col2> <TYPE>
//	)
func BuildCreateTableSQL(t TableDef, d Dialect) (string, error) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: table %s has no columns", name)
	}

	cols := make([]string, len(t.Columns))
	seen := make(map[string]string, len(t.Columns))
	for i, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return "", fmt.Errorf("ddl: column %d of %s has an empty name", i, name)
		}
		if strings.TrimSpace(c.SQLType) == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", c.Name)
		}
		quoted := d.Quote(c.Name)
		key := strings.ToLower(quoted)
		if prev, ok := seen[key]; ok {
			return "", fmt.Errorf("%w: %q and %q in %s both become %s", ErrDuplicateColumn, prev, c.Name, name, quoted)
		}
		seen[key] = c.Name
		cols[i] = quoted + " " + c.SQLType
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", QuoteQualified(name, d.Quote), strings.Join(cols, ",\n  ")), nil
}

// BuildDropTableSQL renders DROP TABLE IF EXISTS for name.
func BuildDropTableSQL(name string, d Dialect) string {
	return "DROP TABLE IF EXISTS " + QuoteQualified(name, d.Quote)
}

// QuoteQualified quotes each dot-separated segment of name.
func QuoteQualified(name string, quote func(string) string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = quote(p)
	}
	return strings.Join(parts, ".")
}

// QuoteDouble quotes an identifier with double quotes, doubling embedded
// quotes (SQLite, Postgres).
func QuoteDouble(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// QuoteBracket quotes an identifier with [brackets], doubling ] (SQL Server).
func QuoteBracket(id string) string {
	return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]`
}
