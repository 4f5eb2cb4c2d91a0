package ddl

import (
	"errors"
	"strings"
	"testing"

	"banketl/internal/records"
	"banketl/internal/storage"
)

var testDialect = Dialect{
	Quote: QuoteDouble,
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

func TestFromTableAndCreate(t *testing.T) {
	t.Parallel()

	tbl := records.New("rank", "bank_name", "market_cap_us$_billion")
	_ = tbl.Append(int64(1), "JPMorgan Chase", 432.92)
	_ = tbl.Append(int64(2), "Bank of America", nil)

	sql, err := BuildCreateTableSQL(FromTable("Largest_banks", tbl, testDialect), testDialect)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	want := "CREATE TABLE \"Largest_banks\" (\n" +
		"  \"rank\" INTEGER,\n" +
		"  \"bank_name\" TEXT,\n" +
		"  \"market_cap_us$_billion\" REAL\n" +
		")"
	if sql != want {
		t.Fatalf("sql mismatch:\n got: %s\nwant: %s", sql, want)
	}
}

func TestBuildCreateTableSQL_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		def  TableDef
		want string
	}{
		{"empty_name", TableDef{Columns: []ColumnDef{{Name: "a", SQLType: "TEXT"}}}, "table name"},
		{"no_columns", TableDef{Name: "t"}, "no columns"},
		{"empty_column", TableDef{Name: "t", Columns: []ColumnDef{{SQLType: "TEXT"}}}, "empty name"},
		{"missing_type", TableDef{Name: "t", Columns: []ColumnDef{{Name: "a"}}}, "missing SQLType"},
		{"case_collision", TableDef{Name: "t", Columns: []ColumnDef{{Name: "Name", SQLType: "TEXT"}, {Name: "name", SQLType: "TEXT"}}}, `"Name" and "name"`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := BuildCreateTableSQL(tc.def, testDialect)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestBuildCreateTableSQL_FoldedCollision(t *testing.T) {
	t.Parallel()

	fold := Dialect{Quote: func(id string) string { return QuoteDouble(strings.ToLower(id)) }, Type: testDialect.Type}
	tbl := records.New("Rank", "rank")
	_ = tbl.Append(int64(1), int64(1))

	_, err := BuildCreateTableSQL(FromTable("banks", tbl, fold), fold)
	if !errors.Is(err, ErrDuplicateColumn) {
		t.Fatalf("err = %v, want ErrDuplicateColumn", err)
	}
}

func TestQuoting(t *testing.T) {
	t.Parallel()

	if got := QuoteQualified(`dbo.Largest"banks`, QuoteDouble); got != `"dbo"."Largest""banks"` {
		t.Fatalf("QuoteQualified double = %s", got)
	}
	if got := QuoteQualified("dbo.Largest]banks", QuoteBracket); got != "[dbo].[Largest]]banks]" {
		t.Fatalf("QuoteQualified bracket = %s", got)
	}
	if got := BuildDropTableSQL("Largest_banks", testDialect); got != `DROP TABLE IF EXISTS "Largest_banks"` {
		t.Fatalf("drop = %s", got)
	}
}
