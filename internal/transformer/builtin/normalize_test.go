package builtin

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"banketl/internal/records"
)

func TestColumnName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Rank":                     "rank",
		"Bank name":                "bank_name",
		"Market cap (US$ billion)": "market_cap_us$_billion",
		"MC_USD_Billion":           "mc_usd_billion",
	}
	for in, want := range cases {
		if got := ColumnName(in); got != want {
			t.Errorf("ColumnName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeColumns(t *testing.T) {
	t.Parallel()

	in := records.New("Rank", "Bank name", "Bank Name")
	if err := in.Append(int64(1), "JPMorgan Chase", "dup"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	out, err := NormalizeColumns{}.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if diff := cmp.Diff([]string{"rank", "bank_name", "bank_name.1"}, out.Columns); diff != "" {
		t.Fatalf("columns (-want +got):\n%s", diff)
	}
	want := records.Record{"rank": int64(1), "bank_name": "JPMorgan Chase", "bank_name.1": "dup"}
	if diff := cmp.Diff(want, out.Rows[0]); diff != "" {
		t.Fatalf("row (-want +got):\n%s", diff)
	}
	if in.Columns[0] != "Rank" {
		t.Fatalf("input columns mutated")
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	in := records.New("a", "b", "c")
	if err := in.Append("  JPMorgan Chase ", 1.5, nil); err != nil {
		t.Fatalf("Append: %v", err)
	}
	out, err := Normalize{}.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := records.Record{"a": "JPMorgan Chase", "b": 1.5, "c": nil}
	if diff := cmp.Diff(want, out.Rows[0]); diff != "" {
		t.Fatalf("row (-want +got):\n%s", diff)
	}
	if in.Rows[0]["a"] == "JPMorgan Chase" {
		t.Fatalf("input mutated")
	}
}
