package builtin

import (
	"errors"
	"math"
	"testing"

	"banketl/internal/records"
)

func TestParseNumber(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{"432.92", 432.92, true},
		{"1,194.47", 1194.47, true},
		{"$ 231.52 bn", 231.52, true},
		{"432.92[2]", 432.922, true},
		{int64(7), 7, true},
		{155.87, 155.87, true},
		{"n/a", 0, false},
		{"", 0, false},
		{"1.2.3", 0, false},
		{nil, 0, false},
		{math.NaN(), 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseNumber(tc.in)
		if ok != tc.wantOK || (ok && got != tc.want) {
			t.Errorf("ParseNumber(%#v) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestNumeric_Lenient(t *testing.T) {
	t.Parallel()

	in := records.New("market_cap")
	for _, v := range []any{"432.92", "n/a", 231.52, nil} {
		if err := in.Append(v); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	out, err := Numeric{Column: "market_cap"}.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := []any{432.92, nil, 231.52, nil}
	for i, w := range want {
		if got := out.Rows[i]["market_cap"]; got != w {
			t.Errorf("row %d = %#v, want %#v", i, got, w)
		}
	}
	if in.Rows[0]["market_cap"] != "432.92" {
		t.Fatalf("input mutated")
	}
}

func TestNumeric_Strict(t *testing.T) {
	t.Parallel()

	in := records.New("market_cap")
	_ = in.Append("432.92")
	_ = in.Append(nil)
	_ = in.Append("n/a")

	_, err := Numeric{Column: "market_cap", Strict: true}.Apply(in)
	var ce *CellError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *CellError", err)
	}
	if ce.Row != 2 {
		t.Fatalf("row = %d, want 2 (nil cells are not errors)", ce.Row)
	}
}

func TestNumeric_UnknownColumn(t *testing.T) {
	t.Parallel()

	if _, err := (Numeric{Column: "x"}).Apply(records.New("y")); err == nil {
		t.Fatalf("expected error for unknown column")
	}
}
