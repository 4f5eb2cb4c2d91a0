package transformer

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"banketl/internal/records"
)

var labRates = Rates{"GBP": 0.8, "EUR": 0.93, "INR": 82.95}

func banks(tb testing.TB, usd ...any) *records.Table {
	tb.Helper()
	t := records.New("bank_name", DefaultBaseColumn)
	for i, v := range usd {
		if err := t.Append(string(rune('A'+i)), v); err != nil {
			tb.Fatalf("Append: %v", err)
		}
	}
	return t
}

func TestCurrency_ConcreteRow(t *testing.T) {
	t.Parallel()

	out, err := Currency{Rates: Rates{"GBP": 0.8, "EUR": 0.93, "INR": 82.5}}.Apply(banks(t, 100.0))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	wantCols := []string{"bank_name", "MC_USD_Billion", "MC_GBP_Billion", "MC_EUR_Billion", "MC_INR_Billion"}
	if diff := cmp.Diff(wantCols, out.Columns); diff != "" {
		t.Fatalf("columns (-want +got):\n%s", diff)
	}
	want := records.Record{
		"bank_name":      "A",
		"MC_USD_Billion": 100.0,
		"MC_GBP_Billion": 80.0,
		"MC_EUR_Billion": 93.0,
		"MC_INR_Billion": 8250.0,
	}
	if diff := cmp.Diff(want, out.Rows[0]); diff != "" {
		t.Fatalf("row (-want +got):\n%s", diff)
	}
}

func TestCurrency_MissingINR(t *testing.T) {
	t.Parallel()

	in := banks(t, 100.0, 200.0)
	out, err := Currency{Rates: Rates{"GBP": 0.8, "EUR": 0.93}}.Apply(in)
	if !errors.Is(err, ErrMissingCurrency) {
		t.Fatalf("err = %v, want ErrMissingCurrency", err)
	}
	var mce *MissingCurrencyError
	if !errors.As(err, &mce) || !cmp.Equal(mce.Missing, []string{"INR"}) {
		t.Fatalf("missing = %#v, want [INR]", mce)
	}
	if out.Len() != 0 {
		t.Fatalf("expected zero output rows, got %d", out.Len())
	}
	if in.HasColumn("MC_GBP_Billion") {
		t.Fatalf("input must not gain derived columns on failure")
	}
}

func TestCurrency_AllMissingSorted(t *testing.T) {
	t.Parallel()

	_, err := Currency{Rates: Rates{"USD": 1}}.Apply(banks(t, 1.0))
	var mce *MissingCurrencyError
	if !errors.As(err, &mce) {
		t.Fatalf("err = %v", err)
	}
	if diff := cmp.Diff([]string{"EUR", "GBP", "INR"}, mce.Missing); diff != "" {
		t.Fatalf("missing (-want +got):\n%s", diff)
	}
}

func TestCurrency_MissingBaseColumn(t *testing.T) {
	t.Parallel()

	_, err := Currency{Rates: labRates}.Apply(records.New("bank_name"))
	var mce *MissingColumnError
	if !errors.As(err, &mce) || mce.Column != DefaultBaseColumn {
		t.Fatalf("err = %v, want MissingColumnError", err)
	}
}

// TestCurrency_Pure checks the input is untouched and that two runs agree.
func TestCurrency_Pure(t *testing.T) {
	t.Parallel()

	in := banks(t, 432.92, 231.52, 194.56, 160.68, 157.91)
	before := in.Clone()

	c := Currency{Rates: labRates}
	a, err := c.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	b, err := c.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if diff := cmp.Diff(before, in); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("repeat run differs (-first +second):\n%s", diff)
	}
}

// TestConvert_RoundsHalfToEven pins ties and near-ties: exact binary ties go
// to the even digit, values stored just below a tie round down.
func TestConvert_RoundsHalfToEven(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base any
		rate float64
		want any
	}{
		{"exact_tie_down", 0.125, 1, 0.12},
		{"exact_tie_up", 0.375, 1, 0.38},
		{"negative_tie", -0.125, 1, -0.12},
		{"stored_below_tie", 1.005, 1, 1.0},
		{"stored_below_tie_2", 2.675, 1, 2.67},
		{"stored_above_tie", 0.135, 1, 0.14},
		{"plain", 432.92, 82.95, 35910.71},
		{"integer_base", int64(12), 0.8, 9.6},
		{"nil_base", nil, 0.8, nil},
		{"text_base", "n/a", 0.8, nil},
		{"overflow", 1e308, 1e10, nil},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Convert(tc.base, tc.rate); !cmp.Equal(got, tc.want) {
				t.Fatalf("Convert(%v, %v) = %#v, want %#v", tc.base, tc.rate, got, tc.want)
			}
		})
	}
}

func TestCurrency_NonFiniteRate(t *testing.T) {
	t.Parallel()

	_, err := Currency{Rates: Rates{"GBP": 0.8, "EUR": 0.93, "INR": math.NaN()}}.Apply(banks(t, 1.0))
	if err == nil || !strings.Contains(err.Error(), "INR") {
		t.Fatalf("err = %v, want non-finite INR rate error", err)
	}
}

func TestCurrency_NilBaseStaysNil(t *testing.T) {
	t.Parallel()

	out, err := Currency{Rates: labRates}.Apply(banks(t, nil, "n/a"))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for _, r := range out.Rows {
		for _, code := range RequiredCurrencies {
			if v := r[DerivedColumn(code)]; v != nil {
				t.Fatalf("%s = %#v, want nil", DerivedColumn(code), v)
			}
		}
	}
}

// TestCurrency_RecomputesExisting checks derived columns are overwritten, not
// duplicated, when the input already has them.
func TestCurrency_RecomputesExisting(t *testing.T) {
	t.Parallel()

	in := banks(t, 10.0)
	in.AddColumn("MC_GBP_Billion", func(records.Record) any { return 999.0 })

	out, err := Currency{Rates: labRates}.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out.Columns) != 5 {
		t.Fatalf("columns = %v, want 5 without duplicates", out.Columns)
	}
	if got := out.Rows[0]["MC_GBP_Billion"]; got != 8.0 {
		t.Fatalf("MC_GBP_Billion = %v, want 8", got)
	}
}

func TestChain_StopsOnError(t *testing.T) {
	t.Parallel()

	var calls int
	count := stepFunc(func(t *records.Table) (*records.Table, error) { calls++; return t, nil })
	_, err := Chain{count, Currency{}, count}.Apply(banks(t, 1.0))
	if !errors.Is(err, ErrMissingCurrency) {
		t.Fatalf("err = %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

type stepFunc func(*records.Table) (*records.Table, error)

func (f stepFunc) Apply(t *records.Table) (*records.Table, error) { return f(t) }
