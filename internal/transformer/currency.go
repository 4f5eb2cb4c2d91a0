package transformer

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"banketl/internal/records"
)

// DefaultBaseColumn holds market capitalization in billions of US dollars.
const DefaultBaseColumn = "MC_USD_Billion"

// RequiredCurrencies are converted on every run, in this column order.
var RequiredCurrencies = []string{"GBP", "EUR", "INR"}

// ErrMissingCurrency matches every *MissingCurrencyError.
var ErrMissingCurrency = errors.New("exchange rates missing required currency")

// MissingCurrencyError lists the required codes absent from the rate table.
type MissingCurrencyError struct {
	Missing []string
}

func (e *MissingCurrencyError) Error() string {
	return fmt.Sprintf("transform: exchange rates missing required currencies: %s", strings.Join(e.Missing, ", "))
}

func (e *MissingCurrencyError) Is(target error) bool { return target == ErrMissingCurrency }

// MissingColumnError reports that the base column is not in the table.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("transform: base column %q not found", e.Column)
}

// Rates maps an upper-case currency code to the number of units per USD.
type Rates map[string]float64

// Missing returns the codes in want that r lacks, sorted.
func (r Rates) Missing(want []string) []string {
	var out []string
	for _, c := range want {
		if _, ok := r[strings.ToUpper(c)]; !ok {
			out = append(out, strings.ToUpper(c))
		}
	}
	slices.Sort(out)
	return out
}

// DerivedColumn names the converted column for a currency code.
func DerivedColumn(code string) string {
	return "MC_" + strings.ToUpper(code) + "_Billion"
}

// Currency appends one MC_<CCY>_Billion column per required currency equal
// to round(base * rate, 2). Every required rate is checked before any
// column is computed.
type Currency struct {
	Rates Rates

	// Base is the USD column; DefaultBaseColumn when empty.
	Base string

	// Currencies overrides RequiredCurrencies.
	Currencies []string
}

func (c Currency) Apply(in *records.Table) (*records.Table, error) {
	codes := c.Currencies
	if len(codes) == 0 {
		codes = RequiredCurrencies
	}
	if missing := c.Rates.Missing(codes); len(missing) > 0 {
		return nil, &MissingCurrencyError{Missing: missing}
	}

	base := c.Base
	if base == "" {
		base = DefaultBaseColumn
	}
	if !in.HasColumn(base) {
		return nil, &MissingColumnError{Column: base}
	}

	for _, code := range codes {
		if r := c.Rates[strings.ToUpper(code)]; math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("transform: rate for %s is not finite: %v", strings.ToUpper(code), r)
		}
	}

	out := in.Clone()
	for _, code := range codes {
		rate := c.Rates[strings.ToUpper(code)]
		out.AddColumn(DerivedColumn(code), func(r records.Record) any {
			return Convert(r[base], rate)
		})
	}
	return out, nil
}

// Convert multiplies a numeric cell by rate in float64 and rounds the
// product to 2 places, half to even, on its exact binary value. A product
// that is not exactly a tie (2.675 is stored as 2.67499...) rounds toward
// its true side. Non-numeric, nil and non-finite results convert to nil.
func Convert(v any, rate float64) any {
	var base float64
	switch x := v.(type) {
	case float64:
		base = x
	case int64:
		base = float64(x)
	default:
		return nil
	}
	p := base * rate
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return nil
	}
	exact, err := decimal.NewFromString(strconv.FormatFloat(p, 'f', exactDigits, 64))
	if err != nil {
		return nil
	}
	f, _ := exact.RoundBank(2).Float64()
	return f
}

// exactDigits is enough fractional digits to tell a float64 in the
// market-cap range apart from the nearest 2-place tie.
const exactDigits = 40
