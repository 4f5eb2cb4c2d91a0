package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatTuple renders a row the way a DB-API cursor row prints:
// (1, 'JPMorgan Chase', 432.92). A single value keeps its trailing comma,
// (51.9,), and nil prints as None.
func FormatTuple(row []any) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range row {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(FormatLiteral(v))
	}
	if len(row) == 1 {
		sb.WriteByte(',')
	}
	sb.WriteByte(')')
	return sb.String()
}

// FormatLiteral renders one value as a literal.
func FormatLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case string:
		return quote(x)
	case []byte:
		return "b" + quote(string(x))
	default:
		return quote(strings.TrimSpace(fmt.Sprint(x)))
	}
}

// formatFloat prints the shortest round-trip form, always with a decimal
// point or an exponent: 100 -> 100.0, 1e16 -> 1e+16, 0.00001 -> 1e-05.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return "'" + s + "'"
}
