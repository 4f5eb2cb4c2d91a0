package records

import (
	"fmt"
	"math"
	"strconv"
)

// FormatValue renders a cell for text sinks (CSV, console). Floats use the
// shortest representation that round-trips; nil renders as "".
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		return x
	default:
		return toString(v)
	}
}

func toString(v any) string {
	return fmt.Sprint(v)
}
