package html

import (
	"strconv"
	"strings"
)

// TypeColumns converts raw cell text to typed values one column at a time:
// a column whose non-empty cells all parse as integers becomes int64, one
// whose cells all parse as numbers becomes float64, anything else stays
// string. Thousands separators are removed before numeric parsing. Empty
// cells become nil regardless of column type. Rows are padded with nil or
// truncated to width.
func TypeColumns(rows [][]string, width int, thousands string) [][]any {
	out := make([][]any, len(rows))
	for i := range out {
		out[i] = make([]any, width)
	}

	for col := 0; col < width; col++ {
		allInt, allNum := true, true
		for _, r := range rows {
			s := cell(r, col)
			if s == "" {
				continue
			}
			s = stripThousands(s, thousands)
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				allInt = false
			}
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				allNum = false
				break
			}
		}

		for i, r := range rows {
			s := cell(r, col)
			if s == "" {
				out[i][col] = nil
				continue
			}
			n := stripThousands(s, thousands)
			switch {
			case allInt:
				v, _ := strconv.ParseInt(n, 10, 64)
				out[i][col] = v
			case allNum:
				v, _ := strconv.ParseFloat(n, 64)
				out[i][col] = v
			default:
				out[i][col] = s
			}
		}
	}
	return out
}

func cell(r []string, i int) string {
	if i < len(r) {
		return strings.TrimSpace(r[i])
	}
	return ""
}

func stripThousands(s, sep string) string {
	if sep == "" {
		return s
	}
	return strings.ReplaceAll(s, sep, "")
}
