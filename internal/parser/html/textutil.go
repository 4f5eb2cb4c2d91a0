// Package html turns an HTML <table> into header and row text, the way a
// spreadsheet-style reader would: cell text only, whitespace collapsed,
// colspans expanded.
package html

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CollapseWhitespace replaces runs of whitespace with a single ASCII space
// and trims both ends.
func CollapseWhitespace(s string) string {
	if s == "" {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	seenSpace := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			if !seenSpace {
				b.WriteByte(' ')
				seenSpace = true
			}
		default:
			b.WriteRune(r)
			seenSpace = false
		}
	}

	return strings.TrimSpace(b.String())
}

// CleanText maps every Unicode space separator (NBSP, thin space) to an
// ASCII space, composes to NFC and collapses whitespace. Other characters
// keep their identity, so a superscript footnote digit stays a superscript
// and is dropped by numeric coercion.
func CleanText(s string) string {
	if s == "" {
		return s
	}
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Zs, r) {
			return ' '
		}
		return r
	}, s)
	return CollapseWhitespace(norm.NFC.String(s))
}

// HeaderText folds compatibility characters (full-width letters, ligatures)
// to their plain forms as well. It is only used for header cells, where the
// result becomes a column name.
func HeaderText(s string) string {
	if s == "" {
		return s
	}
	return CleanText(norm.NFKC.String(s))
}
