package html

import (
	"errors"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"
)

// ErrNoHeader is returned when a table has no row made only of <th> cells.
var ErrNoHeader = errors.New("html: table has no header row")

// Table is the raw text content of an HTML table.
type Table struct {
	Header []string
	Rows   [][]string
}

// FindNext returns the first element named tag that follows n in document
// order, including n's own descendants. It mirrors a "find next" walk over
// the parse tree and returns nil when nothing matches.
func FindNext(n *xhtml.Node, tag string) *xhtml.Node {
	for cur := nextNode(n); cur != nil; cur = nextNode(cur) {
		if cur.Type == xhtml.ElementNode && cur.Data == tag {
			return cur
		}
	}
	return nil
}

func nextNode(n *xhtml.Node) *xhtml.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// ParseTable reads the header (the first row made only of <th> cells) and
// every later row of tbl. Rows of nested tables are ignored. Data rows are
// padded or truncated to the header width by the caller; ParseTable returns
// them as found, with colspans expanded.
func ParseTable(tbl *goquery.Selection) (*Table, error) {
	out := &Table{}

	rows := tbl.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").IsSelection(tbl)
	})

	rows.Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("th, td")
		if cells.Length() == 0 {
			return
		}
		if out.Header == nil {
			if cells.Length() == cells.Filter("th").Length() {
				out.Header = rowText(cells, HeaderText)
			}
			return
		}
		out.Rows = append(out.Rows, rowText(cells, CleanText))
	})

	if out.Header == nil {
		return nil, ErrNoHeader
	}
	return out, nil
}

func rowText(cells *goquery.Selection, clean func(string) string) []string {
	var out []string
	cells.Each(func(_ int, c *goquery.Selection) {
		text := cellText(c, clean)
		span := 1
		if v, ok := c.Attr("colspan"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 1 {
				span = n
			}
		}
		for i := 0; i < span; i++ {
			out = append(out, text)
		}
	})
	return out
}

// cellText treats <br> as a word break and drops footnote markers
// (<sup class="reference">) and hidden sort keys.
func cellText(c *goquery.Selection, clean func(string) string) string {
	c = c.Clone()
	c.Find("sup.reference, .sortkey, style, script").Remove()
	c.Find("br").ReplaceWithHtml(" ")
	return clean(c.Text())
}
