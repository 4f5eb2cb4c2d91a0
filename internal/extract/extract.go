// Package extract pulls the market-capitalization table out of an HTML page
// and returns it as a records.Table with normalized column names and a
// numeric market-cap column.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"banketl/internal/datasource"
	"banketl/internal/datasource/httpds"
	htmlparser "banketl/internal/parser/html"
	"banketl/internal/progress"
	"banketl/internal/records"
	"banketl/internal/transformer"
	"banketl/internal/transformer/builtin"
)

const (
	DefaultMarker    = "By_market_capitalization"
	DefaultThousands = ","
)

// Options control how the table is located and shaped.
type Options struct {
	// Marker is the id of the element the table follows.
	Marker string
	// Thousands is the separator removed before numeric parsing.
	Thousands string
	// RenameTo, when set, renames the detected market-cap column in place.
	RenameTo string
	// StrictMarketCap fails extraction on an unparseable market-cap cell
	// instead of storing nil.
	StrictMarketCap bool
}

// DefaultOptions returns the options for the archived Wikipedia page.
func DefaultOptions() Options {
	return Options{
		Marker:    DefaultMarker,
		Thousands: DefaultThousands,
		RenameTo:  transformer.DefaultBaseColumn,
	}
}

// Extractor fetches and parses the source page. Progress may be nil.
type Extractor struct {
	Client   *httpds.Client
	Progress *progress.Logger
	Opts     Options
	Verbose  bool
}

// New returns an Extractor using client for http(s) sources.
func New(client *httpds.Client, p *progress.Logger, opts Options) *Extractor {
	if opts.Marker == "" {
		opts.Marker = DefaultMarker
	}
	return &Extractor{Client: client, Progress: p, Opts: opts}
}

// Extract reads ref (an http(s) URL or a local file path), locates the table
// following the marker element and returns its rows.
func (e *Extractor) Extract(ctx context.Context, ref string) (*records.Table, error) {
	e.logProgress("Data extraction started")

	client := e.Client
	if client == nil {
		client = httpds.NewClient(httpds.Config{})
	}
	rc, err := datasource.For(ref, client).Open(ctx)
	if err != nil {
		return nil, &ExtractionError{Op: "fetch", URL: ref, Err: err}
	}
	defer rc.Close()

	t, err := e.Parse(rc)
	if err != nil {
		var xe *ExtractionError
		if errors.As(err, &xe) {
			xe.URL = ref
		}
		return nil, err
	}

	e.logProgress("Data extraction complete. Initiating Transformation process")
	return t, nil
}

// Parse runs the extraction steps on an already-fetched document.
func (e *Extractor) Parse(r io.Reader) (*records.Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ExtractionError{Op: "parse", Err: err}
	}

	marker := doc.Find(fmt.Sprintf("[id=%q]", e.Opts.Marker)).First()
	if marker.Length() == 0 {
		return nil, &ExtractionError{Op: "locate", Err: fmt.Errorf("marker #%s not found", e.Opts.Marker)}
	}
	node := htmlparser.FindNext(marker.Nodes[0], "table")
	if node == nil {
		return nil, &ExtractionError{Op: "locate", Err: fmt.Errorf("no table after marker #%s", e.Opts.Marker)}
	}

	raw, err := htmlparser.ParseTable(doc.FindNodes(node))
	if err != nil {
		return nil, &ExtractionError{Op: "header", Err: err}
	}
	if e.Verbose {
		log.Printf("extract: table with %d columns, %d rows", len(raw.Header), len(raw.Rows))
	}

	t := records.New(uniqueNames(raw.Header)...)
	for _, row := range htmlparser.TypeColumns(raw.Rows, len(raw.Header), e.Opts.Thousands) {
		if err := t.Append(row...); err != nil {
			return nil, &ExtractionError{Op: "parse", Err: err}
		}
	}

	t, err = transformer.Chain{builtin.NormalizeColumns{}, builtin.Normalize{}}.Apply(t)
	if err != nil {
		return nil, &ExtractionError{Op: "parse", Err: err}
	}

	col, ok := MarketCapColumn(t.Columns)
	if !ok {
		return nil, &ExtractionError{Op: "market_cap", Err: fmt.Errorf("no market-cap column in %v", t.Columns)}
	}
	t, err = builtin.Numeric{Column: col, Strict: e.Opts.StrictMarketCap}.Apply(t)
	if err != nil {
		return nil, &ExtractionError{Op: "coerce", Err: err}
	}

	if e.Opts.RenameTo != "" && e.Opts.RenameTo != col {
		if err := t.RenameColumn(col, e.Opts.RenameTo); err != nil {
			return nil, &ExtractionError{Op: "market_cap", Err: err}
		}
	}
	return t, nil
}

// MarketCapColumn returns the first column whose name contains both
// "market" and "cap".
func MarketCapColumn(cols []string) (string, bool) {
	for _, c := range cols {
		lc := strings.ToLower(c)
		if strings.Contains(lc, "market") && strings.Contains(lc, "cap") {
			return c, true
		}
	}
	return "", false
}

// uniqueNames suffixes repeated header cells with ".1", ".2", ... and names
// blank ones by position.
func uniqueNames(header []string) []string {
	out := make([]string, len(header))
	seen := map[string]int{}
	for i, h := range header {
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		if n := seen[h]; n > 0 {
			seen[h] = n + 1
			h = h + "." + strconv.Itoa(n)
		} else {
			seen[h] = 1
		}
		out[i] = h
	}
	return out
}

func (e *Extractor) logProgress(msg string) {
	if e.Progress == nil {
		return
	}
	if err := e.Progress.Log(msg); err != nil {
		log.Printf("extract: progress log: %v", err)
	}
}
