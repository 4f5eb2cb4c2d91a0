// Package etl runs the full pipeline for one config.Pipeline: extract the
// market-cap table, convert currencies, write the CSV and the database
// table, then run the queries. Stages run one after another on the calling
// goroutine.
package etl

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"banketl/internal/config"
	"banketl/internal/datasource"
	"banketl/internal/datasource/httpds"
	"banketl/internal/extract"
	"banketl/internal/loader"
	"banketl/internal/metrics"
	"banketl/internal/progress"
	"banketl/internal/query"
	"banketl/internal/records"
	"banketl/internal/report"
	"banketl/internal/storage"
	"banketl/internal/transformer"
)

// Progress messages, in the order a successful run writes them.
const (
	MsgPreliminaries = "Preliminaries complete. Initiating ETL process"
	MsgTransformDone = "Data transformation complete. Initiating Loading process"
	MsgCSVSaved      = "Data saved to CSV file"
	MsgSQLConnected  = "SQL Connection initiated"
	MsgDBLoaded      = "Data loaded to Database as a table, Executing queries"
	MsgProcessDone   = "Process Complete"
	MsgServerClosed  = "Server Connection closed"
)

// Options are run-time knobs that do not belong in the pipeline file.
type Options struct {
	// Stdout receives the rendered tables and query output; os.Stdout when nil.
	Stdout io.Writer
	// RunID identifies the run in logs; a random UUID when empty.
	RunID string
	// Verbose enables operational logging.
	Verbose bool
	// Quiet skips printing the extracted and transformed tables.
	Quiet bool
}

// Result summarizes a successful run.
type Result struct {
	RunID       string
	Extracted   int
	Loaded      int64
	QueryRows   int
	Fingerprint uint64
	Table       *records.Table
}

// newRepository is a test seam over storage.New.
var newRepository = storage.New

// Run executes p end to end. Progress lines are appended to p.LogPath as
// each stage finishes, so a failed run keeps the entries written before the
// failure.
func Run(ctx context.Context, p config.Pipeline, opts Options) (*Result, error) {
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	res := &Result{RunID: runID}

	mode, err := storage.ParseWriteMode(p.Storage.WriteMode)
	if err != nil {
		return nil, fmt.Errorf("etl: %w", err)
	}

	plog := progress.New(p.LogPath)
	if err := plog.Log(MsgPreliminaries); err != nil {
		return nil, err
	}
	if opts.Verbose {
		log.Printf("etl: run=%s source=%s storage=%s table=%s", runID, p.SourceURL, p.Storage.Kind, p.Storage.Table)
	}

	client := httpds.NewClient(httpds.Config{
		Timeout:            p.HTTP.Timeout(),
		MaxRetries:         p.HTTP.MaxRetries,
		InsecureSkipVerify: p.HTTP.InsecureSkipVerify,
		UserAgent:          p.HTTP.UserAgent,
	})

	// Extract.
	exOpts := extract.Options{
		Marker:          p.Extract.Marker,
		Thousands:       p.Extract.Thousands,
		StrictMarketCap: p.Extract.StrictMarketCap,
	}
	if p.Extract.RenamesMarketCap() {
		exOpts.RenameTo = p.Transform.BaseColumn
	}
	ex := extract.New(client, plog, exOpts)
	ex.Verbose = opts.Verbose

	var extracted *records.Table
	err = step(p.Job, "extract", func() (err error) {
		extracted, err = ex.Extract(ctx, p.SourceURL)
		return err
	})
	if err != nil {
		return nil, err
	}
	res.Extracted = extracted.Len()
	metrics.RecordRow(p.Job, "extracted", int64(extracted.Len()))
	if !opts.Quiet {
		report.Print(out, "Extracted", extracted)
	}

	// Transform.
	var transformed *records.Table
	err = step(p.Job, "transform", func() error {
		rates, err := transformer.LoadRates(ctx, datasource.For(p.ExchangeRateSource, client))
		if err != nil {
			return err
		}
		transformed, err = transformer.Currency{
			Rates:      rates,
			Base:       p.Transform.BaseColumn,
			Currencies: p.Transform.Currencies,
		}.Apply(extracted)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordRow(p.Job, "transformed", int64(transformed.Len()))
	if !opts.Quiet {
		report.Print(out, "Transformed", transformed)
	}
	res.Table = transformed
	if err := plog.Log(MsgTransformDone); err != nil {
		return nil, err
	}

	// Load: CSV.
	if err := step(p.Job, "load_csv", func() error {
		return loader.ToCSV(transformed, p.CSVOutputPath)
	}); err != nil {
		return nil, err
	}
	if err := plog.Log(MsgCSVSaved); err != nil {
		return nil, err
	}

	// Load: database. The repository stays open for the queries.
	repo, err := newRepository(ctx, storage.Config{Kind: p.Storage.Kind, DSN: p.Storage.DSN})
	if err != nil {
		return nil, &loader.PersistenceError{Sink: "db", Target: p.Storage.Table, Err: err}
	}
	closed := false
	closeRepo := func() error {
		if closed {
			return nil
		}
		closed = true
		repo.Close()
		return plog.Log(MsgServerClosed)
	}
	defer func() { _ = closeRepo() }()

	if err := plog.Log(MsgSQLConnected); err != nil {
		return nil, err
	}

	err = step(p.Job, "load_db", func() (err error) {
		res.Loaded, err = loader.ToDB(ctx, transformed, repo, p.Storage.Table, mode)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordRow(p.Job, "loaded", res.Loaded)
	res.Fingerprint = transformed.Fingerprint()
	if opts.Verbose {
		log.Printf("etl: loaded %d rows into %s (fingerprint %016x)", res.Loaded, p.Storage.Table, res.Fingerprint)
	}
	if err := plog.Log(MsgDBLoaded); err != nil {
		return nil, err
	}

	// Queries.
	queries := p.Queries
	if len(queries) == 0 {
		queries = query.Defaults(p.Storage.Table)
	}
	runner := &query.Runner{Repo: repo, Out: out}
	err = step(p.Job, "query", func() (err error) {
		res.QueryRows, err = runner.RunAll(ctx, queries)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordRow(p.Job, "query_rows", int64(res.QueryRows))
	if rs, err := repo.Query(ctx, "SELECT COUNT(*) FROM "+p.Storage.Table); err == nil && len(rs.Rows) == 1 {
		if n, ok := rs.Rows[0][0].(int64); ok {
			metrics.RecordTableRows(p.Job, p.Storage.Table, n)
		}
	}

	if err := plog.Log(MsgProcessDone); err != nil {
		return nil, err
	}
	if err := closeRepo(); err != nil {
		return nil, err
	}
	return res, nil
}

// step times fn and records it under name.
func step(job, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(job, name, err, time.Since(start))
	return err
}
