// Package config defines the pipeline configuration model: where the page
// and exchange rates come from, where results are written, and which
// queries run afterwards. Field names mirror the keys used in
// configs/pipelines/*.json5.
//
// Example (trimmed):
//
//	{
//	  job: "largest_banks",
//	  source_url: "https://web.archive.org/web/.../List_of_largest_banks",
//	  exchange_rate_source: "exchange_rate.csv",
//	  csv_output_path: "./Largest_banks_data.csv",
//	  storage: { kind: "sqlite", dsn: "Banks.db", table: "Largest_banks" },
//	}
package config

import "time"

// Pipeline describes one ETL run.
type Pipeline struct {
	// Job labels metrics and identifies the run in logs.
	Job string `json:"job"`

	// SourceURL is the page holding the market-cap table. A local file path
	// is accepted for offline runs.
	SourceURL string `json:"source_url"`

	// ExchangeRateSource is a CSV (Currency,Rate) given as URL or path.
	ExchangeRateSource string `json:"exchange_rate_source"`

	// CSVOutputPath is overwritten on every run.
	CSVOutputPath string `json:"csv_output_path"`

	// LogPath is the append-only progress log.
	LogPath string `json:"log_path"`

	Storage   Storage   `json:"storage"`
	Extract   Extract   `json:"extract"`
	Transform Transform `json:"transform"`
	HTTP      HTTP      `json:"http"`

	// Queries run in order after loading. Empty means the default three
	// statements against Storage.Table.
	Queries []string `json:"queries"`
}

// Storage selects the relational sink.
type Storage struct {
	// Kind is "sqlite", "postgres" or "mssql".
	Kind string `json:"kind"`
	// DSN is the database file for sqlite or a connection string otherwise.
	DSN string `json:"dsn"`
	// Table receives the rows.
	Table string `json:"table"`
	// WriteMode is "replace", "append" or "fail".
	WriteMode string `json:"write_mode"`
}

// Extract tunes table location and coercion.
type Extract struct {
	// Marker is the id of the element that precedes the table.
	Marker string `json:"marker"`
	// Thousands is the digit-group separator stripped from numbers.
	Thousands string `json:"thousands"`
	// RenameMarketCap exposes the market-cap column as Transform.BaseColumn.
	// Nil means true.
	RenameMarketCap *bool `json:"rename_market_cap"`
	// StrictMarketCap fails on unparseable market-cap cells.
	StrictMarketCap bool `json:"strict_market_cap"`
}

// Transform configures currency conversion.
type Transform struct {
	// BaseColumn holds USD billions.
	BaseColumn string `json:"base_column"`
	// Currencies lists the derived columns to add, in order.
	Currencies []string `json:"currencies"`
}

// HTTP configures page and rate fetches.
type HTTP struct {
	TimeoutSeconds     int    `json:"timeout_seconds"`
	MaxRetries         int    `json:"max_retries"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify"`
	UserAgent          string `json:"user_agent"`
}

// Timeout returns TimeoutSeconds as a duration.
func (h HTTP) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// RenamesMarketCap reports the effective value of RenameMarketCap.
func (e Extract) RenamesMarketCap() bool {
	return e.RenameMarketCap == nil || *e.RenameMarketCap
}
