package config

import (
	"fmt"

	"dario.cat/mergo"
)

const (
	DefaultJob                = "largest_banks"
	DefaultSourceURL          = "https://web.archive.org/web/20230908091635/https://en.wikipedia.org/wiki/List_of_largest_banks"
	DefaultExchangeRateSource = "https://cf-courses-data.s3.us.cloud-object-storage.appdomain.cloud/IBMSkillsNetwork-PY0221EN-Coursera/labs/v2/exchange_rate.csv"
	DefaultCSVOutputPath      = "./Largest_banks_data.csv"
	DefaultLogPath            = "code_log.txt"
	DefaultStorageKind        = "sqlite"
	DefaultDSN                = "Banks.db"
	DefaultTable              = "Largest_banks"
	DefaultWriteMode          = "replace"
	DefaultMarker             = "By_market_capitalization"
	DefaultThousands          = ","
	DefaultBaseColumn         = "MC_USD_Billion"
	DefaultTimeoutSeconds     = 30
)

// DefaultCurrencies are the derived currencies, in column order.
var DefaultCurrencies = []string{"GBP", "EUR", "INR"}

// Default returns a Pipeline with every default applied.
func Default() Pipeline {
	var p Pipeline
	_ = ApplyDefaults(&p)
	return p
}

// ApplyDefaults fills every empty field of p. Non-empty fields, including
// an explicit rename_market_cap, are left alone. The sqlite DSN default only
// applies when the storage kind is sqlite.
func ApplyDefaults(p *Pipeline) error {
	d := Pipeline{
		Job:                DefaultJob,
		SourceURL:          DefaultSourceURL,
		ExchangeRateSource: DefaultExchangeRateSource,
		CSVOutputPath:      DefaultCSVOutputPath,
		LogPath:            DefaultLogPath,
		Storage: Storage{
			Kind:      DefaultStorageKind,
			Table:     DefaultTable,
			WriteMode: DefaultWriteMode,
		},
		Extract: Extract{
			Marker:    DefaultMarker,
			Thousands: DefaultThousands,
		},
		Transform: Transform{
			BaseColumn: DefaultBaseColumn,
			Currencies: append([]string(nil), DefaultCurrencies...),
		},
		HTTP: HTTP{TimeoutSeconds: DefaultTimeoutSeconds},
	}
	if p.Storage.Kind == "" || p.Storage.Kind == DefaultStorageKind {
		d.Storage.DSN = DefaultDSN
	}
	if err := mergo.Merge(p, d); err != nil {
		return fmt.Errorf("config: apply defaults: %w", err)
	}
	return nil
}
