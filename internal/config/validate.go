package config

import (
	"fmt"
	"strings"

	"banketl/internal/storage"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the config, e.g. "storage.write_mode" or "queries[2]".
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

var requiredCurrencies = []string{"GBP", "EUR", "INR"}

// ValidatePipeline checks p after defaults have been applied. It does not
// mutate p.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	for _, f := range []struct{ path, val string }{
		{"job", p.Job},
		{"source_url", p.SourceURL},
		{"exchange_rate_source", p.ExchangeRateSource},
		{"csv_output_path", p.CSVOutputPath},
		{"log_path", p.LogPath},
	} {
		if strings.TrimSpace(f.val) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     f.path,
				Message:  f.path + " must not be empty",
			})
		}
	}

	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateTransform(p.Extract, p.Transform)...)
	issues = append(issues, validateHTTP(p.HTTP)...)

	for i, q := range p.Queries {
		if strings.TrimSpace(q) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("queries[%d]", i),
				Message:  "query must not be empty",
			})
		}
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	switch s.Kind {
	case "sqlite", "postgres", "mssql":
	case "":
		issues = append(issues, Issue{SeverityError, "storage.kind", "storage.kind must not be empty"})
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unsupported storage kind %q (want sqlite, postgres or mssql)", s.Kind),
		})
	}

	if strings.TrimSpace(s.DSN) == "" {
		issues = append(issues, Issue{SeverityError, "storage.dsn", "storage.dsn must not be empty"})
	}
	if strings.TrimSpace(s.Table) == "" {
		issues = append(issues, Issue{SeverityError, "storage.table", "storage.table must not be empty"})
	} else if strings.ContainsAny(s.Table, " \t;'\"") {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.table",
			Message:  fmt.Sprintf("table name %q needs quoting; default queries use it unquoted", s.Table),
		})
	}
	if _, err := storage.ParseWriteMode(s.WriteMode); err != nil {
		issues = append(issues, Issue{SeverityError, "storage.write_mode", err.Error()})
	}
	return issues
}

func validateTransform(e Extract, t Transform) []Issue {
	var issues []Issue

	if strings.TrimSpace(t.BaseColumn) == "" {
		issues = append(issues, Issue{SeverityError, "transform.base_column", "transform.base_column must not be empty"})
	}

	seen := map[string]bool{}
	for i, c := range t.Currencies {
		code := strings.ToUpper(strings.TrimSpace(c))
		if seen[code] {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("transform.currencies[%d]", i),
				Message:  fmt.Sprintf("currency %s listed twice", code),
			})
		}
		seen[code] = true
	}
	for _, want := range requiredCurrencies {
		if !seen[want] {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "transform.currencies",
				Message:  fmt.Sprintf("required currency %s is missing", want),
			})
		}
	}

	if !e.RenamesMarketCap() {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "extract.rename_market_cap",
			Message:  "market-cap column keeps its page name; transform.base_column must match it",
		})
	}
	if len(e.Thousands) > 1 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "extract.thousands",
			Message:  fmt.Sprintf("multi-character thousands separator %q", e.Thousands),
		})
	}
	return issues
}

func validateHTTP(h HTTP) []Issue {
	var issues []Issue
	if h.TimeoutSeconds < 0 {
		issues = append(issues, Issue{SeverityError, "http.timeout_seconds", "http.timeout_seconds must be >= 0"})
	}
	if h.MaxRetries < 0 {
		issues = append(issues, Issue{SeverityError, "http.max_retries", "http.max_retries must be >= 0"})
	}
	if h.InsecureSkipVerify {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "http.insecure_skip_verify",
			Message:  "TLS verification is disabled",
		})
	}
	return issues
}
