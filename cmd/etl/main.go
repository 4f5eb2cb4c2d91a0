// Command etl runs the largest-banks pipeline: scrape the market-cap table,
// add GBP/EUR/INR columns, write CSV and database copies, and print the
// configured queries.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"banketl/internal/config"
	"banketl/internal/etl"
	"banketl/internal/metrics"
	"banketl/internal/metrics/datadog"
	"banketl/internal/metrics/prompush"

	// Register every storage backend; the config picks one.
	_ "banketl/internal/storage/all"
)

type flags struct {
	cfgPath        string
	validate       bool
	metricsBackend string
	pushGatewayURL string
	datadogAddr    string
	verbose        bool
	quiet          bool
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("etl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.cfgPath, "config", "configs/pipelines/largest_banks.json5", "pipeline config (JSON5) path")
	fs.BoolVar(&f.validate, "validate", false, "validate the configuration and exit")
	fs.StringVar(&f.metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway or datadog (env METRICS_BACKEND)")
	fs.StringVar(&f.pushGatewayURL, "pushgateway-url", "", "Pushgateway base URL (env PUSHGATEWAY_URL)")
	fs.StringVar(&f.datadogAddr, "datadog-addr", "", "DogStatsD address (env DD_AGENT_ADDR)")
	fs.BoolVar(&f.verbose, "v", false, "enable verbose logs")
	fs.BoolVar(&f.quiet, "q", false, "do not print the extracted and transformed tables")
	if err := fs.Parse(args); err != nil {
		return f, err
	}

	// Flag, then environment, then default.
	f.metricsBackend = firstNonEmpty(f.metricsBackend, os.Getenv("METRICS_BACKEND"), "none")
	f.pushGatewayURL = firstNonEmpty(f.pushGatewayURL, os.Getenv("PUSHGATEWAY_URL"), "http://localhost:9091")
	f.datadogAddr = firstNonEmpty(f.datadogAddr, os.Getenv("DD_AGENT_ADDR"), "127.0.0.1:8125")
	return f, nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("env: %v", err)
	}

	f, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	os.Exit(run(f, os.Stdout, os.Stderr))
}

// run returns the process exit code.
func run(f flags, stdout, stderr io.Writer) int {
	p, err := config.Load(f.cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Printf("Configuration is invalid: %v", f.cfgPath)
		return 1
	}
	if f.validate {
		log.Printf("Configuration is valid: %v", f.cfgPath)
		return 0
	}

	runID := uuid.NewString()
	flush := setupMetrics(f, p.Job, runID)
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	if _, err := etl.Run(ctx, p, etl.Options{
		Stdout:  stdout,
		RunID:   runID,
		Verbose: f.verbose,
		Quiet:   f.quiet,
	}); err != nil {
		fmt.Fprintf(stderr, "etl: %v\n", err)
		return 1
	}
	if f.verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
	return 0
}

// setupMetrics installs the selected backend and returns a function that
// flushes it. Backend failures only disable metrics.
func setupMetrics(f flags, job, runID string) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch f.metricsBackend {
	case "pushgateway":
		b, err = prompush.NewBackend(job, f.pushGatewayURL, runID)
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       f.datadogAddr,
			GlobalTags: []string{"job:" + job},
		})
	case "", "none":
		if f.verbose {
			log.Printf("metrics: disabled")
		}
		return func() {}
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", f.metricsBackend)
		return func() {}
	}
	if err != nil {
		log.Printf("metrics: init %s backend: %v; metrics disabled", f.metricsBackend, err)
		return func() {}
	}

	log.Printf("metrics: backend=%s job=%s run=%s", f.metricsBackend, job, runID)
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
