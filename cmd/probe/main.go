// Command probe fetches a source page once and prints the extracted table,
// the inferred column types, the CREATE TABLE statement for a backend and a
// starter pipeline config to hand-edit and pass to cmd/etl.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"banketl/internal/probe"
	"banketl/internal/report"
)

func main() {
	var (
		flagURL      = flag.String("url", "", "page URL or local HTML file to inspect")
		flagMarker   = flag.String("marker", "", "id of the element preceding the table (default By_market_capitalization)")
		flagBackend  = flag.String("backend", "sqlite", "DDL dialect and storage kind: sqlite|postgres|mssql")
		flagTable    = flag.String("table", "", "destination table name (default Largest_banks)")
		flagConfig   = flag.Bool("config", false, "print only the starter pipeline config as JSON")
		flagInsecure = flag.Bool("allow-insecure", false, "skip TLS certificate verification")
	)
	flag.Parse()

	if *flagURL == "" {
		fmt.Fprintln(os.Stderr, "missing -url")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res, err := probe.Run(ctx, probe.Options{
		URL:              *flagURL,
		Marker:           *flagMarker,
		Backend:          *flagBackend,
		Table:            *flagTable,
		AllowInsecureTLS: *flagInsecure,
	})
	if err != nil {
		log.Fatalf("probe: %v", err)
	}

	if !*flagConfig {
		report.Print(os.Stdout, "Extracted", res.Table)
		fmt.Println()
		fmt.Print(probe.KindsSummary(res.Columns))
		fmt.Println()
		fmt.Println(res.DDL)
		fmt.Println()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res.Pipeline); err != nil {
		log.Fatalf("encode config: %v", err)
	}
}
