// Command userseed synthesizes a batch of fake user records, validates and
// normalizes them, writes CSV artifacts, and loads the batch into a
// relational users table, replacing any prior contents.
//
// The binary exits zero after committing the load and non-zero on any
// unrecoverable failure. Rerunning it is idempotent: every run replaces the
// table contents with exactly one batch.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"userseed/internal/config"
	"userseed/internal/metrics"
	"userseed/internal/metrics/prompush"
	"userseed/internal/pipeline"
	"userseed/internal/storage"

	// register all backends with the storage factory.
	_ "userseed/internal/storage/all"
)

func main() {
	var (
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
	)
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "none", "metrics backend to use (pushgateway, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	cfg := config.Load() // defines its own flags and parses the command line

	issues := cfg.Validate()
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		fatalf("configuration is invalid")
	}
	if validate {
		log.Printf("configuration is valid")
		os.Exit(0)
	}

	setupMetrics(metricsBackendFlg, pushGatewayURLFlg, *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx := context.Background()
	start := time.Now()

	if *verbose {
		log.Printf("run: records=%d seed=%d storage=%s table=%s",
			cfg.Records, cfg.Seed, cfg.StorageKind, cfg.Table)
	}

	repo, err := storage.New(ctx, storage.Config{
		Kind:  cfg.StorageKind,
		DSN:   cfg.BuildDSN(),
		Table: cfg.Table,
	})
	if err != nil {
		fatalf("storage: %v", err)
	}
	defer repo.Close()

	summary, err := pipeline.Run(ctx, pipeline.Options{
		Records:        cfg.Records,
		Seed:           cfg.Seed,
		RawCSV:         cfg.RawCSV,
		TransformedCSV: cfg.TransformedCSV,
	}, repo)
	if err != nil {
		fatalf("run failed: %v", err)
	}

	log.Printf("done: loaded=%d email_valid=%d email_invalid=%d date_unparsed=%d checksum=%016x elapsed=%s",
		summary.Loaded, summary.EmailValid, summary.EmailInvalid, summary.DateUnparsed,
		summary.Checksum, time.Since(start).Truncate(time.Millisecond))
}

// setupMetrics decides the metrics backend: flag → env → disabled.
func setupMetrics(backendName, gwURL string, verbose bool) {
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend("userseed", gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return
		}
		if verbose {
			log.Printf("metrics: backend=pushgateway url=%s", gwURL)
		}
		metrics.SetBackend(b)

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
