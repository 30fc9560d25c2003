// Package config centralizes process configuration. All tunables are sourced
// from command-line flags with environment-variable fallbacks (12-factor
// friendly); flags are defined first so -help shows every knob and its
// default.
//
// Typical usage:
//
//	cfg := config.Load() // reads os.Args and os.Environ
//
// For tests, prefer LoadFromArgs to keep them hermetic:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	getenv := func(k string) string { return testEnv[k] }
//	cfg := config.LoadFromArgs(fs, getenv, []string{"-records=10"})
//
// Database connection parameters follow the deployment contract of the
// original environment: POSTGRES_DB, POSTGRES_USER, POSTGRES_PASSWORD,
// POSTGRES_HOST, POSTGRES_PORT. A full DSN can be supplied instead and takes
// precedence; it is required for the non-Postgres backends.
package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
)

// Config holds all process configuration derived from flags and environment
// variables. All fields are plain values, so the struct can be copied freely
// after construction.
type Config struct {
	// Batch controls.
	Records int   // Number of records to generate per run.
	Seed    int64 // Random seed; 0 means derive from the clock.

	// Artifacts.
	RawCSV         string // Path for the generated (raw) batch CSV.
	TransformedCSV string // Path for the transformed batch CSV.

	// Storage selection. DSN is optional for Postgres (it can be built from
	// the discrete POSTGRES_* parts) and required for other backends.
	StorageKind string
	DSN         string
	Table       string

	// Discrete Postgres connection parts (convenience for DSN-less setups).
	DBName     string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
}

// LoadFromArgs builds a Config by defining flags on fs, seeding each flag's
// default from getenv, then parsing args. Environment values seed defaults;
// explicit CLI flags override them.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) *Config {
	cfg := &Config{}

	envOr := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	intEnvOr := func(k string, d int) int {
		if v := getenv(k); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
		return d
	}

	fs.IntVar(&cfg.Records, "records", intEnvOr("RECORDS", 1000), "Number of user records to generate")
	seed := fs.Int64("seed", 0, "Random seed (0 = derive from clock)")
	if v := getenv("SEED"); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			*seed = i
		}
	}

	fs.StringVar(&cfg.RawCSV, "raw-csv", envOr("RAW_CSV", "fake_data.csv"), "Path for the raw batch CSV artifact")
	fs.StringVar(&cfg.TransformedCSV, "transformed-csv", envOr("TRANSFORMED_CSV", "transformed_users_data.csv"), "Path for the transformed batch CSV artifact")

	fs.StringVar(&cfg.StorageKind, "storage", envOr("STORAGE_KIND", "postgres"), "Storage backend kind: postgres, sqlite, or mysql")
	fs.StringVar(&cfg.DSN, "dsn", getenv("DB_DSN"), "Full DSN (required for sqlite/mysql; optional for postgres)")
	fs.StringVar(&cfg.Table, "table", envOr("DB_TABLE", "users"), "Destination table name")

	fs.StringVar(&cfg.DBName, "db-name", envOr("POSTGRES_DB", "transformed_data_db"), "Postgres database name")
	fs.StringVar(&cfg.DBUser, "db-user", envOr("POSTGRES_USER", "postgres"), "Postgres user")
	fs.StringVar(&cfg.DBPassword, "db-password", envOr("POSTGRES_PASSWORD", "postgres"), "Postgres password")
	fs.StringVar(&cfg.DBHost, "db-host", envOr("POSTGRES_HOST", "postgres"), "Postgres host")
	fs.StringVar(&cfg.DBPort, "db-port", envOr("POSTGRES_PORT", "5432"), "Postgres port")

	if args == nil {
		args = []string{}
	}
	_ = fs.Parse(args)
	cfg.Seed = *seed
	return cfg
}

// Load is the production entry point: it wires the loader to flag.CommandLine
// and the process environment.
func Load() *Config {
	return LoadFromArgs(flag.CommandLine, os.Getenv, os.Args[1:])
}

// BuildDSN returns the connection string for the selected backend. For
// Postgres an explicit DSN wins; otherwise one is assembled from the discrete
// parts with credentials URL-escaped.
func (c *Config) BuildDSN() string {
	if c.DSN != "" || c.StorageKind != "postgres" {
		return c.DSN
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPassword),
		c.DBHost, c.DBPort, c.DBName)
}
