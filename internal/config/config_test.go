package config

import (
	"flag"
	"testing"
)

func load(tb testing.TB, env map[string]string, args ...string) *Config {
	tb.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	getenv := func(k string) string { return env[k] }
	return LoadFromArgs(fs, getenv, args)
}

func TestLoadFromArgs_Defaults(t *testing.T) {
	t.Parallel()

	cfg := load(t, nil)
	if cfg.Records != 1000 {
		t.Errorf("Records = %d, want 1000", cfg.Records)
	}
	if cfg.Seed != 0 {
		t.Errorf("Seed = %d, want 0", cfg.Seed)
	}
	if cfg.StorageKind != "postgres" {
		t.Errorf("StorageKind = %q, want postgres", cfg.StorageKind)
	}
	if cfg.Table != "users" {
		t.Errorf("Table = %q, want users", cfg.Table)
	}
	if cfg.DBName != "transformed_data_db" || cfg.DBUser != "postgres" ||
		cfg.DBHost != "postgres" || cfg.DBPort != "5432" {
		t.Errorf("unexpected postgres defaults: %+v", cfg)
	}
	if cfg.RawCSV != "fake_data.csv" || cfg.TransformedCSV != "transformed_users_data.csv" {
		t.Errorf("unexpected artifact defaults: %+v", cfg)
	}
}

// TestLoadFromArgs_Precedence verifies env values seed defaults and explicit
// flags override them.
func TestLoadFromArgs_Precedence(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"RECORDS":       "50",
		"POSTGRES_HOST": "db.internal",
		"SEED":          "99",
	}

	cfg := load(t, env)
	if cfg.Records != 50 || cfg.DBHost != "db.internal" || cfg.Seed != 99 {
		t.Fatalf("env not applied: %+v", cfg)
	}

	cfg = load(t, env, "-records=5", "-db-host=other", "-seed=7")
	if cfg.Records != 5 {
		t.Errorf("flag did not override env: Records = %d", cfg.Records)
	}
	if cfg.DBHost != "other" {
		t.Errorf("flag did not override env: DBHost = %q", cfg.DBHost)
	}
	if cfg.Seed != 7 {
		t.Errorf("flag did not override env: Seed = %d", cfg.Seed)
	}
}

func TestBuildDSN(t *testing.T) {
	t.Parallel()

	cfg := load(t, nil, "-db-user=u", "-db-password=p@ss", "-db-host=h", "-db-port=5433", "-db-name=d")
	want := "postgres://u:p%40ss@h:5433/d"
	if got := cfg.BuildDSN(); got != want {
		t.Fatalf("BuildDSN = %q, want %q", got, want)
	}

	// Explicit DSN wins.
	cfg = load(t, nil, "-dsn=postgres://explicit/db")
	if got := cfg.BuildDSN(); got != "postgres://explicit/db" {
		t.Fatalf("BuildDSN = %q, want explicit DSN", got)
	}

	// Non-postgres kinds never synthesize a DSN.
	cfg = load(t, nil, "-storage=sqlite")
	if got := cfg.BuildDSN(); got != "" {
		t.Fatalf("BuildDSN for sqlite = %q, want empty", got)
	}
}

func hasIssue(issues []Issue, severity IssueSeverity, path string) bool {
	for _, i := range issues {
		if i.Severity == severity && i.Path == path {
			return true
		}
	}
	return false
}

func TestValidate_TableDriven(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      []string
		wantError string // Path of a required error issue, "" = clean
	}{
		{name: "defaults_are_valid", args: nil},
		{name: "zero_records", args: []string{"-records=0"}, wantError: "records"},
		{name: "negative_records", args: []string{"-records=-5"}, wantError: "records"},
		{name: "empty_table", args: []string{"-table="}, wantError: "table"},
		{name: "sqlite_needs_dsn", args: []string{"-storage=sqlite"}, wantError: "dsn"},
		{name: "sqlite_with_dsn", args: []string{"-storage=sqlite", "-dsn=file:seed.db"}},
		{name: "postgres_missing_host", args: []string{"-db-host="}, wantError: "db-host"},
		{name: "postgres_bad_port", args: []string{"-db-port=nope"}, wantError: "db-port"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := load(t, nil, tt.args...)
			issues := cfg.Validate()
			if tt.wantError == "" {
				for _, i := range issues {
					if i.Severity == SeverityError {
						t.Fatalf("unexpected error issue: %v", i)
					}
				}
				return
			}
			if !hasIssue(issues, SeverityError, tt.wantError) {
				t.Fatalf("missing error at %q, got %v", tt.wantError, issues)
			}
		})
	}
}

func TestValidate_UnknownKindIsWarning(t *testing.T) {
	t.Parallel()

	cfg := load(t, nil, "-storage=cassandra", "-dsn=whatever")
	issues := cfg.Validate()
	if !hasIssue(issues, SeverityWarning, "storage") {
		t.Fatalf("missing warning for unknown kind, got %v", issues)
	}
	for _, i := range issues {
		if i.Severity == SeverityError {
			t.Fatalf("unknown kind with DSN should not be an error: %v", i)
		}
	}
}
