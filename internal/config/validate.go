// This file adds a lightweight linter/validator for Config values. It
// performs static checks over a loaded Config and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strconv"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that is surfaced but not fatal.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path names the offending
// setting (e.g. "records", "storage.dsn").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error where convenient.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// knownKinds are the storage kinds shipped with the binary. Unknown kinds are
// warnings for forward compatibility; the storage factory gives the final
// verdict at open time.
var knownKinds = map[string]struct{}{
	"postgres": {},
	"sqlite":   {},
	"mysql":    {},
}

// Validate performs static validation of a Config. It does not mutate the
// config; callers decide whether warnings are fatal.
func (c *Config) Validate() []Issue {
	var issues []Issue

	if c.Records <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "records",
			Message:  fmt.Sprintf("record count must be positive, got %d", c.Records),
		})
	}

	if strings.TrimSpace(c.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "table",
			Message:  "destination table must not be empty",
		})
	}

	kind := strings.TrimSpace(c.StorageKind)
	if kind == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage",
			Message:  "storage kind must not be empty",
		})
		return issues
	}
	if _, ok := knownKinds[kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", kind),
		})
	}

	switch kind {
	case "postgres":
		if c.DSN == "" {
			parts := []struct{ path, v string }{
				{"db-name", c.DBName},
				{"db-user", c.DBUser},
				{"db-host", c.DBHost},
				{"db-port", c.DBPort},
			}
			for _, p := range parts {
				path, v := p.path, p.v
				if strings.TrimSpace(v) == "" {
					issues = append(issues, Issue{
						Severity: SeverityError,
						Path:     path,
						Message:  "required to build a postgres DSN when -dsn is not set",
					})
				}
			}
			if c.DBPort != "" {
				if _, err := strconv.Atoi(c.DBPort); err != nil {
					issues = append(issues, Issue{
						Severity: SeverityError,
						Path:     "db-port",
						Message:  fmt.Sprintf("%q is not a valid port", c.DBPort),
					})
				}
			}
		}
	default:
		if strings.TrimSpace(c.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "dsn",
				Message:  fmt.Sprintf("storage kind %q requires an explicit DSN", kind),
			})
		}
	}

	return issues
}
