// Package pipeline wires generation, transformation, CSV artifacts, and the
// transactional load into one sequential run.
//
// There is no concurrency and no feedback loop: each stage completes before
// the next starts, and a run either commits the full batch or aborts with the
// destination table untouched. Per-record outcomes (invalid email, unparsed
// date) are data, not errors; only stage-level defects abort the run.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"userseed/internal/csvutil"
	"userseed/internal/gen"
	"userseed/internal/metrics"
	"userseed/internal/schema"
	"userseed/internal/storage"
	"userseed/internal/transform"
)

// Options controls a single run.
type Options struct {
	// Records is the batch size to generate.
	Records int

	// Seed seeds the generator when Generator is nil; 0 derives a seed from
	// the clock.
	Seed int64

	// Generator overrides the seeded generator, mainly for tests that need a
	// fixed window anchor.
	Generator *gen.Generator

	// RawCSV and TransformedCSV are artifact paths; an empty path skips that
	// artifact.
	RawCSV         string
	TransformedCSV string
}

// Summary reports what a run produced and committed.
type Summary struct {
	Generated    int
	EmailValid   int
	EmailInvalid int
	DateUnparsed int
	Loaded       int64
	Checksum     uint64
}

// Run executes the full generate → transform → artifacts → load sequence
// against the given repository. The repository connection must already be
// open; Run creates the destination schema if absent.
func Run(ctx context.Context, opts Options, repo storage.Repository) (Summary, error) {
	var s Summary

	g := opts.Generator
	if g == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		g = gen.New(seed)
	}

	start := time.Now()
	raw, err := g.Generate(opts.Records)
	metrics.RecordStage("generate", err, time.Since(start))
	if err != nil {
		return s, fmt.Errorf("generate: %w", err)
	}
	s.Generated = len(raw)
	metrics.RecordRows("generated", int64(len(raw)))
	log.Printf("generate: records=%d", len(raw))

	start = time.Now()
	users := transform.Transform(raw)
	metrics.RecordStage("transform", nil, time.Since(start))
	for _, u := range users {
		if u.EmailValid {
			s.EmailValid++
		} else {
			s.EmailInvalid++
		}
		if u.SignupDate == nil {
			s.DateUnparsed++
		}
	}
	metrics.RecordRows("email_invalid", int64(s.EmailInvalid))
	metrics.RecordRows("date_unparsed", int64(s.DateUnparsed))
	log.Printf("transform: records=%d email_valid=%d email_invalid=%d date_unparsed=%d",
		len(users), s.EmailValid, s.EmailInvalid, s.DateUnparsed)

	start = time.Now()
	err = writeArtifacts(opts, raw, users, &s)
	metrics.RecordStage("artifacts", err, time.Since(start))
	if err != nil {
		return s, err
	}

	start = time.Now()
	loaded, err := load(ctx, repo, users)
	metrics.RecordStage("load", err, time.Since(start))
	if err != nil {
		return s, err
	}
	s.Loaded = loaded
	metrics.RecordRows("loaded", loaded)
	log.Printf("load: rows=%d", loaded)

	return s, nil
}

func writeArtifacts(opts Options, raw []schema.RawUser, users []schema.User, s *Summary) error {
	if opts.RawCSV != "" {
		if err := csvutil.WriteRaw(opts.RawCSV, raw); err != nil {
			return fmt.Errorf("artifacts: %w", err)
		}
	}
	if opts.TransformedCSV != "" {
		if err := csvutil.WriteUsers(opts.TransformedCSV, users); err != nil {
			return fmt.Errorf("artifacts: %w", err)
		}
	}
	s.Checksum = csvutil.Checksum(users)
	log.Printf("artifacts: raw=%q transformed=%q checksum=%016x",
		opts.RawCSV, opts.TransformedCSV, s.Checksum)
	return nil
}

func load(ctx context.Context, repo storage.Repository, users []schema.User) (int64, error) {
	if err := repo.EnsureSchema(ctx); err != nil {
		return 0, fmt.Errorf("load: %w", err)
	}
	n, err := repo.Replace(ctx, users)
	if err != nil {
		return 0, fmt.Errorf("load: %w", err)
	}
	return n, nil
}
