// Package sqlite implements the storage.Repository contract on SQLite via
// database/sql and the modernc.org/sqlite driver. SQLite has no TRUNCATE;
// the replace path issues DELETE plus a sqlite_sequence reset inside one
// transaction, which is equivalent for our purposes.
//
// Besides being a lightweight local target, this backend is the hermetic
// test vehicle for the transactional load semantics (an in-memory DSN needs
// no server).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"userseed/internal/schema"
	"userseed/internal/storage"
)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg.DSN, cfg.Table)
	})
}

// Repository is a SQLite-backed storage.Repository.
type Repository struct {
	db    *sql.DB
	table string
}

// NewRepository opens the SQLite database at dsn (a file path or URI such as
// "file:seed.db" or ":memory:") and pings it to fail fast on bad DSNs.
func NewRepository(ctx context.Context, dsn, table string) (*Repository, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &Repository{db: db, table: table}, nil
}

// EnsureSchema creates the destination table if absent.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		email_valid BOOLEAN NOT NULL,
		email_domain TEXT,
		signup_date DATE
	)`, r.table)
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqlite: ensure schema: %w", err)
	}
	return nil
}

// Replace deletes all rows, resets the autoincrement counter, and inserts the
// batch with a prepared statement, all inside a single transaction.
func (r *Repository) Replace(ctx context.Context, users []schema.User) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %q", r.table)); err != nil {
		return 0, fmt.Errorf("sqlite: clear table: %w", err)
	}
	// sqlite_sequence only exists once an AUTOINCREMENT insert has happened.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM sqlite_sequence WHERE name = ?", r.table,
	); err != nil && !strings.Contains(err.Error(), "no such table") {
		return 0, fmt.Errorf("sqlite: reset sequence: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(r.table, schema.Columns))
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, u := range users {
		if _, err := stmt.ExecContext(ctx, u.Row()...); err != nil {
			return 0, fmt.Errorf("sqlite: insert row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return int64(len(users)), nil
}

// Count returns the number of rows currently in the table.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, fmt.Sprintf("SELECT count(*) FROM %q", r.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count: %w", err)
	}
	return n, nil
}

// Close closes the underlying database handle.
func (r *Repository) Close() { _ = r.db.Close() }

// insertSQL builds "INSERT INTO t (cols...) VALUES (?, ...)".
func insertSQL(table string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders)
}
