// Package mysql implements the storage.Repository contract on MySQL via
// database/sql and go-sql-driver/mysql.
//
// TRUNCATE is DDL in MySQL and would implicitly commit the surrounding
// transaction, so the replace path uses DELETE to keep the whole swap atomic.
// The AUTO_INCREMENT counter is therefore not reset; the identity sequence is
// reclaimed only where the store supports doing so transactionally.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"userseed/internal/schema"
	"userseed/internal/storage"
)

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg.DSN, cfg.Table)
	})
}

// Repository is a MySQL-backed storage.Repository.
type Repository struct {
	db    *sql.DB
	table string
}

// NewRepository opens a MySQL connection using a go-sql-driver DSN such as
// "user:pass@tcp(host:3306)/dbname?parseTime=true".
func NewRepository(ctx context.Context, dsn, table string) (*Repository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", err)
	}
	return &Repository{db: db, table: table}, nil
}

// EnsureSchema creates the destination table if absent.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s ("+
		"id BIGINT AUTO_INCREMENT PRIMARY KEY, "+
		"name TEXT NOT NULL, "+
		"email TEXT NOT NULL, "+
		"email_valid BOOLEAN NOT NULL, "+
		"email_domain TEXT, "+
		"signup_date DATE"+
		")", myIdent(r.table))
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("mysql: ensure schema: %w", err)
	}
	return nil
}

// Replace clears the table and inserts the batch with a prepared statement,
// all inside a single transaction.
func (r *Repository) Replace(ctx context.Context, users []schema.User) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mysql: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+myIdent(r.table)); err != nil {
		return 0, fmt.Errorf("mysql: clear table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(r.table, schema.Columns))
	if err != nil {
		return 0, fmt.Errorf("mysql: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, u := range users {
		if _, err := stmt.ExecContext(ctx, u.Row()...); err != nil {
			return 0, fmt.Errorf("mysql: insert row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mysql: commit: %w", err)
	}
	return int64(len(users)), nil
}

// Count returns the number of rows currently in the table.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM "+myIdent(r.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("mysql: count: %w", err)
	}
	return n, nil
}

// Close closes the underlying database handle.
func (r *Repository) Close() { _ = r.db.Close() }

// myIdent quotes an identifier with MySQL backticks.
func myIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

// insertSQL builds "INSERT INTO t (cols...) VALUES (?, ...)".
func insertSQL(table string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		myIdent(table), strings.Join(columns, ", "), placeholders)
}
