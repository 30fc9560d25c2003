// Package postgres implements the storage.Repository contract on Postgres
// using pgx v5. The replace path runs TRUNCATE ... RESTART IDENTITY followed
// by COPY inside a single transaction, so a failed load leaves the table in
// its pre-run state.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"userseed/internal/schema"
	"userseed/internal/storage"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg.DSN, cfg.Table)
	})
}

// Repository is a Postgres-backed storage.Repository. The pipeline is a
// single sequential writer, so one connection is enough; no pool is used.
type Repository struct {
	conn  *pgx.Conn
	table string
}

// NewRepository connects to Postgres and returns a Repository. The caller
// must Close it.
func NewRepository(ctx context.Context, dsn, table string) (*Repository, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	return &Repository{conn: conn, table: table}, nil
}

// EnsureSchema creates the destination table if absent. Column order matches
// schema.Columns plus a leading identity column.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		email_valid BOOLEAN NOT NULL,
		email_domain TEXT,
		signup_date DATE
	)`, pgFQN(r.table))
	if _, err := r.conn.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}

// Replace truncates the table and bulk-inserts the batch via COPY, all within
// one transaction. On any failure the transaction is rolled back and the
// error is returned with row context when the server provides it.
func (r *Repository) Replace(ctx context.Context, users []schema.User) (int64, error) {
	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+pgFQN(r.table)+" RESTART IDENTITY"); err != nil {
		return 0, fmt.Errorf("postgres: truncate: %w", err)
	}

	rows := make([][]any, len(users))
	for i, u := range users {
		rows[i] = u.Row()
	}
	n, err := tx.CopyFrom(ctx, splitFQN(r.table), schema.Columns, pgx.CopyFromRows(rows))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return 0, fmt.Errorf("postgres: copy: %s (%s)", pgErr.Detail, pgErr.SQLState())
		}
		return 0, fmt.Errorf("postgres: copy: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("postgres: commit: %w", err)
	}
	return n, nil
}

// Count returns the number of rows currently in the table.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.conn.QueryRow(ctx, "SELECT count(*) FROM "+pgFQN(r.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count: %w", err)
	}
	return n, nil
}

// Close closes the underlying connection.
func (r *Repository) Close() {
	_ = r.conn.Close(context.Background())
}

// pgIdent safely quotes a single identifier segment.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// pgFQN quotes a possibly schema-qualified name like "public.users" to
// "public"."users". A name without a dot becomes a single quoted ident.
func pgFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pgIdent(p)
	}
	return strings.Join(parts, ".")
}

// splitFQN converts a possibly schema-qualified name into a pgx.Identifier.
func splitFQN(name string) pgx.Identifier {
	return pgx.Identifier(strings.Split(name, "."))
}
