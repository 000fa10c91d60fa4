package repository

import (
	"context"
	"fmt"

	"member-heatmap/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TableName is the table holding the postal code master.
const TableName = "postal_codes"

var postalCodeColumns = []string{"code", "prefecture", "municipality", "town"}

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores the postal code master in PostgreSQL
type Repository struct {
	db DB
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the postal code table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	sql := `
		CREATE TABLE IF NOT EXISTS postal_codes (
			id BIGSERIAL PRIMARY KEY,
			code CHAR(7) NOT NULL,
			prefecture VARCHAR(255) NOT NULL DEFAULT '',
			municipality VARCHAR(255) NOT NULL DEFAULT '',
			town VARCHAR(255) NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS postal_codes_code_idx ON postal_codes (code);
	`
	if _, err := r.db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// ReplacePostalCodes swaps the table contents for codes in a single transaction and
// returns the number of copied rows. Row order is preserved through the id column.
func (r *Repository) ReplacePostalCodes(ctx context.Context, codes []models.PostalCode) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(ctx, "TRUNCATE postal_codes RESTART IDENTITY"); err != nil {
		_ = tx.Rollback(ctx)
		return 0, fmt.Errorf("repository: failed to truncate postal codes: %w", err)
	}

	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{TableName},
		postalCodeColumns,
		pgx.CopyFromSlice(len(codes), func(i int) ([]any, error) {
			c := codes[i]
			return []any{c.Code, c.Prefecture, c.Municipality, c.Town}, nil
		}),
	)
	if err != nil {
		_ = tx.Rollback(ctx)
		return 0, fmt.Errorf("repository: failed to copy postal codes: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repository: failed to commit postal codes: %w", err)
	}
	return n, nil
}

// ListPostalCodes returns every postal code row in import order
func (r *Repository) ListPostalCodes(ctx context.Context) ([]models.PostalCode, error) {
	sql := `
		SELECT
			code,
			prefecture,
			municipality,
			town
		FROM postal_codes
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute list query: %w", err)
	}
	defer rows.Close()

	var codes []models.PostalCode
	for rows.Next() {
		var pc models.PostalCode
		err := rows.Scan(
			&pc.Code,
			&pc.Prefecture,
			&pc.Municipality,
			&pc.Town,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan postal code: %w", err)
		}
		codes = append(codes, pc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return codes, nil
}

// CountPostalCodes returns the number of stored rows.
func (r *Repository) CountPostalCodes(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM postal_codes").Scan(&n); err != nil {
		return 0, fmt.Errorf("repository: failed to count postal codes: %w", err)
	}
	return n, nil
}
