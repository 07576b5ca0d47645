// Package postgres provides a patina.Store backed by a single row in a
// PostgreSQL table.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists the configuration blob as one row keyed by a fixed string.
//
// Expected schema:
//
//	CREATE TABLE IF NOT EXISTS preferences (
//	    key TEXT PRIMARY KEY,
//	    value BYTEA NOT NULL
//	);
type Store struct {
	pool  *pgxpool.Pool
	key   string
	table string
}

// Option configures a Store.
type Option func(*Store)

// WithTable sets the table name. Defaults to "preferences".
func WithTable(table string) Option {
	return func(s *Store) {
		s.table = table
	}
}

// New creates a Store for the given row key.
func New(pool *pgxpool.Pool, key string, opts ...Option) *Store {
	s := &Store{
		pool:  pool,
		key:   key,
		table: "preferences",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the row. An absent row is not an error; it reports ok=false.
func (s *Store) Load(ctx context.Context) ([]byte, bool, error) {
	query := fmt.Sprintf("SELECT value FROM %s WHERE key = $1", s.table)
	var data []byte
	err := s.pool.QueryRow(ctx, query, s.key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to select key %s: %w", s.key, err)
	}
	return data, true, nil
}

// Save upserts the blob into the row.
func (s *Store) Save(ctx context.Context, data []byte) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value",
		s.table,
	)
	if _, err := s.pool.Exec(ctx, query, s.key, data); err != nil {
		return fmt.Errorf("failed to upsert key %s: %w", s.key, err)
	}
	return nil
}
