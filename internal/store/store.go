// Package store implements the relational persistence layer on PostgreSQL.
// Every entity gets plain get/list/create/update/delete primitives; lifecycle
// orchestration and audit narratives live in the services layer. A Store can
// be bound to a transaction with BeginTx, in which case all primitives run on
// that transaction until Commit or Rollback.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "github.com/lib/pq"
)

// Store wraps the database handle and, optionally, an open transaction.
type Store struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

// Open connects to PostgreSQL and verifies the connection.
func Open(connString string) (*Store, error) {
	db, err := sqlx.Connect("postgres", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing sqlx handle. Used by tests with sqlmock.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// Transaction Support
// =============================================================================

// BeginTx returns a Store bound to a new transaction. The caller owns the
// transaction lifetime: Commit or Rollback must be called on the returned
// handle, never on the parent.
func (s *Store) BeginTx(ctx context.Context) (*Store, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Store{db: s.db, tx: tx}, nil
}

func (s *Store) Commit() error {
	if s.tx == nil {
		return fmt.Errorf("no active transaction")
	}
	return s.tx.Commit()
}

func (s *Store) Rollback() error {
	if s.tx == nil {
		return fmt.Errorf("no active transaction")
	}
	return s.tx.Rollback()
}

func (s *Store) getContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if s.tx != nil {
		return s.tx.GetContext(ctx, dest, query, args...)
	}
	return s.db.GetContext(ctx, dest, query, args...)
}

func (s *Store) selectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if s.tx != nil {
		return s.tx.SelectContext(ctx, dest, query, args...)
	}
	return s.db.SelectContext(ctx, dest, query, args...)
}

func (s *Store) queryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	if s.tx != nil {
		return s.tx.QueryRowxContext(ctx, query, args...)
	}
	return s.db.QueryRowxContext(ctx, query, args...)
}

func (s *Store) execContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if s.tx != nil {
		return s.tx.ExecContext(ctx, query, args...)
	}
	return s.db.ExecContext(ctx, query, args...)
}

// =============================================================================
// Error classification
// =============================================================================

// IsNoRows reports whether err is a point-lookup miss.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
