// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/okanebot/okane/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer at a time; funnel everything through a
	// single connection so concurrent Update calls queue instead of
	// failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx,
// so the same query helpers serve both direct reads and transactions.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Balance returns the principal's balance, defaulting to 0 for accounts
// that have never been touched.
func (s *SQLiteStore) Balance(ctx context.Context, communityID, principalID string) (int64, error) {
	return readBalance(ctx, s.db, communityID, principalID)
}

func readBalance(ctx context.Context, q querier, communityID, principalID string) (int64, error) {
	var balance int64
	err := q.QueryRowContext(ctx,
		"SELECT balance FROM balances WHERE community_id = ? AND principal_id = ?",
		communityID, principalID,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

// applyDelta adjusts a balance, creating the account row on first use.
// The guard on the UPDATE keeps the non-negative invariant inside the
// same statement as the mutation.
func applyDelta(ctx context.Context, q querier, communityID, principalID string, delta int64) error {
	if _, err := q.ExecContext(ctx,
		"INSERT OR IGNORE INTO balances (community_id, principal_id, balance) VALUES (?, ?, 0)",
		communityID, principalID,
	); err != nil {
		return fmt.Errorf("failed to ensure account: %w", err)
	}

	res, err := q.ExecContext(ctx,
		"UPDATE balances SET balance = balance + ? WHERE community_id = ? AND principal_id = ? AND balance + ? >= 0",
		delta, communityID, principalID, delta,
	)
	if err != nil {
		return fmt.Errorf("failed to apply delta: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNegativeBalance
	}
	return nil
}

// Update runs fn inside a single transaction, rolling back if fn fails.
func (s *SQLiteStore) Update(ctx context.Context, fn func(storage.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqliteTx{ctx: ctx, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// sqliteTx adapts one *sql.Tx to the storage.Tx contract.
type sqliteTx struct {
	ctx context.Context
	tx  *sql.Tx
}

var _ storage.Tx = (*sqliteTx)(nil)

func (t *sqliteTx) Balance(communityID, principalID string) (int64, error) {
	return readBalance(t.ctx, t.tx, communityID, principalID)
}

func (t *sqliteTx) ApplyDelta(communityID, principalID string, delta int64) error {
	return applyDelta(t.ctx, t.tx, communityID, principalID, delta)
}
