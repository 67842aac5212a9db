// Package storage provides abstractions for persistent ledger data.
package storage

import (
	"context"
	"errors"

	"github.com/okanebot/okane/internal/models"
)

// ErrNegativeBalance is returned by Tx.ApplyDelta when the delta would
// drive a balance below zero. The store never clamps; the caller decides
// how to surface the rejection.
var ErrNegativeBalance = errors.New("balance would go negative")

// Store defines the interface for balance and bill persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the settlement engine.
type Store interface {
	// Balance returns the current balance for the principal in the
	// community. An account that has never been touched reads as 0.
	Balance(ctx context.Context, communityID, principalID string) (int64, error)

	// CreateBill persists a new bill. The bill.ID and bill.CreatedAt
	// fields are populated by the store.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by ID. Returns (nil, nil) when the bill
	// does not exist (i.e. was never issued or has been settled).
	GetBill(ctx context.Context, id int64) (*models.Bill, error)

	// ListBillsByDebtor returns every outstanding bill owed by the debtor
	// in the community, ordered by ID.
	ListBillsByDebtor(ctx context.Context, communityID, debtorID string) ([]models.Bill, error)

	// Update runs fn inside a single store transaction. If fn returns an
	// error the transaction is rolled back and no mutation is visible;
	// otherwise it commits. Concurrent Update calls never observe each
	// other's intermediate state.
	Update(ctx context.Context, fn func(Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}

// Tx is the set of operations available inside one Update transaction.
// The balance precondition in ApplyDelta is evaluated inside the same
// transaction as the mutation, so a check-then-mutate sequence written
// against Tx is atomic with respect to any other Update.
type Tx interface {
	// Balance returns the balance as of this transaction.
	Balance(communityID, principalID string) (int64, error)

	// ApplyDelta adjusts a balance by delta, creating the account row if
	// needed. Returns ErrNegativeBalance, without mutating, if the
	// resulting balance would be negative.
	ApplyDelta(communityID, principalID string, delta int64) error

	// GetBill retrieves a bill by ID. Returns (nil, nil) when absent.
	GetBill(id int64) (*models.Bill, error)

	// BillsByDebtor returns the debtor's outstanding bills, ordered by ID.
	BillsByDebtor(communityID, debtorID string) ([]models.Bill, error)

	// DeleteBills removes the named bills and reports how many rows were
	// actually deleted. Missing IDs are not an error.
	DeleteBills(ids []int64) (int64, error)
}
