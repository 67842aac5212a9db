package ledger

import "errors"

// Business-rule violations. These are the only errors the engine returns
// for invalid operations; store failures are wrapped and passed through
// separately so callers can tell a rejected operation from a broken one.
var (
	// ErrInvalidAmount rejects any operation with a non-positive amount.
	ErrInvalidAmount = errors.New("amount must be a positive integer")

	// ErrSelfTransfer rejects paying yourself.
	ErrSelfTransfer = errors.New("cannot transfer to yourself")

	// ErrSelfBill rejects billing yourself.
	ErrSelfBill = errors.New("cannot bill yourself")

	// ErrInsufficientFunds rejects a debit that would overdraw the account.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrBillNotFound means the bill does not exist, usually because it
	// was already settled.
	ErrBillNotFound = errors.New("bill not found or already settled")

	// ErrNotYourBill rejects a settlement attempted by anyone other than
	// the bill's debtor.
	ErrNotYourBill = errors.New("bill is owed by someone else")
)
