// Package models defines the core domain types for the okane ledger.
//
// Balances and bills are scoped per community: each community (guild) has
// its own balance table and bill set, and value never crosses communities.
package models

// Account holds one principal's VTD balance within a community.
// Accounts are created implicitly on first reference; an absent row
// reads as a zero balance. Accounts are never deleted.
type Account struct {
	// CommunityID is the community (guild) this account belongs to.
	CommunityID string

	// PrincipalID is the opaque platform identifier of the account holder.
	PrincipalID string

	// Balance is the current amount of VTD held. Never negative.
	Balance int64
}

// Bill is a pending debt obligation from a debtor to a claimant.
//
// A bill exists if and only if it is unsettled: settlement removes the
// bill atomically with the matching balance transfer, so the bill set is
// always exactly the set of outstanding debts.
type Bill struct {
	// ID is the unique identifier for the bill, assigned by the store.
	ID int64

	// CommunityID is the community the bill was issued in.
	CommunityID string

	// ClaimantID is the principal who issued the request (the creditor).
	ClaimantID string

	// DebtorID is the principal who owes the amount.
	DebtorID string

	// Amount is the billed amount of VTD. Always positive.
	Amount int64

	// Deadline is the Unix timestamp the claimant asked to be paid by.
	// Informational only: nothing expires or rejects a bill past it.
	Deadline int64

	// CreatedAt is the Unix timestamp when the bill was issued.
	CreatedAt int64
}
