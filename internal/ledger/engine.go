// Package ledger implements the settlement engine: every balance mutation
// and bill settlement in the system goes through it.
//
// All check-then-mutate sequences run inside a single store transaction,
// so conservation (no VTD created or destroyed by transfers/settlements),
// the non-negative balance invariant, and at-most-once settlement hold
// under concurrent use. When two settlements race for the same bill, the
// loser observes ErrBillNotFound.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/okanebot/okane/internal/models"
	"github.com/okanebot/okane/internal/storage"
)

// Engine validates and executes ledger operations against a Store.
// It is the sole writer of balances and the sole deleter of bills.
type Engine struct {
	store storage.Store
}

// NewEngine creates an Engine backed by the given store.
func NewEngine(store storage.Store) *Engine {
	return &Engine{store: store}
}

// Settlement reports what a successful Settle* call actually did.
type Settlement struct {
	// Bills are the bills that were settled. May be empty for a batch
	// settlement whose bills were all settled concurrently.
	Bills []models.Bill

	// Total is the amount debited from the debtor.
	Total int64
}

// Balance returns the principal's current balance.
func (e *Engine) Balance(ctx context.Context, communityID, principalID string) (int64, error) {
	return e.store.Balance(ctx, communityID, principalID)
}

// ListBills returns the debtor's outstanding bills, ordered by ID.
func (e *Engine) ListBills(ctx context.Context, communityID, debtorID string) ([]models.Bill, error) {
	return e.store.ListBillsByDebtor(ctx, communityID, debtorID)
}

// Grant credits amount to the principal. Authorization (admin or owner)
// is the command layer's responsibility; the engine only validates the
// amount. Grants inject new value into the community.
func (e *Engine) Grant(ctx context.Context, communityID, principalID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return e.store.Update(ctx, func(tx storage.Tx) error {
		return tx.ApplyDelta(communityID, principalID, amount)
	})
}

// Confiscate debits amount from the principal, rejecting with
// ErrInsufficientFunds if the balance is too small. Confiscations remove
// value from the community.
func (e *Engine) Confiscate(ctx context.Context, communityID, principalID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	err := e.store.Update(ctx, func(tx storage.Tx) error {
		return tx.ApplyDelta(communityID, principalID, -amount)
	})
	return mapBalanceErr(err)
}

// Transfer moves amount from one principal to another. The affordability
// check and both mutations are one atomic unit.
func (e *Engine) Transfer(ctx context.Context, communityID, fromID, toID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if fromID == toID {
		return ErrSelfTransfer
	}
	err := e.store.Update(ctx, func(tx storage.Tx) error {
		if err := tx.ApplyDelta(communityID, fromID, -amount); err != nil {
			return err
		}
		return tx.ApplyDelta(communityID, toID, amount)
	})
	return mapBalanceErr(err)
}

// IssueBill creates a pending bill from debtor to claimant and returns
// its ID. The deadline is stored as given; nothing enforces it.
func (e *Engine) IssueBill(ctx context.Context, communityID, claimantID, debtorID string, amount, deadline int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if claimantID == debtorID {
		return 0, ErrSelfBill
	}
	bill := &models.Bill{
		CommunityID: communityID,
		ClaimantID:  claimantID,
		DebtorID:    debtorID,
		Amount:      amount,
		Deadline:    deadline,
	}
	if err := e.store.CreateBill(ctx, bill); err != nil {
		return 0, err
	}
	slog.Info("bill issued",
		"bill_id", bill.ID,
		"community_id", communityID,
		"claimant_id", claimantID,
		"debtor_id", debtorID,
		"amount", amount,
	)
	return bill.ID, nil
}

// SettleOne pays off a single bill: debit the debtor, credit the
// claimant, delete the bill, all in one transaction. actor must be the
// bill's debtor.
func (e *Engine) SettleOne(ctx context.Context, billID int64, actorID string) (*Settlement, error) {
	var settled models.Bill
	err := e.store.Update(ctx, func(tx storage.Tx) error {
		bill, err := tx.GetBill(billID)
		if err != nil {
			return err
		}
		if bill == nil {
			return ErrBillNotFound
		}
		if bill.DebtorID != actorID {
			return ErrNotYourBill
		}
		if err := tx.ApplyDelta(bill.CommunityID, bill.DebtorID, -bill.Amount); err != nil {
			return err
		}
		if err := tx.ApplyDelta(bill.CommunityID, bill.ClaimantID, bill.Amount); err != nil {
			return err
		}
		n, err := tx.DeleteBills([]int64{bill.ID})
		if err != nil {
			return err
		}
		if n != 1 {
			return ErrBillNotFound
		}
		settled = *bill
		return nil
	})
	if err != nil {
		return nil, mapBalanceErr(err)
	}
	e.logSettlement("settle_one", actorID, []models.Bill{settled}, settled.Amount)
	return &Settlement{Bills: []models.Bill{settled}, Total: settled.Amount}, nil
}

// SettleMany pays off a batch of bills owed by actor. Bill IDs that no
// longer exist (already settled) are silently dropped from the batch.
// The debtor is debited once by the batch total, so affordability is
// all-or-nothing across the batch.
func (e *Engine) SettleMany(ctx context.Context, communityID string, billIDs []int64, actorID string) (*Settlement, error) {
	var result Settlement
	err := e.store.Update(ctx, func(tx storage.Tx) error {
		var bills []models.Bill
		seen := make(map[int64]bool, len(billIDs))
		for _, id := range billIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			bill, err := tx.GetBill(id)
			if err != nil {
				return err
			}
			if bill == nil || bill.CommunityID != communityID {
				continue // already settled, or not this community's bill
			}
			bills = append(bills, *bill)
		}
		var err error
		result, err = settleBatch(tx, communityID, actorID, bills)
		return err
	})
	if err != nil {
		return nil, mapBalanceErr(err)
	}
	e.logSettlement("settle_many", actorID, result.Bills, result.Total)
	return &result, nil
}

// SettleAll pays off every outstanding bill owed by the debtor in the
// community, with the same batch semantics as SettleMany.
func (e *Engine) SettleAll(ctx context.Context, communityID, debtorID string) (*Settlement, error) {
	var result Settlement
	err := e.store.Update(ctx, func(tx storage.Tx) error {
		bills, err := tx.BillsByDebtor(communityID, debtorID)
		if err != nil {
			return err
		}
		result, err = settleBatch(tx, communityID, debtorID, bills)
		return err
	})
	if err != nil {
		return nil, mapBalanceErr(err)
	}
	e.logSettlement("settle_all", debtorID, result.Bills, result.Total)
	return &result, nil
}

// settleBatch executes the shared batch settlement core inside tx:
// one debit of the total, one credit per claimant, delete all bills.
func settleBatch(tx storage.Tx, communityID, actorID string, bills []models.Bill) (Settlement, error) {
	var total int64
	credits := make(map[string]int64)
	ids := make([]int64, 0, len(bills))
	for _, bill := range bills {
		if bill.DebtorID != actorID {
			return Settlement{}, ErrNotYourBill
		}
		total += bill.Amount
		credits[bill.ClaimantID] += bill.Amount
		ids = append(ids, bill.ID)
	}
	if len(bills) == 0 {
		return Settlement{}, nil
	}

	if err := tx.ApplyDelta(communityID, actorID, -total); err != nil {
		return Settlement{}, err
	}

	// Credit claimants in a fixed order so batches apply deterministically.
	claimants := make([]string, 0, len(credits))
	for claimant := range credits {
		claimants = append(claimants, claimant)
	}
	sort.Strings(claimants)
	for _, claimant := range claimants {
		if err := tx.ApplyDelta(communityID, claimant, credits[claimant]); err != nil {
			return Settlement{}, err
		}
	}

	n, err := tx.DeleteBills(ids)
	if err != nil {
		return Settlement{}, err
	}
	if n != int64(len(ids)) {
		// A bill vanished between the read and the delete within our own
		// transaction; treat the whole batch as lost to the race.
		return Settlement{}, ErrBillNotFound
	}
	return Settlement{Bills: bills, Total: total}, nil
}

func (e *Engine) logSettlement(kind, actorID string, bills []models.Bill, total int64) {
	slog.Info("bills settled",
		"kind", kind,
		"actor_id", actorID,
		"bills", len(bills),
		"total", total,
	)
}

// mapBalanceErr converts the store's negative-balance rejection into the
// engine's business error; everything else passes through unchanged.
func mapBalanceErr(err error) error {
	if errors.Is(err, storage.ErrNegativeBalance) {
		return ErrInsufficientFunds
	}
	return err
}
