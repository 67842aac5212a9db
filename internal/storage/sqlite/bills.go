package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/okanebot/okane/internal/models"
)

// CreateBill persists a new bill and assigns its ID.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bills (community_id, claimant_id, debtor_id, amount, deadline, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		bill.CommunityID, bill.ClaimantID, bill.DebtorID, bill.Amount, bill.Deadline, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read bill id: %w", err)
	}
	bill.ID = id
	return nil
}

// GetBill retrieves a bill by ID. Returns (nil, nil) when the bill is absent.
func (s *SQLiteStore) GetBill(ctx context.Context, id int64) (*models.Bill, error) {
	return getBill(ctx, s.db, id)
}

// ListBillsByDebtor returns the debtor's outstanding bills, ordered by ID.
func (s *SQLiteStore) ListBillsByDebtor(ctx context.Context, communityID, debtorID string) ([]models.Bill, error) {
	return billsByDebtor(ctx, s.db, communityID, debtorID)
}

func getBill(ctx context.Context, q querier, id int64) (*models.Bill, error) {
	bill := &models.Bill{}
	err := q.QueryRowContext(ctx,
		`SELECT id, community_id, claimant_id, debtor_id, amount, deadline, created_at
		 FROM bills WHERE id = ?`,
		id,
	).Scan(&bill.ID, &bill.CommunityID, &bill.ClaimantID, &bill.DebtorID,
		&bill.Amount, &bill.Deadline, &bill.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil // bill absent: never issued or already settled
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return bill, nil
}

func billsByDebtor(ctx context.Context, q querier, communityID, debtorID string) ([]models.Bill, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, community_id, claimant_id, debtor_id, amount, deadline, created_at
		 FROM bills WHERE community_id = ? AND debtor_id = ? ORDER BY id`,
		communityID, debtorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills by debtor: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		var bill models.Bill
		if err := rows.Scan(&bill.ID, &bill.CommunityID, &bill.ClaimantID, &bill.DebtorID,
			&bill.Amount, &bill.Deadline, &bill.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return bills, nil
}

func (t *sqliteTx) GetBill(id int64) (*models.Bill, error) {
	return getBill(t.ctx, t.tx, id)
}

func (t *sqliteTx) BillsByDebtor(communityID, debtorID string) ([]models.Bill, error) {
	return billsByDebtor(t.ctx, t.tx, communityID, debtorID)
}

// DeleteBills removes the named bills, reporting how many rows were deleted.
func (t *sqliteTx) DeleteBills(ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := "DELETE FROM bills WHERE id IN (?" + repeatPlaceholder(len(ids)-1) + ")"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	res, err := t.tx.ExecContext(t.ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete bills: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n, nil
}

// repeatPlaceholder returns a string of ", ?" repeated n times.
// Used for building IN clauses with multiple placeholders.
func repeatPlaceholder(n int) string {
	if n <= 0 {
		return ""
	}
	result := ""
	for i := 0; i < n; i++ {
		result += ", ?"
	}
	return result
}
