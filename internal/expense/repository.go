package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/yassirh/fairsplit/internal/expense/split"
	"github.com/yassirh/fairsplit/internal/money"
)

// Repository handles expense and split persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateExpense inserts an expense and its splits in one transaction
func (r *Repository) CreateExpense(ctx context.Context, groupID, payerID, createdBy int64, description string, amount money.Cents, shares []split.Split) (*Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	expense := &Expense{}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO expenses (group_id, payer_id, created_by, description, amount_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, group_id, payer_id, created_by, description, amount_cents, created_at
	`, groupID, payerID, createdBy, description, amount).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.PayerID,
		&expense.CreatedBy,
		&expense.Description,
		&expense.Amount,
		&expense.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	if err := insertSplits(ctx, tx, expense.ID, shares); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	expense.Splits, err = r.GetSplitsByExpenseID(ctx, expense.ID)
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// UpdateExpense rewrites an expense and replaces all of its splits in one
// transaction. The old splits are deleted, not reconciled.
func (r *Repository) UpdateExpense(ctx context.Context, id, payerID int64, description string, amount money.Cents, shares []split.Split) (*Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	expense := &Expense{}
	err = tx.QueryRowContext(ctx, `
		UPDATE expenses
		SET payer_id = $2, description = $3, amount_cents = $4
		WHERE id = $1
		RETURNING id, group_id, payer_id, created_by, description, amount_cents, created_at
	`, id, payerID, description, amount).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.PayerID,
		&expense.CreatedBy,
		&expense.Description,
		&expense.Amount,
		&expense.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM splits WHERE expense_id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to delete old splits: %w", err)
	}

	if err := insertSplits(ctx, tx, id, shares); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense update: %w", err)
	}

	expense.Splits, err = r.GetSplitsByExpenseID(ctx, id)
	if err != nil {
		return nil, err
	}
	return expense, nil
}

func insertSplits(ctx context.Context, tx *sql.Tx, expenseID int64, shares []split.Split) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO splits (expense_id, user_id, amount_cents, status)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare split insert: %w", err)
	}
	defer stmt.Close()

	for _, sh := range shares {
		if _, err := stmt.ExecContext(ctx, expenseID, sh.UserID, sh.Amount, SplitStatusPending); err != nil {
			return fmt.Errorf("failed to create split for user %d: %w", sh.UserID, err)
		}
	}
	return nil
}

// GetExpenseByID retrieves an expense by its ID
func (r *Repository) GetExpenseByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.payer_id, e.created_by, e.description, e.amount_cents, e.created_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.id = $1
	`

	expense := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.PayerID,
		&expense.CreatedBy,
		&expense.Description,
		&expense.Amount,
		&expense.CreatedAt,
		&expense.PayerUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// GetSplitsByExpenseID retrieves all splits for an expense, in insertion order
func (r *Repository) GetSplitsByExpenseID(ctx context.Context, expenseID int64) ([]*Split, error) {
	query := `
		SELECT s.id, s.expense_id, s.user_id, s.amount_cents, s.status, s.dispute_reason, s.settlement_id, s.updated_at, u.username
		FROM splits s
		JOIN users u ON s.user_id = u.id
		WHERE s.expense_id = $1
		ORDER BY s.id
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	return scanSplits(rows, true)
}

// GetSplitByID retrieves a split by its ID
func (r *Repository) GetSplitByID(ctx context.Context, id int64) (*Split, error) {
	query := `
		SELECT s.id, s.expense_id, s.user_id, s.amount_cents, s.status, s.dispute_reason, s.settlement_id, s.updated_at, u.username
		FROM splits s
		JOIN users u ON s.user_id = u.id
		WHERE s.id = $1
	`

	s := &Split{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.ExpenseID,
		&s.UserID,
		&s.Amount,
		&s.Status,
		&s.DisputeReason,
		&s.SettlementID,
		&s.UpdatedAt,
		&s.Username,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get split: %w", err)
	}

	return s, nil
}

// ListExpensesByGroupID retrieves a page of a group's expenses, newest first
func (r *Repository) ListExpensesByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.group_id, e.payer_id, e.created_by, e.description, e.amount_cents, e.created_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.group_id = $1
		ORDER BY e.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		expense := &Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.GroupID,
			&expense.PayerID,
			&expense.CreatedBy,
			&expense.Description,
			&expense.Amount,
			&expense.CreatedAt,
			&expense.PayerUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	return expenses, total, rows.Err()
}

// ListExpensesWithSplitsByGroup loads every expense of a group together with
// its splits, oldest first. This is the aggregation snapshot the balance
// calculations run over.
func (r *Repository) ListExpensesWithSplitsByGroup(ctx context.Context, groupID int64) ([]*Expense, error) {
	query := `
		SELECT id, group_id, payer_id, created_by, description, amount_cents, created_at
		FROM expenses
		WHERE group_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	byID := make(map[int64]*Expense)
	for rows.Next() {
		expense := &Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.GroupID,
			&expense.PayerID,
			&expense.CreatedBy,
			&expense.Description,
			&expense.Amount,
			&expense.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	splitQuery := `
		SELECT s.id, s.expense_id, s.user_id, s.amount_cents, s.status, s.dispute_reason, s.settlement_id, s.updated_at
		FROM splits s
		JOIN expenses e ON s.expense_id = e.id
		WHERE e.group_id = $1
		ORDER BY s.id
	`

	splitRows, err := r.db.QueryContext(ctx, splitQuery, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer splitRows.Close()

	splits, err := scanSplits(splitRows, false)
	if err != nil {
		return nil, err
	}
	for _, s := range splits {
		if e, ok := byID[s.ExpenseID]; ok {
			e.Splits = append(e.Splits, s)
		}
	}

	return expenses, nil
}

// UpdateSplitStatus updates the status of a split
func (r *Repository) UpdateSplitStatus(ctx context.Context, id int64, status SplitStatus, disputeReason *string) (*Split, error) {
	query := `
		UPDATE splits
		SET status = $2, dispute_reason = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, expense_id, user_id, amount_cents, status, dispute_reason, settlement_id, updated_at
	`

	s := &Split{}
	err := r.db.QueryRowContext(ctx, query, id, status, disputeReason).Scan(
		&s.ID,
		&s.ExpenseID,
		&s.UserID,
		&s.Amount,
		&s.Status,
		&s.DisputeReason,
		&s.SettlementID,
		&s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update split status: %w", err)
	}

	return s, nil
}

// GetOpenSplitsBetweenUsers gets the open splits where debtor owes creditor.
// Open means pending or paid and not locked to a settlement. The payer's own
// split rows never count as debts.
func (r *Repository) GetOpenSplitsBetweenUsers(ctx context.Context, debtorID, creditorID int64) ([]*Split, error) {
	query := `
		SELECT s.id, s.expense_id, s.user_id, s.amount_cents, s.status, s.dispute_reason, s.settlement_id, s.updated_at
		FROM splits s
		JOIN expenses e ON s.expense_id = e.id
		WHERE s.user_id = $1
		  AND e.payer_id = $2
		  AND s.user_id <> e.payer_id
		  AND s.status IN ('PENDING', 'PAID')
		  AND s.settlement_id IS NULL
		ORDER BY s.id
	`

	rows, err := r.db.QueryContext(ctx, query, debtorID, creditorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	return scanSplits(rows, false)
}

// LockSplitsToSettlement locks splits to a settlement
func (r *Repository) LockSplitsToSettlement(ctx context.Context, splitIDs []int64, settlementID int64) error {
	query := `UPDATE splits SET settlement_id = $2, updated_at = NOW() WHERE id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, pq.Array(splitIDs), settlementID); err != nil {
		return fmt.Errorf("failed to lock splits: %w", err)
	}
	return nil
}

// UnlockSplitsFromSettlement removes the settlement lock from splits
func (r *Repository) UnlockSplitsFromSettlement(ctx context.Context, settlementID int64) error {
	query := `UPDATE splits SET settlement_id = NULL, updated_at = NOW() WHERE settlement_id = $1`
	if _, err := r.db.ExecContext(ctx, query, settlementID); err != nil {
		return fmt.Errorf("failed to unlock splits: %w", err)
	}
	return nil
}

// ConfirmSplitsBySettlement marks all splits locked to a settlement confirmed
func (r *Repository) ConfirmSplitsBySettlement(ctx context.Context, settlementID int64) error {
	query := `UPDATE splits SET status = $2, updated_at = NOW() WHERE settlement_id = $1`
	if _, err := r.db.ExecContext(ctx, query, settlementID, SplitStatusConfirmed); err != nil {
		return fmt.Errorf("failed to confirm splits: %w", err)
	}
	return nil
}

// DeleteExpense deletes an expense; its splits go with it via cascade
func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanSplits(rows *sql.Rows, withUsername bool) ([]*Split, error) {
	var splits []*Split
	for rows.Next() {
		s := &Split{}
		dest := []interface{}{
			&s.ID,
			&s.ExpenseID,
			&s.UserID,
			&s.Amount,
			&s.Status,
			&s.DisputeReason,
			&s.SettlementID,
			&s.UpdatedAt,
		}
		if withUsername {
			dest = append(dest, &s.Username)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, s)
	}
	return splits, rows.Err()
}
