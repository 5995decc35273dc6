package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vacanza-be/internal/models"
	"vacanza-be/internal/money"
	"vacanza-be/internal/storage"
)

// CreateExpense persists a new expense with its paid and owed shares in
// one transaction. Expenses are immutable once created; there is no
// update path, only delete and ReplaceExpense.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.insertExpense(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) insertExpense(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC()
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO expenses (activity_id, description, currency, created_at) VALUES (?, ?, ?, ?)",
		expense.ActivityID, expense.Description, expense.Currency, expense.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read expense id: %w", err)
	}
	expense.ID = id

	for _, p := range expense.Payers {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_payers (expense_id, group_member_id, paid_cents) VALUES (?, ?, ?)",
			expense.ID, p.GroupMemberID, int64(p.PaidAmount),
		)
		if err != nil {
			return fmt.Errorf("failed to insert payer: %w", err)
		}
	}
	for _, sp := range expense.Splits {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, group_member_id, owed_cents, is_payer) VALUES (?, ?, ?, ?)",
			expense.ID, sp.GroupMemberID, int64(sp.Amount), sp.IsPayer,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}

// ReplaceExpense deletes the old expense and creates the new one in a
// single transaction, implementing the edit-as-delete+recreate policy.
// Either both happen or neither does.
func (s *SQLiteStore) ReplaceExpense(ctx context.Context, oldExpenseID int64, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", oldExpenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %d: %w", oldExpenseID, storage.ErrNotFound)
	}

	if err := s.insertExpense(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense with its shares and member names.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID int64) (*models.Expense, error) {
	expense := &models.Expense{}
	var createdAt int64

	err := s.db.QueryRowContext(ctx,
		"SELECT id, activity_id, description, currency, created_at FROM expenses WHERE id = ?",
		expenseID,
	).Scan(&expense.ID, &expense.ActivityID, &expense.Description, &expense.Currency, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %d: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.CreatedAt = time.Unix(createdAt, 0).UTC()

	if err := s.loadShares(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *SQLiteStore) loadShares(ctx context.Context, expense *models.Expense) error {
	payerRows, err := s.db.QueryContext(ctx,
		`SELECT ep.group_member_id, u.name, ep.paid_cents
		 FROM expense_payers ep
		 JOIN group_members gm ON gm.id = ep.group_member_id
		 JOIN users u ON u.id = gm.user_id
		 WHERE ep.expense_id = ? ORDER BY ep.id`,
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get payers: %w", err)
	}
	defer payerRows.Close()

	for payerRows.Next() {
		var p models.ExpensePayer
		var cents int64
		if err := payerRows.Scan(&p.GroupMemberID, &p.UserName, &cents); err != nil {
			return fmt.Errorf("failed to scan payer: %w", err)
		}
		p.PaidAmount = money.Cents(cents)
		expense.Payers = append(expense.Payers, p)
	}
	if err := payerRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate payers: %w", err)
	}

	splitRows, err := s.db.QueryContext(ctx,
		`SELECT es.group_member_id, u.name, es.owed_cents, es.is_payer
		 FROM expense_splits es
		 JOIN group_members gm ON gm.id = es.group_member_id
		 JOIN users u ON u.id = gm.user_id
		 WHERE es.expense_id = ? ORDER BY es.id`,
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var sp models.ExpenseSplit
		var cents int64
		if err := splitRows.Scan(&sp.GroupMemberID, &sp.UserName, &cents, &sp.IsPayer); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		sp.Amount = money.Cents(cents)
		expense.Splits = append(expense.Splits, sp)
	}
	if err := splitRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}

// ListExpensesByActivity retrieves all expenses of one activity, newest
// first.
func (s *SQLiteStore) ListExpensesByActivity(ctx context.Context, activityID int64) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		"SELECT id, activity_id, description, currency, created_at FROM expenses WHERE activity_id = ? ORDER BY created_at DESC, id DESC",
		activityID)
}

// ListExpensesByGroup retrieves all expenses across a group's activities.
// This is the input set for balance aggregation.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID int64) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT e.id, e.activity_id, e.description, e.currency, e.created_at
		 FROM expenses e
		 JOIN activities a ON a.id = e.activity_id
		 WHERE a.group_id = ? ORDER BY e.created_at, e.id`,
		groupID)
}

func (s *SQLiteStore) listExpenses(ctx context.Context, query string, arg any) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var createdAt int64
		if err := rows.Scan(&expense.ID, &expense.ActivityID, &expense.Description, &expense.Currency, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.CreatedAt = time.Unix(createdAt, 0).UTC()
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := s.loadShares(ctx, expense); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// DeleteExpense removes an expense; its shares cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %d: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}
