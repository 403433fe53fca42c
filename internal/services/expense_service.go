package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mavidal/fintrack-be/internal/models"
)

var (
	// ErrUserNotFound is returned when an owner email or id resolves to no user.
	ErrUserNotFound = errors.New("user not found")
	// ErrExpenseNotFound is returned when an expense id resolves to no row.
	ErrExpenseNotFound = errors.New("expense not found")
	// ErrInvalidAmount is returned for negative amounts.
	ErrInvalidAmount = errors.New("amount must be non-negative")
)

// ExportScheduler receives fire-and-forget export requests after a
// successful mutation. Implementations must not block.
type ExportScheduler interface {
	Enqueue(owner models.User)
}

// ExpenseServiceProvider defines the interface for expense services.
type ExpenseServiceProvider interface {
	AddExpense(ctx context.Context, ownerEmail string, amount float64, description, category string) (models.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string) error
	ListExpenses(ctx context.Context, ownerEmail string) ([]models.Expense, error)
	ListExpensesInWindow(ctx context.Context, ownerEmail string, start, end time.Time) ([]models.Expense, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

// ExpenseService keeps the expense ledger and the per-user running total
// consistent. Every mutation commits the ledger row and the aggregate in a
// single transaction; the export hand-off happens only after commit.
type ExpenseService struct {
	db      *sql.DB
	exports ExportScheduler
}

// NewExpenseService creates a new ExpenseService. The scheduler may be nil,
// in which case no exports are triggered.
func NewExpenseService(db *sql.DB, exports ExportScheduler) *ExpenseService {
	return &ExpenseService{db: db, exports: exports}
}

// AddExpense inserts a ledger row for the owner and increments the owner's
// total_expense, atomically. On success the owner is handed to the export
// scheduler; a scheduling or export failure never affects the result.
func (s *ExpenseService) AddExpense(ctx context.Context, ownerEmail string, amount float64, description, category string) (models.Expense, error) {
	if amount < 0 {
		return models.Expense{}, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Expense{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var owner models.User
	err = tx.QueryRowContext(ctx, "SELECT id, name, email FROM users WHERE email = ?", ownerEmail).
		Scan(&owner.ID, &owner.Name, &owner.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Expense{}, ErrUserNotFound
		}
		return models.Expense{}, fmt.Errorf("resolve owner: %w", err)
	}

	expense := models.Expense{
		ID:          uuid.New().String(),
		UserID:      owner.ID,
		Amount:      amount,
		Description: description,
		Category:    category,
		CreatedAt:   time.Now(),
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses (id, user_id, amount, description, category, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		expense.ID, expense.UserID, expense.Amount, expense.Description, expense.Category, expense.CreatedAt)
	if err != nil {
		return models.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE users SET total_expense = total_expense + ? WHERE id = ?",
		expense.Amount, owner.ID)
	if err != nil {
		return models.Expense{}, fmt.Errorf("update total: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return models.Expense{}, fmt.Errorf("commit: %w", err)
	}

	if s.exports != nil {
		s.exports.Enqueue(owner)
	}
	return expense, nil
}

// DeleteExpense removes a ledger row and decrements the owner's
// total_expense, atomically. The owner's identity is captured inside the
// transaction so the export hand-off needs no second lookup.
func (s *ExpenseService) DeleteExpense(ctx context.Context, expenseID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var amount float64
	var owner models.User
	err = tx.QueryRowContext(ctx, `
		SELECT e.amount, u.id, u.name, u.email
		FROM expenses e JOIN users u ON u.id = e.user_id
		WHERE e.id = ?`, expenseID).
		Scan(&amount, &owner.ID, &owner.Name, &owner.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrExpenseNotFound
		}
		return fmt.Errorf("resolve expense: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE users SET total_expense = total_expense - ? WHERE id = ?", amount, owner.ID)
	if err != nil {
		return fmt.Errorf("update total: %w", err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if s.exports != nil {
		s.exports.Enqueue(owner)
	}
	return nil
}

// ListExpenses retrieves all expenses for a user, most recent first.
func (s *ExpenseService) ListExpenses(ctx context.Context, ownerEmail string) ([]models.Expense, error) {
	ownerID, err := s.resolveOwner(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, amount, description, category, created_at
		FROM expenses WHERE user_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExpenses(rows)
}

// ListExpensesInWindow retrieves a user's expenses within [start, end]
// inclusive, most recent first.
func (s *ExpenseService) ListExpensesInWindow(ctx context.Context, ownerEmail string, start, end time.Time) ([]models.Expense, error) {
	ownerID, err := s.resolveOwner(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, amount, description, category, created_at
		FROM expenses WHERE user_id = ? AND created_at >= ? AND created_at <= ?
		ORDER BY created_at DESC`, ownerID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExpenses(rows)
}

// Leaderboard returns users ordered by total spend, highest first.
func (s *ExpenseService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, total_expense FROM users ORDER BY total_expense DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.Name, &e.TotalExpense); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *ExpenseService) resolveOwner(ctx context.Context, email string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?", email).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return id, nil
}

func scanExpenses(rows *sql.Rows) ([]models.Expense, error) {
	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Description, &e.Category, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
