package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mavidal/fintrack-be/internal/database"
	"github.com/mavidal/fintrack-be/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB, name, email string) models.User {
	t.Helper()
	user := models.User{ID: uuid.New().String(), Name: name, Email: email}
	_, err := db.Exec("INSERT INTO users (id, name, email, password_hash) VALUES (?, ?, ?, ?)",
		user.ID, user.Name, user.Email, "x")
	require.NoError(t, err)
	return user
}

func userTotal(t *testing.T, db *sql.DB, email string) float64 {
	t.Helper()
	var total float64
	require.NoError(t, db.QueryRow("SELECT total_expense FROM users WHERE email = ?", email).Scan(&total))
	return total
}

func ledgerSum(t *testing.T, db *sql.DB, email string) float64 {
	t.Helper()
	var sum float64
	require.NoError(t, db.QueryRow(`
		SELECT COALESCE(SUM(e.amount), 0) FROM expenses e
		JOIN users u ON u.id = e.user_id WHERE u.email = ?`, email).Scan(&sum))
	return sum
}

// recordingScheduler captures export hand-offs without running them.
type recordingScheduler struct {
	owners []models.User
}

func (r *recordingScheduler) Enqueue(owner models.User) {
	r.owners = append(r.owners, owner)
}

func TestAddExpenseKeepsAggregateConsistent(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "Ana", "ana@example.com")
	svc := NewExpenseService(db, nil)
	ctx := context.Background()

	amounts := []float64{12.30, 0, 7.05, 100}
	for _, amount := range amounts {
		_, err := svc.AddExpense(ctx, "ana@example.com", amount, "item", "misc")
		require.NoError(t, err)
		assert.InDelta(t, ledgerSum(t, db, "ana@example.com"), userTotal(t, db, "ana@example.com"), 1e-9)
	}

	expenses, err := svc.ListExpenses(ctx, "ana@example.com")
	require.NoError(t, err)
	for _, e := range expenses {
		require.NoError(t, svc.DeleteExpense(ctx, e.ID))
		assert.InDelta(t, ledgerSum(t, db, "ana@example.com"), userTotal(t, db, "ana@example.com"), 1e-9)
	}

	assert.InDelta(t, 0, userTotal(t, db, "ana@example.com"), 1e-9)
}

func TestAddExpenseUnknownOwner(t *testing.T) {
	db := newTestDB(t)
	sched := &recordingScheduler{}
	svc := NewExpenseService(db, sched)

	_, err := svc.AddExpense(context.Background(), "ghost@example.com", 10, "item", "misc")
	assert.ErrorIs(t, err, ErrUserNotFound)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(1) FROM expenses").Scan(&count))
	assert.Zero(t, count, "failed add must leave no ledger rows")
	assert.Empty(t, sched.owners, "failed add must not schedule an export")
}

func TestAddExpenseNegativeAmount(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "Ana", "ana@example.com")
	svc := NewExpenseService(db, nil)

	_, err := svc.AddExpense(context.Background(), "ana@example.com", -5, "item", "misc")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDeleteExpenseUnknownID(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "Ana", "ana@example.com")
	sched := &recordingScheduler{}
	svc := NewExpenseService(db, sched)

	err := svc.DeleteExpense(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrExpenseNotFound)
	assert.InDelta(t, 0, userTotal(t, db, "ana@example.com"), 1e-9)
	assert.Empty(t, sched.owners)
}

func TestAddDeleteScenario(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "A", "a@x.com")
	svc := NewExpenseService(db, nil)
	ctx := context.Background()

	first, err := svc.AddExpense(ctx, "a@x.com", 25.50, "groceries", "food")
	require.NoError(t, err)
	assert.InDelta(t, 25.50, userTotal(t, db, "a@x.com"), 1e-9)

	_, err = svc.AddExpense(ctx, "a@x.com", 10, "bus", "transport")
	require.NoError(t, err)
	assert.InDelta(t, 35.50, userTotal(t, db, "a@x.com"), 1e-9)

	require.NoError(t, svc.DeleteExpense(ctx, first.ID))
	assert.InDelta(t, 10.00, userTotal(t, db, "a@x.com"), 1e-9)

	expenses, err := svc.ListExpenses(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "bus", expenses[0].Description)

	report := string(Render(expenses))
	assert.Equal(t,
		"created_at | description | category | amount\n"+
			expenses[0].CreatedAt.Format("2006-01-02")+" | bus | transport | 10.00",
		report)
}

func TestMutationsScheduleExport(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Ana", "ana@example.com")
	sched := &recordingScheduler{}
	svc := NewExpenseService(db, sched)
	ctx := context.Background()

	expense, err := svc.AddExpense(ctx, "ana@example.com", 5, "coffee", "food")
	require.NoError(t, err)
	require.Len(t, sched.owners, 1)
	assert.Equal(t, user.ID, sched.owners[0].ID)
	assert.Equal(t, user.Email, sched.owners[0].Email)

	require.NoError(t, svc.DeleteExpense(ctx, expense.ID))
	require.Len(t, sched.owners, 2)
	assert.Equal(t, user.Email, sched.owners[1].Email)
}

// Force the aggregate update to fail after the ledger insert: the whole
// transaction must roll back and nothing may be scheduled.
func TestAddExpenseRollsBackWhenAggregateUpdateFails(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "Ana", "ana@example.com")
	_, err := db.Exec(`CREATE TRIGGER fail_total BEFORE UPDATE ON users
		BEGIN SELECT RAISE(ABORT, 'boom'); END;`)
	require.NoError(t, err)

	sched := &recordingScheduler{}
	svc := NewExpenseService(db, sched)

	_, err = svc.AddExpense(context.Background(), "ana@example.com", 10, "item", "misc")
	require.Error(t, err)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(1) FROM expenses").Scan(&count))
	assert.Zero(t, count, "aborted add must leave no ledger rows")
	assert.InDelta(t, 0, userTotal(t, db, "ana@example.com"), 1e-9)
	assert.Empty(t, sched.owners, "aborted add must not schedule an export")
}

func TestDeleteExpenseRollsBackWhenRowDeleteFails(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "Ana", "ana@example.com")
	sched := &recordingScheduler{}
	svc := NewExpenseService(db, sched)
	ctx := context.Background()

	expense, err := svc.AddExpense(ctx, "ana@example.com", 10, "item", "misc")
	require.NoError(t, err)
	require.Len(t, sched.owners, 1)

	// The delete path decrements the aggregate first; failing the row
	// delete afterwards must undo the decrement too.
	_, err = db.Exec(`CREATE TRIGGER fail_delete BEFORE DELETE ON expenses
		BEGIN SELECT RAISE(ABORT, 'boom'); END;`)
	require.NoError(t, err)

	require.Error(t, svc.DeleteExpense(ctx, expense.ID))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(1) FROM expenses").Scan(&count))
	assert.Equal(t, 1, count, "aborted delete must keep the ledger row")
	assert.InDelta(t, 10, userTotal(t, db, "ana@example.com"), 1e-9)
	assert.Len(t, sched.owners, 1, "aborted delete must not schedule an export")
}

// A failing export must never surface through the mutation result.
func TestAddExpenseSucceedsWhenExportFails(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "Ana", "ana@example.com")
	exportSvc := NewExportService(db, &failingStore{})
	svc := NewExpenseService(db, syncScheduler{exportSvc})

	_, err := svc.AddExpense(context.Background(), "ana@example.com", 9.99, "book", "leisure")
	require.NoError(t, err)
	assert.InDelta(t, 9.99, userTotal(t, db, "ana@example.com"), 1e-9)
}

// syncScheduler runs the publish inline, mimicking a worker that happens to
// execute before the caller returns.
type syncScheduler struct {
	svc *ExportService
}

func (s syncScheduler) Enqueue(owner models.User) {
	_ = s.svc.Publish(context.Background(), owner)
}

func TestListExpensesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Ana", "ana@example.com")
	svc := NewExpenseService(db, nil)

	base := time.Date(2024, 3, 5, 12, 0, 0, 0, time.Local)
	insertExpenseAt(t, db, user.ID, 1, "oldest", base)
	insertExpenseAt(t, db, user.ID, 2, "middle", base.Add(time.Hour))
	insertExpenseAt(t, db, user.ID, 3, "newest", base.Add(2*time.Hour))

	expenses, err := svc.ListExpenses(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.Len(t, expenses, 3)
	assert.Equal(t, "newest", expenses[0].Description)
	assert.Equal(t, "middle", expenses[1].Description)
	assert.Equal(t, "oldest", expenses[2].Description)
}

func TestListExpensesInWindowInclusiveBounds(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Ana", "ana@example.com")
	svc := NewExpenseService(db, nil)

	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 3, 6, 23, 59, 59, endOfDayNanos, time.Local)

	insertExpenseAt(t, db, user.ID, 1, "before", start.Add(-time.Second))
	insertExpenseAt(t, db, user.ID, 2, "on-start", start)
	insertExpenseAt(t, db, user.ID, 3, "inside", start.AddDate(0, 0, 1))
	insertExpenseAt(t, db, user.ID, 4, "on-end", end)
	insertExpenseAt(t, db, user.ID, 5, "after", end.Add(time.Second))

	expenses, err := svc.ListExpensesInWindow(context.Background(), "ana@example.com", start, end)
	require.NoError(t, err)
	require.Len(t, expenses, 3)
	assert.Equal(t, "on-end", expenses[0].Description)
	assert.Equal(t, "inside", expenses[1].Description)
	assert.Equal(t, "on-start", expenses[2].Description)
}

func TestWeeklyWindowQuery(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "Ana", "ana@example.com")
	svc := NewExpenseService(db, nil)

	// Anchor mid-week: Tuesday 2024-03-05 sits in the Sun-Sat week Mar 3-9.
	anchor := time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local)
	insertExpenseAt(t, db, user.ID, 1, "in-week", time.Date(2024, 3, 4, 9, 0, 0, 0, time.Local))
	insertExpenseAt(t, db, user.ID, 2, "next-sunday", time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local))
	insertExpenseAt(t, db, user.ID, 3, "prior-friday", time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local))

	start, end := WeekWindow(anchor)
	expenses, err := svc.ListExpensesInWindow(context.Background(), "ana@example.com", start, end)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "in-week", expenses[0].Description)
}

func TestLeaderboardOrdering(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "Small", "small@example.com")
	createTestUser(t, db, "Big", "big@example.com")
	createTestUser(t, db, "Mid", "mid@example.com")
	svc := NewExpenseService(db, nil)
	ctx := context.Background()

	_, err := svc.AddExpense(ctx, "small@example.com", 5, "item", "misc")
	require.NoError(t, err)
	_, err = svc.AddExpense(ctx, "big@example.com", 50, "item", "misc")
	require.NoError(t, err)
	_, err = svc.AddExpense(ctx, "mid@example.com", 20, "item", "misc")
	require.NoError(t, err)

	entries, err := svc.Leaderboard(ctx, 100)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Big", entries[0].Name)
	assert.InDelta(t, 50, entries[0].TotalExpense, 1e-9)
	assert.Equal(t, "Mid", entries[1].Name)
	assert.Equal(t, "Small", entries[2].Name)
}

func TestLeaderboardLimit(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "A", "a@example.com")
	createTestUser(t, db, "B", "b@example.com")
	svc := NewExpenseService(db, nil)

	entries, err := svc.Leaderboard(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func insertExpenseAt(t *testing.T, db *sql.DB, userID string, amount float64, description string, at time.Time) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO expenses (id, user_id, amount, description, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), userID, amount, description, "misc", at)
	require.NoError(t, err)
	_, err = db.Exec("UPDATE users SET total_expense = total_expense + ? WHERE id = ?", amount, userID)
	require.NoError(t, err)
}
