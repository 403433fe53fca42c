package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/mavidal/fintrack-be/internal/models"
	"github.com/mavidal/fintrack-be/internal/objectstore"
)

const exportHeader = "created_at | description | category | amount"

// ExportKey derives the object-store key for a user's ledger snapshot.
func ExportKey(email string) string {
	return "expenses-" + email + ".txt"
}

// ExportServiceProvider defines the interface for export services.
type ExportServiceProvider interface {
	Publish(ctx context.Context, owner models.User) error
}

// ExportService renders a user's full ledger as flat text and publishes it
// to the object store. The store content is a convenience projection; the
// database stays authoritative and the write is last-writer-wins.
type ExportService struct {
	db    *sql.DB
	store objectstore.Store
}

// NewExportService creates a new ExportService.
func NewExportService(db *sql.DB, store objectstore.Store) *ExportService {
	return &ExportService{db: db, store: store}
}

// Render formats expenses as one line per entry under a fixed header.
// Output is deterministic for a given input, so re-rendering an unchanged
// ledger yields byte-identical content.
func Render(expenses []models.Expense) []byte {
	var buf bytes.Buffer
	buf.WriteString(exportHeader)
	for _, e := range expenses {
		fmt.Fprintf(&buf, "\n%s | %s | %s | %.2f",
			e.CreatedAt.Format("2006-01-02"), e.Description, e.Category, e.Amount)
	}
	return buf.Bytes()
}

// Publish reads the owner's full ledger, renders it and overwrites the
// export object. Failures are returned to the caller (the projector), which
// logs and swallows them.
func (s *ExportService) Publish(ctx context.Context, owner models.User) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, amount, description, category, created_at
		FROM expenses WHERE user_id = ? ORDER BY created_at`, owner.ID)
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}
	defer rows.Close()

	expenses, err := scanExpenses(rows)
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}

	if err := s.store.Put(ctx, ExportKey(owner.Email), Render(expenses), "text/plain"); err != nil {
		return fmt.Errorf("publish export: %w", err)
	}
	return nil
}
