package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mavidal/fintrack-be/internal/models"
	"github.com/mavidal/fintrack-be/internal/services"
)

// ExpenseHandler handles HTTP requests for the expense ledger.
type ExpenseHandler struct {
	service services.ExpenseServiceProvider
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(service services.ExpenseServiceProvider) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// AddExpensePayload defines the structure for add-expense requests.
type AddExpensePayload struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Email       string  `json:"email"`
}

// Add handles the request to record a new expense.
func (h *ExpenseHandler) Add(w http.ResponseWriter, r *http.Request) {
	var payload AddExpensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Email == "" || payload.Description == "" || payload.Category == "" || payload.Amount < 0 {
		http.Error(w, "All fields are required and amount must be non-negative", http.StatusBadRequest)
		return
	}

	expense, err := h.service.AddExpense(r.Context(), payload.Email, payload.Amount, payload.Description, payload.Category)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to add expense")
		http.Error(w, "Error adding expense", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Expense added successfully",
		"expense": expense,
	})
}

// Delete handles the request to remove an expense.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteExpense(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrExpenseNotFound) {
			http.Error(w, "Expense not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("expense_id", id).Msg("Failed to delete expense")
		http.Error(w, "Error deleting expense", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Expense deleted successfully"})
}

// GetAll handles the request to list a user's full ledger, newest first.
func (h *ExpenseHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "Email required", http.StatusBadRequest)
		return
	}

	expenses, err := h.service.ListExpenses(r.Context(), email)
	if err != nil {
		h.writeListError(w, err, email)
		return
	}
	writeExpenseList(w, expenses)
}

// GetDaily lists today's expenses.
func (h *ExpenseHandler) GetDaily(w http.ResponseWriter, r *http.Request) {
	start, end := services.DayWindow(time.Now())
	h.getWindow(w, r, start, end)
}

// GetWeekly lists the current Sunday-to-Saturday week.
func (h *ExpenseHandler) GetWeekly(w http.ResponseWriter, r *http.Request) {
	start, end := services.WeekWindow(time.Now())
	h.getWindow(w, r, start, end)
}

// GetMonthly lists the current calendar month.
func (h *ExpenseHandler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	start, end := services.MonthWindow(time.Now())
	h.getWindow(w, r, start, end)
}

// GetYearly lists the current calendar year.
func (h *ExpenseHandler) GetYearly(w http.ResponseWriter, r *http.Request) {
	start, end := services.YearWindow(time.Now())
	h.getWindow(w, r, start, end)
}

func (h *ExpenseHandler) getWindow(w http.ResponseWriter, r *http.Request, start, end time.Time) {
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "Email required", http.StatusBadRequest)
		return
	}

	expenses, err := h.service.ListExpensesInWindow(r.Context(), email, start, end)
	if err != nil {
		h.writeListError(w, err, email)
		return
	}
	writeExpenseList(w, expenses)
}

func (h *ExpenseHandler) writeListError(w http.ResponseWriter, err error, email string) {
	if errors.Is(err, services.ErrUserNotFound) {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	log.Error().Err(err).Str("email", email).Msg("Failed to list expenses")
	http.Error(w, "Error getting expenses", http.StatusInternalServerError)
}

func writeExpenseList(w http.ResponseWriter, expenses []models.Expense) {
	if expenses == nil {
		expenses = []models.Expense{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(expenses)
}
