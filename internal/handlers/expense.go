package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"wayfarer-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// ExpenseHandler handles the shared expense ledger endpoints
type ExpenseHandler struct {
	expenses *services.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenses *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// ExpenseRequest is the body for creating or updating an expense
type ExpenseRequest struct {
	Description string   `json:"description" validate:"required"`
	Amount      float64  `json:"amount" validate:"required,gt=0"`
	Category    string   `json:"category" validate:"required"`
	Date        string   `json:"date" validate:"required"`
	PaidBy      string   `json:"paidBy" validate:"required"`
	SplitAmong  []string `json:"splitAmong"`
}

func (req *ExpenseRequest) toInput() (services.ExpenseInput, error) {
	spentOn, err := parseDate(req.Date)
	if err != nil {
		return services.ExpenseInput{}, err
	}
	return services.ExpenseInput{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		SpentOn:     spentOn,
		PaidBy:      req.PaidBy,
		SplitAmong:  req.SplitAmong,
	}, nil
}

func decodeExpense(w http.ResponseWriter, r *http.Request) (services.ExpenseInput, bool) {
	var req ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return services.ExpenseInput{}, false
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, "Invalid expense payload: "+err.Error(), http.StatusBadRequest)
		return services.ExpenseInput{}, false
	}
	input, err := req.toInput()
	if err != nil {
		respondError(w, "Invalid expense date", http.StatusBadRequest)
		return services.ExpenseInput{}, false
	}
	return input, true
}

// List handles GET /api/v1/trips/{id}/expenses
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenses.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServerError(w, err, "Failed to fetch expenses")
		return
	}
	respondJSON(w, expenses, http.StatusOK)
}

// Add handles POST /api/v1/trips/{id}/expenses
func (h *ExpenseHandler) Add(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeExpense(w, r)
	if !ok {
		return
	}

	expense, err := h.expenses.Add(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		if errors.Is(err, services.ErrTripNotFound) {
			respondError(w, err.Error(), http.StatusNotFound)
			return
		}
		respondServerError(w, err, "Failed to add expense")
		return
	}

	respondJSON(w, expense, http.StatusCreated)
}

// Update handles PUT /api/v1/trips/{id}/expenses/{expenseId}
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeExpense(w, r)
	if !ok {
		return
	}

	expense, err := h.expenses.Update(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "expenseId"), input)
	if err != nil {
		if errors.Is(err, services.ErrExpenseNotFound) {
			respondError(w, err.Error(), http.StatusNotFound)
			return
		}
		respondServerError(w, err, "Failed to update expense")
		return
	}

	respondJSON(w, expense, http.StatusOK)
}

// Delete handles DELETE /api/v1/trips/{id}/expenses/{expenseId}
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.expenses.Delete(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "expenseId"))
	if err != nil {
		if errors.Is(err, services.ErrExpenseNotFound) {
			respondError(w, err.Error(), http.StatusNotFound)
			return
		}
		respondServerError(w, err, "Failed to delete expense")
		return
	}

	respondJSON(w, MessageResponse{Message: "Expense deleted successfully"}, http.StatusOK)
}
