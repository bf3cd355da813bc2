package services

import (
	"context"
	"errors"
	"time"

	"wayfarer-backend/internal/models"
	"wayfarer-backend/internal/repository"

	"github.com/google/uuid"
)

// ExpenseService handles the shared expense ledger per trip
type ExpenseService struct {
	expenses *repository.ExpenseRepository
	trips    TripStore
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenses *repository.ExpenseRepository, trips TripStore) *ExpenseService {
	return &ExpenseService{expenses: expenses, trips: trips}
}

// ExpenseInput carries a validated expense payload.
type ExpenseInput struct {
	Description string
	Amount      float64
	Category    string
	SpentOn     time.Time
	PaidBy      string
	SplitAmong  []string
}

// List retrieves a trip's expenses, most recent spend first
func (s *ExpenseService) List(ctx context.Context, tripID string) ([]*models.Expense, error) {
	return s.expenses.ListByTrip(ctx, tripID)
}

// Add records a new expense against a trip. An empty split defaults to
// the payer carrying the whole amount.
func (s *ExpenseService) Add(ctx context.Context, tripID string, in ExpenseInput) (*models.Expense, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	if len(in.SplitAmong) == 0 {
		in.SplitAmong = []string{in.PaidBy}
	}

	expense := &models.Expense{
		ID:          uuid.New().String(),
		TripID:      tripID,
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		SpentOn:     in.SpentOn,
		PaidBy:      in.PaidBy,
		SplitAmong:  in.SplitAmong,
		CreatedAt:   time.Now(),
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// Update replaces an expense's fields. The expense must belong to the
// trip in the URL.
func (s *ExpenseService) Update(ctx context.Context, tripID, expenseID string, in ExpenseInput) (*models.Expense, error) {
	expense, err := s.get(ctx, tripID, expenseID)
	if err != nil {
		return nil, err
	}

	expense.Description = in.Description
	expense.Amount = in.Amount
	expense.Category = in.Category
	expense.SpentOn = in.SpentOn
	expense.PaidBy = in.PaidBy
	if len(in.SplitAmong) > 0 {
		expense.SplitAmong = in.SplitAmong
	}

	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// Delete removes an expense from a trip's ledger
func (s *ExpenseService) Delete(ctx context.Context, tripID, expenseID string) error {
	if _, err := s.get(ctx, tripID, expenseID); err != nil {
		return err
	}
	return s.expenses.Delete(ctx, expenseID)
}

func (s *ExpenseService) get(ctx context.Context, tripID, expenseID string) (*models.Expense, error) {
	expense, err := s.expenses.GetByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}
	if expense.TripID != tripID {
		return nil, ErrExpenseNotFound
	}
	return expense, nil
}
