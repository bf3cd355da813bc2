package repository

import (
	"context"
	"fmt"

	"wayfarer-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExpenseRepository handles database operations for trip expenses
type ExpenseRepository struct {
	db *pgxpool.Pool
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create inserts a new expense
func (r *ExpenseRepository) Create(ctx context.Context, e *models.Expense) error {
	query := `
		INSERT INTO expenses (id, trip_id, description, amount, category, spent_on, paid_by, split_among, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		e.ID, e.TripID, e.Description, e.Amount, e.Category, e.SpentOn,
		e.PaidBy, e.SplitAmong, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// GetByID retrieves an expense by ID
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*models.Expense, error) {
	query := `
		SELECT id, trip_id, description, amount, category, spent_on, paid_by, split_among, created_at
		FROM expenses
		WHERE id = $1
	`
	var e models.Expense
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.TripID, &e.Description, &e.Amount, &e.Category,
		&e.SpentOn, &e.PaidBy, &e.SplitAmong, &e.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("expense not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return &e, nil
}

// ListByTrip retrieves all expenses for a trip, most recent spend first
func (r *ExpenseRepository) ListByTrip(ctx context.Context, tripID string) ([]*models.Expense, error) {
	query := `
		SELECT id, trip_id, description, amount, category, spent_on, paid_by, split_among, created_at
		FROM expenses
		WHERE trip_id = $1
		ORDER BY spent_on DESC
	`
	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*models.Expense{}
	for rows.Next() {
		var e models.Expense
		err := rows.Scan(
			&e.ID, &e.TripID, &e.Description, &e.Amount, &e.Category,
			&e.SpentOn, &e.PaidBy, &e.SplitAmong, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expenses: %w", err)
	}
	return expenses, nil
}

// Update updates an expense's fields
func (r *ExpenseRepository) Update(ctx context.Context, e *models.Expense) error {
	query := `
		UPDATE expenses
		SET description = $1, amount = $2, category = $3, spent_on = $4, paid_by = $5, split_among = $6
		WHERE id = $7
	`
	result, err := r.db.Exec(ctx, query,
		e.Description, e.Amount, e.Category, e.SpentOn, e.PaidBy, e.SplitAmong, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("expense not found: %w", ErrNotFound)
	}
	return nil
}

// Delete deletes an expense
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("expense not found: %w", ErrNotFound)
	}
	return nil
}
