package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wayfarer-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// JoinRequestRepository handles database operations for join requests
type JoinRequestRepository struct {
	db *pgxpool.Pool
}

// NewJoinRequestRepository creates a new join request repository
func NewJoinRequestRepository(db *pgxpool.Pool) *JoinRequestRepository {
	return &JoinRequestRepository{db: db}
}

// Create inserts a new join request. A concurrent duplicate for the same
// (trip, user) pair hits the unique index and comes back as ErrDuplicate.
func (r *JoinRequestRepository) Create(ctx context.Context, req *models.JoinRequest) error {
	query := `
		INSERT INTO join_requests (id, trip_id, user_id, user_name, user_photo, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		req.ID, req.TripID, req.UserID, req.UserName, req.UserPhoto,
		req.Message, req.Status, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("request already exists: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create join request: %w", err)
	}
	return nil
}

// GetByID retrieves a join request by ID
func (r *JoinRequestRepository) GetByID(ctx context.Context, id string) (*models.JoinRequest, error) {
	query := `
		SELECT id, trip_id, user_id, user_name, user_photo, message, status, created_at, updated_at
		FROM join_requests
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetByTripAndUser retrieves the unique join request for a (trip, user) pair
func (r *JoinRequestRepository) GetByTripAndUser(ctx context.Context, tripID, userID string) (*models.JoinRequest, error) {
	query := `
		SELECT id, trip_id, user_id, user_name, user_photo, message, status, created_at, updated_at
		FROM join_requests
		WHERE trip_id = $1 AND user_id = $2
	`
	return r.scanOne(r.db.QueryRow(ctx, query, tripID, userID))
}

func (r *JoinRequestRepository) scanOne(row pgx.Row) (*models.JoinRequest, error) {
	var req models.JoinRequest
	err := row.Scan(
		&req.ID, &req.TripID, &req.UserID, &req.UserName, &req.UserPhoto,
		&req.Message, &req.Status, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("join request not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get join request: %w", err)
	}
	return &req, nil
}

// Reopen resets an existing request to pending and refreshes the
// requester's message, name and photo snapshot in place.
func (r *JoinRequestRepository) Reopen(ctx context.Context, id, message, userName, userPhoto string) error {
	query := `
		UPDATE join_requests
		SET status = $1, message = $2, user_name = $3, user_photo = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := r.db.Exec(ctx, query,
		models.StatusPending, message, userName, userPhoto, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to reopen join request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("join request not found: %w", ErrNotFound)
	}
	return nil
}

// SetStatus records the owner's decision on a request
func (r *JoinRequestRepository) SetStatus(ctx context.Context, id string, status models.RequestStatus) error {
	query := `UPDATE join_requests SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update join request status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("join request not found: %w", ErrNotFound)
	}
	return nil
}

// DeleteByTripAndUser removes the join request for a (trip, user) pair so
// the user may submit a fresh one later. Deleting a missing row is not an
// error.
func (r *JoinRequestRepository) DeleteByTripAndUser(ctx context.Context, tripID, userID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM join_requests WHERE trip_id = $1 AND user_id = $2`,
		tripID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete join request: %w", err)
	}
	return nil
}
