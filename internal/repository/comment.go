package repository

import (
	"context"
	"fmt"

	"wayfarer-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CommentRepository handles database operations for trip comments
type CommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a new comment
func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	query := `
		INSERT INTO comments (id, trip_id, user_id, user_name, user_photo, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		c.ID, c.TripID, c.UserID, c.UserName, c.UserPhoto, c.Text, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListByTrip retrieves all comments for a trip, oldest first
func (r *CommentRepository) ListByTrip(ctx context.Context, tripID string) ([]*models.Comment, error) {
	query := `
		SELECT id, trip_id, user_id, user_name, user_photo, text, created_at
		FROM comments
		WHERE trip_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		var c models.Comment
		err := rows.Scan(&c.ID, &c.TripID, &c.UserID, &c.UserName, &c.UserPhoto, &c.Text, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}
	return comments, nil
}
