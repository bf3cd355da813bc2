package repository

import (
	"context"
	"errors"
	"fmt"

	"wayfarer-backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReviewRepository handles database operations for traveler reviews
type ReviewRepository struct {
	db *pgxpool.Pool
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a new review. A second review by the same reviewer of
// the same reviewee for the same trip violates the unique index and
// comes back as ErrDuplicate.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (id, trip_id, reviewer_id, reviewee_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		review.ID, review.TripID, review.ReviewerID, review.RevieweeID,
		review.Rating, review.Comment, review.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("review already exists: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// ListByReviewee retrieves all reviews of a user, newest first
func (r *ReviewRepository) ListByReviewee(ctx context.Context, revieweeID string) ([]*models.Review, error) {
	query := `
		SELECT id, trip_id, reviewer_id, reviewee_id, rating, comment, created_at
		FROM reviews
		WHERE reviewee_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, revieweeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*models.Review{}
	for rows.Next() {
		var review models.Review
		err := rows.Scan(
			&review.ID, &review.TripID, &review.ReviewerID, &review.RevieweeID,
			&review.Rating, &review.Comment, &review.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, &review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reviews: %w", err)
	}
	return reviews, nil
}

// AverageForReviewee returns the mean rating and review count for a user
func (r *ReviewRepository) AverageForReviewee(ctx context.Context, revieweeID string) (float64, int, error) {
	var avg float64
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT coalesce(avg(rating), 0), count(*) FROM reviews WHERE reviewee_id = $1`,
		revieweeID,
	).Scan(&avg, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to average reviews: %w", err)
	}
	return avg, count, nil
}
