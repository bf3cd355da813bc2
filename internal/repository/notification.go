package repository

import (
	"context"
	"fmt"

	"wayfarer-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// feedLimit caps the notification feed at the most recent entries.
const feedLimit = 50

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a new notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, sender_id, sender_name, sender_photo,
			type, trip_id, related_id, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		n.ID, n.RecipientID, n.SenderID, n.SenderName, n.SenderPhoto,
		n.Type, n.TripID, n.RelatedID, n.Message, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByRecipient retrieves the recipient's most recent notifications,
// newest first
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]*models.Notification, error) {
	query := `
		SELECT id, recipient_id, sender_id, sender_name, sender_photo,
			coalesce(type, ''), coalesce(trip_id, ''), coalesce(related_id, ''),
			message, read, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, recipientID, feedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(
			&n.ID, &n.RecipientID, &n.SenderID, &n.SenderName, &n.SenderPhoto,
			&n.Type, &n.TripID, &n.RelatedID, &n.Message, &n.Read, &n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}
	return notifications, nil
}

// CountUnread counts the recipient's unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE recipient_id = $1 AND read = FALSE`,
		recipientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flips one notification to read, scoped to the recipient so a
// caller cannot mark someone else's notification
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND recipient_id = $2`,
		id, recipientID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification not found: %w", ErrNotFound)
	}
	return nil
}

// MarkAllRead flips every unread notification for the recipient to read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND read = FALSE`,
		recipientID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
