package repository

import (
	"context"
	"fmt"

	"wayfarer-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatRepository handles database operations for chat messages
type ChatRepository struct {
	db *pgxpool.Pool
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create appends a new chat message
func (r *ChatRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, trip_id, sender_id, sender_name, sender_photo, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		msg.ID, msg.TripID, msg.SenderID, msg.SenderName, msg.SenderPhoto,
		msg.Message, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

// ListByTrip retrieves all messages for a trip, oldest first
func (r *ChatRepository) ListByTrip(ctx context.Context, tripID string) ([]*models.ChatMessage, error) {
	query := `
		SELECT id, trip_id, sender_id, sender_name, sender_photo, message, created_at
		FROM chat_messages
		WHERE trip_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.ChatMessage{}
	for rows.Next() {
		var msg models.ChatMessage
		err := rows.Scan(
			&msg.ID, &msg.TripID, &msg.SenderID, &msg.SenderName,
			&msg.SenderPhoto, &msg.Message, &msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chat messages: %w", err)
	}
	return messages, nil
}

// LastByTrip retrieves the most recent message for a trip
func (r *ChatRepository) LastByTrip(ctx context.Context, tripID string) (*models.ChatMessage, error) {
	query := `
		SELECT id, trip_id, sender_id, sender_name, sender_photo, message, created_at
		FROM chat_messages
		WHERE trip_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var msg models.ChatMessage
	err := r.db.QueryRow(ctx, query, tripID).Scan(
		&msg.ID, &msg.TripID, &msg.SenderID, &msg.SenderName,
		&msg.SenderPhoto, &msg.Message, &msg.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("chat message not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get last chat message: %w", err)
	}
	return &msg, nil
}

// CountByTrip counts the messages in a trip's chat
func (r *ChatRepository) CountByTrip(ctx context.Context, tripID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM chat_messages WHERE trip_id = $1`, tripID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chat messages: %w", err)
	}
	return count, nil
}
