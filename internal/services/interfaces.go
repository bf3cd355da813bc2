package services

import (
	"context"

	"wayfarer-backend/internal/models"
)

// The workflow services consume the repositories through these
// interfaces so the join-request and chat logic can be exercised in
// tests without a database. internal/repository satisfies all of them.

// TripStore is the slice of trip storage the workflows need.
type TripStore interface {
	GetByID(ctx context.Context, id string) (*models.Trip, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Trip, error)
	IsParticipant(ctx context.Context, tripID, userID string) (bool, error)
	IsMember(ctx context.Context, tripID, userID string) (bool, error)
	MemberIDs(ctx context.Context, tripID string) ([]string, error)
	CountParticipants(ctx context.Context, tripID string) (int, error)
	AddParticipantIfCapacity(ctx context.Context, tripID string, p models.Participant) (bool, error)
	RemoveParticipant(ctx context.Context, tripID, userID string) (bool, error)
}

// JoinRequestStore is the join-request persistence surface.
type JoinRequestStore interface {
	Create(ctx context.Context, req *models.JoinRequest) error
	GetByID(ctx context.Context, id string) (*models.JoinRequest, error)
	GetByTripAndUser(ctx context.Context, tripID, userID string) (*models.JoinRequest, error)
	Reopen(ctx context.Context, id, message, userName, userPhoto string) error
	SetStatus(ctx context.Context, id string, status models.RequestStatus) error
	DeleteByTripAndUser(ctx context.Context, tripID, userID string) error
}

// NotificationStore is the notification persistence surface.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID string) ([]*models.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, id, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) error
}

// ChatStore is the chat message persistence surface.
type ChatStore interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	ListByTrip(ctx context.Context, tripID string) ([]*models.ChatMessage, error)
	LastByTrip(ctx context.Context, tripID string) (*models.ChatMessage, error)
	CountByTrip(ctx context.Context, tripID string) (int, error)
}

// ReviewStore is the review persistence surface.
type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	ListByReviewee(ctx context.Context, revieweeID string) ([]*models.Review, error)
	AverageForReviewee(ctx context.Context, revieweeID string) (float64, int, error)
}

// Notifier delivers a notification as a side effect of a workflow step.
// Callers treat delivery as best-effort: a non-nil error is logged and
// never fails the primary operation.
type Notifier interface {
	Dispatch(ctx context.Context, n *models.Notification) error
}

// Presence pushes frames to connected WebSocket clients.
type Presence interface {
	IsOnline(userID string) bool
	SendToUser(userID string, msg WSMessage) error
}

// PushSender delivers a push notification to a user's device,
// fire-and-log.
type PushSender interface {
	Send(ctx context.Context, userID, message string)
}
