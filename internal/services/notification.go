package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wayfarer-backend/internal/cache"
	"wayfarer-backend/internal/models"
	"wayfarer-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotificationService persists notifications and serves the polled
// feed. Dispatch additionally pushes to online WebSocket clients and to
// APNs, both fire-and-log.
type NotificationService struct {
	store  NotificationStore
	unread *cache.UnreadCache
	hub    Presence
	push   PushSender
}

// NewNotificationService creates a new notification service. hub and
// push may be nil-valued implementations; delivery degrades to the
// stored feed alone.
func NewNotificationService(store NotificationStore, unread *cache.UnreadCache, hub Presence, push PushSender) *NotificationService {
	return &NotificationService{
		store:  store,
		unread: unread,
		hub:    hub,
		push:   push,
	}
}

// Dispatch stores a notification and fans it out. Only the store write
// can return an error; WS and APNs delivery are best-effort.
func (s *NotificationService) Dispatch(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	if err := s.store.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	s.unread.Invalidate(ctx, n.RecipientID)

	if s.hub != nil && s.hub.IsOnline(n.RecipientID) {
		if err := s.hub.SendToUser(n.RecipientID, WSMessage{Type: "notification", Data: n}); err != nil {
			log.Warn().Err(err).
				Str("recipient", n.RecipientID).
				Msg("Failed to push notification over WebSocket")
		}
	}

	if s.push != nil {
		s.push.Send(ctx, n.RecipientID, n.Message)
	}

	return nil
}

// Feed is the polled notification list plus the unread counter.
type Feed struct {
	Notifications []*models.Notification `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
}

// List returns the recipient's 50 most recent notifications, newest
// first, with the unread count served from the cache when warm.
func (s *NotificationService) List(ctx context.Context, recipientID string) (*Feed, error) {
	notifications, err := s.store.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	count, ok := s.unread.Get(ctx, recipientID)
	if !ok {
		count, err = s.store.CountUnread(ctx, recipientID)
		if err != nil {
			return nil, fmt.Errorf("failed to count unread: %w", err)
		}
		s.unread.Set(ctx, recipientID, count)
	}

	return &Feed{Notifications: notifications, UnreadCount: count}, nil
}

// MarkRead flips a single notification to read, scoped to the recipient.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID string) error {
	if err := s.store.MarkRead(ctx, notificationID, recipientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotificationMissing
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	s.unread.Invalidate(ctx, recipientID)
	return nil
}

// MarkAllRead flips every unread notification for the recipient.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) error {
	if err := s.store.MarkAllRead(ctx, recipientID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	s.unread.Invalidate(ctx, recipientID)
	return nil
}
