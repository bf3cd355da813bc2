package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wayfarer-backend/internal/models"
	"wayfarer-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ChatService handles the per-trip chat feed. Access is gated to the
// trip owner and listed participants; clients poll the list endpoint
// and additionally receive best-effort WebSocket frames when online.
type ChatService struct {
	trips    TripStore
	messages ChatStore
	hub      Presence
}

// NewChatService creates a new chat service
func NewChatService(trips TripStore, messages ChatStore, hub Presence) *ChatService {
	return &ChatService{
		trips:    trips,
		messages: messages,
		hub:      hub,
	}
}

// List returns every message for a trip, oldest first. The caller must
// be the trip owner or a participant.
func (s *ChatService) List(ctx context.Context, tripID, userID string) ([]*models.ChatMessage, error) {
	member, err := s.trips.IsMember(ctx, tripID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return nil, ErrNotParticipant
	}
	return s.messages.ListByTrip(ctx, tripID)
}

// Send appends an immutable message to a trip's chat. The caller must
// pass the same membership gate; the text must be non-empty once
// trimmed. Online trip members get a best-effort WS frame.
func (s *ChatService) Send(ctx context.Context, tripID, senderID, senderName, senderPhoto, text string) (*models.ChatMessage, error) {
	member, err := s.trips.IsMember(ctx, tripID, senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return nil, ErrNotParticipant
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if senderName == "" {
		senderName = "User"
	}

	msg := &models.ChatMessage{
		ID:          uuid.New().String(),
		TripID:      tripID,
		SenderID:    senderID,
		SenderName:  senderName,
		SenderPhoto: senderPhoto,
		Message:     text,
		CreatedAt:   time.Now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store chat message: %w", err)
	}

	s.broadcast(ctx, msg)
	return msg, nil
}

// CreatorSnapshot is the trip creator's name and photo as stored in the
// participant list.
type CreatorSnapshot struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// LastMessage is the newest message of a chat, shown as the inbox
// preview line.
type LastMessage struct {
	Message    string    `json:"message"`
	SenderName string    `json:"senderName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ChatSummary is one row of the caller's chat inbox.
type ChatSummary struct {
	TripID       string               `json:"id"`
	Title        string               `json:"title"`
	Destination  string               `json:"destination"`
	ImageURL     string               `json:"imageUrl,omitempty"`
	CreatedBy    CreatorSnapshot      `json:"createdBy"`
	Participants []models.Participant `json:"participants"`
	IsCreator    bool                 `json:"isCreator"`
	LastMessage  *LastMessage         `json:"lastMessage"`
	MessageCount int                  `json:"messageCount"`
}

// Inbox lists every trip the caller owns or participates in, newest
// trip first, with the chat preview for each: creator snapshot, last
// message and message count.
func (s *ChatService) Inbox(ctx context.Context, userID string) ([]*ChatSummary, error) {
	trips, err := s.trips.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	summaries := []*ChatSummary{}
	for _, trip := range trips {
		summary := &ChatSummary{
			TripID:       trip.ID,
			Title:        trip.Title,
			Destination:  trip.Destination,
			ImageURL:     trip.ImageURL,
			CreatedBy:    CreatorSnapshot{Name: "Unknown"},
			Participants: trip.Participants,
			IsCreator:    trip.OwnerID == userID,
		}
		// The owner is seeded into the participant list at creation, so
		// their snapshot doubles as the creator info.
		for _, p := range trip.Participants {
			if p.UserID == trip.OwnerID {
				summary.CreatedBy = CreatorSnapshot{Name: p.Name, PhotoURL: p.PhotoURL}
				break
			}
		}

		last, err := s.messages.LastByTrip(ctx, trip.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to get last message: %w", err)
		}
		if last != nil {
			summary.LastMessage = &LastMessage{
				Message:    last.Message,
				SenderName: last.SenderName,
				CreatedAt:  last.CreatedAt,
			}
		}

		count, err := s.messages.CountByTrip(ctx, trip.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count messages: %w", err)
		}
		summary.MessageCount = count

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// broadcast pushes a new message to every online trip member except the
// sender. Polling remains the source of truth; failures are logged only.
func (s *ChatService) broadcast(ctx context.Context, msg *models.ChatMessage) {
	if s.hub == nil {
		return
	}
	members, err := s.trips.MemberIDs(ctx, msg.TripID)
	if err != nil {
		log.Warn().Err(err).Str("trip_id", msg.TripID).Msg("Failed to load members for chat broadcast")
		return
	}
	frame := WSMessage{Type: "chat_message", Data: msg}
	for _, id := range members {
		if id == msg.SenderID || !s.hub.IsOnline(id) {
			continue
		}
		if err := s.hub.SendToUser(id, frame); err != nil {
			log.Warn().Err(err).
				Str("user_id", id).
				Str("trip_id", msg.TripID).
				Msg("Failed to push chat message")
		}
	}
}
