package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"wayfarer-backend/internal/models"
)

func chatFixture() (*ChatService, *fakeTripStore, *fakeChatStore, *fakePresence) {
	trips := newFakeTripStore()
	trips.addTrip(testTrip(4))
	trips.participants["trip-1"]["owner"] = models.Participant{UserID: "owner", Name: "Owner", JoinedAt: time.Now()}
	trips.participants["trip-1"]["alice"] = models.Participant{UserID: "alice", Name: "Alice", JoinedAt: time.Now()}
	messages := &fakeChatStore{}
	hub := newFakePresence("alice")
	return NewChatService(trips, messages, hub), trips, messages, hub
}

func TestChatSend(t *testing.T) {
	svc, _, messages, hub := chatFixture()

	msg, err := svc.Send(context.Background(), "trip-1", "owner", "Owner", "owner.png", "  anyone up for an early start?  ")
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if msg.Message != "anyone up for an early start?" {
		t.Errorf("message not trimmed: %q", msg.Message)
	}
	if msg.ID == "" || msg.CreatedAt.IsZero() {
		t.Error("message missing ID or timestamp")
	}
	if len(messages.messages) != 1 {
		t.Fatalf("stored %d messages, want 1", len(messages.messages))
	}

	// Online members other than the sender get a WS frame.
	frames := hub.sent["alice"]
	if len(frames) != 1 {
		t.Fatalf("alice received %d frames, want 1", len(frames))
	}
	if frames[0].Type != "chat_message" {
		t.Errorf("frame type = %q, want chat_message", frames[0].Type)
	}
	if len(hub.sent["owner"]) != 0 {
		t.Error("sender received their own broadcast")
	}
}

func TestChatSendByNonMember(t *testing.T) {
	svc, _, messages, _ := chatFixture()

	_, err := svc.Send(context.Background(), "trip-1", "mallory", "Mallory", "", "let me in")
	if !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("Send() error = %v, want ErrNotParticipant", err)
	}
	if len(messages.messages) != 0 {
		t.Error("message stored for non-member")
	}
}

func TestChatSendEmptyMessage(t *testing.T) {
	svc, _, _, _ := chatFixture()

	_, err := svc.Send(context.Background(), "trip-1", "alice", "Alice", "", "   ")
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("Send() error = %v, want ErrEmptyMessage", err)
	}
}

func TestChatSendDefaultsSenderName(t *testing.T) {
	svc, _, messages, _ := chatFixture()

	msg, err := svc.Send(context.Background(), "trip-1", "alice", "", "", "hi")
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if msg.SenderName != "User" {
		t.Errorf("sender name = %q, want User", msg.SenderName)
	}
	if messages.messages[0].SenderName != "User" {
		t.Errorf("stored sender name = %q, want User", messages.messages[0].SenderName)
	}
}

func TestChatSendSurvivesBrokenConnections(t *testing.T) {
	svc, _, messages, hub := chatFixture()
	hub.failSend = true

	if _, err := svc.Send(context.Background(), "trip-1", "owner", "Owner", "", "hello"); err != nil {
		t.Fatalf("Send() failed on broadcast error: %v", err)
	}
	if len(messages.messages) != 1 {
		t.Error("message not stored when broadcast fails")
	}
}

func TestChatInbox(t *testing.T) {
	svc, trips, _, _ := chatFixture()
	ctx := context.Background()

	// A second, newer trip owned by alice with an empty chat.
	trips.addTrip(&models.Trip{
		ID:              "trip-2",
		OwnerID:         "alice",
		Title:           "Desert trek",
		Destination:     "Merzouga",
		MaxParticipants: 3,
		CreatedAt:       time.Now(),
	})
	trips.participants["trip-2"]["alice"] = models.Participant{UserID: "alice", Name: "Alice", PhotoURL: "alice.png"}

	if _, err := svc.Send(ctx, "trip-1", "alice", "Alice", "", "first"); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if _, err := svc.Send(ctx, "trip-1", "owner", "Owner", "", "latest"); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}

	inbox, err := svc.Inbox(ctx, "alice")
	if err != nil {
		t.Fatalf("Inbox() failed: %v", err)
	}
	if len(inbox) != 2 {
		t.Fatalf("inbox has %d entries, want 2", len(inbox))
	}

	newest := inbox[0]
	if newest.TripID != "trip-2" {
		t.Fatalf("first entry = %q, want newest trip first", newest.TripID)
	}
	if !newest.IsCreator {
		t.Error("alice not flagged as creator of her own trip")
	}
	if newest.CreatedBy.Name != "Alice" || newest.CreatedBy.PhotoURL != "alice.png" {
		t.Errorf("creator snapshot = %+v", newest.CreatedBy)
	}
	if newest.LastMessage != nil || newest.MessageCount != 0 {
		t.Errorf("empty chat summary = %+v", newest)
	}

	joined := inbox[1]
	if joined.TripID != "trip-1" || joined.IsCreator {
		t.Errorf("second entry = %+v", joined)
	}
	if joined.CreatedBy.Name != "Owner" {
		t.Errorf("creator snapshot = %+v", joined.CreatedBy)
	}
	if joined.MessageCount != 2 {
		t.Errorf("message count = %d, want 2", joined.MessageCount)
	}
	if joined.LastMessage == nil || joined.LastMessage.Message != "latest" || joined.LastMessage.SenderName != "Owner" {
		t.Errorf("last message = %+v", joined.LastMessage)
	}

	// A stranger has no trips and an empty inbox.
	empty, err := svc.Inbox(ctx, "mallory")
	if err != nil {
		t.Fatalf("Inbox() for stranger failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("stranger inbox = %+v, want empty", empty)
	}
}

func TestChatList(t *testing.T) {
	svc, _, _, _ := chatFixture()
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		if _, err := svc.Send(ctx, "trip-1", "alice", "Alice", "", text); err != nil {
			t.Fatalf("Send(%q) failed: %v", text, err)
		}
	}

	list, err := svc.List(ctx, "trip-1", "owner")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List() returned %d messages, want 3", len(list))
	}
	for i, want := range []string{"first", "second", "third"} {
		if list[i].Message != want {
			t.Errorf("message %d = %q, want %q (oldest first)", i, list[i].Message, want)
		}
	}

	if _, err := svc.List(ctx, "trip-1", "mallory"); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("List() as stranger error = %v, want ErrNotParticipant", err)
	}
}
