package services

import (
	"context"
	"errors"
	"testing"

	"wayfarer-backend/internal/models"
)

func notificationFixture(onlineUsers ...string) (*NotificationService, *fakeNotificationStore, *fakePresence, *fakePush) {
	store := &fakeNotificationStore{}
	hub := newFakePresence(onlineUsers...)
	push := &fakePush{}
	return NewNotificationService(store, nil, hub, push), store, hub, push
}

func TestDispatchStoresAndFansOut(t *testing.T) {
	svc, store, hub, push := notificationFixture("alice")

	n := &models.Notification{
		RecipientID: "alice",
		SenderID:    "owner",
		SenderName:  "Owner",
		Type:        models.NotifJoinRequest,
		Message:     "Owner requested to join \"Coastal ride\"",
	}
	if err := svc.Dispatch(context.Background(), n); err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}

	if n.ID == "" || n.CreatedAt.IsZero() {
		t.Error("Dispatch() did not assign ID or timestamp")
	}
	if len(store.notifications) != 1 {
		t.Fatalf("stored %d notifications, want 1", len(store.notifications))
	}

	frames := hub.sent["alice"]
	if len(frames) != 1 || frames[0].Type != "notification" {
		t.Errorf("WS frames for alice = %+v, want one notification frame", frames)
	}
	if len(push.sent) != 1 || push.sent[0] != "alice" {
		t.Errorf("push sends = %v, want [alice]", push.sent)
	}
}

func TestDispatchToOfflineRecipient(t *testing.T) {
	svc, store, hub, _ := notificationFixture()

	n := &models.Notification{RecipientID: "bob", Type: models.NotifRequestAccepted, Message: "accepted"}
	if err := svc.Dispatch(context.Background(), n); err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}
	if len(store.notifications) != 1 {
		t.Error("notification not stored for offline recipient")
	}
	if len(hub.sent["bob"]) != 0 {
		t.Error("WS frame sent to offline recipient")
	}
}

func TestListFeed(t *testing.T) {
	svc, _, _, _ := notificationFixture()
	ctx := context.Background()

	for _, msg := range []string{"one", "two", "three"} {
		n := &models.Notification{RecipientID: "alice", Type: models.NotifJoinRequest, Message: msg}
		if err := svc.Dispatch(ctx, n); err != nil {
			t.Fatalf("Dispatch(%q) failed: %v", msg, err)
		}
	}
	if err := svc.Dispatch(ctx, &models.Notification{RecipientID: "bob", Type: models.NotifJoinRequest, Message: "other feed"}); err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}

	feed, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(feed.Notifications) != 3 {
		t.Fatalf("feed has %d notifications, want 3", len(feed.Notifications))
	}
	if feed.Notifications[0].Message != "three" {
		t.Errorf("first entry = %q, want newest first", feed.Notifications[0].Message)
	}
	if feed.UnreadCount != 3 {
		t.Errorf("unread count = %d, want 3", feed.UnreadCount)
	}
}

func TestMarkRead(t *testing.T) {
	svc, store, _, _ := notificationFixture()
	ctx := context.Background()

	n := &models.Notification{RecipientID: "alice", Type: models.NotifJoinRequest, Message: "hello"}
	if err := svc.Dispatch(ctx, n); err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}

	if err := svc.MarkRead(ctx, "alice", n.ID); err != nil {
		t.Fatalf("MarkRead() failed: %v", err)
	}
	if !store.notifications[0].Read {
		t.Error("notification still unread")
	}

	feed, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if feed.UnreadCount != 0 {
		t.Errorf("unread count after MarkRead = %d, want 0", feed.UnreadCount)
	}
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	svc, _, _, _ := notificationFixture()
	ctx := context.Background()

	n := &models.Notification{RecipientID: "alice", Type: models.NotifJoinRequest, Message: "hello"}
	if err := svc.Dispatch(ctx, n); err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}

	if err := svc.MarkRead(ctx, "bob", n.ID); !errors.Is(err, ErrNotificationMissing) {
		t.Fatalf("MarkRead() as wrong recipient error = %v, want ErrNotificationMissing", err)
	}
	if err := svc.MarkRead(ctx, "alice", "no-such-id"); !errors.Is(err, ErrNotificationMissing) {
		t.Fatalf("MarkRead() unknown ID error = %v, want ErrNotificationMissing", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	svc, store, _, _ := notificationFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		n := &models.Notification{RecipientID: "alice", Type: models.NotifJoinRequest, Message: "n"}
		if err := svc.Dispatch(ctx, n); err != nil {
			t.Fatalf("Dispatch() failed: %v", err)
		}
	}
	other := &models.Notification{RecipientID: "bob", Type: models.NotifJoinRequest, Message: "n"}
	if err := svc.Dispatch(ctx, other); err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}

	if err := svc.MarkAllRead(ctx, "alice"); err != nil {
		t.Fatalf("MarkAllRead() failed: %v", err)
	}
	for i, n := range store.notifications {
		switch n.RecipientID {
		case "alice":
			if !n.Read {
				t.Errorf("notification %d still unread", i)
			}
		default:
			if n.Read {
				t.Errorf("notification %d for %s marked read", i, n.RecipientID)
			}
		}
	}
}
