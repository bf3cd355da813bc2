package services

import (
	"context"
	"fmt"
	"sort"

	"wayfarer-backend/internal/models"
	"wayfarer-backend/internal/repository"
)

// In-memory stand-ins for the repository layer so the workflow logic
// runs without a database.

type fakeTripStore struct {
	trips        map[string]*models.Trip
	participants map[string]map[string]models.Participant
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{
		trips:        make(map[string]*models.Trip),
		participants: make(map[string]map[string]models.Participant),
	}
}

func (f *fakeTripStore) addTrip(trip *models.Trip) {
	f.trips[trip.ID] = trip
	if f.participants[trip.ID] == nil {
		f.participants[trip.ID] = make(map[string]models.Participant)
	}
}

func (f *fakeTripStore) GetByID(ctx context.Context, id string) (*models.Trip, error) {
	trip, ok := f.trips[id]
	if !ok {
		return nil, fmt.Errorf("trip not found: %w", repository.ErrNotFound)
	}
	copy := *trip
	copy.Participants = nil
	for _, p := range f.participants[id] {
		copy.Participants = append(copy.Participants, p)
	}
	sort.Slice(copy.Participants, func(i, j int) bool {
		return copy.Participants[i].UserID < copy.Participants[j].UserID
	})
	return &copy, nil
}

func (f *fakeTripStore) ListByUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	out := []*models.Trip{}
	for id, trip := range f.trips {
		member := trip.OwnerID == userID
		if _, ok := f.participants[id][userID]; ok {
			member = true
		}
		if member {
			copy, err := f.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			out = append(out, copy)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeTripStore) IsParticipant(ctx context.Context, tripID, userID string) (bool, error) {
	_, ok := f.participants[tripID][userID]
	return ok, nil
}

func (f *fakeTripStore) IsMember(ctx context.Context, tripID, userID string) (bool, error) {
	if trip, ok := f.trips[tripID]; ok && trip.OwnerID == userID {
		return true, nil
	}
	_, ok := f.participants[tripID][userID]
	return ok, nil
}

func (f *fakeTripStore) MemberIDs(ctx context.Context, tripID string) ([]string, error) {
	seen := map[string]bool{}
	ids := []string{}
	if trip, ok := f.trips[tripID]; ok {
		ids = append(ids, trip.OwnerID)
		seen[trip.OwnerID] = true
	}
	for id := range f.participants[tripID] {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeTripStore) CountParticipants(ctx context.Context, tripID string) (int, error) {
	return len(f.participants[tripID]), nil
}

func (f *fakeTripStore) AddParticipantIfCapacity(ctx context.Context, tripID string, p models.Participant) (bool, error) {
	trip, ok := f.trips[tripID]
	if !ok {
		return false, fmt.Errorf("trip not found: %w", repository.ErrNotFound)
	}
	if len(f.participants[tripID]) >= trip.MaxParticipants {
		return false, nil
	}
	f.participants[tripID][p.UserID] = p
	return true, nil
}

func (f *fakeTripStore) RemoveParticipant(ctx context.Context, tripID, userID string) (bool, error) {
	if _, ok := f.participants[tripID][userID]; !ok {
		return false, nil
	}
	delete(f.participants[tripID], userID)
	return true, nil
}

type fakeRequestStore struct {
	requests map[string]*models.JoinRequest
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: make(map[string]*models.JoinRequest)}
}

func (f *fakeRequestStore) Create(ctx context.Context, req *models.JoinRequest) error {
	for _, existing := range f.requests {
		if existing.TripID == req.TripID && existing.UserID == req.UserID {
			return fmt.Errorf("request already exists: %w", repository.ErrDuplicate)
		}
	}
	copy := *req
	f.requests[req.ID] = &copy
	return nil
}

func (f *fakeRequestStore) GetByID(ctx context.Context, id string) (*models.JoinRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, fmt.Errorf("join request not found: %w", repository.ErrNotFound)
	}
	copy := *req
	return &copy, nil
}

func (f *fakeRequestStore) GetByTripAndUser(ctx context.Context, tripID, userID string) (*models.JoinRequest, error) {
	for _, req := range f.requests {
		if req.TripID == tripID && req.UserID == userID {
			copy := *req
			return &copy, nil
		}
	}
	return nil, fmt.Errorf("join request not found: %w", repository.ErrNotFound)
}

func (f *fakeRequestStore) Reopen(ctx context.Context, id, message, userName, userPhoto string) error {
	req, ok := f.requests[id]
	if !ok {
		return fmt.Errorf("join request not found: %w", repository.ErrNotFound)
	}
	req.Status = models.StatusPending
	req.Message = message
	req.UserName = userName
	req.UserPhoto = userPhoto
	return nil
}

func (f *fakeRequestStore) SetStatus(ctx context.Context, id string, status models.RequestStatus) error {
	req, ok := f.requests[id]
	if !ok {
		return fmt.Errorf("join request not found: %w", repository.ErrNotFound)
	}
	req.Status = status
	return nil
}

func (f *fakeRequestStore) DeleteByTripAndUser(ctx context.Context, tripID, userID string) error {
	for id, req := range f.requests {
		if req.TripID == tripID && req.UserID == userID {
			delete(f.requests, id)
		}
	}
	return nil
}

type fakeNotifier struct {
	dispatched []*models.Notification
	fail       bool
}

func (f *fakeNotifier) Dispatch(ctx context.Context, n *models.Notification) error {
	if f.fail {
		return fmt.Errorf("notification store unavailable")
	}
	f.dispatched = append(f.dispatched, n)
	return nil
}

func (f *fakeNotifier) lastType() models.NotificationType {
	if len(f.dispatched) == 0 {
		return ""
	}
	return f.dispatched[len(f.dispatched)-1].Type
}

type fakeChatStore struct {
	messages []*models.ChatMessage
}

func (f *fakeChatStore) Create(ctx context.Context, msg *models.ChatMessage) error {
	copy := *msg
	f.messages = append(f.messages, &copy)
	return nil
}

func (f *fakeChatStore) ListByTrip(ctx context.Context, tripID string) ([]*models.ChatMessage, error) {
	out := []*models.ChatMessage{}
	for _, msg := range f.messages {
		if msg.TripID == tripID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (f *fakeChatStore) LastByTrip(ctx context.Context, tripID string) (*models.ChatMessage, error) {
	for i := len(f.messages) - 1; i >= 0; i-- {
		if f.messages[i].TripID == tripID {
			copy := *f.messages[i]
			return &copy, nil
		}
	}
	return nil, fmt.Errorf("chat message not found: %w", repository.ErrNotFound)
}

func (f *fakeChatStore) CountByTrip(ctx context.Context, tripID string) (int, error) {
	count := 0
	for _, msg := range f.messages {
		if msg.TripID == tripID {
			count++
		}
	}
	return count, nil
}

type fakePresence struct {
	online   map[string]bool
	sent     map[string][]WSMessage
	failSend bool
}

func newFakePresence(onlineUsers ...string) *fakePresence {
	online := make(map[string]bool)
	for _, id := range onlineUsers {
		online[id] = true
	}
	return &fakePresence{online: online, sent: make(map[string][]WSMessage)}
}

func (f *fakePresence) IsOnline(userID string) bool {
	return f.online[userID]
}

func (f *fakePresence) SendToUser(userID string, msg WSMessage) error {
	if f.failSend {
		return fmt.Errorf("connection gone")
	}
	f.sent[userID] = append(f.sent[userID], msg)
	return nil
}

type fakeNotificationStore struct {
	notifications []*models.Notification
}

func (f *fakeNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	copy := *n
	f.notifications = append(f.notifications, &copy)
	return nil
}

func (f *fakeNotificationStore) ListByRecipient(ctx context.Context, recipientID string) ([]*models.Notification, error) {
	out := []*models.Notification{}
	for i := len(f.notifications) - 1; i >= 0; i-- {
		if f.notifications[i].RecipientID == recipientID {
			out = append(out, f.notifications[i])
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) CountUnread(ctx context.Context, recipientID string) (int, error) {
	count := 0
	for _, n := range f.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, id, recipientID string) error {
	for _, n := range f.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			n.Read = true
			return nil
		}
	}
	return fmt.Errorf("notification not found: %w", repository.ErrNotFound)
}

func (f *fakeNotificationStore) MarkAllRead(ctx context.Context, recipientID string) error {
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			n.Read = true
		}
	}
	return nil
}

type fakePush struct {
	sent []string
}

func (f *fakePush) Send(ctx context.Context, userID, message string) {
	f.sent = append(f.sent, userID)
}
