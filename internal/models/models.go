package models

import "time"

// RequestStatus is the lifecycle state of a join request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// Valid reports whether s is one of the known request statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// NotificationType identifies what a notification is about.
type NotificationType string

const (
	NotifJoinRequest        NotificationType = "JOIN_REQUEST"
	NotifRequestAccepted    NotificationType = "REQUEST_ACCEPTED"
	NotifRequestDeclined    NotificationType = "REQUEST_DECLINED"
	NotifParticipantRemoved NotificationType = "PARTICIPANT_REMOVED"
)

// User represents a user profile in the system
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PhotoURL  string    `json:"photoURL"`
	Bio       string    `json:"bio,omitempty"`
	PushToken *string   `json:"push_token,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Participant is one member of a trip. Name and photo are snapshots
// taken at join time, not live references.
type Participant struct {
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	PhotoURL string    `json:"photoURL"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Trip represents a planned trip and its participant list
type Trip struct {
	ID              string        `json:"id"`
	OwnerID         string        `json:"userId"`
	Title           string        `json:"title"`
	StartLocation   string        `json:"startLocation"`
	Destination     string        `json:"destination"`
	StartDate       time.Time     `json:"startDate"`
	DurationDays    int           `json:"duration"`
	MaxParticipants int           `json:"maxParticipants"`
	PreferredGender string        `json:"preferredGender"`
	TransportMode   string        `json:"transportMode"`
	Description     string        `json:"description"`
	Budget          *float64      `json:"budget,omitempty"`
	Activities      string        `json:"activities,omitempty"`
	ImageURL        string        `json:"imageUrl,omitempty"`
	Participants    []Participant `json:"participants"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// JoinRequest represents one user's intent to join one trip.
// At most one row exists per (trip, user) pair.
type JoinRequest struct {
	ID        string        `json:"id"`
	TripID    string        `json:"tripId"`
	UserID    string        `json:"userId"`
	UserName  string        `json:"userName"`
	UserPhoto string        `json:"userPhoto"`
	Message   string        `json:"message"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Notification is a one-way message to a recipient. The sender
// fields are snapshots as of dispatch time.
type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient"`
	SenderID    string           `json:"senderId"`
	SenderName  string           `json:"senderName"`
	SenderPhoto string           `json:"senderPhoto"`
	Type        NotificationType `json:"type"`
	TripID      string           `json:"tripId,omitempty"`
	RelatedID   string           `json:"relatedId,omitempty"`
	Message     string           `json:"message"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// ChatMessage is one immutable message in a trip's chat
type ChatMessage struct {
	ID          string    `json:"id"`
	TripID      string    `json:"tripId"`
	SenderID    string    `json:"senderId"`
	SenderName  string    `json:"senderName"`
	SenderPhoto string    `json:"senderPhoto"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Comment is a public comment on a trip page
type Comment struct {
	ID        string    `json:"id"`
	TripID    string    `json:"tripId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	UserPhoto string    `json:"userPhoto"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expense is a shared cost recorded against a trip
type Expense struct {
	ID          string    `json:"id"`
	TripID      string    `json:"tripId"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	SpentOn     time.Time `json:"date"`
	PaidBy      string    `json:"paidBy"`
	SplitAmong  []string  `json:"splitAmong"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Review is one traveler's rating of another for a shared trip
type Review struct {
	ID         string    `json:"id"`
	TripID     string    `json:"tripId"`
	ReviewerID string    `json:"reviewer"`
	RevieweeID string    `json:"reviewee"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}
