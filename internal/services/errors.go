package services

import "errors"

// Service errors carry the exact message returned to API callers;
// handlers map each one to an HTTP status.
var (
	ErrTripNotFound        = errors.New("Trip not found")
	ErrRequestNotFound     = errors.New("Request not found")
	ErrUserNotFound        = errors.New("User not found")
	ErrNotificationMissing = errors.New("Notification not found")
	ErrExpenseNotFound     = errors.New("Expense not found")
	ErrParticipantNotFound = errors.New("Participant not found in this trip")

	ErrAlreadyJoined    = errors.New("Already joined this trip")
	ErrTripFull         = errors.New("Trip is full")
	ErrRequestPending   = errors.New("Request already pending")
	ErrAlreadyMember    = errors.New("You are already a member of this trip")
	ErrRequestProcessed = errors.New("Request already processed")
	ErrInvalidStatus    = errors.New("Invalid status")
	ErrEmptyMessage     = errors.New("Message cannot be empty")
	ErrCannotRemoveOwner = errors.New("Cannot remove the trip creator")
	ErrDuplicateReview   = errors.New("You have already reviewed this user for this trip")
	ErrSelfReview        = errors.New("You cannot review yourself")
	ErrNotTripmates      = errors.New("Both travelers must have shared this trip")

	ErrNotOwner       = errors.New("Unauthorized")
	ErrNotParticipant = errors.New("Only trip participants can access the chat")
)
