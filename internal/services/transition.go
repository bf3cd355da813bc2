package services

import "wayfarer-backend/internal/models"

// requestEvent is something that can happen to a join request.
type requestEvent int

const (
	// eventSubmit is a user submitting (or re-submitting) a join request.
	eventSubmit requestEvent = iota
	// eventAccept is the trip owner accepting a pending request.
	eventAccept
	// eventReject is the trip owner rejecting a pending request.
	eventReject
)

// nextStatus is the join-request state machine. It takes the request's
// current status, the event, and whether the requester is still in the
// trip's participant list, and returns the status the request moves to.
//
// Transitions:
//
//	pending  --accept--> accepted
//	pending  --reject--> rejected
//	rejected --submit--> pending   (reopen)
//	accepted --submit--> pending   (only when the participant was removed
//	                                out-of-band and the record went stale)
//
// Everything else is an error carrying the caller-facing message.
func nextStatus(current models.RequestStatus, ev requestEvent, stillParticipant bool) (models.RequestStatus, error) {
	switch ev {
	case eventSubmit:
		switch current {
		case models.StatusPending:
			return current, ErrRequestPending
		case models.StatusAccepted:
			if stillParticipant {
				return current, ErrAlreadyMember
			}
			return models.StatusPending, nil
		case models.StatusRejected:
			return models.StatusPending, nil
		}
	case eventAccept:
		if current == models.StatusPending {
			return models.StatusAccepted, nil
		}
		return current, ErrRequestProcessed
	case eventReject:
		if current == models.StatusPending {
			return models.StatusRejected, nil
		}
		return current, ErrRequestProcessed
	}
	return current, ErrInvalidStatus
}
