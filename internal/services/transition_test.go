package services

import (
	"errors"
	"testing"

	"wayfarer-backend/internal/models"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name             string
		current          models.RequestStatus
		event            requestEvent
		stillParticipant bool
		want             models.RequestStatus
		wantErr          error
	}{
		{
			name:    "accept pending",
			current: models.StatusPending,
			event:   eventAccept,
			want:    models.StatusAccepted,
		},
		{
			name:    "reject pending",
			current: models.StatusPending,
			event:   eventReject,
			want:    models.StatusRejected,
		},
		{
			name:    "resubmit after rejection reopens",
			current: models.StatusRejected,
			event:   eventSubmit,
			want:    models.StatusPending,
		},
		{
			name:             "resubmit stale accepted reopens",
			current:          models.StatusAccepted,
			event:            eventSubmit,
			stillParticipant: false,
			want:             models.StatusPending,
		},
		{
			name:             "resubmit while still a participant",
			current:          models.StatusAccepted,
			event:            eventSubmit,
			stillParticipant: true,
			wantErr:          ErrAlreadyMember,
		},
		{
			name:    "resubmit while pending",
			current: models.StatusPending,
			event:   eventSubmit,
			wantErr: ErrRequestPending,
		},
		{
			name:    "accept already accepted",
			current: models.StatusAccepted,
			event:   eventAccept,
			wantErr: ErrRequestProcessed,
		},
		{
			name:    "accept already rejected",
			current: models.StatusRejected,
			event:   eventAccept,
			wantErr: ErrRequestProcessed,
		},
		{
			name:    "reject already accepted",
			current: models.StatusAccepted,
			event:   eventReject,
			wantErr: ErrRequestProcessed,
		},
		{
			name:    "reject already rejected",
			current: models.StatusRejected,
			event:   eventReject,
			wantErr: ErrRequestProcessed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := nextStatus(tt.current, tt.event, tt.stillParticipant)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("nextStatus() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("nextStatus() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("nextStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
