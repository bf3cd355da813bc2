package repository

import (
	"context"
	"errors"
	"fmt"

	"wayfarer-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a write violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate")

const tripColumns = `id, owner_id, title, start_location, destination, start_date,
	duration_days, max_participants, preferred_gender, transport_mode,
	description, budget, activities, image_url, created_at`

// TripRepository handles database operations for trips and their participants
type TripRepository struct {
	db *pgxpool.Pool
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *pgxpool.Pool) *TripRepository {
	return &TripRepository{db: db}
}

func scanTrip(row pgx.Row) (*models.Trip, error) {
	var trip models.Trip
	err := row.Scan(
		&trip.ID, &trip.OwnerID, &trip.Title, &trip.StartLocation, &trip.Destination,
		&trip.StartDate, &trip.DurationDays, &trip.MaxParticipants, &trip.PreferredGender,
		&trip.TransportMode, &trip.Description, &trip.Budget, &trip.Activities,
		&trip.ImageURL, &trip.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// Create creates a new trip
func (r *TripRepository) Create(ctx context.Context, trip *models.Trip) error {
	query := `
		INSERT INTO trips (id, owner_id, title, start_location, destination, start_date,
			duration_days, max_participants, preferred_gender, transport_mode,
			description, budget, activities, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.Exec(ctx, query,
		trip.ID, trip.OwnerID, trip.Title, trip.StartLocation, trip.Destination,
		trip.StartDate, trip.DurationDays, trip.MaxParticipants, trip.PreferredGender,
		trip.TransportMode, trip.Description, trip.Budget, trip.Activities,
		trip.ImageURL, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

// GetByID retrieves a trip with its participant list
func (r *TripRepository) GetByID(ctx context.Context, id string) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	trip, err := scanTrip(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("trip not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	participants, err := r.listParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	trip.Participants = participants
	return trip, nil
}

// List retrieves all trips, newest first
func (r *TripRepository) List(ctx context.Context) ([]*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY created_at DESC`
	return r.queryTrips(ctx, query)
}

// ListByUser retrieves trips the user owns or participates in, newest first
func (r *TripRepository) ListByUser(ctx context.Context, userID string) ([]*models.Trip, error) {
	query := `
		SELECT ` + tripColumns + ` FROM trips
		WHERE owner_id = $1
		   OR id IN (SELECT trip_id FROM trip_participants WHERE user_id = $1)
		ORDER BY created_at DESC
	`
	return r.queryTrips(ctx, query, userID)
}

// Search retrieves trips matching a destination substring and an
// optional earliest start date, newest first
func (r *TripRepository) Search(ctx context.Context, destination string, startDate *string) ([]*models.Trip, error) {
	query := `
		SELECT ` + tripColumns + ` FROM trips
		WHERE destination ILIKE '%' || $1 || '%'
		  AND ($2::timestamptz IS NULL OR start_date >= $2::timestamptz)
		ORDER BY created_at DESC
	`
	return r.queryTrips(ctx, query, destination, startDate)
}

func (r *TripRepository) queryTrips(ctx context.Context, query string, args ...any) ([]*models.Trip, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	trips := []*models.Trip{}
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trips: %w", err)
	}

	for _, trip := range trips {
		participants, err := r.listParticipants(ctx, trip.ID)
		if err != nil {
			return nil, err
		}
		trip.Participants = participants
	}
	return trips, nil
}

// Update updates the editable fields of a trip
func (r *TripRepository) Update(ctx context.Context, trip *models.Trip) error {
	query := `
		UPDATE trips
		SET title = $1, start_location = $2, destination = $3, start_date = $4,
			duration_days = $5, max_participants = $6, preferred_gender = $7,
			transport_mode = $8, description = $9, budget = $10, activities = $11,
			image_url = $12
		WHERE id = $13
	`
	result, err := r.db.Exec(ctx, query,
		trip.Title, trip.StartLocation, trip.Destination, trip.StartDate,
		trip.DurationDays, trip.MaxParticipants, trip.PreferredGender,
		trip.TransportMode, trip.Description, trip.Budget, trip.Activities,
		trip.ImageURL, trip.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("trip not found: %w", ErrNotFound)
	}
	return nil
}

// Delete deletes a trip; participants, requests, messages, comments and
// expenses go with it via ON DELETE CASCADE
func (r *TripRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("trip not found: %w", ErrNotFound)
	}
	return nil
}

func (r *TripRepository) listParticipants(ctx context.Context, tripID string) ([]models.Participant, error) {
	query := `
		SELECT user_id, name, photo_url, joined_at
		FROM trip_participants
		WHERE trip_id = $1
		ORDER BY joined_at
	`
	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.UserID, &p.Name, &p.PhotoURL, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read participants: %w", err)
	}
	return participants, nil
}

// AddParticipant appends a participant without a capacity check.
// Used when the owner is seeded as the first participant at creation.
func (r *TripRepository) AddParticipant(ctx context.Context, tripID string, p models.Participant) error {
	query := `
		INSERT INTO trip_participants (trip_id, user_id, name, photo_url, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, tripID, p.UserID, p.Name, p.PhotoURL, p.JoinedAt)
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

// AddParticipantIfCapacity appends a participant only while the trip is
// below its configured maximum. The capacity check and the insert run in
// one transaction with the trip row locked, so two concurrent accepts
// cannot overfill the list. Returns false when the trip is full.
func (r *TripRepository) AddParticipantIfCapacity(ctx context.Context, tripID string, p models.Participant) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var maxParticipants int
	err = tx.QueryRow(ctx,
		`SELECT max_participants FROM trips WHERE id = $1 FOR UPDATE`, tripID,
	).Scan(&maxParticipants)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, fmt.Errorf("trip not found: %w", ErrNotFound)
		}
		return false, fmt.Errorf("failed to lock trip: %w", err)
	}

	var count int
	err = tx.QueryRow(ctx,
		`SELECT count(*) FROM trip_participants WHERE trip_id = $1`, tripID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count participants: %w", err)
	}
	if count >= maxParticipants {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO trip_participants (trip_id, user_id, name, photo_url, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`, tripID, p.UserID, p.Name, p.PhotoURL, p.JoinedAt)
	if err != nil {
		return false, fmt.Errorf("failed to add participant: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit participant: %w", err)
	}
	return true, nil
}

// RemoveParticipant removes a participant. Returns false when the user
// was not listed.
func (r *TripRepository) RemoveParticipant(ctx context.Context, tripID, userID string) (bool, error) {
	result, err := r.db.Exec(ctx,
		`DELETE FROM trip_participants WHERE trip_id = $1 AND user_id = $2`,
		tripID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove participant: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// IsParticipant checks whether the user is in the trip's participant list
func (r *TripRepository) IsParticipant(ctx context.Context, tripID, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM trip_participants WHERE trip_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, tripID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}
	return exists, nil
}

// IsMember checks whether the user is the trip owner or a participant
func (r *TripRepository) IsMember(ctx context.Context, tripID, userID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM trips WHERE id = $1 AND owner_id = $2
			UNION
			SELECT 1 FROM trip_participants WHERE trip_id = $1 AND user_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, tripID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// MemberIDs returns the owner and every participant of a trip
func (r *TripRepository) MemberIDs(ctx context.Context, tripID string) ([]string, error) {
	query := `
		SELECT owner_id FROM trips WHERE id = $1
		UNION
		SELECT user_id FROM trip_participants WHERE trip_id = $1
	`
	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}
	return ids, nil
}

// CountParticipants returns the current size of the participant list
func (r *TripRepository) CountParticipants(ctx context.Context, tripID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM trip_participants WHERE trip_id = $1`, tripID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}
