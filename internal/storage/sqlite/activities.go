package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"vacanza-be/internal/models"
	"vacanza-be/internal/storage"
)

func marshalLocation(loc *models.Location) (any, error) {
	if loc == nil {
		return nil, nil
	}
	data, err := json.Marshal(loc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode location: %w", err)
	}
	return string(data), nil
}

func unmarshalLocation(raw sql.NullString) (*models.Location, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	loc := &models.Location{}
	if err := json.Unmarshal([]byte(raw.String), loc); err != nil {
		return nil, fmt.Errorf("failed to decode location: %w", err)
	}
	return loc, nil
}

// CreateActivity persists a new activity and populates its ID.
func (s *SQLiteStore) CreateActivity(ctx context.Context, activity *models.Activity) error {
	if err := activity.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = now
	}
	activity.UpdatedAt = activity.CreatedAt

	var (
		locationJSON, originJSON, destinationJSON      any
		category, bookingURL, bookingRef, reservation  string
		transportMode, departureTime, arrivalTime      string
		err                                            error
	)
	if activity.IsEvent() {
		if locationJSON, err = marshalLocation(activity.Event.Location); err != nil {
			return err
		}
		category = string(activity.Event.Category)
		bookingURL = activity.Event.BookingURL
		bookingRef = activity.Event.BookingReference
		reservation = activity.Event.ReservationTime
	} else {
		if originJSON, err = marshalLocation(activity.Trip.Origin); err != nil {
			return err
		}
		if destinationJSON, err = marshalLocation(activity.Trip.Destination); err != nil {
			return err
		}
		transportMode = string(activity.Trip.TransportMode)
		departureTime = activity.Trip.DepartureTime
		arrivalTime = activity.Trip.ArrivalTime
		bookingRef = activity.Trip.BookingReference
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO activities (group_id, activity_type, name, description, start_date, end_date, start_time, end_time,
		                         is_completed, display_order, created_by, created_at, updated_at,
		                         location_json, category, booking_url, booking_reference, reservation_time,
		                         origin_json, destination_json, transport_mode, departure_time, arrival_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		activity.GroupID, activity.Type, activity.Name, activity.Description,
		activity.StartDate, activity.EndDate, activity.StartTime, activity.EndTime,
		activity.IsCompleted, activity.DisplayOrder, activity.CreatedBy,
		activity.CreatedAt.Unix(), activity.UpdatedAt.Unix(),
		locationJSON, category, bookingURL, bookingRef, reservation,
		originJSON, destinationJSON, transportMode, departureTime, arrivalTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read activity id: %w", err)
	}
	activity.ID = id
	return nil
}

const activitySelect = `
	SELECT id, group_id, activity_type, name, description, start_date, end_date, start_time, end_time,
	       is_completed, display_order, created_by, created_at, updated_at,
	       location_json, category, booking_url, booking_reference, reservation_time,
	       origin_json, destination_json, transport_mode, departure_time, arrival_time
	FROM activities`

func scanActivity(row interface{ Scan(...any) error }) (*models.Activity, error) {
	a := &models.Activity{}
	var (
		createdAt, updatedAt                          int64
		locationJSON, originJSON, destinationJSON     sql.NullString
		category, bookingURL, bookingRef, reservation string
		transportMode, departureTime, arrivalTime     string
	)
	err := row.Scan(&a.ID, &a.GroupID, &a.Type, &a.Name, &a.Description,
		&a.StartDate, &a.EndDate, &a.StartTime, &a.EndTime,
		&a.IsCompleted, &a.DisplayOrder, &a.CreatedBy, &createdAt, &updatedAt,
		&locationJSON, &category, &bookingURL, &bookingRef, &reservation,
		&originJSON, &destinationJSON, &transportMode, &departureTime, &arrivalTime)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	a.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	switch a.Type {
	case models.TypeEvent:
		loc, err := unmarshalLocation(locationJSON)
		if err != nil {
			return nil, err
		}
		a.Event = &models.EventDetails{
			Location:         loc,
			Category:         models.EventCategory(category),
			BookingURL:       bookingURL,
			BookingReference: bookingRef,
			ReservationTime:  reservation,
		}
	case models.TypeTrip:
		origin, err := unmarshalLocation(originJSON)
		if err != nil {
			return nil, err
		}
		destination, err := unmarshalLocation(destinationJSON)
		if err != nil {
			return nil, err
		}
		a.Trip = &models.TripDetails{
			Origin:           origin,
			Destination:      destination,
			TransportMode:    models.TransportMode(transportMode),
			DepartureTime:    departureTime,
			ArrivalTime:      arrivalTime,
			BookingReference: bookingRef,
		}
	}
	return a, nil
}

// GetActivity retrieves an activity scoped to a group, with participants.
func (s *SQLiteStore) GetActivity(ctx context.Context, groupID, activityID int64) (*models.Activity, error) {
	row := s.db.QueryRowContext(ctx, activitySelect+" WHERE group_id = ? AND id = ?", groupID, activityID)
	a, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("activity %d in group %d: %w", activityID, groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	participants, err := s.ListParticipants(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.Participants = make([]models.ActivityParticipant, len(participants))
	for i, p := range participants {
		a.Participants[i] = *p
	}
	return a, nil
}

// ListActivitiesByGroup retrieves all activities of a group ordered by
// start date, then display order. Participants are not populated.
func (s *SQLiteStore) ListActivitiesByGroup(ctx context.Context, groupID int64) ([]*models.Activity, error) {
	rows, err := s.db.QueryContext(ctx,
		activitySelect+" WHERE group_id = ? ORDER BY start_date, display_order, id", groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}
	return activities, nil
}

// UpdateActivity updates an existing activity in place.
func (s *SQLiteStore) UpdateActivity(ctx context.Context, activity *models.Activity) error {
	if err := activity.Validate(); err != nil {
		return err
	}
	activity.UpdatedAt = time.Now().UTC()

	var (
		locationJSON, originJSON, destinationJSON     any
		category, bookingURL, bookingRef, reservation string
		transportMode, departureTime, arrivalTime     string
		err                                           error
	)
	if activity.IsEvent() {
		if locationJSON, err = marshalLocation(activity.Event.Location); err != nil {
			return err
		}
		category = string(activity.Event.Category)
		bookingURL = activity.Event.BookingURL
		bookingRef = activity.Event.BookingReference
		reservation = activity.Event.ReservationTime
	} else {
		if originJSON, err = marshalLocation(activity.Trip.Origin); err != nil {
			return err
		}
		if destinationJSON, err = marshalLocation(activity.Trip.Destination); err != nil {
			return err
		}
		transportMode = string(activity.Trip.TransportMode)
		departureTime = activity.Trip.DepartureTime
		arrivalTime = activity.Trip.ArrivalTime
		bookingRef = activity.Trip.BookingReference
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE activities SET activity_type = ?, name = ?, description = ?, start_date = ?, end_date = ?, start_time = ?, end_time = ?,
		        is_completed = ?, display_order = ?, updated_at = ?,
		        location_json = ?, category = ?, booking_url = ?, booking_reference = ?, reservation_time = ?,
		        origin_json = ?, destination_json = ?, transport_mode = ?, departure_time = ?, arrival_time = ?
		 WHERE group_id = ? AND id = ?`,
		activity.Type, activity.Name, activity.Description,
		activity.StartDate, activity.EndDate, activity.StartTime, activity.EndTime,
		activity.IsCompleted, activity.DisplayOrder, activity.UpdatedAt.Unix(),
		locationJSON, category, bookingURL, bookingRef, reservation,
		originJSON, destinationJSON, transportMode, departureTime, arrivalTime,
		activity.GroupID, activity.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("activity %d in group %d: %w", activity.ID, activity.GroupID, storage.ErrNotFound)
	}
	return nil
}

// DeleteActivity removes an activity; participants and expenses cascade.
func (s *SQLiteStore) DeleteActivity(ctx context.Context, groupID, activityID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM activities WHERE group_id = ? AND id = ?", groupID, activityID)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("activity %d in group %d: %w", activityID, groupID, storage.ErrNotFound)
	}
	return nil
}

// ReorderActivities assigns display order by position in activityIDs, in
// one transaction. An id outside the group leaves the order unchanged and
// returns ErrNotFound.
func (s *SQLiteStore) ReorderActivities(ctx context.Context, groupID int64, activityIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Unix()
	for i, id := range activityIDs {
		res, err := tx.ExecContext(ctx,
			"UPDATE activities SET display_order = ?, updated_at = ? WHERE group_id = ? AND id = ?",
			i, now, groupID, id,
		)
		if err != nil {
			return fmt.Errorf("failed to reorder activity %d: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check reorder: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("activity %d in group %d: %w", id, groupID, storage.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AddParticipant adds a member's RSVP to an activity.
func (s *SQLiteStore) AddParticipant(ctx context.Context, participant *models.ActivityParticipant) error {
	if participant.Status == "" {
		participant.Status = models.StatusConfirmed
	}
	if participant.CreatedAt.IsZero() {
		participant.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO activity_participants (activity_id, group_member_id, status, notes, created_at) VALUES (?, ?, ?, ?, ?)",
		participant.ActivityID, participant.GroupMemberID, participant.Status, participant.Notes, participant.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read participant id: %w", err)
	}
	participant.ID = id
	return nil
}

// ListParticipants retrieves an activity's participants with user names.
func (s *SQLiteStore) ListParticipants(ctx context.Context, activityID int64) ([]*models.ActivityParticipant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ap.id, ap.activity_id, ap.group_member_id, u.name, ap.status, ap.notes, ap.created_at
		 FROM activity_participants ap
		 JOIN group_members gm ON gm.id = ap.group_member_id
		 JOIN users u ON u.id = gm.user_id
		 WHERE ap.activity_id = ?
		 ORDER BY ap.id`,
		activityID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []*models.ActivityParticipant
	for rows.Next() {
		p := &models.ActivityParticipant{}
		var createdAt int64
		if err := rows.Scan(&p.ID, &p.ActivityID, &p.GroupMemberID, &p.UserName, &p.Status, &p.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.CreatedAt = time.Unix(createdAt, 0).UTC()
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// UpdateParticipantStatus updates a participant's RSVP status and notes.
func (s *SQLiteStore) UpdateParticipantStatus(ctx context.Context, activityID, participantID int64, status models.ParticipantStatus, notes string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE activity_participants SET status = ?, notes = ? WHERE activity_id = ? AND id = ?",
		status, notes, activityID, participantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("participant %d on activity %d: %w", participantID, activityID, storage.ErrNotFound)
	}
	return nil
}

// RemoveParticipant removes a member's RSVP from an activity.
func (s *SQLiteStore) RemoveParticipant(ctx context.Context, activityID, participantID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM activity_participants WHERE activity_id = ? AND id = ?", activityID, participantID)
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("participant %d on activity %d: %w", participantID, activityID, storage.ErrNotFound)
	}
	return nil
}
