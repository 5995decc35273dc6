package service

import (
	"context"
	"log/slog"

	"vacanza-be/internal/models"
	"vacanza-be/internal/storage"
)

// ActivityService handles the group calendar: events, trips and
// participant RSVPs. Every operation requires group membership.
type ActivityService struct {
	store  storage.Store
	groups *GroupService
	logger *slog.Logger
}

// NewActivityService creates an ActivityService.
func NewActivityService(store storage.Store, groups *GroupService, logger *slog.Logger) *ActivityService {
	return &ActivityService{store: store, groups: groups, logger: logger}
}

// Create adds an activity to the group's calendar.
func (s *ActivityService) Create(ctx context.Context, userID, groupID int64, activity *models.Activity) (*models.Activity, error) {
	if _, err := s.groups.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	activity.GroupID = groupID
	activity.CreatedBy = userID
	if err := s.store.CreateActivity(ctx, activity); err != nil {
		return nil, err
	}
	s.logger.Info("activity created",
		"activity_id", activity.ID, "group_id", groupID, "type", activity.Type)
	return s.store.GetActivity(ctx, groupID, activity.ID)
}

// Get retrieves one activity with its participants.
func (s *ActivityService) Get(ctx context.Context, userID, groupID, activityID int64) (*models.Activity, error) {
	if _, err := s.groups.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.GetActivity(ctx, groupID, activityID)
}

// List retrieves the group's activities in calendar order.
func (s *ActivityService) List(ctx context.Context, userID, groupID int64) ([]*models.Activity, error) {
	if _, err := s.groups.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.ListActivitiesByGroup(ctx, groupID)
}

// Update replaces an activity's editable fields, including switching its
// type between event and trip.
func (s *ActivityService) Update(ctx context.Context, userID, groupID, activityID int64, updates *models.Activity) (*models.Activity, error) {
	if _, err := s.groups.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	existing, err := s.store.GetActivity(ctx, groupID, activityID)
	if err != nil {
		return nil, err
	}

	updates.ID = existing.ID
	updates.GroupID = groupID
	updates.CreatedBy = existing.CreatedBy
	updates.CreatedAt = existing.CreatedAt
	if err := s.store.UpdateActivity(ctx, updates); err != nil {
		return nil, err
	}
	return s.store.GetActivity(ctx, groupID, activityID)
}

// ToggleCompletion flips an activity's completed flag.
func (s *ActivityService) ToggleCompletion(ctx context.Context, userID, groupID, activityID int64) (*models.Activity, error) {
	if _, err := s.groups.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	activity, err := s.store.GetActivity(ctx, groupID, activityID)
	if err != nil {
		return nil, err
	}
	activity.IsCompleted = !activity.IsCompleted
	if err := s.store.UpdateActivity(ctx, activity); err != nil {
		return nil, err
	}
	return s.store.GetActivity(ctx, groupID, activityID)
}

// Reorder rewrites the group's activity display order to match the given
// id sequence and returns the reordered list.
func (s *ActivityService) Reorder(ctx context.Context, userID, groupID int64, activityIDs []int64) ([]*models.Activity, error) {
	if _, err := s.groups.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if err := s.store.ReorderActivities(ctx, groupID, activityIDs); err != nil {
		return nil, err
	}
	return s.store.ListActivitiesByGroup(ctx, groupID)
}

// Delete removes an activity along with its participants and expenses.
func (s *ActivityService) Delete(ctx context.Context, userID, groupID, activityID int64) error {
	if _, err := s.groups.requireMember(ctx, groupID, userID); err != nil {
		return err
	}
	s.logger.Info("activity deleted", "activity_id", activityID, "group_id", groupID)
	return s.store.DeleteActivity(ctx, groupID, activityID)
}

// AddParticipant records a member's RSVP on an activity.
func (s *ActivityService) AddParticipant(ctx context.Context, userID, groupID, activityID, memberID int64, status models.ParticipantStatus, notes string) (*models.ActivityParticipant, error) {
	if _, err := s.groups.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	// Both the activity and the membership must belong to this group.
	if _, err := s.store.GetActivity(ctx, groupID, activityID); err != nil {
		return nil, err
	}
	member, err := s.store.GetMember(ctx, groupID, memberID)
	if err != nil {
		return nil, err
	}

	p := &models.ActivityParticipant{
		ActivityID:    activityID,
		GroupMemberID: memberID,
		Status:        status,
		Notes:         notes,
	}
	if err := s.store.AddParticipant(ctx, p); err != nil {
		return nil, err
	}
	p.UserName = member.User.Name
	return p, nil
}

// SetParticipantStatus updates an RSVP.
func (s *ActivityService) SetParticipantStatus(ctx context.Context, userID, groupID, activityID, participantID int64, status models.ParticipantStatus, notes string) error {
	if _, err := s.groups.requireMember(ctx, groupID, userID); err != nil {
		return err
	}
	if _, err := s.store.GetActivity(ctx, groupID, activityID); err != nil {
		return err
	}
	return s.store.UpdateParticipantStatus(ctx, activityID, participantID, status, notes)
}

// RemoveParticipant withdraws an RSVP.
func (s *ActivityService) RemoveParticipant(ctx context.Context, userID, groupID, activityID, participantID int64) error {
	if _, err := s.groups.requireMember(ctx, groupID, userID); err != nil {
		return err
	}
	if _, err := s.store.GetActivity(ctx, groupID, activityID); err != nil {
		return err
	}
	return s.store.RemoveParticipant(ctx, activityID, participantID)
}
