package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"vacanza-be/internal/models"
	"vacanza-be/internal/storage"
)

// GroupService handles group lifecycle and membership management. All
// operations are scoped to the acting user: reads require membership,
// mutations of the group itself require the admin role.
type GroupService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewGroupService creates a GroupService.
func NewGroupService(store storage.Store, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, logger: logger}
}

// requireMember resolves the acting user's membership or ErrForbidden.
func (s *GroupService) requireMember(ctx context.Context, groupID, userID int64) (*models.GroupMember, error) {
	member, err := s.store.GetMemberByUser(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return member, nil
}

func (s *GroupService) requireAdmin(ctx context.Context, groupID, userID int64) (*models.GroupMember, error) {
	member, err := s.requireMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if member.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	return member, nil
}

// CreateGroup creates a group with the acting user as its first admin.
func (s *GroupService) CreateGroup(ctx context.Context, userID int64, group *models.Group) (*models.Group, error) {
	if group.Name == "" {
		return nil, fmt.Errorf("group name is required")
	}
	group.CreatedBy = userID
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	s.logger.Info("group created", "group_id", group.ID, "created_by", userID)
	return s.store.GetGroup(ctx, group.ID)
}

// GetGroup retrieves a group with its members. Requires membership.
func (s *GroupService) GetGroup(ctx context.Context, userID, groupID int64) (*models.Group, error) {
	if _, err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.GetGroup(ctx, groupID)
}

// ListGroups retrieves the acting user's groups.
func (s *GroupService) ListGroups(ctx context.Context, userID int64) ([]*models.Group, error) {
	return s.store.ListGroupsByUser(ctx, userID)
}

// UpdateGroup updates a group's editable fields. Requires admin.
func (s *GroupService) UpdateGroup(ctx context.Context, userID, groupID int64, updates *models.Group) (*models.Group, error) {
	if _, err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return nil, err
	}
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if updates.Name != "" {
		group.Name = updates.Name
	}
	group.Description = updates.Description
	group.VacationStartDate = updates.VacationStartDate
	group.VacationEndDate = updates.VacationEndDate
	group.CoverImageURL = updates.CoverImageURL

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}
	return s.store.GetGroup(ctx, groupID)
}

// DeleteGroup removes a group and everything it owns. Requires admin.
func (s *GroupService) DeleteGroup(ctx context.Context, userID, groupID int64) error {
	if _, err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return err
	}
	s.logger.Info("group deleted", "group_id", groupID, "deleted_by", userID)
	return s.store.DeleteGroup(ctx, groupID)
}

// AddMember adds another user to the group. Requires admin.
func (s *GroupService) AddMember(ctx context.Context, userID, groupID, newUserID int64) (*models.GroupMember, error) {
	if _, err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetMemberByUser(ctx, groupID, newUserID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	// Validates the user exists before creating the membership.
	if _, err := s.store.GetUserByID(ctx, newUserID); err != nil {
		return nil, err
	}
	return s.store.AddMember(ctx, groupID, newUserID, models.RoleMember)
}

// JoinByInviteCode adds the acting user to the group matching the code.
func (s *GroupService) JoinByInviteCode(ctx context.Context, userID int64, inviteCode string) (*models.Group, error) {
	groups, err := s.store.ListGroupsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		if g.InviteCode == inviteCode {
			return nil, ErrAlreadyMember
		}
	}

	group, err := s.findGroupByInvite(ctx, inviteCode)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.AddMember(ctx, group.ID, userID, models.RoleMember); err != nil {
		return nil, err
	}
	s.logger.Info("member joined via invite", "group_id", group.ID, "user_id", userID)
	return s.store.GetGroup(ctx, group.ID)
}

func (s *GroupService) findGroupByInvite(ctx context.Context, inviteCode string) (*models.Group, error) {
	group, err := s.store.GetGroupByInviteCode(ctx, inviteCode)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, err
	}
	return group, nil
}

// ListMembers retrieves the group's members. Requires membership.
func (s *GroupService) ListMembers(ctx context.Context, userID, groupID int64) ([]*models.GroupMember, error) {
	if _, err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.ListMembers(ctx, groupID)
}

// RemoveMember removes a membership. Admins can remove anyone; a regular
// member can only remove themselves (leaving the group). The last admin
// cannot be removed, and neither can a member whose membership is
// referenced by expense history: share rows point at the membership, so
// deleting it would leave expenses that no longer reconcile and a ledger
// whose balances do not sum to zero.
func (s *GroupService) RemoveMember(ctx context.Context, userID, groupID, memberID int64) error {
	actor, err := s.requireMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	target, err := s.store.GetMember(ctx, groupID, memberID)
	if err != nil {
		return err
	}
	if actor.Role != models.RoleAdmin && actor.ID != target.ID {
		return ErrForbidden
	}

	if target.Role == models.RoleAdmin {
		if err := s.ensureNotLastAdmin(ctx, groupID); err != nil {
			return err
		}
	}

	inHistory, err := s.memberHasExpenseHistory(ctx, groupID, memberID)
	if err != nil {
		return err
	}
	if inHistory {
		return ErrMemberHasExpenses
	}
	return s.store.RemoveMember(ctx, groupID, memberID)
}

func (s *GroupService) ensureNotLastAdmin(ctx context.Context, groupID int64) error {
	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return err
	}
	admins := 0
	for _, m := range members {
		if m.Role == models.RoleAdmin {
			admins++
		}
	}
	if admins <= 1 {
		return ErrLastAdmin
	}
	return nil
}

func (s *GroupService) memberHasExpenseHistory(ctx context.Context, groupID, memberID int64) (bool, error) {
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return false, err
	}
	for _, e := range expenses {
		for _, p := range e.Payers {
			if p.GroupMemberID == memberID {
				return true, nil
			}
		}
		for _, sp := range e.Splits {
			if sp.GroupMemberID == memberID {
				return true, nil
			}
		}
	}
	return false, nil
}

// SetMemberRole changes a membership's role. Requires admin; demoting
// the only admin is refused.
func (s *GroupService) SetMemberRole(ctx context.Context, userID, groupID, memberID int64, role models.GroupRole) (*models.GroupMember, error) {
	if role != models.RoleAdmin && role != models.RoleMember {
		return nil, ErrInvalidRole
	}
	if _, err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return nil, err
	}
	target, err := s.store.GetMember(ctx, groupID, memberID)
	if err != nil {
		return nil, err
	}
	if target.Role == role {
		return target, nil
	}
	if target.Role == models.RoleAdmin && role == models.RoleMember {
		if err := s.ensureNotLastAdmin(ctx, groupID); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateMemberRole(ctx, groupID, memberID, role); err != nil {
		return nil, err
	}
	s.logger.Info("member role changed",
		"group_id", groupID, "member_id", memberID, "role", role)
	return s.store.GetMember(ctx, groupID, memberID)
}

// Leave removes the acting user's own membership.
func (s *GroupService) Leave(ctx context.Context, userID, groupID int64) error {
	member, err := s.requireMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	return s.RemoveMember(ctx, userID, groupID, member.ID)
}
