package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vacanza-be/internal/models"
	"vacanza-be/internal/storage"
)

// CreateGroup persists a new group and adds the creator as its first admin
// member, in one transaction. Generates the invite code if not set.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	now := time.Now().UTC()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now
	}
	group.UpdatedAt = group.CreatedAt
	if group.InviteCode == "" {
		group.InviteCode = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO groups (name, description, vacation_start_date, vacation_end_date, cover_image_url, invite_code, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		group.Name, group.Description, group.VacationStartDate, group.VacationEndDate,
		group.CoverImageURL, group.InviteCode, group.CreatedBy, group.CreatedAt.Unix(), group.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read group id: %w", err)
	}
	group.ID = id

	_, err = tx.ExecContext(ctx,
		"INSERT INTO group_members (group_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
		group.ID, group.CreatedBy, models.RoleAdmin, now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	group.MemberCount = 1
	return nil
}

// GetGroup retrieves a group by ID, including its members.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID int64) (*models.Group, error) {
	group := &models.Group{}
	var createdAt, updatedAt int64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, vacation_start_date, vacation_end_date, cover_image_url, invite_code, created_by, created_at, updated_at
		 FROM groups WHERE id = ?`,
		groupID,
	).Scan(&group.ID, &group.Name, &group.Description, &group.VacationStartDate, &group.VacationEndDate,
		&group.CoverImageURL, &group.InviteCode, &group.CreatedBy, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %d: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.CreatedAt = time.Unix(createdAt, 0).UTC()
	group.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	members, err := s.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	group.Members = make([]models.GroupMember, len(members))
	for i, m := range members {
		group.Members[i] = *m
	}
	group.MemberCount = len(members)
	return group, nil
}

// GetGroupByInviteCode resolves an invite code to its group. Member lists
// are not populated.
func (s *SQLiteStore) GetGroupByInviteCode(ctx context.Context, inviteCode string) (*models.Group, error) {
	group := &models.Group{}
	var createdAt, updatedAt int64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, vacation_start_date, vacation_end_date, cover_image_url, invite_code, created_by, created_at, updated_at
		 FROM groups WHERE invite_code = ?`,
		inviteCode,
	).Scan(&group.ID, &group.Name, &group.Description, &group.VacationStartDate, &group.VacationEndDate,
		&group.CoverImageURL, &group.InviteCode, &group.CreatedBy, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("invite code: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.CreatedAt = time.Unix(createdAt, 0).UTC()
	group.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return group, nil
}

// ListGroupsByUser retrieves all groups the user is a member of, most
// recently created first. Member lists are not populated.
func (s *SQLiteStore) ListGroupsByUser(ctx context.Context, userID int64) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.description, g.vacation_start_date, g.vacation_end_date, g.cover_image_url, g.invite_code, g.created_by, g.created_at, g.updated_at,
		        (SELECT COUNT(*) FROM group_members gm2 WHERE gm2.group_id = g.id) AS member_count
		 FROM groups g
		 JOIN group_members gm ON gm.group_id = g.id
		 WHERE gm.user_id = ?
		 ORDER BY g.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		var createdAt, updatedAt int64
		if err := rows.Scan(&group.ID, &group.Name, &group.Description, &group.VacationStartDate, &group.VacationEndDate,
			&group.CoverImageURL, &group.InviteCode, &group.CreatedBy, &createdAt, &updatedAt, &group.MemberCount); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		group.CreatedAt = time.Unix(createdAt, 0).UTC()
		group.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// UpdateGroup updates a group's editable fields.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	group.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE groups SET name = ?, description = ?, vacation_start_date = ?, vacation_end_date = ?, cover_image_url = ?, updated_at = ?
		 WHERE id = ?`,
		group.Name, group.Description, group.VacationStartDate, group.VacationEndDate,
		group.CoverImageURL, group.UpdatedAt.Unix(), group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("group %d: %w", group.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteGroup removes a group. Members, activities and expenses cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("group %d: %w", groupID, storage.ErrNotFound)
	}
	return nil
}

// AddMember adds a user to a group with the given role.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID, userID int64, role models.GroupRole) (*models.GroupMember, error) {
	joinedAt := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO group_members (group_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
		groupID, userID, role, joinedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert member: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read member id: %w", err)
	}
	return s.GetMember(ctx, groupID, id)
}

const memberSelect = `
	SELECT gm.id, gm.group_id, gm.role, gm.joined_at,
	       u.id, u.email, u.name, u.avatar_url, u.created_at
	FROM group_members gm
	JOIN users u ON u.id = gm.user_id`

func scanMember(row interface{ Scan(...any) error }) (*models.GroupMember, error) {
	m := &models.GroupMember{}
	var joinedAt, userCreatedAt int64
	err := row.Scan(&m.ID, &m.GroupID, &m.Role, &joinedAt,
		&m.User.ID, &m.User.Email, &m.User.Name, &m.User.AvatarURL, &userCreatedAt)
	if err != nil {
		return nil, err
	}
	m.JoinedAt = time.Unix(joinedAt, 0).UTC()
	m.User.CreatedAt = time.Unix(userCreatedAt, 0).UTC()
	return m, nil
}

// ListMembers retrieves all members of a group ordered by join time.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID int64) ([]*models.GroupMember, error) {
	rows, err := s.db.QueryContext(ctx,
		memberSelect+" WHERE gm.group_id = ? ORDER BY gm.joined_at, gm.id", groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.GroupMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// GetMember retrieves a membership by group and membership ID.
func (s *SQLiteStore) GetMember(ctx context.Context, groupID, memberID int64) (*models.GroupMember, error) {
	row := s.db.QueryRowContext(ctx,
		memberSelect+" WHERE gm.group_id = ? AND gm.id = ?", groupID, memberID)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("member %d in group %d: %w", memberID, groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// GetMemberByUser resolves a user's membership in a group.
func (s *SQLiteStore) GetMemberByUser(ctx context.Context, groupID, userID int64) (*models.GroupMember, error) {
	row := s.db.QueryRowContext(ctx,
		memberSelect+" WHERE gm.group_id = ? AND gm.user_id = ?", groupID, userID)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d in group %d: %w", userID, groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// UpdateMemberRole changes a membership's role.
func (s *SQLiteStore) UpdateMemberRole(ctx context.Context, groupID, memberID int64, role models.GroupRole) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE group_members SET role = ? WHERE group_id = ? AND id = ?",
		role, groupID, memberID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("member %d in group %d: %w", memberID, groupID, storage.ErrNotFound)
	}
	return nil
}

// RemoveMember removes a membership from a group.
func (s *SQLiteStore) RemoveMember(ctx context.Context, groupID, memberID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND id = ?", groupID, memberID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("member %d in group %d: %w", memberID, groupID, storage.ErrNotFound)
	}
	return nil
}
