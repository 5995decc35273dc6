// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"vacanza-be/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// UserStore defines user persistence operations.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error)
}

// GroupStore defines group and membership persistence operations.
type GroupStore interface {
	// CreateGroup persists a new group and adds the creator as its first
	// admin member. The group.ID field is populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID int64) (*models.Group, error)
	GetGroupByInviteCode(ctx context.Context, inviteCode string) (*models.Group, error)
	ListGroupsByUser(ctx context.Context, userID int64) ([]*models.Group, error)
	UpdateGroup(ctx context.Context, group *models.Group) error
	DeleteGroup(ctx context.Context, groupID int64) error

	AddMember(ctx context.Context, groupID, userID int64, role models.GroupRole) (*models.GroupMember, error)
	ListMembers(ctx context.Context, groupID int64) ([]*models.GroupMember, error)
	GetMember(ctx context.Context, groupID, memberID int64) (*models.GroupMember, error)
	// GetMemberByUser resolves a user's membership in a group, or
	// ErrNotFound when they are not a member.
	GetMemberByUser(ctx context.Context, groupID, userID int64) (*models.GroupMember, error)
	UpdateMemberRole(ctx context.Context, groupID, memberID int64, role models.GroupRole) error
	RemoveMember(ctx context.Context, groupID, memberID int64) error
}

// ActivityStore defines activity and participant persistence operations.
type ActivityStore interface {
	CreateActivity(ctx context.Context, activity *models.Activity) error
	GetActivity(ctx context.Context, groupID, activityID int64) (*models.Activity, error)
	ListActivitiesByGroup(ctx context.Context, groupID int64) ([]*models.Activity, error)
	UpdateActivity(ctx context.Context, activity *models.Activity) error
	// DeleteActivity removes the activity and cascades to its
	// participants and expenses.
	DeleteActivity(ctx context.Context, groupID, activityID int64) error
	// ReorderActivities rewrites display order so that activityIDs[i]
	// gets display order i. Every id must belong to the group.
	ReorderActivities(ctx context.Context, groupID int64, activityIDs []int64) error

	AddParticipant(ctx context.Context, participant *models.ActivityParticipant) error
	ListParticipants(ctx context.Context, activityID int64) ([]*models.ActivityParticipant, error)
	UpdateParticipantStatus(ctx context.Context, activityID, participantID int64, status models.ParticipantStatus, notes string) error
	RemoveParticipant(ctx context.Context, activityID, participantID int64) error
}

// ExpenseStore defines expense persistence operations. There is no update:
// expenses are immutable and edits are a delete plus a create, which
// ReplaceExpense performs in one transaction.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID int64) (*models.Expense, error)
	ListExpensesByActivity(ctx context.Context, activityID int64) ([]*models.Expense, error)
	ListExpensesByGroup(ctx context.Context, groupID int64) ([]*models.Expense, error)
	DeleteExpense(ctx context.Context, expenseID int64) error
	ReplaceExpense(ctx context.Context, oldExpenseID int64, expense *models.Expense) error
}

// Store is the full persistence interface. The abstraction allows swapping
// storage backends without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	ActivityStore
	ExpenseStore

	// Close releases any resources held by the store.
	Close() error
}
