package models

import "time"

// GroupRole is a member's role within a group.
type GroupRole string

const (
	RoleAdmin  GroupRole = "ADMIN"
	RoleMember GroupRole = "MEMBER"
)

// Group represents a vacation-planning group: a set of members with a
// shared calendar of activities and a shared expense ledger.
type Group struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// VacationStartDate and VacationEndDate bound the planned vacation,
	// ISO dates (YYYY-MM-DD). Both optional.
	VacationStartDate string `json:"vacationStartDate,omitempty"`
	VacationEndDate   string `json:"vacationEndDate,omitempty"`

	CoverImageURL string `json:"coverImageUrl,omitempty"`

	// InviteCode is an opaque code members can share to let others join.
	InviteCode string `json:"inviteCode,omitempty"`

	// CreatedBy is the user ID of the group creator (its first admin).
	CreatedBy int64 `json:"createdBy"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// MemberCount is derived; populated on reads.
	MemberCount int `json:"memberCount"`

	// Members is populated on detail reads, nil on list reads.
	Members []GroupMember `json:"members,omitempty"`
}

// GroupMember links a user to a group. Expenses and activity participation
// reference the membership ID, not the user ID, so a member's history stays
// scoped to the group.
type GroupMember struct {
	ID       int64     `json:"id"`
	GroupID  int64     `json:"groupId"`
	User     User      `json:"user"`
	Role     GroupRole `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}
