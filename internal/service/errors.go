// Package service implements the application logic between the HTTP
// handlers and the storage layer: authorization checks, expense split
// construction, and settlement computation.
package service

import "errors"

var (
	// ErrForbidden is returned when the acting user lacks the required
	// membership or role for an operation.
	ErrForbidden = errors.New("forbidden")

	// ErrEmailInUse is returned when registering with a taken email.
	ErrEmailInUse = errors.New("email already in use")

	// ErrAlreadyMember is returned when adding a user who is already in
	// the group.
	ErrAlreadyMember = errors.New("user is already a member")

	// ErrInvalidInviteCode is returned when joining with an unknown code.
	ErrInvalidInviteCode = errors.New("invalid invite code")

	// ErrLastAdmin is returned when removing or demoting the only admin
	// would leave the group without one.
	ErrLastAdmin = errors.New("cannot remove the last admin")

	// ErrMemberHasExpenses is returned when removing a member whose
	// membership is referenced by expense history. Deleting it would
	// leave stored expenses that no longer reconcile.
	ErrMemberHasExpenses = errors.New("member has expense history and cannot be removed")

	// ErrInvalidRole is returned for a role value other than ADMIN or
	// MEMBER.
	ErrInvalidRole = errors.New("role must be ADMIN or MEMBER")
)
