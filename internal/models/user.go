package models

import "time"

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id"`

	// Email is the user's email address (unique). Used for login and for
	// looking users up when inviting them to a group.
	Email string `json:"email"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// AvatarURL is an optional profile picture URL.
	AvatarURL string `json:"avatarUrl,omitempty"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized.
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}
