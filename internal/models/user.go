package models

import "fmt"

// User represents a Telegram user known to the bot. The ID is the
// platform-assigned Telegram user ID, so records are upserted by ID
// rather than created with generated keys.
type User struct {
	ID        int64  `json:"id" db:"id"`
	Username  string `json:"username" db:"username"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
}

// FullName returns the user's first and last name joined together.
func (u *User) FullName() string {
	if u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.FirstName
}

// DisplayName returns the best human-readable name for the user:
// real name first, then username, then a placeholder built from the ID.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FullName()
	}
	if u.Username != "" {
		return u.Username
	}
	return fmt.Sprintf("User_%d", u.ID)
}

// Mention returns the string used to address the user in a chat message.
// Users without a username cannot be @-mentioned, so their display name
// is used instead.
func (u *User) Mention() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return u.DisplayName()
}
