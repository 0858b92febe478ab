// Package user defines the user model used throughout the application,
// particularly for authentication and ownership of shortened URLs.
package user

import "time"

// User represents a registered account.
// PasswordHash is populated only by storage methods that explicitly
// request it and is never serialized to clients.
type User struct {
	// ID is the unique identifier of the user, meaning a UUID.
	ID string `json:"id"`

	Name  string `json:"name"`
	Email string `json:"email"`

	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
