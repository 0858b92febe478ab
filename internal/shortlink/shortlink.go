// Package shortlink defines the short link model persisted by the storage layer.
package shortlink

import "time"

// ShortLink maps a short key to its destination URL and carries the click counter.
// UserID is nil for links created anonymously.
type ShortLink struct {
	// ID is the unique identifier of the link, meaning a UUID.
	ID string `json:"id"`

	FullURL  string `json:"full_url"`
	ShortURL string `json:"short_url"`

	Clicks int64 `json:"clicks"`

	UserID *string `json:"user_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
