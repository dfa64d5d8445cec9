package entities

import "time"

// Link binds a slug to a destination URL plus lifecycle metadata.
type Link struct {
	ID             string     `json:"id"` // UUID, immutable
	Slug           string     `json:"slug"`
	DestinationURL string     `json:"destinationUrl"`
	OwnerID        string     `json:"ownerId,omitempty"`
	IsActive       bool       `json:"isActive"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"` // Pointer allows nil (no expiration)
	ClickLimit     *int       `json:"clickLimit,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Expired reports whether the link has an expiry in the past relative to now.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}
