package models

import "time"

// CreateLinkRequest represents the request body for registering a link
type CreateLinkRequest struct {
	Slug           string     `json:"slug" binding:"required"`
	DestinationURL string     `json:"destinationUrl" binding:"required"`
	IsActive       *bool      `json:"isActive,omitempty"` // Defaults to true
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	ClickLimit     *int       `json:"clickLimit,omitempty" binding:"omitempty,min=1"`
	Tags           []string   `json:"tags,omitempty"`
}

// UpdateLinkRequest represents the request body for a partial link update.
// Nil fields are left unchanged.
type UpdateLinkRequest struct {
	Slug           *string    `json:"slug,omitempty"`
	DestinationURL *string    `json:"destinationUrl,omitempty"`
	IsActive       *bool      `json:"isActive,omitempty"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	ClickLimit     *int       `json:"clickLimit,omitempty" binding:"omitempty,min=1"`
	Tags           *[]string  `json:"tags,omitempty"`
}
