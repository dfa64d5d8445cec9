package service

import (
	"errors"
	"fmt"
)

var (
	// ErrSlugTaken means another link already owns the normalized slug.
	ErrSlugTaken = errors.New("slug already exists")
	// ErrLinkNotFound means no link exists for the given id.
	ErrLinkNotFound = errors.New("link not found")
	// ErrInvalidCredentials is the single login failure outcome.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is the single credential-verification failure outcome.
	// Malformed, expired and badly signed tokens all collapse to it.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports a field-level input problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is a field-level validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
