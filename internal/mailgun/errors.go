package mailgun

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when the client has no API key or domain.
	ErrNotConfigured = errors.New("mailgun: api key or domain not configured")
	// ErrInvalidMessage is returned for a message with no recipient or body.
	ErrInvalidMessage = errors.New("mailgun: invalid message")
)

// APIError is a non-2xx response from the Mailgun API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mailgun API error (status %d): %s", e.StatusCode, e.Body)
}
