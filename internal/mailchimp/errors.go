package mailchimp

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when the client has no API key or base URL.
var ErrNotConfigured = errors.New("mailchimp: api key or server not configured")

// APIError is a non-2xx response from the Marketing API. Mailchimp reports
// errors as application/problem+json; Title and Detail are empty when the
// body is not in that shape.
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("mailchimp API error (status %d): %s: %s", e.StatusCode, e.Title, e.Detail)
	}
	return fmt.Sprintf("mailchimp API error (status %d): %s", e.StatusCode, e.Body)
}

// IsMemberExists reports whether err is Mailchimp's duplicate member error.
func IsMemberExists(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Title == "Member Exists"
}
