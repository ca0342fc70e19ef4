package submission

import "errors"

// Sentinel errors for submission parsing.
var (
	ErrMalformedBody = errors.New("malformed submission body")
	ErrBodyTooLarge  = errors.New("submission body too large")
)
