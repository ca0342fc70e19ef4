package relay

import (
	"errors"
	"fmt"
)

// Sentinel errors for the relay steps.
var (
	ErrMissingEmail = errors.New("submission has no email address")
	ErrNoRecipient  = errors.New("notification recipient not configured")
)

// PartialCampaignError reports a campaign that was created but whose content
// could not be set. The draft stays on the platform without a body.
type PartialCampaignError struct {
	CampaignID string
	Err        error
}

func (e *PartialCampaignError) Error() string {
	return fmt.Sprintf("campaign %s created but content not set: %v", e.CampaignID, e.Err)
}

func (e *PartialCampaignError) Unwrap() error { return e.Err }
