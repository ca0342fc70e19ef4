package mailchimp

// Member statuses accepted by the list members endpoint.
const (
	StatusSubscribed = "subscribed"
	StatusPending    = "pending"
)

// MergeFields are the audience merge tags set on a new member.
type MergeFields struct {
	FirstName string `json:"FNAME"`
	LastName  string `json:"LNAME,omitempty"`
}

// Member is the body of POST /lists/{list_id}/members.
type Member struct {
	EmailAddress string      `json:"email_address"`
	Status       string      `json:"status"`
	MergeFields  MergeFields `json:"merge_fields"`
}

// MemberResponse is the subset of the created member we read back.
type MemberResponse struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
	Status       string `json:"status"`
	ListID       string `json:"list_id"`
}

// CampaignType values.
const CampaignRegular = "regular"

// Recipients targets a campaign at one audience.
type Recipients struct {
	ListID string `json:"list_id"`
}

// CampaignSettings are the display settings of a campaign.
type CampaignSettings struct {
	SubjectLine string `json:"subject_line"`
	Title       string `json:"title"`
	FromName    string `json:"from_name"`
	ReplyTo     string `json:"reply_to"`
}

// CampaignRequest is the body of POST /campaigns.
type CampaignRequest struct {
	Type       string           `json:"type"`
	Recipients Recipients       `json:"recipients"`
	Settings   CampaignSettings `json:"settings"`
}

// Campaign is the subset of a created campaign we read back.
type Campaign struct {
	ID       string           `json:"id"`
	WebID    int64            `json:"web_id"`
	Status   string           `json:"status"`
	Settings CampaignSettings `json:"settings"`
}

// Content is the body of PUT /campaigns/{id}/content.
type Content struct {
	HTML string `json:"html"`
}
