package mailgun

// Message is a single outbound email. Either Text or HTML must be set.
type Message struct {
	From    string
	To      []string
	Subject string
	Text    string
	HTML    string
	// Tags are attached as o:tag values for filtering in the Mailgun logs.
	Tags []string
}

// SendResponse is the body Mailgun returns for an accepted message.
type SendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}
