// Package mailgun is a minimal client for the Mailgun Messages API.
package mailgun

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ignite/formrelay/internal/config"
	"github.com/ignite/formrelay/internal/pkg/httpclient"
)

// Client is a Mailgun API client bound to one sending domain.
type Client struct {
	baseURL    string
	apiKey     string
	domain     string
	httpClient httpclient.HTTPDoer
}

// NewClient creates a new Mailgun API client
func NewClient(cfg config.MailgunConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		domain:     cfg.Domain,
		httpClient: httpclient.New("mailgun", cfg.Timeout()),
	}
}

// SetHTTPClient replaces the transport, mainly for tests.
func (c *Client) SetHTTPClient(doer httpclient.HTTPDoer) {
	c.httpClient = httpclient.Wrap("mailgun", doer)
}

// Configured reports whether the client has credentials and a domain.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.domain != ""
}

// SendMessage submits one message to {base}/v3/{domain}/messages.
func (c *Client) SendMessage(ctx context.Context, msg Message) (*SendResponse, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if len(msg.To) == 0 || (msg.Text == "" && msg.HTML == "") {
		return nil, ErrInvalidMessage
	}

	form := url.Values{}
	form.Set("from", msg.From)
	for _, to := range msg.To {
		form.Add("to", to)
	}
	form.Set("subject", msg.Subject)
	if msg.Text != "" {
		form.Set("text", msg.Text)
	}
	if msg.HTML != "" {
		form.Set("html", msg.HTML)
	}
	for _, tag := range msg.Tags {
		form.Add("o:tag", tag)
	}

	endpoint := fmt.Sprintf("%s/v3/%s/messages", c.baseURL, url.PathEscape(c.domain))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	// Mailgun uses Basic Auth with "api" as username
	req.SetBasicAuth("api", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out SendResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("parsing send response: %w", err)
		}
	}
	out.ID = strings.Trim(out.ID, "<>")
	return &out, nil
}
