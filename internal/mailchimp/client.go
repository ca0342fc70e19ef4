// Package mailchimp is a minimal client for the Mailchimp Marketing API
// (v3.0): audience members, draft campaigns and health ping.
package mailchimp

import (
	"bytes"
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

// Client is the Mailchimp Marketing API client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpclient.HTTPDoer
}

// NewClient creates a client for the data center in cfg.BaseURL.
func NewClient(cfg config.MailchimpConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpclient.New("mailchimp", cfg.Timeout()),
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing)
func (c *Client) SetHTTPClient(doer httpclient.HTTPDoer) {
	c.httpClient = httpclient.Wrap("mailchimp", doer)
}

// Configured reports whether the client has an API key and endpoint.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.baseURL != ""
}

// doRequest performs an authenticated JSON request and decodes the response
// into out when out is non-nil.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	// Any username is accepted; the key is the password.
	req.SetBasicAuth("anystring", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}

func decodeError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status, Body: string(body)}
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &problem) == nil {
		apiErr.Title = problem.Title
		apiErr.Detail = problem.Detail
	}
	return apiErr
}

// AddListMember adds a member to the audience listID.
func (c *Client) AddListMember(ctx context.Context, listID string, m Member) (*MemberResponse, error) {
	if m.Status == "" {
		m.Status = StatusSubscribed
	}
	var out MemberResponse
	endpoint := fmt.Sprintf("/lists/%s/members", url.PathEscape(listID))
	if err := c.doRequest(ctx, http.MethodPost, endpoint, m, &out); err != nil {
		return nil, fmt.Errorf("adding list member: %w", err)
	}
	return &out, nil
}

// CreateCampaign creates a draft campaign.
func (c *Client) CreateCampaign(ctx context.Context, req CampaignRequest) (*Campaign, error) {
	if req.Type == "" {
		req.Type = CampaignRegular
	}
	var out Campaign
	if err := c.doRequest(ctx, http.MethodPost, "/campaigns", req, &out); err != nil {
		return nil, fmt.Errorf("creating campaign: %w", err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("creating campaign: response has no id")
	}
	return &out, nil
}

// SetCampaignContent replaces the HTML body of campaign id.
func (c *Client) SetCampaignContent(ctx context.Context, id string, content Content) error {
	endpoint := fmt.Sprintf("/campaigns/%s/content", url.PathEscape(id))
	if err := c.doRequest(ctx, http.MethodPut, endpoint, content, nil); err != nil {
		return fmt.Errorf("setting campaign content: %w", err)
	}
	return nil
}

// Ping checks credentials and reachability.
func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		HealthStatus string `json:"health_status"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/ping", nil, &out); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
