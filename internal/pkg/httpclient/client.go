// Package httpclient provides the outbound HTTP plumbing shared by the
// provider clients: a Doer interface for test substitution and a
// timeout-bounded client that records call latency.
//
// Requests are never retried. A failed provider call is reported to the
// caller once; re-sending a notification or campaign is not safe.
package httpclient

import (
	"net/http"
	"time"

	"github.com/ignite/formrelay/internal/observability/metrics"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both *http.Client and *InstrumentedClient satisfy this interface.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// InstrumentedClient wraps an HTTPDoer and records provider call durations.
type InstrumentedClient struct {
	client   HTTPDoer
	provider string
}

// New creates a client for the named provider. A non-positive timeout
// falls back to 30s so no provider call can hang a request indefinitely.
func New(provider string, timeout time.Duration) *InstrumentedClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return Wrap(provider, &http.Client{Timeout: timeout})
}

// Wrap instruments an existing HTTPDoer.
func Wrap(provider string, client HTTPDoer) *InstrumentedClient {
	return &InstrumentedClient{client: client, provider: provider}
}

// Do executes the request once and observes its latency and status.
func (c *InstrumentedClient) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.client.Do(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	metrics.ObserveProviderCall(c.provider, req.Method, status, time.Since(start))
	return resp, err
}
