package subscribers

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const countField = "TotalActiveSubscribers"

// StatsFetcher looks up the current subscriber count upstream.
type StatsFetcher interface {
	FetchStats(ctx context.Context) Outcome
}

// Client talks to the Campaign Monitor list stats endpoint.
type Client struct {
	APIKey  string
	ListID  string
	BaseURL string
	HTTP    *http.Client
}

func NewClient(s Settings) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if s.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	base := s.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	return &Client{
		APIKey:  s.APIKey,
		ListID:  s.ListID,
		BaseURL: strings.TrimRight(base, "/"),
		HTTP:    &http.Client{Transport: transport, Timeout: s.Timeout},
	}
}

// StatsURL is the stats endpoint for the configured list.
func (c *Client) StatsURL() string {
	return fmt.Sprintf("%s/api/v3.1/lists/%s/stats.json", c.BaseURL, url.PathEscape(c.ListID))
}

// FetchStats never fails from the caller's point of view; every problem is
// folded into the returned Outcome.
func (c *Client) FetchStats(ctx context.Context) Outcome {
	id := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.StatsURL(), nil)
	if err != nil {
		return transportFailure(id, fmt.Errorf("build request: %w", err))
	}
	req.SetBasicAuth(c.APIKey, basicAuthPassword)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "cmcount/1.0")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return transportFailure(id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure(id, fmt.Errorf("read body: %w", err))
	}

	// error payloads come back with a non-2xx status and no count field,
	// so the body decides, not the status
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return payloadInvalid(id, resp.StatusCode, fmt.Sprintf("decode body: %v", err))
	}
	raw, ok := payload[countField]
	if !ok {
		return payloadInvalid(id, resp.StatusCode, fmt.Sprintf("http %d: response has no %s", resp.StatusCode, countField))
	}

	return Outcome{
		AttemptID:  id,
		Kind:       OutcomeSuccess,
		Count:      coerceCount(raw),
		StatusCode: resp.StatusCode,
	}
}

var _ StatsFetcher = (*Client)(nil)
