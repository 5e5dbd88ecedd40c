package initiator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/dmitrymomot/trialkit/pkg/plan"
	"github.com/dmitrymomot/trialkit/pkg/subscription"
)

// RemoteError is a non-200 answer from the session endpoint.
type RemoteError struct {
	Status  int
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Client talks to the billing HTTP API. It implements SessionCreator.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// NewClient creates a client for the API served at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: cleanhttp.DefaultClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateSession posts req to the session endpoint of provider.
func (c *Client) CreateSession(ctx context.Context, provider subscription.ProviderChoice, req subscription.Request) (*subscription.SessionResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("initiator: encode request: %w", err)
	}

	endpoint := c.baseURL + "/api/subscriptions/" + url.PathEscape(provider.String()) + "/session"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("initiator: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	var res subscription.SessionResult
	if err := c.do(httpReq, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Plans fetches the plan catalog served by the API.
func (c *Client) Plans(ctx context.Context) ([]plan.Definition, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/plans", nil)
	if err != nil {
		return nil, fmt.Errorf("initiator: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	var out struct {
		Plans []plan.Definition `json:"plans"`
	}
	if err := c.do(httpReq, &out); err != nil {
		return nil, err
	}
	return out.Plans, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("initiator: send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("initiator: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		_ = json.Unmarshal(raw, &body)
		if body.Error == "" {
			body.Error = http.StatusText(resp.StatusCode)
		}
		return &RemoteError{Status: resp.StatusCode, Code: body.Code, Message: body.Error}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("initiator: decode response: %w", err)
	}
	return nil
}
