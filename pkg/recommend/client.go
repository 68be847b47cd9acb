package recommend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/vanderheijden86/unimatch/pkg/debug"
	"github.com/vanderheijden86/unimatch/pkg/insights"
)

// DefaultTimeout bounds a single recommend call.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 4 << 10

// RequestIDHeader carries a per-call id the recommender can log.
const RequestIDHeader = "X-Request-ID"

// APIError is a non-2xx answer from the recommender.
type APIError struct {
	Status    int
	Body      string
	RequestID string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("recommender returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("recommender returned %d: %s", e.Status, body)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout. 0 keeps DefaultTimeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Client calls the recommender API.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// NewClient returns a client for the recommender at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL for level.
func (c *Client) Endpoint(level string) string {
	return c.baseURL + "/recommend/" + level
}

// Recommend posts p and returns the decoded ai_insights. An answer without
// ai_insights yields an empty, non-nil result.
func (c *Client) Recommend(ctx context.Context, p Profile) (*insights.Result, error) {
	defer debug.LogEnterExit("recommend.Recommend")()

	payload, err := p.Payload()
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding profile: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(p.Level), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	reqID := uuid.New().String()
	req.Header.Set(RequestIDHeader, reqID)
	debug.Log("recommend: POST %s (request %s)", req.URL, reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling recommender: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{Status: resp.StatusCode, Body: string(msg), RequestID: reqID}
	}

	res, err := insights.Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &insights.Result{}
	}
	if res.StudentLevel == "" {
		res.StudentLevel = LevelLabel(p.Level)
	}
	debug.Log("recommend: %s -> %d analysed courses", p.Level, res.Len())
	return res, nil
}
