package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrUnexpectedStatus = errors.New("unexpected status code")

// StatusError is returned when the analytics API answers with a non-200
// status.
type StatusError struct {
	Code   int
	URL    string
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unexpected status code %d for url %s: %s", e.Code, e.URL, e.Detail)
	}
	return fmt.Sprintf("unexpected status code %d for url %s", e.Code, e.URL)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Client talks to the parking analytics API.
type Client struct {
	baseURL  *url.URL
	apiKey   string
	client   *http.Client
	location *time.Location
}

// NewClient creates a client for the API rooted at baseURL. Naive backend
// timestamps are read in loc.
func NewClient(baseURL, apiKey string, timeout time.Duration, loc *time.Location) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	if loc == nil {
		loc = time.Local
	}

	return &Client{
		baseURL:  u,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		location: loc,
	}, nil
}

func (c *Client) Summary(ctx context.Context, f Filter) (*Summary, error) {
	q := f.Query()
	if f.GroupBy != "" {
		q.Set("group_by", string(f.GroupBy))
	}

	var out Summary
	if err := c.getJSON(ctx, "/parking_violations/summary", q, &out); err != nil {
		return nil, fmt.Errorf("fetching violation summary: %w", err)
	}

	return &out, nil
}

func (c *Client) Events(ctx context.Context, f Filter, p PageRequest) (*EventsPage, error) {
	q := f.Query()
	p.apply(q)
	if f.ViolationOnly {
		q.Set("is_violation_only", "true")
	}

	var out EventsPage
	if err := c.getJSON(ctx, "/parking_violations/events", q, &out); err != nil {
		return nil, fmt.Errorf("fetching violation events: %w", err)
	}

	for i := range out.Events {
		out.Events[i].localize(c.location)
	}

	return &out, nil
}

// Branches lists violation counts per branch. The branch filter does not
// apply to this endpoint.
func (c *Client) Branches(ctx context.Context, f Filter, p PageRequest) (*BranchesPage, error) {
	f.BranchID = ""
	q := f.Query()
	p.apply(q)

	var out BranchesPage
	if err := c.getJSON(ctx, "/parking_violations/all_branches", q, &out); err != nil {
		return nil, fmt.Errorf("fetching branch violations: %w", err)
	}

	return &out, nil
}

// Download fetches an arbitrary resource, typically an evidence image, with
// the client's credentials. The caller closes the body.
func (c *Client) Download(ctx context.Context, rawURL string) (*http.Response, error) {
	target, err := c.baseURL.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}

	resp, err := c.do(ctx, target)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, URL: target.String()}
	}

	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	target := c.baseURL.JoinPath(path)
	target.RawQuery = q.Encode()

	resp, err := c.do(ctx, target)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, URL: target.String(), Detail: readDetail(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, target *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	return resp, nil
}

// readDetail extracts FastAPI's {"detail": ...} error message, if any.
func readDetail(r io.Reader) string {
	var body struct {
		Detail any `json:"detail"`
	}

	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&body); err != nil || body.Detail == nil {
		return ""
	}

	if s, ok := body.Detail.(string); ok {
		return s
	}

	b, _ := json.Marshal(body.Detail)
	return string(b)
}
