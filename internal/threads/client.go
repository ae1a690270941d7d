// Package threads is a minimal client for the Threads Graph API surface the
// publish pipeline needs: the two-step container publish protocol and the
// post insights fetch. It deliberately implements nothing else — platform
// semantics beyond driving the state machine are out of scope.
//
// Error semantics: any non-2xx response is returned as an error carrying the
// verbatim response body, which ends up stored on the publication row for
// operator diagnosis.
package threads

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production Threads Graph API endpoint.
const DefaultBaseURL = "https://graph.threads.net/v1.0"

// PlatformName is the Publication.Platform value this client serves.
const PlatformName = "threads"

// Metrics are the engagement counters returned by the insights endpoint,
// already mapped to our naming (replies→comments, reposts→shares happens in
// the service layer).
type Metrics struct {
	Likes   int `json:"like_count"`
	Replies int `json:"replies_count"`
	Reposts int `json:"reposts_count"`
	Views   int `json:"views"`
}

// Client talks to the Threads Graph API. The zero value is not usable; use
// NewClient. Safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient builds a Client against baseURL (DefaultBaseURL when empty).
// The timeout applies per call; zero means 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// CreateContainer stages text content on the platform and returns the
// container id. This is step one of the two-step publish protocol; nothing
// is visible to users until the container is published.
func (c *Client) CreateContainer(ctx context.Context, accessToken, threadsUserID, text string) (string, error) {
	q := url.Values{}
	q.Set("media_type", "TEXT")
	q.Set("text", text)
	q.Set("access_token", accessToken)

	var out struct {
		ID string `json:"id"`
	}
	endpoint := fmt.Sprintf("%s/%s/threads", c.baseURL, threadsUserID)
	if err := c.post(ctx, endpoint, q, &out); err != nil {
		return "", fmt.Errorf("create threads container: %w", err)
	}
	return out.ID, nil
}

// PublishContainer confirms a previously created container and returns the
// platform-assigned post id. This is step two of the publish protocol.
func (c *Client) PublishContainer(ctx context.Context, accessToken, threadsUserID, containerID string) (string, error) {
	q := url.Values{}
	q.Set("creation_id", containerID)
	q.Set("access_token", accessToken)

	var out struct {
		ID string `json:"id"`
	}
	endpoint := fmt.Sprintf("%s/%s/threads_publish", c.baseURL, threadsUserID)
	if err := c.post(ctx, endpoint, q, &out); err != nil {
		return "", fmt.Errorf("publish threads container: %w", err)
	}
	return out.ID, nil
}

// FetchMetrics returns current engagement counters for a published post.
func (c *Client) FetchMetrics(ctx context.Context, accessToken, postID string) (*Metrics, error) {
	q := url.Values{}
	q.Set("fields", "id,permalink,like_count,replies_count,reposts_count,views")
	q.Set("access_token", accessToken)

	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, postID, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var m Metrics
	if err := c.do(req, &m); err != nil {
		return nil, fmt.Errorf("fetch threads metrics: %w", err)
	}
	return &m, nil
}

// PostURL derives the public URL for a published post.
func PostURL(threadsUserID, postID string) string {
	return fmt.Sprintf("https://www.threads.net/@%s/post/%s", threadsUserID, postID)
}

// post issues a query-parameterized POST (the Graph API convention) and
// decodes the JSON response into out.
func (c *Client) post(ctx context.Context, endpoint string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// do executes the request, surfaces non-2xx bodies verbatim, and decodes
// successful responses into out.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("threads api status %d: %s", resp.StatusCode, string(body))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}
