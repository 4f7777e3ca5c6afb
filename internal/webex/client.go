package webex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/adenin-connectors/webex-teams/internal/models"
	"github.com/adenin-connectors/webex-teams/internal/ratelimit"
)

const maxBodyBytes = 1 << 20

// Config holds client connection settings
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks to the Webex Teams REST API. Retry, auth and base-URL
// concerns live here so the aggregator only sees typed records and errors.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	limiter ratelimit.RateLimiter
}

// New creates a Webex API client
func New(cfg Config, limiter ratelimit.RateLimiter) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// WithToken returns a copy of the client authenticated as a different user.
// Used for per-request credential pass-through from the host.
func (c *Client) WithToken(token string) *Client {
	copied := *c
	copied.token = token
	return &copied
}

// Token returns the bearer token the client authenticates with
func (c *Client) Token() string {
	return c.token
}

// listEnvelope is the {"items": [...]} wrapper the list endpoints use
type listEnvelope[T any] struct {
	Items []T `json:"items"`
}

// ListRooms returns the caller's rooms
func (c *Client) ListRooms(ctx context.Context) ([]models.Room, error) {
	var envelope listEnvelope[models.Room]
	if err := c.get(ctx, "/rooms", &envelope); err != nil {
		return nil, err
	}
	return envelope.Items, nil
}

// ListMessages returns a room's messages, newest first. A max of 0 leaves
// the page size to the API default.
func (c *Client) ListMessages(ctx context.Context, roomID string, max int) ([]models.RawMessage, error) {
	path := "/messages?roomId=" + url.QueryEscape(roomID)
	if max > 0 {
		path += "&max=" + strconv.Itoa(max)
	}

	var envelope listEnvelope[models.RawMessage]
	if err := c.get(ctx, path, &envelope); err != nil {
		return nil, err
	}
	return envelope.Items, nil
}

// GetMe returns the caller's own person record
func (c *Client) GetMe(ctx context.Context) (models.Person, error) {
	var person models.Person
	err := c.get(ctx, "/people/me", &person)
	return person, err
}

// GetPerson returns a person record. A non-2xx response comes back as a
// *models.ErrorSignal in err, never a panic; callers decide whether that
// is fatal.
func (c *Client) GetPerson(ctx context.Context, id string) (models.Person, error) {
	var person models.Person
	err := c.get(ctx, "/people/"+url.PathEscape(id), &person)
	return person, err
}

// Ping probes the rooms endpoint and reports whether the API answered 200
func (c *Client) Ping(ctx context.Context) bool {
	req, err := c.newRequest(ctx, "/rooms")
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	return resp.StatusCode == http.StatusOK
}

func (c *Client) newRequest(ctx context.Context, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return req, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	if c.limiter != nil {
		c.limiter.Wait(hostOf(c.baseURL))
	}

	req, err := c.newRequest(ctx, path)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &models.ErrorSignal{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	return nil
}

func hostOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}
	return u.Host
}
