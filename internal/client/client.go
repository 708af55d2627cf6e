// Package client is the dashboard's view of the admin API. It holds the
// access gate state of one dashboard session and exposes one call per
// resource; the selected user or group is always passed explicitly.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"moment-admin-backend/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// State is the access gate state of a dashboard session
type State int

const (
	Locked State = iota
	Unlocked
)

func (s State) String() string {
	if s == Unlocked {
		return "unlocked"
	}
	return "locked"
}

var (
	// ErrLocked is returned by data calls made before Unlock or after Logout
	ErrLocked = errors.New("dashboard is locked")
	// ErrInvalidPassword is returned when the server rejects the password
	ErrInvalidPassword = errors.New("invalid password")
)

// APIError is a non-success response from the admin API
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("admin api: %d %s", e.StatusCode, e.Message)
}

// Client talks to the admin API on behalf of one dashboard session
type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	state State
	token string
}

// New creates a locked client for the API at baseURL
func New(baseURL string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &Client{http: httpClient}
}

// State returns the current gate state
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Unlock submits the shared password. On success the session becomes
// Unlocked; on any failure it stays as it was.
func (c *Client) Unlock(ctx context.Context, password string) error {
	var result struct {
		OK    bool   `json:"ok"`
		Token string `json:"token"`
	}
	apiErr := &APIError{}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"password": password}).
		SetResult(&result).
		SetError(apiErr).
		Post("/api/admin/verify")
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}

	if resp.IsError() {
		if resp.StatusCode() == http.StatusUnauthorized {
			return ErrInvalidPassword
		}
		apiErr.StatusCode = resp.StatusCode()
		return apiErr
	}

	c.mu.Lock()
	c.state = Unlocked
	c.token = result.Token
	c.mu.Unlock()

	return nil
}

// Logout locks the session and forgets its token. The token and gate
// state are all the client holds: selections are passed per call, so
// there is no other view state to clear.
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Locked
	c.token = ""
}

// Users fetches every user with their counts
func (c *Client) Users(ctx context.Context) ([]models.UserWithStats, error) {
	var users []models.UserWithStats
	if err := c.get(ctx, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UserDetail fetches the posts, friends and groups of userID
func (c *Client) UserDetail(ctx context.Context, userID string) (*models.UserDetail, error) {
	var detail models.UserDetail
	err := c.get(ctx, "/api/users/{userId}", map[string]string{"userId": userID}, &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// Metrics fetches the weekly metrics
func (c *Client) Metrics(ctx context.Context) (*models.Metrics, error) {
	var metrics models.Metrics
	if err := c.get(ctx, "/api/metrics", nil, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

// BetaGroups fetches every beta group
func (c *Client) BetaGroups(ctx context.Context) ([]models.BetaGroup, error) {
	var groups []models.BetaGroup
	if err := c.get(ctx, "/api/beta-groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// BetaGroup fetches the joined and pending members of groupID
func (c *Client) BetaGroup(ctx context.Context, groupID string) (*models.BetaGroupDetail, error) {
	var detail models.BetaGroupDetail
	err := c.get(ctx, "/api/beta-groups/{groupId}", map[string]string{"groupId": groupID}, &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out any) error {
	c.mu.RLock()
	state, token := c.state, c.token
	c.mu.RUnlock()

	if state != Unlocked {
		return ErrLocked
	}

	apiErr := &APIError{}
	req := c.http.R().
		SetContext(ctx).
		SetPathParams(params).
		SetResult(out).
		SetError(apiErr)
	if token != "" {
		req.SetAuthToken(token)
	}

	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", path, err)
	}

	if resp.IsError() {
		apiErr.StatusCode = resp.StatusCode()
		return apiErr
	}

	return nil
}
