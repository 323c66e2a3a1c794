// Package api is a client for the drills REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ayoisaiah/drills/internal/models"
	"github.com/ayoisaiah/drills/internal/view"
)

// DefaultTimeout bounds every request unless the context is shorter.
const DefaultTimeout = 10 * time.Second

// Client talks to one backend. It is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New returns a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errInvalidBaseURL.Fmt(baseURL)
	}

	c := &Client{
		base:    u,
		http:    http.DefaultClient,
		logger:  slog.New(slog.DiscardHandler),
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User

	err := c.do(ctx, http.MethodGet, pathListUsers, nil, &users)

	return users, err
}

func (c *Client) CreateUser(
	ctx context.Context,
	req models.CreateUser,
) (models.User, error) {
	var user models.User

	if err := validateUser(req.FirstName, req.LastName); err != nil {
		return user, err
	}

	err := c.do(ctx, http.MethodPost, pathCreateUser, req, &user)

	return user, err
}

func (c *Client) UpdateUser(
	ctx context.Context,
	req models.UpdateUser,
) (models.User, error) {
	var resp models.UpdateUserResponse

	if err := validateID("user", req.UserID); err != nil {
		return resp.User, err
	}

	if err := validateUser(req.FirstName, req.LastName); err != nil {
		return resp.User, err
	}

	err := c.do(ctx, http.MethodPatch, pathUpdateUser, req, &resp)

	return resp.User, err
}

func (c *Client) DeleteUser(ctx context.Context, userID int) error {
	if err := validateID("user", userID); err != nil {
		return err
	}

	return c.do(
		ctx,
		http.MethodDelete,
		pathDeleteUser,
		models.DeleteUser{UserID: userID},
		nil,
	)
}

func (c *Client) ListDrills(ctx context.Context) ([]models.Drill, error) {
	var drills []models.Drill

	err := c.do(ctx, http.MethodGet, pathListDrills, nil, &drills)

	return drills, err
}

func (c *Client) CreateDrill(
	ctx context.Context,
	req models.CreateDrill,
) (models.Drill, error) {
	var drill models.Drill

	if err := validateDrill(req.Title, req.PricePerMinute); err != nil {
		return drill, err
	}

	err := c.do(ctx, http.MethodPost, pathCreateDrill, req, &drill)

	return drill, err
}

func (c *Client) UpdateDrill(
	ctx context.Context,
	req models.UpdateDrill,
) (models.Drill, error) {
	var resp models.DrillResponse

	if err := validateID("drill", req.DrillID); err != nil {
		return resp.Drill, err
	}

	if err := validateDrill(req.Title, req.PricePerMinute); err != nil {
		return resp.Drill, err
	}

	err := c.do(ctx, http.MethodPatch, pathUpdateDrill, req, &resp)

	return resp.Drill, err
}

func (c *Client) DeleteDrill(ctx context.Context, drillID int) error {
	if err := validateID("drill", drillID); err != nil {
		return err
	}

	return c.do(
		ctx,
		http.MethodDelete,
		pathDeleteDrill,
		models.DeleteDrill{DrillID: drillID},
		nil,
	)
}

// StartDrill opens a session on the drill for every user in req.
func (c *Client) StartDrill(
	ctx context.Context,
	req models.StartStop,
) (models.Drill, error) {
	return c.startStop(ctx, pathStartDrill, req)
}

// StopDrill closes the active sessions of every user in req.
func (c *Client) StopDrill(
	ctx context.Context,
	req models.StartStop,
) (models.Drill, error) {
	return c.startStop(ctx, pathStopDrill, req)
}

func (c *Client) startStop(
	ctx context.Context,
	path string,
	req models.StartStop,
) (models.Drill, error) {
	var resp models.DrillResponse

	if err := validateStartStop(req); err != nil {
		return resp.Drill, err
	}

	err := c.do(ctx, http.MethodPost, path, req, &resp)

	return resp.Drill, err
}

// ListSessions returns the sessions selected by f.
func (c *Client) ListSessions(
	ctx context.Context,
	f view.Filter,
) ([]models.UserDrill, error) {
	path := pathListSessions

	switch f {
	case view.FilterActive:
		path = pathActiveSessions
	case view.FilterCompleted:
		path = pathCompletedSessions
	}

	var sessions []models.UserDrill

	err := c.do(ctx, http.MethodGet, path, nil, &sessions)

	return sessions, err
}

func (c *Client) DeleteSession(ctx context.Context, userID, drillID int) error {
	if err := validateID("user", userID); err != nil {
		return err
	}

	if err := validateID("drill", drillID); err != nil {
		return err
	}

	return c.do(
		ctx,
		http.MethodDelete,
		pathDeleteSession,
		models.DeleteUserDrill{UserID: userID, DrillID: drillID},
		nil,
	)
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	in, out any,
) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.base.JoinPath(path).String()

	var body []byte

	if in != nil {
		var err error

		body, err = json.Marshal(in)
		if err != nil {
			return errRequest.Fmt(path).Wrap(err)
		}
	}

	req, err := http.NewRequestWithContext(
		ctx,
		method,
		endpoint,
		bytes.NewReader(body),
	)
	if err != nil {
		return errRequest.Fmt(path).Wrap(err)
	}

	req.Header.Set("Accept", "application/json")

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()

	c.logger.DebugContext(
		ctx,
		"api request",
		slog.String("method", method),
		slog.String("url", endpoint),
		slog.Int("body_size", len(body)),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return errRequest.Fmt(path).Wrap(err)
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errRequest.Fmt(path).Wrap(err)
	}

	c.logger.DebugContext(
		ctx,
		"api response",
		slog.String("method", method),
		slog.String("url", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(data)),
		}

		c.logger.WarnContext(ctx, "api error", slog.String("detail", apiErr.Detail()))

		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return errDecode.Fmt(path).Wrap(err)
	}

	return nil
}

// IsStatus reports whether err is an API error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == status
	}

	return false
}
