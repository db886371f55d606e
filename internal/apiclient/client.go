// Package apiclient talks to the school REST backend on behalf of a portal
// session. It attaches the bearer token, refreshes it once on 401, and turns
// every failure into an *APIError that FormatError can render.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/yigit/schoolportal/internal/app/models"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

const (
	refreshPath = "/auth/refresh"

	// maxBodySize caps how much of an upstream body is read
	maxBodySize = 10 << 20
)

// Credentials is the token holder a call runs as. The session package
// provides the implementation; tests use an in-memory one.
type Credentials interface {
	// Key identifies the holder; concurrent refreshes with the same key
	// are coalesced into one.
	Key() string
	AccessToken() string
	RefreshToken() string
	// SetTokens persists a refreshed pair. An empty refresh token keeps the
	// current one.
	SetTokens(ctx context.Context, pair models.TokenPair) error
	// Clear wipes the access token, refresh token and cached user.
	Clear(ctx context.Context) error
}

// Reloader is implemented by holders whose tokens another process may have
// rotated, such as a session shared by several portal requests. It is called
// before deciding whether a refresh is still needed.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Config for the upstream client
type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the transport, mainly for tests
	HTTPClient *http.Client
}

// Client is safe for concurrent use by all sessions
type Client struct {
	baseURL   string
	http      *http.Client
	logger    zerolog.Logger
	refreshes singleflight.Group
}

// New creates a Client
func New(cfg Config, lgr zerolog.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		logger:  lgr.With().Str("component", "apiclient").Logger(),
	}
}

// BaseURL returns the upstream base URL
func (c *Client) BaseURL() string { return c.baseURL }

// For binds the client to a credential holder. A nil holder makes
// anonymous calls (login, register).
func (c *Client) For(creds Credentials) *API {
	return &API{client: c, creds: creds}
}

// API is a Client bound to one credential holder. The per resource
// wrappers hang off it.
type API struct {
	client *Client
	creds  Credentials
}

// request is kept as bytes so it can be replayed after a refresh
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

func jsonRequest(method, path string, payload interface{}) (*request, error) {
	req := &request{method: method, path: path}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		req.body = body
		req.contentType = "application/json"
	}
	return req, nil
}

// do runs req for the bound credentials and returns the raw response body
// of a 2xx answer.
func (a *API) do(ctx context.Context, req *request) ([]byte, error) {
	c := a.client
	access := ""
	if a.creds != nil {
		access = a.creds.AccessToken()
	}

	status, body, err := c.send(ctx, access, req)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && a.creds != nil && req.path != refreshPath {
		if err := c.refresh(ctx, a.creds, access); err != nil {
			c.logger.Info().Err(err).Str("path", req.path).Msg("Token refresh failed, clearing session")
			if clearErr := a.creds.Clear(ctx); clearErr != nil {
				c.logger.Error().Err(clearErr).Msg("Failed to clear session after refresh failure")
			}
			return nil, fmt.Errorf("%w: %v", apperrors.ErrSessionExpired, err)
		}

		// Replay exactly once with whatever token is current now
		status, body, err = c.send(ctx, a.creds.AccessToken(), req)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			c.logger.Info().Str("path", req.path).Msg("Replayed request still unauthorized, clearing session")
			if clearErr := a.creds.Clear(ctx); clearErr != nil {
				c.logger.Error().Err(clearErr).Msg("Failed to clear session after replay")
			}
			return nil, apperrors.ErrSessionExpired
		}
	}

	if status < 200 || status >= 300 {
		return nil, newAPIError(status, body)
	}
	return body, nil
}

// send performs one HTTP exchange
func (c *Client) send(ctx context.Context, access string, req *request) (int, []byte, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var reader io.Reader
	if req.body != nil {
		reader = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if access != "" {
		httpReq.Header.Set("Authorization", "Bearer "+access)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", req.method).Str("path", req.path).Msg("Upstream request failed")
		return 0, nil, newNetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, newNetworkError(err)
	}

	c.logger.Debug().
		Str("method", req.method).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Upstream call")

	return resp.StatusCode, body, nil
}

// refresh exchanges the refresh token for a new access token. Callers that
// hit 401 at the same time share one exchange. stale is the access token the
// failed request carried: if the holder already has a different one, some
// other request refreshed in the meantime and nothing is sent.
func (c *Client) refresh(ctx context.Context, creds Credentials, stale string) error {
	if current := creds.AccessToken(); current != "" && current != stale {
		return nil
	}

	_, err, _ := c.refreshes.Do(creds.Key(), func() (interface{}, error) {
		if r, ok := creds.(Reloader); ok {
			if err := r.Reload(context.WithoutCancel(ctx)); err != nil {
				c.logger.Debug().Err(err).Msg("Failed to reload credentials before refresh")
			}
		}
		if current := creds.AccessToken(); current != "" && current != stale {
			return nil, nil
		}

		refreshToken := creds.RefreshToken()
		if refreshToken == "" {
			return nil, apperrors.ErrNoRefreshToken
		}

		// Detached from the caller so one cancelled page load does not fail
		// every request waiting on this refresh.
		rctx := context.WithoutCancel(ctx)
		req, err := jsonRequest(http.MethodPost, refreshPath, map[string]string{"refresh_token": refreshToken})
		if err != nil {
			return nil, err
		}
		status, body, err := c.send(rctx, "", req)
		if err != nil {
			return nil, err
		}
		if status < 200 || status >= 300 {
			return nil, newAPIError(status, body)
		}

		pair, err := decodeItem[models.TokenPair](body, "")
		if err != nil {
			return nil, err
		}
		if pair.AccessToken == "" {
			return nil, apperrors.ErrInvalidTokenPair
		}
		if err := creds.SetTokens(rctx, pair); err != nil {
			return nil, fmt.Errorf("failed to store refreshed tokens: %w", err)
		}
		c.logger.Info().Str("session", shortKey(creds.Key())).Msg("Access token refreshed")
		return nil, nil
	})
	return err
}

func shortKey(key string) string {
	if len(key) > 8 {
		return key[:8]
	}
	return key
}

// IsSessionExpired reports whether err means the user must log in again
func IsSessionExpired(err error) bool {
	return errors.Is(err, apperrors.ErrSessionExpired)
}

// Ping reports whether the backend answers at all. Any HTTP status counts
// as reachable; only transport failures are returned.
func (c *Client) Ping(ctx context.Context) (int, error) {
	status, _, err := c.send(ctx, "", &request{method: http.MethodGet, path: "/"})
	return status, err
}
