package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"taskdeck/pkg/domain"
)

// Session is the credential source and sink the client works against. The
// concrete implementation owns token persistence; the client only reads the
// current tokens and reports new or dead ones. Implementations must be safe
// for concurrent use.
type Session interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(access, refresh string) error
	Clear() error
}

// Client is the taskdeck API client. Every call goes through a single
// pipeline that attaches the session's bearer token, intercepts 401
// responses, performs at most one transparent token refresh, and retries the
// original request once. Safe for concurrent use.
type Client struct {
	baseURL   string
	sess      Session
	http      *resty.Client
	refresher *resty.Client // separate transport: refresh must not intercept itself
	validate  *validator.Validate
	onExpired func()

	refreshMu sync.Mutex
	inflight  *refreshAttempt
}

// refreshAttempt is the shared handle for an in-flight token refresh.
// Concurrent 401 handlers wait on done instead of issuing their own refresh
// call; err is written before done is closed.
type refreshAttempt struct {
	done chan struct{}
	err  error
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets a static API key header sent on every request, including
// refresh calls.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		if key != "" {
			c.http.SetHeader("X-API-Key", key)
			c.refresher.SetHeader("X-API-Key", key)
		}
	}
}

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
		c.refresher.SetTimeout(d)
	}
}

// WithOnSessionExpired registers a callback invoked after an unrecoverable
// session failure, once the session has been cleared. This is the "redirect
// to login" hook for the embedding UI.
func WithOnSessionExpired(fn func()) Option {
	return func(c *Client) {
		c.onExpired = fn
	}
}

// New creates a new API client bound to the given session.
func New(baseURL string, sess Session, opts ...Option) *Client {
	c := &Client{
		baseURL:   baseURL,
		sess:      sess,
		http:      resty.New().SetBaseURL(baseURL).SetTimeout(30 * time.Second),
		refresher: resty.New().SetBaseURL(baseURL).SetTimeout(30 * time.Second),
		validate:  validator.New(),
	}

	// Credential attachment happens here, once, for every attempt of every
	// request. The token is re-read each time so a retry after refresh picks
	// up the new credential automatically.
	c.http.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if tok := sess.AccessToken(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		return nil
	})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API base URL the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.pipeline(ctx, func() error {
		return c.execute(ctx, method, path, body, out)
	})
}

// upload sends a multipart file through the same pipeline as JSON requests.
// The payload is buffered so the attempt can be replayed after a refresh.
func (c *Client) upload(ctx context.Context, path, field, filename string, data []byte, out any) error {
	return c.pipeline(ctx, func() error {
		req := c.http.R().
			SetContext(ctx).
			SetFileReader(field, filename, bytes.NewReader(data))
		if out != nil {
			req.SetResult(out)
		}
		resp, err := req.Post(path)
		if err != nil {
			return fmt.Errorf("do request: %w", err)
		}
		if resp.IsError() {
			return &APIError{StatusCode: resp.StatusCode(), Message: errorMessage(resp.Body())}
		}
		return nil
	})
}

// execute performs a single attempt of a JSON request.
func (c *Client) execute(ctx context.Context, method, path string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Message: errorMessage(resp.Body())}
	}
	return nil
}

// pipeline wraps a request attempt with 401 interception and single-shot
// recovery. The recovery bookkeeping lives in this call frame, so it is
// request-scoped: concurrent requests do not interfere with each other's
// retry state, and a 401 on the retried attempt is terminal.
func (c *Client) pipeline(ctx context.Context, attempt func() error) error {
	attemptTok := c.sess.AccessToken()
	err := attempt()
	if !IsStatus(err, http.StatusUnauthorized) {
		return err
	}

	// No credential at all: the server rejected an anonymous call. Nothing
	// to recover and nothing to clear.
	if c.sess.AccessToken() == "" && c.sess.RefreshToken() == "" {
		return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	// Credential was rejected and there is no way to mint a new one.
	if c.sess.RefreshToken() == "" {
		zap.L().Warn("access token rejected and no refresh token available, forcing logout")
		c.forceLogout()
		return &SessionExpiredError{Cause: err}
	}

	if rerr := c.refreshAccessToken(ctx, attemptTok); rerr != nil {
		// forceLogout already ran inside the failed refresh. Surface the
		// refresh failure, not the original 401, so callers can tell
		// "could not refresh" from a normal API error.
		return &SessionExpiredError{Cause: rerr}
	}

	return attempt()
}

// refreshAccessToken coalesces concurrent refreshes behind a single in-flight
// attempt: the first caller performs the network call, later callers wait for
// its result. N simultaneous 401s produce exactly one refresh request. A
// caller whose rejected token was already replaced by an earlier refresh
// skips the network call entirely.
func (c *Client) refreshAccessToken(ctx context.Context, staleTok string) error {
	c.refreshMu.Lock()
	if r := c.inflight; r != nil {
		c.refreshMu.Unlock()
		select {
		case <-r.done:
			return r.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if c.sess.AccessToken() != staleTok {
		c.refreshMu.Unlock()
		return nil
	}
	r := &refreshAttempt{done: make(chan struct{})}
	c.inflight = r
	c.refreshMu.Unlock()

	r.err = c.doRefresh(ctx)

	c.refreshMu.Lock()
	c.inflight = nil
	c.refreshMu.Unlock()
	close(r.done)
	return r.err
}

// doRefresh exchanges the refresh token for a new access token on the
// non-intercepted transport. Any failure is unrecoverable and clears the
// session.
func (c *Client) doRefresh(ctx context.Context) error {
	tok := c.sess.RefreshToken()
	if tok == "" {
		c.forceLogout()
		return errors.New("no refresh token")
	}

	var auth domain.AuthResponse
	resp, err := c.refresher.R().
		SetContext(ctx).
		SetBody(map[string]string{"refreshToken": tok}).
		SetResult(&auth).
		Post("/api/auth/refresh")
	if err != nil {
		c.forceLogout()
		return fmt.Errorf("refresh request: %w", err)
	}
	if resp.IsError() {
		c.forceLogout()
		return &APIError{StatusCode: resp.StatusCode(), Message: errorMessage(resp.Body())}
	}
	if auth.Token == "" {
		c.forceLogout()
		return errors.New("refresh response missing token")
	}

	next := auth.RefreshToken
	if next == "" {
		// Server did not rotate; the old refresh token stays valid.
		next = tok
	}
	if err := c.sess.SetTokens(auth.Token, next); err != nil {
		c.forceLogout()
		return fmt.Errorf("store refreshed tokens: %w", err)
	}
	zap.L().Debug("access token refreshed")
	return nil
}

// forceLogout clears the session and signals the UI to return to its login
// entry point.
func (c *Client) forceLogout() {
	if err := c.sess.Clear(); err != nil {
		zap.L().Warn("clearing session failed", zap.Error(err))
	}
	if c.onExpired != nil {
		c.onExpired()
	}
}
