// Package apiclient is an HTTP client for the teamboard API that refreshes an
// expired session and replays the failed request once.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"teamboard-api/pkg/status"

	"github.com/sirupsen/logrus"
)

const (
	DefaultRefreshPath = "/api/v1/auth/refresh"
	DefaultLoginPath   = "/api/v1/auth/login"
	DefaultLogoutPath  = "/api/v1/auth/logout"

	defaultTimeout = 30 * time.Second
)

// Options configures a Client
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Store       SessionStore
	RefreshPath string
	// OnSessionExpired runs once per failed refresh, after the session is cleared
	OnSessionExpired func()
	Logger           logrus.FieldLogger
}

// Client sends authenticated requests. Each Client owns its refresh state.
type Client struct {
	base        *url.URL
	http        *http.Client
	store       SessionStore
	refreshPath string
	onExpired   func()
	logger      logrus.FieldLogger

	mu     sync.Mutex
	state  refreshState
	flight *flight
}

// New creates a client for the API at opts.BaseURL
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q", ErrInvalidConfig, opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	store := opts.Store
	if store == nil {
		store = NewMemoryStore()
	}
	refreshPath := opts.RefreshPath
	if refreshPath == "" {
		refreshPath = DefaultRefreshPath
	}
	log := opts.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	return &Client{
		base:        base,
		http:        httpClient,
		store:       store,
		refreshPath: refreshPath,
		onExpired:   opts.OnSessionExpired,
		logger:      log,
		state:       stateIdle,
	}, nil
}

// Session returns the current session
func (c *Client) Session() (Session, bool) {
	return c.store.Load()
}

// NewRequest builds a request against the base URL with an optional JSON body
func (c *Client) NewRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Do sends req with the current access token. A 401 carrying TOKEN_EXPIRED,
// or no code at all, triggers one shared refresh and a single replay. When the
// refresh fails the original 401 response is returned.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := bufferBody(req); err != nil {
		return nil, err
	}

	resp, err := c.send(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	if !c.retryable(req) {
		return resp, nil
	}

	code, err := peekErrorCode(resp)
	if err != nil {
		return resp, nil
	}
	if code != "" && code != status.CodeTokenExpired {
		return resp, nil
	}

	stale := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
	if err := c.refresh(req.Context(), stale); err != nil {
		c.logger.WithError(err).WithField("path", req.URL.Path).Debug("Refresh failed, returning original response")
		return resp, nil
	}

	replay, err := replayRequest(req)
	if err != nil {
		return resp, nil
	}
	drainAndClose(resp)
	return c.send(replay)
}

// DoJSON sends a request and decodes a 2xx body into out. Non-2xx responses
// become *APIError.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out any) error {
	req, err := c.NewRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

// send attaches the bearer token and performs the round trip
func (c *Client) send(req *http.Request) (*http.Response, error) {
	if s, ok := c.store.Load(); ok && s.AccessToken != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	}
	return c.http.Do(req)
}

// retryable reports whether a 401 on req may be answered with a refresh
func (c *Client) retryable(req *http.Request) bool {
	ctx := req.Context()
	return !isRetried(ctx) && !skipsRetry(ctx) && req.URL.Path != c.base.Path+c.refreshPath
}

// bufferBody makes the body readable a second time for the replay
func bufferBody(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody || req.GetBody != nil {
		return nil
	}
	payload, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("buffer request body: %w", err)
	}
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(payload))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(payload)), nil
	}
	return nil
}

// replayRequest clones req marked as retried, without the stale Authorization header
func replayRequest(req *http.Request) (*http.Request, error) {
	replay := req.Clone(withRetried(req.Context()))
	replay.Header.Del("Authorization")
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		replay.Body = body
	}
	return replay, nil
}

// peekErrorCode reads the error envelope code and restores the body
func peekErrorCode(resp *http.Response) (status.Code, error) {
	payload, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	var envelope status.ErrorEnvelope
	if len(bytes.TrimSpace(payload)) == 0 || json.Unmarshal(payload, &envelope) != nil {
		return "", nil
	}
	return envelope.Error.Code, nil
}

func decodeResponse(resp *http.Response, out any) error {
	defer drainAndClose(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope status.ErrorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
