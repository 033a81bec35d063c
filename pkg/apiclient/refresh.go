package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// refreshState is the client's refresh state machine
type refreshState int

const (
	stateIdle refreshState = iota
	stateRefreshing
)

func (s refreshState) String() string {
	if s == stateRefreshing {
		return "refreshing"
	}
	return "idle"
}

// flight is one refresh attempt shared by every request that hit a 401 while it ran
type flight struct {
	done chan struct{}
	err  error
}

type contextKey int

const (
	retriedKey contextKey = iota
	skipRetryKey
)

// WithSkipRetry marks requests made with ctx as exempt from refresh and replay
func WithSkipRetry(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipRetryKey, true)
}

func withRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey, true)
}

func isRetried(ctx context.Context) bool {
	v, _ := ctx.Value(retriedKey).(bool)
	return v
}

func skipsRetry(ctx context.Context) bool {
	v, _ := ctx.Value(skipRetryKey).(bool)
	return v
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totpCode,omitempty"`
}

// Refresh exchanges the refresh token for a new session. Callers arriving
// while a refresh is running wait for it and share its result.
func (c *Client) Refresh(ctx context.Context) error {
	return c.refresh(ctx, "")
}

// refresh runs or joins a refresh. stale is the access token the caller was
// rejected with; if the stored session changed since, the outcome of the
// refresh that changed it is reused.
func (c *Client) refresh(ctx context.Context, stale string) error {
	c.mu.Lock()
	if stale != "" && c.state == stateIdle {
		s, ok := c.store.Load()
		if !ok {
			// cleared by a refresh that already failed
			c.mu.Unlock()
			return ErrSessionExpired
		}
		if s.AccessToken != "" && s.AccessToken != stale {
			c.mu.Unlock()
			return nil
		}
	}
	if c.state == stateRefreshing {
		f := c.flight
		c.mu.Unlock()

		select {
		case <-f.done:
			return f.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f := &flight{done: make(chan struct{})}
	c.state = stateRefreshing
	c.flight = f
	c.mu.Unlock()

	// the refresh outlives a cancelled leader since others may be waiting on it
	f.err = c.exchange(context.WithoutCancel(ctx))

	if f.err != nil {
		c.store.Clear()
	}

	c.mu.Lock()
	c.state = stateIdle
	c.flight = nil
	c.mu.Unlock()
	close(f.done)

	if f.err != nil {
		c.logger.WithError(f.err).Info("Session refresh failed")
		if c.onExpired != nil {
			c.onExpired()
		}
	}
	return f.err
}

// exchange performs the refresh round trip and stores the new session
func (c *Client) exchange(ctx context.Context) error {
	current, _ := c.store.Load()

	req, err := c.NewRequest(WithSkipRetry(ctx), http.MethodPost, c.refreshPath, refreshRequest{RefreshToken: current.RefreshToken})
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("refresh request: %w", err)
	}

	var tokens tokenResponse
	if err := decodeResponse(resp, &tokens); err != nil {
		return fmt.Errorf("%w: %v", ErrRefreshRejected, err)
	}
	if tokens.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", ErrRefreshRejected)
	}

	c.saveTokens(tokens, current.RefreshToken)
	return nil
}

// Login authenticates with credentials and stores the returned session
func (c *Client) Login(ctx context.Context, email, password, totpCode string) error {
	req, err := c.NewRequest(WithSkipRetry(ctx), http.MethodPost, DefaultLoginPath, loginRequest{
		Email:    email,
		Password: password,
		TOTPCode: totpCode,
	})
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}

	var tokens tokenResponse
	if err := decodeResponse(resp, &tokens); err != nil {
		return err
	}
	c.saveTokens(tokens, "")
	return nil
}

// Logout revokes the session server side and clears it locally
func (c *Client) Logout(ctx context.Context) error {
	current, ok := c.store.Load()
	if !ok {
		return nil
	}
	defer c.store.Clear()

	return c.DoJSON(WithSkipRetry(ctx), http.MethodPost, DefaultLogoutPath, refreshRequest{RefreshToken: current.RefreshToken}, nil)
}

func (c *Client) saveTokens(tokens tokenResponse, previousRefresh string) {
	refresh := tokens.RefreshToken
	if refresh == "" {
		refresh = previousRefresh
	}
	c.store.Save(Session{
		AccessToken:  tokens.AccessToken,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second),
	})
}
