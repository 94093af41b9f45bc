// Package tokencache is the single authority for credential freshness. It
// loads the persisted token, refreshes it through the OAuth2 endpoint when
// the expiry safety margin is reached, persists rotated refresh tokens
// before handing tokens out, and coalesces concurrent refreshes into one
// network call.
package tokencache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/tonimelisma/outlook-mcp/internal/graph"
	"github.com/tonimelisma/outlook-mcp/internal/tokenfile"
)

// ExpiryMargin is how long before the recorded expiry a token is treated as
// stale. Requests in flight when the token expires server-side would fail,
// so tokens are refreshed this far ahead.
const ExpiryMargin = 5 * time.Minute

// refreshKey is the singleflight key shared by expiry-triggered and
// gateway-forced refreshes so they never race.
const refreshKey = "refresh"

// Cache implements graph.TokenSource on top of a token file and an OAuth2
// refresh endpoint.
type Cache struct {
	path   string
	cfg    *oauth2.Config
	logger *slog.Logger

	// now is the clock, overridable in tests.
	now func() time.Time

	mu     sync.Mutex
	tok    *oauth2.Token
	meta   map[string]string
	loaded bool

	group singleflight.Group
}

// New creates a cache backed by the token file at path. The oauth2 config
// supplies the refresh endpoint and client id.
func New(path string, cfg *oauth2.Config, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}

	return &Cache{
		path:   path,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Token returns a valid access token, refreshing silently when the recorded
// expiry is within ExpiryMargin. Returns graph.ErrNotAuthenticated when no
// usable credential state exists and graph.ErrReauthRequired when the grant
// has been revoked.
func (c *Cache) Token(ctx context.Context) (string, error) {
	tok, err := c.currentToken()
	if err != nil {
		return "", err
	}

	if c.fresh(tok) {
		return tok.AccessToken, nil
	}

	return c.refresh(ctx, "")
}

// ForceRefresh discards the given stale access token and returns a fresh
// one, even when the stale token's recorded expiry still looks valid (the
// server is the authority; a 401 on an unexpired token means the grant
// changed out-of-band). If another caller already rotated past the stale
// token, the current token is returned without a network call. Shares the
// refresh flight with Token so a 401 burst produces a single refresh.
func (c *Cache) ForceRefresh(ctx context.Context, stale string) (string, error) {
	c.mu.Lock()

	if c.loaded && c.tok != nil && c.tok.AccessToken != stale && c.fresh(c.tok) {
		current := c.tok.AccessToken
		c.mu.Unlock()

		return current, nil
	}
	c.mu.Unlock()

	return c.refresh(ctx, stale)
}

// Meta returns the cached account metadata from the token file.
func (c *Cache) Meta() (map[string]string, error) {
	if _, err := c.currentToken(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.meta, nil
}

// Invalidate drops the in-memory copy so the next call rereads the token
// file. The watcher calls this when the file changes externally.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loaded = false
	c.tok = nil
	c.meta = nil
}

// currentToken returns the in-memory token, loading from disk on first use.
// A corrupt file is logged and treated as absent, never a startup failure.
func (c *Cache) currentToken() (*oauth2.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		tok, meta, err := tokenfile.Load(c.path)
		if err != nil {
			if !errors.Is(err, tokenfile.ErrCorrupt) {
				return nil, err
			}

			c.logger.Warn("token file is corrupt, treating as absent",
				slog.String("path", c.path),
				slog.String("error", err.Error()),
			)

			tok, meta = nil, nil
		}

		c.tok = tok
		c.meta = meta
		c.loaded = true
	}

	if c.tok == nil {
		return nil, graph.ErrNotAuthenticated
	}

	return c.tok, nil
}

// fresh reports whether the token's expiry is more than ExpiryMargin away.
// A zero expiry means the provider did not report one; treat as fresh.
func (c *Cache) fresh(tok *oauth2.Token) bool {
	if tok.AccessToken == "" {
		return false
	}

	if tok.Expiry.IsZero() {
		return true
	}

	return tok.Expiry.After(c.now().Add(ExpiryMargin))
}

// refresh coalesces concurrent callers onto one token endpoint round trip.
// stale is the access token the caller knows to be unusable; empty for
// expiry-triggered refreshes.
func (c *Cache) refresh(ctx context.Context, stale string) (string, error) {
	v, err, _ := c.group.Do(refreshKey, func() (any, error) {
		return c.doRefresh(ctx, stale)
	})
	if err != nil {
		return "", err
	}

	tok, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("tokencache: unexpected refresh result type %T", v)
	}

	return tok, nil
}

// doRefresh performs one refresh round trip. On success the rotated state is
// persisted before any caller sees the new token. invalid_grant clears the
// persisted state; transient failures leave it untouched.
func (c *Cache) doRefresh(ctx context.Context, stale string) (string, error) {
	old, err := c.currentToken()
	if err != nil {
		return "", err
	}

	// Another flight may have finished between the caller's staleness check
	// and this one. The recorded expiry is not trusted when the token on hand
	// is the one the server just rejected: a grant revoked out-of-band returns
	// 401 while the expiry still looks valid, and skipping the refresh here
	// would hand the rejected token straight back.
	if c.fresh(old) && old.AccessToken != stale {
		return old.AccessToken, nil
	}

	if old.RefreshToken == "" {
		c.logger.Warn("stale token has no refresh token, clearing state")
		c.clearState()

		return "", fmt.Errorf("%w: no refresh token available", graph.ErrReauthRequired)
	}

	c.logger.Debug("refreshing access token",
		slog.Time("old_expiry", old.Expiry),
	)

	// Hand the oauth2 package only the refresh token so it always performs
	// the refresh instead of reusing the stale access token.
	src := c.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: old.RefreshToken})

	newTok, err := src.Token()
	if err != nil {
		return "", c.classifyRefreshError(err)
	}

	// The endpoint may rotate the refresh token or omit it entirely; an
	// omitted one means the previous refresh token stays valid.
	if newTok.RefreshToken == "" {
		newTok.RefreshToken = old.RefreshToken
	}

	c.mu.Lock()
	meta := c.meta
	c.mu.Unlock()

	if saveErr := tokenfile.Save(c.path, newTok, meta); saveErr != nil {
		return "", fmt.Errorf("tokencache: persisting refreshed token: %w", saveErr)
	}

	c.mu.Lock()
	c.tok = newTok
	c.loaded = true
	c.mu.Unlock()

	c.logger.Info("access token refreshed",
		slog.Time("new_expiry", newTok.Expiry),
		slog.Bool("refresh_token_rotated", newTok.RefreshToken != old.RefreshToken),
	)

	return newTok.AccessToken, nil
}

// classifyRefreshError maps refresh endpoint failures onto the gateway
// taxonomy. A rejected grant clears persisted state; everything else leaves
// it untouched so a later retry can succeed.
func (c *Cache) classifyRefreshError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		switch re.ErrorCode {
		case "invalid_grant", "invalid_client":
			c.logger.Warn("refresh token rejected, clearing credential state",
				slog.String("oauth_error", re.ErrorCode),
			)
			c.clearState()

			return fmt.Errorf("%w: %s", graph.ErrReauthRequired, re.ErrorCode)
		}

		if re.Response != nil {
			switch {
			case re.Response.StatusCode == http.StatusTooManyRequests:
				return fmt.Errorf("%w: token endpoint throttled", graph.ErrThrottled)
			case re.Response.StatusCode >= http.StatusInternalServerError:
				return fmt.Errorf("%w: token endpoint returned %d", graph.ErrServerError, re.Response.StatusCode)
			}
		}

		return fmt.Errorf("tokencache: refresh failed: %w", err)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("tokencache: refresh canceled: %w", err)
	}

	return fmt.Errorf("%w: refresh request: %v", graph.ErrNetwork, err)
}

// clearState removes the token file and drops the in-memory copy.
func (c *Cache) clearState() {
	if err := tokenfile.Clear(c.path); err != nil {
		c.logger.Warn("failed to clear token file",
			slog.String("path", c.path),
			slog.String("error", err.Error()),
		)
	}

	c.mu.Lock()
	c.tok = nil
	c.meta = nil
	c.loaded = true
	c.mu.Unlock()
}
