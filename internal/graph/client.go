package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Retry and backoff constants. Throttle responses (429/503) get a larger
// budget because they carry Retry-After guidance; other server and network
// failures are retried once.
const (
	maxThrottleRetries = 2
	maxServerRetries   = 1
	maxNetworkRetries  = 1
	baseBackoff        = 1 * time.Second
	maxBackoff         = 60 * time.Second
	backoffFactor      = 2.0
	jitterFraction     = 0.25
	userAgent          = "outlook-mcp/0.1"
)

// BaseURL is the Microsoft Graph v1.0 endpoint.
const BaseURL = "https://graph.microsoft.com/v1.0"

// TokenSource provides OAuth2 bearer tokens. Defined at the consumer per Go
// convention "accept interfaces, return structs"; the tokencache package
// provides the real implementation.
//
// ForceRefresh discards the given stale access token and obtains a fresh one.
// It must be safe for concurrent use, and must coalesce with any in-flight
// refresh so a burst of 401s produces one network call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	ForceRefresh(ctx context.Context, stale string) (string, error)
}

// Request describes a single Graph API call. Path is either relative to the
// client's base URL ("/me/messages") or an absolute URL such as an
// @odata.nextLink, which is used verbatim.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any         // marshaled to JSON when non-nil
	Header http.Header // extra headers, e.g. Prefer
}

// Response holds a fully-read Graph API response. The body is buffered so
// callers never deal with stream lifecycles.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}

	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("graph: decoding response: %w", err)
	}

	return nil
}

// Map decodes the response body as a generic JSON object. Empty bodies
// (204/202 responses) yield an empty map.
func (r *Response) Map() (map[string]any, error) {
	out := map[string]any{}
	if err := r.Decode(&out); err != nil {
		return nil, err
	}

	return out, nil
}

// Client is the authenticated request gateway for the Microsoft Graph API.
// It attaches bearer tokens, forces one token refresh on 401, retries
// throttled and transient failures within fixed budgets, and classifies
// everything else into the package's sentinel taxonomy.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	logger     *slog.Logger

	// sleepFunc is called to wait between retries. Defaults to timeSleep.
	// Tests override this to avoid real delays.
	sleepFunc func(ctx context.Context, d time.Duration) error
}

// NewClient creates a Graph API client. baseURL is typically graph.BaseURL.
func NewClient(baseURL string, httpClient *http.Client, token TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		token:      token,
		logger:     logger,
		sleepFunc:  timeSleep,
	}
}

// BaseURL returns the endpoint the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET request for a relative path.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, header http.Header) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Header: header})
}

// Page fetches an @odata.nextLink URL through the same auth and retry path.
// The link is used verbatim; it already encodes the query state.
func (c *Client) Page(ctx context.Context, nextLink string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: nextLink})
}

// Do executes a request against the Graph API.
//
// Classification and retry policy:
//   - 401: force one token refresh through the TokenSource and retry once;
//     a second 401 is ErrUnauthorized.
//   - 429/503: honor Retry-After (seconds or HTTP-date, capped at maxBackoff),
//     retried up to maxThrottleRetries times.
//   - other 5xx and transport errors: retried up to once.
//   - remaining 4xx: never retried, classified sentinels.
//
// The request body is buffered up front so retries are safe.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	reqURL, err := c.buildURL(req)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if req.Body != nil {
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("graph: encoding request body: %w", err)
		}
	}

	var throttleRetries, serverRetries, networkRetries int

	refreshed := false

	for {
		bearer, err := c.token.Token(ctx)
		if err != nil {
			// NotAuthenticated / ReauthRequired pass through unchanged so
			// callers can tell the user what to do.
			return nil, err
		}

		resp, err := c.doOnce(ctx, req.Method, reqURL, bearer, payload, req.Header)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("graph: request canceled: %w", ctx.Err())
			}

			if networkRetries < maxNetworkRetries {
				backoff := c.calcBackoff(networkRetries)
				c.logger.Warn("retrying after network error",
					slog.String("method", req.Method),
					slog.String("path", req.Path),
					slog.Duration("backoff", backoff),
					slog.String("error", err.Error()),
				)

				if sleepErr := c.sleepFunc(ctx, backoff); sleepErr != nil {
					return nil, fmt.Errorf("graph: request canceled: %w", sleepErr)
				}

				networkRetries++

				continue
			}

			return nil, fmt.Errorf("%w: %s %s: %v", ErrNetwork, req.Method, req.Path, err)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if readErr != nil {
			if networkRetries < maxNetworkRetries {
				networkRetries++
				continue
			}

			return nil, fmt.Errorf("%w: reading response body: %v", ErrNetwork, readErr)
		}

		if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
			c.logger.Debug("request succeeded",
				slog.String("method", req.Method),
				slog.String("path", req.Path),
				slog.Int("status", resp.StatusCode),
			)

			return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
		}

		reqID := resp.Header.Get("request-id")

		switch {
		case resp.StatusCode == http.StatusUnauthorized && !refreshed:
			c.logger.Info("401 response, forcing token refresh",
				slog.String("method", req.Method),
				slog.String("path", req.Path),
			)

			if _, refreshErr := c.token.ForceRefresh(ctx, bearer); refreshErr != nil {
				return nil, refreshErr
			}

			refreshed = true

			continue

		case isThrottle(resp.StatusCode) && throttleRetries < maxThrottleRetries:
			backoff := c.retryBackoff(resp, throttleRetries)
			c.logger.Warn("retrying after throttle response",
				slog.String("method", req.Method),
				slog.String("path", req.Path),
				slog.Int("status", resp.StatusCode),
				slog.Duration("backoff", backoff),
			)

			if err := c.sleepFunc(ctx, backoff); err != nil {
				return nil, fmt.Errorf("graph: request canceled: %w", err)
			}

			throttleRetries++

			continue

		case resp.StatusCode >= http.StatusInternalServerError &&
			!isThrottle(resp.StatusCode) && serverRetries < maxServerRetries:
			backoff := c.calcBackoff(serverRetries)
			c.logger.Warn("retrying after server error",
				slog.String("method", req.Method),
				slog.String("path", req.Path),
				slog.Int("status", resp.StatusCode),
				slog.Duration("backoff", backoff),
			)

			if err := c.sleepFunc(ctx, backoff); err != nil {
				return nil, fmt.Errorf("graph: request canceled: %w", err)
			}

			serverRetries++

			continue
		}

		graphErr := newGraphError(resp.StatusCode, reqID, body)

		c.logger.Debug("request failed",
			slog.String("method", req.Method),
			slog.String("path", req.Path),
			slog.Int("status", resp.StatusCode),
			slog.String("request_id", reqID),
		)

		return nil, graphErr
	}
}

// buildURL resolves the request path against the base URL and encodes the
// query. Absolute paths (nextLink URLs) are used verbatim.
func (c *Client) buildURL(req Request) (string, error) {
	if strings.HasPrefix(req.Path, "http://") || strings.HasPrefix(req.Path, "https://") {
		if len(req.Query) > 0 {
			return "", fmt.Errorf("graph: query parameters cannot be combined with an absolute link")
		}

		return req.Path, nil
	}

	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	return u, nil
}

// doOnce executes a single HTTP request (no retry).
func (c *Client) doOnce(
	ctx context.Context,
	method, url, bearer string,
	payload []byte,
	extra http.Header,
) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("User-Agent", userAgent)

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	return c.httpClient.Do(req)
}

// retryBackoff returns the backoff duration for a throttle response,
// preferring the Retry-After header (seconds or HTTP-date) capped at
// maxBackoff.
func (c *Client) retryBackoff(resp *http.Response, attempt int) time.Duration {
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if seconds, err := strconv.Atoi(ra); err == nil && seconds > 0 {
			return min(time.Duration(seconds)*time.Second, maxBackoff)
		}

		if at, err := http.ParseTime(ra); err == nil {
			if d := time.Until(at); d > 0 {
				return min(d, maxBackoff)
			}
		}
	}

	return c.calcBackoff(attempt)
}

// calcBackoff computes exponential backoff with ±25% jitter.
func (c *Client) calcBackoff(attempt int) time.Duration {
	backoff := float64(baseBackoff) * math.Pow(backoffFactor, float64(attempt))
	if backoff > float64(maxBackoff) {
		backoff = float64(maxBackoff)
	}

	// Apply ±25% jitter.
	jitter := backoff * jitterFraction * (rand.Float64()*2 - 1) //nolint:gosec // jitter does not need crypto rand
	backoff += jitter

	return time.Duration(backoff)
}

// timeSleep waits for the given duration or until the context is canceled.
// It is the default sleepFunc for Client.
func timeSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
