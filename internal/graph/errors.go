// Package graph provides an authenticated HTTP gateway for the Microsoft
// Graph API with retry, throttling support, and error classification, plus
// the device-code and browser login flows.
package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for request classification.
// Use errors.Is(err, graph.ErrNotFound) to check.
var (
	// ErrNotAuthenticated means no credentials exist; the user never logged
	// in, or the cache was cleared.
	ErrNotAuthenticated = errors.New("graph: not authenticated")

	// ErrReauthRequired means the refresh token was rejected (revoked or
	// expired grant). Cached state has been cleared; a new login is needed.
	ErrReauthRequired = errors.New("graph: reauthentication required")

	ErrBadRequest   = errors.New("graph: bad request")
	ErrUnauthorized = errors.New("graph: unauthorized")
	ErrForbidden    = errors.New("graph: forbidden")
	ErrNotFound     = errors.New("graph: not found")
	ErrConflict     = errors.New("graph: conflict")
	ErrGone         = errors.New("graph: resource gone")
	ErrThrottled    = errors.New("graph: throttled")
	ErrUnavailable  = errors.New("graph: service unavailable")
	ErrServerError  = errors.New("graph: server error")

	// ErrNetwork wraps transport-level failures (DNS, TLS, connection reset)
	// that produced no HTTP response.
	ErrNetwork = errors.New("graph: network error")
)

// GraphError wraps a sentinel error with the HTTP status code, the Graph
// request ID, and the OData error code and message from the response body.
type GraphError struct {
	StatusCode int
	RequestID  string
	Code       string
	Message    string
	Err        error // sentinel, for errors.Is()
}

func (e *GraphError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}

	if e.RequestID != "" {
		return fmt.Sprintf("graph: HTTP %d (request-id: %s): %s", e.StatusCode, e.RequestID, msg)
	}

	return fmt.Sprintf("graph: HTTP %d: %s", e.StatusCode, msg)
}

func (e *GraphError) Unwrap() error {
	return e.Err
}

// odataError mirrors the Graph API error body shape:
// {"error": {"code": "...", "message": "..."}}.
type odataError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newGraphError builds a GraphError from an error response, extracting the
// OData code and message when the body parses. Falls back to the raw body.
func newGraphError(statusCode int, requestID string, body []byte) *GraphError {
	ge := &GraphError{
		StatusCode: statusCode,
		RequestID:  requestID,
		Message:    string(body),
		Err:        classifyStatus(statusCode),
	}

	var oe odataError
	if err := json.Unmarshal(body, &oe); err == nil && oe.Error.Code != "" {
		ge.Code = oe.Error.Code
		ge.Message = oe.Error.Message
	}

	return ge
}

// classifyStatus maps an HTTP status code to a sentinel error.
// Returns nil for 2xx success codes.
func classifyStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusGone:
		return ErrGone
	case http.StatusTooManyRequests:
		return ErrThrottled
	case http.StatusServiceUnavailable:
		return ErrUnavailable
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}

		// Remaining 4xx codes (405, 413, 422, ...) are client errors the
		// caller must not retry; surface them as bad requests carrying the
		// server's code and message.
		if code >= http.StatusBadRequest {
			return ErrBadRequest
		}

		return nil
	}
}

// isThrottle reports whether the status carries a Retry-After style
// server-pushback that gets the larger retry budget.
func isThrottle(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}
