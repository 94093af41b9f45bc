package common

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tonimelisma/outlook-mcp/internal/graph"
)

// ErrorResult maps a gateway or handler error onto an operator-actionable
// tool result. Domain failures never become protocol-level errors; the
// model sees a message it can act on or relay. Messages never contain
// credential material.
func ErrorResult(logger *slog.Logger, op string, err error) *mcp.CallToolResult {
	logger.Debug("tool call failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)

	switch {
	case errors.Is(err, graph.ErrNotAuthenticated):
		return mcp.NewToolResultError("Not authenticated. Run 'outlook-mcp login' first.")

	case errors.Is(err, graph.ErrReauthRequired):
		return mcp.NewToolResultError("Sign-in expired or was revoked. Run 'outlook-mcp login' again.")

	case errors.Is(err, graph.ErrThrottled):
		return mcp.NewToolResultError("The service is throttling requests. Wait a moment and retry.")

	case errors.Is(err, graph.ErrUnavailable), errors.Is(err, graph.ErrServerError):
		return mcp.NewToolResultError("The service is temporarily unavailable. Retry shortly.")

	case errors.Is(err, graph.ErrNetwork):
		return mcp.NewToolResultError("Network error reaching the service. Check connectivity and retry.")

	case errors.Is(err, graph.ErrForbidden):
		return mcp.NewToolResultError(fmt.Sprintf(
			"Permission denied for %s: the signed-in account lacks access; admin consent or an additional scope grant may be required.", op))

	case errors.Is(err, graph.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("%s: the requested item was not found: %s", op, apiDetail(err)))

	case errors.Is(err, graph.ErrGone):
		return mcp.NewToolResultError(fmt.Sprintf("%s: the continuation token has expired; restart without a token.", op))

	case errors.Is(err, graph.ErrBadRequest):
		return mcp.NewToolResultError(fmt.Sprintf("%s: the service rejected the request: %s", op, apiDetail(err)))

	default:
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", op, err))
	}
}

// apiDetail extracts the OData code and message when the error carries a
// GraphError, falling back to the plain error text.
func apiDetail(err error) string {
	var ge *graph.GraphError
	if errors.As(err, &ge) {
		if ge.Code != "" {
			return fmt.Sprintf("%s: %s", ge.Code, ge.Message)
		}

		return ge.Message
	}

	return err.Error()
}
