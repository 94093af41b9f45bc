package common

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/outlook-mcp/internal/graph"
)

func errorResultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()

	require.True(t, res.IsError)
	require.NotEmpty(t, res.Content)

	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	return tc.Text
}

func TestErrorResult_Taxonomy(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not authenticated", graph.ErrNotAuthenticated, "outlook-mcp login"},
		{"reauth required", graph.ErrReauthRequired, "Run 'outlook-mcp login' again"},
		{"throttled", graph.ErrThrottled, "throttling"},
		{"unavailable", graph.ErrUnavailable, "temporarily unavailable"},
		{"server error", graph.ErrServerError, "temporarily unavailable"},
		{"network", graph.ErrNetwork, "Network error"},
		{"forbidden mentions consent", graph.ErrForbidden, "admin consent or an additional scope grant"},
		{"not found", graph.ErrNotFound, "not found"},
		{"gone", graph.ErrGone, "continuation token has expired"},
		{"bad request", graph.ErrBadRequest, "rejected the request"},
		{"unclassified", errors.New("boom"), "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ErrorResult(logger, "list messages", fmt.Errorf("wrapped: %w", tt.err))
			assert.Contains(t, errorResultText(t, res), tt.want)
		})
	}
}

func TestErrorResult_IncludesAPIDetail(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := &graph.GraphError{
		StatusCode: 400,
		Code:       "ErrorInvalidIdMalformed",
		Message:    "Id is malformed.",
		Err:        graph.ErrBadRequest,
	}

	text := errorResultText(t, ErrorResult(logger, "get message", err))
	assert.Contains(t, text, "ErrorInvalidIdMalformed")
	assert.Contains(t, text, "Id is malformed.")
}
