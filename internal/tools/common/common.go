// Package common holds the shared plumbing for the MCP tool packages:
// dependency wiring, argument extraction, OData query building, and the
// single mapping from the gateway error taxonomy to operator-actionable
// tool results.
package common

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tonimelisma/outlook-mcp/internal/deltastore"
	"github.com/tonimelisma/outlook-mcp/internal/graph"
)

// Deps carries the services every tool handler needs.
type Deps struct {
	Client *graph.Client
	Delta  *deltastore.Store
	Logger *slog.Logger
}

// StringArg returns the string argument for key, or "" when absent.
func StringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}

	return ""
}

// RequiredString returns the string argument for key or an error naming the
// missing argument.
func RequiredString(args map[string]any, key string) (string, error) {
	v := StringArg(args, key)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}

	return v, nil
}

// BoolArg returns the boolean argument for key, or def when absent.
func BoolArg(args map[string]any, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}

	return def
}

// IntArg returns the integer argument for key, or def when absent.
// JSON numbers arrive as float64.
func IntArg(args map[string]any, key string, def int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}

	return def
}

// StringListArg returns a list argument that may arrive as a single string,
// a JSON array of strings, or a comma-separated string.
func StringListArg(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case string:
		if v == "" {
			return nil
		}

		return splitCommaList(v)
	case []any:
		out := make([]string, 0, len(v))

		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}

		return out
	default:
		return nil
	}
}

func splitCommaList(s string) []string {
	var out []string

	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}

// MapArg returns an object argument, or nil when absent.
func MapArg(args map[string]any, key string) map[string]any {
	if v, ok := args[key].(map[string]any); ok {
		return v
	}

	return nil
}

// ListQuery builds the standard OData list parameters from the conventional
// tool arguments: select, filter, orderby, top, skip.
func ListQuery(args map[string]any) url.Values {
	q := url.Values{}

	if v := StringArg(args, "select"); v != "" {
		q.Set("$select", v)
	}

	if v := StringArg(args, "filter"); v != "" {
		q.Set("$filter", v)
	}

	if v := StringArg(args, "orderby"); v != "" {
		q.Set("$orderby", v)
	}

	if v := IntArg(args, "top", 0); v > 0 {
		q.Set("$top", fmt.Sprintf("%d", v))
	}

	if v := IntArg(args, "skip", 0); v > 0 {
		q.Set("$skip", fmt.Sprintf("%d", v))
	}

	if len(q) == 0 {
		return nil
	}

	return q
}

// JSONResult converts a gateway response into a text tool result carrying
// the raw response JSON. Empty bodies (202/204) yield a small status object
// so callers always get valid JSON.
func JSONResult(resp *graph.Response) *mcp.CallToolResult {
	if len(resp.Body) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(`{"status":"ok","httpStatus":%d}`, resp.StatusCode))
	}

	return mcp.NewToolResultText(string(resp.Body))
}
