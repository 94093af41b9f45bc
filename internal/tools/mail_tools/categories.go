package mail_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tonimelisma/outlook-mcp/internal/tools/common"
)

// presetColors are the category color names accepted by the API.
var presetColors = map[string]bool{}

func init() {
	for i := 0; i <= 24; i++ {
		presetColors[fmt.Sprintf("preset%d", i)] = true
	}
	presetColors["none"] = true
}

func handleGetCategories(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	resp, err := deps.Client.Get(ctx, "/me/outlook/masterCategories", common.ListQuery(args))
	if err != nil {
		return common.ErrorResult(deps.Logger, "get categories", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleCreateCategory(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	name, err := common.RequiredString(args, "display_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	color := strings.ToLower(common.StringArg(args, "color"))
	if color == "" {
		color = "none"
	}

	if !presetColors[color] {
		return mcp.NewToolResultError(
			fmt.Sprintf("invalid color %q; use none or preset0 through preset24", color)), nil
	}

	payload := map[string]any{
		"displayName": name,
		"color":       color,
	}

	resp, err := deps.Client.Post(ctx, "/me/outlook/masterCategories", payload)
	if err != nil {
		return common.ErrorResult(deps.Logger, "create category", err), nil
	}

	return common.JSONResult(resp), nil
}
