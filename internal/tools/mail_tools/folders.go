package mail_tools

import (
	"context"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tonimelisma/outlook-mcp/internal/graph"
	"github.com/tonimelisma/outlook-mcp/internal/tools/common"
)

func handleListMailFolders(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	if nextLink := common.StringArg(args, "next_link"); nextLink != "" {
		resp, err := deps.Client.Page(ctx, nextLink)
		if err != nil {
			return common.ErrorResult(deps.Logger, "list mail folders", err), nil
		}

		return common.JSONResult(resp), nil
	}

	path := "/me/mailFolders"
	if parent := common.StringArg(args, "parent_folder"); parent != "" {
		path = "/me/mailFolders/" + url.PathEscape(graph.ResolveFolder(parent)) + "/childFolders"
	}

	q := common.ListQuery(args)

	if common.BoolArg(args, "include_hidden", false) {
		if q == nil {
			q = url.Values{}
		}

		q.Set("includeHiddenFolders", "true")
	}

	resp, err := deps.Client.Get(ctx, path, q)
	if err != nil {
		return common.ErrorResult(deps.Logger, "list mail folders", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleCreateMailFolder(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	name, err := common.RequiredString(args, "display_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload := map[string]any{"displayName": name}

	if common.BoolArg(args, "is_hidden", false) {
		payload["isHidden"] = true
	}

	path := "/me/mailFolders"
	if parent := common.StringArg(args, "parent_folder"); parent != "" {
		path = "/me/mailFolders/" + url.PathEscape(graph.ResolveFolder(parent)) + "/childFolders"
	}

	resp, err := deps.Client.Post(ctx, path, payload)
	if err != nil {
		return common.ErrorResult(deps.Logger, "create mail folder", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleDeleteMailFolder(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	folder, err := common.RequiredString(args, "folder_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := deps.Client.Delete(ctx, "/me/mailFolders/"+url.PathEscape(graph.ResolveFolder(folder)), nil)
	if err != nil {
		return common.ErrorResult(deps.Logger, "delete mail folder", err), nil
	}

	return common.JSONResult(resp), nil
}
