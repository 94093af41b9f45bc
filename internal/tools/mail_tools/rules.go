package mail_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tonimelisma/outlook-mcp/internal/graph"
	"github.com/tonimelisma/outlook-mcp/internal/tools/common"
)

func handleCreateEmailRule(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	name, err := common.RequiredString(args, "display_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	conditions := map[string]any{}

	if from := common.StringListArg(args, "from_addresses"); len(from) > 0 {
		conditions["senderContains"] = from
	}

	if subj := common.StringListArg(args, "subject_contains"); len(subj) > 0 {
		conditions["subjectContains"] = subj
	}

	if body := common.StringListArg(args, "body_contains"); len(body) > 0 {
		conditions["bodyContains"] = body
	}

	actions := map[string]any{}

	if dest := common.StringArg(args, "move_to_folder"); dest != "" {
		actions["moveToFolder"] = graph.ResolveFolder(dest)
	}

	if fwd := common.StringListArg(args, "forward_to"); len(fwd) > 0 {
		actions["forwardTo"] = graph.Recipients(fwd)
	}

	if common.BoolArg(args, "mark_as_read", false) {
		actions["markAsRead"] = true
	}

	if common.BoolArg(args, "delete", false) {
		actions["delete"] = true
	}

	if cats := common.StringListArg(args, "assign_categories"); len(cats) > 0 {
		actions["assignCategories"] = cats
	}

	if len(actions) == 0 {
		return mcp.NewToolResultError("at least one action is required (move_to_folder, forward_to, mark_as_read, delete, or assign_categories)"), nil
	}

	payload := map[string]any{
		"displayName": name,
		"sequence":    common.IntArg(args, "sequence", 1),
		"isEnabled":   common.BoolArg(args, "is_enabled", true),
		"conditions":  conditions,
		"actions":     actions,
	}

	resp, err := deps.Client.Post(ctx, "/me/mailFolders/inbox/messageRules", payload)
	if err != nil {
		return common.ErrorResult(deps.Logger, "create email rule", err), nil
	}

	return common.JSONResult(resp), nil
}
