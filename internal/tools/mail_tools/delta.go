package mail_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tonimelisma/outlook-mcp/internal/graph"
	"github.com/tonimelisma/outlook-mcp/internal/tools/common"
)

// handleGetMailDelta runs one page of incremental message sync for a
// folder. The continuation token comes from the delta_token argument when
// supplied, otherwise from the persisted link for the folder. A returned
// deltaLink is persisted so the next invocation resumes where this one
// finished; an expired token clears the stored link so the caller can
// restart cleanly.
func handleGetMailDelta(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	folder, err := common.RequiredString(args, "folder")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	folderID := graph.ResolveFolder(folder)

	token := common.StringArg(args, "delta_token")
	if token == "" && deps.Delta != nil {
		stored, loadErr := deps.Delta.DeltaLink(ctx, folderID)
		if loadErr != nil {
			return common.ErrorResult(deps.Logger, "get mail delta", loadErr), nil
		}

		token = stored
	}

	var q url.Values
	if top := common.IntArg(args, "max_results", 0); top > 0 && token == "" {
		q = url.Values{"$top": {fmt.Sprintf("%d", top)}}
	}

	page, err := deps.Client.MessageDelta(ctx, folderID, token, q)
	if err != nil {
		if errors.Is(err, graph.ErrGone) && deps.Delta != nil {
			if clearErr := deps.Delta.ClearDeltaLink(ctx, folderID); clearErr != nil {
				deps.Logger.Warn("failed to clear expired delta link",
					"folder_id", folderID, "error", clearErr)
			}
		}

		return common.ErrorResult(deps.Logger, "get mail delta", err), nil
	}

	if page.DeltaLink != "" && deps.Delta != nil {
		if saveErr := deps.Delta.SaveDeltaLink(ctx, folderID, page.DeltaLink); saveErr != nil {
			deps.Logger.Warn("failed to persist delta link",
				"folder_id", folderID, "error", saveErr)
		}
	}

	out, err := json.Marshal(map[string]any{
		"value":      page.Value,
		"next_link":  page.NextLink,
		"delta_link": page.DeltaLink,
		"done":       page.DeltaLink != "",
	})
	if err != nil {
		return common.ErrorResult(deps.Logger, "get mail delta", err), nil
	}

	return mcp.NewToolResultText(string(out)), nil
}
