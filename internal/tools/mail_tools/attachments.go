package mail_tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tonimelisma/outlook-mcp/internal/tools/common"
)

// maxAttachmentBytes is the Graph limit for a single fileAttachment added
// through the attachments endpoint.
const maxAttachmentBytes = 3 * 1024 * 1024

// fileAttachment builds a Graph fileAttachment resource from the tool's
// attachment object. Content may be supplied inline as base64 or read from
// a local file path.
func fileAttachment(att map[string]any) (map[string]any, error) {
	name := common.StringArg(att, "name")
	content := common.StringArg(att, "content_base64")

	if path := common.StringArg(att, "file_path"); path != "" && content == "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading attachment file: %w", err)
		}

		if len(data) > maxAttachmentBytes {
			return nil, fmt.Errorf("attachment exceeds the %d byte limit", maxAttachmentBytes)
		}

		content = base64.StdEncoding.EncodeToString(data)

		if name == "" {
			name = filepath.Base(path)
		}
	}

	if name == "" {
		return nil, fmt.Errorf("attachment name is required")
	}

	if content == "" {
		return nil, fmt.Errorf("attachment content_base64 or file_path is required")
	}

	fa := map[string]any{
		"@odata.type":  "#microsoft.graph.fileAttachment",
		"name":         name,
		"contentBytes": content,
	}

	if ct := common.StringArg(att, "content_type"); ct != "" {
		fa["contentType"] = ct
	}

	return fa, nil
}

func handleAddMailAttachment(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	id, err := common.RequiredString(args, "message_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fa, err := fileAttachment(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := deps.Client.Post(ctx, "/me/messages/"+url.PathEscape(id)+"/attachments", fa)
	if err != nil {
		return common.ErrorResult(deps.Logger, "add attachment", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleListAttachments(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	id, err := common.RequiredString(args, "message_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Exclude contentBytes so large attachments do not bloat the listing.
	q := url.Values{"$select": {"id,name,contentType,size,isInline"}}

	resp, err := deps.Client.Get(ctx, "/me/messages/"+url.PathEscape(id)+"/attachments", q)
	if err != nil {
		return common.ErrorResult(deps.Logger, "list attachments", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleDownloadAttachment(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	msgID, err := common.RequiredString(args, "message_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	attID, err := common.RequiredString(args, "attachment_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	savePath, err := common.RequiredString(args, "save_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := deps.Client.Get(ctx,
		"/me/messages/"+url.PathEscape(msgID)+"/attachments/"+url.PathEscape(attID), nil)
	if err != nil {
		return common.ErrorResult(deps.Logger, "download attachment", err), nil
	}

	var att struct {
		Name         string `json:"name"`
		ContentType  string `json:"contentType"`
		ContentBytes string `json:"contentBytes"`
	}

	if err := resp.Decode(&att); err != nil {
		return common.ErrorResult(deps.Logger, "download attachment", err), nil
	}

	if att.ContentBytes == "" {
		return mcp.NewToolResultError(
			"attachment has no downloadable content; only file attachments can be saved"), nil
	}

	data, err := base64.StdEncoding.DecodeString(att.ContentBytes)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("decoding attachment content: %v", err)), nil
	}

	if err := os.WriteFile(savePath, data, 0o644); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("writing attachment file: %v", err)), nil
	}

	out, err := json.Marshal(map[string]any{
		"file_name":    savePath,
		"name":         att.Name,
		"content_type": att.ContentType,
		"size":         len(data),
	})
	if err != nil {
		return common.ErrorResult(deps.Logger, "download attachment", err), nil
	}

	return mcp.NewToolResultText(string(out)), nil
}
