package calendar_tools

import (
	"context"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tonimelisma/outlook-mcp/internal/tools/common"
)

func handleListCalendars(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	resp, err := deps.Client.Get(ctx, "/me/calendars", common.ListQuery(args))
	if err != nil {
		return common.ErrorResult(deps.Logger, "list calendars", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleCreateCalendar(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	name, err := common.RequiredString(args, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload := map[string]any{"name": name}

	if color := common.StringArg(args, "color"); color != "" {
		payload["color"] = color
	}

	if hex := common.StringArg(args, "hex_color"); hex != "" {
		payload["hexColor"] = hex
	}

	resp, err := deps.Client.Post(ctx, "/me/calendars", payload)
	if err != nil {
		return common.ErrorResult(deps.Logger, "create calendar", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleGetSchedule(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	schedules := common.StringListArg(args, "schedules")
	if len(schedules) == 0 {
		return mcp.NewToolResultError("schedules is required"), nil
	}

	startAt, err := common.RequiredString(args, "start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	endAt, err := common.RequiredString(args, "end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tz := common.StringArg(args, "timezone")
	if tz == "" {
		tz = "UTC"
	}

	payload := map[string]any{
		"schedules": schedules,
		"startTime": map[string]any{"dateTime": startAt, "timeZone": tz},
		"endTime":   map[string]any{"dateTime": endAt, "timeZone": tz},
	}

	if interval := common.IntArg(args, "availability_view_interval", 0); interval > 0 {
		payload["availabilityViewInterval"] = interval
	}

	resp, err := deps.Client.Post(ctx, "/me/calendar/getSchedule", payload)
	if err != nil {
		return common.ErrorResult(deps.Logger, "get schedule", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleListEventAttachments(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	id, err := common.RequiredString(args, "event_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	q := url.Values{"$select": {"id,name,contentType,size,isInline"}}

	resp, err := deps.Client.Get(ctx, "/me/events/"+url.PathEscape(id)+"/attachments", q)
	if err != nil {
		return common.ErrorResult(deps.Logger, "list event attachments", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleAddEventAttachment(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	id, err := common.RequiredString(args, "event_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	name, err := common.RequiredString(args, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	content, err := common.RequiredString(args, "content_base64")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload := map[string]any{
		"@odata.type":  "#microsoft.graph.fileAttachment",
		"name":         name,
		"contentBytes": content,
	}

	if ct := common.StringArg(args, "content_type"); ct != "" {
		payload["contentType"] = ct
	}

	resp, err := deps.Client.Post(ctx, "/me/events/"+url.PathEscape(id)+"/attachments", payload)
	if err != nil {
		return common.ErrorResult(deps.Logger, "add event attachment", err), nil
	}

	return common.JSONResult(resp), nil
}
