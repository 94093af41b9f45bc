package calendar_tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tonimelisma/outlook-mcp/internal/graph"
	"github.com/tonimelisma/outlook-mcp/internal/tools/common"
)

// eventTimes extracts the start/end pair. Both sides share one timezone
// argument; it defaults to UTC.
func eventTimes(args map[string]any) (start, end graph.DateTimeZone, err error) {
	startAt, err := common.RequiredString(args, "start")
	if err != nil {
		return start, end, err
	}

	endAt, err := common.RequiredString(args, "end")
	if err != nil {
		return start, end, err
	}

	tz := common.StringArg(args, "timezone")
	if tz == "" {
		tz = "UTC"
	}

	return graph.DateTimeZone{DateTime: startAt, TimeZone: tz},
		graph.DateTimeZone{DateTime: endAt, TimeZone: tz}, nil
}

func attendeeList(addrs []string) []map[string]any {
	out := make([]map[string]any, 0, len(addrs))

	for _, addr := range addrs {
		out = append(out, map[string]any{
			"emailAddress": graph.EmailAddress{Address: addr},
			"type":         "required",
		})
	}

	return out
}

func handleCreateEvent(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	subject, err := common.RequiredString(args, "subject")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start, end, err := eventTimes(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	event := map[string]any{
		"subject": subject,
		"start":   start,
		"end":     end,
	}

	if body := common.StringArg(args, "body"); body != "" {
		contentType := common.StringArg(args, "body_type")
		if contentType == "" {
			contentType = "HTML"
		}

		event["body"] = graph.ItemBody{ContentType: contentType, Content: body}
	}

	if loc := common.StringArg(args, "location"); loc != "" {
		event["location"] = map[string]any{"displayName": loc}
	}

	if attendees := common.StringListArg(args, "attendees"); len(attendees) > 0 {
		event["attendees"] = attendeeList(attendees)
	}

	if cats := common.StringListArg(args, "categories"); len(cats) > 0 {
		event["categories"] = cats
	}

	if common.BoolArg(args, "is_online_meeting", false) {
		event["isOnlineMeeting"] = true
	}

	if showAs := common.StringArg(args, "show_as"); showAs != "" {
		event["showAs"] = showAs
	}

	path := "/me/events"
	if cal := common.StringArg(args, "calendar_id"); cal != "" {
		path = "/me/calendars/" + url.PathEscape(cal) + "/events"
	}

	resp, err := deps.Client.Post(ctx, path, event)
	if err != nil {
		return common.ErrorResult(deps.Logger, "create event", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleGetEvent(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	id, err := common.RequiredString(args, "event_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var q url.Values
	if sel := common.StringArg(args, "select"); sel != "" {
		q = url.Values{"$select": {sel}}
	}

	resp, err := deps.Client.Get(ctx, "/me/events/"+url.PathEscape(id), q)
	if err != nil {
		return common.ErrorResult(deps.Logger, "get event", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleUpdateEvent(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	id, err := common.RequiredString(args, "event_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	patch := map[string]any{}

	if subject := common.StringArg(args, "subject"); subject != "" {
		patch["subject"] = subject
	}

	if body := common.StringArg(args, "body"); body != "" {
		contentType := common.StringArg(args, "body_type")
		if contentType == "" {
			contentType = "HTML"
		}

		patch["body"] = graph.ItemBody{ContentType: contentType, Content: body}
	}

	tz := common.StringArg(args, "timezone")
	if tz == "" {
		tz = "UTC"
	}

	if startAt := common.StringArg(args, "start"); startAt != "" {
		patch["start"] = graph.DateTimeZone{DateTime: startAt, TimeZone: tz}
	}

	if endAt := common.StringArg(args, "end"); endAt != "" {
		patch["end"] = graph.DateTimeZone{DateTime: endAt, TimeZone: tz}
	}

	if loc := common.StringArg(args, "location"); loc != "" {
		patch["location"] = map[string]any{"displayName": loc}
	}

	if attendees := common.StringListArg(args, "attendees"); len(attendees) > 0 {
		patch["attendees"] = attendeeList(attendees)
	}

	if cats := common.StringListArg(args, "categories"); len(cats) > 0 {
		patch["categories"] = cats
	}

	if showAs := common.StringArg(args, "show_as"); showAs != "" {
		patch["showAs"] = showAs
	}

	if len(patch) == 0 {
		return mcp.NewToolResultError("at least one field to update is required"), nil
	}

	resp, err := deps.Client.Patch(ctx, "/me/events/"+url.PathEscape(id), patch)
	if err != nil {
		return common.ErrorResult(deps.Logger, "update event", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleDeleteEvent(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	id, err := common.RequiredString(args, "event_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Suppress cancellation notifications unless the caller wants them sent.
	var header http.Header
	if !common.BoolArg(args, "notify_attendees", false) {
		header = http.Header{"Prefer": {"outlook.notification-handling=suppress"}}
	}

	resp, err := deps.Client.Delete(ctx, "/me/events/"+url.PathEscape(id), header)
	if err != nil {
		return common.ErrorResult(deps.Logger, "delete event", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleListEvents(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	if nextLink := common.StringArg(args, "next_link"); nextLink != "" {
		resp, err := deps.Client.Page(ctx, nextLink)
		if err != nil {
			return common.ErrorResult(deps.Logger, "list events", err), nil
		}

		return common.JSONResult(resp), nil
	}

	path := "/me/events"
	if cal := common.StringArg(args, "calendar_id"); cal != "" {
		path = "/me/calendars/" + url.PathEscape(cal) + "/events"
	}

	req := graph.Request{
		Method: "GET",
		Path:   path,
		Query:  common.ListQuery(args),
	}

	// Event times come back in this timezone instead of UTC.
	if tz := common.StringArg(args, "timezone"); tz != "" {
		req.Header = http.Header{"Prefer": {fmt.Sprintf("outlook.timezone=%q", tz)}}
	}

	resp, err := deps.Client.Do(ctx, req)
	if err != nil {
		return common.ErrorResult(deps.Logger, "list events", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleListReminders(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	startAt, err := common.RequiredString(args, "start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	endAt, err := common.RequiredString(args, "end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path := fmt.Sprintf("/me/reminderView(startDateTime='%s',endDateTime='%s')",
		url.PathEscape(startAt), url.PathEscape(endAt))

	resp, err := deps.Client.Get(ctx, path, nil)
	if err != nil {
		return common.ErrorResult(deps.Logger, "list reminders", err), nil
	}

	return common.JSONResult(resp), nil
}
