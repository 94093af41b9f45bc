// Package calendar_tools registers the MCP tools for calendars: event CRUD,
// calendar management, event attachments, reminders, and free/busy lookup.
package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tonimelisma/outlook-mcp/internal/tools/common"
)

// RegisterTools adds all calendar tools to the MCP server.
func RegisterTools(s *mcpserver.MCPServer, deps *common.Deps) {
	register := func(tool mcp.Tool, h func(context.Context, map[string]any, *common.Deps) (*mcp.CallToolResult, error)) {
		s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return h(ctx, request.GetArguments(), deps)
		})
	}

	register(mcp.NewTool("outlook_create_event",
		mcp.WithDescription("Create a calendar event."),
		mcp.WithString("subject", mcp.Required(), mcp.Description("Event subject")),
		mcp.WithString("start", mcp.Required(), mcp.Description("Start time, ISO 8601 without offset (e.g. 2026-09-01T10:00:00)")),
		mcp.WithString("end", mcp.Required(), mcp.Description("End time, ISO 8601 without offset")),
		mcp.WithString("timezone", mcp.Description("Timezone for start and end (default UTC)")),
		mcp.WithString("body", mcp.Description("Event body content")),
		mcp.WithString("body_type", mcp.Description("Body content type: HTML or Text (default HTML)")),
		mcp.WithString("location", mcp.Description("Event location name")),
		mcp.WithString("attendees", mcp.Description("Attendee email addresses, comma-separated")),
		mcp.WithString("categories", mcp.Description("Category names, comma-separated")),
		mcp.WithBoolean("is_online_meeting", mcp.Description("Create an online meeting link")),
		mcp.WithString("show_as", mcp.Description("Availability: free, tentative, busy, oof, workingElsewhere")),
		mcp.WithString("calendar_id", mcp.Description("Calendar to create the event in; omit for the default calendar")),
	), handleCreateEvent)

	register(mcp.NewTool("outlook_get_event",
		mcp.WithDescription("Fetch a single calendar event by ID."),
		mcp.WithString("event_id", mcp.Required(), mcp.Description("Event ID")),
		mcp.WithString("select", mcp.Description("Comma-separated fields to return")),
	), handleGetEvent)

	register(mcp.NewTool("outlook_update_calendar_event",
		mcp.WithDescription("Update fields of a calendar event."),
		mcp.WithString("event_id", mcp.Required(), mcp.Description("Event ID")),
		mcp.WithString("subject", mcp.Description("New subject")),
		mcp.WithString("start", mcp.Description("New start time, ISO 8601 without offset")),
		mcp.WithString("end", mcp.Description("New end time, ISO 8601 without offset")),
		mcp.WithString("timezone", mcp.Description("Timezone for start and end (default UTC)")),
		mcp.WithString("body", mcp.Description("New body content")),
		mcp.WithString("body_type", mcp.Description("Body content type: HTML or Text (default HTML)")),
		mcp.WithString("location", mcp.Description("New location name")),
		mcp.WithString("attendees", mcp.Description("Replacement attendee addresses, comma-separated")),
		mcp.WithString("categories", mcp.Description("Replacement category names, comma-separated")),
		mcp.WithString("show_as", mcp.Description("Availability: free, tentative, busy, oof, workingElsewhere")),
	), handleUpdateEvent)

	register(mcp.NewTool("outlook_delete_event",
		mcp.WithDescription("Delete a calendar event."),
		mcp.WithString("event_id", mcp.Required(), mcp.Description("Event ID")),
		mcp.WithBoolean("notify_attendees", mcp.Description("Send cancellation notifications to attendees (default false)")),
	), handleDeleteEvent)

	register(mcp.NewTool("outlook_list_events",
		mcp.WithDescription("List calendar events with OData options."),
		mcp.WithString("calendar_id", mcp.Description("Calendar to list; omit for the default calendar")),
		mcp.WithString("select", mcp.Description("Comma-separated fields to return")),
		mcp.WithString("filter", mcp.Description("Raw OData $filter expression")),
		mcp.WithString("orderby", mcp.Description("OData $orderby expression")),
		mcp.WithNumber("top", mcp.Description("Maximum results per page")),
		mcp.WithNumber("skip", mcp.Description("Results to skip")),
		mcp.WithString("timezone", mcp.Description("Return event times in this timezone instead of UTC")),
		mcp.WithString("next_link", mcp.Description("Continuation link from a previous page, used verbatim")),
	), handleListEvents)

	register(mcp.NewTool("outlook_list_calendars",
		mcp.WithDescription("List the account's calendars."),
		mcp.WithString("select", mcp.Description("Comma-separated fields to return")),
		mcp.WithString("filter", mcp.Description("Raw OData $filter expression")),
		mcp.WithString("orderby", mcp.Description("OData $orderby expression")),
		mcp.WithNumber("top", mcp.Description("Maximum results per page")),
		mcp.WithNumber("skip", mcp.Description("Results to skip")),
	), handleListCalendars)

	register(mcp.NewTool("outlook_create_calendar",
		mcp.WithDescription("Create a new calendar."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Calendar name")),
		mcp.WithString("color", mcp.Description("Preset color name, e.g. lightBlue")),
		mcp.WithString("hex_color", mcp.Description("Custom color as a hex value")),
	), handleCreateCalendar)

	register(mcp.NewTool("outlook_add_event_attachment",
		mcp.WithDescription("Attach a file to a calendar event."),
		mcp.WithString("event_id", mcp.Required(), mcp.Description("Event ID")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Attachment file name")),
		mcp.WithString("content_base64", mcp.Required(), mcp.Description("File content as base64")),
		mcp.WithString("content_type", mcp.Description("MIME type of the attachment")),
	), handleAddEventAttachment)

	register(mcp.NewTool("outlook_list_event_attachments",
		mcp.WithDescription("List an event's attachments without their content."),
		mcp.WithString("event_id", mcp.Required(), mcp.Description("Event ID")),
	), handleListEventAttachments)

	register(mcp.NewTool("outlook_list_reminders",
		mcp.WithDescription("List event reminders firing in a time window."),
		mcp.WithString("start", mcp.Required(), mcp.Description("Window start, ISO 8601")),
		mcp.WithString("end", mcp.Required(), mcp.Description("Window end, ISO 8601")),
	), handleListReminders)

	register(mcp.NewTool("outlook_get_schedule",
		mcp.WithDescription("Look up free/busy information for a set of users or rooms."),
		mcp.WithString("schedules", mcp.Required(), mcp.Description("Email addresses to query, comma-separated")),
		mcp.WithString("start", mcp.Required(), mcp.Description("Window start, ISO 8601 without offset")),
		mcp.WithString("end", mcp.Required(), mcp.Description("Window end, ISO 8601 without offset")),
		mcp.WithString("timezone", mcp.Description("Timezone for the window (default UTC)")),
		mcp.WithNumber("availability_view_interval", mcp.Description("Granularity of the availability view in minutes")),
	), handleGetSchedule)
}
