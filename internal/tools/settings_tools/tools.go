// Package settings_tools registers the MCP tools for mailbox settings,
// mail tips, locale discovery, and the signed-in profile.
package settings_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tonimelisma/outlook-mcp/internal/tools/common"
)

// RegisterTools adds all settings tools to the MCP server.
func RegisterTools(s *mcpserver.MCPServer, deps *common.Deps) {
	register := func(tool mcp.Tool, h func(context.Context, map[string]any, *common.Deps) (*mcp.CallToolResult, error)) {
		s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return h(ctx, request.GetArguments(), deps)
		})
	}

	register(mcp.NewTool("outlook_get_mailbox_settings",
		mcp.WithDescription("Fetch the mailbox settings: timezone, language, automatic replies, working hours."),
		mcp.WithString("select", mcp.Description("Comma-separated settings to return")),
	), handleGetMailboxSettings)

	register(mcp.NewTool("outlook_update_mailbox_settings",
		mcp.WithDescription("Update mailbox settings. At least one setting is required."),
		mcp.WithString("time_zone", mcp.Description("New mailbox timezone, e.g. Pacific Standard Time")),
		mcp.WithString("language", mcp.Description("New locale, e.g. en-US")),
		mcp.WithString("date_format", mcp.Description("New date format")),
		mcp.WithString("time_format", mcp.Description("New time format")),
		mcp.WithObject("automatic_replies", mcp.Description("automaticRepliesSetting object: {status, internalReplyMessage, externalReplyMessage, scheduledStartDateTime, scheduledEndDateTime}")),
		mcp.WithObject("working_hours", mcp.Description("workingHours object: {daysOfWeek, startTime, endTime, timeZone}")),
	), handleUpdateMailboxSettings)

	register(mcp.NewTool("outlook_get_mail_tips",
		mcp.WithDescription("Fetch mail tips (automatic replies, mailbox full) for a set of recipients."),
		mcp.WithString("email_addresses", mcp.Required(), mcp.Description("Recipient addresses to query, comma-separated")),
		mcp.WithString("options", mcp.Description("MailTipsOptions flags (default 'automaticReplies, mailboxFullStatus')")),
	), handleGetMailTips)

	register(mcp.NewTool("outlook_get_supported_languages",
		mcp.WithDescription("List the languages supported for the mailbox."),
	), handleGetSupportedLanguages)

	register(mcp.NewTool("outlook_get_supported_time_zones",
		mcp.WithDescription("List the time zones supported for the mailbox."),
		mcp.WithString("time_zone_standard", mcp.Description("Timezone format: Windows or Iana")),
	), handleGetSupportedTimeZones)

	register(mcp.NewTool("outlook_get_profile",
		mcp.WithDescription("Fetch the signed-in user's profile."),
		mcp.WithString("select", mcp.Description("Comma-separated fields to return")),
	), handleGetProfile)
}
