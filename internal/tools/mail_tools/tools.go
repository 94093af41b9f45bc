// Package mail_tools registers the MCP tools for mail: sending, drafting,
// replying, searching, listing, moving, attachments, folders, categories,
// inbox rules, and incremental delta sync.
package mail_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tonimelisma/outlook-mcp/internal/tools/common"
)

// RegisterTools adds all mail tools to the MCP server.
func RegisterTools(s *mcpserver.MCPServer, deps *common.Deps) {
	register := func(tool mcp.Tool, h func(context.Context, map[string]any, *common.Deps) (*mcp.CallToolResult, error)) {
		s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return h(ctx, request.GetArguments(), deps)
		})
	}

	register(mcp.NewTool("outlook_send_email",
		mcp.WithDescription("Send an email from the signed-in mailbox."),
		mcp.WithString("subject", mcp.Required(), mcp.Description("Email subject line")),
		mcp.WithString("body", mcp.Required(), mcp.Description("Email body content")),
		mcp.WithString("body_type", mcp.Description("Body content type: HTML or Text (default HTML)")),
		mcp.WithString("to_recipients", mcp.Required(), mcp.Description("Recipient addresses, comma-separated")),
		mcp.WithString("cc_recipients", mcp.Description("CC addresses, comma-separated")),
		mcp.WithString("bcc_recipients", mcp.Description("BCC addresses, comma-separated")),
		mcp.WithBoolean("save_to_sent_items", mcp.Description("Save a copy to Sent Items (default true)")),
		mcp.WithObject("attachment", mcp.Description("Optional file attachment: {name, content_base64 | file_path, content_type}")),
	), handleSendEmail)

	register(mcp.NewTool("outlook_create_draft",
		mcp.WithDescription("Create a draft email without sending it."),
		mcp.WithString("subject", mcp.Required(), mcp.Description("Draft subject line")),
		mcp.WithString("body", mcp.Required(), mcp.Description("Draft body content")),
		mcp.WithString("body_type", mcp.Description("Body content type: HTML or Text (default HTML)")),
		mcp.WithString("to_recipients", mcp.Required(), mcp.Description("Recipient addresses, comma-separated")),
		mcp.WithString("cc_recipients", mcp.Description("CC addresses, comma-separated")),
		mcp.WithString("bcc_recipients", mcp.Description("BCC addresses, comma-separated")),
		mcp.WithString("conversation_id", mcp.Description("Conversation to associate the draft with")),
		mcp.WithObject("attachment", mcp.Description("Optional file attachment: {name, content_base64 | file_path, content_type}")),
	), handleCreateDraft)

	register(mcp.NewTool("outlook_create_draft_reply",
		mcp.WithDescription("Create a draft reply to an existing message."),
		mcp.WithString("message_id", mcp.Required(), mcp.Description("ID of the message to reply to")),
		mcp.WithString("comment", mcp.Description("Reply text to include above the quoted message")),
		mcp.WithString("cc_recipients", mcp.Description("Additional CC addresses, comma-separated")),
		mcp.WithString("bcc_recipients", mcp.Description("Additional BCC addresses, comma-separated")),
	), handleCreateDraftReply)

	register(mcp.NewTool("outlook_reply_email",
		mcp.WithDescription("Send a reply to an existing message immediately."),
		mcp.WithString("message_id", mcp.Required(), mcp.Description("ID of the message to reply to")),
		mcp.WithString("comment", mcp.Required(), mcp.Description("Reply text")),
		mcp.WithBoolean("reply_all", mcp.Description("Reply to all recipients instead of the sender only")),
		mcp.WithString("to_recipients", mcp.Description("Override reply recipients, comma-separated")),
	), handleReplyEmail)

	register(mcp.NewTool("outlook_get_message",
		mcp.WithDescription("Fetch a single message by ID."),
		mcp.WithString("message_id", mcp.Required(), mcp.Description("Message ID")),
		mcp.WithString("select", mcp.Description("Comma-separated fields to return")),
	), handleGetMessage)

	register(mcp.NewTool("outlook_update_email",
		mcp.WithDescription("Update a message. Subject, body, and recipients can only change on drafts; read state and categories can change on any message."),
		mcp.WithString("message_id", mcp.Required(), mcp.Description("Message ID")),
		mcp.WithString("subject", mcp.Description("New subject (drafts only)")),
		mcp.WithString("body", mcp.Description("New body content (drafts only)")),
		mcp.WithString("body_type", mcp.Description("Body content type: HTML or Text (default HTML)")),
		mcp.WithString("to_recipients", mcp.Description("New recipient addresses, comma-separated (drafts only)")),
		mcp.WithString("cc_recipients", mcp.Description("New CC addresses, comma-separated (drafts only)")),
		mcp.WithString("bcc_recipients", mcp.Description("New BCC addresses, comma-separated (drafts only)")),
		mcp.WithBoolean("is_read", mcp.Description("Mark the message read or unread")),
		mcp.WithString("categories", mcp.Description("Category names to assign, comma-separated")),
	), handleUpdateEmail)

	register(mcp.NewTool("outlook_move_message",
		mcp.WithDescription("Move a message to another folder."),
		mcp.WithString("message_id", mcp.Required(), mcp.Description("Message ID")),
		mcp.WithString("destination_folder", mcp.Required(), mcp.Description("Destination folder ID or well-known name (inbox, archive, deleted items, ...)")),
	), handleMoveMessage)

	register(mcp.NewTool("outlook_search_messages",
		mcp.WithDescription("Search messages by text, sender, and attachment presence."),
		mcp.WithString("query", mcp.Description("Text matched against subject and body preview")),
		mcp.WithString("from", mcp.Description("Sender email address")),
		mcp.WithBoolean("has_attachments", mcp.Description("Only messages with attachments")),
		mcp.WithNumber("top", mcp.Description("Maximum results to return")),
		mcp.WithNumber("skip", mcp.Description("Results to skip, for paging")),
	), handleSearchMessages)

	register(mcp.NewTool("outlook_list_messages",
		mcp.WithDescription("List messages with OData options and structured filters. Pass next_link from a previous page to continue."),
		mcp.WithString("folder", mcp.Description("Folder ID or well-known name; omit for all messages")),
		mcp.WithString("select", mcp.Description("Comma-separated fields to return")),
		mcp.WithString("filter", mcp.Description("Raw OData $filter expression")),
		mcp.WithString("orderby", mcp.Description("OData $orderby expression")),
		mcp.WithNumber("top", mcp.Description("Maximum results per page")),
		mcp.WithNumber("skip", mcp.Description("Results to skip")),
		mcp.WithString("conversation_id", mcp.Description("Only messages in this conversation")),
		mcp.WithString("from", mcp.Description("Only messages from this sender address")),
		mcp.WithBoolean("has_attachments", mcp.Description("Only messages with attachments")),
		mcp.WithString("importance", mcp.Description("Only messages with this importance: low, normal, high")),
		mcp.WithBoolean("is_read", mcp.Description("Filter by read state")),
		mcp.WithString("received_after", mcp.Description("Only messages received at or after this ISO 8601 timestamp")),
		mcp.WithString("received_before", mcp.Description("Only messages received at or before this ISO 8601 timestamp")),
		mcp.WithString("sent_after", mcp.Description("Only messages sent after this ISO 8601 timestamp")),
		mcp.WithString("sent_before", mcp.Description("Only messages sent before this ISO 8601 timestamp")),
		mcp.WithString("subject", mcp.Description("Only messages whose subject equals this text")),
		mcp.WithString("subject_contains", mcp.Description("Only messages whose subject contains this text")),
		mcp.WithString("subject_startswith", mcp.Description("Only messages whose subject starts with this text")),
		mcp.WithString("subject_endswith", mcp.Description("Only messages whose subject ends with this text")),
		mcp.WithString("category", mcp.Description("Only messages assigned this category")),
		mcp.WithString("next_link", mcp.Description("Continuation link from a previous page, used verbatim")),
	), handleListMessages)

	register(mcp.NewTool("outlook_add_mail_attachment",
		mcp.WithDescription("Attach a file to an existing message or draft."),
		mcp.WithString("message_id", mcp.Required(), mcp.Description("Message ID")),
		mcp.WithString("name", mcp.Description("Attachment file name (defaults to the base name of file_path)")),
		mcp.WithString("content_base64", mcp.Description("File content as base64")),
		mcp.WithString("file_path", mcp.Description("Local file to read and attach, alternative to content_base64")),
		mcp.WithString("content_type", mcp.Description("MIME type of the attachment")),
	), handleAddMailAttachment)

	register(mcp.NewTool("outlook_list_outlook_attachments",
		mcp.WithDescription("List a message's attachments without their content."),
		mcp.WithString("message_id", mcp.Required(), mcp.Description("Message ID")),
	), handleListAttachments)

	register(mcp.NewTool("outlook_download_attachment",
		mcp.WithDescription("Download a file attachment and save it to a local path."),
		mcp.WithString("message_id", mcp.Required(), mcp.Description("Message ID")),
		mcp.WithString("attachment_id", mcp.Required(), mcp.Description("Attachment ID")),
		mcp.WithString("save_path", mcp.Required(), mcp.Description("Local path to write the file to")),
	), handleDownloadAttachment)

	register(mcp.NewTool("outlook_list_mail_folders",
		mcp.WithDescription("List mail folders, optionally under a parent folder."),
		mcp.WithString("parent_folder", mcp.Description("Parent folder ID or well-known name; omit for top-level folders")),
		mcp.WithBoolean("include_hidden", mcp.Description("Include hidden folders")),
		mcp.WithNumber("top", mcp.Description("Maximum results per page")),
		mcp.WithNumber("skip", mcp.Description("Results to skip")),
		mcp.WithString("next_link", mcp.Description("Continuation link from a previous page, used verbatim")),
	), handleListMailFolders)

	register(mcp.NewTool("outlook_create_mail_folder",
		mcp.WithDescription("Create a mail folder."),
		mcp.WithString("display_name", mcp.Required(), mcp.Description("Folder name")),
		mcp.WithString("parent_folder", mcp.Description("Parent folder ID or well-known name; omit for top level")),
		mcp.WithBoolean("is_hidden", mcp.Description("Create the folder hidden")),
	), handleCreateMailFolder)

	register(mcp.NewTool("outlook_delete_mail_folder",
		mcp.WithDescription("Delete a mail folder and its contents."),
		mcp.WithString("folder_id", mcp.Required(), mcp.Description("Folder ID or well-known name")),
	), handleDeleteMailFolder)

	register(mcp.NewTool("outlook_get_master_categories",
		mcp.WithDescription("List the mailbox's master category list."),
		mcp.WithNumber("top", mcp.Description("Maximum results")),
	), handleGetCategories)

	register(mcp.NewTool("outlook_create_master_category",
		mcp.WithDescription("Add a category to the mailbox's master category list."),
		mcp.WithString("display_name", mcp.Required(), mcp.Description("Category name")),
		mcp.WithString("color", mcp.Description("Category color: none or preset0 through preset24")),
	), handleCreateCategory)

	register(mcp.NewTool("outlook_create_email_rule",
		mcp.WithDescription("Create an inbox message rule with conditions and actions."),
		mcp.WithString("display_name", mcp.Required(), mcp.Description("Rule name")),
		mcp.WithNumber("sequence", mcp.Description("Rule evaluation order (default 1)")),
		mcp.WithString("from_addresses", mcp.Description("Match sender addresses containing these values, comma-separated")),
		mcp.WithString("subject_contains", mcp.Description("Match subjects containing these values, comma-separated")),
		mcp.WithString("body_contains", mcp.Description("Match bodies containing these values, comma-separated")),
		mcp.WithString("move_to_folder", mcp.Description("Action: move matched messages to this folder ID or well-known name")),
		mcp.WithString("forward_to", mcp.Description("Action: forward matched messages to these addresses, comma-separated")),
		mcp.WithBoolean("mark_as_read", mcp.Description("Action: mark matched messages read")),
		mcp.WithBoolean("delete", mcp.Description("Action: delete matched messages")),
		mcp.WithString("assign_categories", mcp.Description("Action: assign these categories, comma-separated")),
		mcp.WithBoolean("is_enabled", mcp.Description("Enable the rule (default true)")),
	), handleCreateEmailRule)

	register(mcp.NewTool("outlook_get_mail_delta",
		mcp.WithDescription("Fetch one page of incremental message changes for a folder. Without delta_token, resumes from the stored continuation state."),
		mcp.WithString("folder", mcp.Required(), mcp.Description("Folder ID or well-known name")),
		mcp.WithString("delta_token", mcp.Description("Continuation token or link from a previous page; overrides stored state")),
		mcp.WithNumber("max_results", mcp.Description("Page size hint for the initial round")),
	), handleGetMailDelta)
}
