// Package contact_tools registers the MCP tools for contacts and contact
// folders.
package contact_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tonimelisma/outlook-mcp/internal/tools/common"
)

// RegisterTools adds all contact tools to the MCP server.
func RegisterTools(s *mcpserver.MCPServer, deps *common.Deps) {
	register := func(tool mcp.Tool, h func(context.Context, map[string]any, *common.Deps) (*mcp.CallToolResult, error)) {
		s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return h(ctx, request.GetArguments(), deps)
		})
	}

	register(mcp.NewTool("outlook_create_contact",
		mcp.WithDescription("Create a contact. Requires at least given_name or display_name."),
		mcp.WithString("given_name", mcp.Description("First name")),
		mcp.WithString("surname", mcp.Description("Last name")),
		mcp.WithString("display_name", mcp.Description("Display name")),
		mcp.WithString("email_addresses", mcp.Description("Email addresses, comma-separated")),
		mcp.WithString("business_phones", mcp.Description("Business phone numbers, comma-separated")),
		mcp.WithString("home_phones", mcp.Description("Home phone numbers, comma-separated")),
		mcp.WithString("mobile_phone", mcp.Description("Mobile phone number")),
		mcp.WithString("company_name", mcp.Description("Company name")),
		mcp.WithString("job_title", mcp.Description("Job title")),
		mcp.WithString("department", mcp.Description("Department")),
		mcp.WithString("birthday", mcp.Description("Birthday, ISO 8601 date")),
		mcp.WithString("categories", mcp.Description("Category names, comma-separated")),
		mcp.WithString("notes", mcp.Description("Free-form notes about the contact")),
		mcp.WithString("folder_id", mcp.Description("Contact folder to create in; omit for the default folder")),
	), handleCreateContact)

	register(mcp.NewTool("outlook_get_contact",
		mcp.WithDescription("Fetch a single contact by ID."),
		mcp.WithString("contact_id", mcp.Required(), mcp.Description("Contact ID")),
		mcp.WithString("select", mcp.Description("Comma-separated fields to return")),
	), handleGetContact)

	register(mcp.NewTool("outlook_update_contact",
		mcp.WithDescription("Update fields of a contact. At least one field is required."),
		mcp.WithString("contact_id", mcp.Required(), mcp.Description("Contact ID")),
		mcp.WithString("given_name", mcp.Description("New first name")),
		mcp.WithString("surname", mcp.Description("New last name")),
		mcp.WithString("display_name", mcp.Description("New display name")),
		mcp.WithString("email_addresses", mcp.Description("Replacement email addresses, comma-separated")),
		mcp.WithString("business_phones", mcp.Description("Replacement business phone numbers, comma-separated")),
		mcp.WithString("home_phones", mcp.Description("Replacement home phone numbers, comma-separated")),
		mcp.WithString("mobile_phone", mcp.Description("New mobile phone number")),
		mcp.WithString("company_name", mcp.Description("New company name")),
		mcp.WithString("job_title", mcp.Description("New job title")),
		mcp.WithString("department", mcp.Description("New department")),
		mcp.WithString("birthday", mcp.Description("New birthday, ISO 8601 date")),
		mcp.WithString("categories", mcp.Description("Replacement category names, comma-separated")),
		mcp.WithString("notes", mcp.Description("New notes")),
	), handleUpdateContact)

	register(mcp.NewTool("outlook_delete_contact",
		mcp.WithDescription("Delete a contact."),
		mcp.WithString("contact_id", mcp.Required(), mcp.Description("Contact ID")),
	), handleDeleteContact)

	register(mcp.NewTool("outlook_list_contacts",
		mcp.WithDescription("List contacts, optionally from a specific contact folder."),
		mcp.WithString("folder_id", mcp.Description("Contact folder to list; omit for the default folder")),
		mcp.WithString("select", mcp.Description("Comma-separated fields to return")),
		mcp.WithString("filter", mcp.Description("Raw OData $filter expression")),
		mcp.WithString("orderby", mcp.Description("OData $orderby expression")),
		mcp.WithNumber("top", mcp.Description("Maximum results per page")),
		mcp.WithNumber("skip", mcp.Description("Results to skip")),
		mcp.WithString("next_link", mcp.Description("Continuation link from a previous page, used verbatim")),
	), handleListContacts)

	register(mcp.NewTool("outlook_get_contact_folders",
		mcp.WithDescription("List contact folders."),
		mcp.WithNumber("top", mcp.Description("Maximum results")),
	), handleGetContactFolders)

	register(mcp.NewTool("outlook_create_contact_folder",
		mcp.WithDescription("Create a contact folder."),
		mcp.WithString("display_name", mcp.Required(), mcp.Description("Folder name")),
		mcp.WithString("parent_folder_id", mcp.Description("Parent contact folder; omit for top level")),
	), handleCreateContactFolder)
}
