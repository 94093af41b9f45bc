package contact_tools

import (
	"context"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tonimelisma/outlook-mcp/internal/graph"
	"github.com/tonimelisma/outlook-mcp/internal/tools/common"
)

// contactFields maps tool argument names to contact resource properties
// that carry a plain string value.
var contactFields = map[string]string{
	"given_name":   "givenName",
	"surname":      "surname",
	"display_name": "displayName",
	"mobile_phone": "mobilePhone",
	"company_name": "companyName",
	"job_title":    "jobTitle",
	"department":   "department",
	"birthday":     "birthday",
	"notes":        "personalNotes",
}

// buildContact collects whatever contact fields the arguments carry.
func buildContact(args map[string]any) map[string]any {
	contact := map[string]any{}

	for arg, field := range contactFields {
		if v := common.StringArg(args, arg); v != "" {
			contact[field] = v
		}
	}

	if emails := common.StringListArg(args, "email_addresses"); len(emails) > 0 {
		list := make([]graph.EmailAddress, 0, len(emails))
		for _, addr := range emails {
			list = append(list, graph.EmailAddress{Address: addr})
		}

		contact["emailAddresses"] = list
	}

	if phones := common.StringListArg(args, "business_phones"); len(phones) > 0 {
		contact["businessPhones"] = phones
	}

	if phones := common.StringListArg(args, "home_phones"); len(phones) > 0 {
		contact["homePhones"] = phones
	}

	if cats := common.StringListArg(args, "categories"); len(cats) > 0 {
		contact["categories"] = cats
	}

	return contact
}

func handleCreateContact(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	contact := buildContact(args)

	if contact["givenName"] == nil && contact["displayName"] == nil {
		return mcp.NewToolResultError("given_name or display_name is required"), nil
	}

	path := "/me/contacts"
	if folder := common.StringArg(args, "folder_id"); folder != "" {
		path = "/me/contactFolders/" + url.PathEscape(folder) + "/contacts"
	}

	resp, err := deps.Client.Post(ctx, path, contact)
	if err != nil {
		return common.ErrorResult(deps.Logger, "create contact", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleGetContact(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	id, err := common.RequiredString(args, "contact_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var q url.Values
	if sel := common.StringArg(args, "select"); sel != "" {
		q = url.Values{"$select": {sel}}
	}

	resp, err := deps.Client.Get(ctx, "/me/contacts/"+url.PathEscape(id), q)
	if err != nil {
		return common.ErrorResult(deps.Logger, "get contact", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleUpdateContact(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	id, err := common.RequiredString(args, "contact_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	patch := buildContact(args)
	if len(patch) == 0 {
		return mcp.NewToolResultError("at least one field to update is required"), nil
	}

	resp, err := deps.Client.Patch(ctx, "/me/contacts/"+url.PathEscape(id), patch)
	if err != nil {
		return common.ErrorResult(deps.Logger, "update contact", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleDeleteContact(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	id, err := common.RequiredString(args, "contact_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := deps.Client.Delete(ctx, "/me/contacts/"+url.PathEscape(id), nil)
	if err != nil {
		return common.ErrorResult(deps.Logger, "delete contact", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleListContacts(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	if nextLink := common.StringArg(args, "next_link"); nextLink != "" {
		resp, err := deps.Client.Page(ctx, nextLink)
		if err != nil {
			return common.ErrorResult(deps.Logger, "list contacts", err), nil
		}

		return common.JSONResult(resp), nil
	}

	path := "/me/contacts"
	if folder := common.StringArg(args, "folder_id"); folder != "" {
		path = "/me/contactFolders/" + url.PathEscape(folder) + "/contacts"
	}

	resp, err := deps.Client.Get(ctx, path, common.ListQuery(args))
	if err != nil {
		return common.ErrorResult(deps.Logger, "list contacts", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleGetContactFolders(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	resp, err := deps.Client.Get(ctx, "/me/contactFolders", common.ListQuery(args))
	if err != nil {
		return common.ErrorResult(deps.Logger, "get contact folders", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleCreateContactFolder(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	name, err := common.RequiredString(args, "display_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload := map[string]any{"displayName": name}

	path := "/me/contactFolders"
	if parent := common.StringArg(args, "parent_folder_id"); parent != "" {
		path = "/me/contactFolders/" + url.PathEscape(parent) + "/childFolders"
	}

	resp, err := deps.Client.Post(ctx, path, payload)
	if err != nil {
		return common.ErrorResult(deps.Logger, "create contact folder", err), nil
	}

	return common.JSONResult(resp), nil
}
