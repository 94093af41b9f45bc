package mail_tools

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tonimelisma/outlook-mcp/internal/graph"
	"github.com/tonimelisma/outlook-mcp/internal/tools/common"
)

// buildMessage assembles the Graph message resource shared by send and
// draft creation.
func buildMessage(args map[string]any) (map[string]any, error) {
	subject, err := common.RequiredString(args, "subject")
	if err != nil {
		return nil, err
	}

	body, err := common.RequiredString(args, "body")
	if err != nil {
		return nil, err
	}

	to := common.StringListArg(args, "to_recipients")
	if len(to) == 0 {
		return nil, fmt.Errorf("to_recipients is required")
	}

	contentType := common.StringArg(args, "body_type")
	if contentType == "" {
		contentType = "HTML"
	}

	msg := map[string]any{
		"subject":      subject,
		"body":         graph.ItemBody{ContentType: contentType, Content: body},
		"toRecipients": graph.Recipients(to),
	}

	if cc := common.StringListArg(args, "cc_recipients"); len(cc) > 0 {
		msg["ccRecipients"] = graph.Recipients(cc)
	}

	if bcc := common.StringListArg(args, "bcc_recipients"); len(bcc) > 0 {
		msg["bccRecipients"] = graph.Recipients(bcc)
	}

	return msg, nil
}

func handleSendEmail(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	msg, err := buildMessage(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if att := common.MapArg(args, "attachment"); att != nil {
		fa, attErr := fileAttachment(att)
		if attErr != nil {
			return mcp.NewToolResultError(attErr.Error()), nil
		}

		msg["attachments"] = []any{fa}
	}

	payload := map[string]any{
		"message":         msg,
		"saveToSentItems": common.BoolArg(args, "save_to_sent_items", true),
	}

	resp, err := deps.Client.Post(ctx, "/me/sendMail", payload)
	if err != nil {
		return common.ErrorResult(deps.Logger, "send email", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleCreateDraft(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	msg, err := buildMessage(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if conv := common.StringArg(args, "conversation_id"); conv != "" {
		msg["conversationId"] = conv
	}

	resp, err := deps.Client.Post(ctx, "/me/messages", msg)
	if err != nil {
		return common.ErrorResult(deps.Logger, "create draft", err), nil
	}

	// Optional attachment is added in a follow-up call against the new draft.
	if att := common.MapArg(args, "attachment"); att != nil {
		created, mapErr := resp.Map()
		if mapErr != nil {
			return common.ErrorResult(deps.Logger, "create draft", mapErr), nil
		}

		id, _ := created["id"].(string)

		fa, attErr := fileAttachment(att)
		if attErr != nil {
			return mcp.NewToolResultError(attErr.Error()), nil
		}

		if _, err := deps.Client.Post(ctx, "/me/messages/"+url.PathEscape(id)+"/attachments", fa); err != nil {
			return common.ErrorResult(deps.Logger, "attach file to draft", err), nil
		}
	}

	return common.JSONResult(resp), nil
}

func handleCreateDraftReply(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	id, err := common.RequiredString(args, "message_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload := map[string]any{}

	if comment := common.StringArg(args, "comment"); comment != "" {
		payload["comment"] = comment
	}

	msg := map[string]any{}

	if cc := common.StringListArg(args, "cc_recipients"); len(cc) > 0 {
		msg["ccRecipients"] = graph.Recipients(cc)
	}

	if bcc := common.StringListArg(args, "bcc_recipients"); len(bcc) > 0 {
		msg["bccRecipients"] = graph.Recipients(bcc)
	}

	if len(msg) > 0 {
		payload["message"] = msg
	}

	resp, err := deps.Client.Post(ctx, "/me/messages/"+url.PathEscape(id)+"/createReply", payload)
	if err != nil {
		return common.ErrorResult(deps.Logger, "create draft reply", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleReplyEmail(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	id, err := common.RequiredString(args, "message_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	comment, err := common.RequiredString(args, "comment")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload := map[string]any{"comment": comment}

	if to := common.StringListArg(args, "to_recipients"); len(to) > 0 {
		payload["message"] = map[string]any{"toRecipients": graph.Recipients(to)}
	}

	endpoint := "/reply"
	if common.BoolArg(args, "reply_all", false) {
		endpoint = "/replyAll"
	}

	resp, err := deps.Client.Post(ctx, "/me/messages/"+url.PathEscape(id)+endpoint, payload)
	if err != nil {
		return common.ErrorResult(deps.Logger, "reply to email", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleGetMessage(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	id, err := common.RequiredString(args, "message_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var q url.Values
	if sel := common.StringArg(args, "select"); sel != "" {
		q = url.Values{"$select": {sel}}
	}

	resp, err := deps.Client.Get(ctx, "/me/messages/"+url.PathEscape(id), q)
	if err != nil {
		return common.ErrorResult(deps.Logger, "get message", err), nil
	}

	return common.JSONResult(resp), nil
}

// draftOnlyFields may only change while a message is still a draft. On a
// sent message the API quietly ignores some of them, so reject early.
var draftOnlyFields = []string{"subject", "body", "to_recipients", "cc_recipients", "bcc_recipients"}

func handleUpdateEmail(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	id, err := common.RequiredString(args, "message_id")
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

	if to := common.StringListArg(args, "to_recipients"); len(to) > 0 {
		patch["toRecipients"] = graph.Recipients(to)
	}

	if cc := common.StringListArg(args, "cc_recipients"); len(cc) > 0 {
		patch["ccRecipients"] = graph.Recipients(cc)
	}

	if bcc := common.StringListArg(args, "bcc_recipients"); len(bcc) > 0 {
		patch["bccRecipients"] = graph.Recipients(bcc)
	}

	if v, ok := args["is_read"].(bool); ok {
		patch["isRead"] = v
	}

	if cats := common.StringListArg(args, "categories"); len(cats) > 0 {
		patch["categories"] = cats
	}

	if len(patch) == 0 {
		return mcp.NewToolResultError("at least one field to update is required"), nil
	}

	// Draft-only fields require the message to still be a draft.
	if touchesDraftFields(args) {
		check, checkErr := deps.Client.Get(ctx,
			"/me/messages/"+url.PathEscape(id), url.Values{"$select": {"isDraft"}})
		if checkErr != nil {
			return common.ErrorResult(deps.Logger, "update email", checkErr), nil
		}

		m, mapErr := check.Map()
		if mapErr != nil {
			return common.ErrorResult(deps.Logger, "update email", mapErr), nil
		}

		if isDraft, _ := m["isDraft"].(bool); !isDraft {
			return mcp.NewToolResultError(
				"message is not a draft; only is_read and categories can be updated on sent messages"), nil
		}
	}

	resp, err := deps.Client.Patch(ctx, "/me/messages/"+url.PathEscape(id), patch)
	if err != nil {
		return common.ErrorResult(deps.Logger, "update email", err), nil
	}

	return common.JSONResult(resp), nil
}

func touchesDraftFields(args map[string]any) bool {
	for _, f := range draftOnlyFields {
		if _, ok := args[f]; ok {
			return true
		}
	}

	return false
}

func handleMoveMessage(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	id, err := common.RequiredString(args, "message_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	dest, err := common.RequiredString(args, "destination_folder")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload := map[string]any{"destinationId": graph.ResolveFolder(dest)}

	resp, err := deps.Client.Post(ctx, "/me/messages/"+url.PathEscape(id)+"/move", payload)
	if err != nil {
		return common.ErrorResult(deps.Logger, "move message", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleSearchMessages(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	var clauses []string

	if query := common.StringArg(args, "query"); query != "" {
		escaped := escapeODataString(query)
		clauses = append(clauses,
			fmt.Sprintf("(contains(subject,'%s') or contains(bodyPreview,'%s'))", escaped, escaped))
	}

	if from := common.StringArg(args, "from"); from != "" {
		clauses = append(clauses,
			fmt.Sprintf("from/emailAddress/address eq '%s'", escapeODataString(from)))
	}

	if v, ok := args["has_attachments"].(bool); ok {
		clauses = append(clauses, fmt.Sprintf("hasAttachments eq %t", v))
	}

	q := url.Values{}
	if len(clauses) > 0 {
		q.Set("$filter", strings.Join(clauses, " and "))
	}

	if top := common.IntArg(args, "top", 0); top > 0 {
		q.Set("$top", fmt.Sprintf("%d", top))
	}

	if skip := common.IntArg(args, "skip", 0); skip > 0 {
		q.Set("$skip", fmt.Sprintf("%d", skip))
	}

	resp, err := deps.Client.Get(ctx, "/me/messages", q)
	if err != nil {
		return common.ErrorResult(deps.Logger, "search messages", err), nil
	}

	return common.JSONResult(resp), nil
}

// escapeODataString doubles single quotes per the OData literal rules.
func escapeODataString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// listMessages builds the rich filter set for message listing.
func handleListMessages(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	if nextLink := common.StringArg(args, "next_link"); nextLink != "" {
		resp, err := deps.Client.Page(ctx, nextLink)
		if err != nil {
			return common.ErrorResult(deps.Logger, "list messages", err), nil
		}

		return common.JSONResult(resp), nil
	}

	path := "/me/messages"
	if folder := common.StringArg(args, "folder"); folder != "" {
		path = "/me/mailFolders/" + url.PathEscape(graph.ResolveFolder(folder)) + "/messages"
	}

	q := common.ListQuery(args)
	if q == nil {
		q = url.Values{}
	}

	if clauses := messageFilterClauses(args); len(clauses) > 0 {
		existing := q.Get("$filter")
		if existing != "" {
			clauses = append([]string{existing}, clauses...)
		}

		q.Set("$filter", strings.Join(clauses, " and "))
	}

	resp, err := deps.Client.Get(ctx, path, q)
	if err != nil {
		return common.ErrorResult(deps.Logger, "list messages", err), nil
	}

	return common.JSONResult(resp), nil
}

// messageFilterClauses translates the structured filter arguments into
// OData clauses.
func messageFilterClauses(args map[string]any) []string {
	var clauses []string

	if v := common.StringArg(args, "conversation_id"); v != "" {
		clauses = append(clauses, fmt.Sprintf("conversationId eq '%s'", escapeODataString(v)))
	}

	if v := common.StringArg(args, "from"); v != "" {
		clauses = append(clauses, fmt.Sprintf("from/emailAddress/address eq '%s'", escapeODataString(v)))
	}

	if v, ok := args["has_attachments"].(bool); ok {
		clauses = append(clauses, fmt.Sprintf("hasAttachments eq %t", v))
	}

	if v := common.StringArg(args, "importance"); v != "" {
		clauses = append(clauses, fmt.Sprintf("importance eq '%s'", escapeODataString(v)))
	}

	if v, ok := args["is_read"].(bool); ok {
		clauses = append(clauses, fmt.Sprintf("isRead eq %t", v))
	}

	for arg, clause := range map[string]string{
		"received_after":  "receivedDateTime ge %s",
		"received_before": "receivedDateTime le %s",
		"sent_after":      "sentDateTime gt %s",
		"sent_before":     "sentDateTime lt %s",
	} {
		if v := common.StringArg(args, arg); v != "" {
			clauses = append(clauses, fmt.Sprintf(clause, v))
		}
	}

	if v := common.StringArg(args, "subject"); v != "" {
		clauses = append(clauses, fmt.Sprintf("subject eq '%s'", escapeODataString(v)))
	}

	if v := common.StringArg(args, "subject_contains"); v != "" {
		clauses = append(clauses, fmt.Sprintf("contains(subject,'%s')", escapeODataString(v)))
	}

	if v := common.StringArg(args, "subject_startswith"); v != "" {
		clauses = append(clauses, fmt.Sprintf("startswith(subject,'%s')", escapeODataString(v)))
	}

	if v := common.StringArg(args, "subject_endswith"); v != "" {
		clauses = append(clauses, fmt.Sprintf("endswith(subject,'%s')", escapeODataString(v)))
	}

	if v := common.StringArg(args, "category"); v != "" {
		clauses = append(clauses, fmt.Sprintf("categories/any(c:c eq '%s')", escapeODataString(v)))
	}

	return clauses
}
