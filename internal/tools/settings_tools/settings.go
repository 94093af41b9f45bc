package settings_tools

import (
	"context"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tonimelisma/outlook-mcp/internal/tools/common"
)

func handleGetMailboxSettings(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	var q url.Values
	if sel := common.StringArg(args, "select"); sel != "" {
		q = url.Values{"$select": {sel}}
	}

	resp, err := deps.Client.Get(ctx, "/me/mailboxSettings", q)
	if err != nil {
		return common.ErrorResult(deps.Logger, "get mailbox settings", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleUpdateMailboxSettings(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	patch := map[string]any{}

	if tz := common.StringArg(args, "time_zone"); tz != "" {
		patch["timeZone"] = tz
	}

	if lang := common.StringArg(args, "language"); lang != "" {
		patch["language"] = map[string]any{"locale": lang}
	}

	if hour := common.StringArg(args, "date_format"); hour != "" {
		patch["dateFormat"] = hour
	}

	if tf := common.StringArg(args, "time_format"); tf != "" {
		patch["timeFormat"] = tf
	}

	if replies := common.MapArg(args, "automatic_replies"); replies != nil {
		patch["automaticRepliesSetting"] = replies
	}

	if hours := common.MapArg(args, "working_hours"); hours != nil {
		patch["workingHours"] = hours
	}

	if len(patch) == 0 {
		return mcp.NewToolResultError("at least one setting to update is required"), nil
	}

	resp, err := deps.Client.Patch(ctx, "/me/mailboxSettings", patch)
	if err != nil {
		return common.ErrorResult(deps.Logger, "update mailbox settings", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleGetMailTips(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	addrs := common.StringListArg(args, "email_addresses")
	if len(addrs) == 0 {
		return mcp.NewToolResultError("email_addresses is required"), nil
	}

	options := common.StringArg(args, "options")
	if options == "" {
		options = "automaticReplies, mailboxFullStatus"
	}

	payload := map[string]any{
		"EmailAddresses":  addrs,
		"MailTipsOptions": options,
	}

	resp, err := deps.Client.Post(ctx, "/me/getMailTips", payload)
	if err != nil {
		return common.ErrorResult(deps.Logger, "get mail tips", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleGetSupportedLanguages(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	resp, err := deps.Client.Get(ctx, "/me/outlook/supportedLanguages", nil)
	if err != nil {
		return common.ErrorResult(deps.Logger, "get supported languages", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleGetSupportedTimeZones(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	path := "/me/outlook/supportedTimeZones"
	if std := common.StringArg(args, "time_zone_standard"); std != "" {
		path = "/me/outlook/supportedTimeZones(TimeZoneStandard=microsoft.graph.timeZoneStandard'" +
			url.PathEscape(std) + "')"
	}

	resp, err := deps.Client.Get(ctx, path, nil)
	if err != nil {
		return common.ErrorResult(deps.Logger, "get supported time zones", err), nil
	}

	return common.JSONResult(resp), nil
}

func handleGetProfile(ctx context.Context, args map[string]any, deps *common.Deps) (*mcp.CallToolResult, error) {
	var q url.Values
	if sel := common.StringArg(args, "select"); sel != "" {
		q = url.Values{"$select": {sel}}
	}

	resp, err := deps.Client.Get(ctx, "/me", q)
	if err != nil {
		return common.ErrorResult(deps.Logger, "get profile", err), nil
	}

	return common.JSONResult(resp), nil
}
