package graph

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// deltaHTTPPrefix is the scheme prefix used to detect full URL tokens
// returned by the Graph API delta endpoint.
const deltaHTTPPrefix = "http"

// MessageDelta fetches one page of message changes for a mail folder.
// Pass an empty token for the initial round (fetches all messages in the
// folder). For subsequent calls, pass the DeltaLink or NextLink value from
// the previous page — these are full URLs and are followed verbatim.
// HTTP 410 (Gone) means the token has expired and the caller must restart
// from an empty token — it surfaces as ErrGone.
func (c *Client) MessageDelta(ctx context.Context, folderID, token string, query url.Values) (*Page, error) {
	c.logger.Info("fetching message delta page",
		slog.String("folder_id", folderID),
		slog.Bool("initial_round", token == ""),
	)

	var (
		nextLink string
		path     string
	)

	if token == "" {
		path = fmt.Sprintf("/me/mailFolders/%s/messages/delta", url.PathEscape(folderID))
	} else if strings.HasPrefix(token, deltaHTTPPrefix) {
		nextLink = token
	} else {
		// A bare $deltatoken value from a caller that extracted it manually.
		path = fmt.Sprintf("/me/mailFolders/%s/messages/delta", url.PathEscape(folderID))

		if query == nil {
			query = url.Values{}
		}

		query.Set("$deltatoken", token)
	}

	page, err := c.List(ctx, path, query, nextLink)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("fetched message delta page",
		slog.Int("count", len(page.Value)),
		slog.Bool("has_next_link", page.NextLink != ""),
		slog.Bool("has_delta_link", page.DeltaLink != ""),
	)

	return page, nil
}
