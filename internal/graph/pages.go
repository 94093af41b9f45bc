package graph

import (
	"context"
	"encoding/json"
	"net/url"
)

// Page mirrors a Graph API collection response. NextLink and DeltaLink are
// opaque absolute URLs; callers pass them back verbatim and never parse or
// rebuild them.
type Page struct {
	Value     []json.RawMessage `json:"value"`
	NextLink  string            `json:"@odata.nextLink"`  //nolint:tagliatelle // OData annotation key
	DeltaLink string            `json:"@odata.deltaLink"` //nolint:tagliatelle // OData annotation key
}

// List fetches one page of a collection. When nextLink is non-empty it is
// followed verbatim and path/query are ignored; otherwise the relative path
// and query are used. The gateway never auto-follows continuation links.
func (c *Client) List(ctx context.Context, path string, query url.Values, nextLink string) (*Page, error) {
	var (
		resp *Response
		err  error
	)

	if nextLink != "" {
		resp, err = c.Page(ctx, nextLink)
	} else {
		resp, err = c.Get(ctx, path, query)
	}

	if err != nil {
		return nil, err
	}

	var page Page
	if err := resp.Decode(&page); err != nil {
		return nil, err
	}

	return &page, nil
}
