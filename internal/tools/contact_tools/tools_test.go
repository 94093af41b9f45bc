package contact_tools

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/outlook-mcp/internal/graph"
	"github.com/tonimelisma/outlook-mcp/internal/tools/common"
)

type staticToken struct{}

func (staticToken) Token(context.Context) (string, error) { return "test-token", nil }

func (staticToken) ForceRefresh(context.Context, string) (string, error) { return "test-token", nil }

type capturedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

func newTestDeps(t *testing.T, handler http.HandlerFunc) (*common.Deps, *[]capturedRequest) {
	t.Helper()

	var captured []capturedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)

		var body map[string]any
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &body)
		}

		captured = append(captured, capturedRequest{Method: r.Method, Path: r.URL.Path, Body: body})

		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := graph.NewClient(srv.URL, srv.Client(), staticToken{}, logger)

	return &common.Deps{Client: client, Logger: logger}, &captured
}

func okJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestCreateContact_BuildsGraphPayload(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{"id":"c1"}`))

	res, err := handleCreateContact(context.Background(), map[string]any{
		"given_name":      "Ada",
		"surname":         "Lovelace",
		"email_addresses": "ada@contoso.com",
		"company_name":    "Contoso",
		"notes":           "met at conference",
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, "/me/contacts", req.Path)
	assert.Equal(t, "Ada", req.Body["givenName"])
	assert.Equal(t, "met at conference", req.Body["personalNotes"])
	assert.Len(t, req.Body["emailAddresses"], 1)
}

func TestCreateContact_RequiresAName(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{}`))

	res, err := handleCreateContact(context.Background(), map[string]any{
		"email_addresses": "nobody@contoso.com",
	}, deps)
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Empty(t, *captured)
}

func TestUpdateContact_EmptyPatchRejected(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{}`))

	res, err := handleUpdateContact(context.Background(), map[string]any{
		"contact_id": "c1",
	}, deps)
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Empty(t, *captured)
}

func TestUpdateContact_PatchesSingleField(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{"id":"c1"}`))

	res, err := handleUpdateContact(context.Background(), map[string]any{
		"contact_id": "c1",
		"job_title":  "Principal Engineer",
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "/me/contacts/c1", req.Path)
	assert.Equal(t, map[string]any{"jobTitle": "Principal Engineer"}, req.Body)
}

func TestListContacts_FolderScoped(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{"value":[]}`))

	res, err := handleListContacts(context.Background(), map[string]any{
		"folder_id": "folder1",
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	assert.Equal(t, "/me/contactFolders/folder1/contacts", (*captured)[0].Path)
}

func TestCreateContactFolder_NestedUnderParent(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{"id":"f2"}`))

	res, err := handleCreateContactFolder(context.Background(), map[string]any{
		"display_name":     "Vendors",
		"parent_folder_id": "f1",
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, "/me/contactFolders/f1/childFolders", req.Path)
	assert.Equal(t, "Vendors", req.Body["displayName"])
}

func TestDeleteContact(t *testing.T) {
	deps, captured := newTestDeps(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	res, err := handleDeleteContact(context.Background(), map[string]any{
		"contact_id": "c1",
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	assert.Equal(t, http.MethodDelete, (*captured)[0].Method)
}
