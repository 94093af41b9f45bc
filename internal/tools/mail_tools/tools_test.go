package mail_tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/outlook-mcp/internal/deltastore"
	"github.com/tonimelisma/outlook-mcp/internal/graph"
	"github.com/tonimelisma/outlook-mcp/internal/tools/common"
)

type staticToken struct{}

func (staticToken) Token(context.Context) (string, error) { return "test-token", nil }

func (staticToken) ForceRefresh(context.Context, string) (string, error) { return "test-token", nil }

// capturedRequest records what the handler sent to the API.
type capturedRequest struct {
	Method string
	Path   string
	Query  string
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

		captured = append(captured, capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   body,
		})

		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := graph.NewClient(srv.URL, srv.Client(), staticToken{}, logger)

	store, err := deltastore.Open(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return &common.Deps{Client: client, Delta: store, Logger: logger}, &captured
}

func okJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, res.Content)

	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	return tc.Text
}

func TestSendEmail_BuildsGraphPayload(t *testing.T) {
	deps, captured := newTestDeps(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	res, err := handleSendEmail(context.Background(), map[string]any{
		"subject":       "Quarterly review",
		"body":          "<p>See attached</p>",
		"to_recipients": "alice@contoso.com, bob@contoso.com",
		"cc_recipients": "carol@contoso.com",
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/me/sendMail", req.Path)

	msg := req.Body["message"].(map[string]any)
	assert.Equal(t, "Quarterly review", msg["subject"])
	assert.Len(t, msg["toRecipients"], 2)
	assert.Len(t, msg["ccRecipients"], 1)
	assert.Equal(t, true, req.Body["saveToSentItems"])

	assert.Contains(t, resultText(t, res), `"status":"ok"`)
}

func TestSendEmail_MissingRecipientsRejected(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{}`))

	res, err := handleSendEmail(context.Background(), map[string]any{
		"subject": "no recipients",
		"body":    "text",
	}, deps)
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Empty(t, *captured)
}

func TestReplyEmail_ReplyAllEndpoint(t *testing.T) {
	deps, captured := newTestDeps(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	res, err := handleReplyEmail(context.Background(), map[string]any{
		"message_id": "AAMk123",
		"comment":    "Sounds good.",
		"reply_all":  true,
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	assert.Equal(t, "/me/messages/AAMk123/replyAll", (*captured)[0].Path)
}

func TestMoveMessage_ResolvesWellKnownFolder(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{"id":"moved"}`))

	res, err := handleMoveMessage(context.Background(), map[string]any{
		"message_id":         "AAMk123",
		"destination_folder": "Deleted Items",
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	assert.Equal(t, "deleteditems", (*captured)[0].Body["destinationId"])
}

func TestListMessages_BuildsFilterClauses(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{"value":[]}`))

	res, err := handleListMessages(context.Background(), map[string]any{
		"folder":          "inbox",
		"is_read":         false,
		"from":            "alice@contoso.com",
		"has_attachments": true,
		"top":             float64(10),
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, "/me/mailFolders/inbox/messages", req.Path)
	assert.Contains(t, req.Query, "isRead+eq+false")
	assert.Contains(t, req.Query, "hasAttachments+eq+true")
	assert.Contains(t, req.Query, "alice%40contoso.com")
	assert.Contains(t, req.Query, "%24top=10")
}

func TestListMessages_NextLinkUsedVerbatim(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{"value":[]}`))

	res, err := handleListMessages(context.Background(), map[string]any{
		"next_link": deps.Client.BaseURL() + "/me/messages?%24skiptoken=abc",
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	assert.Equal(t, "/me/messages", (*captured)[0].Path)
	assert.Equal(t, "%24skiptoken=abc", (*captured)[0].Query)
}

func TestUpdateEmail_NonDraftSubjectRejected(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{"isDraft":false}`))

	res, err := handleUpdateEmail(context.Background(), map[string]any{
		"message_id": "AAMk123",
		"subject":    "new subject",
	}, deps)
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "not a draft")

	// Only the isDraft check went out, no PATCH.
	require.Len(t, *captured, 1)
	assert.Equal(t, http.MethodGet, (*captured)[0].Method)
}

func TestUpdateEmail_ReadStateSkipsDraftCheck(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{"id":"AAMk123","isRead":true}`))

	res, err := handleUpdateEmail(context.Background(), map[string]any{
		"message_id": "AAMk123",
		"is_read":    true,
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	assert.Equal(t, http.MethodPatch, (*captured)[0].Method)
	assert.Equal(t, true, (*captured)[0].Body["isRead"])
}

func TestSearchMessages_EscapesQuotes(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{"value":[]}`))

	res, err := handleSearchMessages(context.Background(), map[string]any{
		"query": "O'Brien",
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	assert.Contains(t, (*captured)[0].Query, "O%27%27Brien")
}

func TestDownloadAttachment_WritesFile(t *testing.T) {
	content := base64.StdEncoding.EncodeToString([]byte("attachment payload"))
	deps, _ := newTestDeps(t, okJSON(
		`{"name":"report.pdf","contentType":"application/pdf","contentBytes":"`+content+`"}`))

	savePath := filepath.Join(t.TempDir(), "report.pdf")

	res, err := handleDownloadAttachment(context.Background(), map[string]any{
		"message_id":    "AAMk123",
		"attachment_id": "att1",
		"save_path":     savePath,
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	data, err := os.ReadFile(savePath)
	require.NoError(t, err)
	assert.Equal(t, "attachment payload", string(data))

	assert.Contains(t, resultText(t, res), `"size":18`)
}

func TestDownloadAttachment_NoContentBytes(t *testing.T) {
	deps, _ := newTestDeps(t, okJSON(`{"name":"linked item"}`))

	res, err := handleDownloadAttachment(context.Background(), map[string]any{
		"message_id":    "AAMk123",
		"attachment_id": "att1",
		"save_path":     filepath.Join(t.TempDir(), "out"),
	}, deps)
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "no downloadable content")
}

func TestCreateEmailRule_RequiresAction(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{}`))

	res, err := handleCreateEmailRule(context.Background(), map[string]any{
		"display_name":   "filter newsletters",
		"from_addresses": "news@contoso.com",
	}, deps)
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Empty(t, *captured)
}

func TestCreateEmailRule_BuildsConditionsAndActions(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{"id":"rule1"}`))

	res, err := handleCreateEmailRule(context.Background(), map[string]any{
		"display_name":   "filter newsletters",
		"from_addresses": "news@contoso.com",
		"move_to_folder": "archive",
		"mark_as_read":   true,
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, "/me/mailFolders/inbox/messageRules", req.Path)

	actions := req.Body["actions"].(map[string]any)
	assert.Equal(t, "archive", actions["moveToFolder"])
	assert.Equal(t, true, actions["markAsRead"])
}

func TestCreateCategory_InvalidColorRejected(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{}`))

	res, err := handleCreateCategory(context.Background(), map[string]any{
		"display_name": "Urgent",
		"color":        "crimson",
	}, deps)
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Empty(t, *captured)
}

func TestGetMailDelta_PersistsAndResumesDeltaLink(t *testing.T) {
	var deltaLink string

	deps, captured := newTestDeps(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value":[{"id":"m1"}],"@odata.deltaLink":"` + deltaLink + `"}`))
	})

	deltaLink = deps.Client.BaseURL() + "/me/mailFolders/inbox/messages/delta?%24deltatoken=round2"

	res, err := handleGetMailDelta(context.Background(), map[string]any{
		"folder": "inbox",
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	stored, err := deps.Delta.DeltaLink(context.Background(), "inbox")
	require.NoError(t, err)
	assert.Equal(t, deltaLink, stored)

	// Second round resumes from the stored link, used verbatim.
	res, err = handleGetMailDelta(context.Background(), map[string]any{
		"folder": "inbox",
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 2)
	assert.Equal(t, "%24deltatoken=round2", (*captured)[1].Query)
}

func TestGetMailDelta_ExpiredTokenClearsStoredLink(t *testing.T) {
	deps, _ := newTestDeps(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusGone)
		_, _ = w.Write([]byte(`{"error":{"code":"syncStateNotFound","message":"state expired"}}`))
	})

	ctx := context.Background()
	require.NoError(t, deps.Delta.SaveDeltaLink(ctx, "inbox", deps.Client.BaseURL()+"/me/mailFolders/inbox/messages/delta?%24deltatoken=stale"))

	res, err := handleGetMailDelta(ctx, map[string]any{"folder": "inbox"}, deps)
	require.NoError(t, err)
	assert.True(t, res.IsError)

	stored, err := deps.Delta.DeltaLink(ctx, "inbox")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestAddAttachment_FromFilePath(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{"id":"att1"}`))

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("meeting notes"), 0o644))

	res, err := handleAddMailAttachment(context.Background(), map[string]any{
		"message_id": "AAMk123",
		"file_path":  path,
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, "#microsoft.graph.fileAttachment", req.Body["@odata.type"])
	assert.Equal(t, "notes.txt", req.Body["name"])

	decoded, err := base64.StdEncoding.DecodeString(req.Body["contentBytes"].(string))
	require.NoError(t, err)
	assert.Equal(t, "meeting notes", string(decoded))
}
