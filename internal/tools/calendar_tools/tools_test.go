package calendar_tools

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
	Query  string
	Prefer string
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
			Prefer: r.Header.Get("Prefer"),
			Body:   body,
		})

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

func TestCreateEvent_BuildsGraphPayload(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{"id":"ev1"}`))

	res, err := handleCreateEvent(context.Background(), map[string]any{
		"subject":   "Planning",
		"start":     "2026-09-01T10:00:00",
		"end":       "2026-09-01T11:00:00",
		"timezone":  "Europe/Helsinki",
		"location":  "Room 4",
		"attendees": "alice@contoso.com,bob@contoso.com",
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, "/me/events", req.Path)

	start := req.Body["start"].(map[string]any)
	assert.Equal(t, "2026-09-01T10:00:00", start["dateTime"])
	assert.Equal(t, "Europe/Helsinki", start["timeZone"])

	assert.Len(t, req.Body["attendees"], 2)

	loc := req.Body["location"].(map[string]any)
	assert.Equal(t, "Room 4", loc["displayName"])
}

func TestCreateEvent_MissingTimesRejected(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{}`))

	res, err := handleCreateEvent(context.Background(), map[string]any{
		"subject": "no times",
	}, deps)
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Empty(t, *captured)
}

func TestDeleteEvent_SuppressesNotificationsByDefault(t *testing.T) {
	deps, captured := newTestDeps(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	res, err := handleDeleteEvent(context.Background(), map[string]any{
		"event_id": "ev1",
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	assert.Equal(t, "outlook.notification-handling=suppress", (*captured)[0].Prefer)
}

func TestDeleteEvent_NotifyAttendeesSkipsSuppression(t *testing.T) {
	deps, captured := newTestDeps(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	res, err := handleDeleteEvent(context.Background(), map[string]any{
		"event_id":         "ev1",
		"notify_attendees": true,
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	assert.Empty(t, (*captured)[0].Prefer)
}

func TestListEvents_TimezonePreferHeader(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{"value":[]}`))

	res, err := handleListEvents(context.Background(), map[string]any{
		"timezone": "Pacific Standard Time",
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	assert.Equal(t, `outlook.timezone="Pacific Standard Time"`, (*captured)[0].Prefer)
}

func TestGetSchedule_BuildsWindow(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{"value":[]}`))

	res, err := handleGetSchedule(context.Background(), map[string]any{
		"schedules": "room1@contoso.com",
		"start":     "2026-09-01T09:00:00",
		"end":       "2026-09-01T17:00:00",
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, "/me/calendar/getSchedule", req.Path)

	startTime := req.Body["startTime"].(map[string]any)
	assert.Equal(t, "UTC", startTime["timeZone"])
	assert.Equal(t, []any{"room1@contoso.com"}, req.Body["schedules"])
}

func TestListReminders_WindowInPath(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{"value":[]}`))

	res, err := handleListReminders(context.Background(), map[string]any{
		"start": "2026-09-01T00:00:00Z",
		"end":   "2026-09-08T00:00:00Z",
	}, deps)
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Len(t, *captured, 1)
	assert.Contains(t, (*captured)[0].Path, "/me/reminderView(startDateTime=")
}

func TestUpdateEvent_EmptyPatchRejected(t *testing.T) {
	deps, captured := newTestDeps(t, okJSON(`{}`))

	res, err := handleUpdateEvent(context.Background(), map[string]any{
		"event_id": "ev1",
	}, deps)
	require.NoError(t, err)

	assert.True(t, res.IsError)
	assert.Empty(t, *captured)
}
