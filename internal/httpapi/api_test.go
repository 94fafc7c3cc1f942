package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub/internal/auth"
	"github.com/taskhub/taskhub/internal/httpapi"
	"github.com/taskhub/taskhub/internal/model"
	"github.com/taskhub/taskhub/internal/notify"
	"github.com/taskhub/taskhub/internal/store"
	"github.com/taskhub/taskhub/internal/task"
	"github.com/taskhub/taskhub/internal/user"
	"github.com/taskhub/taskhub/tests/testutil"
)

type apiTest struct {
	t      *testing.T
	server *httptest.Server
	store  *store.SQLiteStore
}

func newAPITest(t *testing.T) *apiTest {
	t.Helper()

	st := testutil.NewTestStore(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokens([]byte("test-secret"), time.Hour)
	dispatcher := notify.NewDispatcher(st, log)

	handler := httpapi.Handler(log, httpapi.Deps{
		Resolver: auth.NewResolver(st, tokens),
		Users:    user.NewService(st, tokens, 4),
		Tasks:    task.NewService(st, dispatcher),
		Inbox:    notify.NewInbox(st),
		TokenTTL: tokens.TTL(),
	}, 5*time.Second)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &apiTest{t: t, server: server, store: st}
}

// call sends a JSON request and decodes the JSON response body.
func (a *apiTest) call(method, path, token string, body any) (int, map[string]json.RawMessage) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, a.server.URL+path, &buf)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.server.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	out := map[string]json.RawMessage{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

// signup registers a user, optionally promotes them, and returns
// (user id, session token).
func (a *apiTest) signup(name, email, password string, role model.Role) (string, string) {
	a.t.Helper()

	code, body := a.call(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(a.t, http.StatusCreated, code)

	var id string
	require.NoError(a.t, json.Unmarshal(body["userId"], &id))

	if role != model.RoleUser {
		require.NoError(a.t, a.store.UpdateUserRole(context.Background(), id, role))
	}

	code, body = a.call(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(a.t, http.StatusOK, code)

	var token string
	require.NoError(a.t, json.Unmarshal(body["token"], &token))
	return id, token
}

func taskPayload(assignedTo string) map[string]string {
	return map[string]string{
		"title":       "Report",
		"description": "Quarterly report",
		"due_date":    "2026-09-01",
		"priority":    "high",
		"status":      "pending",
		"assigned_to": assignedTo,
	}
}

func TestAuthFlow(t *testing.T) {
	a := newAPITest(t)

	code, _ := a.call(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "longenough",
	})
	assert.Equal(t, http.StatusCreated, code)

	// Duplicate registration.
	code, _ = a.call(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "longenough",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// Bad credentials.
	code, _ = a.call(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := a.call(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "longenough",
	})
	require.Equal(t, http.StatusOK, code)

	var token string
	require.NoError(t, json.Unmarshal(body["token"], &token))

	code, body = a.call(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)

	var u model.User
	require.NoError(t, json.Unmarshal(body["user"], &u))
	assert.Equal(t, "ada@example.com", u.Email)

	// Anonymous me.
	code, _ = a.call(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestTaskFlow(t *testing.T) {
	a := newAPITest(t)

	_, creatorTok := a.signup("Ada", "ada@example.com", "longenough", model.RoleUser)
	assigneeID, assigneeTok := a.signup("Bob", "bob@example.com", "longenough", model.RoleUser)
	_, strangerTok := a.signup("Eve", "eve@example.com", "longenough", model.RoleUser)

	// Anonymous create.
	code, _ := a.call(http.MethodPost, "/api/tasks", "", taskPayload(assigneeID))
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := a.call(http.MethodPost, "/api/tasks", creatorTok, taskPayload(assigneeID))
	require.Equal(t, http.StatusCreated, code)

	var taskID string
	require.NoError(t, json.Unmarshal(body["taskId"], &taskID))

	// The assignee was notified.
	code, body = a.call(http.MethodGet, "/api/notifications", assigneeTok, nil)
	require.Equal(t, http.StatusOK, code)
	var ns []model.Notification
	require.NoError(t, json.Unmarshal(body["notifications"], &ns))
	require.Len(t, ns, 1)
	assert.Equal(t, model.NotificationTaskAssigned, ns[0].Type)

	// A stranger cannot read the task.
	code, _ = a.call(http.MethodGet, "/api/tasks/"+taskID, strangerTok, nil)
	assert.Equal(t, http.StatusForbidden, code)

	// The assignee's title rewrite is dropped; the status lands.
	code, body = a.call(http.MethodPut, "/api/tasks/"+taskID, assigneeTok, map[string]string{
		"status": "completed",
		"title":  "Hacked",
	})
	require.Equal(t, http.StatusOK, code)

	var updated model.Task
	require.NoError(t, json.Unmarshal(body["task"], &updated))
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, "Report", updated.Title)

	// The creator got the completion notification; mark it read.
	code, body = a.call(http.MethodGet, "/api/notifications", creatorTok, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body["notifications"], &ns))
	require.Len(t, ns, 1)
	assert.Equal(t, model.NotificationTaskCompleted, ns[0].Type)

	code, body = a.call(http.MethodGet, "/api/notifications/unread", creatorTok, nil)
	require.Equal(t, http.StatusOK, code)
	var count int
	require.NoError(t, json.Unmarshal(body["count"], &count))
	assert.Equal(t, 1, count)

	code, _ = a.call(http.MethodPost, "/api/notifications", creatorTok, map[string]any{
		"ids": []string{ns[0].ID},
	})
	require.Equal(t, http.StatusOK, code)

	code, body = a.call(http.MethodGet, "/api/notifications/unread", creatorTok, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body["count"], &count))
	assert.Equal(t, 0, count)

	// List visibility: the stranger sees nothing.
	code, body = a.call(http.MethodGet, "/api/tasks", strangerTok, nil)
	require.Equal(t, http.StatusOK, code)
	var tasks []model.Task
	require.NoError(t, json.Unmarshal(body["tasks"], &tasks))
	assert.Empty(t, tasks)

	// Delete: stranger forbidden, creator allowed, then gone.
	code, _ = a.call(http.MethodDelete, "/api/tasks/"+taskID, strangerTok, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.call(http.MethodDelete, "/api/tasks/"+taskID, creatorTok, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = a.call(http.MethodGet, "/api/tasks/"+taskID, creatorTok, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUserAdminEndpoints(t *testing.T) {
	a := newAPITest(t)

	targetID, targetTok := a.signup("Ada", "ada@example.com", "longenough", model.RoleUser)
	_, adminTok := a.signup("Root", "root@example.com", "longenough", model.RoleAdmin)

	// Role change requires admin.
	code, _ := a.call(http.MethodPut, "/api/users", targetTok, map[string]string{
		"user_id": targetID, "role": "manager",
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.call(http.MethodPut, "/api/users", adminTok, map[string]string{
		"user_id": targetID, "role": "manager",
	})
	assert.Equal(t, http.StatusOK, code)

	// Any authenticated user may list; hashes never appear.
	code, body := a.call(http.MethodGet, "/api/users", targetTok, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(body["users"]), "password")

	// Deletion requires admin.
	code, _ = a.call(http.MethodDelete, "/api/users/"+targetID, targetTok, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.call(http.MethodDelete, "/api/users/"+targetID, adminTok, nil)
	assert.Equal(t, http.StatusOK, code)

	// The deleted user's token is dead.
	code, _ = a.call(http.MethodGet, "/api/auth/me", targetTok, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
