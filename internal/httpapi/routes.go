// Package httpapi is the HTTP transport over the task, user, and
// notification operations: route dispatch, JSON codec, and status-code
// mapping. No business rules live here.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taskhub/taskhub/internal/auth"
	"github.com/taskhub/taskhub/internal/notify"
	"github.com/taskhub/taskhub/internal/task"
	"github.com/taskhub/taskhub/internal/user"
)

// Deps are the in-process operations the transport exposes.
type Deps struct {
	Resolver *auth.Resolver
	Users    *user.Service
	Tasks    *task.Service
	Inbox    *notify.Inbox

	// TokenTTL bounds the session cookie lifetime.
	TokenTTL time.Duration
}

// Handler builds the full API handler with identity resolution applied
// to every route.
func Handler(log *slog.Logger, deps Deps, timeout time.Duration) http.Handler {
	mux := http.NewServeMux()

	// auth
	mux.Handle("POST /api/auth/register", newRegisterHandler(log, deps.Users, timeout))
	mux.Handle("POST /api/auth/login", newLoginHandler(log, deps, timeout))
	mux.Handle("POST /api/auth/logout", newLogoutHandler())
	mux.Handle("GET /api/auth/me", newMeHandler(log, deps.Users, timeout))

	// tasks
	mux.Handle("POST /api/tasks", newCreateTaskHandler(log, deps.Tasks, timeout))
	mux.Handle("GET /api/tasks", newListTasksHandler(log, deps.Tasks, timeout))
	mux.Handle("GET /api/tasks/{id}", newGetTaskHandler(log, deps.Tasks, timeout))
	mux.Handle("PUT /api/tasks/{id}", newUpdateTaskHandler(log, deps.Tasks, timeout))
	mux.Handle("DELETE /api/tasks/{id}", newDeleteTaskHandler(log, deps.Tasks, timeout))

	// notifications
	mux.Handle("GET /api/notifications", newListNotificationsHandler(log, deps.Inbox, timeout))
	mux.Handle("POST /api/notifications", newMarkNotificationsReadHandler(log, deps.Inbox, timeout))
	mux.Handle("GET /api/notifications/unread", newCountUnreadHandler(log, deps.Inbox, timeout))

	// users
	mux.Handle("GET /api/users", newListUsersHandler(log, deps.Users, timeout))
	mux.Handle("PUT /api/users", newUpdateUserRoleHandler(log, deps.Users, timeout))
	mux.Handle("DELETE /api/users/{id}", newDeleteUserHandler(log, deps.Users, timeout))

	return withIdentity(deps.Resolver, mux)
}
