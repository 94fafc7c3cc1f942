package store

import (
	"context"

	"github.com/taskhub/taskhub/internal/model"
)

// TaskFilter controls filtering for task list queries. Nil fields are
// not applied; set fields combine with AND semantics. Results are
// always ordered newest-created first.
type TaskFilter struct {
	// VisibleTo restricts results to tasks the given user created or is
	// assigned to. Nil means no visibility restriction (admin).
	VisibleTo *string

	Status     *string
	Priority   *string
	AssignedTo *string
	CreatedBy  *string

	// Search matches case-insensitively against title or description.
	Search *string
}

// Store defines the persistence interface for users, tasks, and
// notifications. Implementations provide single-row atomicity only;
// concurrent writers to the same row resolve last-write-wins.
type Store interface {
	// === Users ===

	CreateUser(ctx context.Context, u model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUsers(ctx context.Context) ([]model.User, error)
	UpdateUserRole(ctx context.Context, id string, role model.Role) error

	// DeleteUser removes the user row only. Tasks referencing the user
	// via created_by or assigned_to keep their ids as dangling references.
	DeleteUser(ctx context.Context, id string) error

	// === Tasks ===

	// SaveTask inserts or replaces a task as a single atomic write.
	SaveTask(ctx context.Context, t model.Task) error
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)
	GetTasks(ctx context.Context, f TaskFilter) ([]model.Task, error)

	// DeleteTask removes the task and all notifications referencing it.
	DeleteTask(ctx context.Context, id string) error

	// === Notifications ===

	CreateNotification(ctx context.Context, n model.Notification) error
	GetNotifications(ctx context.Context, userID string) ([]model.Notification, error)

	// MarkNotificationsRead marks the given notifications read, but only
	// those addressed to userID; other ids in the set are ignored.
	MarkNotificationsRead(ctx context.Context, userID string, ids []string) error
	CountUnreadNotifications(ctx context.Context, userID string) (int, error)
}
