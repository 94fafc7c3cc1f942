package model

import "time"

// NotificationType identifies what kind of event produced a notification.
type NotificationType string

const (
	NotificationTaskAssigned  NotificationType = "task_assigned"
	NotificationTaskUpdated   NotificationType = "task_updated"
	NotificationTaskCompleted NotificationType = "task_completed"
	NotificationTaskComment   NotificationType = "task_comment"
)

// Notification is an alert surfaced to a user about activity on a task.
// Notifications are created only by the dispatcher as a side effect of
// task mutations and are deleted in bulk when their task is deleted.
type Notification struct {
	ID string `json:"id" db:"id"`

	// UserID is the recipient.
	UserID string `json:"user_id" db:"user_id"`

	// Message is the human-readable notification text.
	Message string `json:"message" db:"message"`

	Type NotificationType `json:"type" db:"type"`

	// Read indicates whether the recipient has seen this notification.
	Read bool `json:"read" db:"read"`

	// TaskID links this notification to the originating task.
	TaskID string `json:"task_id" db:"task_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
