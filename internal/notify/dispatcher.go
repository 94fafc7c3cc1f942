// Package notify turns detected task transitions into persisted
// notification records. Every write is best-effort: a failed write is
// logged and swallowed, never surfaced to the caller, and never rolls
// back the task mutation that triggered it.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskhub/taskhub/internal/model"
	"github.com/taskhub/taskhub/internal/store"
)

// Transitions describes the lifecycle changes detected by one task
// mutation.
type Transitions struct {
	// NewAssignee is set when the task's assignee changed to a user
	// other than the actor. Empty means no assignment notification.
	NewAssignee string

	// Completed is set when status became "completed" and was not
	// "completed" before, regardless of which actor made the change.
	Completed bool
}

// Dispatcher creates notification records for task lifecycle events.
type Dispatcher struct {
	store store.Store
	log   *slog.Logger
}

// NewDispatcher returns a Dispatcher writing through the given store.
func NewDispatcher(s store.Store, log *slog.Logger) *Dispatcher {
	return &Dispatcher{store: s, log: log}
}

// TaskCreated emits the assignment notification for a newly created
// task when it is assigned to someone other than its creator. It
// returns the notifications actually persisted.
func (d *Dispatcher) TaskCreated(ctx context.Context, task model.Task, actor model.Identity) []model.Notification {
	if task.AssignedTo == actor.ID {
		return nil
	}
	n := model.Notification{
		UserID:  task.AssignedTo,
		Message: fmt.Sprintf("You have been assigned a new task: %s", task.Title),
		Type:    model.NotificationTaskAssigned,
		TaskID:  task.ID,
	}
	return d.persist(ctx, n)
}

// TaskUpdated emits notifications for the transitions detected by an
// update: an assignment notification to the new assignee and a
// completion notification to the task's creator. The creator is
// notified of completion even when they completed the task themselves,
// so they always hold a durable record.
func (d *Dispatcher) TaskUpdated(ctx context.Context, task model.Task, tr Transitions) []model.Notification {
	var created []model.Notification

	if tr.NewAssignee != "" {
		n := model.Notification{
			UserID:  tr.NewAssignee,
			Message: fmt.Sprintf("You have been assigned to task: %s", task.Title),
			Type:    model.NotificationTaskAssigned,
			TaskID:  task.ID,
		}
		created = append(created, d.persist(ctx, n)...)
	}

	if tr.Completed {
		n := model.Notification{
			UserID:  task.CreatedBy,
			Message: fmt.Sprintf("Task %q has been marked as completed", task.Title),
			Type:    model.NotificationTaskCompleted,
			TaskID:  task.ID,
		}
		created = append(created, d.persist(ctx, n)...)
	}

	return created
}

// persist writes one notification, degrading to a log entry on failure.
func (d *Dispatcher) persist(ctx context.Context, n model.Notification) []model.Notification {
	if err := d.store.CreateNotification(ctx, n); err != nil {
		d.log.Error("dropping notification",
			"type", string(n.Type),
			"user_id", n.UserID,
			"task_id", n.TaskID,
			"error", err,
		)
		return nil
	}
	return []model.Notification{n}
}
