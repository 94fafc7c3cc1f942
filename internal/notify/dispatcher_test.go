package notify_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub/internal/model"
	"github.com/taskhub/taskhub/internal/notify"
	"github.com/taskhub/taskhub/internal/store"
	"github.com/taskhub/taskhub/tests/testutil"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTaskCreatedNotifiesAssignee(t *testing.T) {
	st := testutil.NewTestStore(t)
	d := notify.NewDispatcher(st, discard())

	task := model.Task{ID: "t1", Title: "Report", CreatedBy: "u1", AssignedTo: "u2"}
	created := d.TaskCreated(context.Background(), task, model.Identity{ID: "u1"})

	require.Len(t, created, 1)
	assert.Equal(t, "u2", created[0].UserID)
	assert.Equal(t, model.NotificationTaskAssigned, created[0].Type)
	assert.Equal(t, "You have been assigned a new task: Report", created[0].Message)
}

func TestTaskCreatedSelfAssignmentSilent(t *testing.T) {
	st := testutil.NewTestStore(t)
	d := notify.NewDispatcher(st, discard())

	task := model.Task{ID: "t1", Title: "Report", CreatedBy: "u1", AssignedTo: "u1"}
	created := d.TaskCreated(context.Background(), task, model.Identity{ID: "u1"})
	assert.Empty(t, created)
}

func TestTaskUpdatedEmitsBothTransitions(t *testing.T) {
	st := testutil.NewTestStore(t)
	d := notify.NewDispatcher(st, discard())

	task := model.Task{ID: "t1", Title: "Report", CreatedBy: "u1", AssignedTo: "u3"}
	created := d.TaskUpdated(context.Background(), task, notify.Transitions{
		NewAssignee: "u3",
		Completed:   true,
	})

	require.Len(t, created, 2)
	assert.Equal(t, "u3", created[0].UserID)
	assert.Equal(t, model.NotificationTaskAssigned, created[0].Type)
	assert.Equal(t, "u1", created[1].UserID)
	assert.Equal(t, model.NotificationTaskCompleted, created[1].Type)
	assert.Equal(t, `Task "Report" has been marked as completed`, created[1].Message)
}

func TestTaskUpdatedNoTransitionsNoWrites(t *testing.T) {
	st := testutil.NewTestStore(t)
	d := notify.NewDispatcher(st, discard())

	created := d.TaskUpdated(context.Background(), model.Task{ID: "t1"}, notify.Transitions{})
	assert.Empty(t, created)

	ns, err := st.GetNotifications(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, ns)
}

// failingStore rejects notification writes to exercise the degrade-and-log path.
type failingStore struct {
	store.Store
}

func (f *failingStore) CreateNotification(context.Context, model.Notification) error {
	return errors.New("disk full")
}

func TestDispatchIsBestEffort(t *testing.T) {
	st := testutil.NewTestStore(t)
	d := notify.NewDispatcher(&failingStore{Store: st}, discard())

	task := model.Task{ID: "t1", Title: "Report", CreatedBy: "u1", AssignedTo: "u2"}

	// A failed write yields no notification and no error escapes.
	created := d.TaskCreated(context.Background(), task, model.Identity{ID: "u1"})
	assert.Empty(t, created)

	created = d.TaskUpdated(context.Background(), task, notify.Transitions{Completed: true})
	assert.Empty(t, created)
}
