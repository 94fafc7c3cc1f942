package notify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub/internal/errs"
	"github.com/taskhub/taskhub/internal/model"
	"github.com/taskhub/taskhub/internal/notify"
	"github.com/taskhub/taskhub/tests/testutil"
)

func TestInbox(t *testing.T) {
	st := testutil.NewTestStore(t)
	inbox := notify.NewInbox(st)
	ctx := context.Background()

	for _, n := range []model.Notification{
		{ID: "n1", UserID: "u1", Message: "first", Type: model.NotificationTaskAssigned, TaskID: "t1"},
		{ID: "n2", UserID: "u1", Message: "second", Type: model.NotificationTaskCompleted, TaskID: "t1"},
		{ID: "n3", UserID: "u2", Message: "other", Type: model.NotificationTaskAssigned, TaskID: "t2"},
	} {
		require.NoError(t, st.CreateNotification(ctx, n))
	}

	ident := model.Identity{ID: "u1", Role: model.RoleUser}

	ns, err := inbox.List(ctx, ident)
	require.NoError(t, err)
	assert.Len(t, ns, 2)

	count, err := inbox.CountUnread(ctx, ident)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Marking includes a foreign id; it must be ignored, not honored.
	require.NoError(t, inbox.MarkRead(ctx, ident, []string{"n1", "n3"}))

	count, err = inbox.CountUnread(ctx, ident)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	other := model.Identity{ID: "u2", Role: model.RoleUser}
	count, err = inbox.CountUnread(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "u2's notification must stay unread")
}

func TestInboxRejectsAnonymous(t *testing.T) {
	st := testutil.NewTestStore(t)
	inbox := notify.NewInbox(st)
	ctx := context.Background()

	_, err := inbox.List(ctx, model.Identity{})
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)

	err = inbox.MarkRead(ctx, model.Identity{}, []string{"n1"})
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, err = inbox.CountUnread(ctx, model.Identity{})
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestInboxMarkReadRequiresIDs(t *testing.T) {
	st := testutil.NewTestStore(t)
	inbox := notify.NewInbox(st)

	err := inbox.MarkRead(context.Background(), model.Identity{ID: "u1"}, nil)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}
