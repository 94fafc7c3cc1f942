package notify

import (
	"context"

	"github.com/taskhub/taskhub/internal/errs"
	"github.com/taskhub/taskhub/internal/model"
	"github.com/taskhub/taskhub/internal/store"
)

// Inbox exposes a user's view of their own notifications. Delivery is
// pull-only; nothing is pushed to clients.
type Inbox struct {
	store store.Store
}

// NewInbox returns an Inbox reading from the given store.
func NewInbox(s store.Store) *Inbox {
	return &Inbox{store: s}
}

// List returns the identity's notifications, newest first.
func (i *Inbox) List(ctx context.Context, ident model.Identity) ([]model.Notification, error) {
	if ident.IsZero() {
		return nil, errs.ErrUnauthenticated
	}
	return i.store.GetNotifications(ctx, ident.ID)
}

// MarkRead marks the given notifications as read. Only notifications
// addressed to the identity are affected; foreign ids are ignored.
func (i *Inbox) MarkRead(ctx context.Context, ident model.Identity, ids []string) error {
	if ident.IsZero() {
		return errs.ErrUnauthenticated
	}
	if len(ids) == 0 {
		return errs.ErrInvalidInput
	}
	return i.store.MarkNotificationsRead(ctx, ident.ID, ids)
}

// CountUnread returns the number of the identity's unread notifications.
func (i *Inbox) CountUnread(ctx context.Context, ident model.Identity) (int, error) {
	if ident.IsZero() {
		return 0, errs.ErrUnauthenticated
	}
	return i.store.CountUnreadNotifications(ctx, ident.ID)
}
