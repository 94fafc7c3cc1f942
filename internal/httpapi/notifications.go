package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskhub/taskhub/internal/notify"
)

type markReadIn struct {
	IDs []string `json:"ids"`
}

func newListNotificationsHandler(_ *slog.Logger, inbox *notify.Inbox, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		notifications, err := inbox.List(ctx, identityFrom(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{"notifications": notifications}, http.StatusOK)
	}
}

func newMarkNotificationsReadHandler(_ *slog.Logger, inbox *notify.Inbox, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in markReadIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeMessage(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := inbox.MarkRead(ctx, identityFrom(r.Context()), in.IDs); err != nil {
			writeErr(w, err)
			return
		}
		writeMessage(w, "Notifications marked as read", http.StatusOK)
	}
}

func newCountUnreadHandler(_ *slog.Logger, inbox *notify.Inbox, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		count, err := inbox.CountUnread(ctx, identityFrom(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{"count": count}, http.StatusOK)
	}
}
