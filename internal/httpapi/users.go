package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskhub/taskhub/internal/user"
)

type updateRoleIn struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func newListUsersHandler(_ *slog.Logger, svc *user.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		users, err := svc.List(ctx, identityFrom(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{"users": users}, http.StatusOK)
	}
}

func newUpdateUserRoleHandler(_ *slog.Logger, svc *user.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in updateRoleIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeMessage(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.UpdateRole(ctx, identityFrom(r.Context()), in.UserID, in.Role); err != nil {
			writeErr(w, err)
			return
		}
		writeMessage(w, "User role updated successfully", http.StatusOK)
	}
}

func newDeleteUserHandler(_ *slog.Logger, svc *user.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := svc.Delete(ctx, identityFrom(r.Context()), r.PathValue("id")); err != nil {
			writeErr(w, err)
			return
		}
		writeMessage(w, "User deleted successfully", http.StatusOK)
	}
}
