package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskhub/taskhub/internal/user"
)

type registerIn struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func newRegisterHandler(_ *slog.Logger, svc *user.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in registerIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeMessage(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		id, err := svc.Register(ctx, in.Name, in.Email, in.Password)
		if err != nil {
			writeErr(w, err)
			return
		}

		writeJSON(w, map[string]any{
			"message": "User registered successfully",
			"userId":  id,
		}, http.StatusCreated)
	}
}

func newLoginHandler(_ *slog.Logger, deps Deps, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in loginIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeMessage(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		ident, token, err := deps.Users.Login(ctx, in.Email, in.Password)
		if err != nil {
			writeErr(w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     authCookieName,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			MaxAge:   int(deps.TokenTTL / time.Second),
			SameSite: http.SameSiteStrictMode,
		})

		// The token is also returned in the body for non-browser clients.
		writeJSON(w, map[string]any{
			"message": "Login successful",
			"token":   token,
			"user":    ident,
		}, http.StatusOK)
	}
}

func newLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     authCookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
			SameSite: http.SameSiteStrictMode,
		})
		writeMessage(w, "Logged out", http.StatusOK)
	}
}

func newMeHandler(_ *slog.Logger, svc *user.Service, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		u, err := svc.Current(ctx, identityFrom(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, map[string]any{"user": u}, http.StatusOK)
	}
}
