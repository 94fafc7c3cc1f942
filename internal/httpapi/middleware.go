package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskhub/taskhub/internal/auth"
	"github.com/taskhub/taskhub/internal/model"
)

// authCookieName is the session cookie set at login.
const authCookieName = "auth_token"

type contextKey int

const identityKey contextKey = iota

// identityFrom returns the identity resolved for the request, or the
// zero Identity when the request is anonymous.
func identityFrom(ctx context.Context) model.Identity {
	ident, _ := ctx.Value(identityKey).(model.Identity)
	return ident
}

// withIdentity resolves the request's session token (cookie first, then
// Authorization bearer) and stores the identity in the context. A
// request with no or an invalid token proceeds as anonymous; each
// operation rejects anonymous callers itself.
func withIdentity(resolver *auth.Resolver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if c, err := r.Cookie(authCookieName); err == nil {
			token = c.Value
		}
		if token == "" {
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimPrefix(h, "Bearer ")
			}
		}

		if ident, err := resolver.Resolve(r.Context(), token); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), identityKey, ident))
		}

		next.ServeHTTP(w, r)
	})
}
