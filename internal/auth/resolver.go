package auth

import (
	"context"

	"github.com/taskhub/taskhub/internal/errs"
	"github.com/taskhub/taskhub/internal/model"
	"github.com/taskhub/taskhub/internal/store"
)

// Resolver turns a raw session token into the acting identity. The
// user record is re-fetched from the store so a deleted user or a
// changed role invalidates older tokens immediately.
type Resolver struct {
	store  store.Store
	tokens *Tokens
}

// NewResolver returns a Resolver over the given store and token codec.
func NewResolver(s store.Store, t *Tokens) *Resolver {
	return &Resolver{store: s, tokens: t}
}

// Resolve verifies the token and loads the current user state. Any
// failure resolves to ErrUnauthenticated; callers treat the request as
// anonymous.
func (r *Resolver) Resolve(ctx context.Context, token string) (model.Identity, error) {
	if token == "" {
		return model.Identity{}, errs.ErrUnauthenticated
	}

	asserted, err := r.tokens.Verify(token)
	if err != nil {
		return model.Identity{}, errs.ErrUnauthenticated
	}

	u, err := r.store.GetUserByID(ctx, asserted.ID)
	if err != nil {
		return model.Identity{}, errs.ErrUnauthenticated
	}

	return model.Identity{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}, nil
}
