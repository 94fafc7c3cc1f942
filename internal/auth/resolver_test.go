package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub/internal/auth"
	"github.com/taskhub/taskhub/internal/errs"
	"github.com/taskhub/taskhub/internal/model"
	"github.com/taskhub/taskhub/tests/testutil"
)

func TestResolve(t *testing.T) {
	st := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateUser(ctx, model.User{
		ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "h", Role: model.RoleUser,
	}))

	tokens := auth.NewTokens([]byte("secret"), time.Hour)
	resolver := auth.NewResolver(st, tokens)

	signed, err := tokens.Issue(model.Identity{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: model.RoleUser})
	require.NoError(t, err)

	ident, err := resolver.Resolve(ctx, signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", ident.ID)
	assert.Equal(t, model.RoleUser, ident.Role)
}

func TestResolveReflectsCurrentUserState(t *testing.T) {
	st := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateUser(ctx, model.User{
		ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "h", Role: model.RoleUser,
	}))

	tokens := auth.NewTokens([]byte("secret"), time.Hour)
	resolver := auth.NewResolver(st, tokens)

	signed, err := tokens.Issue(model.Identity{ID: "u1", Role: model.RoleUser})
	require.NoError(t, err)

	// A role change after issuance wins over the token's stale claim.
	require.NoError(t, st.UpdateUserRole(ctx, "u1", model.RoleAdmin))
	ident, err := resolver.Resolve(ctx, signed)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, ident.Role)

	// A deleted user invalidates the token immediately.
	require.NoError(t, st.DeleteUser(ctx, "u1"))
	_, err = resolver.Resolve(ctx, signed)
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestResolveRejectsBadTokens(t *testing.T) {
	st := testutil.NewTestStore(t)
	resolver := auth.NewResolver(st, auth.NewTokens([]byte("secret"), time.Hour))

	_, err := resolver.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, err = resolver.Resolve(context.Background(), "garbage")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}
