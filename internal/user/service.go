// Package user implements account operations: registration, login,
// listing, and the admin-only role and deletion actions.
package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/taskhub/taskhub/internal/auth"
	"github.com/taskhub/taskhub/internal/errs"
	"github.com/taskhub/taskhub/internal/model"
	"github.com/taskhub/taskhub/internal/store"
)

// ErrEmailTaken is returned by Register when the email already has an
// account. It maps to invalid input at the transport, matching the
// original behavior of not distinguishing the two for callers.
var ErrEmailTaken = fmt.Errorf("%w: user already exists", errs.ErrInvalidInput)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Service coordinates account reads and writes against the store.
type Service struct {
	store      store.Store
	tokens     *auth.Tokens
	bcryptCost int
}

// NewService returns a Service issuing tokens with the given codec.
func NewService(s store.Store, t *auth.Tokens, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = auth.DefaultBcryptCost
	}
	return &Service{store: s, tokens: t, bcryptCost: bcryptCost}
}

// Register creates a new account with the "user" role. The email is
// lowercased and trimmed before the uniqueness check.
func (s *Service) Register(ctx context.Context, name, email, password string) (string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	switch {
	case name == "" || email == "" || password == "":
		return "", fmt.Errorf("%w: all fields are required", errs.ErrInvalidInput)
	case len(name) > 60:
		return "", fmt.Errorf("%w: name cannot be more than 60 characters", errs.ErrInvalidInput)
	case !emailPattern.MatchString(email):
		return "", fmt.Errorf("%w: invalid email", errs.ErrInvalidInput)
	case len(password) < 8:
		return "", fmt.Errorf("%w: password must be at least 8 characters", errs.ErrInvalidInput)
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return "", ErrEmailTaken
	} else if !errors.Is(err, errs.ErrNotFound) {
		return "", fmt.Errorf("checking existing user: %w", err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", err
	}

	u := model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return "", fmt.Errorf("registering user: %w", err)
	}

	return u.ID, nil
}

// Login checks the credentials and returns the identity plus a signed
// session token. Unknown email and wrong password are indistinguishable
// to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (model.Identity, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return model.Identity{}, "", fmt.Errorf("%w: email and password are required", errs.ErrInvalidInput)
	}

	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return model.Identity{}, "", errs.ErrUnauthenticated
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return model.Identity{}, "", errs.ErrUnauthenticated
	}

	ident := model.Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
	token, err := s.tokens.Issue(ident)
	if err != nil {
		return model.Identity{}, "", fmt.Errorf("logging in: %w", err)
	}

	return ident, token, nil
}

// Current re-fetches the acting identity's user record.
func (s *Service) Current(ctx context.Context, ident model.Identity) (*model.User, error) {
	if ident.IsZero() {
		return nil, errs.ErrUnauthenticated
	}
	return s.store.GetUserByID(ctx, ident.ID)
}

// List returns all users. Any authenticated identity may list users;
// password hashes never leave the model's JSON surface.
func (s *Service) List(ctx context.Context, ident model.Identity) ([]model.User, error) {
	if ident.IsZero() {
		return nil, errs.ErrUnauthenticated
	}
	return s.store.GetUsers(ctx)
}

// UpdateRole changes another user's role. Admin only.
func (s *Service) UpdateRole(ctx context.Context, ident model.Identity, userID string, role string) error {
	if ident.IsZero() {
		return errs.ErrUnauthenticated
	}
	if ident.Role != model.RoleAdmin {
		return fmt.Errorf("%w: admin access required", errs.ErrForbidden)
	}
	if userID == "" || role == "" {
		return fmt.Errorf("%w: missing required fields", errs.ErrInvalidInput)
	}

	parsed, err := model.ParseRole(role)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
	}

	return s.store.UpdateUserRole(ctx, userID, parsed)
}

// Delete removes a user account. Admin only. Tasks referencing the
// deleted user keep their ids; no reassignment happens.
func (s *Service) Delete(ctx context.Context, ident model.Identity, userID string) error {
	if ident.IsZero() {
		return errs.ErrUnauthenticated
	}
	if ident.Role != model.RoleAdmin {
		return fmt.Errorf("%w: admin access required", errs.ErrForbidden)
	}
	return s.store.DeleteUser(ctx, userID)
}
