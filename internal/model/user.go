package model

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of access levels a user can hold.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// ParseRole validates a role string against the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleManager:
		return RoleManager, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User is a registered account.
type User struct {
	ID string `json:"id" db:"id"`

	// Name is the display name, at most 60 characters.
	Name string `json:"name" db:"name"`

	// Email is stored lowercase and trimmed; unique across users.
	Email string `json:"email" db:"email"`

	// PasswordHash is the bcrypt hash of the password. Never serialized.
	PasswordHash string `json:"-" db:"password_hash"`

	Role Role `json:"role" db:"role"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Identity is the resolved actor for a single request: the subset of a
// User that policy decisions and notifications need. A zero Identity
// means the request is unauthenticated.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsZero reports whether no identity was resolved for the request.
func (i Identity) IsZero() bool {
	return i.ID == ""
}
