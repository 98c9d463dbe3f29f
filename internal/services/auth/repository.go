package auth

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrDuplicate is returned when trying to create a user with an email that already exists
var ErrDuplicate = errors.New("user with this email already exists")

// ErrUserNotFound is returned when no active user matches the lookup
var ErrUserNotFound = errors.New("user not found")

// UsersRepo defines the interface for user repository operations.
// All lookups exclude soft-deleted (inactive) users.
type UsersRepo interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*User, error)

	// SetResetToken stores the reset-token digest and its expiry without
	// touching any other field.
	SetResetToken(ctx context.Context, id bson.ObjectID, tokenHash string, expires time.Time) error

	// ClearResetToken removes the reset-token digest and expiry. Used to roll
	// back a forgot-password attempt whose notification email never went out.
	ClearResetToken(ctx context.Context, id bson.ObjectID) error

	// ResetPasswordByToken atomically finds the user whose stored reset-token
	// digest matches and whose expiry is in the future, sets the new password
	// hash and change timestamp, and clears the reset fields. Returns
	// ErrUserNotFound when no user matches, which callers must treat as
	// "token invalid or expired". The single filtered update guarantees a
	// token is consumed at most once even under concurrent resets.
	ResetPasswordByToken(ctx context.Context, tokenHash, passwordHash string, changedAt time.Time) (*User, error)

	// UpdatePassword replaces the password hash and change timestamp.
	UpdatePassword(ctx context.Context, id bson.ObjectID, passwordHash string, changedAt time.Time) error
}

// Mailer dispatches transactional email. The auth service only depends on
// this interface so tests can inject a failing implementation.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
