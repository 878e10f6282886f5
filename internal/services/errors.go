package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Kind classifies service errors for the request boundary.
type Kind int

const (
	KindUnexpected Kind = iota
	KindNotAuthenticated
	KindNotAuthorized
	KindNotFound
	KindConflict
	KindSelfLike
	KindInvalidInput
)

// Error is a domain error with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrNotAuthenticated   = &Error{KindNotAuthenticated, "You must be logged in."}
	ErrMissingIdentity    = &Error{KindNotAuthenticated, "No pending Google identity, please sign in again."}
	ErrInvalidCredentials = &Error{KindNotAuthenticated, "Invalid username or password."}
	ErrNotAuthorized      = &Error{KindNotAuthorized, "You are not authorized to delete this post."}
	ErrPostNotFound       = &Error{KindNotFound, "Post not found."}
	ErrUserNotFound       = &Error{KindNotFound, "User not found."}
	ErrUsernameTaken      = &Error{KindConflict, "Username already exists."}
	ErrIdentityRegistered = &Error{KindConflict, "This Google account already has a username."}
	ErrSelfLike           = &Error{KindSelfLike, "You cannot like your own post."}
)

func invalidInput(msg string) error {
	return &Error{KindInvalidInput, msg}
}

// KindOf returns the Kind of err; anything that is not an *Error is unexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
