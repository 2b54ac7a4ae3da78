package domain

import "errors"

var (
	// ErrDuplicateUsername is returned when sign-up hits an existing username.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrInvalidCredentials covers both unknown username and wrong password,
	// so login failures never reveal whether an account exists.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrEmptyMessage is returned when a chat message is empty or whitespace-only.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrModelUnavailable covers rate limiting, network failure, and
	// safety-filter rejection from the model provider.
	ErrModelUnavailable = errors.New("assistant is unavailable")

	// ErrStoreUnavailable covers persistence-layer failures.
	ErrStoreUnavailable = errors.New("storage unavailable")

	// ErrNotFound is returned by store lookups that match no row.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when sign-up input is malformed.
	ErrValidation = errors.New("invalid input")
)
