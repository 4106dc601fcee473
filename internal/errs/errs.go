// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique-key violation (e.g. username or
	// like already taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrForbidden indicates the caller does not own the target document.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput indicates the provider rejected a malformed value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrWeakCredential indicates the provider rejected a weak password.
	ErrWeakCredential = errors.New("weak credential")

	// ErrRateLimited indicates the provider is throttling the caller.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotFriends indicates messaging was attempted without an accepted
	// friendship.
	ErrNotFriends = errors.New("users are not friends")
)
