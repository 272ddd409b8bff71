// Package common defines shared constants and sentinel errors used across
// client and server layers of photo-pigeon. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Validation errors (caught before any side effect).
	ErrInvalidURL = errors.New("invalid server url")

	// Dedup hits. Not a failure: the content or path is already known.
	ErrDuplicate = errors.New("already uploaded")

	// Auth errors.
	ErrAuthRequired  = errors.New("authentication required")
	ErrInvalidToken  = errors.New("invalid token")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrUserExists    = errors.New("user already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrBadCredential = errors.New("invalid credentials")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")
)
