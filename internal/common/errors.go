// Package common defines sentinel errors shared by repositories, services
// and the HTTP layer. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Access errors: the caller has no access to the diary, entry or post.
	ErrForbidden = errors.New("forbidden")

	// Validation errors.
	ErrInvalidImage    = errors.New("invalid image")
	ErrInvalidMimetype = errors.New("unsupported mimetype")
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidDocument = errors.New("invalid editor document")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
