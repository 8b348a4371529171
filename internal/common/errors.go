// Package common defines shared constants and sentinel errors used across
// the bulletin board layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("remote store unavailable")

	// Input errors, raised at the boundary before a write reaches a store.
	ErrValidation = errors.New("validation error")

	// Ownership mismatch on edit or a failed destructive-action confirmation.
	ErrUnauthorized = errors.New("unauthorized")

	// Access token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
