// Package common defines shared constants and sentinel errors used across
// the LoveLetters server and CLI. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorUserExists         = errors.New("user already exists")
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// Mail delivery failed; the structured result carries the details.
	ErrorMailTransport = errors.New("mail transport failure")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
