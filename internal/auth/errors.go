package auth

import "errors"

var (
	// ErrInvalidCredentials indicates the presented password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates a token failed signature, expiry, or replay checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrPasswordMismatch indicates the new password and its confirmation differ.
	ErrPasswordMismatch = errors.New("password confirmation mismatch")
)
