package auth

import "errors"

// ErrInvalidCredentials is the single login failure.  Its text is shown to
// clients verbatim, so it must not distinguish an unknown username from a
// wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Token validation failures.  Callers surface all three as the same 401;
// the distinction exists for logs and tests.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrExpired          = errors.New("token expired")
)
