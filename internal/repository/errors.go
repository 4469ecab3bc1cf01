// Package repository defines the storage collaborators and the sentinel
// errors they return.  Higher layers such as services and handlers use
// errors.Is against these values to pick a response without inspecting
// driver-specific errors.
package repository

import "errors"

// ErrNotFound is returned when no row matches the requested key.
// Handlers should translate this into an HTTP 404 response (or a
// uniform 401 on the login path).
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when provisioning a user whose
// username is already taken.
var ErrUsernameExists = errors.New("username already exists")

// ErrStorageUnavailable wraps every driver failure other than a missing
// row.  Handlers should translate this into a generic 5xx response and
// never expose the wrapped detail.
var ErrStorageUnavailable = errors.New("storage unavailable")
